package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"serviceflow/internal/domain"
)

// DefaultTimeout bounds a lookup request when NewHTTP is given no timeout.
const DefaultTimeout = 15 * time.Second

// HTTP talks JSON to the ServiceFlow API.
type HTTP struct {
	Base string
	HTTP *http.Client
	// Timeout bounds GET requests. Account creation is bounded only by the
	// caller's context.
	Timeout time.Duration
}

// NewHTTP returns a client for base. A zero timeout selects DefaultTimeout.
func NewHTTP(base string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		Base:    strings.TrimRight(base, "/"),
		HTTP:    &http.Client{},
		Timeout: timeout,
	}
}

// CreateAccount posts a registration. It waits as long as ctx allows.
func (c *HTTP) CreateAccount(ctx context.Context, req domain.AccountRequest) (domain.Account, error) {
	var out domain.Account
	if err := c.post(ctx, PathAccounts, req, &out); err != nil {
		return domain.Account{}, err
	}
	return out, nil
}

// CurrentPosition asks the backend for the caller's approximate position.
func (c *HTTP) CurrentPosition(ctx context.Context) (domain.GeoLocation, error) {
	var out domain.GeoLocation
	if err := c.getJSON(ctx, PathCurrent, nil, &out); err != nil {
		return domain.GeoLocation{}, err
	}
	return out, nil
}

// ReverseGeocode resolves a point to its nearest address.
func (c *HTTP) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.GeoLocation, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	var out domain.GeoLocation
	if err := c.getJSON(ctx, PathReverse, q, &out); err != nil {
		return domain.GeoLocation{}, err
	}
	return out, nil
}

// SearchAddress returns address suggestions, restricted to country when set.
func (c *HTTP) SearchAddress(ctx context.Context, query, country string) ([]domain.GeoLocation, error) {
	q := url.Values{}
	q.Set("q", query)
	if country != "" {
		q.Set("country", country)
	}

	var out []domain.GeoLocation
	if err := c.getJSON(ctx, PathSearch, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health checks that the backend is reachable.
func (c *HTTP) Health(ctx context.Context) error {
	var out HealthResponse
	return c.getJSON(ctx, PathHealth, nil, &out)
}

func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", defaultContentType)
	return c.do(req, path, out)
}

func (c *HTTP) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	u := c.Base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

func (c *HTTP) do(req *http.Request, path string, out any) error {
	req.Header.Set("Accept", defaultContentType)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		se := &StatusError{Method: req.Method, Path: path, Status: resp.StatusCode}
		// The body is informational; a malformed one still yields the status.
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodyBytes)).Decode(&se.Body)
		return se
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var (
	_ domain.AccountClient     = (*HTTP)(nil)
	_ domain.GeocodingProvider = (*HTTP)(nil)
)
