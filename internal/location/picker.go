package location

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"serviceflow/internal/domain"
)

const (
	// DefaultTimeout bounds every provider call.
	DefaultTimeout = 10 * time.Second
	// DefaultCountry restricts address suggestions.
	DefaultCountry = "mx"
)

// DefaultCenter is the initial map center before the user picks anything.
var DefaultCenter = domain.GeoLocation{
	Latitude:         17.9564,
	Longitude:        -102.1908,
	FormattedAddress: "Lázaro Cárdenas, Michoacán, México",
}

// Config tunes a Picker.
type Config struct {
	Timeout         time.Duration
	Country         string
	DenyGeolocation bool
	Center          domain.GeoLocation
}

// Picker wraps a GeocodingProvider behind the wizard's location contract.
type Picker struct {
	provider domain.GeocodingProvider
	cfg      Config
	log      *zap.Logger
}

// New returns a Picker. Zero config values fall back to the package defaults.
func New(provider domain.GeocodingProvider, cfg Config, log *zap.Logger) *Picker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}
	if cfg.Center == (domain.GeoLocation{}) {
		cfg.Center = DefaultCenter
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Picker{provider: provider, cfg: cfg, log: log.Named("location")}
}

// DefaultCenter returns the initial map center. It is not a confirmed location.
func (p *Picker) DefaultCenter() domain.GeoLocation { return p.cfg.Center }

// RequestCurrentPosition implements "find my location".
func (p *Picker) RequestCurrentPosition(ctx context.Context, sink domain.LocationSink) {
	if p.cfg.DenyGeolocation {
		sink.Advise(Advisory(domain.ErrPermissionDenied))
		return
	}

	loc, err := withTimeout(ctx, p.cfg.Timeout, p.provider.CurrentPosition)
	if err != nil {
		p.log.Debug("current position failed", zap.Error(err))
		p.fail(err, sink)
		return
	}
	if loc.FormattedAddress == "" {
		p.PickPoint(ctx, loc.Latitude, loc.Longitude, sink)
		return
	}
	p.confirm(loc, sink)
}

// PickPoint handles a map click or marker drag at (lat, lng).
func (p *Picker) PickPoint(ctx context.Context, lat, lng float64, sink domain.LocationSink) {
	point := domain.GeoLocation{Latitude: lat, Longitude: lng}
	if !point.ValidCoordinates() {
		sink.Advise(domain.LocationAdvisory{
			Kind:    domain.AdvisoryInvalid,
			Message: "That point is outside the map.",
		})
		return
	}

	loc, err := withTimeout(ctx, p.cfg.Timeout, func(ctx context.Context) (domain.GeoLocation, error) {
		return p.provider.ReverseGeocode(ctx, lat, lng)
	})
	if err != nil {
		p.log.Debug("reverse geocode failed",
			zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		p.fail(err, sink)
		return
	}
	// Keep the exact point the user chose; the provider only names it.
	loc.Latitude, loc.Longitude = lat, lng
	p.confirm(loc, sink)
}

// Search returns address suggestions for query, restricted to the configured country.
func (p *Picker) Search(ctx context.Context, query string) ([]domain.GeoLocation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	out, err := withTimeout(ctx, p.cfg.Timeout, func(ctx context.Context) ([]domain.GeoLocation, error) {
		return p.provider.SearchAddress(ctx, query, p.cfg.Country)
	})
	if err != nil {
		return nil, err
	}
	valid := make([]domain.GeoLocation, 0, len(out))
	for _, loc := range out {
		if loc.ValidCoordinates() && loc.FormattedAddress != "" {
			valid = append(valid, loc)
		}
	}
	return valid, nil
}

// Accept confirms an autocomplete suggestion.
func (p *Picker) Accept(suggestion domain.GeoLocation, sink domain.LocationSink) {
	if !suggestion.ValidCoordinates() || strings.TrimSpace(suggestion.FormattedAddress) == "" {
		sink.Advise(domain.LocationAdvisory{
			Kind:    domain.AdvisoryInvalid,
			Message: "That suggestion has no location. Try another one.",
		})
		return
	}
	p.confirm(suggestion, sink)
}

func (p *Picker) confirm(loc domain.GeoLocation, sink domain.LocationSink) {
	p.log.Debug("location confirmed", zap.Stringer("location", loc))
	sink.ConfirmLocation(loc)
}

// fail reports err to sink unless the caller went away.
func (p *Picker) fail(err error, sink domain.LocationSink) {
	if errors.Is(err, context.Canceled) {
		return
	}
	sink.Advise(Advisory(err))
}

// Advisory converts a provider error into the banner shown to the user.
func Advisory(err error) domain.LocationAdvisory {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return domain.LocationAdvisory{
			Kind:    domain.AdvisoryDenied,
			Message: "Location access was denied. Type your address instead.",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return domain.LocationAdvisory{
			Kind:    domain.AdvisoryTimeout,
			Message: "Finding your location took too long. Type your address instead.",
		}
	case errors.Is(err, domain.ErrNoResults):
		return domain.LocationAdvisory{
			Kind:    domain.AdvisoryNoResults,
			Message: "No matching address found. Type your address instead.",
		}
	default:
		return domain.LocationAdvisory{
			Kind:    domain.AdvisoryUnavailable,
			Message: "The map service is unavailable right now. Type your address instead.",
		}
	}
}

type result[T any] struct {
	val T
	err error
}

// withTimeout runs fn under a deadline and returns as soon as the deadline passes,
// even if fn has not returned yet.
func withTimeout[T any](
	ctx context.Context,
	d time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Compile-time assertion that Picker implements domain.LocationPicker.
var _ domain.LocationPicker = (*Picker)(nil)
