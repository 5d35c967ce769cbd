package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"serviceflow/internal/backend"
	"serviceflow/internal/crypto"
	"serviceflow/internal/domain"
	"serviceflow/internal/validate"
)

const (
	// SearchLimit caps the suggestions returned by the search endpoint.
	SearchLimit  = 5
	maxBodyBytes = 1 << 20
)

// Config controls the simulated geolocation behaviour.
type Config struct {
	// DenyGeolocation makes /geocode/current answer 403, as a browser would after
	// the user refuses the permission prompt.
	DenyGeolocation bool
	// Current is what /geocode/current reports.
	Current domain.GeoLocation
	// Country restricts searches when the client sends no country.
	Country string
}

// Server serves the backend API.
type Server struct {
	accounts domain.AccountStore
	places   domain.PlaceDirectory
	cfg      Config
	log      *zap.Logger
}

// New returns a Server. A nil logger discards output.
func New(accounts domain.AccountStore, places domain.PlaceDirectory, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{accounts: accounts, places: places, cfg: cfg, log: log.Named("devserver")}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get(backend.PathHealth, s.handleHealth)
	r.Post(backend.PathAccounts, s.handleCreateAccount)
	r.Route("/geocode", func(r chi.Router) {
		r.Get("/current", s.handleCurrent)
		r.Get("/reverse", s.handleReverse)
		r.Get("/search", s.handleSearch)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not Found", "no such route")
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, backend.HealthResponse{Status: "ok"})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.AccountRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, backend.CodeBadRequest, "Bad Request", "malformed JSON body")
		return
	}

	if errs := validate.Account(req); len(errs) > 0 {
		body := backend.ErrorResponse{
			Code:   backend.CodeValidation,
			Title:  "Unprocessable Entity",
			Fields: make(map[string]string, len(errs)),
		}
		for f, msg := range errs {
			body.Fields[string(f)] = msg
		}
		body.Message = firstMessage(errs)
		writeJSON(w, http.StatusUnprocessableEntity, body)
		return
	}

	account, err := s.accounts.CreateAccount(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrAccountExists):
		writeError(w, http.StatusConflict, backend.CodeAccountExists, "Conflict",
			"an account with this email already exists")
		return
	case err != nil:
		s.log.Error("create account", zap.Error(err))
		writeError(w, http.StatusInternalServerError, backend.CodeInternal, "Internal Server Error",
			"could not create account")
		return
	}

	s.log.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("email_fp", crypto.Fingerprint(account.Email)),
		zap.Bool("has_location", req.Lat != nil),
	)
	writeJSON(w, http.StatusCreated, account)
}

func (s *Server) handleCurrent(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.DenyGeolocation {
		writeError(w, http.StatusForbidden, backend.CodePermissionDenied, "Forbidden",
			"geolocation permission denied")
		return
	}
	writeJSON(w, http.StatusOK, s.cfg.Current)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	point := domain.GeoLocation{Latitude: lat, Longitude: lng}
	if errLat != nil || errLng != nil || !point.ValidCoordinates() {
		writeError(w, http.StatusBadRequest, backend.CodeBadRequest, "Bad Request",
			"lat and lng must be valid coordinates")
		return
	}

	loc, err := s.places.Nearest(lat, lng)
	if errors.Is(err, domain.ErrNoResults) {
		writeError(w, http.StatusNotFound, backend.CodeNoResults, "Not Found", "no address near this point")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, backend.CodeInternal, "Internal Server Error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	country := r.URL.Query().Get("country")
	if country == "" {
		country = s.cfg.Country
	}
	results := s.places.Search(q, country, SearchLimit)
	if results == nil {
		results = []domain.GeoLocation{}
	}
	writeJSON(w, http.StatusOK, results)
}

// logRequests logs one line per request with zap.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// firstMessage picks the message of the first failing field in form order.
func firstMessage(errs domain.StageErrors) string {
	for _, f := range domain.Fields {
		if msg, ok := errs[f]; ok {
			return msg
		}
	}
	for _, f := range []domain.Field{"lat", "lng"} {
		if msg, ok := errs[f]; ok {
			return msg
		}
	}
	return "request failed validation"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, title, message string) {
	writeJSON(w, status, backend.ErrorResponse{Code: code, Title: title, Message: message})
}
