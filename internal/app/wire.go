package app

import (
	"go.uber.org/zap"

	"serviceflow/internal/backend"
	"serviceflow/internal/domain"
	"serviceflow/internal/location"
	signupsvc "serviceflow/internal/services/signup"
	"serviceflow/internal/validate"
	"serviceflow/internal/wizard"
)

// Wire bundles all clients and services for the CLI.
type Wire struct {
	Config  *Config
	Log     *zap.Logger
	Backend *backend.HTTP
	Picker  *location.Picker
	Signup  *signupsvc.Service
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg *Config, log *zap.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	// Backend client for both accounts and geocoding
	bc := backend.NewHTTP(cfg.Backend.BaseURL, cfg.GetBackendTimeout())

	picker := location.New(bc, location.Config{
		Timeout:         cfg.GetGeolocationTimeout(),
		Country:         cfg.Location.Country,
		DenyGeolocation: !cfg.Location.AllowGeolocation,
		Center:          cfg.Location.Default,
	}, log)

	signup := signupsvc.New(bc, signupsvc.WithLogger(log))

	return &Wire{
		Config:  cfg,
		Log:     log,
		Backend: bc,
		Picker:  picker,
		Signup:  signup,
	}, nil
}

// NewController starts a fresh wizard session. onSubmitted receives the account
// once registration succeeds.
func (w *Wire) NewController(onSubmitted func(domain.Account)) *wizard.Controller {
	return wizard.New(w.Signup, wizard.Options{
		Validation:  w.ValidationOptions(),
		OnSubmitted: onSubmitted,
		Logger:      w.Log,
	})
}

// ValidationOptions returns the stage rules configured for this session.
func (w *Wire) ValidationOptions() validate.Options {
	return validate.Options{
		RequireResolvedLocation: w.Config.Wizard.RequireResolvedLocation,
	}
}
