package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"serviceflow/internal/domain"
	"serviceflow/internal/validate"
)

var (
	// ErrInvalidStage is returned when the active stage has field errors.
	ErrInvalidStage = errors.New("stage has invalid fields")
	// ErrNotFinalStage is returned when Submit is called before the last stage.
	ErrNotFinalStage = errors.New("submit is only available on the last stage")
	// ErrSubmitInFlight is returned when Submit is called while a submission is pending.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrClosed is returned once the wizard finished or the user left it.
	ErrClosed = errors.New("wizard is closed")
	// ErrUnknownField is returned by SetField for names outside the form.
	ErrUnknownField = errors.New("unknown field")
)

// Options configures a Controller.
type Options struct {
	// Validation is passed to the field validator on every stage check.
	Validation validate.Options
	// OnSubmitted is the hand-off to the authenticated area. It fires exactly once,
	// after a successful submission, outside the Controller's lock.
	OnSubmitted func(domain.Account)
	Logger      *zap.Logger
}

// State is a read-only snapshot used for rendering.
type State struct {
	Stage       domain.Stage
	Submitting  bool
	Finished    bool
	Draft       domain.RegistrationDraft
	Location    *domain.GeoLocation
	Errors      domain.StageErrors
	Advisory    *domain.LocationAdvisory
	SubmitError string
}

// Controller is the registration wizard state machine. It is safe for concurrent use.
type Controller struct {
	submitter domain.Submitter
	opts      Options
	log       *zap.Logger

	mu           sync.Mutex
	stage        domain.Stage
	draft        domain.RegistrationDraft
	location     *domain.GeoLocation
	errs         domain.StageErrors
	advisory     *domain.LocationAdvisory
	submitting   bool
	submitErr    string
	closed       bool
	finished     bool
	cancelSubmit context.CancelFunc
}

// New returns a Controller at stage 1 with an empty draft.
func New(submitter domain.Submitter, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		submitter: submitter,
		opts:      opts,
		log:       log.Named("wizard"),
		stage:     domain.StageIdentity,
		errs:      domain.StageErrors{},
	}
}

// State returns a snapshot of the wizard.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Stage:       c.stage,
		Submitting:  c.submitting,
		Finished:    c.finished,
		Draft:       c.draft,
		Errors:      c.errs.Clone(),
		SubmitError: c.submitErr,
	}
	if c.location != nil {
		loc := *c.location
		st.Location = &loc
	}
	if c.advisory != nil {
		a := *c.advisory
		st.Advisory = &a
	}
	return st
}

// Stage returns the active stage.
func (c *Controller) Stage() domain.Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Submitting reports whether a submission is pending.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Errors returns a copy of the current field errors.
func (c *Controller) Errors() domain.StageErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs.Clone()
}

// SetField records user input for field and clears that field's error.
func (c *Controller) SetField(field domain.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if !c.draft.Set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	delete(c.errs, field)

	// A hand-edited address no longer matches the confirmed map point.
	if field == domain.FieldAddress && c.location != nil &&
		strings.TrimSpace(value) != strings.TrimSpace(c.location.FormattedAddress) {
		c.location = nil
	}
	return nil
}

// ConfirmLocation copies a confirmed pick into the draft and clears the address error.
func (c *Controller) ConfirmLocation(loc domain.GeoLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.location = &loc
	c.draft.Address = loc.FormattedAddress
	delete(c.errs, domain.FieldAddress)
	c.advisory = nil
	c.log.Debug("location confirmed", zap.Stringer("location", loc))
}

// Advise shows a non-blocking location warning.
func (c *Controller) Advise(advisory domain.LocationAdvisory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.advisory = &advisory
	c.log.Debug("location advisory", zap.String("kind", string(advisory.Kind)))
}

// DismissAdvisory hides the location warning banner.
func (c *Controller) DismissAdvisory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advisory = nil
}

// Advance validates the active stage and moves forward when it is valid. The stage
// is capped at the last one.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.submitting {
		return ErrSubmitInFlight
	}
	if !c.validateLocked() {
		c.log.Debug("stage invalid",
			zap.Stringer("stage", c.stage), zap.Int("errors", len(c.errs)))
		return ErrInvalidStage
	}
	if c.stage < domain.StageCredentials {
		c.stage++
		c.log.Debug("stage advanced", zap.Stringer("stage", c.stage))
	}
	return nil
}

// Retreat moves back one stage without validating. At the first stage it reports
// exit=true and leaves the state alone. It does nothing while a submission is pending.
func (c *Controller) Retreat() (exit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.submitting {
		return false
	}
	if c.stage <= domain.StageIdentity {
		return true
	}
	c.stage--
	c.errs = domain.StageErrors{}
	c.submitErr = ""
	c.log.Debug("stage retreated", zap.Stringer("stage", c.stage))
	return false
}

// Submit validates the last stage and hands the draft to the Submitter. A call made
// while another submission is pending dispatches nothing and returns
// ErrSubmitInFlight. On failure the draft is kept and State().SubmitError carries
// the message to show.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.submitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case c.stage != domain.StageCredentials:
		c.mu.Unlock()
		return ErrNotFinalStage
	}
	if !c.validateLocked() {
		c.mu.Unlock()
		return ErrInvalidStage
	}

	ctx, cancel := context.WithCancel(ctx)
	c.submitting = true
	c.submitErr = ""
	c.cancelSubmit = cancel
	draft := c.draft
	var loc *domain.GeoLocation
	if c.location != nil {
		l := *c.location
		loc = &l
	}
	c.mu.Unlock()

	c.log.Info("submitting registration")
	account, err := c.submitter.Submit(ctx, draft, loc)
	cancel()

	c.mu.Lock()
	c.cancelSubmit = nil
	if c.closed {
		// The user left while the request was pending; drop its effect.
		c.mu.Unlock()
		return ErrClosed
	}
	c.submitting = false
	if err != nil {
		c.submitErr = c.submitter.DisplayMessage(err)
		c.mu.Unlock()
		c.log.Warn("registration failed", zap.Error(err))
		return err
	}
	c.finished = true
	c.closed = true
	c.draft = domain.RegistrationDraft{}
	c.location = nil
	onSubmitted := c.opts.OnSubmitted
	c.mu.Unlock()

	c.log.Info("registration complete", zap.String("account_id", account.ID))
	if onSubmitted != nil {
		onSubmitted(account)
	}
	return nil
}

// Close discards the session, as when the user navigates away. A pending
// submission is cancelled and its outcome ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.draft = domain.RegistrationDraft{}
	c.location = nil
	if c.cancelSubmit != nil {
		c.cancelSubmit()
	}
}

// validateLocked recomputes the active stage's errors. c.mu must be held.
func (c *Controller) validateLocked() bool {
	c.errs = validate.Stage(c.stage, c.draft, c.location, c.opts.Validation)
	return len(c.errs) == 0
}

// Compile-time assertion that Controller implements domain.LocationSink.
var _ domain.LocationSink = (*Controller)(nil)
