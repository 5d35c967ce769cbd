package signup

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"serviceflow/internal/crypto"
	"serviceflow/internal/domain"
	"serviceflow/internal/validate"
)

const tracerName = "serviceflow/signup"

// User-facing failure messages.
const (
	MsgAccountExists = "An account with this email already exists. Sign in or use another email."
	MsgCancelled     = "Registration was cancelled."
	MsgTimeout       = "The server took too long to respond. Please try again."
	MsgGeneric       = "We could not create your account. Please try again."
)

// Service submits registrations to an AccountClient.
type Service struct {
	client domain.AccountClient
	log    *zap.Logger
	tracer trace.Tracer
}

// Option customises a Service.
type Option func(*Service)

// WithTracerProvider sets the provider used for submission spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(tracerName) }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New returns a signup service backed by client.
func New(client domain.AccountClient, opts ...Option) *Service {
	s := &Service{
		client: client,
		log:    zap.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("signup")
	return s
}

// Submit creates the account described by draft. loc is attached only when it
// still matches the draft's address.
func (s *Service) Submit(
	ctx context.Context,
	draft domain.RegistrationDraft,
	loc *domain.GeoLocation,
) (domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "signup.Submit")
	defer span.End()

	req := BuildRequest(draft, loc)
	fp := crypto.Fingerprint(req.Email)
	span.SetAttributes(
		attribute.String("signup.email_fingerprint", fp),
		attribute.Bool("signup.has_location", req.Lat != nil),
	)

	account, err := s.client.CreateAccount(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create account failed")
		s.log.Warn("create account failed", zap.String("email_fp", fp), zap.Error(err))
		return domain.Account{}, err
	}

	span.SetAttributes(attribute.String("signup.account_id", account.ID))
	s.log.Info("account created",
		zap.String("email_fp", fp),
		zap.String("account_id", account.ID),
	)
	return account, nil
}

// DisplayMessage returns the banner text for a submission failure.
func (s *Service) DisplayMessage(err error) string {
	var rejected *domain.RejectedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrAccountExists):
		return MsgAccountExists
	case errors.Is(err, context.Canceled):
		return MsgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.As(err, &rejected) && rejected.Message != "":
		return rejected.Message
	default:
		return MsgGeneric
	}
}

// BuildRequest converts a draft into the account-creation payload.
func BuildRequest(draft domain.RegistrationDraft, loc *domain.GeoLocation) domain.AccountRequest {
	req := domain.AccountRequest{
		CompanyName: strings.TrimSpace(draft.CompanyName),
		PhoneNumber: validate.NormalizePhone(draft.PhoneNumber),
		Email:       strings.TrimSpace(draft.Email),
		Address:     strings.TrimSpace(draft.Address),
		Password:    draft.Password,
	}
	if loc != nil && loc.ValidCoordinates() &&
		strings.TrimSpace(loc.FormattedAddress) == req.Address {
		lat, lng := loc.Latitude, loc.Longitude
		req.Lat, req.Lng = &lat, &lng
	}
	return req
}

// Compile-time assertion that Service implements domain.Submitter.
var _ domain.Submitter = (*Service)(nil)
