package signup_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"serviceflow/internal/crypto"
	"serviceflow/internal/domain"
	"serviceflow/internal/services/signup"
)

type fakeClient struct {
	got domain.AccountRequest
	err error
}

func (f *fakeClient) CreateAccount(_ context.Context, req domain.AccountRequest) (domain.Account, error) {
	f.got = req
	if f.err != nil {
		return domain.Account{}, f.err
	}
	return domain.Account{ID: "acc-42", CompanyName: req.CompanyName, Email: req.Email}, nil
}

func newTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider, recorder
}

func draft() domain.RegistrationDraft {
	return domain.RegistrationDraft{
		CompanyName:     " Acme ",
		PhoneNumber:     "(55) 1234-5678",
		Email:           "a@b.co ",
		Address:         "Mexico City",
		Password:        "password1",
		ConfirmPassword: "password1",
	}
}

func ptr(f float64) *float64 { return &f }

func TestBuildRequest(t *testing.T) {
	cdmx := &domain.GeoLocation{Latitude: 19.4326, Longitude: -99.1332, FormattedAddress: "Mexico City"}

	tests := []struct {
		name string
		loc  *domain.GeoLocation
		want domain.AccountRequest
	}{
		{
			name: "no location",
			want: domain.AccountRequest{
				CompanyName: "Acme",
				PhoneNumber: "5512345678",
				Email:       "a@b.co",
				Address:     "Mexico City",
				Password:    "password1",
			},
		},
		{
			name: "resolved location",
			loc:  cdmx,
			want: domain.AccountRequest{
				CompanyName: "Acme",
				PhoneNumber: "5512345678",
				Email:       "a@b.co",
				Address:     "Mexico City",
				Password:    "password1",
				Lat:         ptr(19.4326),
				Lng:         ptr(-99.1332),
			},
		},
		{
			name: "stale location",
			loc:  &domain.GeoLocation{Latitude: 1, Longitude: 2, FormattedAddress: "Somewhere else"},
			want: domain.AccountRequest{
				CompanyName: "Acme",
				PhoneNumber: "5512345678",
				Email:       "a@b.co",
				Address:     "Mexico City",
				Password:    "password1",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := signup.BuildRequest(draft(), tt.loc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildRequest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	provider, recorder := newTracer(t)
	client := &fakeClient{}
	svc := signup.New(client, signup.WithTracerProvider(provider))

	account, err := svc.Submit(context.Background(), draft(), nil)
	require.NoError(t, err)
	assert.Equal(t, "acc-42", account.ID)
	assert.Equal(t, "5512345678", client.got.PhoneNumber)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "signup.Submit", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(),
		attribute.String("signup.email_fingerprint", crypto.Fingerprint("a@b.co")))
	for _, kv := range spans[0].Attributes() {
		assert.NotEqual(t, "a@b.co", kv.Value.AsString(), "raw email must not be recorded")
	}
}

func TestSubmit_Failure(t *testing.T) {
	provider, recorder := newTracer(t)
	client := &fakeClient{err: fmt.Errorf("create account: %w", domain.ErrAccountExists)}
	svc := signup.New(client, signup.WithTracerProvider(provider))

	_, err := svc.Submit(context.Background(), draft(), nil)
	require.ErrorIs(t, err, domain.ErrAccountExists)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestDisplayMessage(t *testing.T) {
	svc := signup.New(&fakeClient{})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"exists", fmt.Errorf("wrap: %w", domain.ErrAccountExists), signup.MsgAccountExists},
		{"cancelled", context.Canceled, signup.MsgCancelled},
		{"timeout", fmt.Errorf("post: %w", context.DeadlineExceeded), signup.MsgTimeout},
		{"rejected", &domain.RejectedError{Message: "Phone number must have 10 digits."}, "Phone number must have 10 digits."},
		{"other", errors.New("connection refused"), signup.MsgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.DisplayMessage(tt.err))
		})
	}
}
