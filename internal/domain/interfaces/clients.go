package interfaces

import (
	"context"

	domaintypes "serviceflow/internal/domain/types"
)

// AccountClient talks to the external account-creation endpoint.
type AccountClient interface {
	CreateAccount(ctx context.Context, req domaintypes.AccountRequest) (domaintypes.Account, error)
}

// GeocodingProvider is the external map/geocoding collaborator.
type GeocodingProvider interface {
	CurrentPosition(ctx context.Context) (domaintypes.GeoLocation, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (domaintypes.GeoLocation, error)
	SearchAddress(
		ctx context.Context,
		query string,
		country string,
	) ([]domaintypes.GeoLocation, error)
}
