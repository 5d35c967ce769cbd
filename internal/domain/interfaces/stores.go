package interfaces

import (
	"context"

	domaintypes "serviceflow/internal/domain/types"
)

// AccountStore keeps registered accounts on the development backend.
type AccountStore interface {
	CreateAccount(ctx context.Context, req domaintypes.AccountRequest) (domaintypes.Account, error)
	LookupAccount(ctx context.Context, email string) (domaintypes.Account, bool, error)
}

// PlaceDirectory answers geocoding queries on the development backend.
type PlaceDirectory interface {
	Search(query, country string, limit int) []domaintypes.GeoLocation
	Nearest(lat, lng float64) (domaintypes.GeoLocation, error)
}
