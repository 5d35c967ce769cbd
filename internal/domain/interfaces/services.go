package interfaces

import (
	"context"

	domaintypes "serviceflow/internal/domain/types"
)

// LocationSink receives the outcome of a location pick.
type LocationSink interface {
	ConfirmLocation(loc domaintypes.GeoLocation)
	Advise(advisory domaintypes.LocationAdvisory)
}

// LocationPicker lets the user choose a business address.
type LocationPicker interface {
	RequestCurrentPosition(ctx context.Context, sink LocationSink)
	PickPoint(ctx context.Context, lat, lng float64, sink LocationSink)
	Search(ctx context.Context, query string) ([]domaintypes.GeoLocation, error)
	Accept(suggestion domaintypes.GeoLocation, sink LocationSink)
	DefaultCenter() domaintypes.GeoLocation
}

// Submitter packages a validated draft and hands it to the account endpoint.
type Submitter interface {
	Submit(
		ctx context.Context,
		draft domaintypes.RegistrationDraft,
		loc *domaintypes.GeoLocation,
	) (domaintypes.Account, error)
	DisplayMessage(err error) string
}
