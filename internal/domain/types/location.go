package types

import "fmt"

// GeoLocation is a confirmed point on the map with its formatted address.
type GeoLocation struct {
	Latitude         float64 `json:"latitude" yaml:"latitude"`
	Longitude        float64 `json:"longitude" yaml:"longitude"`
	FormattedAddress string  `json:"formattedAddress" yaml:"formatted_address"`
}

// ValidCoordinates reports whether the point lies within WGS84 bounds.
func (g GeoLocation) ValidCoordinates() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180
}

// String renders the point as "address (lat, lng)" with four decimals.
func (g GeoLocation) String() string {
	return fmt.Sprintf("%s (%.4f, %.4f)", g.FormattedAddress, g.Latitude, g.Longitude)
}

// AdvisoryKind classifies a non-blocking location warning.
type AdvisoryKind string

// Advisory kinds surfaced by the location picker.
const (
	AdvisoryDenied      AdvisoryKind = "denied"
	AdvisoryTimeout     AdvisoryKind = "timeout"
	AdvisoryUnavailable AdvisoryKind = "unavailable"
	AdvisoryNoResults   AdvisoryKind = "no_results"
	AdvisoryInvalid     AdvisoryKind = "invalid"
)

// LocationAdvisory is a dismissible warning from the location picker. The user can
// still type an address by hand.
type LocationAdvisory struct {
	Kind    AdvisoryKind `json:"kind"`
	Message string       `json:"message"`
}
