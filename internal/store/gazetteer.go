package store

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"serviceflow/internal/domain"
)

const (
	// NearestRadiusKm bounds how far a reverse lookup may snap to a known place.
	NearestRadiusKm = 25.0
	earthRadiusKm   = 6371.0
)

// Place is a named point known to the gazetteer.
type Place struct {
	Country string
	domain.GeoLocation
}

// DefaultPlaces seeds the development gazetteer.
var DefaultPlaces = []Place{
	{"mx", domain.GeoLocation{Latitude: 17.9564, Longitude: -102.1908, FormattedAddress: "Lázaro Cárdenas, Michoacán, México"}},
	{"mx", domain.GeoLocation{Latitude: 17.9420, Longitude: -102.1767, FormattedAddress: "Puerto de Lázaro Cárdenas, Michoacán, México"}},
	{"mx", domain.GeoLocation{Latitude: 19.7060, Longitude: -101.1950, FormattedAddress: "Morelia, Michoacán, México"}},
	{"mx", domain.GeoLocation{Latitude: 19.4326, Longitude: -99.1332, FormattedAddress: "Ciudad de México, CDMX, México"}},
	{"mx", domain.GeoLocation{Latitude: 19.4270, Longitude: -99.1677, FormattedAddress: "Paseo de la Reforma, Cuauhtémoc, Ciudad de México, México"}},
	{"mx", domain.GeoLocation{Latitude: 19.3910, Longitude: -99.1740, FormattedAddress: "Avenida Insurgentes Sur, Benito Juárez, Ciudad de México, México"}},
	{"mx", domain.GeoLocation{Latitude: 20.6597, Longitude: -103.3496, FormattedAddress: "Guadalajara, Jalisco, México"}},
	{"mx", domain.GeoLocation{Latitude: 25.6866, Longitude: -100.3161, FormattedAddress: "Monterrey, Nuevo León, México"}},
	{"mx", domain.GeoLocation{Latitude: 21.1619, Longitude: -86.8515, FormattedAddress: "Cancún, Quintana Roo, México"}},
	{"mx", domain.GeoLocation{Latitude: 19.0414, Longitude: -98.2063, FormattedAddress: "Puebla, Puebla, México"}},
	{"mx", domain.GeoLocation{Latitude: 20.5888, Longitude: -100.3899, FormattedAddress: "Querétaro, Querétaro, México"}},
	{"mx", domain.GeoLocation{Latitude: 32.5149, Longitude: -117.0382, FormattedAddress: "Tijuana, Baja California, México"}},
	{"us", domain.GeoLocation{Latitude: 32.7157, Longitude: -117.1611, FormattedAddress: "San Diego, California, United States"}},
	{"us", domain.GeoLocation{Latitude: 29.4241, Longitude: -98.4936, FormattedAddress: "San Antonio, Texas, United States"}},
}

type entry struct {
	place Place
	key   string
}

// Gazetteer answers address searches and reverse lookups from a fixed place list.
// It is immutable after construction and safe for concurrent use.
type Gazetteer struct {
	entries []entry
}

// NewGazetteer indexes places. A nil slice selects DefaultPlaces.
func NewGazetteer(places []Place) *Gazetteer {
	if places == nil {
		places = DefaultPlaces
	}
	g := &Gazetteer{entries: make([]entry, 0, len(places))}
	for _, p := range places {
		g.entries = append(g.entries, entry{place: p, key: fold(p.FormattedAddress)})
	}
	return g
}

// Search returns places whose address contains every word of query, ignoring
// letter case and accents. Prefix matches sort first. country, when set, is an
// ISO 3166-1 alpha-2 code. limit <= 0 means no limit.
func (g *Gazetteer) Search(query, country string, limit int) []domain.GeoLocation {
	words := strings.Fields(fold(query))
	if len(words) == 0 {
		return nil
	}
	country = strings.ToLower(strings.TrimSpace(country))

	type hit struct {
		loc    domain.GeoLocation
		prefix bool
		idx    int
	}
	var hits []hit
	for i, e := range g.entries {
		if country != "" && e.place.Country != country {
			continue
		}
		if !containsAll(e.key, words) {
			continue
		}
		hits = append(hits, hit{loc: e.place.GeoLocation, prefix: strings.HasPrefix(e.key, words[0]), idx: i})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].prefix != hits[j].prefix {
			return hits[i].prefix
		}
		return hits[i].idx < hits[j].idx
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.GeoLocation, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.loc)
	}
	return out
}

// Nearest returns the closest place within NearestRadiusKm of (lat, lng), or
// domain.ErrNoResults.
func (g *Gazetteer) Nearest(lat, lng float64) (domain.GeoLocation, error) {
	best := -1
	bestKm := math.Inf(1)
	for i, e := range g.entries {
		d := HaversineKm(lat, lng, e.place.Latitude, e.place.Longitude)
		if d < bestKm {
			best, bestKm = i, d
		}
	}
	if best < 0 || bestKm > NearestRadiusKm {
		return domain.GeoLocation{}, domain.ErrNoResults
	}
	return g.entries[best].place.GeoLocation, nil
}

// HaversineKm returns the great-circle distance between two WGS84 points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

// fold lower-cases s and strips combining marks, so "Lázaro" matches "lazaro".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Compile-time assertion that Gazetteer implements domain.PlaceDirectory.
var _ domain.PlaceDirectory = (*Gazetteer)(nil)
