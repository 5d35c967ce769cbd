package location_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"serviceflow/internal/domain"
	"serviceflow/internal/location"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeProvider struct {
	current    func(ctx context.Context) (domain.GeoLocation, error)
	reverse    func(ctx context.Context, lat, lng float64) (domain.GeoLocation, error)
	search     func(ctx context.Context, q, country string) ([]domain.GeoLocation, error)
	gotCountry string
}

func (f *fakeProvider) CurrentPosition(ctx context.Context) (domain.GeoLocation, error) {
	return f.current(ctx)
}

func (f *fakeProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.GeoLocation, error) {
	return f.reverse(ctx, lat, lng)
}

func (f *fakeProvider) SearchAddress(ctx context.Context, q, country string) ([]domain.GeoLocation, error) {
	f.gotCountry = country
	return f.search(ctx, q, country)
}

type recordingSink struct {
	mu         sync.Mutex
	confirmed  []domain.GeoLocation
	advisories []domain.LocationAdvisory
}

func (s *recordingSink) ConfirmLocation(loc domain.GeoLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = append(s.confirmed, loc)
}

func (s *recordingSink) Advise(a domain.LocationAdvisory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advisories = append(s.advisories, a)
}

var mexicoCity = domain.GeoLocation{Latitude: 19.4326, Longitude: -99.1332, FormattedAddress: "Mexico City"}

func newPicker(p *fakeProvider, allow bool, timeout time.Duration) *location.Picker {
	return location.New(p, location.Config{DenyGeolocation: !allow, Timeout: timeout}, nil)
}

func TestRequestCurrentPosition_Confirms(t *testing.T) {
	p := &fakeProvider{current: func(context.Context) (domain.GeoLocation, error) { return mexicoCity, nil }}
	sink := &recordingSink{}

	newPicker(p, true, time.Second).RequestCurrentPosition(context.Background(), sink)

	assert.Equal(t, []domain.GeoLocation{mexicoCity}, sink.confirmed)
	assert.Empty(t, sink.advisories)
}

func TestRequestCurrentPosition_ReverseGeocodesBarePoint(t *testing.T) {
	p := &fakeProvider{
		current: func(context.Context) (domain.GeoLocation, error) {
			return domain.GeoLocation{Latitude: 19.4326, Longitude: -99.1332}, nil
		},
		reverse: func(_ context.Context, lat, lng float64) (domain.GeoLocation, error) {
			return domain.GeoLocation{Latitude: 19.43, Longitude: -99.13, FormattedAddress: "Mexico City"}, nil
		},
	}
	sink := &recordingSink{}

	newPicker(p, true, time.Second).RequestCurrentPosition(context.Background(), sink)

	require.Len(t, sink.confirmed, 1)
	assert.Equal(t, mexicoCity, sink.confirmed[0])
}

func TestRequestCurrentPosition_DisabledIsDenied(t *testing.T) {
	p := &fakeProvider{current: func(context.Context) (domain.GeoLocation, error) {
		t.Fatal("provider must not be called when geolocation is disabled")
		return domain.GeoLocation{}, nil
	}}
	sink := &recordingSink{}

	newPicker(p, false, time.Second).RequestCurrentPosition(context.Background(), sink)

	require.Len(t, sink.advisories, 1)
	assert.Equal(t, domain.AdvisoryDenied, sink.advisories[0].Kind)
}

func TestRequestCurrentPosition_Timeout(t *testing.T) {
	p := &fakeProvider{current: func(ctx context.Context) (domain.GeoLocation, error) {
		<-ctx.Done()
		return domain.GeoLocation{}, ctx.Err()
	}}
	sink := &recordingSink{}

	start := time.Now()
	newPicker(p, true, 20*time.Millisecond).RequestCurrentPosition(context.Background(), sink)

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, sink.advisories, 1)
	assert.Equal(t, domain.AdvisoryTimeout, sink.advisories[0].Kind)
	assert.Empty(t, sink.confirmed)
}

func TestRequestCurrentPosition_ProviderErrors(t *testing.T) {
	tests := []struct {
		err  error
		want domain.AdvisoryKind
	}{
		{domain.ErrPermissionDenied, domain.AdvisoryDenied},
		{errors.New("script failed to load"), domain.AdvisoryUnavailable},
	}
	for _, tt := range tests {
		p := &fakeProvider{current: func(context.Context) (domain.GeoLocation, error) {
			return domain.GeoLocation{}, tt.err
		}}
		sink := &recordingSink{}
		newPicker(p, true, time.Second).RequestCurrentPosition(context.Background(), sink)
		require.Len(t, sink.advisories, 1)
		assert.Equal(t, tt.want, sink.advisories[0].Kind)
		assert.NotEmpty(t, sink.advisories[0].Message)
	}
}

func TestRequestCurrentPosition_CancelledIsSilent(t *testing.T) {
	p := &fakeProvider{current: func(ctx context.Context) (domain.GeoLocation, error) {
		<-ctx.Done()
		return domain.GeoLocation{}, ctx.Err()
	}}
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	newPicker(p, true, time.Second).RequestCurrentPosition(ctx, sink)

	assert.Empty(t, sink.advisories)
	assert.Empty(t, sink.confirmed)
}

func TestPickPoint(t *testing.T) {
	p := &fakeProvider{reverse: func(_ context.Context, lat, lng float64) (domain.GeoLocation, error) {
		if lat > 0 {
			return domain.GeoLocation{Latitude: 19.0, Longitude: -99.0, FormattedAddress: "Mexico City"}, nil
		}
		return domain.GeoLocation{}, domain.ErrNoResults
	}}
	picker := newPicker(p, true, time.Second)

	sink := &recordingSink{}
	picker.PickPoint(context.Background(), 19.4326, -99.1332, sink)
	assert.Equal(t, []domain.GeoLocation{mexicoCity}, sink.confirmed)

	sink = &recordingSink{}
	picker.PickPoint(context.Background(), -40, -99.1332, sink)
	require.Len(t, sink.advisories, 1)
	assert.Equal(t, domain.AdvisoryNoResults, sink.advisories[0].Kind)

	sink = &recordingSink{}
	picker.PickPoint(context.Background(), 91, 0, sink)
	require.Len(t, sink.advisories, 1)
	assert.Equal(t, domain.AdvisoryInvalid, sink.advisories[0].Kind)
}

func TestSearch(t *testing.T) {
	p := &fakeProvider{search: func(_ context.Context, q, _ string) ([]domain.GeoLocation, error) {
		return []domain.GeoLocation{
			mexicoCity,
			{Latitude: 200, Longitude: 0, FormattedAddress: "broken"},
			{Latitude: 20, Longitude: -100},
		}, nil
	}}
	picker := newPicker(p, true, time.Second)

	got, err := picker.Search(context.Background(), "  mexico ")
	require.NoError(t, err)
	assert.Equal(t, []domain.GeoLocation{mexicoCity}, got)
	assert.Equal(t, location.DefaultCountry, p.gotCountry)

	got, err = picker.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearch_LeavesProviderResultsIntact(t *testing.T) {
	bad := domain.GeoLocation{Latitude: 200, Longitude: 0, FormattedAddress: "broken"}
	cached := []domain.GeoLocation{bad, mexicoCity}
	p := &fakeProvider{search: func(context.Context, string, string) ([]domain.GeoLocation, error) {
		return cached, nil
	}}

	got, err := newPicker(p, true, time.Second).Search(context.Background(), "mexico")
	require.NoError(t, err)
	assert.Equal(t, []domain.GeoLocation{mexicoCity}, got)
	assert.Equal(t, []domain.GeoLocation{bad, mexicoCity}, cached)
}

func TestNew_ZeroConfigAllowsGeolocation(t *testing.T) {
	p := &fakeProvider{current: func(context.Context) (domain.GeoLocation, error) { return mexicoCity, nil }}
	sink := &recordingSink{}

	location.New(p, location.Config{}, nil).RequestCurrentPosition(context.Background(), sink)

	assert.Empty(t, sink.advisories)
	assert.Equal(t, []domain.GeoLocation{mexicoCity}, sink.confirmed)
}

func TestAccept(t *testing.T) {
	picker := newPicker(&fakeProvider{}, true, time.Second)

	sink := &recordingSink{}
	picker.Accept(mexicoCity, sink)
	assert.Equal(t, []domain.GeoLocation{mexicoCity}, sink.confirmed)

	sink = &recordingSink{}
	picker.Accept(domain.GeoLocation{Latitude: 19, Longitude: -99}, sink)
	assert.Empty(t, sink.confirmed)
	require.Len(t, sink.advisories, 1)
	assert.Equal(t, domain.AdvisoryInvalid, sink.advisories[0].Kind)
}

func TestDefaultCenter(t *testing.T) {
	picker := newPicker(&fakeProvider{}, true, 0)
	assert.Equal(t, location.DefaultCenter, picker.DefaultCenter())
}
