package stations

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu       sync.Mutex
	stations []Station
	details  map[string]Station
	err      error
	// block makes GetStations wait for the context to be cancelled.
	block bool

	listCalls   []BoundingBox
	detailCalls atomic.Int32
}

func (f *fakeProvider) GetStations(ctx context.Context, northEast, southWest Coordinate, _ ChargingOptions) ([]Station, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, BoundingBox{NorthEast: northEast, SouthWest: southWest})
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	box := BoundingBox{NorthEast: northEast, SouthWest: southWest}
	var out []Station
	for _, s := range f.stations {
		if box.Contains(s.Coordinate()) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeProvider) GetStationDetails(_ context.Context, id string, _ ChargingOptions) (Station, error) {
	f.detailCalls.Add(1)
	if f.err != nil {
		return Station{}, f.err
	}
	s, ok := f.details[id]
	if !ok {
		return Station{}, errors.New("not found")
	}
	return s, nil
}

// listOnlyProvider has no detail endpoint.
type listOnlyProvider struct {
	stations []Station
}

func (l listOnlyProvider) GetStations(context.Context, Coordinate, Coordinate, ChargingOptions) ([]Station, error) {
	return l.stations, nil
}

type recordedCall struct {
	provider string
	op       string
	failed   bool
}

type fakeRecorder struct {
	mu      sync.Mutex
	calls   []recordedCall
	dropped int
}

func (r *fakeRecorder) ObserveProviderCall(provider, op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{provider: provider, op: op, failed: err != nil})
}

func (r *fakeRecorder) ObserveMerge(_, _, dropped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped += dropped
}

var munich = BoundingBox{
	NorthEast: Coordinate{Latitude: 48.0, Longitude: 11.7},
	SouthWest: Coordinate{Latitude: 47.9, Longitude: 11.5},
}

func TestAggregator_List(t *testing.T) {
	primary := &fakeProvider{stations: []Station{station("A", AdapterPrimary, 47.95, 11.6)}}
	community := &fakeProvider{stations: []Station{
		station("B", AdapterCommunity, 47.9501, 11.6001),
		station("C", AdapterCommunity, 47.91, 11.51),
	}}
	rec := &fakeRecorder{}

	a := NewAggregator(primary, community, WithRecorder(rec))
	res, err := a.List(context.Background(), munich, ChargingOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, ids(res))
	assert.Equal(t, []BoundingBox{munich}, primary.listCalls)
	assert.Equal(t, []BoundingBox{munich}, community.listCalls)
	assert.Equal(t, 1, rec.dropped)
	assert.Len(t, rec.calls, 2)
}

func TestAggregator_ListFailsAsAUnit(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name      string
		primary   *fakeProvider
		community *fakeProvider
	}{
		{
			name:      "primary fails",
			primary:   &fakeProvider{err: boom},
			community: &fakeProvider{stations: []Station{station("C", AdapterCommunity, 47.95, 11.6)}},
		},
		{
			name:      "community fails",
			primary:   &fakeProvider{stations: []Station{station("A", AdapterPrimary, 47.95, 11.6)}},
			community: &fakeProvider{err: boom},
		},
		{
			name:      "community fails while primary hangs",
			primary:   &fakeProvider{block: true},
			community: &fakeProvider{err: boom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewAggregator(tt.primary, tt.community).List(context.Background(), munich, ChargingOptions{})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrProviderUnavailable)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestAggregator_ListCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := NewAggregator(&fakeProvider{block: true}, &fakeProvider{block: true})

	done := make(chan error, 1)
	go func() {
		_, err := a.List(ctx, munich, ChargingOptions{})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("List did not return after cancellation")
	}
}

func TestAggregator_ListInvalidBounds(t *testing.T) {
	primary := &fakeProvider{}
	community := &fakeProvider{}
	a := NewAggregator(primary, community)

	degenerate := BoundingBox{NorthEast: munich.NorthEast, SouthWest: munich.NorthEast}
	_, err := a.List(context.Background(), degenerate, ChargingOptions{})
	assert.ErrorIs(t, err, ErrInvalidBounds)
	assert.Empty(t, primary.listCalls)
	assert.Empty(t, community.listCalls)
}

func TestAggregator_ListAcrossAntimeridian(t *testing.T) {
	primary := &fakeProvider{stations: []Station{
		station("W", AdapterPrimary, -17.0, 179.5),
		station("E", AdapterPrimary, -17.0, -179.5),
		station("out", AdapterPrimary, -17.0, 170),
	}}
	community := &fakeProvider{stations: []Station{station("C", AdapterCommunity, -17.1, -179.8)}}
	bounds := BoundingBox{
		NorthEast: Coordinate{Latitude: -16.0, Longitude: -179.0},
		SouthWest: Coordinate{Latitude: -18.0, Longitude: 179.0},
	}

	res, err := NewAggregator(primary, community).List(context.Background(), bounds, ChargingOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"W", "E", "C"}, ids(res))
	assert.ElementsMatch(t, bounds.Split(), primary.listCalls)
	assert.ElementsMatch(t, bounds.Split(), community.listCalls)
}

func TestAggregator_Detail(t *testing.T) {
	full := Station{
		ID:           "42",
		Name:         "Marienplatz",
		Latitude:     48.137,
		Longitude:    11.575,
		ChargePoints: []ChargePoint{{Power: 22, Plug: "Type2"}},
	}

	t.Run("primary calls the provider", func(t *testing.T) {
		primary := &fakeProvider{details: map[string]Station{"42": full}}
		community := &fakeProvider{}
		a := NewAggregator(primary, community)

		res, err := a.Detail(context.Background(), station("42", AdapterPrimary, 48.137, 11.575), ChargingOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Marienplatz", res.Name)
		assert.Equal(t, AdapterPrimary, res.Adapter)
		assert.EqualValues(t, 1, primary.detailCalls.Load())
		assert.EqualValues(t, 0, community.detailCalls.Load())
	})

	t.Run("primary lite station is resolved", func(t *testing.T) {
		primary := &fakeProvider{details: map[string]Station{"42": full}}
		res, err := NewAggregator(primary, &fakeProvider{}).Detail(context.Background(), NewLiteStation("42", AdapterPrimary), ChargingOptions{})
		require.NoError(t, err)
		assert.False(t, res.Lite)
		assert.Len(t, res.ChargePoints, 1)
	})

	t.Run("community returns the model unchanged", func(t *testing.T) {
		primary := &fakeProvider{}
		community := &fakeProvider{}
		model := Station{ID: "c1", Adapter: AdapterCommunity, Name: "Own", ChargePoints: []ChargePoint{{Power: 11, Plug: "Type2"}}}

		res, err := NewAggregator(primary, community).Detail(context.Background(), model, ChargingOptions{})
		require.NoError(t, err)
		assert.Equal(t, model, res)
		assert.EqualValues(t, 0, primary.detailCalls.Load())
		assert.EqualValues(t, 0, community.detailCalls.Load())
	})

	t.Run("community lite station is fetched", func(t *testing.T) {
		community := &fakeProvider{details: map[string]Station{"c1": {ID: "c1", Name: "Own"}}}
		res, err := NewAggregator(&fakeProvider{}, community).Detail(context.Background(), NewLiteStation("c1", AdapterCommunity), ChargingOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Own", res.Name)
		assert.Equal(t, AdapterCommunity, res.Adapter)
		assert.False(t, res.Lite)
	})

	t.Run("community lite station without detail endpoint", func(t *testing.T) {
		_, err := NewAggregator(&fakeProvider{}, listOnlyProvider{}).Detail(context.Background(), NewLiteStation("c1", AdapterCommunity), ChargingOptions{})
		assert.ErrorIs(t, err, ErrLiteStation)
	})

	t.Run("unknown adapter", func(t *testing.T) {
		primary := &fakeProvider{}
		_, err := NewAggregator(primary, &fakeProvider{}).Detail(context.Background(), Station{ID: "1", Adapter: "open_charge_map"}, ChargingOptions{})
		assert.ErrorIs(t, err, ErrUnknownAdapter)
		assert.EqualValues(t, 0, primary.detailCalls.Load())
	})

	t.Run("provider failure", func(t *testing.T) {
		primary := &fakeProvider{err: errors.New("timeout")}
		_, err := NewAggregator(primary, &fakeProvider{}).Detail(context.Background(), station("42", AdapterPrimary, 0, 0), ChargingOptions{})
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})
}
