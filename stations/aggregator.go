package stations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.StandardLogger()

// StationProvider lists the stations of one data source inside a box.
type StationProvider interface {
	GetStations(ctx context.Context, northEast, southWest Coordinate, options ChargingOptions) ([]Station, error)
}

// DetailProvider fetches the full record of a single station.
type DetailProvider interface {
	GetStationDetails(ctx context.Context, id string, options ChargingOptions) (Station, error)
}

type PrimaryProvider interface {
	StationProvider
	DetailProvider
}

// Recorder observes provider calls and merges. See package metrics.
type Recorder interface {
	ObserveProviderCall(provider, op string, elapsed time.Duration, err error)
	ObserveMerge(primary, secondary, dropped int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveProviderCall(string, string, time.Duration, error) {}
func (nopRecorder) ObserveMerge(int, int, int)                               {}

// Aggregator combines the primary and the community station sources.
type Aggregator struct {
	primary   PrimaryProvider
	community StationProvider
	dedup     *Deduplicator
	recorder  Recorder
}

type Option func(*Aggregator)

func WithDeduplicator(d *Deduplicator) Option {
	return func(a *Aggregator) { a.dedup = d }
}

func WithRecorder(r Recorder) Option {
	return func(a *Aggregator) { a.recorder = r }
}

func NewAggregator(primary PrimaryProvider, community StationProvider, opts ...Option) *Aggregator {
	a := &Aggregator{
		primary:   primary,
		community: community,
		dedup:     NewDeduplicator(),
		recorder:  nopRecorder{},
	}
	for _, f := range opts {
		f(a)
	}
	return a
}

// List fetches both providers concurrently and returns the merged,
// deduplicated result. If any fetch fails the whole call fails and no
// partial result is returned. A box crossing the antimeridian is queried as
// two boxes.
func (a *Aggregator) List(ctx context.Context, bounds BoundingBox, options ChargingOptions) ([]Station, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	l := log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"ne":         fmt.Sprintf("%f,%f", bounds.NorthEast.Latitude, bounds.NorthEast.Longitude),
		"sw":         fmt.Sprintf("%f,%f", bounds.SouthWest.Latitude, bounds.SouthWest.Longitude),
	})
	l.Debugf("listing stations")

	boxes := bounds.Split()
	primary := make([][]Station, len(boxes))
	community := make([][]Station, len(boxes))

	g, gctx := errgroup.WithContext(ctx)
	for i, box := range boxes {
		g.Go(func() error {
			res, err := a.fetch(gctx, AdapterPrimary, a.primary, box, options)
			primary[i] = res
			return err
		})
		g.Go(func() error {
			res, err := a.fetch(gctx, AdapterCommunity, a.community, box, options)
			community[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.Warnf("listing stations failed: %v", err)
		return nil, err
	}

	p, c := flatten(primary), flatten(community)
	merged := a.dedup.Merge(p, c)
	dropped := Dropped(p, c, merged)
	a.recorder.ObserveMerge(len(p), len(c), dropped)
	l.Debugf("merged %d primary and %d community stations, %d duplicates dropped", len(p), len(c), dropped)
	return merged, nil
}

func (a *Aggregator) fetch(ctx context.Context, adapter Adapter, p StationProvider, box BoundingBox, options ChargingOptions) ([]Station, error) {
	start := time.Now()
	res, err := p.GetStations(ctx, box.NorthEast, box.SouthWest, options)
	a.recorder.ObserveProviderCall(string(adapter), "list", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, adapter, err)
	}
	return res, nil
}

func flatten(parts [][]Station) []Station {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Station, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type resolveFunc func(ctx context.Context, station Station, options ChargingOptions) (Station, error)

// Detail returns the full record of station. Primary stations need a round
// trip to the provider; community stations already are the full record and
// are returned unchanged.
func (a *Aggregator) Detail(ctx context.Context, station Station, options ChargingOptions) (Station, error) {
	resolve, err := a.resolver(station.Adapter)
	if err != nil {
		return Station{}, err
	}
	return resolve(ctx, station, options)
}

func (a *Aggregator) resolver(adapter Adapter) (resolveFunc, error) {
	switch adapter {
	case AdapterPrimary:
		return a.resolvePrimary, nil
	case AdapterCommunity:
		return a.resolveCommunity, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, adapter)
}

func (a *Aggregator) resolvePrimary(ctx context.Context, station Station, options ChargingOptions) (Station, error) {
	return a.fetchDetail(ctx, AdapterPrimary, a.primary, station.ID, options)
}

func (a *Aggregator) resolveCommunity(ctx context.Context, station Station, options ChargingOptions) (Station, error) {
	if !station.Lite {
		return station, nil
	}
	// A deep-link placeholder has no inline data to return.
	dp, ok := a.community.(DetailProvider)
	if !ok {
		return Station{}, fmt.Errorf("%w: %s/%s", ErrLiteStation, station.Adapter, station.ID)
	}
	return a.fetchDetail(ctx, AdapterCommunity, dp, station.ID, options)
}

func (a *Aggregator) fetchDetail(ctx context.Context, adapter Adapter, p DetailProvider, id string, options ChargingOptions) (Station, error) {
	log.Debugf("fetching detail of %s/%s", adapter, id)
	start := time.Now()
	res, err := p.GetStationDetails(ctx, id, options)
	a.recorder.ObserveProviderCall(string(adapter), "detail", time.Since(start), err)
	if err != nil {
		return Station{}, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, adapter, err)
	}
	res.Adapter = adapter
	res.Lite = false
	return res, nil
}
