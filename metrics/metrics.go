package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chargeprice_map"

// Prom records provider calls, merges and served HTTP requests in Prometheus
// metrics. It implements stations.Recorder.
type Prom struct {
	gatherer prometheus.Gatherer

	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	mergedStations  *prometheus.CounterVec
	duplicates      prometheus.Counter
	httpRequests    *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New() (*Prom, error) {
	return NewWithRegistry(nil)
}

// NewWithRegistry registers the collectors on reg. If reg is nil the default
// registry is used. Collectors that are already registered are reused.
func NewWithRegistry(reg *prometheus.Registry) (*Prom, error) {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	p := &Prom{gatherer: gatherer}
	var err error
	if p.providerCalls, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Number of requests sent to a station or tariff provider",
	}, []string{"provider", "op", "outcome"})); err != nil {
		return nil, err
	}
	if p.providerLatency, err = register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of requests sent to a station or tariff provider",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "op"})); err != nil {
		return nil, err
	}
	if p.mergedStations, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "merged_stations_total",
		Help:      "Number of stations fed into the merge, by source",
	}, []string{"source"})); err != nil {
		return nil, err
	}
	if p.duplicates, err = register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_stations_dropped_total",
		Help:      "Number of community stations dropped as duplicates of a primary station",
	})); err != nil {
		return nil, err
	}
	if p.httpRequests, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Number of served HTTP requests",
	}, []string{"route", "code"})); err != nil {
		return nil, err
	}
	return p, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (p *Prom) ObserveProviderCall(provider, op string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.providerCalls.WithLabelValues(provider, op, outcome).Inc()
	p.providerLatency.WithLabelValues(provider, op).Observe(elapsed.Seconds())
}

func (p *Prom) ObserveMerge(primary, secondary, dropped int) {
	p.mergedStations.WithLabelValues("primary").Add(float64(primary))
	p.mergedStations.WithLabelValues("community").Add(float64(secondary))
	p.duplicates.Add(float64(dropped))
}

// ObserveRequest counts one served request. route is the route pattern, not
// the raw path.
func (p *Prom) ObserveRequest(route string, code int) {
	p.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
