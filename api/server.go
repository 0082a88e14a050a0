package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/denysvitali/chargeprice-map/stations"
)

var log = logrus.StandardLogger()

// StationService lists and resolves stations, see stations.Aggregator.
type StationService interface {
	List(ctx context.Context, bounds stations.BoundingBox, options stations.ChargingOptions) ([]stations.Station, error)
	Detail(ctx context.Context, station stations.Station, options stations.ChargingOptions) (stations.Station, error)
}

// Quoter prices a resolved station, see stations.Pricer.
type Quoter interface {
	Quote(ctx context.Context, station stations.Station, options stations.ChargingOptions) (*stations.Quote, error)
}

type RequestObserver interface {
	ObserveRequest(route string, code int)
}

type Server struct {
	stations           StationService
	pricer             Quoter
	settings           stations.Settings
	showUnbalancedLoad bool
	metrics            http.Handler
	observer           RequestObserver
}

type Option func(*Server)

// WithSettings sets the charging settings that query parameters override.
func WithSettings(settings stations.Settings, showUnbalancedLoad bool) Option {
	return func(s *Server) {
		s.settings = settings
		s.showUnbalancedLoad = showUnbalancedLoad
	}
}

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

func WithRequestObserver(o RequestObserver) Option {
	return func(s *Server) { s.observer = o }
}

func New(svc StationService, pricer Quoter, opts ...Option) *Server {
	s := &Server{stations: svc, pricer: pricer}
	for _, f := range opts {
		f(s)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/stations", func(r chi.Router) {
		r.Get("/", s.listStations)
		r.Get("/{adapter}/{id}", s.stationDetail)
		r.Get("/{adapter}/{id}/prices", s.stationPrices)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if s.observer != nil {
			s.observer.ObserveRequest(route, status)
		}
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   status,
			"duration": time.Since(start),
		}).Debugf("%s %s", r.Method, r.URL.Path)
	})
}

// Run serves handler on addr until ctx is done.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
