package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/denysvitali/chargeprice-map/stations"
)

var errBadRequest = errors.New("bad request")

// statusClientClosedRequest is written when the client went away before the
// response was ready.
const statusClientClosedRequest = 499

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Count    int                `json:"count"`
	Stations []stations.Station `json:"stations"`
}

type pricesResponse struct {
	Station stations.Station `json:"station"`
	// Selected is false when no charge point of the station matches the
	// requested power and plug. Prices is null in that case.
	Selected    bool                  `json:"selected"`
	ChargePoint *stations.ChargePoint `json:"chargePoint,omitempty"`
	Prices      []stations.PriceEntry `json:"prices"`
}

func (s *Server) listStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ne, err := stations.ParseCoordinate(q.Get("ne"))
	if err != nil {
		writeError(w, fmt.Errorf("ne: %w", err))
		return
	}
	sw, err := stations.ParseCoordinate(q.Get("sw"))
	if err != nil {
		writeError(w, fmt.Errorf("sw: %w", err))
		return
	}
	options, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}

	bounds := stations.BoundingBox{NorthEast: ne, SouthWest: sw}
	if err := bounds.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := stations.CheckArea(bounds, options.MinPower); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.stations.List(r.Context(), bounds, options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(res), Stations: res})
}

func (s *Server) stationDetail(w http.ResponseWriter, r *http.Request) {
	options, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}
	station, err := s.resolve(r, options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

func (s *Server) stationPrices(w http.ResponseWriter, r *http.Request) {
	options, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}
	station, err := s.resolve(r, options)
	if err != nil {
		writeError(w, err)
		return
	}
	quote, err := s.pricer.Quote(r.Context(), station, options)
	if err != nil {
		writeError(w, err)
		return
	}

	res := pricesResponse{Station: quote.Station, Selected: quote.Selected, Prices: quote.Entries}
	if quote.Selected {
		cp := quote.ChargePoint
		res.ChargePoint = &cp
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) resolve(r *http.Request, options stations.ChargingOptions) (stations.Station, error) {
	adapter, err := stations.ParseAdapter(chi.URLParam(r, "adapter"))
	if err != nil {
		return stations.Station{}, err
	}
	return s.stations.Detail(r.Context(), stations.NewLiteStation(chi.URLParam(r, "id"), adapter), options)
}

// options applies the query parameters on top of the configured settings.
func (s *Server) options(r *http.Request) (stations.ChargingOptions, error) {
	q := r.URL.Query()
	settings := s.settings

	floats := map[string]*float64{
		"min_power":     &settings.MinPower,
		"battery_range": &settings.BatteryRange,
	}
	for key, dst := range floats {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return stations.ChargingOptions{}, fmt.Errorf("%w: %s: %w", errBadRequest, key, err)
			}
			*dst = f
		}
	}
	flags := map[string]*bool{
		"only_free":                 &settings.OnlyFree,
		"open_now":                  &settings.OpenNow,
		"provider_customer_tariffs": &settings.ProviderCustomerTariffs,
		"only_my_tariffs":           &settings.OnlyShowMyTariffs,
		"no_monthly_fees":           &settings.OnlyTariffsWithoutMonthlyFees,
		"allow_unbalanced_load":     &settings.AllowUnbalancedLoad,
	}
	for key, dst := range flags {
		if v := q.Get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return stations.ChargingOptions{}, fmt.Errorf("%w: %s: %w", errBadRequest, key, err)
			}
			*dst = b
		}
	}
	ints := map[string]*int{
		"start_time":    &settings.StartTime,
		"car_ac_phases": &settings.CarACPhases,
	}
	for key, dst := range ints {
		if v := q.Get(key); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				return stations.ChargingOptions{}, fmt.Errorf("%w: %s: %w", errBadRequest, key, err)
			}
			*dst = i
		}
	}
	if v := q.Get("currency"); v != "" {
		settings.DisplayedCurrency = strings.ToUpper(v)
	}
	if v := q.Get("my_tariffs"); v != "" {
		settings.MyTariffs = strings.Split(v, ",")
	}
	if v := q.Get("vehicle"); v != "" {
		settings.MyVehicle = &stations.Vehicle{ID: v}
	}

	power, plug := q.Get("power"), q.Get("plug")
	switch {
	case power != "" && plug != "":
		p, err := strconv.ParseFloat(power, 64)
		if err != nil {
			return stations.ChargingOptions{}, fmt.Errorf("%w: power: %w", errBadRequest, err)
		}
		settings.ChargePoint = &stations.ChargePointDescriptor{Power: p, Plug: plug}
	case power != "" || plug != "":
		return stations.ChargingOptions{}, fmt.Errorf("%w: power and plug must be given together", errBadRequest)
	}
	return settings.Options(s.showUnbalancedLoad), nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, stations.ErrInvalidBounds):
		return http.StatusBadRequest
	case errors.Is(err, stations.ErrUnknownAdapter), errors.Is(err, stations.ErrStationNotFound):
		return http.StatusNotFound
	case errors.Is(err, stations.ErrLiteStation), errors.Is(err, stations.ErrAreaTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, stations.ErrProviderUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		log.Warnf("request failed: %v", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("unable to write response: %v", err)
	}
}
