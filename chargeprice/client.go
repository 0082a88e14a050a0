package chargeprice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/chargeprice-map/stations"
)

const (
	Backend         string = "https://api.chargeprice.app"
	DefaultCurrency string = "EUR"
	contentType     string = "application/json"
)

var (
	ErrMissingAPIKey    = errors.New("chargeprice: api key is required")
	ErrUnexpectedStatus = errors.New("chargeprice: unexpected response status")
)

var log = logrus.StandardLogger()

type Config struct {
	APIKey  string `yaml:"api_key"`
	Backend string `yaml:"backend"`
}

// Client talks to the Chargeprice API. It is the community station provider
// and the tariff repository.
type Client struct {
	httpClient *http.Client
	backend    string
}

func New(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	backend := config.Backend
	if backend == "" {
		backend = Backend
	}
	log.Debugf("chargeprice New backend=%s", backend)
	return &Client{
		httpClient: &http.Client{
			Transport: cpRoundTripper{apiKey: config.APIKey},
			Timeout:   30 * time.Second,
		},
		backend: backend,
	}, nil
}

func (c *Client) GetStations(ctx context.Context, northEast, southWest stations.Coordinate, options stations.ChargingOptions) ([]stations.Station, error) {
	params := url.Values{}
	params.Set("filter[ne_lat]", formatFloat(northEast.Latitude))
	params.Set("filter[ne_lng]", formatFloat(northEast.Longitude))
	params.Set("filter[sw_lat]", formatFloat(southWest.Latitude))
	params.Set("filter[sw_lng]", formatFloat(southWest.Longitude))
	if options.MinPower > 0 {
		params.Set("filter[min_power]", formatFloat(options.MinPower))
	}
	if options.OnlyFree {
		params.Set("filter[free_charging]", "true")
	}
	if options.OpenNow {
		params.Set("filter[open_now]", "true")
	}

	var doc Document[[]Resource[StationAttributes]]
	if err := c.do(ctx, http.MethodGet, "/v1/stations?"+params.Encode(), nil, &doc); err != nil {
		return nil, err
	}
	out := make([]stations.Station, 0, len(doc.Data))
	for _, r := range doc.Data {
		out = append(out, toStation(r))
	}
	log.Debugf("chargeprice: %d stations", len(out))
	return out, nil
}

// GetStationDetails is only needed for deep links: listed community
// stations already carry their full record.
func (c *Client) GetStationDetails(ctx context.Context, id string, _ stations.ChargingOptions) (stations.Station, error) {
	var doc Document[Resource[StationAttributes]]
	if err := c.do(ctx, http.MethodGet, "/v1/stations/"+url.PathEscape(id), nil, &doc); err != nil {
		return stations.Station{}, err
	}
	return toStation(doc.Data), nil
}

// GetTariffsOfStation asks for the price of every tariff at the station.
// The backend applies the filters; saved-tariff and monthly-fee filters are
// enforced again on the result.
func (c *Client) GetTariffsOfStation(ctx context.Context, station stations.Station, options stations.ChargingOptions) (stations.TariffResult, error) {
	if station.Lite {
		return stations.TariffResult{}, fmt.Errorf("%w: %s/%s", stations.ErrLiteStation, station.Adapter, station.ID)
	}

	body := Document[Resource[PriceRequestAttributes]]{
		Data: Resource[PriceRequestAttributes]{
			Type:          "charge_price_request",
			Attributes:    priceRequest(station, options),
			Relationships: priceRelationships(options),
		},
	}
	var doc Document[[]Resource[ChargePriceAttributes]]
	if err := c.do(ctx, http.MethodPost, "/v1/charge_prices", body, &doc); err != nil {
		return stations.TariffResult{}, err
	}

	tariffs := make([]stations.Tariff, 0, len(doc.Data))
	for _, r := range doc.Data {
		tariffs = append(tariffs, toTariff(r))
	}
	result := stations.TariffResult{Tariffs: FilterTariffs(tariffs, options)}
	if doc.Meta != nil {
		for _, cp := range doc.Meta.ChargePoints {
			result.Meta.ChargePoints = append(result.Meta.ChargePoints, stations.ChargePoint{
				Power:    cp.Power,
				Plug:     cp.Plug,
				Duration: cp.Duration,
				Energy:   cp.Energy,
			})
		}
	}
	log.Debugf("chargeprice: %d of %d tariffs after filtering", len(result.Tariffs), len(tariffs))
	return result, nil
}

// FilterTariffs drops the tariffs excluded by the user's tariff filters.
func FilterTariffs(tariffs []stations.Tariff, options stations.ChargingOptions) []stations.Tariff {
	out := make([]stations.Tariff, 0, len(tariffs))
	for _, t := range tariffs {
		if options.OnlyShowMyTariffs && !options.HasTariff(t.ID) {
			continue
		}
		if options.OnlyTariffsWithoutMonthlyFees && t.TotalMonthlyFee > 0 {
			continue
		}
		if !options.ProviderCustomerTariffs && t.ProviderCustomerTariff {
			continue
		}
		out = append(out, t)
	}
	return out
}

func priceRequest(station stations.Station, options stations.ChargingOptions) PriceRequestAttributes {
	cps := make([]ChargePoint, 0, len(station.ChargePoints))
	for _, cp := range station.ChargePoints {
		cps = append(cps, ChargePoint{Power: cp.Power, Plug: cp.Plug})
	}
	currency := options.DisplayedCurrency
	if currency == "" {
		currency = DefaultCurrency
	}
	opts := PriceRequestOptions{
		BatteryRange:            options.BatteryRange,
		Energy:                  options.ChargePointEnergy,
		Duration:                options.ChargePointDuration,
		CarACPhases:             options.CarACPhases,
		Currency:                currency,
		StartTime:               options.StartTime,
		AllowUnbalancedLoad:     options.AllowUnbalancedLoad,
		ProviderCustomerTariffs: options.ProviderCustomerTariffs,
	}
	if options.OnlyTariffsWithoutMonthlyFees {
		zero := 0
		opts.MaxMonthlyFees = &zero
	}
	return PriceRequestAttributes{
		DataAdapter: string(station.Adapter),
		StationID:   station.ID,
		Station: PriceRequestStation{
			Latitude:     station.Latitude,
			Longitude:    station.Longitude,
			Country:      station.Country,
			Network:      station.Network,
			ChargePoints: cps,
		},
		Options: opts,
	}
}

func priceRelationships(options stations.ChargingOptions) *Relationships {
	var rel Relationships
	if options.OnlyShowMyTariffs && len(options.MyTariffs) > 0 {
		ids := options.MyTariffIDs()
		data := make([]ResourceIdentifier, 0, len(ids))
		for _, id := range ids {
			data = append(data, ResourceIdentifier{ID: id, Type: "tariff"})
		}
		rel.Tariffs = &Relationship[[]ResourceIdentifier]{Data: data}
	}
	if options.MyVehicle != nil && options.MyVehicle.ID != "" {
		rel.Vehicle = &Relationship[ResourceIdentifier]{Data: ResourceIdentifier{ID: options.MyVehicle.ID, Type: "car"}}
	}
	if rel.Tariffs == nil && rel.Vehicle == nil {
		return nil
	}
	return &rel
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.backend+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return getError(res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func getError(res *http.Response) error {
	var doc Document[json.RawMessage]
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil || len(doc.Errors) == 0 {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}
	msgs := make([]string, 0, len(doc.Errors))
	for _, e := range doc.Errors {
		msg := e.Title
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, res.Status, strings.Join(msgs, "; "))
}

func toStation(r Resource[StationAttributes]) stations.Station {
	a := r.Attributes
	cps := make([]stations.ChargePoint, 0, len(a.ChargePoints))
	for _, cp := range a.ChargePoints {
		cps = append(cps, stations.ChargePoint{Power: cp.Power, Plug: cp.Plug, Count: cp.Count})
	}
	return stations.Station{
		ID:           r.ID,
		Adapter:      stations.AdapterCommunity,
		Name:         a.Name,
		Address:      a.Address,
		Network:      a.Network,
		Country:      a.Country,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		ChargePoints: cps,
	}
}

func toTariff(r Resource[ChargePriceAttributes]) stations.Tariff {
	a := r.Attributes
	id := r.ID
	if r.Relationships != nil && r.Relationships.Tariff != nil && r.Relationships.Tariff.Data.ID != "" {
		id = r.Relationships.Tariff.Data.ID
	}
	prices := make([]stations.ChargePointPrice, 0, len(a.ChargePointPrices))
	for _, p := range a.ChargePointPrices {
		prices = append(prices, stations.ChargePointPrice{
			Power:             p.Power,
			Plug:              p.Plug,
			Price:             p.Price,
			PriceDistribution: p.PriceDistribution,
		})
	}
	return stations.Tariff{
		ID:                     id,
		Provider:               a.Provider,
		Name:                   a.TariffName,
		URL:                    a.URL,
		Currency:               a.Currency,
		TotalMonthlyFee:        a.TotalMonthlyFee,
		ProviderCustomerTariff: a.ProviderCustomerTariff,
		ChargePointPrices:      prices,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
