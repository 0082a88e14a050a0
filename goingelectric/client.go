package goingelectric

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/chargeprice-map/stations"
)

const Backend string = "https://api.goingelectric.de"

var (
	ErrMissingAPIKey    = errors.New("goingelectric: api key is required")
	ErrStationNotFound  = fmt.Errorf("goingelectric: %w", stations.ErrStationNotFound)
	ErrUnexpectedStatus = errors.New("goingelectric: unexpected response status")
)

var log = logrus.StandardLogger()

type Config struct {
	APIKey  string `yaml:"api_key"`
	Backend string `yaml:"backend"`
}

// Client is the primary station provider.
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
	log.Debugf("goingelectric New backend=%s", backend)
	return &Client{
		httpClient: &http.Client{
			Transport: geRoundTripper{apiKey: config.APIKey},
			Timeout:   30 * time.Second,
		},
		backend: backend,
	}, nil
}

// GetStations lists the charge locations inside the box, translating the
// charging options into GoingElectric's filters.
func (c *Client) GetStations(ctx context.Context, northEast, southWest stations.Coordinate, options stations.ChargingOptions) ([]stations.Station, error) {
	params := url.Values{}
	params.Set("ne_lat", formatFloat(northEast.Latitude))
	params.Set("ne_lng", formatFloat(northEast.Longitude))
	params.Set("sw_lat", formatFloat(southWest.Latitude))
	params.Set("sw_lng", formatFloat(southWest.Longitude))
	params.Set("clustering", "false")
	if options.MinPower > 0 {
		params.Set("min_power", formatFloat(options.MinPower))
	}
	if options.OnlyFree {
		params.Set("freecharging", "true")
	}
	// There is no "open now" filter, the closest is round-the-clock access.
	if options.OpenNow {
		params.Set("open_twentyfourseven", "true")
	}

	locations, err := c.getChargePoints(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]stations.Station, 0, len(locations))
	for _, l := range locations {
		out = append(out, toStation(l))
	}
	log.Debugf("goingelectric: %d stations", len(out))
	return out, nil
}

func (c *Client) GetStationDetails(ctx context.Context, id string, _ stations.ChargingOptions) (stations.Station, error) {
	params := url.Values{}
	params.Set("ge_id", id)

	locations, err := c.getChargePoints(ctx, params)
	if err != nil {
		return stations.Station{}, err
	}
	if len(locations) == 0 {
		return stations.Station{}, fmt.Errorf("%w: %s", ErrStationNotFound, id)
	}
	return toStation(locations[0]), nil
}

func (c *Client) getChargePoints(ctx context.Context, params url.Values) ([]ChargeLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.backend+"/chargepoints/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	var response chargePointsResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode chargepoints: %w", err)
	}
	if response.Status != "ok" {
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedStatus, response.Status)
	}
	// Only the first page is fetched, a set startkey means more results
	// exist beyond it.
	if response.StartKey != 0 {
		log.WithField("startkey", response.StartKey).
			Debugf("goingelectric: result truncated to %d locations", len(response.ChargeLocations))
	}
	return response.ChargeLocations, nil
}

func toStation(l ChargeLocation) stations.Station {
	cps := make([]stations.ChargePoint, 0, len(l.ChargePoints))
	for _, cp := range l.ChargePoints {
		cps = append(cps, stations.ChargePoint{
			Power: cp.Power,
			Plug:  NormalizePlug(cp.Type),
			Count: cp.Count,
		})
	}
	return stations.Station{
		ID:           l.idString(),
		Adapter:      stations.AdapterPrimary,
		Name:         l.Name,
		Address:      formatAddress(l.Address),
		Network:      string(l.Network),
		Country:      l.Address.Country,
		Latitude:     l.Coordinates.Lat,
		Longitude:    l.Coordinates.Lng,
		ChargePoints: cps,
	}
}

func formatAddress(a Address) string {
	switch {
	case a.Street == "":
		return a.City
	case a.City == "":
		return a.Street
	}
	return a.Street + ", " + a.Postcode + " " + a.City
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
