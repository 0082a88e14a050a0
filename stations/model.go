package stations

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidBounds, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidBounds, c.Longitude)
	}
	return nil
}

// ParseCoordinate parses "lat,lng".
func ParseCoordinate(s string) (Coordinate, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: expected lat,lng, got %q", ErrInvalidBounds, s)
	}
	var (
		c   Coordinate
		err error
	)
	if c.Latitude, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude: %w", ErrInvalidBounds, err)
	}
	if c.Longitude, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude: %w", ErrInvalidBounds, err)
	}
	return c, c.Validate()
}

// BoundingBox is a map viewport. NorthEast.Longitude is always the eastern
// edge, so a box with NorthEast.Longitude < SouthWest.Longitude wraps around
// the antimeridian.
type BoundingBox struct {
	NorthEast Coordinate `json:"northEast"`
	SouthWest Coordinate `json:"southWest"`
}

func (b BoundingBox) Validate() error {
	if err := b.NorthEast.Validate(); err != nil {
		return err
	}
	if err := b.SouthWest.Validate(); err != nil {
		return err
	}
	if b.NorthEast.Latitude < b.SouthWest.Latitude {
		return fmt.Errorf("%w: north-east latitude %v is below south-west latitude %v",
			ErrInvalidBounds, b.NorthEast.Latitude, b.SouthWest.Latitude)
	}
	if b.NorthEast.Latitude == b.SouthWest.Latitude || b.NorthEast.Longitude == b.SouthWest.Longitude {
		return fmt.Errorf("%w: bounding box has no area", ErrInvalidBounds)
	}
	return nil
}

func (b BoundingBox) CrossesAntimeridian() bool {
	return b.NorthEast.Longitude < b.SouthWest.Longitude
}

// Split returns the box itself, or the two halves on either side of the
// antimeridian when the box wraps around it.
func (b BoundingBox) Split() []BoundingBox {
	if !b.CrossesAntimeridian() {
		return []BoundingBox{b}
	}
	west := BoundingBox{
		NorthEast: Coordinate{Latitude: b.NorthEast.Latitude, Longitude: 180},
		SouthWest: b.SouthWest,
	}
	east := BoundingBox{
		NorthEast: b.NorthEast,
		SouthWest: Coordinate{Latitude: b.SouthWest.Latitude, Longitude: -180},
	}
	return []BoundingBox{west, east}
}

func (b BoundingBox) Contains(c Coordinate) bool {
	if c.Latitude < b.SouthWest.Latitude || c.Latitude > b.NorthEast.Latitude {
		return false
	}
	if b.CrossesAntimeridian() {
		return c.Longitude >= b.SouthWest.Longitude || c.Longitude <= b.NorthEast.Longitude
	}
	return c.Longitude >= b.SouthWest.Longitude && c.Longitude <= b.NorthEast.Longitude
}

// Adapter identifies the data source a station was fetched from.
type Adapter string

const (
	// AdapterPrimary is the GoingElectric directory. Detail needs a round trip.
	AdapterPrimary Adapter = "going_electric"
	// AdapterCommunity is the Chargeprice station set. Records carry all data inline.
	AdapterCommunity Adapter = "chargeprice"
)

func (a Adapter) Valid() bool {
	switch a {
	case AdapterPrimary, AdapterCommunity:
		return true
	}
	return false
}

func ParseAdapter(s string) (Adapter, error) {
	a := Adapter(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAdapter, s)
	}
	return a, nil
}

// ChargePointDescriptor is the cross-source identity of a charge point.
// Provider ids are not comparable between sources, power and plug are.
type ChargePointDescriptor struct {
	Power float64 `json:"power"`
	Plug  string  `json:"plug"`
}

func (d ChargePointDescriptor) Matches(power float64, plug string) bool {
	return d.Power == power && d.Plug == plug
}

func (d ChargePointDescriptor) String() string {
	return fmt.Sprintf("%s %gkW", d.Plug, d.Power)
}

type ChargePoint struct {
	ID    string  `json:"id,omitempty"`
	Power float64 `json:"power"`
	Plug  string  `json:"plug"`
	Count int     `json:"count,omitempty"`
	// Duration of a charging session in minutes, 0 when unknown.
	Duration float64 `json:"duration,omitempty"`
	// Energy charged during the session in kWh, 0 when unknown.
	Energy float64 `json:"energy,omitempty"`
}

func (cp ChargePoint) Descriptor() ChargePointDescriptor {
	return ChargePointDescriptor{Power: cp.Power, Plug: cp.Plug}
}

type Station struct {
	ID           string        `json:"id"`
	Adapter      Adapter       `json:"dataAdapter"`
	Name         string        `json:"name,omitempty"`
	Address      string        `json:"address,omitempty"`
	Network      string        `json:"network,omitempty"`
	Country      string        `json:"country,omitempty"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	ChargePoints []ChargePoint `json:"chargePoints"`
	// Lite marks a placeholder built from a deep link: only ID and Adapter
	// are known until the station is resolved by Aggregator.Detail.
	Lite bool `json:"lite,omitempty"`
}

func NewLiteStation(id string, adapter Adapter) Station {
	return Station{
		ID:           id,
		Adapter:      adapter,
		ChargePoints: []ChargePoint{},
		Lite:         true,
	}
}

func (s Station) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

type ChargePointPrice struct {
	Power float64 `json:"power"`
	Plug  string  `json:"plug"`
	Price float64 `json:"price"`
	// PriceDistribution is the provider's breakdown of Price. It is passed
	// through untouched.
	PriceDistribution map[string]any `json:"price_distribution,omitempty"`
}

type Tariff struct {
	ID                     string             `json:"id"`
	Provider               string             `json:"provider,omitempty"`
	Name                   string             `json:"name,omitempty"`
	URL                    string             `json:"url,omitempty"`
	Currency               string             `json:"currency,omitempty"`
	TotalMonthlyFee        float64            `json:"total_monthly_fee,omitempty"`
	ProviderCustomerTariff bool               `json:"provider_customer_tariff,omitempty"`
	ChargePointPrices      []ChargePointPrice `json:"charge_point_prices"`
}

// TariffMeta carries the duration and energy the tariff backend assumed for
// each charge point of the station.
type TariffMeta struct {
	ChargePoints []ChargePoint `json:"charge_points"`
}

type TariffResult struct {
	Tariffs []Tariff   `json:"data"`
	Meta    TariffMeta `json:"meta"`
}

type PriceEntry struct {
	Price float64 `json:"price"`
	// PricePerKWh is nil when the charge point energy is unknown or zero.
	PricePerKWh  *float64       `json:"pricePerKWh,omitempty"`
	Distribution map[string]any `json:"distribution,omitempty"`
	Tariff       Tariff         `json:"tariff"`
}
