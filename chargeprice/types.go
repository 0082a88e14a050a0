package chargeprice

// Document is the JSON:API envelope used by every endpoint.
type Document[T any] struct {
	Data   T          `json:"data"`
	Meta   *Meta      `json:"meta,omitempty"`
	Errors []APIError `json:"errors,omitempty"`
}

type Resource[A any] struct {
	ID            string         `json:"id,omitempty"`
	Type          string         `json:"type"`
	Attributes    A              `json:"attributes"`
	Relationships *Relationships `json:"relationships,omitempty"`
}

type ResourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type Relationship[T any] struct {
	Data T `json:"data"`
}

type Relationships struct {
	Tariff  *Relationship[ResourceIdentifier]   `json:"tariff,omitempty"`
	Tariffs *Relationship[[]ResourceIdentifier] `json:"tariffs,omitempty"`
	Vehicle *Relationship[ResourceIdentifier]   `json:"vehicle,omitempty"`
}

type APIError struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type Meta struct {
	ChargePoints []MetaChargePoint `json:"charge_points"`
}

type MetaChargePoint struct {
	Power    float64 `json:"power"`
	Plug     string  `json:"plug"`
	Energy   float64 `json:"energy"`
	Duration float64 `json:"duration"`
}

type ChargePoint struct {
	Power float64 `json:"power"`
	Plug  string  `json:"plug"`
	Count int     `json:"count,omitempty"`
}

type StationAttributes struct {
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Country      string        `json:"country"`
	Network      string        `json:"network"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	ChargePoints []ChargePoint `json:"charge_points"`
}

type ChargePointPrice struct {
	Power             float64        `json:"power"`
	Plug              string         `json:"plug"`
	Price             float64        `json:"price"`
	PriceDistribution map[string]any `json:"price_distribution"`
}

type ChargePriceAttributes struct {
	Provider               string             `json:"provider"`
	TariffName             string             `json:"tariff_name"`
	URL                    string             `json:"url"`
	Currency               string             `json:"currency"`
	TotalMonthlyFee        float64            `json:"total_monthly_fee"`
	ProviderCustomerTariff bool               `json:"provider_customer_tariff"`
	ChargePointPrices      []ChargePointPrice `json:"charge_point_prices"`
}

type PriceRequestStation struct {
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	Country      string        `json:"country,omitempty"`
	Network      string        `json:"network,omitempty"`
	ChargePoints []ChargePoint `json:"charge_points"`
}

type PriceRequestOptions struct {
	BatteryRange            float64 `json:"battery_range"`
	Energy                  float64 `json:"energy,omitempty"`
	Duration                float64 `json:"duration,omitempty"`
	CarACPhases             int     `json:"car_ac_phases"`
	Currency                string  `json:"currency"`
	StartTime               int     `json:"start_time"`
	AllowUnbalancedLoad     bool    `json:"allow_unbalanced_load"`
	ProviderCustomerTariffs bool    `json:"provider_customer_tariffs"`
	MaxMonthlyFees          *int    `json:"max_monthly_fees,omitempty"`
}

type PriceRequestAttributes struct {
	DataAdapter string              `json:"data_adapter"`
	StationID   string              `json:"station_id,omitempty"`
	Station     PriceRequestStation `json:"station"`
	Options     PriceRequestOptions `json:"options"`
}
