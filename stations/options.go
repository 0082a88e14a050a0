package stations

import (
	"fmt"
	"sort"
	"time"
)

const DefaultCarACPhases = 3

type Vehicle struct {
	ID    string `json:"id" yaml:"id"`
	Brand string `json:"brand,omitempty" yaml:"brand"`
	Model string `json:"model,omitempty" yaml:"model"`
}

// ChargingOptions is a read-only snapshot of every user-tunable filter of a
// single query. Functions in this package receive it by value and never
// modify the MyTariffs set they were handed.
type ChargingOptions struct {
	MinPower                      float64
	OnlyFree                      bool
	OpenNow                       bool
	ProviderCustomerTariffs       bool
	OnlyShowMyTariffs             bool
	AllowUnbalancedLoad           bool
	CarACPhases                   int
	OnlyTariffsWithoutMonthlyFees bool
	// BatteryRange is the energy to be charged, in kWh.
	BatteryRange      float64
	MyTariffs         map[string]struct{}
	MyVehicle         *Vehicle
	DisplayedCurrency string
	// StartTime is the session start in minutes after midnight.
	StartTime int
	// ChargePoint is nil until the user selects one.
	ChargePoint *ChargePointDescriptor
	// ChargePointDuration and ChargePointEnergy are filled from the tariff
	// meta of the selected charge point, see WithChargePoint.
	ChargePointDuration float64
	ChargePointEnergy   float64
}

func (o ChargingOptions) HasTariff(id string) bool {
	_, ok := o.MyTariffs[id]
	return ok
}

// MyTariffIDs returns the saved tariff ids in a stable order.
func (o ChargingOptions) MyTariffIDs() []string {
	ids := make([]string, 0, len(o.MyTariffs))
	for id := range o.MyTariffs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithChargePoint returns a copy of the options carrying the duration and
// energy of cp, for tariff evaluations that depend on them.
func (o ChargingOptions) WithChargePoint(cp ChargePoint) ChargingOptions {
	o.ChargePointDuration = cp.Duration
	o.ChargePointEnergy = cp.Energy
	return o
}

// ParseStartTime converts "HH:MM" to minutes after midnight.
func ParseStartTime(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Settings is the raw state of the settings form (or the CLI flags and
// config file standing in for it).
type Settings struct {
	MinPower                      float64                `yaml:"min_power"`
	OnlyFree                      bool                   `yaml:"only_free"`
	OpenNow                       bool                   `yaml:"open_now"`
	ProviderCustomerTariffs       bool                   `yaml:"provider_customer_tariffs"`
	OnlyShowMyTariffs             bool                   `yaml:"only_show_my_tariffs"`
	AllowUnbalancedLoad           bool                   `yaml:"allow_unbalanced_load"`
	CarACPhases                   int                    `yaml:"car_ac_phases"`
	OnlyTariffsWithoutMonthlyFees bool                   `yaml:"only_tariffs_without_monthly_fees"`
	BatteryRange                  float64                `yaml:"battery_range"`
	MyTariffs                     []string               `yaml:"my_tariffs"`
	MyVehicle                     *Vehicle               `yaml:"my_vehicle"`
	DisplayedCurrency             string                 `yaml:"displayed_currency"`
	StartTime                     int                    `yaml:"start_time"`
	ChargePoint                   *ChargePointDescriptor `yaml:"-"`
}

// Options builds the snapshot handed to the core. When the unbalanced load
// concept is not shown to the user at all, unbalanced load is always allowed.
func (s Settings) Options(showUnbalancedLoad bool) ChargingOptions {
	phases := s.CarACPhases
	if phases <= 0 {
		phases = DefaultCarACPhases
	}
	myTariffs := make(map[string]struct{}, len(s.MyTariffs))
	for _, id := range s.MyTariffs {
		myTariffs[id] = struct{}{}
	}
	var vehicle *Vehicle
	if s.MyVehicle != nil {
		v := *s.MyVehicle
		vehicle = &v
	}
	var cp *ChargePointDescriptor
	if s.ChargePoint != nil {
		d := *s.ChargePoint
		cp = &d
	}
	return ChargingOptions{
		MinPower:                      s.MinPower,
		OnlyFree:                      s.OnlyFree,
		OpenNow:                       s.OpenNow,
		ProviderCustomerTariffs:       s.ProviderCustomerTariffs,
		OnlyShowMyTariffs:             s.OnlyShowMyTariffs,
		AllowUnbalancedLoad:           !showUnbalancedLoad || s.AllowUnbalancedLoad,
		CarACPhases:                   phases,
		OnlyTariffsWithoutMonthlyFees: s.OnlyTariffsWithoutMonthlyFees,
		BatteryRange:                  s.BatteryRange,
		MyTariffs:                     myTariffs,
		MyVehicle:                     vehicle,
		DisplayedCurrency:             s.DisplayedCurrency,
		StartTime:                     s.StartTime,
		ChargePoint:                   cp,
	}
}
