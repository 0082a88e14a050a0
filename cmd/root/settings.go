package root

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/denysvitali/chargeprice-map/stations"
)

var flagSettings struct {
	minPower            float64
	onlyFree            bool
	openNow             bool
	customerTariffs     bool
	onlyMyTariffs       bool
	noMonthlyFees       bool
	allowUnbalancedLoad bool
	phases              int
	batteryRange        float64
	myTariffs           []string
	vehicle             string
	currency            string
	startTime           string
}

// AddSettingsFlags registers the charging settings flags on cmd. Flags that
// are not given keep the value of the config defaults.
func AddSettingsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&flagSettings.minPower, "min-power", 0, "minimum charge point power in kW")
	f.BoolVar(&flagSettings.onlyFree, "only-free", false, "only stations with free charging")
	f.BoolVar(&flagSettings.openNow, "open-now", false, "only stations open right now")
	f.BoolVar(&flagSettings.customerTariffs, "provider-customer-tariffs", false, "include tariffs that require being a customer of the provider")
	f.BoolVar(&flagSettings.onlyMyTariffs, "only-my-tariffs", false, "only show the tariffs given with --my-tariff")
	f.BoolVar(&flagSettings.noMonthlyFees, "no-monthly-fees", false, "only tariffs without a monthly fee")
	f.BoolVar(&flagSettings.allowUnbalancedLoad, "allow-unbalanced-load", false, "allow unbalanced load on single phase charging")
	f.IntVar(&flagSettings.phases, "phases", stations.DefaultCarACPhases, "AC phases of the car")
	f.Float64Var(&flagSettings.batteryRange, "battery-range", 0, "energy to charge in kWh")
	f.StringSliceVar(&flagSettings.myTariffs, "my-tariff", nil, "id of a tariff you own, repeatable")
	f.StringVar(&flagSettings.vehicle, "vehicle", "", "vehicle id")
	f.StringVar(&flagSettings.currency, "currency", "", "displayed currency, e.g. EUR")
	f.StringVar(&flagSettings.startTime, "start-time", "", "session start as HH:MM")
}

// Settings returns the config defaults overridden by the flags given on cmd.
func Settings(cmd *cobra.Command) (stations.Settings, error) {
	var s stations.Settings
	if cfg != nil {
		s = cfg.Defaults
	}
	f := cmd.Flags()
	if f.Changed("min-power") {
		s.MinPower = flagSettings.minPower
	}
	if f.Changed("only-free") {
		s.OnlyFree = flagSettings.onlyFree
	}
	if f.Changed("open-now") {
		s.OpenNow = flagSettings.openNow
	}
	if f.Changed("provider-customer-tariffs") {
		s.ProviderCustomerTariffs = flagSettings.customerTariffs
	}
	if f.Changed("only-my-tariffs") {
		s.OnlyShowMyTariffs = flagSettings.onlyMyTariffs
	}
	if f.Changed("no-monthly-fees") {
		s.OnlyTariffsWithoutMonthlyFees = flagSettings.noMonthlyFees
	}
	if f.Changed("allow-unbalanced-load") {
		s.AllowUnbalancedLoad = flagSettings.allowUnbalancedLoad
	}
	if f.Changed("phases") {
		s.CarACPhases = flagSettings.phases
	}
	if f.Changed("battery-range") {
		s.BatteryRange = flagSettings.batteryRange
	}
	if f.Changed("my-tariff") {
		s.MyTariffs = flagSettings.myTariffs
	}
	if f.Changed("vehicle") {
		s.MyVehicle = &stations.Vehicle{ID: flagSettings.vehicle}
	}
	if f.Changed("currency") {
		s.DisplayedCurrency = strings.ToUpper(flagSettings.currency)
	}
	if f.Changed("start-time") {
		minutes, err := stations.ParseStartTime(flagSettings.startTime)
		if err != nil {
			return s, err
		}
		s.StartTime = minutes
	}
	return s, nil
}

// ShowUnbalancedLoad reports whether the unbalanced load setting is exposed
// to the user.
func ShowUnbalancedLoad() bool {
	return cfg != nil && cfg.ShowUnbalancedLoad
}
