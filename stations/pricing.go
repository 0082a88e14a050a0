package stations

import (
	"math"
)

// PricesForSelection returns one entry per tariff that prices the selected
// charge point, in tariff order. The boolean is false when there is nothing
// to show: no charge point is selected, or the selection does not exist on
// this station anymore. An empty, non-nil slice with true means that no
// tariff covers the charge point.
//
// chargePoints should come from the tariff meta, since only those carry the
// duration and energy used for the per-kWh figure.
func PricesForSelection(chargePoints []ChargePoint, tariffs []Tariff, selected *ChargePointDescriptor) ([]PriceEntry, bool) {
	if selected == nil {
		return nil, false
	}
	cp, ok := FindChargePoint(chargePoints, *selected)
	if !ok {
		return nil, false
	}

	entries := make([]PriceEntry, 0, len(tariffs))
	for _, t := range tariffs {
		cpp, ok := findChargePointPrice(t.ChargePointPrices, *selected)
		if !ok {
			continue
		}
		entries = append(entries, PriceEntry{
			Price:        cpp.Price,
			PricePerKWh:  pricePerKWh(cpp.Price, cp.Energy),
			Distribution: cpp.PriceDistribution,
			Tariff:       t,
		})
	}
	return entries, true
}

func FindChargePoint(chargePoints []ChargePoint, selected ChargePointDescriptor) (ChargePoint, bool) {
	for _, cp := range chargePoints {
		if selected.Matches(cp.Power, cp.Plug) {
			return cp, true
		}
	}
	return ChargePoint{}, false
}

func findChargePointPrice(prices []ChargePointPrice, selected ChargePointDescriptor) (ChargePointPrice, bool) {
	for _, p := range prices {
		if selected.Matches(p.Power, p.Plug) {
			return p, true
		}
	}
	return ChargePointPrice{}, false
}

// pricePerKWh is undefined without a positive energy figure.
func pricePerKWh(price, energy float64) *float64 {
	if energy <= 0 || math.IsNaN(energy) || math.IsInf(energy, 0) {
		return nil
	}
	v := price / energy
	return &v
}
