package stations

import (
	"context"
	"fmt"
	"time"
)

// TariffRepository returns every tariff applicable to a station under the
// given filters, together with the duration and energy assumed per charge
// point.
type TariffRepository interface {
	GetTariffsOfStation(ctx context.Context, station Station, options ChargingOptions) (TariffResult, error)
}

// Quote is the outcome of pricing a station for the selected charge point.
type Quote struct {
	Station Station
	// Tariffs is the raw repository answer the entries were computed from.
	Tariffs TariffResult
	// Selected is false when no known charge point is selected. Entries is
	// nil in that case.
	Selected    bool
	ChargePoint ChargePoint
	// Options are the query options with the selected charge point's
	// duration and energy filled in.
	Options ChargingOptions
	Entries []PriceEntry
}

type Pricer struct {
	tariffs  TariffRepository
	recorder Recorder
}

func NewPricer(tariffs TariffRepository, opts ...PricerOption) *Pricer {
	p := &Pricer{tariffs: tariffs, recorder: nopRecorder{}}
	for _, f := range opts {
		f(p)
	}
	return p
}

type PricerOption func(*Pricer)

func WithPricerRecorder(r Recorder) PricerOption {
	return func(p *Pricer) { p.recorder = r }
}

// Quote looks up the tariffs of a resolved station and prices the charge
// point selected in options.
//
// The per-kWh figure divides by the energy the tariff backend reports for the
// charge point, which it derives from BatteryRange and the charge point
// power. The session energy actually consumed is not known here.
func (p *Pricer) Quote(ctx context.Context, station Station, options ChargingOptions) (*Quote, error) {
	if station.Lite {
		return nil, fmt.Errorf("%w: %s/%s", ErrLiteStation, station.Adapter, station.ID)
	}

	start := time.Now()
	res, err := p.tariffs.GetTariffsOfStation(ctx, station, options)
	p.recorder.ObserveProviderCall("tariffs", "prices", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: tariffs: %w", ErrProviderUnavailable, err)
	}

	q := &Quote{Station: station, Tariffs: res, Options: options}
	chargePoints := res.Meta.ChargePoints
	if len(chargePoints) == 0 {
		chargePoints = station.ChargePoints
	}

	entries, ok := PricesForSelection(chargePoints, res.Tariffs, options.ChargePoint)
	if !ok {
		log.Debugf("no charge point selected on %s/%s", station.Adapter, station.ID)
		return q, nil
	}
	cp, _ := FindChargePoint(chargePoints, *options.ChargePoint)
	q.Selected = true
	q.ChargePoint = cp
	q.Options = options.WithChargePoint(cp)
	q.Entries = entries
	return q, nil
}
