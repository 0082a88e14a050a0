package stations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ccs50 = &ChargePointDescriptor{Power: 50, Plug: "CCS"}

func TestPricesForSelection(t *testing.T) {
	chargePoints := []ChargePoint{
		{Power: 22, Plug: "Type2", Duration: 120, Energy: 40},
		{Power: 50, Plug: "CCS", Duration: 48, Energy: 40},
	}
	covering := Tariff{ID: "t1", ChargePointPrices: []ChargePointPrice{
		{Power: 50, Plug: "CCS", Price: 10, PriceDistribution: map[string]any{"kwh": 1.0}},
		{Power: 22, Plug: "Type2", Price: 8},
	}}
	notCovering := Tariff{ID: "t2", ChargePointPrices: []ChargePointPrice{
		{Power: 50, Plug: "CHAdeMO", Price: 12},
		{Power: 43, Plug: "CCS", Price: 12},
	}}

	entries, ok := PricesForSelection(chargePoints, []Tariff{covering, notCovering}, ccs50)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, 10.0, entries[0].Price)
	require.NotNil(t, entries[0].PricePerKWh)
	assert.InDelta(t, 0.25, *entries[0].PricePerKWh, 1e-9)
	assert.Equal(t, map[string]any{"kwh": 1.0}, entries[0].Distribution)
	assert.Equal(t, "t1", entries[0].Tariff.ID)
}

func TestPricesForSelection_PreservesTariffOrder(t *testing.T) {
	chargePoints := []ChargePoint{{Power: 50, Plug: "CCS", Energy: 20}}
	var tariffs []Tariff
	for _, id := range []string{"c", "a", "b"} {
		tariffs = append(tariffs, Tariff{ID: id, ChargePointPrices: []ChargePointPrice{{Power: 50, Plug: "CCS", Price: 5}}})
	}

	entries, ok := PricesForSelection(chargePoints, tariffs, ccs50)
	require.True(t, ok)
	var got []string
	for _, e := range entries {
		got = append(got, e.Tariff.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func TestPricesForSelection_Unset(t *testing.T) {
	chargePoints := []ChargePoint{{Power: 22, Plug: "Type2", Energy: 40}}
	tariffs := []Tariff{{ID: "t1", ChargePointPrices: []ChargePointPrice{{Power: 50, Plug: "CCS", Price: 10}}}}

	tests := []struct {
		name     string
		selected *ChargePointDescriptor
	}{
		{name: "nothing selected", selected: nil},
		{name: "stale selection", selected: ccs50},
		{name: "same power other plug", selected: &ChargePointDescriptor{Power: 22, Plug: "CCS"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, ok := PricesForSelection(chargePoints, tariffs, tt.selected)
			assert.False(t, ok)
			assert.Nil(t, entries)
		})
	}
}

func TestPricesForSelection_NoTariffCovers(t *testing.T) {
	chargePoints := []ChargePoint{{Power: 50, Plug: "CCS", Energy: 40}}
	tariffs := []Tariff{{ID: "t1", ChargePointPrices: []ChargePointPrice{{Power: 22, Plug: "Type2", Price: 10}}}}

	entries, ok := PricesForSelection(chargePoints, tariffs, ccs50)
	assert.True(t, ok)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	entries, ok = PricesForSelection(chargePoints, nil, ccs50)
	assert.True(t, ok)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestPricesForSelection_ZeroEnergy(t *testing.T) {
	tariffs := []Tariff{{ID: "t1", ChargePointPrices: []ChargePointPrice{{Power: 50, Plug: "CCS", Price: 10}}}}

	for _, energy := range []float64{0, -1} {
		entries, ok := PricesForSelection([]ChargePoint{{Power: 50, Plug: "CCS", Energy: energy}}, tariffs, ccs50)
		require.True(t, ok)
		require.Len(t, entries, 1)
		assert.Equal(t, 10.0, entries[0].Price)
		assert.Nil(t, entries[0].PricePerKWh)
	}
}

type fakeTariffs struct {
	result  TariffResult
	err     error
	options []ChargingOptions
}

func (f *fakeTariffs) GetTariffsOfStation(_ context.Context, _ Station, options ChargingOptions) (TariffResult, error) {
	f.options = append(f.options, options)
	return f.result, f.err
}

func TestPricer_Quote(t *testing.T) {
	repo := &fakeTariffs{result: TariffResult{
		Tariffs: []Tariff{
			{ID: "t1", ChargePointPrices: []ChargePointPrice{{Power: 50, Plug: "CCS", Price: 12}}},
			{ID: "t2", ChargePointPrices: []ChargePointPrice{{Power: 22, Plug: "Type2", Price: 6}}},
		},
		Meta: TariffMeta{ChargePoints: []ChargePoint{
			{Power: 50, Plug: "CCS", Duration: 30, Energy: 30},
			{Power: 22, Plug: "Type2", Duration: 90, Energy: 30},
		}},
	}}
	st := Station{
		ID:      "1",
		Adapter: AdapterPrimary,
		// The station's own charge points lack duration and energy.
		ChargePoints: []ChargePoint{{Power: 50, Plug: "CCS"}, {Power: 22, Plug: "Type2"}},
	}
	options := Settings{BatteryRange: 30, ChargePoint: ccs50}.Options(false)

	q, err := NewPricer(repo).Quote(context.Background(), st, options)
	require.NoError(t, err)
	require.True(t, q.Selected)
	require.Len(t, q.Entries, 1)
	assert.Equal(t, "t1", q.Entries[0].Tariff.ID)
	require.NotNil(t, q.Entries[0].PricePerKWh)
	assert.InDelta(t, 0.4, *q.Entries[0].PricePerKWh, 1e-9)
	assert.Equal(t, 30.0, q.Options.ChargePointDuration)
	assert.Equal(t, 30.0, q.Options.ChargePointEnergy)
	// The caller's options are left alone.
	assert.Equal(t, 0.0, options.ChargePointEnergy)
	require.Len(t, repo.options, 1)
	assert.Equal(t, 0.0, repo.options[0].ChargePointEnergy)
}

func TestPricer_QuoteWithoutSelection(t *testing.T) {
	repo := &fakeTariffs{result: TariffResult{
		Tariffs: []Tariff{{ID: "t1", ChargePointPrices: []ChargePointPrice{{Power: 50, Plug: "CCS", Price: 12}}}},
	}}
	st := Station{ID: "1", Adapter: AdapterCommunity, ChargePoints: []ChargePoint{{Power: 50, Plug: "CCS", Energy: 10}}}

	q, err := NewPricer(repo).Quote(context.Background(), st, Settings{}.Options(true))
	require.NoError(t, err)
	assert.False(t, q.Selected)
	assert.Nil(t, q.Entries)
	assert.Len(t, q.Tariffs.Tariffs, 1)
}

func TestPricer_QuoteFallsBackToStationChargePoints(t *testing.T) {
	repo := &fakeTariffs{result: TariffResult{
		Tariffs: []Tariff{{ID: "t1", ChargePointPrices: []ChargePointPrice{{Power: 50, Plug: "CCS", Price: 12}}}},
	}}
	st := Station{ID: "1", Adapter: AdapterCommunity, ChargePoints: []ChargePoint{{Power: 50, Plug: "CCS", Energy: 24}}}

	q, err := NewPricer(repo).Quote(context.Background(), st, Settings{ChargePoint: ccs50}.Options(true))
	require.NoError(t, err)
	require.True(t, q.Selected)
	require.Len(t, q.Entries, 1)
	assert.InDelta(t, 0.5, *q.Entries[0].PricePerKWh, 1e-9)
}

func TestPricer_QuoteErrors(t *testing.T) {
	repo := &fakeTariffs{err: errors.New("boom")}
	pricer := NewPricer(repo)

	_, err := pricer.Quote(context.Background(), Station{ID: "1", Adapter: AdapterPrimary}, ChargingOptions{})
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = pricer.Quote(context.Background(), NewLiteStation("1", AdapterPrimary), ChargingOptions{})
	assert.ErrorIs(t, err, ErrLiteStation)
	assert.Len(t, repo.options, 1)
}
