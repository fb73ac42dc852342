package wlan

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

var subcarriers = map[Bandwidth]float64{BW20: 234, BW40: 468, BW80: 980, BW160: 1960, BW320: 3920}

var bitsPerSubcarrier = []float64{1, 2, 2, 4, 4, 6, 6, 6, 8, 8, 10, 10, 12, 12}

func TestPublishedRates(t *testing.T) {
	assert, require := makeAR(t)

	for _, tt := range []struct {
		std  Standard
		mcs  int
		bw   Bandwidth
		gi   GuardInterval
		rate float64
	}{
		{Std11ax, 0, BW20, GI08, 8.6},
		{Std11ax, 0, BW20, GI32, 7.3},
		{Std11ax, 7, BW20, GI08, 86.0},
		{Std11ax, 9, BW20, GI32, 97.5},
		{Std11ax, 11, BW80, GI08, 600.5},
		{Std11ax, 11, BW160, GI08, 1201.0},
		{Std11ax, 11, BW160, GI16, 1134.3},
		{Std11be, 13, BW320, GI08, 2882.4},
		{Std11be, 13, BW20, GI16, 162.5},
		{Std11be, 12, BW320, GI32, 2205.0},
	} {
		table, err := DefaultCatalog.Table(tt.std)
		require.NoError(err)
		rate, err := table.DataRate(tt.mcs, tt.bw, tt.gi)
		require.NoError(err)
		assert.Equal(tt.rate, rate, "%s MCS%d %s %s", tt.std, tt.mcs, tt.bw, tt.gi)
	}
}

func TestRateGridMatchesSubcarrierFormula(t *testing.T) {
	assert, require := makeAR(t)

	for _, std := range []Standard{Std11ax, Std11be} {
		table, err := DefaultCatalog.Table(std)
		require.NoError(err)
		_, maxMCS := table.MCSRange()
		for mcs := 0; mcs <= maxMCS; mcs++ {
			info, err := table.Info(mcs)
			require.NoError(err)
			coding := float64(info.CodingRate.Num) / float64(info.CodingRate.Den)
			for _, bw := range table.ValidBandwidths() {
				for _, gi := range []GuardInterval{GI08, GI16, GI32} {
					rate, err := table.DataRate(mcs, bw, gi)
					require.NoError(err)
					expected := subcarriers[bw] * bitsPerSubcarrier[mcs] * coding / (SymbolDuration(gi) * 1e6)
					assert.True(scalar.EqualWithinAbs(expected, rate, 0.051),
						"%s MCS%d %s %s: %v vs %v", std, mcs, bw, gi, rate, expected)
				}
			}
		}
	}
}

func TestMCSRanges(t *testing.T) {
	assert, require := makeAR(t)

	ax, err := DefaultCatalog.Table(Std11ax)
	require.NoError(err)
	be, err := DefaultCatalog.Table(Std11be)
	require.NoError(err)

	_, maxAX := ax.MCSRange()
	_, maxBE := be.MCSRange()
	assert.Equal(11, maxAX)
	assert.Equal(13, maxBE)
	assert.Equal([]Bandwidth{BW20, BW40, BW80, BW160}, ax.ValidBandwidths())
	assert.Equal([]Bandwidth{BW20, BW40, BW80, BW160, BW320}, be.ValidBandwidths())

	info, err := be.Info(13)
	require.NoError(err)
	assert.Equal("4096-QAM", info.Modulation)
	assert.Equal("5/6", info.CodingRate.String())
}

func TestInfoOutOfRange(t *testing.T) {
	assert, require := makeAR(t)

	ax, _ := DefaultCatalog.Table(Std11ax)
	_, err := ax.Info(99)
	var bad *InvalidParameterError
	require.ErrorAs(err, &bad)
	assert.Equal(ParamMCS, bad.Param)
	assert.Equal(99, bad.Value)
	assert.Contains(bad.Error(), "out of range")

	_, err = ax.Info(12)
	assert.ErrorAs(err, &bad)
	_, err = ax.Info(-1)
	assert.ErrorAs(err, &bad)
}

func TestDataRateDistinguishesCause(t *testing.T) {
	assert, _ := makeAR(t)

	ax, _ := DefaultCatalog.Table(Std11ax)
	for _, tt := range []struct {
		mcs   int
		bw    Bandwidth
		gi    GuardInterval
		param string
	}{
		{12, BW80, GI08, ParamMCS},
		{5, BW320, GI08, ParamBandwidth},
		{5, Bandwidth(60), GI08, ParamBandwidth},
		{5, BW80, GuardInterval(400), ParamGuardInterval},
	} {
		_, err := ax.DataRate(tt.mcs, tt.bw, tt.gi)
		var bad *InvalidParameterError
		if assert.ErrorAs(err, &bad) {
			assert.Equal(tt.param, bad.Param)
		}
	}
}

func TestInfoReturnsCopy(t *testing.T) {
	assert, require := makeAR(t)

	be, _ := DefaultCatalog.Table(Std11be)
	info, err := be.Info(0)
	require.NoError(err)
	info.Rates[BW20][GI08] = 0

	rate, err := be.DataRate(0, BW20, GI08)
	require.NoError(err)
	assert.Equal(8.6, rate)
}

func TestCatalogSubstitution(t *testing.T) {
	assert, require := makeAR(t)

	entries := map[int]Entry{
		0: {Modulation: "BPSK", CodingRate: CodingRate{1, 2}, Rates: map[Bandwidth]map[GuardInterval]float64{
			BW20: {GI08: 1, GI16: 2, GI32: 3},
		}},
	}
	table, err := NewTable(Std11ax, []Bandwidth{BW20}, entries)
	require.NoError(err)
	catalog := Catalog{Std11ax: table}

	rate, err := catalog[Std11ax].DataRate(0, BW20, GI16)
	require.NoError(err)
	assert.Equal(2.0, rate)

	_, err = catalog.Table(Std11be)
	var unsupported *UnsupportedStandardError
	assert.ErrorAs(err, &unsupported)
}

func TestNewTableRejectsIncompleteRows(t *testing.T) {
	assert, _ := makeAR(t)

	_, err := NewTable(Std11ax, []Bandwidth{BW20, BW40}, map[int]Entry{
		0: {Rates: map[Bandwidth]map[GuardInterval]float64{BW20: {GI08: 1, GI16: 2, GI32: 3}}},
	})
	assert.Error(err)

	_, err = NewTable(Std11ax, []Bandwidth{BW20}, map[int]Entry{
		1: {Rates: map[Bandwidth]map[GuardInterval]float64{BW20: {GI08: 1, GI16: 2, GI32: 3}}},
	})
	assert.Error(err)
}

func TestParseBandwidthAndGuardInterval(t *testing.T) {
	assert, require := makeAR(t)

	for s, expected := range map[string]Bandwidth{"BW320": BW320, "80": BW80, "160MHz": BW160, "bw20": BW20, "40 MHz": BW40} {
		bw, err := ParseBandwidth(s)
		require.NoError(err, s)
		assert.Equal(expected, bw, s)
	}
	_, err := ParseBandwidth("BW60")
	var bad *InvalidParameterError
	require.ErrorAs(err, &bad)
	assert.Equal(ParamBandwidth, bad.Param)

	for s, expected := range map[string]GuardInterval{"GD08": GI08, "gd16": GI16, "3.2": GI32, "0.8us": GI08, "1600ns": GI16} {
		gi, err := ParseGuardInterval(s)
		require.NoError(err, s)
		assert.Equal(expected, gi, s)
	}
	_, err = ParseGuardInterval("GD04")
	require.ErrorAs(err, &bad)
	assert.Equal(ParamGuardInterval, bad.Param)

	assert.Equal("BW160", BW160.String())
	assert.Equal("GD32", GI32.String())
}

func TestBitsPerSymbol(t *testing.T) {
	assert, require := makeAR(t)

	be, err := DefaultCatalog.Table(Std11be)
	require.NoError(err)
	ax, err := DefaultCatalog.Table(Std11ax)
	require.NoError(err)

	bps, err := be.BitsPerSymbol(13, BW320)
	require.NoError(err)
	assert.Equal(39200, bps)

	bps, err = ax.BitsPerSymbol(11, BW80)
	require.NoError(err)
	assert.Equal(8166, bps)

	bps, err = ax.BitsPerSymbol(0, BW20)
	require.NoError(err)
	assert.Equal(117, bps)

	_, err = ax.BitsPerSymbol(0, BW320)
	assert.Error(err)
	_, err = be.BitsPerSymbol(14, BW20)
	assert.Error(err)
}
