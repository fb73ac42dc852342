package wlan

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// HE and EHT use a 12.8 us FFT period; the guard interval is added per symbol.
const fftPeriod = 12.8e-6

// symbolTolerance absorbs float error when the burst holds an exact number of symbols.
const symbolTolerance = 1e-9

// DefaultMPDUSizeBits is the assumed MPDU payload when none is configured.
const DefaultMPDUSizeBits = 4000 * 8

// HeaderDuration is the PPDU preamble length of a standard that the
// generator can build bursts for.
func HeaderDuration(std Standard) (float64, error) {
	switch std {
	case Std11be:
		return 43.2e-6, nil
	case Std11ax:
		return 40e-6, nil
	}
	return 0, &UnsupportedStandardError{Name: string(std)}
}

// SymbolDuration is the OFDM symbol length including the guard interval.
func SymbolDuration(gi GuardInterval) float64 {
	return fftPeriod + gi.Seconds()
}

// WaveformRequest describes the burst the generator should produce.
type WaveformRequest struct {
	Standard      Standard
	Bandwidth     Bandwidth
	MCS           int
	GuardInterval GuardInterval
	BurstLength   float64 // seconds
	DutyCycle     float64 // fraction of the period occupied by the burst
}

// BurstPlan is the concrete symbol and MPDU layout for a WaveformRequest.
type BurstPlan struct {
	Request        WaveformRequest
	DataRateMbps   float64
	SymbolDuration float64
	HeaderDuration float64
	NumOFDMSymbols int
	BitsPerSymbol  int
	NumMPDUs       int
	MPDUBytes      int
	IdleDuration   float64
}

// FrameDuration is the on-air length of the planned PPDU.
func (p BurstPlan) FrameDuration() float64 {
	return p.HeaderDuration + float64(p.NumOFDMSymbols)*p.SymbolDuration
}

// Period is one burst plus its idle gap.
func (p BurstPlan) Period() float64 {
	return p.Request.BurstLength + p.IdleDuration
}

// BurstPlanner turns waveform requests into burst plans.
// MPDUSizeBits is the assumed per-MPDU payload used to split the burst.
type BurstPlanner struct {
	Catalog      Catalog
	MPDUSizeBits int
}

func NewBurstPlanner(mpduSizeBits int) BurstPlanner {
	return BurstPlanner{Catalog: DefaultCatalog, MPDUSizeBits: mpduSizeBits}
}

// Validate checks the request against the catalog without planning it.
// It returns the data rate of the requested MCS triple.
func (p BurstPlanner) Validate(req WaveformRequest) (float64, error) {
	table, err := p.Catalog.Table(req.Standard)
	if err != nil {
		return 0, err
	}
	rate, err := table.DataRate(req.MCS, req.Bandwidth, req.GuardInterval)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(req.BurstLength) || req.BurstLength <= 0 {
		return 0, invalid(ParamBurstLength, req.BurstLength, "must be greater than 0")
	}
	if math.IsInf(req.BurstLength, 0) {
		return 0, invalid(ParamBurstLength, req.BurstLength, "must be finite")
	}
	if math.IsNaN(req.DutyCycle) || req.DutyCycle <= 0 || req.DutyCycle > 1 {
		return 0, invalid(ParamDutyCycle, req.DutyCycle, "must be in (0, 1]")
	}
	return rate, nil
}

// Plan computes the burst layout. bitsPerSymbol is reported by the generator
// for the configured modulation. The plan never runs past req.BurstLength.
func (p BurstPlanner) Plan(req WaveformRequest, bitsPerSymbol int) (BurstPlan, error) {
	rate, err := p.Validate(req)
	if err != nil {
		return BurstPlan{}, err
	}
	if bitsPerSymbol <= 0 {
		return BurstPlan{}, invalid(ParamBitsPerSymbol, bitsPerSymbol, "must be greater than 0")
	}
	if p.MPDUSizeBits <= 0 {
		return BurstPlan{}, invalid(ParamMPDUSize, p.MPDUSizeBits, "must be greater than 0")
	}

	header, err := HeaderDuration(req.Standard)
	if err != nil {
		return BurstPlan{}, err
	}
	symbol := SymbolDuration(req.GuardInterval)
	if req.BurstLength < header {
		return BurstPlan{}, invalid(ParamBurstLength, req.BurstLength, "shorter than the %.1f us header", header*1e6)
	}

	fit := (req.BurstLength - header) / symbol
	symbols := math.Floor(fit)
	if scalar.EqualWithinAbs(fit, math.Round(fit), symbolTolerance) {
		symbols = math.Round(fit)
	}
	for symbols > 0 && header+symbols*symbol > req.BurstLength {
		symbols--
	}
	if symbols < 1 {
		return BurstPlan{}, invalid(ParamBurstLength, req.BurstLength,
			"no room for a %.1f us symbol after the %.1f us header", symbol*1e6, header*1e6)
	}
	numSymbols := int(symbols)

	totalBits := numSymbols * bitsPerSymbol
	numMPDUs := max(1, totalBits/p.MPDUSizeBits)

	return BurstPlan{
		Request:        req,
		DataRateMbps:   rate,
		SymbolDuration: symbol,
		HeaderDuration: header,
		NumOFDMSymbols: numSymbols,
		BitsPerSymbol:  bitsPerSymbol,
		NumMPDUs:       numMPDUs,
		MPDUBytes:      min(p.MPDUSizeBits, totalBits) / 8,
		IdleDuration:   req.BurstLength/req.DutyCycle - req.BurstLength,
	}, nil
}
