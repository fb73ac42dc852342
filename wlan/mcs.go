package wlan

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Bandwidth is a channel bandwidth in MHz.
type Bandwidth int

const (
	BW20  Bandwidth = 20
	BW40  Bandwidth = 40
	BW80  Bandwidth = 80
	BW160 Bandwidth = 160
	BW320 Bandwidth = 320
)

var allBandwidths = []Bandwidth{BW20, BW40, BW80, BW160, BW320}

// String returns the generator notation, e.g. "BW320".
func (b Bandwidth) String() string {
	return fmt.Sprintf("BW%d", int(b))
}

func (b Bandwidth) valid() bool {
	return slices.Contains(allBandwidths, b)
}

// ParseBandwidth accepts "BW80", "80", "80MHz" and "80 MHz".
func ParseBandwidth(s string) (Bandwidth, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "BW")
	v = strings.TrimSpace(strings.TrimSuffix(v, "MHZ"))
	n, err := strconv.Atoi(v)
	if err != nil || !Bandwidth(n).valid() {
		return 0, invalid(ParamBandwidth, s, "must be one of %v", allBandwidths)
	}
	return Bandwidth(n), nil
}

// GuardInterval is an OFDM guard interval in nanoseconds.
type GuardInterval int

const (
	GI08 GuardInterval = 800
	GI16 GuardInterval = 1600
	GI32 GuardInterval = 3200
)

var allGuardIntervals = []GuardInterval{GI08, GI16, GI32}

// String returns the generator notation, e.g. "GD08".
func (g GuardInterval) String() string {
	return fmt.Sprintf("GD%02d", int(g)/100)
}

func (g GuardInterval) Seconds() float64 {
	return float64(g) * 1e-9
}

func (g GuardInterval) valid() bool {
	return slices.Contains(allGuardIntervals, g)
}

// ParseGuardInterval accepts "GD08", "0.8", "0.8us" and "800ns".
func ParseGuardInterval(s string) (GuardInterval, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "GD"):
		n, err := strconv.Atoi(v[2:])
		if err == nil && GuardInterval(n*100).valid() {
			return GuardInterval(n * 100), nil
		}
	case strings.HasSuffix(v, "NS"):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(v, "NS")))
		if err == nil && GuardInterval(n).valid() {
			return GuardInterval(n), nil
		}
	default:
		us, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "US")), 64)
		if err == nil {
			g := GuardInterval(us*1000 + 0.5)
			if g.valid() {
				return g, nil
			}
		}
	}
	return 0, invalid(ParamGuardInterval, s, "must be one of 0.8, 1.6, 3.2 us")
}

// CodingRate is a forward error correction rate Num/Den.
type CodingRate struct {
	Num, Den int
}

func (r CodingRate) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Entry describes one MCS row. Rates are single spatial stream data rates in Mbit/s.
type Entry struct {
	Modulation string
	CodingRate CodingRate
	Rates      map[Bandwidth]map[GuardInterval]float64
}

func (e Entry) clone() Entry {
	rates := make(map[Bandwidth]map[GuardInterval]float64, len(e.Rates))
	for bw, byGI := range e.Rates {
		m := make(map[GuardInterval]float64, len(byGI))
		for gi, r := range byGI {
			m[gi] = r
		}
		rates[bw] = m
	}
	e.Rates = rates
	return e
}

// Table is the MCS table of one standard. It is read-only after construction
// and safe for concurrent use.
type Table struct {
	Standard   Standard
	bandwidths []Bandwidth
	entries    map[int]Entry
	maxMCS     int
}

// NewTable builds a table. Entries must be indexed 0..n-1 without gaps.
func NewTable(std Standard, bandwidths []Bandwidth, entries map[int]Entry) (*Table, error) {
	for i := 0; i < len(entries); i++ {
		if _, ok := entries[i]; !ok {
			return nil, fmt.Errorf("%s MCS table has no entry %d", std, i)
		}
		for _, bw := range bandwidths {
			for _, gi := range allGuardIntervals {
				if _, ok := entries[i].Rates[bw][gi]; !ok {
					return nil, fmt.Errorf("%s MCS%d has no rate for %s %s", std, i, bw, gi)
				}
			}
		}
	}
	bws := slices.Clone(bandwidths)
	slices.Sort(bws)
	t := &Table{Standard: std, bandwidths: bws, entries: make(map[int]Entry, len(entries)), maxMCS: len(entries) - 1}
	for i, e := range entries {
		t.entries[i] = e.clone()
	}
	return t, nil
}

// MCSRange returns the lowest and highest valid index.
func (t *Table) MCSRange() (int, int) {
	return 0, t.maxMCS
}

// ValidBandwidths lists the bandwidths this standard supports, ascending.
func (t *Table) ValidBandwidths() []Bandwidth {
	return slices.Clone(t.bandwidths)
}

func (t *Table) SupportsBandwidth(bw Bandwidth) bool {
	return slices.Contains(t.bandwidths, bw)
}

// Info returns the MCS row for an index.
func (t *Table) Info(mcs int) (Entry, error) {
	e, ok := t.entries[mcs]
	if !ok {
		return Entry{}, invalid(ParamMCS, mcs, "out of range for %s (valid 0-%d)", t.Standard, t.maxMCS)
	}
	return e.clone(), nil
}

// DataRate looks up the rate in Mbit/s of an (MCS, bandwidth, guard interval) triple.
func (t *Table) DataRate(mcs int, bw Bandwidth, gi GuardInterval) (float64, error) {
	e, ok := t.entries[mcs]
	if !ok {
		return 0, invalid(ParamMCS, mcs, "out of range for %s (valid 0-%d)", t.Standard, t.maxMCS)
	}
	if !t.SupportsBandwidth(bw) {
		return 0, invalid(ParamBandwidth, bw, "not supported by %s (valid %v)", t.Standard, t.bandwidths)
	}
	if !gi.valid() {
		return 0, invalid(ParamGuardInterval, gi, "must be one of %v", allGuardIntervals)
	}
	rate, ok := e.Rates[bw][gi]
	if !ok {
		return 0, invalid(ParamGuardInterval, gi, "no rate defined for MCS%d %s", mcs, bw)
	}
	return rate, nil
}

// Data subcarriers of one HE/EHT resource unit spanning the whole channel.
var dataSubcarriers = map[Bandwidth]int{BW20: 234, BW40: 468, BW80: 980, BW160: 1960, BW320: 3920}

var modulationBits = map[string]int{
	"BPSK": 1, "QPSK": 2, "16-QAM": 4, "64-QAM": 6, "256-QAM": 8, "1024-QAM": 10, "4096-QAM": 12,
}

// BitsPerSymbol is the number of data bits one OFDM symbol carries for a
// single spatial stream. It matches what the generator reports.
func (t *Table) BitsPerSymbol(mcs int, bw Bandwidth) (int, error) {
	e, ok := t.entries[mcs]
	if !ok {
		return 0, invalid(ParamMCS, mcs, "out of range for %s (valid 0-%d)", t.Standard, t.maxMCS)
	}
	if !t.SupportsBandwidth(bw) {
		return 0, invalid(ParamBandwidth, bw, "not supported by %s (valid %v)", t.Standard, t.bandwidths)
	}
	return dataSubcarriers[bw] * modulationBits[e.Modulation] * e.CodingRate.Num / e.CodingRate.Den, nil
}

// Catalog maps a standard to its MCS table.
type Catalog map[Standard]*Table

// Table returns the MCS table for std.
func (c Catalog) Table(std Standard) (*Table, error) {
	t, ok := c[std]
	if !ok {
		return nil, &UnsupportedStandardError{Name: string(std)}
	}
	return t, nil
}

// DefaultCatalog holds the published 802.11ax (HE) and 802.11be (EHT) tables.
var DefaultCatalog = mustCatalog()

func mustCatalog() Catalog {
	be, err := NewTable(Std11be, allBandwidths, eht)
	if err != nil {
		panic(err)
	}
	he := make(map[int]Entry, 12)
	for i := 0; i <= 11; i++ {
		e := eht[i].clone()
		delete(e.Rates, BW320)
		he[i] = e
	}
	ax, err := NewTable(Std11ax, []Bandwidth{BW20, BW40, BW80, BW160}, he)
	if err != nil {
		panic(err)
	}
	return Catalog{Std11ax: ax, Std11be: be}
}
