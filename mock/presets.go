package mock

import (
	"math"
	"strconv"
	"strings"

	"github.com/jrwynneiii/wlansync/wlan"
)

const (
	GeneratorIdentity = "Rohde&Schwarz,SMW200A,1412.0000K02/101234,5.00.044"
	AnalyzerIdentity  = "Rohde&Schwarz,FSW-43,1331.5003K43/101234,5.10"

	// MaxMPDULength is the largest EHT MPDU the simulated generator accepts.
	MaxMPDULength = 11454
)

const wlnn = "SOURce1:BB:WLNN:"

// NewGenerator simulates an SMW200A with the WLAN option. Frame duration is
// derived from the configured MPDUs; frameDurationMs is reported until a
// waveform has been built.
func NewGenerator(frameDurationMs float64) *Instrument {
	m := New("smw", GeneratorIdentity, map[string]string{
		"SOURce1:FREQuency:CW":                    "6000000000",
		"SOURce1:POWer:LEVel:IMMediate:AMPLitude": "-10",
		"OUTPut1:STATe":                           "0",
		wlnn + "STATe":                            "0",
		wlnn + "BWidth":                           "BW320",
		wlnn + "FBLock1:STANdard":                 "WBE",
		wlnn + "FBLock1:TMODe":                    "EHT320",
		wlnn + "FBLock1:USER1:MCS":                "MCS13",
		wlnn + "FBLock1:GUARd":                    "GD08",
		wlnn + "FBLock1:ITIMe":                    "0",
		wlnn + "FBLock1:USER1:MPDU1:COUNt":        "0",
	})

	m.Derive(wlnn+"FBLock1:USER1:DATA:BPSymbol", func(v map[string]string) string {
		return strconv.Itoa(bitsPerSymbol(v))
	})
	m.Derive(wlnn+"FBLock1:USER1:MPDU1:DATA:LENGth MAX", func(map[string]string) string {
		return strconv.Itoa(MaxMPDULength)
	})
	m.Derive(wlnn+"FBLock1:ITIMe", func(v map[string]string) string {
		idle, _ := strconv.ParseFloat(v[Normalize(wlnn+"FBLock1:ITIMe")], 64)
		return strconv.FormatFloat(idle*1000, 'g', -1, 64)
	})
	m.Derive(wlnn+"FBLock1:DATA:FDURation", func(v map[string]string) string {
		ms := frameDuration(v)
		if ms == 0 {
			ms = frameDurationMs
		}
		return strconv.FormatFloat(ms, 'g', -1, 64)
	})
	return m
}

// NewAnalyzer simulates an FSW with the WLAN application. Headers are matched
// literally, so it answers the short forms the analyzer driver sends.
func NewAnalyzer() *Instrument {
	return New("fsw", AnalyzerIdentity, map[string]string{
		"FREQ:CENT":     "1000000000",
		"CONF:STAN":     "0",
		"SENS:SWE:TIME": "0.01",
		"TRIG:SEQ:SOUR": "IMM",
		"INP:GAIN:STAT": "ON",
	})
}

func bitsPerSymbol(v map[string]string) int {
	bw, err := wlan.ParseBandwidth(v[Normalize(wlnn+"BWidth")])
	if err != nil {
		return 0
	}
	mcs, err := strconv.Atoi(strings.TrimPrefix(v[Normalize(wlnn+"FBLock1:USER1:MCS")], "MCS"))
	if err != nil {
		return 0
	}
	table, err := wlan.DefaultCatalog.Table(wlan.Std11be)
	if err != nil {
		return 0
	}
	bps, err := table.BitsPerSymbol(mcs, bw)
	if err != nil {
		return 0
	}
	return bps
}

// frameDuration returns the PPDU length in ms implied by the MPDU layout, or 0.
func frameDuration(v map[string]string) float64 {
	count, _ := strconv.Atoi(v[Normalize(wlnn+"FBLock1:USER1:MPDU1:COUNt")])
	bps := bitsPerSymbol(v)
	if count <= 0 || bps <= 0 {
		return 0
	}
	bytes := 0
	for i := 1; i <= count; i++ {
		n, _ := strconv.Atoi(v[Normalize(wlnn+"FBLock1:USER1:MPDU"+strconv.Itoa(i)+":DATA:LENGth")])
		bytes += n
	}
	gi, err := wlan.ParseGuardInterval(v[Normalize(wlnn+"FBLock1:GUARd")])
	if err != nil {
		gi = wlan.GI08
	}
	std, err := wlan.ParseStandard(v[Normalize(wlnn+"FBLock1:STANdard")])
	if err != nil {
		std = wlan.Std11be
	}
	header, err := wlan.HeaderDuration(std)
	if err != nil {
		return 0
	}
	symbols := math.Ceil(float64(bytes*8) / float64(bps))
	return (header + symbols*wlan.SymbolDuration(gi)) * 1000
}
