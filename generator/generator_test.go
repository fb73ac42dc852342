package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jrwynneiii/wlansync/config"
	"github.com/jrwynneiii/wlansync/mock"
	"github.com/jrwynneiii/wlansync/scpi"
	"github.com/jrwynneiii/wlansync/wlan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAR(t *testing.T) (*assert.Assertions, *require.Assertions) {
	return assert.New(t), require.New(t)
}

func startGenerator(t *testing.T, mpduSizeBytes int) (*Generator, *mock.Instrument) {
	t.Helper()
	m := mock.NewGenerator(4)
	if err := m.Listen("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { m.Close() })

	inst := scpi.New("smw", config.InstrumentConf{Address: m.Addr(), TimeoutS: 5, OPCTimeoutS: 1, OPCPollMs: 5})
	if err := inst.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { inst.Close() })
	return New(inst, mpduSizeBytes), m
}

func beRequest() wlan.WaveformRequest {
	return wlan.WaveformRequest{
		Standard:      wlan.Std11be,
		Bandwidth:     wlan.BW320,
		MCS:           13,
		GuardInterval: wlan.GI08,
		BurstLength:   4e-3,
		DutyCycle:     0.5,
	}
}

func value(m *mock.Instrument, header string) string {
	v, _ := m.Value(header)
	return v
}

func TestCreateWaveform(t *testing.T) {
	assert, require := makeAR(t)

	gen, m := startGenerator(t, 4000)
	plan, err := gen.CreateWaveform(beRequest())
	require.NoError(err)

	assert.Equal(39200, plan.BitsPerSymbol)
	assert.Equal(290, plan.NumOFDMSymbols)
	assert.Equal(355, plan.NumMPDUs)
	assert.Equal(4000, plan.MPDUBytes)

	assert.Equal("BW320", value(m, wlnn+"BWidth"))
	assert.Equal("WBE", value(m, fblock+"STANdard"))
	assert.Equal("EHT320", value(m, fblock+"TMODe"))
	assert.Equal("MCS13", value(m, user+"MCS"))
	assert.Equal("GD08", value(m, fblock+"GUARd"))
	assert.Equal("355", value(m, user+"MPDU1:COUNt"))
	assert.Equal("PN23", value(m, user+"MPDU355:DATA:SOURce"))
	assert.Equal("4000", value(m, user+"MPDU355:DATA:LENGth"))
	assert.Equal("0.004", value(m, fblock+"ITIMe"))
	assert.Equal("0", value(m, wlnn+"STATe"))

	s, err := gen.Settings()
	require.NoError(err)
	assert.LessOrEqual(s.FrameDurationMs, 4.0)
	assert.InDelta(plan.FrameDuration()*1000, s.FrameDurationMs, 1e-9)
	assert.InDelta(4.0, s.IdleTimeMs, 1e-9)
}

func TestCreateWaveformQueriesMaxMPDU(t *testing.T) {
	assert, require := makeAR(t)

	gen, m := startGenerator(t, 0)
	plan, err := gen.CreateWaveform(beRequest())
	require.NoError(err)

	assert.Equal(mock.MaxMPDULength, plan.MPDUBytes)
	assert.Equal(290*39200/(mock.MaxMPDULength*8), plan.NumMPDUs)

	queried := false
	for _, cmd := range m.History() {
		if strings.HasSuffix(cmd, "LENGth? MAX") {
			queried = true
		}
	}
	assert.True(queried)
}

func TestCreateWaveformAX(t *testing.T) {
	assert, require := makeAR(t)

	gen, m := startGenerator(t, 4000)
	req := beRequest()
	req.Standard = wlan.Std11ax
	req.Bandwidth = wlan.BW80
	req.MCS = 11
	_, err := gen.CreateWaveform(req)
	require.NoError(err)
	assert.Equal("WAX", value(m, fblock+"STANdard"))
	assert.Equal("HE80", value(m, fblock+"TMODe"))
}

func TestCreateWaveformRejectsBeforeWriting(t *testing.T) {
	assert, _ := makeAR(t)

	gen, m := startGenerator(t, 4000)
	before := len(m.History())

	req := beRequest()
	req.Standard = wlan.Std11ax
	_, err := gen.CreateWaveform(req)
	var invalid *wlan.InvalidParameterError
	if assert.True(errors.As(err, &invalid)) {
		assert.Equal(wlan.ParamBandwidth, invalid.Param)
	}

	req = beRequest()
	req.Standard = wlan.Std11n
	_, err = gen.CreateWaveform(req)
	var unsupported *wlan.UnsupportedStandardError
	assert.True(errors.As(err, &unsupported))

	req = beRequest()
	req.DutyCycle = 1.5
	_, err = gen.CreateWaveform(req)
	assert.Error(err)

	assert.Equal(before, len(m.History()))
}

func TestFrequencyPowerAndOutput(t *testing.T) {
	assert, require := makeAR(t)

	gen, m := startGenerator(t, 4000)
	require.NoError(gen.Preset())
	require.NoError(gen.SetFrequency(5.955e9))
	require.NoError(gen.SetPowerLevel(-20.5))
	require.NoError(gen.EnableWLAN())
	require.NoError(gen.EnableOutput())
	assert.Error(gen.SetFrequency(0))

	s, err := gen.Settings()
	require.NoError(err)
	assert.Equal(5.955e9, s.FrequencyHz)
	assert.Equal(-20.5, s.PowerDBm)
	assert.True(s.RFOutput)
	assert.True(s.WLANEnabled)
	assert.Equal("WBE", s.Standard)
	std, err := s.StandardName()
	require.NoError(err)
	assert.Equal(wlan.Std11be, std)

	require.NoError(gen.DisableOutput())
	require.NoError(gen.DisableWLAN())
	assert.Equal("0", value(m, "OUTPut1:STATe"))
	assert.Equal("0", value(m, wlnn+"STATe"))
}

func TestSaveWaveform(t *testing.T) {
	assert, require := makeAR(t)

	gen, m := startGenerator(t, 4000)
	file, err := gen.SaveWaveform(`C:\waveforms`, beRequest())
	require.NoError(err)
	assert.Equal("C:/waveforms/WLAN_WBE_BW320_MCS13_burst0.004s_duty0.5.wv", file)
	assert.Equal(`"`+file+`"`, value(m, wlnn+"WAVeform:CREate"))
}

func TestTxMode(t *testing.T) {
	assert, _ := makeAR(t)

	mode, err := TxMode(wlan.Std11be, wlan.BW160)
	assert.NoError(err)
	assert.Equal("EHT160", mode)
	_, err = TxMode(wlan.Std11g, wlan.BW20)
	assert.Error(err)
}
