package analyzer

import (
	"context"
	"errors"
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

func startAnalyzer(t *testing.T) (*Analyzer, *mock.Instrument) {
	t.Helper()
	m := mock.NewAnalyzer()
	if err := m.Listen("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { m.Close() })

	inst := scpi.New("fsw", config.InstrumentConf{Address: m.Addr(), TimeoutS: 5, OPCTimeoutS: 1, OPCPollMs: 5})
	if err := inst.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { inst.Close() })
	return New(inst, wlan.DefaultCaptureSync(), "EXT"), m
}

func value(m *mock.Instrument, header string) string {
	v, _ := m.Value(header)
	return v
}

func TestSetupWLANApp(t *testing.T) {
	assert, require := makeAR(t)

	fsw, m := startAnalyzer(t)
	require.NoError(fsw.Preset())
	require.NoError(fsw.SetupWLANApp(wlan.Std11ax))

	assert.Equal("WLAN,'WLAN'", value(m, "INST:CRE:NEW"))
	assert.Equal("10", value(m, "CONF:STAN"))
	assert.Equal("OFF", value(m, "INP:GAIN:STAT"))
	assert.Equal("EXT", value(m, "TRIG:SEQ:SOUR"))
	assert.Equal("ONCE", value(m, "CONF:POW:AUTO"))

	var unsupported *wlan.UnsupportedStandardError
	assert.True(errors.As(fsw.SetupWLANApp("802.11zz"), &unsupported))
}

func TestApplyCaptureWindow(t *testing.T) {
	assert, require := makeAR(t)

	fsw, m := startAnalyzer(t)

	w, err := fsw.ApplyCaptureWindow(100, 50)
	require.NoError(err)
	assert.False(w.Clamped)
	assert.Equal("0.6", value(m, "SENS:SWE:TIME"))

	w, err = fsw.ApplyCaptureWindow(1000, 0)
	require.NoError(err)
	assert.True(w.Clamped)
	assert.InDelta(4.0, w.Requested, 1e-12)
	assert.Equal("1", value(m, "SENS:SWE:TIME"))

	_, err = fsw.ApplyCaptureWindow(-1, 0)
	assert.Error(err)
	assert.Equal("1", value(m, "SENS:SWE:TIME"), "rejected input leaves the sweep time alone")
}

func TestSyncCenterAndSettings(t *testing.T) {
	assert, require := makeAR(t)

	fsw, _ := startAnalyzer(t)
	require.NoError(fsw.SetupWLANApp(wlan.Std11be))
	require.NoError(fsw.SyncCenter(5.955e9, wlan.Std11be))
	_, err := fsw.ApplyCaptureWindow(3.9872, 4)
	require.NoError(err)

	s, err := fsw.Settings()
	require.NoError(err)
	assert.Equal(5.955e9, s.CenterHz)
	assert.Equal(wlan.Std11be, s.Standard)
	assert.InDelta(0.031949, s.SweepTime, 1e-9)
	assert.Equal("EXT", s.TriggerSource)
}
