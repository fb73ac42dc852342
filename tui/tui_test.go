package tui

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrwynneiii/wlansync/generator"
	"github.com/jrwynneiii/wlansync/wlan"
	"github.com/stretchr/testify/assert"
)

func TestSettingsTable(t *testing.T) {
	assert := assert.New(t)

	status := &Status{}
	data := &SettingsTableData{status: status}
	assert.Equal(10, data.GetRowCount())
	assert.Equal("[gray]n/a", data.GetCell(0, 1).Text)
	assert.Equal("ERROR", data.GetCell(42, 1).Text)

	status.SetSettings(generator.Settings{
		FrequencyHz:     6e9,
		PowerDBm:        -10,
		RFOutput:        true,
		Standard:        "WBE",
		FrameDurationMs: 3.9872,
	})
	assert.Equal("[lightskyblue]Frequency:", data.GetCell(0, 0).Text)
	assert.Equal("6.000000 GHz", data.GetCell(0, 1).Text)
	assert.Equal("ON", data.GetCell(2, 1).Text)
	assert.Equal("OFF", data.GetCell(3, 1).Text)
	assert.Equal("WBE (802.11be)", data.GetCell(4, 1).Text)
	assert.Equal("3.9872 ms", data.GetCell(8, 1).Text)
}

func TestPlanTable(t *testing.T) {
	assert := assert.New(t)

	status := &Status{}
	data := &PlanTableData{status: status}
	assert.Equal("[gray]n/a", data.GetCell(2, 1).Text)

	plan, err := wlan.NewBurstPlanner(wlan.DefaultMPDUSizeBits).Plan(wlan.WaveformRequest{
		Standard:      wlan.Std11be,
		Bandwidth:     wlan.BW320,
		MCS:           13,
		GuardInterval: wlan.GI08,
		BurstLength:   4e-3,
		DutyCycle:     0.5,
	}, 39200)
	assert.NoError(err)
	status.SetPlan(plan)
	status.SetCapture(wlan.Std11be, &wlan.SyncWindow{CaptureTime: 1, Requested: 4, Clamped: true}, false)

	assert.Equal("2882.4 Mbit/s", data.GetCell(0, 1).Text)
	assert.Equal("290", data.GetCell(2, 1).Text)
	assert.Equal("355", data.GetCell(4, 1).Text)
	assert.Equal("8.0000 ms", data.GetCell(7, 1).Text)
	assert.Equal("1.000000 s", data.GetCell(8, 1).Text)
}

func TestCapturePercent(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, capturePercent(nil, 1))
	assert.InDelta(60.0, capturePercent(&wlan.SyncWindow{Requested: 0.6}, 1), 1e-9)
	assert.Equal(100.0, capturePercent(&wlan.SyncWindow{Requested: 4}, 1))
}

func TestBurstEnvelope(t *testing.T) {
	assert := assert.New(t)

	env := burstEnvelope(1, 3, 8, 8)
	assert.Equal([]float64{1, 0, 0, 0, 1, 0, 0, 0}, env)
	assert.Len(burstEnvelope(0, 0, 1, 5), 5)
}

func TestPollSettingsStops(t *testing.T) {
	assert := assert.New(t)

	var polls, draws atomic.Int32
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		pollSettings(done, time.Millisecond, func() { polls.Add(1) }, func() { draws.Add(1) })
		close(exited)
	}()

	assert.Eventually(func() bool { return draws.Load() >= 3 }, time.Second, time.Millisecond)
	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("poller still running after done was closed")
	}
	n := draws.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(n, draws.Load())
	assert.GreaterOrEqual(polls.Load(), n)
}
