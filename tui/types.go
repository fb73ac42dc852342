package tui

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/wlansync/generator"
	"github.com/jrwynneiii/wlansync/wlan"
	"github.com/rivo/tview"
)

// Status is what the dashboard shows. It is written by the refresh loop and
// the key handlers and read by the tables.
type Status struct {
	mu       sync.RWMutex
	settings *generator.Settings
	plan     *wlan.BurstPlan
	window   *wlan.SyncWindow
	standard wlan.Standard
	fallback bool
}

func (s *Status) SetSettings(settings generator.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
}

func (s *Status) SetPlan(plan wlan.BurstPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = &plan
}

func (s *Status) SetCapture(std wlan.Standard, window *wlan.SyncWindow, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standard = std
	s.window = window
	s.fallback = fallback
}

func (s *Status) snapshot() (settings *generator.Settings, plan *wlan.BurstPlan, window *wlan.SyncWindow) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, s.plan, s.window
}

type SettingsTableData struct {
	tview.TableContentReadOnly
	status *Status
}

type PlanTableData struct {
	tview.TableContentReadOnly
	status *Status
}

var settingsLabels = []string{
	"Frequency:", "Power:", "RF output:", "WLAN baseband:", "Standard:",
	"Bandwidth:", "MCS:", "Guard interval:", "Frame duration:", "Idle time:",
}

func (d *SettingsTableData) GetRowCount() int {
	return len(settingsLabels)
}

func (d *SettingsTableData) GetColumnCount() int {
	return 2
}

func onOff(on bool) *tview.TableCell {
	if on {
		return tview.NewTableCell("ON").SetTextColor(tcell.ColorGreen)
	}
	return tview.NewTableCell("OFF").SetTextColor(tcell.ColorRed)
}

func (d *SettingsTableData) GetCell(row, column int) *tview.TableCell {
	if row < 0 || row >= len(settingsLabels) {
		return tview.NewTableCell("ERROR")
	}
	if column == 0 {
		return tview.NewTableCell("[lightskyblue]" + settingsLabels[row])
	}
	s, _, _ := d.status.snapshot()
	if s == nil {
		return tview.NewTableCell("[gray]n/a")
	}
	switch row {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("%.6f GHz", s.FrequencyHz/1e9))
	case 1:
		return tview.NewTableCell(fmt.Sprintf("%.2f dBm", s.PowerDBm))
	case 2:
		return onOff(s.RFOutput)
	case 3:
		return onOff(s.WLANEnabled)
	case 4:
		if std, err := s.StandardName(); err == nil {
			return tview.NewTableCell(fmt.Sprintf("%s (%s)", s.Standard, std))
		}
		return tview.NewTableCell(s.Standard).SetTextColor(tcell.ColorRed)
	case 5:
		return tview.NewTableCell(s.Bandwidth)
	case 6:
		return tview.NewTableCell(s.MCS)
	case 7:
		return tview.NewTableCell(s.GuardInterval)
	case 8:
		return tview.NewTableCell(fmt.Sprintf("%.4f ms", s.FrameDurationMs))
	case 9:
		return tview.NewTableCell(fmt.Sprintf("%.4f ms", s.IdleTimeMs))
	}
	return tview.NewTableCell("ERROR")
}

var planLabels = []string{
	"Data rate:", "Symbol duration:", "OFDM symbols:", "Bits per symbol:", "MPDUs:",
	"MPDU length:", "Frame duration:", "Period:", "Capture time:",
}

func (d *PlanTableData) GetRowCount() int {
	return len(planLabels)
}

func (d *PlanTableData) GetColumnCount() int {
	return 2
}

func (d *PlanTableData) GetCell(row, column int) *tview.TableCell {
	if row < 0 || row >= len(planLabels) {
		return tview.NewTableCell("ERROR")
	}
	if column == 0 {
		return tview.NewTableCell("[lightskyblue]" + planLabels[row])
	}
	_, p, w := d.status.snapshot()
	if row == 8 {
		if w == nil {
			return tview.NewTableCell("[gray]n/a")
		}
		cell := tview.NewTableCell(fmt.Sprintf("%.6f s", w.CaptureTime))
		if w.Clamped {
			cell.SetTextColor(tcell.ColorYellow)
		}
		return cell
	}
	if p == nil {
		return tview.NewTableCell("[gray]n/a")
	}
	switch row {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("%.1f Mbit/s", p.DataRateMbps))
	case 1:
		return tview.NewTableCell(fmt.Sprintf("%.1f us", p.SymbolDuration*1e6))
	case 2:
		return tview.NewTableCell(fmt.Sprintf("%d", p.NumOFDMSymbols))
	case 3:
		return tview.NewTableCell(fmt.Sprintf("%d", p.BitsPerSymbol))
	case 4:
		return tview.NewTableCell(fmt.Sprintf("%d", p.NumMPDUs))
	case 5:
		return tview.NewTableCell(fmt.Sprintf("%d bytes", p.MPDUBytes))
	case 6:
		return tview.NewTableCell(fmt.Sprintf("%.4f ms", p.FrameDuration()*1000))
	case 7:
		return tview.NewTableCell(fmt.Sprintf("%.4f ms", p.Period()*1000))
	}
	return tview.NewTableCell("ERROR")
}

// capturePercent is the capture time as a share of the analyzer ceiling.
func capturePercent(w *wlan.SyncWindow, ceiling float64) float64 {
	if w == nil || ceiling <= 0 {
		return 0
	}
	return math.Min(100, w.Requested/ceiling*100)
}

// burstEnvelope samples the on/off pattern of the burst across span seconds.
func burstEnvelope(frameS, idleS, span float64, n int) []float64 {
	period := frameS + idleS
	out := make([]float64, n)
	if period <= 0 || n <= 0 {
		return out
	}
	for i := range out {
		t := span * float64(i) / float64(n)
		if math.Mod(t, period) < frameS {
			out[i] = 1
		}
	}
	return out
}
