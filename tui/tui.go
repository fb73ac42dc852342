package tui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/wlansync/bench"
	"github.com/jrwynneiii/wlansync/config"
	"github.com/jrwynneiii/wlansync/wlan"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"
)

const envelopePoints = 200

var LogOut *tview.TextView

// StartUI runs the dashboard until q is pressed. Log output goes to the log
// pane and, when logFile is not nil, to logFile as well.
func StartUI(b *bench.Bench, req wlan.WaveformRequest, out bench.Output, conf config.Config, logFile io.Writer) error {
	app := tview.NewApplication()
	status := &Status{}
	var busy atomic.Bool

	LogOut = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	settingsTable := tview.NewTable().SetContent(&SettingsTableData{status: status})
	planTable := tview.NewTable().SetContent(&PlanTableData{status: status})

	envelopePlot := tvxwidgets.NewPlot()
	envelopePlot.SetLineColor([]tcell.Color{tcell.ColorLightSkyBlue})
	envelopePlot.SetMarker(tvxwidgets.PlotMarkerBraille)
	envelopePlot.SetBorder(true)
	envelopePlot.SetTitle("Burst Envelope")

	captureGauge := tvxwidgets.NewUtilModeGauge()
	captureGauge.SetLabel("Capture window:   ")
	captureGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	captureGauge.SetWarnPercentage(90)
	captureGauge.SetCritPercentage(100)
	captureGauge.SetEmptyColor(tcell.ColorBlack)
	captureGauge.SetBorder(false)

	dutyGauge := tvxwidgets.NewUtilModeGauge()
	dutyGauge.SetLabel("Duty cycle:       ")
	dutyGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	dutyGauge.SetWarnPercentage(101)
	dutyGauge.SetCritPercentage(101)
	dutyGauge.SetEmptyColor(tcell.ColorBlack)
	dutyGauge.SetBorder(false)
	dutyGauge.SetValue(req.DutyCycle * 100)

	gaugeBox := tview.NewFlex()
	gaugeBox.SetDirection(tview.FlexRow)
	gaugeBox.AddItem(captureGauge, 0, 1, false)
	gaugeBox.AddItem(dutyGauge, 0, 1, false)
	gaugeBox.SetTitle("Capture")
	gaugeBox.SetBorder(true)

	LogOut.SetChangedFunc(func() {
		LogOut.ScrollToEnd()
		app.Draw()
	})
	LogOut.SetBorder(true).SetTitle("Log Output")
	if conf.Tui.EnableLogOutput {
		var w io.Writer = LogOut
		if logFile != nil {
			w = io.MultiWriter(LogOut, logFile)
		}
		log.SetOutput(w)
	} else if logFile != nil {
		log.SetOutput(logFile)
	}

	settingsTable.SetSelectable(false, false).SetBorder(true).SetTitle("Generator")
	planTable.SetSelectable(false, false).SetBorder(true).SetTitle("Burst Plan")

	help := tview.NewTextView().SetDynamicColors(true).
		SetText("[lightskyblue]g[white] generate  [lightskyblue]s[white] full setup  [lightskyblue]o[white] RF on/off  [lightskyblue]p[white] preset  [lightskyblue]a[white] auto level  [lightskyblue]q[white] quit")

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(settingsTable, 0, 3, false)
	leftCol.AddItem(planTable, 0, 3, false)
	leftCol.AddItem(help, 1, 0, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(gaugeBox, 4, 0, false)
	rightCol.AddItem(envelopePlot, 0, 2, false)
	if conf.Tui.EnableLogOutput {
		rightCol.AddItem(LogOut, 0, 3, false)
	}

	page := tview.NewFlex().SetDirection(tview.FlexColumn)
	page.AddItem(leftCol, 0, 2, false)
	page.AddItem(rightCol, 0, 3, false)

	refreshCapture := func() {
		_, _, w := status.snapshot()
		captureGauge.SetValue(capturePercent(w, conf.Capture.MaxCaptureTimeS))
		status.mu.RLock()
		std, fallback := status.standard, status.fallback
		status.mu.RUnlock()
		if std != "" {
			title := fmt.Sprintf("Capture (%s)", std)
			if fallback {
				title += " fallback"
			}
			gaugeBox.SetTitle(title)
		}
		if w != nil {
			envelopePlot.SetData([][]float64{burstEnvelope(w.FrameDuration, w.IdleTime, w.CaptureTime, envelopePoints)})
		}
	}

	// Instrument calls block, so they run off the UI goroutine one at a time.
	run := func(name string, fn func() error) {
		if !busy.CompareAndSwap(false, true) {
			log.Warnf("Busy, ignoring %s", name)
			return
		}
		go func() {
			defer busy.Store(false)
			if err := fn(); err != nil {
				log.Errorf("%s failed: %v", name, err)
			}
			app.QueueUpdateDraw(refreshCapture)
		}()
	}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q':
			app.Stop()
			return nil
		case 'g':
			run("generate", func() error {
				plan, err := b.Generate(req, out)
				if err != nil {
					return err
				}
				status.SetPlan(plan)
				return nil
			})
			return nil
		case 's':
			run("full setup", func() error {
				report, err := b.FullSetup()
				if err != nil {
					return err
				}
				status.SetCapture(report.Standard, report.Window, report.UsedFallback)
				return nil
			})
			return nil
		case 'o':
			run("RF toggle", func() error {
				on, err := b.ToggleRF()
				if err != nil {
					return err
				}
				log.Infof("[smw] RF output on: %t", on)
				return nil
			})
			return nil
		case 'p':
			run("generator preset", b.PresetGenerator)
			return nil
		case 'a':
			run("auto level", b.AutoLevel)
			return nil
		}
		return event
	})

	done := make(chan struct{})
	if b.Generator != nil {
		interval := time.Duration(conf.Tui.RefreshMs) * time.Millisecond
		go pollSettings(done, interval, func() {
			if !busy.CompareAndSwap(false, true) {
				return
			}
			defer busy.Store(false)
			s, err := b.Generator.Settings()
			if err != nil {
				log.Debugf("[smw] Settings poll failed: %v", err)
				return
			}
			status.SetSettings(s)
		}, func() { app.QueueUpdateDraw(func() {}) })
	}

	err := app.SetRoot(page, true).EnableMouse(true).Run()
	close(done)
	if err != nil {
		return fmt.Errorf("could not start UI: %w", err)
	}
	return nil
}

// pollSettings calls poll then draw every interval until done is closed.
func pollSettings(done <-chan struct{}, interval time.Duration, poll, draw func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}
		poll()
		select {
		case <-done:
			return
		default:
			draw()
		}
	}
}
