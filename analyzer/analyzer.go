// Package analyzer drives the WLAN application of an R&S FSW.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlansync/scpi"
	"github.com/jrwynneiii/wlansync/wlan"
	"gonum.org/v1/gonum/floats/scalar"
)

// Sweep time is written with microsecond resolution.
const sweepTimeDigits = 6

type Analyzer struct {
	ch            scpi.Channel
	Sync          wlan.CaptureSync
	TriggerSource string
}

func New(ch scpi.Channel, sync wlan.CaptureSync, triggerSource string) *Analyzer {
	return &Analyzer{ch: ch, Sync: sync, TriggerSource: triggerSource}
}

func (a *Analyzer) Preset() error {
	if err := a.ch.WriteOPC("*CLS;*RST"); err != nil {
		return fmt.Errorf("preset failed: %w", err)
	}
	log.Info("[fsw] Preset completed")
	return nil
}

func (a *Analyzer) AutoLevel() error {
	if err := a.ch.Write(":CONF:POW:AUTO ONCE;*WAI"); err != nil {
		return err
	}
	log.Debug("[fsw] Auto level done")
	return nil
}

// SetupWLANApp opens a WLAN channel configured for std, levels the input and
// arms the trigger.
func (a *Analyzer) SetupWLANApp(std wlan.Standard) error {
	code := std.AnalyzerCode()
	if code < 0 {
		return &wlan.UnsupportedStandardError{Name: string(std)}
	}
	if err := a.ch.Write(`:INST:CRE:NEW WLAN,'WLAN'`); err != nil {
		return err
	}
	if err := a.ch.WriteOPC(wlan.AnalyzerCommand(code)); err != nil {
		return fmt.Errorf("failed to select %s: %w", std, err)
	}
	if err := a.AutoLevel(); err != nil {
		return err
	}
	if err := a.ch.Write(":INP:GAIN:STAT OFF"); err != nil {
		return err
	}
	if a.TriggerSource != "" {
		if err := a.ch.Write(":TRIG:SEQ:SOUR " + a.TriggerSource); err != nil {
			return err
		}
	}
	log.Infof("[fsw] WLAN application configured for %s (%s)", std, std.Description())
	return nil
}

// ApplyCaptureWindow sets the sweep time from the generator frame timing in
// milliseconds. A clamped window is logged, not returned as an error.
func (a *Analyzer) ApplyCaptureWindow(frameDurationMs, idleTimeMs float64) (wlan.SyncWindow, error) {
	w, err := a.Sync.Sync(frameDurationMs, idleTimeMs)
	if err != nil {
		return w, err
	}
	var warn *wlan.CapacityExceededWarning
	if errors.As(w.Warning(), &warn) {
		log.Warnf("[fsw] %v", warn)
	}
	sweep := scalar.Round(w.CaptureTime, sweepTimeDigits)
	if err := a.ch.WriteOPC(fmt.Sprintf(":SENS:SWE:TIME %g", sweep)); err != nil {
		return w, err
	}
	log.Infof("[fsw] Capture time set to %g s (frame %.4f ms, idle %.4f ms)", sweep, frameDurationMs, idleTimeMs)
	return w, nil
}

// SyncCenter tunes the analyzer to the generator frequency and standard.
func (a *Analyzer) SyncCenter(hz float64, std wlan.Standard) error {
	if err := a.ch.Write(fmt.Sprintf(":FREQ:CENT %g", hz)); err != nil {
		return err
	}
	code := std.AnalyzerCode()
	if code < 0 {
		return &wlan.UnsupportedStandardError{Name: string(std)}
	}
	if err := a.ch.WriteOPC(wlan.AnalyzerCommand(code)); err != nil {
		return err
	}
	log.Infof("[fsw] Synced to %.6f GHz, %s", hz/1e9, std)
	return nil
}

// Settings is what the analyzer reports back after setup.
type Settings struct {
	CenterHz      float64
	Standard      wlan.Standard
	SweepTime     float64
	TriggerSource string
}

func (a *Analyzer) Settings() (Settings, error) {
	var s Settings
	var err error
	if s.CenterHz, err = scpi.QueryFloat(a.ch, ":FREQ:CENT?"); err != nil {
		return s, err
	}
	code, err := scpi.QueryInt(a.ch, ":CONF:STAN?")
	if err != nil {
		return s, err
	}
	if s.Standard, err = wlan.FromAnalyzerCode(code); err != nil {
		return s, err
	}
	if s.SweepTime, err = scpi.QueryFloat(a.ch, ":SENS:SWE:TIME?"); err != nil {
		return s, err
	}
	if s.TriggerSource, err = a.ch.QueryOPC(":TRIG:SEQ:SOUR?"); err != nil {
		return s, err
	}
	return s, nil
}
