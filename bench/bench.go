// Package bench runs the generator and analyzer together.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlansync/analyzer"
	"github.com/jrwynneiii/wlansync/config"
	"github.com/jrwynneiii/wlansync/generator"
	"github.com/jrwynneiii/wlansync/scpi"
	"github.com/jrwynneiii/wlansync/wlan"
	"go.uber.org/multierr"
)

type Role int

const (
	RoleGenerator Role = 1 << iota
	RoleAnalyzer
)

var ErrNoAnalyzer = errors.New("no analyzer connected")
var ErrNoGenerator = errors.New("no generator connected")

type Bench struct {
	Generator *generator.Generator
	Analyzer  *analyzer.Analyzer
	// Fallback is the analyzer standard used when no generator can be read.
	Fallback wlan.Standard

	closers []io.Closer
}

// Connect opens the instruments named by roles. When both are requested a
// generator that cannot be reached is logged and left out.
func Connect(ctx context.Context, cfg config.Config, roles Role) (*Bench, error) {
	fallback, err := wlan.ParseStandard(cfg.Capture.FallbackStandard)
	if err != nil {
		return nil, err
	}
	b := &Bench{Fallback: fallback}

	if roles&RoleGenerator != 0 {
		smw := scpi.New("smw", cfg.Generator)
		if err := smw.Connect(ctx); err != nil {
			if roles&RoleAnalyzer == 0 {
				return nil, err
			}
			log.Warnf("[smw] Continuing without generator: %v", err)
		} else {
			b.closers = append(b.closers, smw)
			b.Generator = generator.New(smw, cfg.Waveform.MPDUSizeBytes)
		}
	}
	if roles&RoleAnalyzer != 0 {
		fsw := scpi.New("fsw", cfg.Analyzer)
		if err := fsw.Connect(ctx); err != nil {
			return nil, multierr.Append(err, b.Close())
		}
		b.closers = append(b.closers, fsw)
		b.Analyzer = analyzer.New(fsw, cfg.Capture.Sync(), cfg.Capture.TriggerSource)
	}
	return b, nil
}

// Close closes every connected instrument.
func (b *Bench) Close() error {
	var err error
	for _, c := range b.closers {
		err = multierr.Append(err, c.Close())
	}
	b.closers = nil
	return err
}

// Output is where a generated waveform goes.
type Output struct {
	FrequencyHz float64
	PowerDBm    float64
	// RF turns the RF output on after the baseband is enabled.
	RF bool
	// SavePath is a directory on the generator; empty skips saving.
	SavePath string
}

// Generate builds the waveform for req on the generator and plays it.
func (b *Bench) Generate(req wlan.WaveformRequest, out Output) (wlan.BurstPlan, error) {
	if b.Generator == nil {
		return wlan.BurstPlan{}, ErrNoGenerator
	}
	g := b.Generator
	if err := g.Preset(); err != nil {
		return wlan.BurstPlan{}, err
	}
	plan, err := g.CreateWaveform(req)
	if err != nil {
		return wlan.BurstPlan{}, err
	}
	if err := g.SetFrequency(out.FrequencyHz); err != nil {
		return plan, err
	}
	if err := g.SetPowerLevel(out.PowerDBm); err != nil {
		return plan, err
	}
	if err := g.EnableWLAN(); err != nil {
		return plan, err
	}
	if out.RF {
		if err := g.EnableOutput(); err != nil {
			return plan, err
		}
	}
	if out.SavePath != "" {
		if _, err := g.SaveWaveform(out.SavePath, req); err != nil {
			return plan, err
		}
	}
	return plan, nil
}

// PresetGenerator resets the generator and its WLAN baseband.
func (b *Bench) PresetGenerator() error {
	if b.Generator == nil {
		return ErrNoGenerator
	}
	return b.Generator.Preset()
}

// ToggleRF flips the generator RF output and returns the new state.
func (b *Bench) ToggleRF() (bool, error) {
	if b.Generator == nil {
		return false, ErrNoGenerator
	}
	s, err := b.Generator.Settings()
	if err != nil {
		return false, err
	}
	if s.RFOutput {
		return false, b.Generator.DisableOutput()
	}
	return true, b.Generator.EnableOutput()
}

// AutoLevel runs a one-shot reference level adjustment on the analyzer.
func (b *Bench) AutoLevel() error {
	if b.Analyzer == nil {
		return ErrNoAnalyzer
	}
	return b.Analyzer.AutoLevel()
}

// Report describes the analyzer setup produced by FullSetup.
type Report struct {
	Generator    *generator.Settings
	Standard     wlan.Standard
	UsedFallback bool
	Window       *wlan.SyncWindow
}

// FullSetup configures the analyzer to capture what the generator is playing.
func (b *Bench) FullSetup() (Report, error) {
	if b.Analyzer == nil {
		return Report{}, ErrNoAnalyzer
	}
	a := b.Analyzer
	if err := a.Preset(); err != nil {
		return Report{}, err
	}

	var r Report
	if b.Generator != nil {
		s, err := b.Generator.Settings()
		if err != nil {
			return r, fmt.Errorf("failed to read generator settings: %w", err)
		}
		r.Generator = &s
		if r.Standard, err = s.StandardName(); err != nil {
			return r, err
		}
	} else {
		log.Warnf("[fsw] No generator, using %s", b.Fallback)
		r.Standard = b.Fallback
		r.UsedFallback = true
	}

	if err := a.SetupWLANApp(r.Standard); err != nil {
		return r, err
	}
	if r.Generator != nil {
		w, err := a.ApplyCaptureWindow(r.Generator.FrameDurationMs, r.Generator.IdleTimeMs)
		if err != nil {
			return r, err
		}
		r.Window = &w
		if err := a.SyncCenter(r.Generator.FrequencyHz, r.Standard); err != nil {
			return r, err
		}
	}
	if err := a.AutoLevel(); err != nil {
		return r, err
	}
	log.Info("[fsw] Full setup completed")
	return r, nil
}
