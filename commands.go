package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlansync/bench"
	"github.com/jrwynneiii/wlansync/config"
	"github.com/jrwynneiii/wlansync/mock"
	"github.com/jrwynneiii/wlansync/scpi"
	"github.com/jrwynneiii/wlansync/tui"
	"github.com/jrwynneiii/wlansync/wlan"
	"go.uber.org/multierr"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func (f WaveformFlags) apply(w config.WaveformConf) config.WaveformConf {
	if f.Standard != "" {
		w.Standard = f.Standard
	}
	if f.Bandwidth != "" {
		w.Bandwidth = f.Bandwidth
	}
	if f.MCS >= 0 {
		w.MCS = f.MCS
	}
	if f.GuardInterval != "" {
		w.GuardInterval = f.GuardInterval
	}
	if f.BurstMs > 0 {
		w.BurstLengthS = f.BurstMs / 1000
	}
	if f.Duty > 0 {
		w.DutyCycle = f.Duty
	}
	return w
}

func output(w config.WaveformConf, rf bool, save string) bench.Output {
	if save == "" {
		save = w.SavePath
	}
	return bench.Output{FrequencyHz: w.FrequencyHz, PowerDBm: w.PowerDBm, RF: rf, SavePath: save}
}

func probe(ctx context.Context, cfg config.Config) error {
	var errs error
	for _, inst := range []*scpi.Instrument{scpi.New("smw", cfg.Generator), scpi.New("fsw", cfg.Analyzer)} {
		if err := inst.Connect(ctx); err != nil {
			log.Errorf("[%s] %v", inst.Name, err)
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Printf("%s\t%s\t%s (firmware %s)\n", inst.Name, inst.Address, inst.Identity, inst.Identity.Firmware)
		errs = multierr.Append(errs, inst.Close())
	}
	return errs
}

func ratesTable(std wlan.Standard, gi wlan.GuardInterval) (*table.Table, error) {
	t, err := wlan.DefaultCatalog.Table(std)
	if err != nil {
		return nil, err
	}
	bws := t.ValidBandwidths()
	headers := []string{"MCS", "Modulation", "Rate"}
	for _, bw := range bws {
		headers = append(headers, fmt.Sprintf("%d MHz", int(bw)))
	}
	out := newTable(headers...)
	lo, hi := t.MCSRange()
	for mcs := lo; mcs <= hi; mcs++ {
		info, err := t.Info(mcs)
		if err != nil {
			return nil, err
		}
		row := []string{strconv.Itoa(mcs), info.Modulation, info.CodingRate.String()}
		for _, bw := range bws {
			rate, err := t.DataRate(mcs, bw, gi)
			if err != nil {
				return nil, err
			}
			row = append(row, strconv.FormatFloat(rate, 'f', 1, 64))
		}
		out.Row(row...)
	}
	return out, nil
}

func rates(standard, guardInterval string) error {
	std, err := wlan.ParseStandard(standard)
	if err != nil {
		return err
	}
	gi, err := wlan.ParseGuardInterval(guardInterval)
	if err != nil {
		return err
	}
	t, err := ratesTable(std, gi)
	if err != nil {
		return err
	}
	fmt.Printf("%s, %s guard interval, Mbit/s per spatial stream\n", std.Description(), gi)
	fmt.Println(t)
	return nil
}

func planTable(p wlan.BurstPlan, w wlan.SyncWindow) *table.Table {
	t := newTable("Parameter", "Value")
	t.Row("Standard", fmt.Sprintf("%s (%s)", p.Request.Standard.Description(), p.Request.Standard.GeneratorCode()))
	t.Row("Bandwidth / MCS / GI", fmt.Sprintf("%s / MCS%d / %s", p.Request.Bandwidth, p.Request.MCS, p.Request.GuardInterval))
	t.Row("Data rate", fmt.Sprintf("%.1f Mbit/s", p.DataRateMbps))
	t.Row("Header", fmt.Sprintf("%.1f us", p.HeaderDuration*1e6))
	t.Row("Symbol", fmt.Sprintf("%.1f us", p.SymbolDuration*1e6))
	t.Row("OFDM symbols", strconv.Itoa(p.NumOFDMSymbols))
	t.Row("Bits per symbol", strconv.Itoa(p.BitsPerSymbol))
	t.Row("MPDUs", fmt.Sprintf("%d x %d bytes", p.NumMPDUs, p.MPDUBytes))
	t.Row("Frame duration", fmt.Sprintf("%.4f ms", p.FrameDuration()*1000))
	t.Row("Idle time", fmt.Sprintf("%.4f ms", p.IdleDuration*1000))
	t.Row("Period", fmt.Sprintf("%.4f ms", p.Period()*1000))
	capture := fmt.Sprintf("%.6f s", w.CaptureTime)
	if w.Clamped {
		capture += fmt.Sprintf(" (capped from %.6f s)", w.Requested)
	}
	t.Row("Capture time", capture)
	return t
}

func plan(cfg config.Config, flags WaveformFlags, bitsPerSymbol, mpduBytes int) error {
	w := flags.apply(cfg.Waveform)
	req, err := w.Request()
	if err != nil {
		return err
	}
	if bitsPerSymbol == 0 {
		t, err := wlan.DefaultCatalog.Table(req.Standard)
		if err != nil {
			return err
		}
		if bitsPerSymbol, err = t.BitsPerSymbol(req.MCS, req.Bandwidth); err != nil {
			return err
		}
	}
	if mpduBytes == 0 {
		mpduBytes = w.MPDUSizeBytes
	}
	if mpduBytes == 0 {
		log.Infof("MPDU size is read from the generator, assuming %d bytes", wlan.DefaultMPDUSizeBits/8)
		mpduBytes = wlan.DefaultMPDUSizeBits / 8
	}

	p, err := wlan.NewBurstPlanner(mpduBytes*8).Plan(req, bitsPerSymbol)
	if err != nil {
		return err
	}
	win, err := cfg.Capture.Sync().Sync(p.FrameDuration()*1000, p.IdleDuration*1000)
	if err != nil {
		return err
	}
	fmt.Println(planTable(p, win))
	return nil
}

func capture(cfg config.Config, frameMs, idleMs float64) error {
	w, err := cfg.Capture.Sync().Sync(frameMs, idleMs)
	if err != nil {
		return err
	}
	if warn := w.Warning(); warn != nil {
		log.Warn(warn)
	}
	fmt.Printf("%.6f\n", w.CaptureTime)
	return nil
}

func generate(ctx context.Context, cfg config.Config, flags WaveformFlags, rf bool, save string) error {
	w := flags.apply(cfg.Waveform)
	req, err := w.Request()
	if err != nil {
		return err
	}
	b, err := bench.Connect(ctx, cfg, bench.RoleGenerator)
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := b.Generate(req, output(w, rf, save))
	if err != nil {
		return err
	}
	win, err := cfg.Capture.Sync().Sync(p.FrameDuration()*1000, p.IdleDuration*1000)
	if err != nil {
		return err
	}
	fmt.Println(planTable(p, win))
	return nil
}

func analyze(ctx context.Context, cfg config.Config) error {
	b, err := bench.Connect(ctx, cfg, bench.RoleGenerator|bench.RoleAnalyzer)
	if err != nil {
		return err
	}
	defer b.Close()

	report, err := b.FullSetup()
	if err != nil {
		return err
	}
	t := newTable("Parameter", "Value")
	std := string(report.Standard)
	if report.UsedFallback {
		std += " (fallback)"
	}
	t.Row("Standard", std)
	if report.Generator != nil {
		t.Row("Center frequency", fmt.Sprintf("%.6f GHz", report.Generator.FrequencyHz/1e9))
		t.Row("Frame duration", fmt.Sprintf("%.4f ms", report.Generator.FrameDurationMs))
		t.Row("Idle time", fmt.Sprintf("%.4f ms", report.Generator.IdleTimeMs))
	}
	if report.Window != nil {
		t.Row("Capture time", fmt.Sprintf("%.6f s", report.Window.CaptureTime))
	}
	fmt.Println(t)
	return nil
}

func simulate(cfg config.Config) error {
	smw := mock.NewGenerator(cfg.Simulate.FrameDurationMs)
	fsw := mock.NewAnalyzer()
	if err := smw.Listen(cfg.Simulate.GeneratorListen); err != nil {
		return err
	}
	if err := fsw.Listen(cfg.Simulate.AnalyzerListen); err != nil {
		return multierr.Append(err, smw.Close())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info("Simulating instruments, Ctrl-C to stop")
	<-ctx.Done()

	log.Info("Shutting down")
	return multierr.Combine(smw.Close(), fsw.Close())
}

func dashboard(ctx context.Context, cfg config.Config, flags WaveformFlags, rf bool, logFile io.Writer) error {
	w := flags.apply(cfg.Waveform)
	req, err := w.Request()
	if err != nil {
		return err
	}
	b, err := bench.Connect(ctx, cfg, bench.RoleGenerator|bench.RoleAnalyzer)
	if err != nil {
		return err
	}
	defer b.Close()

	return tui.StartUI(b, req, output(w, rf, ""), cfg, logFile)
}
