// Package generator drives the WLAN baseband of an R&S SMW200A.
package generator

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlansync/scpi"
	"github.com/jrwynneiii/wlansync/wlan"
)

const (
	wlnn      = "SOURce1:BB:WLNN:"
	fblock    = wlnn + "FBLock1:"
	user      = fblock + "USER1:"
	frequency = "SOURce1:FREQuency:CW"
	power     = "SOURce1:POWer:LEVel:IMMediate:AMPLitude"
	output    = "OUTPut1:STATe"
)

type Generator struct {
	ch      scpi.Channel
	Catalog wlan.Catalog
	// MPDUSizeBytes is the payload of each MPDU. 0 uses the largest MPDU
	// the generator accepts.
	MPDUSizeBytes int
}

func New(ch scpi.Channel, mpduSizeBytes int) *Generator {
	return &Generator{ch: ch, Catalog: wlan.DefaultCatalog, MPDUSizeBytes: mpduSizeBytes}
}

// Preset resets the instrument and the WLAN baseband.
func (g *Generator) Preset() error {
	for _, cmd := range []string{"*RST", "*CLS", wlnn + "PRESet"} {
		if err := g.ch.WriteOPC(cmd); err != nil {
			return fmt.Errorf("preset failed: %w", err)
		}
	}
	log.Info("[smw] Preset completed")
	return nil
}

func (g *Generator) SetFrequency(hz float64) error {
	if hz <= 0 {
		return fmt.Errorf("frequency must be positive, got %v Hz", hz)
	}
	if err := g.ch.WriteOPC(fmt.Sprintf("%s %s", frequency, formatFloat(hz))); err != nil {
		return err
	}
	log.Infof("[smw] Frequency set to %.6f GHz", hz/1e9)
	return nil
}

func (g *Generator) SetPowerLevel(dbm float64) error {
	if err := g.ch.WriteOPC(fmt.Sprintf("%s %s", power, formatFloat(dbm))); err != nil {
		return err
	}
	log.Infof("[smw] Power level set to %.2f dBm", dbm)
	return nil
}

func (g *Generator) EnableWLAN() error {
	return g.toggle(wlnn+"STATe", true, "WLAN baseband")
}

func (g *Generator) DisableWLAN() error {
	return g.toggle(wlnn+"STATe", false, "WLAN baseband")
}

func (g *Generator) EnableOutput() error {
	return g.toggle(output, true, "RF output")
}

func (g *Generator) DisableOutput() error {
	return g.toggle(output, false, "RF output")
}

func (g *Generator) toggle(header string, on bool, what string) error {
	state := "0"
	if on {
		state = "1"
	}
	if err := g.ch.WriteOPC(header + " " + state); err != nil {
		return err
	}
	log.Infof("[smw] %s %s", what, map[bool]string{true: "enabled", false: "disabled"}[on])
	return nil
}

// TxMode returns the SMW TX mode for a standard and bandwidth, e.g. EHT320.
func TxMode(std wlan.Standard, bw wlan.Bandwidth) (string, error) {
	switch std {
	case wlan.Std11be:
		return fmt.Sprintf("EHT%d", int(bw)), nil
	case wlan.Std11ax:
		return fmt.Sprintf("HE%d", int(bw)), nil
	}
	return "", &wlan.UnsupportedStandardError{Name: string(std)}
}

// CreateWaveform configures the baseband for req and fills the burst with
// PN23 MPDUs. The WLAN baseband is left off.
func (g *Generator) CreateWaveform(req wlan.WaveformRequest) (wlan.BurstPlan, error) {
	planner := wlan.BurstPlanner{Catalog: g.Catalog, MPDUSizeBits: g.MPDUSizeBytes * 8}
	if _, err := planner.Validate(req); err != nil {
		return wlan.BurstPlan{}, err
	}
	mode, err := TxMode(req.Standard, req.Bandwidth)
	if err != nil {
		return wlan.BurstPlan{}, err
	}

	if err := g.ch.Write(wlnn + "STATe 0"); err != nil {
		return wlan.BurstPlan{}, err
	}
	setup := []string{
		wlnn + "PRESet",
		wlnn + "BWidth " + req.Bandwidth.String(),
		fblock + "STANdard " + req.Standard.GeneratorCode(),
		fblock + "TMODe " + mode,
		user + "MCS MCS" + strconv.Itoa(req.MCS),
		fblock + "GUARd " + req.GuardInterval.String(),
	}
	for _, cmd := range setup {
		if err := g.ch.WriteOPC(cmd); err != nil {
			return wlan.BurstPlan{}, fmt.Errorf("failed to configure waveform: %w", err)
		}
	}

	bps, err := scpi.QueryInt(g.ch, user+"DATA:BPSymbol?")
	if err != nil {
		return wlan.BurstPlan{}, err
	}
	log.Debugf("[smw] Bits per symbol: %d", bps)

	if planner.MPDUSizeBits == 0 {
		maxBytes, err := scpi.QueryInt(g.ch, user+"MPDU1:DATA:LENGth? MAX")
		if err != nil {
			return wlan.BurstPlan{}, err
		}
		log.Debugf("[smw] Maximum MPDU length: %d bytes", maxBytes)
		planner.MPDUSizeBits = maxBytes * 8
	}

	plan, err := planner.Plan(req, bps)
	if err != nil {
		return wlan.BurstPlan{}, err
	}
	log.Debugf("[smw] Burst plan: %d symbols, %d MPDUs of %d bytes", plan.NumOFDMSymbols, plan.NumMPDUs, plan.MPDUBytes)

	if err := g.ch.WriteOPC(fmt.Sprintf("%sMPDU1:COUNt %d", user, plan.NumMPDUs)); err != nil {
		return wlan.BurstPlan{}, err
	}
	for i := 1; i <= plan.NumMPDUs; i++ {
		mpdu := fmt.Sprintf("%sMPDU%d:DATA:", user, i)
		if err := g.ch.Write(mpdu + "SOURce PN23"); err != nil {
			return wlan.BurstPlan{}, err
		}
		if err := g.ch.Write(fmt.Sprintf("%sLENGth %d", mpdu, plan.MPDUBytes)); err != nil {
			return wlan.BurstPlan{}, err
		}
	}
	if err := g.ch.WriteOPC(fblock + "ITIMe " + formatFloat(plan.IdleDuration)); err != nil {
		return wlan.BurstPlan{}, err
	}

	frameMs, err := scpi.QueryFloat(g.ch, fblock+"DATA:FDURation?")
	if err != nil {
		return wlan.BurstPlan{}, err
	}
	if frameMs/1000 > req.BurstLength {
		log.Warnf("[smw] Reported frame duration %.4f ms exceeds the %.4f ms burst", frameMs, req.BurstLength*1000)
	}
	log.Infof("[smw] Waveform ready: %s %s MCS%d %s, frame %.4f ms, idle %.4f ms",
		req.Standard, req.Bandwidth, req.MCS, req.GuardInterval, frameMs, plan.IdleDuration*1000)
	return plan, nil
}

// WaveformName is the file name a waveform for req is saved under.
func WaveformName(req wlan.WaveformRequest) string {
	return fmt.Sprintf("WLAN_%s_%s_MCS%d_burst%ss_duty%s.wv",
		req.Standard.GeneratorCode(), req.Bandwidth, req.MCS, formatFloat(req.BurstLength), formatFloat(req.DutyCycle))
}

// SaveWaveform writes the current waveform into dir on the generator file
// system and returns the full path.
func (g *Generator) SaveWaveform(dir string, req wlan.WaveformRequest) (string, error) {
	file := path.Join(strings.ReplaceAll(dir, `\`, "/"), WaveformName(req))
	if err := g.ch.WriteOPC(fmt.Sprintf(`%sWAVeform:CREate "%s"`, wlnn, file)); err != nil {
		return "", fmt.Errorf("failed to save waveform: %w", err)
	}
	log.Infof("[smw] Saved waveform %s", file)
	return file, nil
}

// Settings is a snapshot of the generator state.
type Settings struct {
	FrequencyHz     float64
	PowerDBm        float64
	RFOutput        bool
	WLANEnabled     bool
	Standard        string
	Bandwidth       string
	MCS             string
	GuardInterval   string
	FrameDurationMs float64
	IdleTimeMs      float64
}

func (g *Generator) Settings() (Settings, error) {
	var s Settings
	var err error
	if s.FrequencyHz, err = scpi.QueryFloat(g.ch, frequency+"?"); err != nil {
		return s, err
	}
	if s.PowerDBm, err = scpi.QueryFloat(g.ch, power+"?"); err != nil {
		return s, err
	}
	if s.RFOutput, err = scpi.QueryBool(g.ch, output+"?"); err != nil {
		return s, err
	}
	if s.WLANEnabled, err = scpi.QueryBool(g.ch, wlnn+"STATe?"); err != nil {
		return s, err
	}
	for _, q := range []struct {
		dst *string
		cmd string
	}{
		{&s.Standard, fblock + "STANdard?"},
		{&s.Bandwidth, wlnn + "BWidth?"},
		{&s.MCS, user + "MCS?"},
		{&s.GuardInterval, fblock + "GUARd?"},
	} {
		resp, err := g.ch.QueryOPC(q.cmd)
		if err != nil {
			return s, err
		}
		*q.dst = strings.TrimSpace(resp)
	}
	if s.FrameDurationMs, err = scpi.QueryFloat(g.ch, fblock+"DATA:FDURation?"); err != nil {
		return s, err
	}
	if s.IdleTimeMs, err = scpi.QueryFloat(g.ch, fblock+"ITIMe?"); err != nil {
		return s, err
	}
	return s, nil
}

// StandardName decodes the reported generator code.
func (s Settings) StandardName() (wlan.Standard, error) {
	return wlan.FromGeneratorCode(s.Standard)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
