package config

import (
	"fmt"
	"time"

	"github.com/jrwynneiii/wlansync/wlan"
	"go.uber.org/multierr"
)

type InstrumentConf struct {
	Address     string  `koanf:"address"`
	TimeoutS    float64 `koanf:"timeout_s"`
	OPCTimeoutS float64 `koanf:"opc_timeout_s"`
	OPCPollMs   int     `koanf:"opc_poll_ms"`
}

func (c InstrumentConf) Timeout() time.Duration {
	return time.Duration(c.TimeoutS * float64(time.Second))
}

func (c InstrumentConf) OPCTimeout() time.Duration {
	return time.Duration(c.OPCTimeoutS * float64(time.Second))
}

func (c InstrumentConf) OPCPoll() time.Duration {
	return time.Duration(c.OPCPollMs) * time.Millisecond
}

type WaveformConf struct {
	Standard      string  `koanf:"standard"`
	Bandwidth     string  `koanf:"bandwidth"`
	MCS           int     `koanf:"mcs"`
	GuardInterval string  `koanf:"guard_interval"`
	BurstLengthS  float64 `koanf:"burst_length_s"`
	DutyCycle     float64 `koanf:"duty_cycle"`
	FrequencyHz   float64 `koanf:"frequency_hz"`
	PowerDBm      float64 `koanf:"power_dbm"`
	// 0 asks the generator for its maximum MPDU length.
	MPDUSizeBytes int    `koanf:"mpdu_size_bytes"`
	SavePath      string `koanf:"save_path"`
}

type CaptureConf struct {
	Multiplier       float64 `koanf:"multiplier"`
	MaxCaptureTimeS  float64 `koanf:"max_capture_time_s"`
	TriggerSource    string  `koanf:"trigger_source"`
	FallbackStandard string  `koanf:"fallback_standard"`
}

type TuiConf struct {
	RefreshMs       int  `koanf:"refresh_ms"`
	EnableLogOutput bool `koanf:"enable_log_output"`
}

// LogConf adds a rotated log file next to the terminal output.
type LogConf struct {
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

type SimulateConf struct {
	GeneratorListen string  `koanf:"generator_listen"`
	AnalyzerListen  string  `koanf:"analyzer_listen"`
	FrameDurationMs float64 `koanf:"frame_duration_ms"`
}

type Config struct {
	Generator InstrumentConf `koanf:"generator"`
	Analyzer  InstrumentConf `koanf:"analyzer"`
	Waveform  WaveformConf   `koanf:"waveform"`
	Capture   CaptureConf    `koanf:"capture"`
	Tui       TuiConf        `koanf:"tui"`
	Simulate  SimulateConf   `koanf:"simulate"`
	Log       LogConf        `koanf:"log"`
}

// Default mirrors the bench the tool was first written for: SMW200A at .10,
// FSW at .20, a 4 ms EHT320 MCS13 burst at 50% duty.
func Default() Config {
	return Config{
		Generator: InstrumentConf{
			Address:     "TCPIP::192.168.200.10::INSTR",
			TimeoutS:    50,
			OPCTimeoutS: 10,
			OPCPollMs:   200,
		},
		Analyzer: InstrumentConf{
			Address:     "TCPIP::192.168.200.20::INSTR",
			TimeoutS:    10,
			OPCTimeoutS: 10,
			OPCPollMs:   200,
		},
		Waveform: WaveformConf{
			Standard:      "WBE",
			Bandwidth:     "BW320",
			MCS:           13,
			GuardInterval: "GD08",
			BurstLengthS:  4e-3,
			DutyCycle:     0.5,
			FrequencyHz:   6e9,
			PowerDBm:      -10,
			MPDUSizeBytes: wlan.DefaultMPDUSizeBits / 8,
		},
		Capture: CaptureConf{
			Multiplier:       wlan.DefaultCaptureMultiplier,
			MaxCaptureTimeS:  wlan.DefaultMaxCaptureTime,
			TriggerSource:    "EXT",
			FallbackStandard: "WBE",
		},
		Tui: TuiConf{
			RefreshMs:       1000,
			EnableLogOutput: true,
		},
		Simulate: SimulateConf{
			GeneratorListen: "127.0.0.1:5025",
			AnalyzerListen:  "127.0.0.1:5026",
			FrameDurationMs: 4.0,
		},
		Log: LogConf{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Request converts the waveform section into a planner request.
func (w WaveformConf) Request() (wlan.WaveformRequest, error) {
	std, err := wlan.ParseStandard(w.Standard)
	if err != nil {
		return wlan.WaveformRequest{}, err
	}
	bw, err := wlan.ParseBandwidth(w.Bandwidth)
	if err != nil {
		return wlan.WaveformRequest{}, err
	}
	gi, err := wlan.ParseGuardInterval(w.GuardInterval)
	if err != nil {
		return wlan.WaveformRequest{}, err
	}
	return wlan.WaveformRequest{
		Standard:      std,
		Bandwidth:     bw,
		MCS:           w.MCS,
		GuardInterval: gi,
		BurstLength:   w.BurstLengthS,
		DutyCycle:     w.DutyCycle,
	}, nil
}

func (c CaptureConf) Sync() wlan.CaptureSync {
	return wlan.CaptureSync{Multiplier: c.Multiplier, MaxCaptureTime: c.MaxCaptureTimeS}
}

func (c InstrumentConf) validate(section string) error {
	var err error
	if c.TimeoutS <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s.timeout_s must be positive, got %v", section, c.TimeoutS))
	}
	if c.OPCTimeoutS <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s.opc_timeout_s must be positive, got %v", section, c.OPCTimeoutS))
	}
	if c.OPCPollMs <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s.opc_poll_ms must be positive, got %v", section, c.OPCPollMs))
	}
	return err
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	var errs []error
	errs = append(errs, c.Generator.validate("generator"), c.Analyzer.validate("analyzer"))

	if req, err := c.Waveform.Request(); err != nil {
		errs = append(errs, fmt.Errorf("waveform: %w", err))
	} else if _, err := wlan.NewBurstPlanner(wlan.DefaultMPDUSizeBits).Validate(req); err != nil {
		errs = append(errs, fmt.Errorf("waveform: %w", err))
	}
	if c.Waveform.MPDUSizeBytes < 0 {
		errs = append(errs, fmt.Errorf("waveform.mpdu_size_bytes must not be negative, got %d", c.Waveform.MPDUSizeBytes))
	}

	if _, err := c.Capture.Sync().Sync(0, 0); err != nil {
		errs = append(errs, fmt.Errorf("capture: %w", err))
	}
	if _, err := wlan.ParseStandard(c.Capture.FallbackStandard); err != nil {
		errs = append(errs, fmt.Errorf("capture.fallback_standard: %w", err))
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("log.max_size_mb must be positive, got %d", c.Log.MaxSizeMB))
	}
	if c.Tui.RefreshMs <= 0 {
		errs = append(errs, fmt.Errorf("tui.refresh_ms must be positive, got %d", c.Tui.RefreshMs))
	}
	return multierr.Combine(errs...)
}
