package wlan

import "math"

// Defaults for the analyzer capture window: four full burst periods, capped
// at the typical sweep time ceiling of the analyzer.
const (
	DefaultCaptureMultiplier = 4.0
	DefaultMaxCaptureTime    = 1.0 // seconds
)

// CaptureSync derives the analyzer capture time from generator frame timing.
type CaptureSync struct {
	Multiplier     float64
	MaxCaptureTime float64 // seconds
}

func DefaultCaptureSync() CaptureSync {
	return CaptureSync{Multiplier: DefaultCaptureMultiplier, MaxCaptureTime: DefaultMaxCaptureTime}
}

// SyncWindow is the capture window computed for one generator reading.
type SyncWindow struct {
	FrameDuration float64 // seconds
	IdleTime      float64 // seconds
	Requested     float64 // seconds before clamping
	CaptureTime   float64 // seconds
	Clamped       bool
}

// Warning returns a *CapacityExceededWarning when the window was clamped, nil otherwise.
func (w SyncWindow) Warning() error {
	if !w.Clamped {
		return nil
	}
	return &CapacityExceededWarning{Requested: w.Requested, Ceiling: w.CaptureTime}
}

// Sync converts the generator frame duration and idle time (milliseconds)
// to a capture time in seconds.
func (c CaptureSync) Sync(frameDurationMs, idleTimeMs float64) (SyncWindow, error) {
	if math.IsNaN(c.Multiplier) || c.Multiplier <= 0 {
		return SyncWindow{}, invalid(ParamMultiplier, c.Multiplier, "must be greater than 0")
	}
	if math.IsNaN(c.MaxCaptureTime) || c.MaxCaptureTime <= 0 {
		return SyncWindow{}, invalid(ParamMaxCapture, c.MaxCaptureTime, "must be greater than 0")
	}
	if math.IsNaN(frameDurationMs) || frameDurationMs < 0 {
		return SyncWindow{}, invalid(ParamFrameDuration, frameDurationMs, "must not be negative")
	}
	if math.IsNaN(idleTimeMs) || idleTimeMs < 0 {
		return SyncWindow{}, invalid(ParamIdleTime, idleTimeMs, "must not be negative")
	}

	w := SyncWindow{
		FrameDuration: frameDurationMs / 1000.0,
		IdleTime:      idleTimeMs / 1000.0,
	}
	w.Requested = c.Multiplier * (w.FrameDuration + w.IdleTime)
	w.CaptureTime = w.Requested
	if w.Requested > c.MaxCaptureTime {
		w.CaptureTime = c.MaxCaptureTime
		w.Clamped = true
	}
	return w, nil
}

// SyncCaptureTime applies the default multiplier with a caller supplied ceiling.
func SyncCaptureTime(frameDurationMs, idleTimeMs, maxCaptureTime float64) (SyncWindow, error) {
	return CaptureSync{Multiplier: DefaultCaptureMultiplier, MaxCaptureTime: maxCaptureTime}.Sync(frameDurationMs, idleTimeMs)
}
