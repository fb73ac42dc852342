package wlan

import "fmt"

// Parameter names carried by InvalidParameterError.
const (
	ParamMCS           = "mcs"
	ParamBandwidth     = "bandwidth"
	ParamGuardInterval = "guard_interval"
	ParamBurstLength   = "burst_length"
	ParamDutyCycle     = "duty_cycle"
	ParamBitsPerSymbol = "bits_per_symbol"
	ParamMPDUSize      = "mpdu_size"
	ParamFrameDuration = "frame_duration"
	ParamIdleTime      = "idle_time"
	ParamMultiplier    = "capture_multiplier"
	ParamMaxCapture    = "max_capture_time"
)

// InvalidParameterError reports a malformed or out of range input.
// Param identifies which input was rejected.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

func invalid(param string, value any, format string, args ...any) error {
	return &InvalidParameterError{Param: param, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedStandardError reports a standard identifier with no mapping.
type UnsupportedStandardError struct {
	Name string
}

func (e *UnsupportedStandardError) Error() string {
	return fmt.Sprintf("unsupported WLAN standard %q", e.Name)
}

// CapacityExceededWarning is non-fatal: the requested capture time was above
// the analyzer ceiling and has been clamped to it.
type CapacityExceededWarning struct {
	Requested float64
	Ceiling   float64
}

func (w *CapacityExceededWarning) Error() string {
	return fmt.Sprintf("capture time %.6f s exceeds analyzer maximum %g s, capped", w.Requested, w.Ceiling)
}
