package main

// WaveformFlags override the waveform section of the config file. Zero
// values keep the configured setting.
type WaveformFlags struct {
	Standard      string  `help:"WLAN standard (WBE, WAX, 802.11be, ax)"`
	Bandwidth     string  `help:"Channel bandwidth (BW20 .. BW320)"`
	MCS           int     `name:"mcs" help:"MCS index" default:"-1"`
	GuardInterval string  `name:"gi" help:"Guard interval (GD08, GD16, GD32)"`
	BurstMs       float64 `help:"Burst length in milliseconds"`
	Duty          float64 `help:"Duty cycle in (0, 1]"`
}

var cli struct {
	Verbose bool   `help:"Prints debug output by default"`
	Config  string `help:"Config file, instead of searching the default locations" type:"existingfile"`

	Probe struct {
	} `cmd:"" help:"Connect to the generator and analyzer and print their identity"`
	Rates struct {
		Standard      string `help:"WLAN standard" default:"802.11be"`
		GuardInterval string `name:"gi" help:"Guard interval" default:"GD08"`
	} `cmd:"" help:"Print the MCS data rate table"`
	Plan struct {
		WaveformFlags `embed:""`

		BitsPerSymbol int `help:"Bits per OFDM symbol, computed from the MCS table when 0"`
		MPDUBytes     int `name:"mpdu-bytes" help:"MPDU payload size in bytes, config value when 0"`
	} `cmd:"" help:"Compute the burst layout without an instrument"`
	Capture struct {
		FrameMs float64 `arg:"" help:"Frame duration in milliseconds"`
		IdleMs  float64 `arg:"" help:"Idle time in milliseconds"`
	} `cmd:"" help:"Compute the analyzer capture time for a frame and idle time"`
	Generate struct {
		WaveformFlags `embed:""`

		RF   bool   `help:"Turn on the RF output"`
		Save string `help:"Directory on the generator to save the waveform to"`
	} `cmd:"" help:"Build the waveform on the generator and play it"`
	Analyze struct {
	} `cmd:"" help:"Set up the analyzer from the generator settings"`
	Simulate struct {
	} `cmd:"" help:"Serve simulated generator and analyzer instruments"`
	Dashboard struct {
		WaveformFlags `embed:""`

		RF bool `help:"Turn on the RF output when generating"`
	} `cmd:"" help:"Start the TUI"`
}
