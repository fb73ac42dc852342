package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlansync/config"
)

func main() {
	log.Info("Starting wlansync")
	flags := kong.Parse(&cli)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	path := cli.Config
	if path == "" {
		path = config.FindPath(config.SearchPaths)
	}
	cfg, _, err := config.Load(path)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	var logFile io.Writer
	f := cfg.Log.Writer()
	if f != nil {
		logFile = f
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	cmd := flags.Command()
	err = run(context.Background(), cmd, cfg, logFile)
	if err != nil {
		log.Errorf("%s failed: %v", cmd, err)
	}
	if f != nil {
		f.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, cfg config.Config, logFile io.Writer) error {
	switch strings.Fields(cmd)[0] {
	case "probe":
		return probe(ctx, cfg)
	case "rates":
		return rates(cli.Rates.Standard, cli.Rates.GuardInterval)
	case "plan":
		return plan(cfg, cli.Plan.WaveformFlags, cli.Plan.BitsPerSymbol, cli.Plan.MPDUBytes)
	case "capture":
		return capture(cfg, cli.Capture.FrameMs, cli.Capture.IdleMs)
	case "generate":
		return generate(ctx, cfg, cli.Generate.WaveformFlags, cli.Generate.RF, cli.Generate.Save)
	case "analyze":
		return analyze(ctx, cfg)
	case "simulate":
		return simulate(cfg)
	case "dashboard":
		return dashboard(ctx, cfg, cli.Dashboard.WaveformFlags, cli.Dashboard.RF, logFile)
	}
	return fmt.Errorf("command %q not recognized", cmd)
}
