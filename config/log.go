package config

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer returns the rotating log file, or nil when no file is configured.
func (c LogConf) Writer() io.WriteCloser {
	if c.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   expandHome(c.File),
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
	}
}
