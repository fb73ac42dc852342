package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "WLANSYNC_"

var SearchPaths = []string{"/etc/wlansync/config.hcl", "~/.config/wlansync/config.hcl", "./config.hcl"}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// FindPath returns the last existing file of paths, so that more local files win.
func FindPath(paths []string) string {
	found := ""
	for _, path := range paths {
		path = expandHome(path)
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			log.Debugf("Found config file: %s", path)
			found = path
		}
	}
	if found == "" {
		log.Info("Config file not found, using defaults")
	}
	return found
}

// Load reads path (if not empty) and then WLANSYNC_* environment variables
// over Default().
func Load(path string) (Config, *koanf.Koanf, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), hcl.Parser(true)); err != nil {
			log.Errorf("Could not read config file %s: %v", path, err)
			return Config{}, nil, err
		}
		log.Infof("Loaded config file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
			key = strings.Replace(key, "_", ".", 1)
			log.Debugf("Found config env var: %s=%v", key, v)
			return key, v
		},
	}), nil)
	if err != nil {
		return Config{}, nil, err
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, nil, err
	}
	return cfg, k, cfg.Validate()
}
