package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/duabook/duabook/internal/flagx"
	"github.com/duabook/duabook/internal/timex"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig is a DTO used exclusively for config-file unmarshalling.
// It relies on timex.Duration so intervals can be specified either as
// strings like "3s" or (in JSON) as integer nanoseconds. After parsing,
// set values are copied into the runtime Config.
type fileConfig struct {
	ServerBaseURL       string         `json:"server_base_url" toml:"server_base_url"`
	DatabasePath        string         `json:"database_path" toml:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" toml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" toml:"request_timeout"`
}

// parseFile overlays Config with values loaded from a config file.
//
// The file path comes from the -c or -config flags via
// flagx.ConfigFileFlags; when no path is given the function returns
// without touching cfg. The format is picked by extension: .toml files
// are decoded as TOML, everything else as JSON. Unset fields keep their
// current values, so partial files only override what they mention.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &fc); err != nil {
			panic(err)
		}
	} else {
		if err := json.Unmarshal(data, &fc); err != nil {
			panic(err)
		}
	}

	if fc.ServerBaseURL != "" {
		cfg.ServerBaseURL = fc.ServerBaseURL
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}
