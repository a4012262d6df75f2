// Package config loads the core-visible configuration record and,
// for long-running listeners, watches it for changes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/stlalpha/telnetcore/internal/telnet/telnetlog"
)

// Config mirrors the CLI surface the core consumes this record for,
// not command lines. JSON tags match the names tooling would expose
// on a CLI or config file.
type Config struct {
	Host string `json:"host"`
	Port int    `json:"port"`

	Encoding       string `json:"encoding"` // "" or a charset name; "false" selects the plain ASCII codec
	EncodingErrors string `json:"encoding_errors"`
	ForceBinary    bool   `json:"force_binary"`

	ConnectMinWait float64 `json:"connect_minwait"` // seconds
	ConnectMaxWait float64 `json:"connect_maxwait"` // seconds

	Limit int `json:"limit"`

	Term     string `json:"term"`
	Cols     int    `json:"cols"`
	Rows     int    `json:"rows"`
	TSpeed   string `json:"tspeed"`
	XDisploc string `json:"xdisploc"`
	Lang     string `json:"lang"`

	SendEnviron []string `json:"send_environ"`
	AlwaysDo    []string `json:"always_do"`
	AlwaysWill  []string `json:"always_will"`
}

// Default returns the built-in configuration used when no file is
// present.
func Default() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           6023,
		EncodingErrors: "strict",
		ConnectMinWait: 2.0,
		ConnectMaxWait: 15.0,
		Limit:          65536,
		Term:           "unknown",
		Cols:           80,
		Rows:           24,
		SendEnviron:    []string{"LANG"},
	}
}

// Load reads a JSON configuration file at path, overlaying it onto
// Default(). A missing file is not an error: Default() is returned
// unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			telnetlog.Info("config file %s not found, using defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	telnetlog.Info("loaded configuration from %s", path)
	return cfg, nil
}

// ConnectMinWaitDuration converts ConnectMinWait to a time.Duration.
func (c Config) ConnectMinWaitDuration() time.Duration {
	return time.Duration(c.ConnectMinWait * float64(time.Second))
}

// ConnectMaxWaitDuration converts ConnectMaxWait to a time.Duration.
func (c Config) ConnectMaxWaitDuration() time.Duration {
	return time.Duration(c.ConnectMaxWait * float64(time.Second))
}
