package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .statgrid.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Endpoint is the base URL of the varnishmon storage API.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Timeout bounds each storage API request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ScrapePeriod is the sampling period of the store. It is the floor of
	// the step and the value of the "auto" refresh interval.
	ScrapePeriod time.Duration `yaml:"scrape_period" mapstructure:"scrape_period"`

	// Demo serves synthetic data instead of calling Endpoint.
	Demo bool `yaml:"demo" mapstructure:"demo"`

	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
}

// LogConfig controls the log file. The terminal belongs to the dashboard,
// so logs never go to stdout.
type LogConfig struct {
	// File is the log file path. Supports ~ and ${HOME}.
	File string `yaml:"file" mapstructure:"file"`

	// Debug enables debug level entries.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	// Listen is the host:port of the /metrics endpoint. Empty disables it.
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// DashboardConfig controls the widget grid.
type DashboardConfig struct {
	// CardHeight is the height of one widget card in rows.
	CardHeight int `yaml:"card_height" mapstructure:"card_height"`

	// Debounce is the delay used to coalesce refresh triggers.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:      CurrentConfigVersion,
		Endpoint:     "",
		Timeout:      10 * time.Second,
		ScrapePeriod: 20 * time.Second,
		Demo:         false,
		Log: LogConfig{
			File:  "${HOME}/.cache/statgrid/statgrid.log",
			Debug: false,
		},
		Dashboard: DashboardConfig{
			CardHeight: 14,
			Debounce:   500 * time.Millisecond,
		},
	}
}
