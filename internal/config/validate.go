package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/rileyhilliard/statgrid/internal/errors"
)

const (
	// MinCardHeight leaves room for a one row plot.
	MinCardHeight = 6
	// MaxCardHeight keeps at least a couple of cards on a normal terminal.
	MaxCardHeight = 40
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but statgrid only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest statgrid release")
	}

	if !cfg.Demo {
		if err := validateEndpoint(cfg.Endpoint); err != nil {
			return err
		}
	}

	if cfg.Timeout <= 0 {
		return errors.NewConfigError("timeout", cfg.Timeout, "Use a positive duration, like 10s")
	}

	if cfg.ScrapePeriod < time.Second {
		return errors.NewConfigError("scrape_period", cfg.ScrapePeriod,
			"Use the storage scrape period, at least 1s (varnishmon defaults to 20s)")
	}
	if cfg.ScrapePeriod%time.Second != 0 {
		return errors.NewConfigError("scrape_period", cfg.ScrapePeriod, "Use a whole number of seconds")
	}

	if err := validateTelemetry(cfg.Telemetry); err != nil {
		return err
	}

	return validateDashboard(cfg.Dashboard)
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.New(errors.ErrConfig,
			"No storage endpoint configured",
			"Set 'endpoint' in "+ConfigFileName+", pass --endpoint, or try --demo")
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.NewConfigError("endpoint", endpoint, "Use an http(s) URL, like http://localhost:6100")
	}
	return nil
}

func validateTelemetry(t TelemetryConfig) error {
	if t.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(t.Listen); err != nil {
		return errors.NewConfigError("telemetry.listen", t.Listen, "Use host:port, like 127.0.0.1:9181")
	}
	return nil
}

func validateDashboard(d DashboardConfig) error {
	if d.CardHeight < MinCardHeight || d.CardHeight > MaxCardHeight {
		return errors.NewConfigError("dashboard.card_height", d.CardHeight,
			fmt.Sprintf("Use a height between %d and %d rows", MinCardHeight, MaxCardHeight))
	}
	if d.Debounce < 0 {
		return errors.NewConfigError("dashboard.debounce", d.Debounce, "Use zero or a positive duration")
	}
	return nil
}
