package doctor

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/rileyhilliard/statgrid/internal/config"
	"github.com/rileyhilliard/statgrid/internal/errors"
)

// ConfigFileCheck reports which config file is in use.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return result(c, StatusFail, errors.Summary(err), "Check the --config path and its permissions")
	}
	if path == "" {
		return result(c, StatusWarn, "No config file found, using defaults",
			"Run 'statgrid config set endpoint <url>' to create one")
	}
	return result(c, StatusPass, "Config file: "+path, "")
}

// ConfigSchemaCheck loads and validates the effective configuration.
type ConfigSchemaCheck struct {
	ConfigPath string
	// Override applies command line overrides before validation.
	Override func(*config.Config)
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "CONFIG" }

func (c *ConfigSchemaCheck) Run(ctx context.Context) CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return result(c, StatusFail, "Failed to load config: "+errors.Summary(err),
			"Check the YAML syntax in your config file")
	}
	if c.Override != nil {
		c.Override(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		suggestion := ""
		var sgErr *errors.Error
		if goerrors.As(err, &sgErr) {
			suggestion = sgErr.Suggestion
		}
		return result(c, StatusFail, errors.Summary(err), suggestion)
	}
	if cfg.Demo {
		return result(c, StatusPass, "Valid (demo mode)", "")
	}
	return result(c, StatusPass, fmt.Sprintf("Valid, endpoint %s", cfg.Endpoint), "")
}
