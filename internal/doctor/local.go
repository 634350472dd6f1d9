package doctor

import (
	"context"
	"net"
	"os"
	"path/filepath"
)

// LogFileCheck verifies the log file can be opened for appending.
type LogFileCheck struct {
	Path string
}

func (c *LogFileCheck) Name() string     { return "log_file" }
func (c *LogFileCheck) Category() string { return "LOCAL" }

func (c *LogFileCheck) Run(ctx context.Context) CheckResult {
	if c.Path == "" {
		return result(c, StatusPass, "Logging disabled", "")
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return result(c, StatusFail, "Cannot create "+dir+": "+err.Error(),
			"Set log.file to a writable path")
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return result(c, StatusFail, "Cannot write "+c.Path+": "+err.Error(),
			"Set log.file to a writable path")
	}
	_ = f.Close()
	return result(c, StatusPass, "Log file: "+c.Path, "")
}

// TelemetryCheck verifies the metrics listen address is free.
type TelemetryCheck struct {
	Listen string
}

func (c *TelemetryCheck) Name() string     { return "telemetry_listen" }
func (c *TelemetryCheck) Category() string { return "LOCAL" }

func (c *TelemetryCheck) Run(ctx context.Context) CheckResult {
	if c.Listen == "" {
		return result(c, StatusPass, "Telemetry endpoint disabled", "")
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", c.Listen)
	if err != nil {
		return result(c, StatusFail, "Cannot listen on "+c.Listen+": "+err.Error(),
			"Pick a free port with 'statgrid config set telemetry.listen 127.0.0.1:<port>'")
	}
	_ = ln.Close()
	return result(c, StatusPass, "Telemetry endpoint: http://"+c.Listen+"/metrics", "")
}
