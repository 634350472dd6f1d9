package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/statgrid/internal/config"
	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/prefs"
	"github.com/rileyhilliard/statgrid/internal/timerange"
)

// demoLatency makes demo fetches visible in the dashboard.
const demoLatency = 150 * time.Millisecond

// applyRangeFlags overrides the stored time range with --from and --to for
// this run only. An invalid combination leaves p unchanged.
func applyRangeFlags(p *prefs.Prefs, from, to string) error {
	if from == "" && to == "" {
		return nil
	}
	if from == "" {
		from = p.From
	}
	if to == "" {
		to = p.To
	}
	if _, err := timerange.NewPicker(from, to, nil); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid time range %s .. %s", from, to),
			"Use now, now-1h or a date like 2024-03-01 12:00, with --from before --to")
	}
	p.From, p.To = from, to
	return nil
}

// newGateway returns the storage gateway for cfg and a short name for the
// dashboard header.
func newGateway(cfg *config.Config) (gateway.Gateway, string, error) {
	if cfg.Demo {
		return gateway.NewDemo(cfg.ScrapePeriod, demoLatency), "demo", nil
	}
	gw, err := gateway.NewHTTPGateway(gateway.HTTPOptions{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, "", err
	}
	return gw, cfg.Endpoint, nil
}
