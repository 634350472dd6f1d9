package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/util"
)

// apiWindow is the number of scrape periods the API check asks for.
const apiWindow = 10

// APICheck fetches the catalog of the last few scrape periods.
type APICheck struct {
	Gateway      gateway.Gateway
	Source       string
	ScrapePeriod time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c *APICheck) Name() string     { return "api_catalog" }
func (c *APICheck) Category() string { return "API" }

func (c *APICheck) Run(ctx context.Context) CheckResult {
	if c.Gateway == nil {
		return result(c, StatusFail, "No storage gateway", "Fix the configuration errors above")
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	to := now()
	from := to.Add(-apiWindow * c.ScrapePeriod)
	start := time.Now()
	cat, err := c.Gateway.FetchCatalog(ctx, from, to, c.ScrapePeriod)
	latency := time.Since(start).Round(time.Millisecond)
	if err != nil {
		suggestion := "Check that the storage API at " + c.Source + " is running"
		if errors.IsCode(err, errors.ErrConfig) {
			suggestion = "Fix the endpoint in your config"
		}
		return result(c, StatusFail, errors.Summary(err), suggestion)
	}

	n := cat.MetricCount()
	if n == 0 {
		return result(c, StatusWarn,
			fmt.Sprintf("%s answered in %s but has no metrics for the last %s", c.Source, latency, to.Sub(from)),
			"Check that varnishmon is scraping, or widen the time range in the dashboard")
	}
	if cat.Step > c.ScrapePeriod {
		return result(c, StatusWarn,
			fmt.Sprintf("Storage uses a %s step, but scrape_period is %s", cat.Step, c.ScrapePeriod),
			fmt.Sprintf("Run 'statgrid config set scrape_period %s'", cat.Step))
	}
	return result(c, StatusPass,
		fmt.Sprintf("%d %s in %d %s (%s)", n, util.Pluralize(n, "metric", "metrics"),
			len(cat.Clusters), util.Pluralize(len(cat.Clusters), "cluster", "clusters"), latency), "")
}
