package doctor

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/logger"
	"github.com/rileyhilliard/statgrid/internal/prefs"
)

// PrefsCheck loads the stored preferences and reports values the dashboard
// would ignore.
type PrefsCheck struct {
	Path         string
	ScrapePeriod time.Duration
}

func (c *PrefsCheck) Name() string     { return "prefs_file" }
func (c *PrefsCheck) Category() string { return "PREFS" }

func (c *PrefsCheck) Run(ctx context.Context) CheckResult {
	if _, err := os.Stat(c.Path); os.IsNotExist(err) {
		return result(c, StatusPass, "No stored preferences, using defaults", "")
	}

	log := logger.NewBufferLogger()
	if _, err := prefs.NewStore(c.Path, c.ScrapePeriod, log).Load(); err != nil {
		return result(c, StatusFail, errors.Summary(err), "Run 'statgrid prefs reset'")
	}

	var ignored []string
	for _, m := range log.Messages {
		if m.Level == "warn" {
			ignored = append(ignored, m.Message)
		}
	}
	if len(ignored) > 0 {
		return result(c, StatusWarn, strings.Join(ignored, "; "),
			"Run 'statgrid prefs set <key> <value>' to replace them")
	}
	return result(c, StatusPass, "Preferences: "+c.Path, "")
}
