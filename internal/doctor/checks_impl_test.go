package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/statgrid/internal/config"
	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	gwtesting "github.com/rileyhilliard/statgrid/internal/gateway/testing"
	"github.com/rileyhilliard/statgrid/internal/metric"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".statgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestConfigFileCheck(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := writeConfig(t, "version: 1\n")
		r := (&ConfigFileCheck{ConfigPath: path}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
		assert.Contains(t, r.Message, path)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		r := (&ConfigFileCheck{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")}).Run(context.Background())
		assert.Equal(t, StatusFail, r.Status)
	})
}

func TestConfigSchemaCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeConfig(t, "version: 1\nendpoint: http://localhost:6100\n")
		r := (&ConfigSchemaCheck{ConfigPath: path}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
		assert.Contains(t, r.Message, "http://localhost:6100")
	})

	t.Run("missing endpoint", func(t *testing.T) {
		path := writeConfig(t, "version: 1\n")
		r := (&ConfigSchemaCheck{ConfigPath: path}).Run(context.Background())
		assert.Equal(t, StatusFail, r.Status)
		assert.Contains(t, r.Suggestion, "--demo")
	})

	t.Run("override applies before validation", func(t *testing.T) {
		path := writeConfig(t, "version: 1\n")
		r := (&ConfigSchemaCheck{
			ConfigPath: path,
			Override:   func(c *config.Config) { c.Demo = true },
		}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
		assert.Equal(t, "Valid (demo mode)", r.Message)
	})
}

func TestAPICheck(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	catalog := &gateway.Catalog{
		Step: 20 * time.Second,
		Clusters: []gateway.Cluster{
			{Name: "MAIN", Metrics: []metric.Descriptor{{ID: 1, Name: "MAIN.uptime"}, {ID: 2, Name: "MAIN.n_object"}}},
		},
	}

	tests := []struct {
		name    string
		catalog *gateway.Catalog
		err     error
		want    CheckStatus
		message string
	}{
		{name: "healthy", catalog: catalog, want: StatusPass, message: "2 metrics in 1 cluster"},
		{name: "empty", catalog: &gateway.Catalog{Step: 20 * time.Second}, want: StatusWarn, message: "no metrics for the last 3m20s"},
		{name: "coarser step", catalog: &gateway.Catalog{Step: time.Minute, Clusters: catalog.Clusters}, want: StatusWarn, message: "1m0s step"},
		{name: "unreachable", err: errors.WrapWithCode(fmt.Errorf("connection refused"), errors.ErrFetch, "request to http://x/metrics failed", ""), want: StatusFail, message: "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := gwtesting.NewFakeGateway().SetCatalog(tt.catalog, tt.err)
			check := &APICheck{Gateway: gw, Source: "http://x", ScrapePeriod: 20 * time.Second, Now: clock}

			r := check.Run(context.Background())

			assert.Equal(t, tt.want, r.Status)
			assert.Contains(t, r.Message, tt.message)
			assert.Equal(t, 1, gw.CatalogCalls)
		})
	}
}

func TestAPICheck_NoGateway(t *testing.T) {
	r := (&APICheck{ScrapePeriod: time.Second}).Run(context.Background())
	assert.Equal(t, StatusFail, r.Status)
}

func TestPrefsCheck(t *testing.T) {
	scrape := 20 * time.Second

	t.Run("missing file", func(t *testing.T) {
		r := (&PrefsCheck{Path: filepath.Join(t.TempDir(), "prefs.yaml"), ScrapePeriod: scrape}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
	})

	t.Run("ignored values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		require.NoError(t, os.WriteFile(path, []byte("columns: 5\naggregator: avg\n"), 0644))

		r := (&PrefsCheck{Path: path, ScrapePeriod: scrape}).Run(context.Background())
		assert.Equal(t, StatusWarn, r.Status)
		assert.Contains(t, r.Message, "columns")
	})

	t.Run("not yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		require.NoError(t, os.WriteFile(path, []byte("columns: [\n"), 0644))

		r := (&PrefsCheck{Path: path, ScrapePeriod: scrape}).Run(context.Background())
		assert.Equal(t, StatusFail, r.Status)
		assert.Contains(t, r.Suggestion, "prefs reset")
	})
}

func TestLogFileCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "statgrid.log")

	r := (&LogFileCheck{Path: path}).Run(context.Background())

	assert.Equal(t, StatusPass, r.Status)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestTelemetryCheck(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		r := (&TelemetryCheck{}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
	})

	t.Run("port in use", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		r := (&TelemetryCheck{Listen: ln.Addr().String()}).Run(context.Background())
		assert.Equal(t, StatusFail, r.Status)
	})

	t.Run("free port", func(t *testing.T) {
		r := (&TelemetryCheck{Listen: "127.0.0.1:0"}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
	})
}
