package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/logger"
	"github.com/rileyhilliard/statgrid/internal/metric"
	"github.com/rileyhilliard/statgrid/internal/widget"
)

const scrape = 20 * time.Second

func TestDefault(t *testing.T) {
	p := Default(scrape)

	assert.Equal(t, "now-1h", p.From)
	assert.Equal(t, "now", p.To)
	assert.Equal(t, RefreshAuto, p.Refresh)
	assert.Equal(t, widget.VerbosityNormal, p.VerbosityValue())
	assert.Equal(t, 3, p.Columns)
	assert.Equal(t, metric.Avg, p.AggregatorValue())
	assert.Equal(t, scrape, p.StepDuration())
	assert.NoError(t, p.Validate(scrape))
}

func TestRefreshInterval(t *testing.T) {
	p := Default(scrape)
	assert.Equal(t, scrape, p.RefreshInterval(scrape), "auto follows the scrape period")

	p.Refresh = RefreshDisabled
	assert.Zero(t, p.RefreshInterval(scrape))

	p.Refresh = 15
	assert.Equal(t, 15*time.Second, p.RefreshInterval(scrape))
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(*testing.T, *Prefs)
		wantErr string
	}{
		{"refresh", "auto", func(t *testing.T, p *Prefs) { assert.Equal(t, RefreshAuto, p.Refresh) }, ""},
		{"refresh", "disabled", func(t *testing.T, p *Prefs) { assert.Equal(t, RefreshDisabled, p.Refresh) }, ""},
		{"refresh", "1m", func(t *testing.T, p *Prefs) { assert.Equal(t, 60, p.Refresh) }, ""},
		{"refresh", "10", func(t *testing.T, p *Prefs) { assert.Equal(t, 10, p.Refresh) }, ""},
		{"refresh", "7s", nil, "invalid refresh"},
		{"refresh", "-2", nil, "invalid refresh"},
		{"verbosity", "DEBUG", func(t *testing.T, p *Prefs) { assert.Equal(t, "debug", p.Verbosity) }, ""},
		{"verbosity", "loud", nil, "invalid verbosity"},
		{"columns", "6", func(t *testing.T, p *Prefs) { assert.Equal(t, 6, p.Columns) }, ""},
		{"columns", "5", nil, "invalid columns"},
		{"columns", "many", nil, "invalid columns"},
		{"aggregator", "max", func(t *testing.T, p *Prefs) { assert.Equal(t, "max", p.Aggregator) }, ""},
		{"aggregator", "bit_and", nil, "invalid aggregator"},
		{"step", "120", func(t *testing.T, p *Prefs) { assert.Equal(t, 120, p.Step) }, ""},
		{"step", "2m", func(t *testing.T, p *Prefs) { assert.Equal(t, 120, p.Step) }, ""},
		{"step", "10", nil, "invalid step"},
		{"step", "1.5s", nil, "invalid step"},
		{"from", "now-6h", func(t *testing.T, p *Prefs) { assert.Equal(t, "now-6h", p.From) }, ""},
		{"from", "yesterday", nil, "invalid time range"},
		{"to", "now-2h", nil, "invalid time range"},
		{"filter", "cache hit", func(t *testing.T, p *Prefs) {
			assert.Equal(t, "cache hit", p.Filter)
			assert.Equal(t, []string{"cache hit"}, p.FilterHistory)
		}, ""},
		{"hosts", "x", nil, "unknown preference"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%s", tt.key, tt.value), func(t *testing.T) {
			p := Default(scrape)
			before := *p

			err := p.Set(tt.key, tt.value, scrape)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, before, *p, "rejected values leave prefs unchanged")
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestGet(t *testing.T) {
	p := Default(scrape)
	p.Refresh = 30

	v, ok := p.Get("refresh")
	assert.True(t, ok)
	assert.Equal(t, "30s", v)

	v, _ = p.Get("step")
	assert.Equal(t, "20s", v)

	_, ok = p.Get("nope")
	assert.False(t, ok)

	for _, k := range Keys {
		v, ok := p.Get(k)
		require.True(t, ok, k)
		assert.NoError(t, p.Set(k, v, scrape), "Get output round trips through Set for %s", k)
	}
}

func TestFormatRefresh(t *testing.T) {
	assert.Equal(t, "auto", FormatRefresh(RefreshAuto))
	assert.Equal(t, "disabled", FormatRefresh(RefreshDisabled))
	assert.Equal(t, "1m0s", FormatRefresh(60))
}

func TestPushFilterHistory(t *testing.T) {
	p := Default(scrape)
	p.PushFilterHistory("a")
	p.PushFilterHistory("b")
	p.PushFilterHistory("a")
	p.PushFilterHistory("  ")
	assert.Equal(t, []string{"a", "b"}, p.FilterHistory)

	for i := 0; i < 30; i++ {
		p.PushFilterHistory(fmt.Sprintf("f%d", i))
	}
	assert.Len(t, p.FilterHistory, MaxFilterHistory)
	assert.Equal(t, "f29", p.FilterHistory[0])
}

func TestToggleCollapsed(t *testing.T) {
	p := Default(scrape)
	assert.True(t, p.ToggleCollapsed("MAIN.cache"))
	assert.True(t, p.ToggleCollapsed("LCK."))
	assert.True(t, p.IsCollapsed("MAIN.cache"))
	assert.Equal(t, []string{"LCK.", "MAIN.cache"}, p.Collapsed)

	assert.False(t, p.ToggleCollapsed("MAIN.cache"))
	assert.False(t, p.IsCollapsed("MAIN.cache"))
}

func TestStore(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"), scrape, nil)
		p, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, Default(scrape), p)
	})

	t.Run("save and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
		s := NewStore(path, scrape, nil)

		p := Default(scrape)
		require.NoError(t, p.Set("columns", "4", scrape))
		require.NoError(t, p.Set("filter", "backend", scrape))
		p.ToggleCollapsed("VBE.boot.default")
		require.NoError(t, s.Save(p))

		loaded, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, p, loaded)
	})

	t.Run("save rejects invalid prefs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		s := NewStore(path, scrape, nil)
		p := Default(scrape)
		p.Columns = 5

		assert.True(t, errors.IsCode(s.Save(p), errors.ErrConfig))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("invalid stored values fall back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		content := "columns: 5\nverbosity: loud\nrefresh: 10\nstep: 5\naggregator: median\nfrom: tomorrow\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		log := logger.NewBufferLogger()

		p, err := NewStore(path, scrape, log).Load()
		require.NoError(t, err)
		assert.Equal(t, 10, p.Refresh, "valid values survive")
		assert.Equal(t, DefaultColumns, p.Columns)
		assert.Equal(t, "normal", p.Verbosity)
		assert.Equal(t, 20, p.Step)
		assert.Equal(t, "avg", p.Aggregator)
		assert.Equal(t, "now-1h", p.From)
		assert.True(t, log.HasLevel("warn"))
	})

	t.Run("unparsable file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		require.NoError(t, os.WriteFile(path, []byte("columns: [\n"), 0644))

		_, err := NewStore(path, scrape, nil).Load()
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("reset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		s := NewStore(path, scrape, nil)
		require.NoError(t, s.Save(Default(scrape)))

		require.NoError(t, s.Reset())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, s.Reset(), "resetting twice is fine")
	})
}
