package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/statgrid/internal/config"
	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/prefs"
)

func TestApplyRangeFlags(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{name: "no flags keeps stored range", wantFrom: "now-1h", wantTo: "now"},
		{name: "from only", from: "now-6h", wantFrom: "now-6h", wantTo: "now"},
		{name: "both", from: "2024-03-01 12:00", to: "2024-03-01 18:00", wantFrom: "2024-03-01 12:00", wantTo: "2024-03-01 18:00"},
		{name: "unparsable", from: "last tuesday", wantErr: true, wantFrom: "now-1h", wantTo: "now"},
		{name: "reversed", from: "now", to: "now-1h", wantErr: true, wantFrom: "now-1h", wantTo: "now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefs.Default(20 * time.Second)
			err := applyRangeFlags(p, tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFrom, p.From)
			assert.Equal(t, tt.wantTo, p.To)
		})
	}
}

func TestNewGateway(t *testing.T) {
	t.Run("demo", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Demo = true
		gw, source, err := newGateway(cfg)
		require.NoError(t, err)
		assert.IsType(t, &gateway.Demo{}, gw)
		assert.Equal(t, "demo", source)
	})

	t.Run("http", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Endpoint = "http://localhost:6100"
		gw, source, err := newGateway(cfg)
		require.NoError(t, err)
		assert.IsType(t, &gateway.HTTPGateway{}, gw)
		assert.Equal(t, "http://localhost:6100", source)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, _, err := newGateway(config.DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}
