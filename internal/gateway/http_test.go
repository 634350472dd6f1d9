package gateway

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/metric"
)

// newTestGateway serves handler on an in-memory listener.
func newTestGateway(t *testing.T, handler fasthttp.RequestHandler) *HTTPGateway {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = server.Shutdown() })

	g, err := NewHTTPGateway(HTTPOptions{
		Endpoint: "http://storage.test/",
		Timeout:  2 * time.Second,
		Client: &fasthttp.Client{
			Dial: func(string) (net.Conn, error) { return ln.Dial() },
		},
	})
	require.NoError(t, err)
	return g
}

func TestNewHTTPGateway_Validation(t *testing.T) {
	tests := []struct {
		endpoint string
		valid    bool
	}{
		{"http://localhost:6100", true},
		{"https://varnishmon.example.com/", true},
		{"", false},
		{"ftp://host", false},
		{"localhost:6100", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			_, err := NewHTTPGateway(HTTPOptions{Endpoint: tt.endpoint})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestHTTPGateway_FetchCatalog(t *testing.T) {
	var gotPath, gotArgs string
	g := newTestGateway(t, func(rctx *fasthttp.RequestCtx) {
		gotPath = string(rctx.Path())
		gotArgs = rctx.QueryArgs().String()
		rctx.SetContentType("application/json")
		rctx.SetBodyString(`{
			"from": 1700000000, "to": 1700003660, "step": 60,
			"metrics": [
				{"id": 2, "name": "MAIN.cache_hit", "description": "Cache hits", "flag": "c", "format": "i"},
				{"id": 1, "name": "MGT.uptime", "description": "Uptime", "flag": "c", "format": "d"},
				{"id": 3, "name": "VBE.boot.default.happy", "description": "Probes", "flag": "b", "format": "b"}
			]
		}`)
	})

	from := time.Unix(1700000000, 0)
	c, err := g.FetchCatalog(context.Background(), from, from.Add(time.Hour), time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "/storage/metrics", gotPath)
	assert.Equal(t, "from=1700000000&to=1700003600&step=60", gotArgs)
	assert.Equal(t, time.Unix(1700003660, 0), c.To)
	assert.Equal(t, time.Minute, c.Step)
	assert.Equal(t, 3, c.MetricCount())

	require.Len(t, c.Clusters, 3)
	assert.Equal(t, "MGT.*", c.Clusters[0].Name)
	uptime := c.Clusters[0].Metrics[0]
	assert.Equal(t, metric.Counter, uptime.Kind)
	assert.Equal(t, metric.Duration, uptime.Format)

	happy := c.Clusters[2].Metrics[0]
	assert.Equal(t, metric.Bitmap, happy.Kind)
	assert.True(t, happy.IsBitmap())
}

func TestHTTPGateway_FetchSeries(t *testing.T) {
	var gotPath string
	var gotAggregator string
	g := newTestGateway(t, func(rctx *fasthttp.RequestCtx) {
		gotPath = string(rctx.Path())
		gotAggregator = string(rctx.QueryArgs().Peek("aggregator"))
		rctx.SetBodyString(`{
			"from": 0, "to": 240, "step": 60,
			"samples": [[180, "ff"], [0, 5], [60, null], [120, 2.5]]
		}`)
	})

	s, err := g.FetchSeries(context.Background(), SeriesRequest{
		MetricID:   42,
		From:       time.Unix(0, 0),
		To:         time.Unix(240, 0),
		Step:       time.Minute,
		Aggregator: metric.Max,
	})
	require.NoError(t, err)

	assert.Equal(t, "/storage/metrics/42", gotPath)
	assert.Equal(t, "max", gotAggregator)
	require.Len(t, s.Samples, 4)
	assert.Equal(t, time.Unix(0, 0), s.Samples[0].At, "samples sorted by timestamp")
	assert.Equal(t, metric.NumberValue(5), s.Samples[0].Value)
	assert.True(t, s.Samples[1].Value.Null)
	assert.Equal(t, 2.5, s.Samples[2].Value.Num)
	assert.Equal(t, "ff", s.Samples[3].Value.Hex)
}

func TestHTTPGateway_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler fasthttp.RequestHandler
		message string
	}{
		{
			name: "not found",
			handler: func(rctx *fasthttp.RequestCtx) {
				rctx.SetStatusCode(fasthttp.StatusNotFound)
				rctx.SetBodyString("Unknown metric ID")
			},
			message: "unexpected API response (404): Unknown metric ID",
		},
		{
			name: "empty error body",
			handler: func(rctx *fasthttp.RequestCtx) {
				rctx.SetStatusCode(fasthttp.StatusInternalServerError)
			},
			message: "unexpected API response (500): Internal Server Error",
		},
		{
			name: "bad json",
			handler: func(rctx *fasthttp.RequestCtx) {
				rctx.SetBodyString("{")
			},
			message: "invalid API response",
		},
		{
			name: "bad sample",
			handler: func(rctx *fasthttp.RequestCtx) {
				rctx.SetBodyString(`{"from":0,"to":60,"step":60,"samples":[["x", 1]]}`)
			},
			message: "invalid sample #0 of metric 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, tt.handler)
			_, err := g.FetchSeries(context.Background(), SeriesRequest{MetricID: 1, Step: time.Minute, Aggregator: metric.Avg})
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrFetch))

			var se *errors.Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.message, se.Message)
		})
	}
}

func TestHTTPGateway_CanceledContext(t *testing.T) {
	g := newTestGateway(t, func(rctx *fasthttp.RequestCtx) {
		t.Error("request must not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.FetchCatalog(ctx, time.Unix(0, 0), time.Unix(60, 0), time.Minute)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.ErrorIs(t, err, context.Canceled)
}
