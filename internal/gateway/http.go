package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/metric"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 10 * time.Second

// HTTPOptions configures an HTTPGateway.
type HTTPOptions struct {
	// Endpoint is the base URL of the storage API, e.g. http://localhost:6100.
	Endpoint string
	Timeout  time.Duration
	// Client overrides the fasthttp client, mainly for tests.
	Client *fasthttp.Client
}

// HTTPGateway talks to the storage API over HTTP.
type HTTPGateway struct {
	base    string
	timeout time.Duration
	client  *fasthttp.Client
}

// NewHTTPGateway validates the endpoint and builds a gateway.
func NewHTTPGateway(opts HTTPOptions) (*HTTPGateway, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		return nil, errors.New(errors.ErrConfig,
			"no storage endpoint configured",
			"Set endpoint in .statgrid.yaml, pass --endpoint, or use --demo")
	}

	uri := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(uri)
	if err := uri.Parse(nil, []byte(endpoint)); err != nil || len(uri.Host()) == 0 {
		return nil, errors.NewConfigError("endpoint", endpoint, "an http(s) URL")
	}
	scheme := string(uri.Scheme())
	if scheme != "http" && scheme != "https" {
		return nil, errors.NewConfigError("endpoint", endpoint, "an http(s) URL")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &fasthttp.Client{
			Name:            "statgrid",
			MaxConnsPerHost: 64,
		}
	}
	return &HTTPGateway{base: endpoint, timeout: timeout, client: client}, nil
}

type wireMetric struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Flag        string `json:"flag"`
	Format      string `json:"format"`
}

type wireCatalog struct {
	From    int64        `json:"from"`
	To      int64        `json:"to"`
	Step    int64        `json:"step"`
	Metrics []wireMetric `json:"metrics"`
}

type wireSeries struct {
	From    int64                `json:"from"`
	To      int64                `json:"to"`
	Step    int64                `json:"step"`
	Samples [][2]json.RawMessage `json:"samples"`
}

// FetchCatalog calls GET /storage/metrics.
func (g *HTTPGateway) FetchCatalog(ctx context.Context, from, to time.Time, step time.Duration) (*Catalog, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	setRangeArgs(args, from, to, step)

	var wire wireCatalog
	if err := g.get(ctx, "/storage/metrics", args, &wire); err != nil {
		return nil, err
	}

	metrics := make([]metric.Descriptor, 0, len(wire.Metrics))
	for _, m := range wire.Metrics {
		metrics = append(metrics, metric.Descriptor{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Kind:        metric.ParseKind(m.Flag),
			Format:      metric.ParseFormat(m.Format),
		})
	}

	return &Catalog{
		From:     time.Unix(wire.From, 0),
		To:       time.Unix(wire.To, 0),
		Step:     time.Duration(wire.Step) * time.Second,
		Clusters: Classify(metrics),
	}, nil
}

// FetchSeries calls GET /storage/metrics/{id}.
func (g *HTTPGateway) FetchSeries(ctx context.Context, req SeriesRequest) (*Series, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	setRangeArgs(args, req.From, req.To, req.Step)
	args.Set("aggregator", string(req.Aggregator))

	var wire wireSeries
	if err := g.get(ctx, "/storage/metrics/"+strconv.Itoa(req.MetricID), args, &wire); err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(wire.Samples))
	for i, raw := range wire.Samples {
		s, err := decodeSample(raw)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrFetch,
				fmt.Sprintf("invalid sample #%d of metric %d", i, req.MetricID), "")
		}
		samples = append(samples, s)
	}
	SortSamples(samples)

	return &Series{
		From:    time.Unix(wire.From, 0),
		To:      time.Unix(wire.To, 0),
		Step:    time.Duration(wire.Step) * time.Second,
		Samples: samples,
	}, nil
}

func setRangeArgs(args *fasthttp.Args, from, to time.Time, step time.Duration) {
	args.Set("from", strconv.FormatInt(from.Unix(), 10))
	args.Set("to", strconv.FormatInt(to.Unix(), 10))
	args.Set("step", strconv.FormatInt(int64(step/time.Second), 10))
}

func decodeSample(raw [2]json.RawMessage) (Sample, error) {
	var ts float64
	if err := json.Unmarshal(raw[0], &ts); err != nil {
		return Sample{}, err
	}
	s := Sample{At: time.Unix(int64(ts), 0)}

	v := bytes.TrimSpace(raw[1])
	switch {
	case len(v) == 0 || bytes.Equal(v, []byte("null")):
		s.Value = metric.Value{Null: true}
	case v[0] == '"':
		var hex string
		if err := json.Unmarshal(v, &hex); err != nil {
			return Sample{}, err
		}
		s.Value = metric.HexValue(hex)
	default:
		var num float64
		if err := json.Unmarshal(v, &num); err != nil {
			return Sample{}, err
		}
		s.Value = metric.NumberValue(num)
	}
	return s, nil
}

func (g *HTTPGateway) get(ctx context.Context, path string, args *fasthttp.Args, out any) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapWithCode(err, errors.ErrFetch, "request canceled", "")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(g.base + path + "?" + args.String())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(g.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := g.client.DoDeadline(req, resp, deadline); err != nil {
		return errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("request to %s failed", g.base+path),
			"Check that the storage API is reachable")
	}

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		body := strings.TrimSpace(string(resp.Body()))
		if body == "" {
			body = fasthttp.StatusMessage(code)
		}
		return errors.New(errors.ErrFetch,
			fmt.Sprintf("unexpected API response (%d): %s", code, body), "")
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.WrapWithCode(err, errors.ErrFetch, "invalid API response", "")
	}
	return nil
}
