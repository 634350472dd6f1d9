package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/statgrid/internal/metric"
)

func TestIsDebug(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
	}{
		{"MGT.uptime", false},
		{"MGT.child_start", true},
		{"MGT.uptime_extra", true},
		{"ACCG_DIAG.foo", true},
		{"ACCG.foo", false},
		{"VBE.boot.default.req", false},
		{"VBE.boot.default.happy", false},
		{"VBE.boot.default.is_healthy", false},
		{"VBE.boot.default.conn", true},
		{"VBE.req", true},
		{"MEMPOOL.req0.live", true},
		{"LCK.ban.creat", true},
		{"MAIN.client_req", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.debug, IsDebug(tt.name))
		})
	}
}

func TestClusterName(t *testing.T) {
	tests := []struct {
		name    string
		cluster string
	}{
		{"MAIN.client_req", "MAIN.client*"},
		{"MAIN.bans_added", "MAIN.bans*"},
		{"MAIN.bans", "MAIN.bans*"},
		{"MAIN.threads_created", "MAIN.thread*"},
		{"MAIN.threads", "MAIN.thread*"},
		{"MAIN.s_resp_bodybytes", "MAIN.s_*"},
		{"MAIN.uptime", "MAIN.*"},
		{"SMA.s0.g_bytes", "SMA.s0.*"},
		{"LCK.ban.creat", "LCK.*"},
		{"MEMPOOL.req0.live", "MEMPOOL.*"},
		{"standalone", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cluster, ClusterName(tt.name))
		})
	}
}

func TestClassify(t *testing.T) {
	in := []metric.Descriptor{
		{ID: 1, Name: "VBE.boot.default.req"},
		{ID: 2, Name: "MAIN.uptime"},
		{ID: 3, Name: "ZZZ.custom"},
		{ID: 4, Name: "MGT.uptime"},
		{ID: 5, Name: "AAA.custom"},
		{ID: 6, Name: "MAIN.cache_miss"},
		{ID: 7, Name: "MAIN.cache_hit"},
		{ID: 8, Name: "LCK.ban.creat"},
	}

	clusters := Classify(in)

	var names []string
	for _, c := range clusters {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"MGT.*",
		"MAIN.*",
		"MAIN.cache*",
		"VBE.boot.default.*",
		"LCK.*",
		"AAA.*",
		"ZZZ.*",
	}, names)

	require.Len(t, clusters[2].Metrics, 2)
	assert.Equal(t, "MAIN.cache_hit", clusters[2].Metrics[0].Name, "metrics sorted by name")
	assert.True(t, clusters[4].Metrics[0].Debug)
	assert.False(t, clusters[0].Metrics[0].Debug)

	assert.False(t, in[7].Debug, "input must not be modified")
	assert.Equal(t, "VBE.boot.default.req", in[0].Name)
}

func TestCatalog_MetricCount(t *testing.T) {
	c := &Catalog{Clusters: []Cluster{
		{Metrics: make([]metric.Descriptor, 3)},
		{Metrics: make([]metric.Descriptor, 2)},
	}}
	assert.Equal(t, 5, c.MetricCount())
}
