package gateway

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rileyhilliard/statgrid/internal/metric"
)

// debugRules tag low level metrics that are hidden at normal verbosity.
var debugRules = []func(name string) bool{
	func(name string) bool {
		return strings.HasPrefix(name, "MGT.") && name != "MGT.uptime"
	},
	prefixRule("ACCG_DIAG."),
	func(name string) bool {
		rest, ok := strings.CutPrefix(name, "VBE.")
		if !ok {
			return false
		}
		i := strings.LastIndexByte(rest, '.')
		return i < 0 || !backendKeepers[rest[i+1:]]
	},
	prefixRule("MEMPOOL."),
	prefixRule("LCK."),
}

// backendKeepers are the per-backend fields shown at normal verbosity.
var backendKeepers = map[string]bool{
	"bereq_bodybytes":  true,
	"bereq_hdrbytes":   true,
	"beresp_bodybytes": true,
	"beresp_hdrbytes":  true,
	"happy":            true,
	"is_healthy":       true,
	"req":              true,
}

func prefixRule(prefix string) func(string) bool {
	return func(name string) bool { return strings.HasPrefix(name, prefix) }
}

// clusterPrefixes override the default "everything before the last dot"
// clustering. The first capture group names the cluster.
var clusterPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^(MAIN[.]backend)`),
	regexp.MustCompile(`^(MAIN[.]bans)_?`),
	regexp.MustCompile(`^(MAIN[.]cache)`),
	regexp.MustCompile(`^(MAIN[.]client)`),
	regexp.MustCompile(`^(MAIN[.]esi_)`),
	regexp.MustCompile(`^(MAIN[.]fetch)`),
	regexp.MustCompile(`^(MAIN[.]g_mem)`),
	regexp.MustCompile(`^(MAIN[.]s_)`),
	regexp.MustCompile(`^(MAIN[.]sc_)`),
	regexp.MustCompile(`^(MAIN[.]sess_)`),
	regexp.MustCompile(`^(MAIN[.]shm_)`),
	regexp.MustCompile(`^(MAIN[.]thread)s?_?`),
	regexp.MustCompile(`^(MAIN[.]vgs_)`),
	regexp.MustCompile(`^(MAIN[.]ws_)`),
	regexp.MustCompile(`^(MEMPOOL[.])`),
	regexp.MustCompile(`^(LCK[.])`),
}

// clusterOrder ranks clusters; unranked clusters sort by name after them.
var clusterOrder = []*regexp.Regexp{
	regexp.MustCompile(`^MGT[.]`),
	regexp.MustCompile(`^MAIN[.][*]$`),
	regexp.MustCompile(`^MAIN[.]`),
	regexp.MustCompile(`^MSE[.]`),
	regexp.MustCompile(`^MSE_`),
	regexp.MustCompile(`^MSE4[.]`),
	regexp.MustCompile(`^MSE4_`),
	regexp.MustCompile(`^SMA[.]`),
	regexp.MustCompile(`^SMF[.]`),
	regexp.MustCompile(`^BROTLI[.]`),
	regexp.MustCompile(`^SLICER[.]`),
	regexp.MustCompile(`^VMOD_`),
	regexp.MustCompile(`^KVSTORE[.]`),
	regexp.MustCompile(`^ACCG[.]`),
	regexp.MustCompile(`^ACCG_DIAG[.]`),
	regexp.MustCompile(`^VBE[.]`),
	regexp.MustCompile(`^MEMPOOL[.]`),
	regexp.MustCompile(`^LCK[.]`),
}

// IsDebug reports whether a metric name is classified as low level.
func IsDebug(name string) bool {
	for _, rule := range debugRules {
		if rule(name) {
			return true
		}
	}
	return false
}

// ClusterName returns the cluster a metric name belongs to.
func ClusterName(name string) string {
	for _, re := range clusterPrefixes {
		if m := re.FindStringSubmatch(name); m != nil && m[1] != "" {
			return m[1] + "*"
		}
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i] + ".*"
	}
	return ""
}

func clusterRank(name string) int {
	for i, re := range clusterOrder {
		if re.MatchString(name) {
			return i
		}
	}
	return -1
}

// Classify sorts metrics by name, tags debug metrics and groups them into
// ordered clusters. The input slice is not modified.
func Classify(metrics []metric.Descriptor) []Cluster {
	sorted := append([]metric.Descriptor(nil), metrics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var clusters []Cluster
	index := make(map[string]int)
	for _, m := range sorted {
		m.Debug = IsDebug(m.Name)
		name := ClusterName(m.Name)
		i, ok := index[name]
		if !ok {
			i = len(clusters)
			index[name] = i
			clusters = append(clusters, Cluster{Name: name})
		}
		clusters[i].Metrics = append(clusters[i].Metrics, m)
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		ri, rj := clusterRank(clusters[i].Name), clusterRank(clusters[j].Name)
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		case ri >= 0:
			return true
		case rj >= 0:
			return false
		default:
			return clusters[i].Name < clusters[j].Name
		}
	})
	return clusters
}
