package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Name", Width: 20},
		{Title: "Kind", Width: 10},
	}
	rows := []table.Row{
		{"MAIN.uptime", "counter"},
		{"MAIN.n_object", "gauge"},
	}

	view := NewTable(columns, rows).View()

	assert.Contains(t, view, "Name")
	assert.Contains(t, view, "Kind")
	assert.Contains(t, view, "MAIN.uptime")
	assert.Contains(t, view, "gauge")
}

func TestNewTable_EmptyRows(t *testing.T) {
	view := NewTable([]TableColumn{{Title: "Name", Width: 20}}, []table.Row{}).View()
	assert.Contains(t, view, "Name")
}

func TestFitColumns(t *testing.T) {
	columns := []TableColumn{
		{Title: "ID"},
		{Title: "Name", Width: 30},
		{Title: "Unit"},
	}
	rows := []table.Row{
		{"1", "MAIN.uptime", "seconds"},
		{"12345", "MAIN.n_object", ""},
	}

	got := fitColumns(columns, rows)

	assert.Equal(t, 5, got[0].Width, "widest cell")
	assert.Equal(t, 30, got[1].Width, "explicit width kept")
	assert.Equal(t, 7, got[2].Width)
	assert.Equal(t, 0, columns[0].Width, "input untouched")
}

func TestRenderSimpleTable(t *testing.T) {
	columns := []TableColumn{{Title: "Cluster"}, {Title: "Metrics"}}
	rows := [][]string{
		{"MAIN", "2"},
		{"VBE", "1"},
	}

	output := RenderSimpleTable(columns, rows)

	assert.Contains(t, output, "Cluster")
	assert.Contains(t, output, "Metrics")
	assert.Contains(t, output, "MAIN")
	assert.Contains(t, output, "VBE")
}

func TestRenderSimpleTable_EmptyRows(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "Name"}}, nil))
}

func TestRenderKeyValues(t *testing.T) {
	output := RenderKeyValues("Preferences", []KeyValue{
		{Key: "from", Value: "now-1h"},
		{Key: "aggregator", Value: "avg"},
	})

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	assert.Equal(t, []string{
		"Preferences",
		"  from        now-1h",
		"  aggregator  avg",
	}, lines)
}

func TestRenderKeyValues_NoTitle(t *testing.T) {
	output := RenderKeyValues("", []KeyValue{{Key: "k", Value: "v"}})
	assert.Equal(t, "  k  v\n", output)
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{name: "shorter than width", input: "foo", width: 5, expected: "foo  "},
		{name: "equal to width", input: "foobar", width: 6, expected: "foobar"},
		{name: "longer than width", input: "foobar", width: 3, expected: "foobar"},
		{name: "empty string", input: "", width: 3, expected: "   "},
		{name: "wide runes", input: "▾", width: 2, expected: "▾ "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, padRight(tt.input, tt.width))
		})
	}
}

func TestProfileFor(t *testing.T) {
	var sb strings.Builder
	assert.Equal(t, termenv.Ascii, ProfileFor(&sb), "non-file writers get no colors")

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, ProfileFor(nil))
}
