package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{name: "nil slice", items: nil, want: "(none)"},
		{name: "empty slice", items: []string{}, want: "(none)"},
		{name: "single cluster", items: []string{"MAIN"}, want: "MAIN"},
		{name: "several clusters", items: []string{"MAIN", "SMA", "VBE"}, want: "MAIN, SMA, VBE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinOrNone(tt.items))
		})
	}
}

func TestJoinOrDefault(t *testing.T) {
	assert.Equal(t, "-", JoinOrDefault(nil, "-"))
	assert.Equal(t, "", JoinOrDefault([]string{}, ""))
	assert.Equal(t, "a, b", JoinOrDefault([]string{"a", "b"}, "-"))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "metrics"},
		{1, "metric"},
		{2, "metrics"},
		{-1, "metrics"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.count, "metric", "metrics"), "count %d", tt.count)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "step", 4},
		{"step", "", 4},
		{"step", "step", 0},
		{"stpe", "step", 2},
		{"colums", "columns", 1},
		{"columnss", "columns", 1},
		{"Step", "step", 1},
		{"kitten", "sitting", 3},
		{"▾MAIN", "▸MAIN", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"from", "to", "refresh", "filter", "verbosity", "columns", "aggregator", "step"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "transposition", input: "stpe", expected: []string{"step"}},
		{name: "missing letter", input: "colums", expected: []string{"columns"}},
		{name: "case insensitive", input: "FILTER", expected: []string{"filter"}},
		{name: "exact match", input: "to", expected: []string{"to"}},
		{name: "nearest first", input: "fro", expected: []string{"from", "to"}},
		{name: "nothing close", input: "palette", expected: nil},
		{name: "empty input", input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSimilar(tt.input, candidates, 3))
		})
	}
}

func TestSuggestSimilar_EmptyCandidates(t *testing.T) {
	assert.Nil(t, SuggestSimilar("step", nil, 3))
	assert.Nil(t, SuggestSimilar("step", []string{}, 3))
}

func TestDidYouMean(t *testing.T) {
	assert.Equal(t, "Did you mean step?", DidYouMean("stpe", []string{"step", "filter"}))
	assert.Equal(t, "", DidYouMean("palette", []string{"step", "filter"}))
}
