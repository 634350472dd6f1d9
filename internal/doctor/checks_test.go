package doctor

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestCheckResult_JSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "api_catalog", Category: "API", Status: StatusWarn, Message: "slow"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"api_catalog","category":"API","status":"warn","message":"slow"}`, string(data))
}

// mockCheck is a test implementation of Check.
type mockCheck struct {
	name   string
	status CheckStatus
	calls  atomic.Int32
}

func (m *mockCheck) Name() string     { return m.name }
func (m *mockCheck) Category() string { return "TEST" }
func (m *mockCheck) Run(ctx context.Context) CheckResult {
	m.calls.Add(1)
	return result(m, m.status, m.name+" ran", "")
}

func TestRunAll(t *testing.T) {
	a := &mockCheck{name: "a", status: StatusPass}
	b := &mockCheck{name: "b", status: StatusFail}

	results := RunAll(context.Background(), []Check{a, b})

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "TEST", results[0].Category)
	assert.Equal(t, StatusFail, results[1].Status)
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestRunAllParallel_KeepsOrder(t *testing.T) {
	checks := make([]Check, 20)
	for i := range checks {
		checks[i] = &mockCheck{name: string(rune('a' + i)), status: StatusPass}
	}

	results := RunAllParallel(context.Background(), checks)

	for i, r := range results {
		assert.Equal(t, checks[i].Name(), r.Name)
	}
}

func TestSummary(t *testing.T) {
	pass := CheckResult{Status: StatusPass}
	warn := CheckResult{Status: StatusWarn}
	fail := CheckResult{Status: StatusFail}

	tests := []struct {
		name       string
		results    []CheckResult
		want       string
		failures   bool
		withIssues bool
	}{
		{"all pass", []CheckResult{pass, pass}, "Everything looks good", false, false},
		{"one warning", []CheckResult{pass, warn}, "1 issue found", false, true},
		{"mixed", []CheckResult{warn, fail, fail}, "3 issues found", true, true},
		{"empty", nil, "Everything looks good", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.results))
			assert.Equal(t, tt.failures, HasFailures(tt.results))
			assert.Equal(t, tt.withIssues, HasIssues(tt.results))
		})
	}
}
