package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrFetch,
		ErrEstimate,
		ErrRender,
		ErrCatalog,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid refresh interval",
			suggestion: "Pick one of 0, 1, 2, 5, 10, 30 or 60 seconds",
		},
		{
			name:       "fetch error",
			code:       ErrFetch,
			message:    "Unexpected API response (502)",
			suggestion: "Check the storage endpoint is reachable",
		},
		{
			name:       "estimate error",
			code:       ErrEstimate,
			message:    "Widget has no measurable width",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check .statgrid.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check .statgrid.yaml syntax"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrFetch, "Fetch failed", ""),
			expectedParts: []string{"Fetch failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			assert.True(t, strings.HasPrefix(output, "✗"))
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, "Failed to fetch metric")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrFetch, wrapped.Code, "Wrap should default to ErrFetch code")
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestWrapWithCode_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := WrapWithCode(cause, ErrRender, "Render failed", "")

	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))

	var sgErr *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &sgErr))
	assert.Equal(t, ErrRender, sgErr.Code)
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("columns", 5, "Use 1, 2, 3, 4, 6 or 12")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Equal(t, "invalid columns 5", err.Message)
	assert.Contains(t, err.Error(), "Use 1, 2, 3, 4, 6 or 12")
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrFetch))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrConfig))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "plain", Summary(errors.New("plain\n")))
	assert.Equal(t, "Fetch failed: timeout",
		Summary(WrapWithCode(errors.New("timeout"), ErrFetch, "Fetch failed", "retry")))
	assert.Equal(t, "No width", Summary(New(ErrEstimate, "No width", "")))
}
