package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/statgrid/internal/errors"
)

func decodeEnvelope(t *testing.T, buf *bytes.Buffer) JSONEnvelope {
	t.Helper()
	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	return env
}

func TestMachineMode_DefaultValue(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer

	data := struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Items []string `json:"items"`
	}{Name: "MAIN", Count: 2, Items: []string{"MAIN.uptime", "MAIN.n_object"}}

	require.NoError(t, WriteJSONSuccess(&buf, data))

	env := decodeEnvelope(t, &buf)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "MAIN", dataMap["name"])
	assert.Equal(t, float64(2), dataMap["count"]) // JSON numbers are float64
}

func TestWriteJSONSuccess_NilData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, nil))

	env := decodeEnvelope(t, &buf)
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
	assert.NotContains(t, buf.String(), `"data"`)
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer

	details := map[string]string{"endpoint": "http://localhost:6100"}
	require.NoError(t, WriteJSONError(&buf, ErrCodeAPIUnreachable, "Connection refused", "Start the storage API", details))

	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeAPIUnreachable, env.Error.Code)
	assert.Equal(t, "Connection refused", env.Error.Message)
	assert.Equal(t, "Start the storage API", env.Error.Suggestion)
	detailsMap, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "http://localhost:6100", detailsMap["endpoint"])
}

func TestWriteJSONFromError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteJSONFromError(&buf, nil))
		env := decodeEnvelope(t, &buf)
		assert.False(t, env.Success)
		assert.Nil(t, env.Error)
	})

	t.Run("generic", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteJSONFromError(&buf, fmt.Errorf("something went wrong")))
		env := decodeEnvelope(t, &buf)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeUnknown, env.Error.Code)
		assert.Equal(t, "something went wrong", env.Error.Message)
	})

	t.Run("wrapped structured error", func(t *testing.T) {
		var buf bytes.Buffer
		inner := errors.New(errors.ErrConfig, "Config file not found", "Create .statgrid.yaml")
		require.NoError(t, WriteJSONFromError(&buf, fmt.Errorf("startup: %w", inner)))
		env := decodeEnvelope(t, &buf)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeConfigNotFound, env.Error.Code)
		assert.Equal(t, "Create .statgrid.yaml", env.Error.Suggestion)
	})
}

func TestErrorToJSON_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.Error
		wantCode string
	}{
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config couldn't find", errors.New(errors.ErrConfig, "Couldn't find config file", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.NewConfigError("columns", 5, "Use 1, 2, 3, 4, 6 or 12"), ErrCodeConfigInvalid},
		{"unreachable", errors.WrapWithCode(fmt.Errorf("dial tcp: refused"), errors.ErrFetch, "request to http://x/metrics failed", ""), ErrCodeAPIUnreachable},
		{"status", errors.New(errors.ErrFetch, "unexpected API response (404): Unknown metric ID", ""), ErrCodeAPIError},
		{"bad body", errors.WrapWithCode(fmt.Errorf("eof"), errors.ErrFetch, "invalid API response", ""), ErrCodeAPIError},
		{"canceled", errors.WrapWithCode(fmt.Errorf("context canceled"), errors.ErrFetch, "request canceled", ""), ErrCodeCanceled},
		{"other fetch", errors.Wrap(fmt.Errorf("x"), "fetch failed"), ErrCodeFetchFailed},
		{"catalog", errors.New(errors.ErrCatalog, "no metrics", ""), ErrCodeCatalogFailed},
		{"render", errors.New(errors.ErrRender, "plot failed", ""), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ErrorToJSON(tt.err)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.err.Message, result.Message)
		})
	}
}

func TestErrorToJSON_CauseInDetails(t *testing.T) {
	err := errors.WrapWithCode(fmt.Errorf("dial tcp: refused"), errors.ErrFetch, "request to http://x/metrics failed", "")

	result := ErrorToJSON(err)

	details, ok := result.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "dial tcp: refused", details["cause"])
}

func TestErrorToJSON_NilReturnsNil(t *testing.T) {
	assert.Nil(t, ErrorToJSON(nil))
}
