package cli

import (
	"encoding/json"
	goerrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/statgrid/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeAPIUnreachable = "API_UNREACHABLE"
	ErrCodeAPIError       = "API_ERROR"
	ErrCodeCanceled       = "CANCELED"
	ErrCodeFetchFailed    = "FETCH_FAILED"
	ErrCodeCatalogFailed  = "CATALOG_FAILED"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var sgErr *errors.Error
	if goerrors.As(err, &sgErr) {
		jsonErr := &JSONError{
			Code:       mapErrorCode(sgErr),
			Message:    sgErr.Message,
			Suggestion: sgErr.Suggestion,
		}
		if sgErr.Cause != nil {
			jsonErr.Details = map[string]interface{}{"cause": sgErr.Cause.Error()}
		}
		return jsonErr
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(e *errors.Error) string {
	msgLower := strings.ToLower(e.Message)
	switch e.Code {
	case errors.ErrConfig:
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrFetch:
		switch {
		case strings.Contains(msgLower, "canceled"):
			return ErrCodeCanceled
		case strings.HasPrefix(msgLower, "unexpected api response"),
			strings.HasPrefix(msgLower, "invalid api response"):
			return ErrCodeAPIError
		case strings.HasPrefix(msgLower, "request to"):
			return ErrCodeAPIUnreachable
		}
		return ErrCodeFetchFailed
	case errors.ErrCatalog:
		return ErrCodeCatalogFailed
	}
	return ErrCodeUnknown
}
