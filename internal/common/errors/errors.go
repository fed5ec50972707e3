// Package errors provides standardized error handling for the prediction service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidFormValue  ErrorCode = "INVALID_FORM_VALUE"
	ErrCodeUnknownCategory   ErrorCode = "UNKNOWN_CATEGORY"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeDimensionMismatch ErrorCode = "FEATURE_DIMENSION_MISMATCH"

	ErrCodeModelLoadFailed        ErrorCode = "MODEL_LOAD_FAILED"
	ErrCodeCoefficientsLoadFailed ErrorCode = "COEFFICIENTS_LOAD_FAILED"
	ErrCodeArtifactSchemaInvalid  ErrorCode = "ARTIFACT_SCHEMA_INVALID"

	ErrCodePredictionFailed ErrorCode = "PREDICTION_FAILED"

	ErrCodeCacheUnavailable   ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeHistoryWriteFailed ErrorCode = "HISTORY_WRITE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidFormValueError reports a required numeric field that is empty or not a number.
func NewInvalidFormValueError(fields ...string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFormValue,
		Message:   "Please, insert a valid value!",
		Details:   fmt.Sprintf("missing or invalid: %s", strings.Join(fields, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownCategoryError reports a categorical selection outside its reference list.
func NewUnknownCategoryError(field, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCategory,
		Message:   "Unknown category selected",
		Details:   fmt.Sprintf("%s: %q", field, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field, "value": value},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports a malformed API request body.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request body",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDimensionMismatchError reports a model whose input size differs from the encoder output.
func NewDimensionMismatchError(expected, actual int) *StandardError {
	return &StandardError{
		Code:      ErrCodeDimensionMismatch,
		Message:   "Feature vector length does not match the model",
		Details:   fmt.Sprintf("expected %d features, got %d", expected, actual),
		Retryable: false,
		Metadata:  map[string]interface{}{"expected": expected, "actual": actual},
		Timestamp: time.Now().UTC(),
	}
}

// NewModelLoadFailedError wraps a failure to read or decode the model artifact.
func NewModelLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelLoadFailed,
		Message:   "Failed to load model artifact",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCoefficientsLoadFailedError wraps a failure to read or decode the coefficient table.
func NewCoefficientsLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCoefficientsLoadFailed,
		Message:   "Failed to load coefficient table",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactSchemaInvalidError reports schema violations in an artifact file.
func NewArtifactSchemaInvalidError(artifact string, violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactSchemaInvalid,
		Message:   fmt.Sprintf("Artifact %s does not match its schema", artifact),
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionFailedError wraps a model evaluation failure.
func NewPredictionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionFailed,
		Message:   "Prediction failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Score cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewHistoryWriteFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryWriteFailed,
		Message:   fmt.Sprintf("Failed to record prediction in %s", sink),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"sink": sink},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError if one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// HTTPStatus maps an error code to the HTTP status returned by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidFormValue, ErrCodeUnknownCategory, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeDimensionMismatch, ErrCodePredictionFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeModelLoadFailed, ErrCodeCoefficientsLoadFailed, ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeModelLoadFailed,
		ErrCodeCoefficientsLoadFailed,
		ErrCodeCacheUnavailable,
		ErrCodeHistoryWriteFailed:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FORM") || strings.Contains(codeStr, "CATEGORY") || strings.Contains(codeStr, "REQUEST"):
		return "VALIDATION"
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "COEFFICIENTS") || strings.Contains(codeStr, "ARTIFACT"):
		return "ARTIFACT"
	case strings.Contains(codeStr, "PREDICTION") || strings.Contains(codeStr, "DIMENSION"):
		return "INFERENCE"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "HISTORY"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
