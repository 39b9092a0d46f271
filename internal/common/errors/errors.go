// Package errors provides standardized error handling for the wizard API and
// BPMN workflow integration.
package errors

import (
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

// Profile / wizard errors
const (
	ErrCodeMissingField           ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidCategory        ErrorCode = "INVALID_CATEGORY"
	ErrCodeUnknownField           ErrorCode = "UNKNOWN_FIELD"
	ErrCodeFieldNotInStep         ErrorCode = "FIELD_NOT_IN_STEP"
	ErrCodeNoTransition           ErrorCode = "NO_TRANSITION"
	ErrCodeRecommendationNotReady ErrorCode = "RECOMMENDATION_NOT_READY"
	ErrCodeParseError             ErrorCode = "PARSE_ERROR"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeExportSendFailed ErrorCode = "EXPORT_SEND_FAILED"
	ErrCodeMailerDisabled   ErrorCode = "MAILER_DISABLED"
	ErrCodeSMSDisabled      ErrorCode = "SMS_DISABLED"

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

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the sentinel the error was built from, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithCause records the underlying error for errors.Is checks.
func (e *StandardError) WithCause(err error) *StandardError {
	e.cause = err
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewMissingFieldError lists the profile fields still unanswered.
func NewMissingFieldError(fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingField,
		Message:   "Required profile fields are missing",
		Details:   strings.Join(fields, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"missingFields": fields},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidCategoryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCategory,
		Message:   "Value is not one of the field's options",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownField,
		Message:   "Unknown profile field",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewFieldNotInStepError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFieldNotInStep,
		Message:   "Field is not collected on the active step",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNoTransitionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoTransition,
		Message:   "No transition from the current step",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRecommendationNotReadyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecommendationNotReady,
		Message:   "Recommendation is only available on the last step with a complete profile",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Malformed request payload",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable storage error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExportSendFailedError creates a retryable delivery error.
func NewExportSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportSendFailed,
		Message:   "Export delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewMailerDisabledError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMailerDisabled,
		Message:   "E-mail export is not enabled",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSMSDisabledError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSMSDisabled,
		Message:   "SMS export is not enabled",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Mappings
// ==========================

// HTTPStatus maps an error code to the response status used by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidCategory, ErrCodeUnknownField, ErrCodeFieldNotInStep, ErrCodeParseError:
		return http.StatusBadRequest
	case ErrCodeMissingField:
		return http.StatusUnprocessableEntity
	case ErrCodeNoTransition, ErrCodeRecommendationNotReady:
		return http.StatusConflict
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeSessionStoreFailed, ErrCodeMailerDisabled, ErrCodeSMSDisabled:
		return http.StatusServiceUnavailable
	case ErrCodeExportSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionStoreFailed, ErrCodeExportSendFailed:
		return 3
	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeMissingField, ErrCodeInvalidCategory, ErrCodeUnknownField, ErrCodeParseError:
		return "VALIDATION"
	case ErrCodeFieldNotInStep, ErrCodeNoTransition, ErrCodeRecommendationNotReady:
		return "WIZARD"
	case ErrCodeSessionNotFound, ErrCodeSessionStoreFailed:
		return "SESSION"
	case ErrCodeExportSendFailed, ErrCodeMailerDisabled, ErrCodeSMSDisabled:
		return "EXPORT"
	default:
		return "OTHER"
	}
}
