// Package errors provides standardized error handling for the scheduling
// services and their BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeInterviewNotFound   ErrorCode = "INTERVIEW_NOT_FOUND"
	ErrCodeProcessNotFound     ErrorCode = "PROCESS_NOT_FOUND"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeFeedbackNotFound    ErrorCode = "FEEDBACK_NOT_FOUND"

	ErrCodeScheduleValidationFailed ErrorCode = "SCHEDULE_VALIDATION_FAILED"
	ErrCodeTooManyInterviewers      ErrorCode = "TOO_MANY_INTERVIEWERS"
	ErrCodeFeedbackValidationFailed ErrorCode = "FEEDBACK_VALIDATION_FAILED"

	ErrCodeFeedbackForbidden ErrorCode = "FEEDBACK_FORBIDDEN"

	ErrCodeVersionConflict ErrorCode = "VERSION_CONFLICT"

	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSearchIndexFailed      ErrorCode = "SEARCH_INDEX_FAILED"
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

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewApplicationNotFoundError creates a non-retryable not-found error.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInterviewNotFoundError creates a non-retryable not-found error.
func NewInterviewNotFoundError(interviewID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInterviewNotFound,
		Message:   "Interview not found",
		Details:   fmt.Sprintf("interviewId: %s", interviewID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProcessNotFoundError creates a non-retryable not-found error.
func NewProcessNotFoundError(processID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProcessNotFound,
		Message:   "Interview process not found",
		Details:   fmt.Sprintf("processId: %s", processID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable not-found error.
func NewUserNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedbackNotFoundError creates a non-retryable not-found error.
func NewFeedbackNotFoundError(interviewID, interviewerID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackNotFound,
		Message:   "Feedback entry not found",
		Details:   fmt.Sprintf("interviewId: %s, interviewerId: %s", interviewID, interviewerID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScheduleValidationError creates a non-retryable validation error.
func NewScheduleValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScheduleValidationFailed,
		Message:   "Interview request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTooManyInterviewersError creates a non-retryable validation error.
func NewTooManyInterviewersError(count, max int) *StandardError {
	return &StandardError{
		Code:      ErrCodeTooManyInterviewers,
		Message:   "Interviewer limit exceeded",
		Details:   fmt.Sprintf("requested: %d, max: %d", count, max),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedbackValidationError creates a non-retryable validation error.
func NewFeedbackValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackValidationFailed,
		Message:   "Feedback validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedbackForbiddenError creates a non-retryable authorization error.
func NewFeedbackForbiddenError(interviewerID, interviewID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackForbidden,
		Message:   "Interviewer is not assigned to this interview",
		Details:   fmt.Sprintf("interviewerId: %s, interviewId: %s", interviewerID, interviewID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVersionConflictError creates a retryable concurrency error.
func NewVersionConflictError(applicationID string, version int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeVersionConflict,
		Message:   "Application was modified concurrently",
		Details:   fmt.Sprintf("applicationId: %s, version: %d", applicationID, version),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable search indexing error.
func NewSearchIndexFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Search index update failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Taxonomy Checks
// ==========================

func codeOf(err error) (ErrorCode, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code, true
	}
	return "", false
}

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	if !ok {
		return false
	}
	switch code {
	case ErrCodeApplicationNotFound, ErrCodeInterviewNotFound,
		ErrCodeProcessNotFound, ErrCodeUserNotFound, ErrCodeFeedbackNotFound:
		return true
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	code, ok := codeOf(err)
	if !ok {
		return false
	}
	switch code {
	case ErrCodeScheduleValidationFailed, ErrCodeTooManyInterviewers,
		ErrCodeFeedbackValidationFailed:
		return true
	}
	return false
}

// IsForbidden reports whether err is an authorization error.
func IsForbidden(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeFeedbackForbidden
}

// IsConflict reports whether err is an optimistic-concurrency conflict.
func IsConflict(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeVersionConflict
}

// ==========================
// 5. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeApplicationNotFound:       "APPLICATION_NOT_FOUND",
	ErrCodeInterviewNotFound:         "INTERVIEW_NOT_FOUND",
	ErrCodeProcessNotFound:           "PROCESS_NOT_FOUND",
	ErrCodeUserNotFound:              "USER_NOT_FOUND",
	ErrCodeFeedbackNotFound:          "FEEDBACK_NOT_FOUND",
	ErrCodeScheduleValidationFailed:  "SCHEDULE_VALIDATION_FAILED",
	ErrCodeTooManyInterviewers:       "TOO_MANY_INTERVIEWERS",
	ErrCodeFeedbackValidationFailed:  "FEEDBACK_VALIDATION_FAILED",
	ErrCodeFeedbackForbidden:        "FEEDBACK_FORBIDDEN",
	ErrCodeVersionConflict:          "VERSION_CONFLICT",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeSearchIndexFailed:        "SEARCH_INDEX_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueryExecutionFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeSearchIndexFailed:
		return 3

	case ErrCodeVersionConflict:
		return 2

	default:
		return 0 // business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 6. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "FORBIDDEN"):
		return "AUTHORIZATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INTERVIEWERS"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CONFLICT"):
		return "CONCURRENCY"
	case strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	default:
		return "OTHER"
	}
}
