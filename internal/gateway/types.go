package gateway

import (
	"time"

	"github.com/danmuck/gatectl/internal/execution"
	"github.com/google/uuid"
)

// OverallStatus is the terminal classification of one gateway request.
type OverallStatus string

const (
	StatusCompletedSuccess OverallStatus = "COMPLETED_SUCCESS"
	StatusCompletedFailure OverallStatus = "COMPLETED_FAILURE"
	StatusValidationError  OverallStatus = "VALIDATION_ERROR"
	StatusSynthesisFailed  OverallStatus = "SYNTHESIS_FAILED"
	StatusExecutionError   OverallStatus = "EXECUTION_ERROR"
	StatusInternalError    OverallStatus = "INTERNAL_ERROR"
)

// Outward error codes carried by ErrorDetails.
const (
	CodeUnknownService  = "UNKNOWN_SERVICE"
	CodeLLMError        = "LLM_ERROR"
	CodeCommandRejected = "COMMAND_REJECTED"
	CodeGatewayError    = "GATEWAY_ERROR"
)

// Request priority tags. Priority is accepted and logged; it does not
// reorder execution.
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// TargetResource names the managed workload by its logical identifier.
type TargetResource struct {
	Name string `json:"name" binding:"required"`
}

// ActionRequest is the natural-language action to perform.
type ActionRequest struct {
	Intent   string `json:"intent" binding:"required"`
	Context  string `json:"context,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Request is the inbound gateway call.
type Request struct {
	SourceID       string         `json:"source_id" binding:"required"`
	TargetResource TargetResource `json:"target_resource" binding:"required"`
	ActionRequest  ActionRequest  `json:"action_request" binding:"required"`
}

// ExecutionDetails carries the executed command and its outcome.
type ExecutionDetails struct {
	Command         string            `json:"command"`
	ExecutionResult execution.Outcome `json:"execution_result"`
}

// ErrorDetails carries the outward error code and message.
type ErrorDetails struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Response is the only entity that crosses the gateway boundary outward.
// Exactly one of ExecutionDetails and ErrorDetails is set.
type Response struct {
	RequestID             string            `json:"request_id"`
	TimestampProcessedUTC time.Time         `json:"timestamp_processed_utc"`
	OverallStatus         OverallStatus     `json:"overall_status"`
	ExecutionDetails      *ExecutionDetails `json:"execution_details,omitempty"`
	ErrorDetails          *ErrorDetails     `json:"error_details,omitempty"`
}

func successResponse(status OverallStatus, details ExecutionDetails) Response {
	return Response{
		RequestID:             uuid.NewString(),
		TimestampProcessedUTC: time.Now().UTC(),
		OverallStatus:         status,
		ExecutionDetails:      &details,
	}
}

func errorResponse(status OverallStatus, code, message string) Response {
	return Response{
		RequestID:             uuid.NewString(),
		TimestampProcessedUTC: time.Now().UTC(),
		OverallStatus:         status,
		ErrorDetails:          &ErrorDetails{ErrorCode: code, ErrorMessage: message},
	}
}

func normalizePriority(priority string) string {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return priority
	default:
		return PriorityNormal
	}
}
