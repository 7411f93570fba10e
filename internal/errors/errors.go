// Package errors defines the application error taxonomy and the JSON
// envelopes every HTTP response uses.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeRateLimit  ErrorCode = "RATE_LIMIT_EXCEEDED"
)

var statusByCode = map[ErrorCode]int{
	CodeInternal:   http.StatusInternalServerError,
	CodeValidation: http.StatusBadRequest,
	CodeNotFound:   http.StatusNotFound,
	CodeBadRequest: http.StatusBadRequest,
	CodeRateLimit:  http.StatusTooManyRequests,
}

type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code ErrorCode, message string, cause error) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
		Timestamp:  time.Now().UTC(),
	}
}

func Internal(message string) *AppError { return newError(CodeInternal, message, nil) }

func Validation(message string) *AppError { return newError(CodeValidation, message, nil) }

func NotFound(message string) *AppError { return newError(CodeNotFound, message, nil) }

func RateLimit(message string) *AppError { return newError(CodeRateLimit, message, nil) }

func BadRequest(message string) *AppError { return newError(CodeBadRequest, message, nil) }

func BadRequestWrap(err error, message string) *AppError {
	return newError(CodeBadRequest, message, err)
}

func InternalWrap(err error, message string) *AppError {
	return newError(CodeInternal, message, err)
}

type errorEnvelope struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

type successEnvelope struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

// WriteError renders err as the standard error envelope. Errors that are
// not AppErrors are masked as internal so no raw error text leaks out.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, requestID string) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = newError(CodeInternal, "An unexpected error occurred", err)
	}
	appErr.RequestID = requestID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if encErr := json.NewEncoder(w).Encode(errorEnvelope{Error: appErr}); encErr != nil {
		logger.Error("failed to encode error response",
			"encode_error", encErr,
			"original_error", err,
			"request_id", requestID,
		)
		return
	}

	level := slog.LevelWarn
	if appErr.StatusCode >= 500 {
		level = slog.LevelError
	}
	logger.Log(context.TODO(), level, "request failed",
		"error_code", appErr.Code,
		"error_message", appErr.Message,
		"status_code", appErr.StatusCode,
		"request_id", requestID,
		"cause", appErr.Cause,
	)
}

func WriteSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(successEnvelope{Data: data, Success: true})
}
