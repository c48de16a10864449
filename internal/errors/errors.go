// Package errors defines the application error taxonomy and the centralized
// error handler. Every fault that crosses a component boundary is wrapped into
// an AppError so callers always receive a definite, user-presentable outcome.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: fmt.Sprintf("Неверный формат данных. %s", msg),
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

func NewStorageError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("Storage error: %s", underlyingMsg),
		UserMessage: "Временная проблема, попробуйте позже",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

func NewCatalogError(cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     "Book catalog error",
		UserMessage: "Каталог книг временно недоступен",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func NewTranslationError(cause error) *AppError {
	return &AppError{
		Code:        "E310",
		Message:     "Translation provider error",
		UserMessage: "",
		Severity:    SeverityLow,
		Retryable:   true,
		cause:       cause,
	}
}

func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     msg,
		UserMessage: "Операция невозможна в текущем состоянии",
		Severity:    SeverityMedium,
		Retryable:   false,
		cause:       nil,
	}
}

func NewRateLimitError(retryAfter int) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     fmt.Sprintf("Rate limit exceeded: retry after %d seconds", retryAfter),
		UserMessage: fmt.Sprintf("Слишком много запросов. Попробуйте через %d секунд", retryAfter),
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}
