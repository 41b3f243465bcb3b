package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	CategoryValidation       ErrorCategory = "validation"
	CategoryInsufficientData ErrorCategory = "insufficient_data"
	CategoryEvaluationOrder  ErrorCategory = "evaluation_order"
	CategoryNotFound         ErrorCategory = "not_found"
	CategoryInternal         ErrorCategory = "internal"
	CategoryConfiguration    ErrorCategory = "configuration"
)

// AppError wraps errbuilder error with HTTP context
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	codeStr := "UNKNOWN_ERROR"
	switch e.ErrBuilder.ErrCode() {
	case errbuilder.CodeInvalidArgument:
		codeStr = "VALIDATION_ERROR"
	case errbuilder.CodeFailedPrecondition:
		if e.Category == CategoryEvaluationOrder {
			codeStr = "EVALUATION_ORDER_ERROR"
		} else {
			codeStr = "INSUFFICIENT_DATA"
		}
	case errbuilder.CodeNotFound:
		codeStr = "NOT_FOUND"
	case errbuilder.CodeInternal:
		codeStr = "INTERNAL_ERROR"
	}

	return fmt.Sprintf("[%s] %s", codeStr, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewValidationError creates a validation error using errbuilder
func NewValidationError(message string, details ...interface{}) *AppError {
	detailStr := ""
	if len(details) > 0 {
		detailStr = fmt.Sprintf("%v", details[0])
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if detailStr != "" {
		errorMap := errbuilder.ErrorMap{}
		errorMap.Set("validation_details", errors.New(detailStr))
		builder = builder.WithDetails(errbuilder.NewErrDetails(errorMap))
	}

	return NewAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewValidationErrorWithMap creates a validation error carrying one entry per
// offending field
func NewValidationErrorWithMap(message string, fieldErrors map[string]string) *AppError {
	errMap := errbuilder.ErrorMap{}
	for field, msg := range fieldErrors {
		errMap.Set(field, errors.New(msg))
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message).
		WithDetails(errbuilder.NewErrDetails(errMap))

	return NewAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewInsufficientDataError signals a computation that would divide by zero
// because the relevant rating collection is empty. Raised explicitly instead
// of letting NaN propagate.
func NewInsufficientDataError(scope string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("insufficient data: %s requires at least one rating", scope))

	return NewAppError(builder, CategoryInsufficientData, http.StatusUnprocessableEntity)
}

// NewEvaluationOrderError signals that features or fraud confidence were
// requested for a business whose trust evaluation has not run yet.
func NewEvaluationOrderError(businessName string) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("business", errors.New(businessName))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("trust evaluation must run before features or fraud confidence").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryEvaluationOrder, http.StatusConflict)
}

// NewNotFoundError creates a not-found error for an unknown business
func NewNotFoundError(resource, name string) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set(resource, errors.New(name))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s not found", resource)).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryNotFound, http.StatusNotFound)
}

// NewInternalError creates an internal server error using errbuilder
func NewInternalError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("internal_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("Internal server error").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// NewConfigurationError creates a configuration error using errbuilder
func NewConfigurationError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryConfiguration, http.StatusInternalServerError)
}

// IsInsufficientData reports whether err is the empty-collection error kind.
func IsInsufficientData(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Category == CategoryInsufficientData
}

// IsEvaluationOrder reports whether err is the out-of-order pipeline error kind.
func IsEvaluationOrder(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Category == CategoryEvaluationOrder
}

// ToAppError converts any error to an AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// ErrorHandler is a Gin middleware that provides centralized error handling
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			appErr := ToAppError(err)
			LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
		}
	}
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.RecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)

		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
	})
}

// LogError logs an error with appropriate level and context
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	switch err.Category {
	case CategoryValidation, CategoryNotFound, CategoryInsufficientData, CategoryEvaluationOrder:
		logEntry.Warn(err.ErrBuilder.Msg)
	case CategoryConfiguration:
		logEntry.Error(err.ErrBuilder.Msg)
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			logEntry.Error(err.ErrBuilder.Msg)
		}
	}
}
