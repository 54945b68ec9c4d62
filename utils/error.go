package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stable machine-readable failure codes returned to callers.
const (
	CodeNotFound          = "notFound"
	CodeForbidden         = "forbidden"
	CodeInvalidTransition = "invalidTransition"
	CodeInvalidState      = "invalidState"
	CodeValidation        = "validationError"
	CodeDuplicateReview   = "duplicateReview"
	CodeGuideUnavailable  = "guideUnavailable"
	CodePayment           = "paymentError"
)

// ServiceError is a recoverable domain failure. Every operation of the
// booking engine reports expected failures as a ServiceError; anything
// else reaching the boundary is treated as an internal error.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewServiceError(code, format string, args ...any) error {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) error {
	return NewServiceError(CodeNotFound, format, args...)
}

func NewForbidden(format string, args ...any) error {
	return NewServiceError(CodeForbidden, format, args...)
}

func NewInvalidTransition(format string, args ...any) error {
	return NewServiceError(CodeInvalidTransition, format, args...)
}

func NewInvalidState(format string, args ...any) error {
	return NewServiceError(CodeInvalidState, format, args...)
}

func NewValidation(format string, args ...any) error {
	return NewServiceError(CodeValidation, format, args...)
}

func NewPaymentError(format string, args ...any) error {
	return NewServiceError(CodePayment, format, args...)
}

// AsServiceError unwraps err to a ServiceError if one is in the chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HasCode reports whether err carries the given failure code.
func HasCode(err error, code string) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == code
}

func httpStatus(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidTransition, CodeInvalidState, CodeDuplicateReview:
		return http.StatusConflict
	case CodeValidation, CodeGuideUnavailable:
		return http.StatusBadRequest
	case CodePayment:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Code:    "internal",
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code string, message string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("code", code))
	c.JSON(status, ErrorResponse{Code: code, Message: message})
}

// RespondError maps a service failure to its HTTP status and responds.
// Non-ServiceError values respond 500 without leaking internals.
func RespondError(c *gin.Context, err error) {
	if se, ok := AsServiceError(err); ok {
		JSONError(c, httpStatus(se.Code), se.Code, se.Message)
		return
	}
	GetLogger().Error("unexpected failure", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    "internal",
		Message: "Internal Server Error",
	})
}
