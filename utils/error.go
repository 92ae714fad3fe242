package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes carried by AppError.
const (
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeInternal     = "internal"
)

// AppError is a domain failure that is safe to show to the client.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorizedError(msg string) error {
	return &AppError{Code: CodeUnauthorized, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &AppError{Code: CodeForbidden, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &AppError{Code: CodeNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &AppError{Code: CodeConflict, Message: msg}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondError writes err as {"error": ...}. Errors that are not AppErrors
// are logged and replaced with fallback.
func RespondError(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	var appErr *AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		GetLogger().Debug(fallback, zap.String("path", c.FullPath()), zap.String("reason", appErr.Message))
		c.JSON(status, ErrorResponse{Error: appErr.Message})
		return
	}
	GetLogger().Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	GetLogger().Warn(message, zap.Int("status", status), zap.String("path", c.FullPath()))
	c.JSON(status, ErrorResponse{Error: message})
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()
		c.Next()
	}
}
