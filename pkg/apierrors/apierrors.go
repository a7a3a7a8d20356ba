package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("unsplash %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed API error
func New(errorType ErrorType, message string, code int) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// FromStatusCode classifies an HTTP status code into an error type.
// 403 is the quota signal on the Unsplash API, not an auth failure.
func FromStatusCode(statusCode int) ErrorType {
	switch statusCode {
	case http.StatusForbidden:
		return ErrorTypeRateLimit
	case http.StatusUnauthorized:
		return ErrorTypeAuth
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrorTypeServerError
	default:
		if statusCode >= 500 {
			return ErrorTypeServerError
		}
		return ErrorTypeUnknown
	}
}

// IsRateLimit reports whether err is a rate-limit (quota exceeded) error
func IsRateLimit(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeRateLimit
	}
	return false
}

// TypeOf returns the error type of err, or ErrorTypeUnknown for
// errors that did not originate from the API client.
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeUnknown
}
