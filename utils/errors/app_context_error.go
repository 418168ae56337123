// Package errors provides the structured error taxonomy shared by every layer
// of the thumbnail cache: sentinel errors for errors.Is checks and a context
// carrying error type that records where a failure was wrapped.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by AppContextError.
const (
	CodeSourceNotFound    = "SOURCE_NOT_FOUND"
	CodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	CodeInvalidOption     = "INVALID_OPTION"
	CodeImageProcessing   = "IMAGE_PROCESSING_ERROR"
	CodeStorage           = "STORAGE_ERROR"
	CodeUnknown           = "UNKNOWN_ERROR"
)

// AppContextError represents an error with rich context information
type AppContextError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Layer     string                 `json:"layer,omitempty"`     // usecase, gateway, driver, rest
	Component string                 `json:"component,omitempty"` // Specific component name
	Operation string                 `json:"operation,omitempty"` // Specific operation/method name
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppContextError) Error() string {
	var prefix string
	if e.Layer != "" && e.Component != "" && e.Operation != "" {
		prefix = fmt.Sprintf("[%s:%s:%s] ", e.Layer, e.Component, e.Operation)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s%s: %s (caused by: %v)", prefix, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s%s: %s", prefix, e.Code, e.Message)
}

// Unwrap returns the underlying error for error chain unwrapping
func (e *AppContextError) Unwrap() error {
	return e.Cause
}

// HTTPStatusCode maps error codes to HTTP status codes
func (e *AppContextError) HTTPStatusCode() int {
	switch e.Code {
	case CodeInvalidOption:
		return http.StatusBadRequest
	case CodeSourceNotFound:
		return http.StatusNotFound
	case CodeRemoteUnavailable:
		return http.StatusBadGateway
	case CodeImageProcessing:
		return http.StatusUnprocessableEntity
	case CodeStorage, CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HTTPContextResponse represents the structure of error responses sent to clients
type HTTPContextResponse struct {
	Error     string                 `json:"error"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Operation string                 `json:"operation,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// ToHTTPResponse converts an AppContextError to an HTTP error response
func (e *AppContextError) ToHTTPResponse() HTTPContextResponse {
	return HTTPContextResponse{
		Error:     "error",
		Code:      e.Code,
		Message:   e.Message,
		Operation: e.Operation,
		Context:   e.Context,
	}
}

// NewAppContextError creates a new AppContextError with full context
func NewAppContextError(
	code, message, layer, component, operation string,
	cause error,
	context map[string]interface{},
) *AppContextError {
	if context == nil {
		context = make(map[string]interface{})
	}

	return &AppContextError{
		Code:      code,
		Message:   message,
		Layer:     layer,
		Component: component,
		Operation: operation,
		Cause:     cause,
		Context:   context,
	}
}

// CodeOf returns the code of the outermost AppContextError in err's chain, or
// CodeUnknown.
func CodeOf(err error) string {
	var appErr *AppContextError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
