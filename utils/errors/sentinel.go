package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the thumbnail cache taxonomy.
// These are base errors that can be used with errors.Is() and errors.As()
var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrRemoteUnavailable = errors.New("remote source unavailable")
	ErrInvalidOption     = errors.New("invalid option")
	ErrImageProcessing   = errors.New("image processing failed")
	ErrStorage           = errors.New("storage failure")
)

// IsSourceNotFound reports whether err means the source could not be reached.
// A remote source answering with a non-success status counts as not found.
func IsSourceNotFound(err error) bool {
	return errors.Is(err, ErrSourceNotFound) || errors.Is(err, ErrRemoteUnavailable)
}

// IsRemoteUnavailable checks if an error came from a failed HEAD/GET.
func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}

// IsInvalidOption checks if an error represents a rejected request option
func IsInvalidOption(err error) bool {
	return errors.Is(err, ErrInvalidOption)
}

// IsImageProcessingError checks if an error came from decode, resize or encode
func IsImageProcessingError(err error) bool {
	return errors.Is(err, ErrImageProcessing)
}

// IsStorageError checks if an error came from the cache filesystem
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

func wrapSentinel(sentinel, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %w", sentinel, cause)
	}
	return fmt.Errorf("%w", sentinel)
}

// NewSourceNotFoundError creates an AppContextError that wraps ErrSourceNotFound
func NewSourceNotFoundError(message, layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeSourceNotFound,
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrSourceNotFound, nil),
		context,
	)
}

// NewRemoteUnavailableError creates an AppContextError that wraps ErrRemoteUnavailable
func NewRemoteUnavailableError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeRemoteUnavailable,
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrRemoteUnavailable, cause),
		context,
	)
}

// NewInvalidOptionError creates an AppContextError that wraps ErrInvalidOption
func NewInvalidOptionError(message, layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeInvalidOption,
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrInvalidOption, nil),
		context,
	)
}

// NewImageProcessingError creates an AppContextError that wraps ErrImageProcessing
func NewImageProcessingError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeImageProcessing,
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrImageProcessing, cause),
		context,
	)
}

// NewStorageError creates an AppContextError that wraps ErrStorage
func NewStorageError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeStorage,
		message,
		layer,
		component,
		operation,
		wrapSentinel(ErrStorage, cause),
		context,
	)
}
