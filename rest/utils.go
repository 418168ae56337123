package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "thumbcache/utils/errors"
	"thumbcache/utils/logger"
)

// handleError maps err onto the taxonomy status codes and writes the JSON
// error body. Unknown errors become 500 without leaking their text.
func handleError(c echo.Context, err error, operation string) error {
	var appErr *apperrors.AppContextError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewAppContextError(
			apperrors.CodeUnknown,
			"internal server error",
			"rest",
			"RESTHandler",
			operation,
			err,
			nil,
		)
	}

	status := appErr.HTTPStatusCode()
	attrs := []any{
		"error", appErr.Error(),
		"error_code", appErr.Code,
		"layer", appErr.Layer,
		"component", appErr.Component,
		"operation", operation,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"request_id", c.Response().Header().Get("X-Request-ID"),
	}
	if status >= http.StatusInternalServerError {
		logger.Logger.Error("REST handler error", attrs...)
	} else {
		logger.Logger.Warn("REST handler error", attrs...)
	}

	return c.JSON(status, appErr.ToHTTPResponse())
}

// handleValidationError rejects a malformed request before it reaches the usecase.
func handleValidationError(c echo.Context, message string, field string, value interface{}) error {
	validationErr := apperrors.NewInvalidOptionError(
		message,
		"rest",
		"RESTHandler",
		"validateInput",
		map[string]interface{}{
			"field": field,
			"value": value,
		},
	)

	logger.Logger.Warn("REST validation error",
		"error", validationErr.Error(),
		"field", field,
		"path", c.Request().URL.Path,
	)
	return c.JSON(validationErr.HTTPStatusCode(), validationErr.ToHTTPResponse())
}
