package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "select-studio/pkg/errors"

	"github.com/labstack/echo/v4"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to appropriate HTTP status codes, sanitizes internal errors,
// and logs errors with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	// Check for Echo HTTP errors first
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		// Map sentinel errors to HTTP status codes
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, apperrors.ErrUnauthorized):
			code = http.StatusUnauthorized
			message = "Unauthorized"
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			message = "Invalid credentials"
		case errors.Is(err, apperrors.ErrForbidden):
			code = http.StatusForbidden
			message = "Forbidden"
		case errors.Is(err, apperrors.ErrBadRequest):
			code = http.StatusBadRequest
			message = "Bad request"
		case errors.Is(err, apperrors.ErrValidation):
			code = http.StatusBadRequest
			message = "Validation error"
		case errors.Is(err, apperrors.ErrQuotaExceeded):
			code = http.StatusUnprocessableEntity
			message = "Quota exceeded"
		case errors.Is(err, apperrors.ErrEmptyOptions):
			code = http.StatusUnprocessableEntity
			message = "Selection requires at least one retouch option"
		case errors.Is(err, apperrors.ErrQuotaInUse):
			code = http.StatusConflict
			message = "Quota in use"
		case errors.Is(err, apperrors.ErrLocked):
			code = http.StatusConflict
			message = "Selection is locked"
		case errors.Is(err, apperrors.ErrConflict):
			code = http.StatusConflict
			message = "Conflicting operation in progress"
		case errors.Is(err, apperrors.ErrRemoteFailure):
			code = http.StatusBadGateway
			message = "Upstream service failure"
		}

		// Check for custom AppError type
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			// Use the message from AppError if it's a client error
			if code < 500 {
				message = appErr.Message
			}
		}
	}

	// Log error with request context
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}

	// Log with appropriate level
	if code >= 500 {
		c.Logger().Error("internal_server_error",
			"request_id", requestID,
			"status", code,
			"error", err.Error())
		// Don't expose internal errors to clients
		message = "Internal server error"
	} else {
		c.Logger().Warn("client_error",
			"request_id", requestID,
			"status", code,
			"error", err.Error())
	}

	// Send JSON error response
	if err := c.JSON(code, map[string]interface{}{
		"error":      message,
		"request_id": requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}
