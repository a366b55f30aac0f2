package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/pkg/errs"
)

// Error is the body of every failed response.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

// StatusOf maps a domain error to its HTTP status.
func StatusOf(err error) int {
	var validation validator.ValidationErrors
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrOwnershipMismatch):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrComplianceRejected):
		return http.StatusPreconditionFailed
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrCompanyIsRequired),
		errors.Is(err, commands.ErrTargetDriverIsRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders domain errors and echo errors as Error bodies. Server
// errors are logged and their message is not exposed.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var body Error
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			body.Code = echoErr.Code
			body.Message = http.StatusText(echoErr.Code)
			if msg, ok := echoErr.Message.(string); ok {
				body.Message = msg
			}
		} else {
			body.Code = StatusOf(err)
			body.Message = err.Error()
			var compliance *errs.ComplianceRejectedError
			if errors.As(err, &compliance) {
				body.Missing = compliance.Missing
			}
		}

		if body.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
			if body.Code == http.StatusInternalServerError {
				body.Message = http.StatusText(http.StatusInternalServerError)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(body.Code)
		} else {
			err = c.JSON(body.Code, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
