package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/morikuni/failure/v2"
	"github.com/takatori/threadsearch/internal/errors"
)

// errorResponse writes err as {"error": ...} with a status derived from its
// error code.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case failure.Is(err, errors.ErrInvalidArgument):
		status = http.StatusBadRequest
	case failure.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case failure.Is(err, errors.ErrUnavailable):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "err", err)
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
