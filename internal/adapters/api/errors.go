package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/taskboard/internal/app"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *app.ValidationError
	var nerr *app.InvalidNeighborError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &nerr):
		return http.StatusConflict
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &herr):
		return herr.Code
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		msg = fmt.Sprint(herr.Message)
	}
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Path()).Error("request error")
		msg = http.StatusText(status)
	}
	return c.JSON(status, errorBody{Error: msg})
}
