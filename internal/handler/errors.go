package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/auth"
)

// errorMessages are the client-facing texts of the error envelope.
var errorMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusNotFound:            "Resource Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusInternalServerError: "Internal Server Error",
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// HTTPErrorHandler renders every error returned by handlers or middleware as
// an ErrorResponse. Auth failures carry their description; echo errors map
// to the standard messages; anything else is logged and reported as 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := ""

	var ae *auth.Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ae):
		status, message = ae.Status, ae.Description
		slog.Debug("request rejected", "code", ae.Code, "status", ae.Status, "path", c.Path(), "error", err)
	case errors.As(err, &he):
		status = he.Code
		if he.Internal != nil {
			slog.Debug("http error", "status", status, "path", c.Path(), "error", he.Internal)
		}
	default:
		slog.Error("unhandled error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if message == "" {
		message = errorMessages[status]
	}
	if message == "" {
		message = http.StatusText(status)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Success: false, Error: status, Message: message})
	}
	if err != nil {
		slog.Error("write error response", "error", err)
	}
}
