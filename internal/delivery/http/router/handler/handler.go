// Package handler exposes the entity stores and the session gate to the view layer.
package handler

import (
	"net/http"
	"strconv"

	"hub/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the bridge is serving.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

func noSession(c echo.Context) error {
	return response.Unauthorized(c, "NO_SESSION", "No active session")
}

// refreshRequested reports whether ?refresh=true asks for a remote read
// before answering from the local collection.
func refreshRequested(c echo.Context) bool {
	refresh, err := strconv.ParseBool(c.QueryParam("refresh"))

	return err == nil && refresh
}

// bindAndValidate decodes the body into req and checks its validate tags.
// On failure the 400 response has already been written and handled is true.
func bindAndValidate(c echo.Context, req any) (handled bool, err error) {
	if err := c.Bind(req); err != nil {
		return true, response.BadRequest(c, "INVALID_INPUT", "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return true, response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", "Input validation failed", err.Error())
	}

	return false, nil
}

type likeResult struct {
	Liked bool `json:"liked"`
}
