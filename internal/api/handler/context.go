package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medifirst/medifirst-api/internal/api/middleware"
)

// currentUserID extracts the id injected by middleware.Auth. A missing id
// means the route was mounted without Auth; reject rather than guess.
func currentUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.KeyUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
