package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/orderdesk/internal/api/middleware"
)

// sessionIdentity reads the identity injected by middleware.RequireSession and
// fails fast when the middleware did not run.
func sessionIdentity(c echo.Context) (userID int64, username string, err error) {
	username, _ = c.Get(middleware.KeyUsername).(string)
	userID, _ = c.Get(middleware.KeyUserID).(int64)
	if username == "" || userID == 0 {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return userID, username, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// bindAndValidate binds the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
