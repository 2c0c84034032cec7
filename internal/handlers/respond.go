package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Portal mutation outcomes use a status discriminator the client surfaces as
// a flash message. Restriction is deliberately a 200: the request was
// understood and the session stays valid, the action just isn't available.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusRestriction = "restriction"
)

func respondSuccess(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, map[string]string{"status": StatusSuccess, "message": message})
}

func respondCreated(c echo.Context, message string) error {
	return c.JSON(http.StatusCreated, map[string]string{"status": StatusSuccess, "message": message})
}

func respondRestriction(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, map[string]string{"status": StatusRestriction, "message": message})
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"status": StatusError, "message": message})
}
