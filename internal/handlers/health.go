package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterHealthRoutes registers the health check endpoint
func RegisterHealthRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
