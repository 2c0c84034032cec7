package api

import (
	"net/http"

	apimiddleware "aeroportal/internal/api/middleware"
	"aeroportal/internal/routes"

	_ "aeroportal/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes(authMiddleware *apimiddleware.AuthMiddleware) {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Aeroportal API")
	})
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := s.echo.Group("/api/v1")

	routes.SetupAuthRoutes(api, s.db, authMiddleware)
	routes.SetupPortalRoutes(api, s.db, s.storage, s.files, s.reports, authMiddleware)
	routes.SetupReportRoutes(api, s.db, s.reports, authMiddleware)
	routes.SetupUserRoutes(api, s.db, authMiddleware)
}
