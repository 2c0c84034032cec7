package routes

import (
	"aeroportal/internal/api/middleware"
	"aeroportal/internal/handlers"
	"aeroportal/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupReportRoutes(
	api *echo.Group,
	db *gorm.DB,
	reports *services.ReportService,
	authMiddleware *middleware.AuthMiddleware,
) {
	reportHandler := handlers.NewReportHandler(db, reports)

	group := api.Group("/supervision-reports")
	group.Use(authMiddleware.Middleware())

	group.GET("", reportHandler.Index)
	group.POST("", reportHandler.Store)
	group.POST("/:id/download", reportHandler.Download)
	group.POST("/:id/verify-password", reportHandler.VerifyPassword)
	group.DELETE("/:id", reportHandler.Destroy)
}
