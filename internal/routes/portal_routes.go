package routes

import (
	"aeroportal/internal/api/middleware"
	"aeroportal/internal/handlers"
	"aeroportal/internal/services"
	"aeroportal/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupPortalRoutes wires the dashboard, contact directory and file
// repository. Listings are readable anonymously; everything else requires a
// session.
func SetupPortalRoutes(
	api *echo.Group,
	db *gorm.DB,
	storage services.Storage,
	files *services.FileService,
	reports *services.ReportService,
	authMiddleware *middleware.AuthMiddleware,
) {
	log := logger.New("portal_routes")

	dashboardHandler := handlers.NewDashboardHandler(db, storage, files)
	contactHandler := handlers.NewContactHandler(db, storage)
	fileHandler := handlers.NewFileHandler(files, reports)

	// The two listings resolve identity when a token is present but stay
	// reachable without one.
	api.GET("/contacts", contactHandler.Index, authMiddleware.OptionalMiddleware())
	api.GET("/files", fileHandler.Index, authMiddleware.OptionalMiddleware())

	protected := api.Group("")
	protected.Use(authMiddleware.Middleware())

	protected.GET("/dashboard", dashboardHandler.Index)

	protected.POST("/links", dashboardHandler.StoreLink)
	protected.PUT("/links/:id", dashboardHandler.UpdateLink)
	protected.DELETE("/links/:id", dashboardHandler.DestroyLink)

	protected.POST("/announcements", dashboardHandler.StoreAnnouncement)
	protected.DELETE("/announcements/:id", dashboardHandler.DestroyAnnouncement)

	protected.POST("/contacts", contactHandler.Store)
	protected.PUT("/contacts/:id", contactHandler.Update)
	protected.DELETE("/contacts/:id", contactHandler.Destroy)

	protected.POST("/files", fileHandler.Store)
	protected.POST("/files/:id/download", fileHandler.Download)
	protected.POST("/files/:id/verify-password", fileHandler.VerifyPassword)
	protected.DELETE("/files/:id", fileHandler.Destroy)

	log.Success("Portal routes initialized successfully")
}
