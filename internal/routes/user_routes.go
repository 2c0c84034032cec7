package routes

import (
	"aeroportal/internal/api/middleware"
	"aeroportal/internal/handlers"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupUserRoutes wires account management. The whole group sits behind the
// superadmin guard.
func SetupUserRoutes(api *echo.Group, db *gorm.DB, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handlers.NewUserHandler(db)

	users := api.Group("/users")
	users.Use(authMiddleware.Middleware())
	users.Use(middleware.RequireSuperAdmin())

	users.GET("", userHandler.Index)
	users.POST("", userHandler.Store)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Destroy)
}
