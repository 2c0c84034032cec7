package routes

import (
	"aeroportal/internal/api/middleware"
	"aeroportal/internal/handlers"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupAuthRoutes(api *echo.Group, db *gorm.DB, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handlers.NewAuthHandler(db)

	auth := api.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected auth routes
	protected := auth.Group("")
	protected.Use(authMiddleware.Middleware())
	protected.GET("/me", authHandler.Me)
	protected.POST("/logout", authHandler.Logout)
}
