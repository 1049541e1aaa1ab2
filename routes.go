package main

import (
	"log/slog"
	"net/http"

	"rentals-api/config"
	"rentals-api/domain"
	"rentals-api/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// setupRouter configures the middleware chain and every route.
func setupRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB) *gin.Engine {
	authCtrl, propertyCtrl, authService := buildControllers(cfg, logger, db)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(corsMiddleware())
	router.Use(middleware.ErrorHandler(cfg, logger))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Uploaded media is served statically.
	router.Static("/uploads", cfg.UploadDir)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/register-admin", authCtrl.RegisterAdmin)
		auth.POST("/login", authCtrl.Login)

		authed := auth.Group("", middleware.Authenticate(authService))
		{
			authed.GET("/logout", authCtrl.Logout)
			authed.GET("/me", authCtrl.Me)
			authed.PATCH("/update-profile", authCtrl.UpdateProfile)

			admin := authed.Group("", middleware.RequireRole(domain.RoleAdmin))
			{
				admin.GET("/users", authCtrl.GetAllUsers)
				admin.GET("/users/:id", authCtrl.GetUser)
				admin.DELETE("/users/:id", authCtrl.DeleteUser)
			}
		}
	}

	properties := router.Group("/api/properties")
	{
		properties.GET("", propertyCtrl.GetAll)
		properties.GET("/:id", propertyCtrl.Get)

		authed := properties.Group("", middleware.Authenticate(authService))
		{
			authed.GET("/likedProperties", propertyCtrl.GetLiked)
			authed.POST("", middleware.UploadPropertyMedia(cfg.UploadDir), propertyCtrl.Create)
			authed.PATCH("/:id", middleware.UploadPropertyMedia(cfg.UploadDir), propertyCtrl.Update)
			authed.DELETE("/:id", propertyCtrl.Delete)
			authed.POST("/:id/like", propertyCtrl.Like)
			authed.DELETE("/:id/unlike", propertyCtrl.Unlike)
		}
	}

	return router
}

// corsMiddleware allows browser clients from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
