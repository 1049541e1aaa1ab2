package main

import (
	"log/slog"
	"os"

	"rentals-api/config"
	"rentals-api/controllers"
	"rentals-api/domain"
	"rentals-api/repositories"
	"rentals-api/services"
	"rentals-api/utils"

	"github.com/spf13/cobra"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rentals-api",
		Short: "REST backend for the property-rental listing platform",
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := setupLogger(cfg.Env)

			db, err := openDatabase(cfg)
			if err != nil {
				logger.Error("failed to connect to database", "error", err)
				return err
			}

			if err := migrateSchema(db); err != nil {
				logger.Error("failed to migrate database", "error", err)
				return err
			}

			router := setupRouter(cfg, logger, db)

			logger.Info("starting rentals-api", "port", cfg.Port, "env", cfg.Env)
			return router.Run(":" + cfg.Port)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := setupLogger(cfg.Env)

			db, err := openDatabase(cfg)
			if err != nil {
				logger.Error("failed to connect to database", "error", err)
				return err
			}

			if err := migrateSchema(db); err != nil {
				logger.Error("failed to migrate database", "error", err)
				return err
			}

			logger.Info("schema up to date")
			return nil
		},
	}
}

// openDatabase connects to MySQL. TranslateError makes unique-constraint
// violations surface as gorm.ErrDuplicatedKey.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
}

// migrateSchema declares the like relation's join table and creates or
// updates all tables. The relationships are resolved once, here.
func migrateSchema(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.User{}, "LikedProperties", &domain.PropertyUser{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&domain.Property{}, "LikedByUsers", &domain.PropertyUser{}); err != nil {
		return err
	}
	return db.AutoMigrate(&domain.User{}, &domain.Property{}, &domain.PropertyUser{})
}

// setupLogger builds the application logger: readable text output in
// development, JSON in production.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "development":
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
}

// buildControllers wires repositories, services and controllers.
func buildControllers(cfg *config.Config, logger *slog.Logger, db *gorm.DB) (*controllers.AuthController, *controllers.PropertyController, services.AuthService) {
	userRepo := repositories.NewUserRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)
	listingCache := repositories.NewListingCache(cfg.MemcachedHost, cfg.CacheTTL, logger)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	authService := services.NewAuthService(userRepo, tokens, listingCache)
	propertyService := services.NewPropertyService(propertyRepo, listingCache, cfg.UploadDir, logger)

	return controllers.NewAuthController(authService),
		controllers.NewPropertyController(propertyService),
		authService
}
