package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-sync/core/config"
	"patient-sync/core/database"
	"patient-sync/core/loader"
	"patient-sync/core/logger"
	"patient-sync/core/middleware/auth"
	"patient-sync/core/middleware/rayid"
	"patient-sync/core/storage"
	"patient-sync/feature/billing"
	"patient-sync/feature/billing/models"
	"patient-sync/feature/health"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the patient sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database and migrate
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Database connection failed, sync endpoints disabled", zap.Error(err))
		} else {
			db = conn
			if err := models.Migrate(db); err != nil {
				logg.Fatal("Failed to migrate database", zap.Error(err))
			}
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage (optional; archival only)
		var store storage.Client
		if cfg.Storage.Enabled() {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			store = client
			ensureBucket(store, cfg.Storage.Bucket, logg)
		} else {
			logg.Info("Object storage not configured, batch archival disabled")
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// RayID must be first so every log line carries the trace id.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		mgr := loader.NewManager(logg)
		mgr.Register(billing.NewFeature(db, logg, store, cfg.Storage.Bucket))
		mgr.Register(health.NewFeature(db, store, cfg.Storage.Bucket))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// ensureBucket creates the archive bucket if it does not exist yet. Failure
// is non-fatal; archival degrades to a per-batch warning.
func ensureBucket(store storage.Client, bucket string, logg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		logg.Warn("Failed to check archive bucket", zap.String("bucket", bucket), zap.Error(err))
		return
	}
	if exists {
		return
	}
	if err := store.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logg.Warn("Failed to create archive bucket", zap.String("bucket", bucket), zap.Error(err))
		return
	}
	logg.Info("Created archive bucket", zap.String("bucket", bucket))
}

func init() {
	RootCmd.AddCommand(startCmd)
}
