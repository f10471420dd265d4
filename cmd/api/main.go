// @title           Paleteria Chuchin Admin API
// @version         1.0
// @description     Catalog and staff administration for Paleteria Chuchin.
// @description     Product and employee forms are submitted through a validate, upload, write flow.

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "github.com/Diego-SJ/PaleteriaChuchin/docs" // Swagger docs import

	"github.com/Diego-SJ/PaleteriaChuchin/internal/auth"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/config"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/database"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/job"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/metrics"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Paleteria admin API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("database_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(logger)

	// Document store
	var (
		db    *gorm.DB
		store docstore.Store
	)
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using the in-memory document store, data is lost on restart")
		store = docstore.NewMemoryStore()
	} else {
		db, err = database.Connect(ctx, database.Config{
			DSN:             cfg.Database.GetDSN(),
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, 10, 5*time.Second, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		database.RegisterMetricsCallbacks(db, m)
		statsStop := database.StartDBStatsCollector(db, m, 15*time.Second)
		defer close(statsStop)

		store = docstore.NewGormStore(db)
	}

	// Redis is optional; without it guards and caches stay in process
	rdb, err := database.NewRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without it", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Object storage
	var objects client.ObjectStore
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3Client, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Fatal("Failed to initialize S3 client", zap.Error(err))
		}
		objects = s3Client
		logger.Info("S3 client initialized",
			zap.String("bucket", cfg.S3.Bucket),
			zap.String("region", cfg.S3.Region),
		)
	} else {
		logger.Warn("S3 configuration incomplete, product images are kept in memory")
		objects = client.NewMockS3Client()
	}
	objects = client.NewInstrumentedStore(objects, m)

	// Auth
	var cache auth.PermissionCache
	if rdb != nil {
		cache = auth.NewRedisCache(rdb, cfg.Redis.TTL, logger)
	}
	authService := auth.NewService(store, cache, cfg.JWT, logger)
	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
			logger.Fatal("Failed to provision admin account", zap.Error(err))
		}
	}

	// Notifications
	hub := notify.NewHub(logger)
	go hub.Run(ctx)

	// Background work
	collector := metrics.NewBusinessMetricsCollector(store, m, time.Minute, logger)
	collector.Start()
	defer collector.Stop()

	scheduler := job.NewScheduler(logger)
	if db != nil {
		cleanup := job.NewCleanupJob(repository.NewOrphanAssetRepository(db), objects, logger)
		if err := scheduler.Add("orphan-cleanup", cfg.Jobs.CleanupSchedule, cleanup); err != nil {
			logger.Fatal("Invalid cleanup schedule", zap.String("schedule", cfg.Jobs.CleanupSchedule), zap.Error(err))
		}
	}
	scheduler.Start()

	r := router.Setup(router.Config{
		Store:          store,
		DB:             db,
		Redis:          rdb,
		Objects:        objects,
		Auth:           authService,
		Hub:            hub,
		Logger:         logger,
		Metrics:        m,
		BasePath:       cfg.Server.BasePath,
		MaxUploadSize:  cfg.Server.MaxUploadSize,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Paleteria admin API started",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("Cleanup job still running at shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
