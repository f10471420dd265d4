package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/auth"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/database"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/handler"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/metrics"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/middleware"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/service"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/storage"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/workflow"
)

const defaultGuardTTL = 2 * time.Minute

// Config holds the dependencies for router setup
type Config struct {
	Store   docstore.Store
	DB      *gorm.DB // nil when running on the memory store
	Redis   *redis.Client
	Objects client.ObjectStore
	Auth    *auth.Service
	Hub     *notify.Hub
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Gatherer serves /metrics; the default registry when nil
	Gatherer       prometheus.Gatherer
	BasePath       string
	MaxUploadSize  int64
	AllowedOrigins string
	GuardTTL       time.Duration
}

// Setup sets up the router with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewWithRegistry(prometheus.NewRegistry(), logger)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Metrics(m))

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	} else {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	healthHandler := handler.NewHealthHandler(readinessChecks(cfg), logger)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Repositories
	writer := repository.NewRecordWriter(cfg.Store, logger)
	var orphanRepo repository.OrphanAssetRepository
	if cfg.DB != nil {
		orphanRepo = repository.NewOrphanAssetRepository(cfg.DB)
	}

	// Submission plumbing
	var guard service.InFlightGuard = service.NewMemoryGuard()
	if cfg.Redis != nil {
		ttl := cfg.GuardTTL
		if ttl <= 0 {
			ttl = defaultGuardTTL
		}
		guard = service.NewRedisGuard(cfg.Redis, ttl, logger)
	}

	var sinks service.SinkFactory
	if cfg.Hub != nil {
		sinks = func(userID string) notify.Sink { return cfg.Hub.ForUser(userID) }
	}

	listeners := []service.ChangeListener{
		func(ctx context.Context, collection, key string) {
			if collection == domain.CollectionEmployees {
				cfg.Auth.InvalidatePermissions(ctx, key)
			}
		},
	}

	// Services
	productService := service.NewProductService(service.ProductServiceDeps{
		Store:        cfg.Store,
		Writer:       writer,
		Uploader:     storage.NewAssetUploader(cfg.Objects, "products", m, logger),
		Objects:      cfg.Objects,
		Orchestrator: workflow.New(service.NewOrphanLedger(orphanRepo, "products", m, logger), m, logger),
		Guard:        guard,
		Sinks:        sinks,
		Listeners:    listeners,
		Logger:       logger,
	})
	employeeService := service.NewEmployeeService(service.EmployeeServiceDeps{
		Store:        cfg.Store,
		Writer:       writer,
		Orchestrator: workflow.New(nil, m, logger),
		Guard:        guard,
		Sinks:        sinks,
		Listeners:    listeners,
		Logger:       logger,
	})

	// Handlers
	authHandler := handler.NewAuthHandler(cfg.Auth, logger)
	productHandler := handler.NewProductHandler(productService, cfg.MaxUploadSize, logger)
	employeeHandler := handler.NewEmployeeHandler(employeeService, logger)

	api := router.Group(cfg.BasePath)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.Auth))
	{
		protected.POST("/auth/reauthenticate", authHandler.Reauthenticate)
		protected.GET("/me/permissions", authHandler.GetPermissions)
		protected.GET("/options", handler.GetOptions)

		products := protected.Group("/products")
		products.Use(middleware.RequirePermission(cfg.Auth, domain.PermissionProducts))
		{
			products.GET("", productHandler.ListProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.GET("/:id/image", productHandler.GetProductImage)
		}

		employees := protected.Group("/employees")
		employees.Use(middleware.RequireAdmin(cfg.Auth))
		{
			employees.GET("", employeeHandler.ListEmployees)
			employees.POST("", employeeHandler.CreateEmployee)
			employees.GET("/:id", employeeHandler.GetEmployee)
			employees.PUT("/:id", employeeHandler.UpdateEmployee)
		}

		if cfg.Hub != nil {
			notificationHandler := handler.NewNotificationHandler(cfg.Hub, middleware.ParseOrigins(cfg.AllowedOrigins), logger)
			protected.GET("/ws/notifications", notificationHandler.HandleWebSocket)
		}
	}

	return router
}

func readinessChecks(cfg Config) map[string]handler.Checker {
	checks := map[string]handler.Checker{}
	if cfg.DB != nil {
		checks["database"] = func(ctx context.Context) error { return database.Ping(ctx, cfg.DB) }
	}
	if cfg.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return cfg.Redis.Ping(ctx).Err() }
	}
	return checks
}
