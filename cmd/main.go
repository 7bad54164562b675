package main

import (
	"time"

	"iotadmin-service/internal/handler"
	"iotadmin-service/internal/middleware"
	"iotadmin-service/internal/model"
	"iotadmin-service/internal/store"
	"iotadmin-service/pkg/config"
	"iotadmin-service/pkg/database"
	"iotadmin-service/pkg/logger"
	"iotadmin-service/pkg/metrics"
	"iotadmin-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting iotadmin service...", zap.String("environment", cfg.Server.Env))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize HTTP metrics middleware
	httpMetrics := metrics.NewHTTPMetrics("iotadmin-service")

	// Connect to the database and run migrations
	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db, &model.Tenant{}, &model.Device{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.Database.Host),
		zap.String("db_name", cfg.Database.Name))

	// Build stores and handlers; the database handle is owned here and
	// injected downward
	tenantStore := store.NewTenantStore(db)
	deviceStore := store.NewDeviceStore(db)
	statsStore := store.NewStatsStore(db)

	tenantHandler := handler.NewTenantHandler(tenantStore, deviceStore)
	deviceHandler := handler.NewDeviceHandler(deviceStore)
	dashboardHandler := handler.NewDashboardHandler(statsStore)

	// Create Echo instance
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(httpMetrics.Middleware())

	// Request logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Process request
			err := next(c)

			// Log request details
			log := logger.FromContext(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Float64("duration_s", time.Since(start).Seconds()),
				zap.String("ip", c.RealIP()),
			)

			return err
		}
	})

	// Routes
	e.GET("/", handler.HealthCheck)
	e.GET("/health", handler.HealthCheck)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	api := e.Group("/api")

	// Tenant endpoints
	tenants := api.Group("/tenants")
	tenants.POST("", tenantHandler.CreateTenant)
	tenants.GET("", tenantHandler.ListTenants)
	tenants.GET("/:id", tenantHandler.GetTenant)
	tenants.PUT("/:id", tenantHandler.UpdateTenant)
	tenants.DELETE("/:id", tenantHandler.DeleteTenant)
	tenants.GET("/:id/devices", tenantHandler.ListTenantDevices)

	// Device endpoints
	devices := api.Group("/devices")
	devices.POST("", deviceHandler.CreateDevice)
	devices.GET("", deviceHandler.ListDevices)
	devices.GET("/:id", deviceHandler.GetDevice)
	devices.PUT("/:id", deviceHandler.UpdateDevice)
	devices.DELETE("/:id", deviceHandler.DeleteDevice)

	// Dashboard endpoint
	api.GET("/dashboard/stats", dashboardHandler.GetStats)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
