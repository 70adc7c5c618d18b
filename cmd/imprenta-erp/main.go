package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/imprentacapital/imprenta-erp/internal/config"
	"github.com/imprentacapital/imprenta-erp/internal/middleware"
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"github.com/imprentacapital/imprenta-erp/internal/shop/handler"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
	"github.com/imprentacapital/imprenta-erp/internal/shop/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting imprenta-erp service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate shop tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis, zapLogger)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, cfg.Shop, rdb)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "imprenta-erp"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "imprenta-erp"})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "imprenta-erp",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := router.Group("/api/v1/shop")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)
	{
		clients := v1.Group("/clients")
		{
			clients.GET("", handlers.Client.List)
			clients.POST("", handlers.Client.Create)
			clients.GET("/:id", handlers.Client.Get)
			clients.PUT("/:id", handlers.Client.Update)
			clients.DELETE("/:id", adminOnly, handlers.Client.Delete)
		}

		products := v1.Group("/products")
		{
			products.GET("", handlers.Product.List)
			products.POST("", handlers.Product.Create)
			products.GET("/:id", handlers.Product.Get)
			products.PUT("/:id", handlers.Product.Update)
			products.DELETE("/:id", adminOnly, handlers.Product.Delete)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", handlers.Supplier.List)
			suppliers.POST("", handlers.Supplier.Create)
			suppliers.GET("/:id", handlers.Supplier.Get)
			suppliers.PUT("/:id", handlers.Supplier.Update)
			suppliers.DELETE("/:id", adminOnly, handlers.Supplier.Delete)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", handlers.Inventory.ListMaterials)
			materials.POST("", handlers.Inventory.CreateMaterial)
			materials.GET("/alerts", handlers.Inventory.Alerts)
			materials.GET("/:id", handlers.Inventory.GetMaterial)
			materials.PUT("/:id", handlers.Inventory.UpdateMaterial)
			materials.DELETE("/:id", adminOnly, handlers.Inventory.DeleteMaterial)
			materials.GET("/:id/movements", handlers.Inventory.Movements)
		}

		movements := v1.Group("/movements")
		{
			movements.GET("", handlers.Inventory.Movements)
			movements.POST("", handlers.Inventory.ApplyMovement)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.GET("", handlers.Procurement.List)
			purchases.POST("", handlers.Procurement.Create)
			purchases.GET("/:id", handlers.Procurement.Get)
			purchases.PUT("/:id", handlers.Procurement.Update)
			purchases.POST("/:id/receive", handlers.Procurement.Receive)
			purchases.POST("/:id/cancel", handlers.Procurement.Cancel)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", handlers.Sales.ListOrders)
			orders.POST("", handlers.Sales.CreateOrder)
			orders.GET("/:id", handlers.Sales.GetOrder)
			orders.PUT("/:id", handlers.Sales.UpdateOrder)
			orders.PUT("/:id/status", handlers.Sales.UpdateOrderStatus)
			orders.DELETE("/:id", adminOnly, handlers.Sales.DeleteOrder)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.GET("", handlers.Sales.ListJobs)
			jobs.POST("", handlers.Sales.CreateJob)
			jobs.GET("/:id", handlers.Sales.GetJob)
			jobs.PUT("/:id", handlers.Sales.UpdateJob)
			jobs.PUT("/:id/status", handlers.Sales.UpdateJobStatus)
			jobs.DELETE("/:id", adminOnly, handlers.Sales.DeleteJob)
		}

		productions := v1.Group("/productions")
		{
			productions.GET("", handlers.Production.List)
			productions.GET("/:id", handlers.Production.Get)
			productions.PUT("/:id", handlers.Production.Update)
			productions.POST("/:id/start", handlers.Production.Start)
			productions.POST("/:id/pause", handlers.Production.Pause)
			productions.POST("/:id/finish", handlers.Production.Finish)
		}

		v1.GET("/dashboard", handlers.Dashboard.Stats)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// initRedis returns nil when redis is not configured; the dashboard cache is
// skipped in that case.
func initRedis(cfg config.RedisConfig, zapLogger *zap.Logger) *redis.Client {
	if cfg.Host == "" {
		zapLogger.Info("Redis not configured, dashboard cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis unreachable, dashboard cache disabled", zap.Error(err))
		return nil
	}
	return rdb
}
