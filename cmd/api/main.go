package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/attendease/attendease-api/api/swagger"
	"github.com/attendease/attendease-api/internal/handler"
	"github.com/attendease/attendease-api/internal/middleware"
	"github.com/attendease/attendease-api/internal/repository"
	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/pkg/cache"
	"github.com/attendease/attendease-api/pkg/config"
	"github.com/attendease/attendease-api/pkg/database"
	"github.com/attendease/attendease-api/pkg/logger"
	corsmiddleware "github.com/attendease/attendease-api/pkg/middleware/cors"
	reqidmiddleware "github.com/attendease/attendease-api/pkg/middleware/requestid"
)

// @title AttendEase API
// @version 1.0.0
// @description Role-based school attendance tracking
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching and token revocation disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	tokenRepo := repository.NewTokenDenylist(redisClient)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.SummaryCacheTTL, logr, cfg.Reports.CacheEnabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, tokenRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	attendanceSvc := service.NewAttendanceService(classRepo, enrollmentRepo, attendanceRepo, cacheSvc, validate, logr)
	reportSvc := service.NewReportService(summaryRepo, cacheSvc, logr)
	accountSvc := service.NewAccountService(userRepo, classRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(classRepo, attendanceRepo, enrollmentRepo, userRepo, logr)
	classSvc := service.NewClassService(classRepo, enrollmentRepo)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Services{
		Auth:       authSvc,
		Attendance: attendanceSvc,
		Reports:    reportSvc,
		Accounts:   accountSvc,
		Dashboard:  dashboardSvc,
		Classes:    classSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
