package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/storeops/opsdash-api/api/swagger"
	"github.com/storeops/opsdash-api/internal/handler"
	internalmiddleware "github.com/storeops/opsdash-api/internal/middleware"
	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/repository"
	"github.com/storeops/opsdash-api/internal/service"
	"github.com/storeops/opsdash-api/pkg/cache"
	"github.com/storeops/opsdash-api/pkg/config"
	"github.com/storeops/opsdash-api/pkg/database"
	"github.com/storeops/opsdash-api/pkg/logger"
	corsmiddleware "github.com/storeops/opsdash-api/pkg/middleware/cors"
	reqidmiddleware "github.com/storeops/opsdash-api/pkg/middleware/requestid"
	"github.com/storeops/opsdash-api/pkg/storage"
)

// @title Store Ops Dashboard API
// @version 1.0.0
// @description Filtered attendance, approval, schedule and feedback dashboards for retail operations
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable; dashboard cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, "opsdash", logr),
		metricsSvc,
		cfg.Dashboard.CacheTTL,
		logr,
		redisClient != nil,
	)
	dashboardCfg := service.DashboardConfig{
		CacheTTL:    cfg.Dashboard.CacheTTL,
		WeekStart:   cfg.Dashboard.WeekStart,
		Location:    cfg.Dashboard.Location(),
		RawRowLimit: cfg.Dashboard.RawRowLimit,
	}

	attendanceSvc := service.NewAttendanceService(service.AttendanceServiceParams{
		Repo:    repository.NewAttendanceRepository(db),
		Cache:   cacheSvc,
		Metrics: metricsSvc,
		Logger:  logr,
		Config:  dashboardCfg,
	})
	approvalSvc := service.NewApprovalService(service.ApprovalServiceParams{
		Repo:    repository.NewApprovalRepository(db),
		Gate:    service.NewStatusGate(),
		Cache:   cacheSvc,
		Metrics: metricsSvc,
		Logger:  logr,
		Config:  dashboardCfg,
	})
	scheduleSvc := service.NewScheduleService(repository.NewScheduleRepository(db), cacheSvc, metricsSvc, logr, dashboardCfg)
	feedbackSvc := service.NewFeedbackService(repository.NewFeedbackRepository(db), cacheSvc, logr, dashboardCfg)
	authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Source:  attendanceSvc,
		Storage: exportStore,
		Signer:  storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		Metrics: metricsSvc,
		Logger:  logr,
		Config: service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
			Location:  dashboardCfg.Location,
		},
	})
	go exportSvc.RunCleanup(ctx, cfg.Exports.CleanupInterval)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Attendance:          handler.NewAttendanceHandler(attendanceSvc, exportSvc),
		Cleaning:            handler.NewApprovalHandler(models.ApprovalKindCleaning, approvalSvc),
		Production:          handler.NewApprovalHandler(models.ApprovalKindProduction, approvalSvc),
		Theft:               handler.NewApprovalHandler(models.ApprovalKindTheft, approvalSvc),
		Feedback:            handler.NewFeedbackHandler(feedbackSvc),
		SecuritySchedules:   handler.NewScheduleHandler(models.ScheduleKindSecurity, scheduleSvc),
		ThirdpartySchedules: handler.NewScheduleHandler(models.ScheduleKindThirdparty, scheduleSvc),
		Metrics:             metricsHandler,
		Audit:               internalmiddleware.NewLogAuditSink(logr),
	}, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "db_driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
