package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sekolahku/rekod-api/api/swagger"
	"github.com/sekolahku/rekod-api/internal/handler"
	"github.com/sekolahku/rekod-api/internal/middleware"
	"github.com/sekolahku/rekod-api/internal/models"
	"github.com/sekolahku/rekod-api/internal/repository"
	"github.com/sekolahku/rekod-api/internal/service"
	"github.com/sekolahku/rekod-api/pkg/cache"
	"github.com/sekolahku/rekod-api/pkg/config"
	"github.com/sekolahku/rekod-api/pkg/database"
	"github.com/sekolahku/rekod-api/pkg/logger"
	corsmiddleware "github.com/sekolahku/rekod-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sekolahku/rekod-api/pkg/middleware/requestid"
	"github.com/sekolahku/rekod-api/pkg/sheets"
	"github.com/sekolahku/rekod-api/pkg/storage"
)

// @title Sekolah Rekod API
// @version 1.0.0
// @description Administrative records service backed by a hosted spreadsheet
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()

	grid, err := sheets.NewClient(cfg.Sheets, sheets.WithObserver(metrics.ObserveSheetCall))
	if err != nil {
		logr.Sugar().Fatalw("sheets client init failed", "error", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Sheets.Timeout)
	if err := grid.Ping(pingCtx); err != nil {
		cancel()
		logr.Sugar().Fatalw("spreadsheet unreachable", "error", err)
	}
	cancel()

	var listCache *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("redis init failed", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		listCache = repository.NewCacheRepository(redisClient, logr)
		listCache.SetObserver(metrics.RecordCacheOperation)
	}

	var auditRepo *repository.AuditRepository
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Audit)
		if err != nil {
			logr.Sugar().Fatalw("audit database init failed", "error", err)
		}
		defer db.Close() //nolint:errcheck
		auditRepo = repository.NewAuditRepository(db)
	}

	studentRepo := repository.NewStudentRepository(grid, cfg.Sheets.StudentSheet)
	incomeRepo := repository.NewIncomeRepository(grid, cfg.Sheets.IncomeSheet)
	attendanceRepo := repository.NewAttendanceRepository(grid, cfg.Sheets.AttendanceSheet)

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("exports storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	authSvc := service.NewAuthService(service.AuthConfig{
		OperatorEmail:        cfg.Auth.OperatorEmail,
		OperatorPasswordHash: cfg.Auth.OperatorPasswordHash,
		OperatorRole:         cfg.Auth.OperatorRole,
		TokenSecret:          cfg.JWT.Secret,
		TokenExpiry:          cfg.JWT.Expiration,
		Issuer:               cfg.JWT.Issuer,
	}, nil, logr)

	var studentSvc *service.StudentService
	var incomeSvc *service.IncomeService
	if listCache != nil {
		studentSvc = service.NewStudentService(studentRepo, listCache, cfg.Cache.TTL, nil, logr)
		incomeSvc = service.NewIncomeService(incomeRepo, listCache, cfg.Cache.TTL, nil, logr)
	} else {
		studentSvc = service.NewStudentService(studentRepo, nil, 0, nil, logr)
		incomeSvc = service.NewIncomeService(incomeRepo, nil, 0, nil, logr)
	}
	attendanceSvc := service.NewAttendanceService(attendanceRepo, nil, logr)
	exportSvc := service.NewExportService(studentRepo, incomeRepo, attendanceRepo, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)

	reportSvc := service.NewReportService(exportSvc, store, signer, service.ReportQueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
	}, logr)
	rootCtx, stopReports := context.WithCancel(context.Background())
	reportSvc.Start(rootCtx)
	defer func() {
		stopReports()
		reportSvc.Stop()
	}()

	go func() {
		ticker := time.NewTicker(cfg.Exports.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				reportSvc.Cleanup(cfg.Exports.SignedURLTTL)
			}
		}
	}()

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, exportSvc)
	incomeHandler := handler.NewIncomeHandler(incomeSvc, exportSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, exportSvc)
	reportHandler := handler.NewReportHandler(reportSvc, auditSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Sheets.Timeout)
		defer cancel()
		if err := grid.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "spreadsheet unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/students", studentHandler.List)
		protected.GET("/students/export", studentHandler.Export)
		protected.GET("/students/:mykid", studentHandler.Get)
		protected.GET("/students/:mykid/profile.pdf", studentHandler.Profile)
		protected.PUT("/students",
			middleware.Audit(auditSvc, models.AuditActionUpsertStudent, "students"),
			studentHandler.Upsert)

		protected.GET("/income", incomeHandler.List)
		protected.GET("/income/export", incomeHandler.Export)
		protected.GET("/income/:mykid", incomeHandler.Get)
		protected.PUT("/income",
			middleware.Audit(auditSvc, models.AuditActionUpsertIncome, "income"),
			incomeHandler.Upsert)

		protected.GET("/attendance", attendanceHandler.List)
		protected.GET("/attendance/summary", attendanceHandler.Summary)
		protected.GET("/attendance/export", attendanceHandler.Export)
		protected.POST("/attendance/rollcall",
			middleware.Audit(auditSvc, models.AuditActionRollCall, "attendance"),
			attendanceHandler.RollCall)

		protected.POST("/reports/profiles", reportHandler.EnqueueProfiles)
		protected.GET("/reports/profiles/:id", reportHandler.JobStatus)
		protected.GET("/audit", reportHandler.AuditTrail)
	}

	// Download tokens carry their own HMAC auth.
	api.GET("/export/:token", reportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
