package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/api/swagger"
	"github.com/noah-isme/campus-events-api/internal/handler"
	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/cache"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/database"
	"github.com/noah-isme/campus-events-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-events-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-events-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-events-api/pkg/storage"
)

// @title Campus Events API
// @version 1.0.0
// @description Colleges, students, events, registrations, check-ins, feedback and reports.
// @BasePath /api/v1
// @schemes http https
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient redis.UniversalClient
	if client, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logr.Warn("redis unavailable, qr cache disabled", zap.Error(err))
	} else {
		redisClient = client
		defer client.Close() //nolint:errcheck
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	router, exports, err := buildRouter(cfg, logr, db, redisClient, metrics)
	if err != nil {
		return err
	}
	exports.StartCleanup(ctx, cfg.Exports.CleanupInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logr.Info("server exited")
	return nil
}

func buildRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient redis.UniversalClient, metrics *service.MetricsService) (*gin.Engine, *service.ExportService, error) {
	validate := validator.New()

	colleges := repository.NewCollegeRepository(db)
	students := repository.NewStudentRepository(db)
	managers := repository.NewEventManagerRepository(db)
	events := repository.NewEventRepository(db)
	registrations := repository.NewRegistrationRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	feedback := repository.NewFeedbackRepository(db)
	reports := repository.NewReportRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.QR.CacheTTL, logr)

	catalogSvc := service.NewCatalogService(colleges, students, students, managers, validate, logr)
	eventSvc := service.NewEventService(events, colleges, managers, registrations, db, validate, logr)
	lifecycleSvc := service.NewLifecycleService(events, students, registrations, attendance, feedback, db, metrics, cfg.Lifecycle.CheckinGracePeriod, validate, logr)
	reportSvc := service.NewReportService(reports, logr)
	qrSvc := service.NewQRService(registrations, cacheSvc, cfg.QR.Size, cfg.QR.CacheTTL, logr)

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(reportSvc, fileStore, signer, metrics, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		Retention: cfg.Exports.Retention,
	}, validate, logr)

	var tokens middleware.TokenValidator
	if cfg.JWT.Enabled {
		tokens = service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	} else {
		logr.Warn("authentication disabled, write routes are open")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.ResponseMeta())

	health := handler.NewMetricsHandler(metrics,
		map[string]handler.Pinger{"postgres": db.PingContext},
		map[string]handler.Pinger{"redis": func(ctx context.Context) error { return cache.Ping(ctx, redisClient) }},
	)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	if metrics != nil {
		r.GET("/metrics", health.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		swagger.SwaggerInfo.BasePath = cfg.APIPrefix
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	guard := func(h gin.HandlerFunc, roles ...models.UserRole) []gin.HandlerFunc {
		return append(middleware.Guard(tokens, roles...), h)
	}
	staff := []models.UserRole{models.RoleAdmin, models.RoleManager}
	everyone := []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleStudent}

	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	lifecycleHandler := handler.NewLifecycleHandler(lifecycleSvc, qrSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)

	api := r.Group(cfg.APIPrefix)

	api.GET("/colleges", catalogHandler.ListColleges)
	api.GET("/colleges/:id", catalogHandler.GetCollege)
	api.POST("/colleges", guard(catalogHandler.CreateCollege, staff...)...)

	api.GET("/students", catalogHandler.ListStudents)
	api.GET("/students/:id", catalogHandler.GetStudent)
	api.POST("/students", guard(catalogHandler.CreateStudent, staff...)...)
	api.POST("/students/register", guard(lifecycleHandler.Register, everyone...)...)

	api.GET("/event-managers", catalogHandler.ListManagers)
	api.GET("/event-managers/:id", catalogHandler.GetManager)
	api.POST("/event-managers", guard(catalogHandler.CreateManager, staff...)...)

	api.GET("/events", eventHandler.List)
	api.GET("/events/:id", eventHandler.Get)
	api.GET("/events/:id/registrations", eventHandler.Registrations)
	api.POST("/events", guard(eventHandler.Create, staff...)...)
	api.PATCH("/events/:id/status", guard(eventHandler.UpdateStatus, staff...)...)

	api.POST("/registrations", guard(lifecycleHandler.Register, everyone...)...)
	api.GET("/registrations/:id/qr", lifecycleHandler.QRCode)
	api.GET("/registrations/qr/:id", lifecycleHandler.QRCode)
	api.POST("/attendance/checkin", guard(lifecycleHandler.Checkin, staff...)...)
	api.POST("/feedback", guard(lifecycleHandler.Feedback, everyone...)...)

	reportsGroup := api.Group("/reports", middleware.Guard(tokens, staff...)...)
	reportsGroup.GET("/event-popularity", reportHandler.EventPopularity)
	reportsGroup.GET("/attendance", reportHandler.Attendance)
	reportsGroup.GET("/feedback", reportHandler.Feedback)
	reportsGroup.GET("/student-participation", reportHandler.StudentParticipation)
	reportsGroup.GET("/top-students", reportHandler.TopStudents)
	reportsGroup.GET("/upcoming-events", reportHandler.UpcomingEvents)
	reportsGroup.POST("/export", reportHandler.Export)
	api.GET("/exports/:token", reportHandler.Download)

	return r, exportSvc, nil
}
