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

	_ "github.com/noah-isme/aie-portal-api/api/swagger"
	"github.com/noah-isme/aie-portal-api/internal/handler"
	"github.com/noah-isme/aie-portal-api/internal/middleware"
	"github.com/noah-isme/aie-portal-api/internal/repository"
	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/broker"
	"github.com/noah-isme/aie-portal-api/pkg/config"
	"github.com/noah-isme/aie-portal-api/pkg/database"
	"github.com/noah-isme/aie-portal-api/pkg/jobs"
	"github.com/noah-isme/aie-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/aie-portal-api/pkg/middleware/cors"
	"github.com/noah-isme/aie-portal-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/aie-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/aie-portal-api/pkg/realtime"
	"github.com/noah-isme/aie-portal-api/pkg/storage"
)

// @title AIE Portal API
// @version 1.0.0
// @description Backend for the AIE university portal: timetable, assignments, resources, files, projects, messaging and calendar.
// @BasePath /api
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	hub := realtime.NewHub(logr.Named("realtime"))
	go hub.Run(ctx)

	var publisher interface {
		Publish(context.Context, realtime.Event) error
	} = hub
	if cfg.Redis.Enabled {
		client, err := broker.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		bus := broker.NewPubSub(client, cfg.Redis.Channel, logr.Named("broker"))
		publisher = realtime.NewBusPublisher(bus)
		go relay(ctx, bus, hub, logr)
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)

	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), publisher, metrics, logr.Named("notifications"))
	queue := jobs.NewQueue("notifications", notifications.HandleTask, jobs.Config{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr.Named("jobs"),
	})
	notifications.AttachQueue(queue)
	queue.Start(ctx)
	defer queue.Stop()

	auth := service.NewAuthService(repository.NewUserRepository(db), repository.NewDirectoryRepository(db), validator.New(), logr.Named("auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	var authLimiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		go sweep(ctx, limiter, cfg.RateLimit.Window)
		authLimiter = limiter.Middleware()
	}

	handler.RegisterRoutes(r, buildHandlers(db, cfg, logr, deps{
		auth:          auth,
		notifications: notifications,
		metrics:       metrics,
		hub:           hub,
		store:         store,
		signer:        signer,
	}), handler.RouterOptions{
		APIPrefix:         cfg.APIPrefix,
		Tokens:            auth,
		AuthLimiter:       authLimiter,
		AdminRequiresRole: cfg.JWT.AdminRoutesRequireRole,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
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

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// deps are the shared collaborators built before the per-domain services.
type deps struct {
	auth          *service.AuthService
	notifications *service.NotificationService
	metrics       *service.MetricsService
	hub           *realtime.Hub
	store         storage.ObjectStore
	signer        *storage.SignedURLSigner
}

func buildHandlers(db *sqlx.DB, cfg *config.Config, logr *zap.Logger, d deps) handler.Handlers {
	validate := validator.New()

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	search := repository.NewSearchRepository(db)

	userSvc := service.NewUserService(users, validate, logr.Named("users"))
	timetableSvc := service.NewTimetableService(repository.NewTimetableRepository(db), courses, users, d.notifications, validate, logr.Named("timetable"), cfg.Timezone)
	assignmentSvc := service.NewAssignmentService(repository.NewAssignmentRepository(db), courses, users, d.notifications, validate, logr.Named("assignments"))

	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Users:         users,
		Activity:      users,
		Timetable:     timetableSvc,
		Assignments:   assignmentSvc,
		Notifications: d.notifications,
		Logger:        logr.Named("dashboard"),
	})

	health := func(ctx context.Context) error {
		return database.Ping(ctx, db, 2*time.Second)
	}
	downloadPath := cfg.APIPrefix + "/files/download/"

	return handler.Handlers{
		System:        handler.NewConfigurationHandler(service.NewConfigurationService(health, cfg.Storage.MaxUploadBytes, logr.Named("system")), service.NewAnnouncementService(nil)),
		Metrics:       handler.NewMetricsHandler(d.metrics, d.hub),
		Auth:          handler.NewAuthHandler(d.auth, userSvc),
		Users:         handler.NewUserHandler(userSvc),
		Directory:     handler.NewDirectoryHandler(service.NewDirectoryService(repository.NewDirectoryRepository(db), courses, logr.Named("directory"))),
		Courses:       handler.NewCourseHandler(service.NewCourseService(courses, users, validate, logr.Named("courses"))),
		Timetable:     handler.NewTimetableHandler(timetableSvc),
		Assignments:   handler.NewAssignmentHandler(assignmentSvc),
		Dashboard:     handler.NewDashboardHandler(dashboard),
		Resources:     handler.NewResourceHandler(service.NewResourceService(repository.NewResourceRepository(db), users, d.notifications, validate, logr.Named("resources"))),
		Files:         handler.NewFileHandler(service.NewFileService(repository.NewFileRepository(db), d.store, d.signer, cfg.Storage.MaxUploadBytes, downloadPath, validate, logr.Named("files"))),
		Projects:      handler.NewProjectHandler(service.NewProjectService(repository.NewProjectRepository(db), users, validate, logr.Named("projects"))),
		Ideas:         handler.NewIdeaHandler(service.NewIdeaService(repository.NewIdeaRepository(db), validate, logr.Named("ideas"))),
		Notifications: handler.NewNotificationHandler(d.notifications),
		Realtime:      handler.NewRealtimeHandler(d.hub, cfg.CORS.AllowedOrigins, logr.Named("ws")),
		Social:        handler.NewSocialHandler(service.NewSocialService(repository.NewSocialRepository(db), users, d.notifications, d.notifications, validate, logr.Named("social"))),
		Events:        handler.NewEventHandler(service.NewEventService(repository.NewEventRepository(db), users, d.notifications, validate, logr.Named("events"), cfg.Timezone)),
		Chat:          handler.NewChatHandler(service.NewChatService(repository.NewChatRepository(db), logr.Named("chat"))),
		Search:        handler.NewSearchHandler(service.NewSearchService(search, logr.Named("search"))),
		Stats:         handler.NewStatsHandler(service.NewStatsService(repository.NewStatsRepository(db), search, logr.Named("stats"))),
	}
}

func relay(ctx context.Context, bus realtime.Bus, hub *realtime.Hub, logr *zap.Logger) {
	if err := realtime.Relay(ctx, bus, hub); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, redis.ErrClosed) {
		logr.Warn("realtime relay stopped", zap.Error(err))
	}
}

func sweep(ctx context.Context, limiter *ratelimit.Limiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
