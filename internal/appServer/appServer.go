package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/config"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/cache"
	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/service"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/transport"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/worker"

	"github.com/VitorSanchespy/sys-npj-1-sub001/pkg/email"
	"github.com/VitorSanchespy/sys-npj-1-sub001/pkg/postgres"
	redisclient "github.com/VitorSanchespy/sys-npj-1-sub001/pkg/redis"
	"github.com/VitorSanchespy/sys-npj-1-sub001/pkg/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	processRepo := repository.NewProcessRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	conflictStore := repository.NewConflictStore(db)

	// Redis is optional: without it the status cache and the daily-alert
	// fast path are skipped, the store stays authoritative either way.
	var notificationCache service.NotificationCache
	if cfg.Redis.Enabled {
		redisClient := redisclient.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		notificationCache = cache.NewNotificationCache(redisClient, cfg.App.CacheTTL)
		logrus.Info("Redis notification cache initialized")
	} else {
		logrus.Warn("Redis disabled, notification cache off")
	}

	// Delivery channel
	mailer := email.NewClient(
		cfg.Email.Host,
		cfg.Email.Port,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.From,
		cfg.Email.Timeout,
	)

	// Initialize services
	userService := service.NewUserService(userRepo, prefRepo)
	processService := service.NewProcessService(processRepo, userRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, notificationRepo, cfg.App.ReminderLead)
	notificationService := service.NewNotificationService(
		notificationRepo, prefRepo, userRepo, processRepo,
		mailer, notificationCache,
		service.NotificationServiceConfig{
			BatchSize:     cfg.Notifier.BatchSize,
			MaxAttempts:   cfg.Notifier.MaxAttempts,
			RetentionDays: cfg.Notifier.RetentionDays,
		},
	)

	// Initialize and start the notification scheduler
	notificationWorker := worker.NewNotificationWorker(
		notificationService,
		cfg.Notifier.DispatchInterval,
		cfg.Notifier.StaleScanInterval,
		cfg.Notifier.PurgeInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	taskScheduler := scheduler.NewScheduler()
	notificationWorker.Register(taskScheduler)
	taskScheduler.Start(ctx)
	defer taskScheduler.Stop()
	logrus.Info("Notification scheduler started")

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService)
	processHandler := transport.NewProcessHandler(processService)
	scheduleHandler := transport.NewScheduleHandler(scheduleService)
	notificationHandler := transport.NewNotificationHandler(notificationService)

	// Setup HTTP server
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		routes := transport.InitRoutes(userHandler, processHandler, scheduleHandler, notificationHandler, conflictStore, scheduleRepo)
		if err := srv.Run(cfg, routes); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
