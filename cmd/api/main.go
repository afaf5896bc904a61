package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/config"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/email"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/handler"
	appointmentHandler "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/handler/appointment"
	authHandler "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/handler/auth"
	packagesHandler "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/handler/packages"
	transactionHandler "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/handler/transaction"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/middleware"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository/postgres"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/router"
	appointmentService "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/appointment"
	authService "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/auth"
	eventService "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/event"
	ledgerService "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/ledger"
	noshowService "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/noshow"
	notificationService "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/notification"
	settlementService "github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/settlement"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/auth"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/logger"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/messaging/redis"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/metrics"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.New("randevu")

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	packageRepo := postgres.NewPackageRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	zl := *appLogger.Zerolog()
	settlementSvc := settlementService.NewService(packageRepo, zl)
	ledgerSvc := ledgerService.NewService(transactionRepo, zl)
	noshowSvc := noshowService.NewService(customerRepo, settingsRepo, zl)
	eventSvc := eventService.NewService(outboxRepo, zl)
	emailSvc := email.NewService(cfg.Email)
	notificationSvc := notificationService.NewService(emailSvc, broker, zl)

	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		settlementSvc,
		ledgerSvc,
		noshowSvc,
		eventSvc,
		notificationSvc,
		m,
		zl,
	)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(12)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher)

	// HTTP layer
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		h,
		m,
		router.Config{
			RateLimit: rate.Limit(cfg.API.RateLimit),
			RateBurst: cfg.API.RateBurst,
			CORS:      middleware.DefaultCORSConfig(),
		},
		appointmentHandler.NewHandler(appointmentSvc),
		packagesHandler.NewHandler(packageRepo),
		transactionHandler.NewHandler(transactionRepo),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
