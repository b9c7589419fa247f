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

	"github.com/hemovault/bloodbank-api/internal/config"
	"github.com/hemovault/bloodbank-api/internal/email"
	"github.com/hemovault/bloodbank-api/internal/handler"
	appointmentHandler "github.com/hemovault/bloodbank-api/internal/handler/appointment"
	authHandler "github.com/hemovault/bloodbank-api/internal/handler/auth"
	bloodrequestHandler "github.com/hemovault/bloodbank-api/internal/handler/bloodrequest"
	dashboardHandler "github.com/hemovault/bloodbank-api/internal/handler/dashboard"
	donationHandler "github.com/hemovault/bloodbank-api/internal/handler/donation"
	inventoryHandler "github.com/hemovault/bloodbank-api/internal/handler/inventory"
	userHandler "github.com/hemovault/bloodbank-api/internal/handler/user"
	"github.com/hemovault/bloodbank-api/internal/middleware"
	"github.com/hemovault/bloodbank-api/internal/repository/postgres"
	"github.com/hemovault/bloodbank-api/internal/router"
	appointmentService "github.com/hemovault/bloodbank-api/internal/service/appointment"
	authService "github.com/hemovault/bloodbank-api/internal/service/auth"
	bloodrequestService "github.com/hemovault/bloodbank-api/internal/service/bloodrequest"
	dashboardService "github.com/hemovault/bloodbank-api/internal/service/dashboard"
	donationService "github.com/hemovault/bloodbank-api/internal/service/donation"
	eventService "github.com/hemovault/bloodbank-api/internal/service/event"
	inventoryService "github.com/hemovault/bloodbank-api/internal/service/inventory"
	userService "github.com/hemovault/bloodbank-api/internal/service/user"
	"github.com/hemovault/bloodbank-api/pkg/auth"
	"github.com/hemovault/bloodbank-api/pkg/event"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Migrations.RunOnStart {
		if err := postgres.RunMigrations(cfg.Migrations.SourceURL, cfg.Database.URL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	inventoryRepo := postgres.NewInventoryRepository(base)
	donationRepo := postgres.NewDonationRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	requestRepo := postgres.NewBloodRequestRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        cfg.JWT.Expiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})
	emailSvc := email.NewService(cfg.Email)

	authSvc := authService.NewService(userRepo, jwtSvc, emailSvc)
	userSvc := userService.NewService(userRepo)
	inventorySvc := inventoryService.NewService(inventoryRepo)
	donationSvc := donationService.NewService(donationRepo, userRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo)
	requestSvc := bloodrequestService.NewService(requestRepo, userRepo, emailSvc)
	dashboardSvc := dashboardService.NewService(userRepo, inventoryRepo, donationRepo, appointmentRepo, requestRepo)
	eventSvc := eventService.NewService(outboxRepo)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	eventTracker := event.NewEventTrackerMiddleware(eventSvc)

	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	userH := userHandler.NewHandler(userSvc)
	inventoryH := inventoryHandler.NewHandler(inventorySvc)
	donationH := donationHandler.NewHandler(donationSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	requestH := bloodrequestHandler.NewHandler(requestSvc)
	dashboardH := dashboardHandler.NewHandler(dashboardSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		userH,
		inventoryH,
		donationH,
		appointmentH,
		requestH,
		dashboardH,
		h,
		eventTracker,
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateBurst:      cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "bloodbank_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
