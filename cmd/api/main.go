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

	"github.com/mehfilportal/admin-api/internal/config"
	"github.com/mehfilportal/admin-api/internal/email"
	"github.com/mehfilportal/admin-api/internal/handler"
	coordinatorHandler "github.com/mehfilportal/admin-api/internal/handler/coordinator"
	directoryHandler "github.com/mehfilportal/admin-api/internal/handler/directory"
	dutytypeHandler "github.com/mehfilportal/admin-api/internal/handler/dutytype"
	rosterHandler "github.com/mehfilportal/admin-api/internal/handler/roster"
	"github.com/mehfilportal/admin-api/internal/middleware"
	"github.com/mehfilportal/admin-api/internal/repository/postgres"
	"github.com/mehfilportal/admin-api/internal/router"
	coordinatorService "github.com/mehfilportal/admin-api/internal/service/coordinator"
	dutytypeService "github.com/mehfilportal/admin-api/internal/service/dutytype"
	rosterService "github.com/mehfilportal/admin-api/internal/service/roster"
	scopeService "github.com/mehfilportal/admin-api/internal/service/scope"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	baseRepo := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)
	directoryRepo := postgres.NewDirectoryRepository(baseRepo)
	dutyTypeRepo := postgres.NewDutyTypeRepository(baseRepo)
	rosterRepo := postgres.NewDutyRosterRepository(baseRepo)
	coordinatorRepo := postgres.NewCoordinatorRepository(baseRepo, outboxRepo)

	// Services
	scopeSvc := scopeService.NewService(directoryRepo)
	mailer := email.NewService(cfg.SMTP.ToEmailConfig())
	dutyTypeSvc := dutytypeService.NewService(dutyTypeRepo, directoryRepo, scopeSvc, outboxRepo)
	rosterSvc := rosterService.NewService(rosterRepo, coordinatorRepo, dutyTypeRepo, directoryRepo, scopeSvc, outboxRepo)
	coordinatorSvc := coordinatorService.NewService(coordinatorRepo, dutyTypeRepo, directoryRepo, scopeSvc, outboxRepo, mailer)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, directoryRepo)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		dutytypeHandler.NewHandler(dutyTypeSvc),
		rosterHandler.NewHandler(rosterSvc),
		coordinatorHandler.NewHandler(coordinatorSvc),
		directoryHandler.NewHandler(directoryRepo, scopeSvc),
		h,
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "mehfil_admin_api",
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
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
