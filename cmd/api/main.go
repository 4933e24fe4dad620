package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/karthik-ak-dev/fairwin-app-sub001/api/routes"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/config"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/handlers"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
	mongorepo "github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories/mongodb"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/scheduler"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/services"
	"github.com/karthik-ak-dev/fairwin-app-sub001/pkg/mongodb"
	"github.com/karthik-ak-dev/fairwin-app-sub001/pkg/paygate"
	"github.com/karthik-ak-dev/fairwin-app-sub001/pkg/randomness"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; deployments configure the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	setupLogger(cfg.LogLevel)

	// Connect to MongoDB
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
	cancelConnect()
	if err != nil {
		fatal("Failed to connect to MongoDB", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// The unique indexes double as idempotency guards; refuse to serve
	// without them.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	err = mongorepo.EnsureIndexes(indexCtx, db)
	cancelIndex()
	if err != nil {
		fatal("Failed to ensure MongoDB indexes", err)
	}

	// Initialize repositories
	var raffleRepo repositories.RaffleRepository = mongorepo.NewRaffleRepository(db)
	var entryRepo repositories.EntryRepository = mongorepo.NewEntryRepository(db)
	var participantRepo repositories.ParticipantRepository = mongorepo.NewParticipantRepository(db)
	var winnerRepo repositories.WinnerRepository = mongorepo.NewWinnerRepository(db)
	var payoutRepo repositories.PayoutRepository = mongorepo.NewPayoutRepository(db)
	var statsRepo repositories.StatsRepository = mongorepo.NewStatsRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Initialize services
	authService := services.NewAuthService(adminRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	entryService := services.NewEntryService(raffleRepo, entryRepo, participantRepo, winnerRepo, statsRepo)
	raffleService := services.NewRaffleService(raffleRepo, entryRepo, winnerRepo, payoutRepo, statsRepo,
		randomness.NewCryptoSource(), cfg.Raffle.EndingSoonWindow)
	payoutService := services.NewPayoutService(payoutRepo, statsRepo, paygate.NewClient(cfg),
		cfg.Payout.Workers, cfg.Payout.MaxAttempts, cfg.Payout.SweepBatch)
	statsService := services.NewStatsService(statsRepo, payoutRepo)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	err = authService.EnsureDefaultAdmin(bootstrapCtx, cfg.Admin.Email, cfg.Admin.Password)
	cancelBootstrap()
	if err != nil {
		fatal("Failed to seed default admin", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	raffleHandler := handlers.NewRaffleHandler(raffleService)
	entryHandler := handlers.NewEntryHandler(entryService)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	statsHandler := handlers.NewStatsHandler(statsService)

	router := routes.SetupRouter(cfg, authHandler, raffleHandler, entryHandler, payoutHandler, statsHandler)

	// Background jobs
	var jobs *scheduler.Manager
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.NewManager(raffleService, payoutService, cfg)
		if err != nil {
			fatal("Failed to create scheduler", err)
		}
		if err := jobs.Start(); err != nil {
			fatal("Failed to start scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("Server failed", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if jobs != nil {
		jobs.Stop()
	}
	slog.Info("Server exiting")
}

// setupLogger installs the process-wide structured logger
func setupLogger(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
