// Package scheduler runs the background jobs that move raffles through
// their lifecycle and push pending payouts out.
package scheduler

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/config"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/services"
	"golang.org/x/exp/slog"
)

// Manager owns the scheduler and its two jobs: the raffle lifecycle
// tick and the payout sweep. Jobs run in singleton mode, so a slow tick
// is rescheduled instead of piled onto.
type Manager struct {
	scheduler     gocron.Scheduler
	raffleService services.RaffleService
	payoutService services.PayoutService
	cfg           *config.Config
}

// NewManager creates a new scheduler Manager
func NewManager(raffleService services.RaffleService, payoutService services.PayoutService, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Manager{
		scheduler:     s,
		raffleService: raffleService,
		payoutService: payoutService,
		cfg:           cfg,
	}, nil
}

// Start registers the jobs and starts the scheduler
func (m *Manager) Start() error {
	if err := m.registerJobs(); err != nil {
		return err
	}
	m.scheduler.Start()
	slog.Info("Scheduler started",
		"lifecycleInterval", m.cfg.Scheduler.LifecycleInterval,
		"sweepInterval", m.cfg.Scheduler.SweepInterval,
		"autoDraw", m.cfg.Raffle.AutoDraw)
	return nil
}

func (m *Manager) registerJobs() error {
	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(m.cfg.Scheduler.LifecycleInterval),
		gocron.NewTask(m.lifecycleTick),
		gocron.WithName("raffle_lifecycle"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("failed to register lifecycle job: %w", err)
	}

	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(m.cfg.Scheduler.SweepInterval),
		gocron.NewTask(m.sweepTick),
		gocron.WithName("payout_sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("failed to register payout sweep job: %w", err)
	}
	return nil
}

// lifecycleTick advances every raffle whose clock ran out. All three
// transitions are CAS-guarded, so a concurrent operator action or a
// second instance running the same tick is harmless.
func (m *Manager) lifecycleTick() {
	ctx := context.Background()

	activated, err := m.raffleService.ActivateDueRaffles(ctx)
	if err != nil {
		slog.Error("Lifecycle tick: activation pass failed", "error", err)
	}
	ending, err := m.raffleService.MarkEndingRaffles(ctx)
	if err != nil {
		slog.Error("Lifecycle tick: ending pass failed", "error", err)
	}

	drawn := 0
	if m.cfg.Raffle.AutoDraw {
		drawn, err = m.raffleService.DrawDueRaffles(ctx)
		if err != nil {
			slog.Error("Lifecycle tick: draw pass failed", "error", err)
		}
	}

	if activated+ending+drawn > 0 {
		slog.Info("Lifecycle tick finished", "activated", activated, "ending", ending, "drawn", drawn)
	}
}

func (m *Manager) sweepTick() {
	if _, err := m.payoutService.Sweep(context.Background()); err != nil {
		slog.Error("Scheduled payout sweep failed", "error", err)
	}
}

// Stop shuts the scheduler down, waiting for running jobs to finish
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		slog.Error("Failed to shut down scheduler", "error", err)
	}
}
