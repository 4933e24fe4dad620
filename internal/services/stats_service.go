package services

import (
	"context"
	"fmt"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
)

// StatsServiceImpl implements the StatsService interface
type StatsServiceImpl struct {
	statsRepo  repositories.StatsRepository
	payoutRepo repositories.PayoutRepository
}

var _ StatsService = (*StatsServiceImpl)(nil)

// NewStatsService creates a new StatsService implementation
func NewStatsService(statsRepo repositories.StatsRepository, payoutRepo repositories.PayoutRepository) *StatsServiceImpl {
	return &StatsServiceImpl{
		statsRepo:  statsRepo,
		payoutRepo: payoutRepo,
	}
}

// GetPlatformStats returns the stats rollup plus payout queue depth
func (s *StatsServiceImpl) GetPlatformStats(ctx context.Context) (*models.PlatformStatsResponse, error) {
	stats, err := s.statsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform stats: %w", err)
	}
	pending, err := s.payoutRepo.CountByStatus(ctx, models.PayoutStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending payouts: %w", err)
	}
	return &models.PlatformStatsResponse{
		PlatformStats:  stats,
		PendingPayouts: pending,
	}, nil
}
