package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/utils"
	"github.com/karthik-ak-dev/fairwin-app-sub001/pkg/paygate"
	"github.com/panjf2000/ants/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// PayoutServiceImpl implements the PayoutService interface
type PayoutServiceImpl struct {
	payoutRepo  repositories.PayoutRepository
	statsRepo   repositories.StatsRepository
	gateway     paygate.Gateway
	workers     int
	maxAttempts int
	sweepBatch  int
}

var _ PayoutService = (*PayoutServiceImpl)(nil)

// NewPayoutService creates a new PayoutService implementation
func NewPayoutService(
	payoutRepo repositories.PayoutRepository,
	statsRepo repositories.StatsRepository,
	gateway paygate.Gateway,
	workers, maxAttempts, sweepBatch int,
) *PayoutServiceImpl {
	if workers < 1 {
		workers = 4
	}
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if sweepBatch < 1 {
		sweepBatch = 100
	}
	return &PayoutServiceImpl{
		payoutRepo:  payoutRepo,
		statsRepo:   statsRepo,
		gateway:     gateway,
		workers:     workers,
		maxAttempts: maxAttempts,
		sweepBatch:  sweepBatch,
	}
}

// GetPayouts lists payouts in a given status, oldest first
func (s *PayoutServiceImpl) GetPayouts(ctx context.Context, status models.PayoutStatus, page, limit int) ([]*models.Payout, error) {
	return s.payoutRepo.FindByStatus(ctx, status, page, limit)
}

// RecordPayoutAttempt applies the outcome of one externally executed
// transfer attempt
func (s *PayoutServiceImpl) RecordPayoutAttempt(ctx context.Context, payoutID primitive.ObjectID, outcome *models.PayoutAttemptRequest) (*models.Payout, error) {
	payout, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.KindPayoutNotFound, "payout %s not found", payoutID.Hex())
		}
		return nil, fmt.Errorf("failed to load payout: %w", err)
	}
	if payout.Status == models.PayoutStatusPaid {
		return nil, apperrors.New(apperrors.KindPayoutAlreadyProcessed,
			"payout %s is already paid", payoutID.Hex())
	}

	ok, err := s.payoutRepo.BeginAttempt(ctx, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim payout: %w", err)
	}
	if !ok {
		current, err := s.payoutRepo.FindByID(ctx, payoutID)
		if err == nil && current.Status == models.PayoutStatusPaid {
			return nil, apperrors.New(apperrors.KindPayoutAlreadyProcessed,
				"payout %s is already paid", payoutID.Hex())
		}
		return nil, apperrors.New(apperrors.KindInvalidStatusTransition,
			"an attempt for payout %s is already in progress", payoutID.Hex())
	}

	if outcome.Success {
		reference := outcome.PaymentReference
		if reference == "" {
			reference = "MANUAL-" + uuid.NewString()
		}
		if err := s.markPaid(ctx, payout, reference); err != nil {
			return nil, err
		}
	} else {
		if err := s.markFailed(ctx, payout, outcome.Error); err != nil {
			return nil, err
		}
	}
	return s.payoutRepo.FindByID(ctx, payoutID)
}

// Sweep claims due payouts and executes their transfers concurrently on
// a bounded worker pool. Each payout is independent; one failed
// transfer never blocks the rest.
func (s *PayoutServiceImpl) Sweep(ctx context.Context) (*models.SweepResult, error) {
	due, err := s.payoutRepo.FindDue(ctx, s.maxAttempts, s.sweepBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to find due payouts: %w", err)
	}
	result := &models.SweepResult{Eligible: len(due)}
	if len(due) == 0 {
		return result, nil
	}

	size := s.workers
	if len(due) < size {
		size = len(due)
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var attempted, paid, failed atomic.Int64
	for _, payout := range due {
		payout := payout
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			switch s.sweepOne(ctx, payout) {
			case sweepPaid:
				attempted.Add(1)
				paid.Add(1)
			case sweepFailed:
				attempted.Add(1)
				failed.Add(1)
			}
		})
		if submitErr != nil {
			wg.Done()
			slog.Error("Failed to submit payout to worker pool", "error", submitErr, "payoutId", payout.ID.Hex())
		}
	}
	wg.Wait()

	result.Attempted = int(attempted.Load())
	result.Paid = int(paid.Load())
	result.Failed = int(failed.Load())
	slog.Info("Payout sweep finished",
		"eligible", result.Eligible,
		"attempted", result.Attempted,
		"paid", result.Paid,
		"failed", result.Failed)
	return result, nil
}

type sweepOutcome int

const (
	sweepSkipped sweepOutcome = iota
	sweepPaid
	sweepFailed
)

// sweepOne claims and executes a single payout transfer. The payout ID
// doubles as the gateway idempotency key, so a crash after the transfer
// but before MarkPaid cannot double-pay on retry.
func (s *PayoutServiceImpl) sweepOne(ctx context.Context, payout *models.Payout) sweepOutcome {
	ok, err := s.payoutRepo.BeginAttempt(ctx, payout.ID)
	if err != nil {
		slog.Error("Failed to claim payout for sweep", "error", err, "payoutId", payout.ID.Hex())
		return sweepSkipped
	}
	if !ok {
		return sweepSkipped
	}

	res, err := s.gateway.Transfer(ctx, &paygate.TransferRequest{
		IdempotencyKey: payout.ID.Hex(),
		WalletAddress:  payout.WalletAddress,
		Amount:         payout.Amount,
	})
	if err != nil {
		if mfErr := s.markFailed(ctx, payout, err.Error()); mfErr != nil {
			slog.Error("Failed to record payout failure", "error", mfErr, "payoutId", payout.ID.Hex())
		}
		return sweepFailed
	}

	if err := s.markPaid(ctx, payout, res.Reference); err != nil {
		slog.Error("Failed to record payout success", "error", err, "payoutId", payout.ID.Hex())
		return sweepFailed
	}
	return sweepPaid
}

func (s *PayoutServiceImpl) markPaid(ctx context.Context, payout *models.Payout, reference string) error {
	ok, err := s.payoutRepo.MarkPaid(ctx, payout.ID, reference, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark payout paid: %w", err)
	}
	if !ok {
		return apperrors.New(apperrors.KindInternal,
			"payout %s left processing state unexpectedly", payout.ID.Hex())
	}

	if err := s.statsRepo.Apply(ctx, models.StatsDelta{TotalPaidOut: payout.Amount}); err != nil {
		slog.Error("Failed to update platform stats for payout", "error", err, "payoutId", payout.ID.Hex())
	}
	slog.Info("Payout paid",
		"payoutId", payout.ID.Hex(),
		"wallet", utils.MaskWallet(payout.WalletAddress),
		"amount", utils.FormatAmount(payout.Amount),
		"reference", reference)
	return nil
}

func (s *PayoutServiceImpl) markFailed(ctx context.Context, payout *models.Payout, message string) error {
	if message == "" {
		message = "transfer failed"
	}
	ok, err := s.payoutRepo.MarkFailed(ctx, payout.ID, message)
	if err != nil {
		return fmt.Errorf("failed to mark payout failed: %w", err)
	}
	if !ok {
		return apperrors.New(apperrors.KindInternal,
			"payout %s left processing state unexpectedly", payout.ID.Hex())
	}
	slog.Warn("Payout attempt failed",
		"payoutId", payout.ID.Hex(),
		"wallet", utils.MaskWallet(payout.WalletAddress),
		"reason", message)
	return nil
}
