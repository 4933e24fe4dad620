package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/selection"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/utils"
	"github.com/karthik-ak-dev/fairwin-app-sub001/pkg/randomness"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// RaffleServiceImpl implements the RaffleService interface
type RaffleServiceImpl struct {
	raffleRepo   repositories.RaffleRepository
	entryRepo    repositories.EntryRepository
	winnerRepo   repositories.WinnerRepository
	payoutRepo   repositories.PayoutRepository
	statsRepo    repositories.StatsRepository
	seedSource   randomness.SeedSource
	endingWindow time.Duration
}

var _ RaffleService = (*RaffleServiceImpl)(nil)

// NewRaffleService creates a new RaffleService implementation
func NewRaffleService(
	raffleRepo repositories.RaffleRepository,
	entryRepo repositories.EntryRepository,
	winnerRepo repositories.WinnerRepository,
	payoutRepo repositories.PayoutRepository,
	statsRepo repositories.StatsRepository,
	seedSource randomness.SeedSource,
	endingWindow time.Duration,
) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		raffleRepo:   raffleRepo,
		entryRepo:    entryRepo,
		winnerRepo:   winnerRepo,
		payoutRepo:   payoutRepo,
		statsRepo:    statsRepo,
		seedSource:   seedSource,
		endingWindow: endingWindow,
	}
}

// CreateRaffle validates and schedules a new raffle
func (s *RaffleServiceImpl) CreateRaffle(ctx context.Context, req *models.CreateRaffleRequest) (*models.Raffle, error) {
	preset, ok := models.PresetFor(req.Type)
	if !ok {
		return nil, apperrors.New(apperrors.KindValidation, "unknown raffle type %q", req.Type)
	}
	if req.EntryPrice <= 0 {
		return nil, apperrors.New(apperrors.KindValidation, "entryPrice must be positive")
	}
	if req.PlatformFeePercent < 0 || req.PlatformFeePercent > 100 {
		return nil, apperrors.New(apperrors.KindValidation, "platformFeePercent must be between 0 and 100")
	}
	if err := selection.ValidateTiers(req.PrizeTiers, req.WinnerCount); err != nil {
		return nil, err
	}

	startTime := req.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}
	maxEntries := req.MaxEntriesPerUser
	if maxEntries == 0 {
		maxEntries = preset.MaxEntriesPerUser
	}
	if maxEntries < 1 {
		return nil, apperrors.New(apperrors.KindValidation, "maxEntriesPerUser must be positive")
	}

	raffle := &models.Raffle{
		Type:               req.Type,
		Status:             models.RaffleStatusScheduled,
		EntryPrice:         req.EntryPrice,
		WinnerCount:        req.WinnerCount,
		PlatformFeePercent: req.PlatformFeePercent,
		PrizeTiers:         req.PrizeTiers,
		MaxEntriesPerUser:  maxEntries,
		StartTime:          startTime,
		EndTime:            startTime.Add(preset.Duration),
	}
	if err := s.raffleRepo.Create(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to create raffle: %w", err)
	}

	if err := s.statsRepo.Apply(ctx, models.StatsDelta{TotalRaffles: 1}); err != nil {
		slog.Error("Failed to update platform stats for raffle creation", "error", err, "raffleId", raffle.ID.Hex())
	}

	slog.Info("Raffle created",
		"raffleId", raffle.ID.Hex(),
		"type", raffle.Type,
		"entryPrice", utils.FormatAmount(raffle.EntryPrice),
		"startTime", raffle.StartTime,
		"endTime", raffle.EndTime)
	return raffle, nil
}

// GetRaffleByID retrieves a raffle by ID
func (s *RaffleServiceImpl) GetRaffleByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.KindRaffleNotFound, "raffle %s not found", id.Hex())
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	return raffle, nil
}

// GetRaffles lists raffles, optionally filtered by status
func (s *RaffleServiceImpl) GetRaffles(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error) {
	if status == "" {
		return s.raffleRepo.FindAll(ctx, page, limit)
	}
	return s.raffleRepo.FindByStatus(ctx, status, page, limit)
}

// GetWinnersByRaffleID retrieves a raffle's winners in draw order
func (s *RaffleServiceImpl) GetWinnersByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error) {
	return s.winnerRepo.FindByRaffleID(ctx, raffleID)
}

// CancelRaffle cancels a raffle that has not drawn yet. Entries are
// marked refunded; moving the money back is the payment collaborator's
// job.
func (s *RaffleServiceImpl) CancelRaffle(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	ok, err := s.raffleRepo.UpdateStatusIf(ctx, id, models.RaffleStatusCancelled,
		models.RaffleStatusScheduled, models.RaffleStatusActive, models.RaffleStatusEnding)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel raffle: %w", err)
	}
	if !ok {
		raffle, err := s.GetRaffleByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.New(apperrors.KindInvalidStatusTransition,
			"cannot cancel raffle %s in status %s", id.Hex(), raffle.Status)
	}

	refunded, err := s.entryRepo.MarkRefundedByRaffleID(ctx, id)
	if err != nil {
		// The cancel itself is committed; refund marking can be repaired
		// by re-running the cancel handler.
		slog.Error("Failed to mark entries refunded", "error", err, "raffleId", id.Hex())
	}
	if err := s.statsRepo.Apply(ctx, models.StatsDelta{CancelledRaffles: 1}); err != nil {
		slog.Error("Failed to update platform stats for cancellation", "error", err, "raffleId", id.Hex())
	}

	slog.Info("Raffle cancelled", "raffleId", id.Hex(), "entriesRefunded", refunded)
	return s.GetRaffleByID(ctx, id)
}

// ExecuteDraw runs the full draw for an ending raffle
func (s *RaffleServiceImpl) ExecuteDraw(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	raffle, err := s.GetRaffleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !raffle.Status.CanTransition(models.RaffleStatusDrawing) {
		return nil, apperrors.New(apperrors.KindInvalidStatusTransition,
			"raffle %s is %s; draws run from %s", id.Hex(), raffle.Status, models.RaffleStatusEnding)
	}
	if time.Now().Before(raffle.EndTime) {
		return nil, apperrors.New(apperrors.KindInvalidStatusTransition,
			"raffle %s has not ended yet (ends %s)", id.Hex(), raffle.EndTime.Format(time.RFC3339))
	}
	if raffle.TotalEntries == 0 {
		return nil, apperrors.New(apperrors.KindNoEntriesForDraw,
			"raffle %s has no entries to draw from", id.Hex())
	}

	seed, err := s.seedSource.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain draw seed: %w", err)
	}

	ok, err := s.raffleRepo.BeginDraw(ctx, id, seed, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to begin draw: %w", err)
	}
	if !ok {
		return nil, apperrors.New(apperrors.KindInvalidStatusTransition,
			"a draw for raffle %s is already underway", id.Hex())
	}
	slog.Info("Draw started", "raffleId", id.Hex(), "seed", seed)

	// Reload after the transition: entry acceptance is closed now, so
	// these totals are the ones the draw is accountable to.
	raffle, err = s.raffleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.failDraw(ctx, id, "failed to reload raffle for draw", err)
	}

	entries, err := s.entryRepo.FindConfirmedByRaffleID(ctx, id)
	if err != nil {
		return nil, s.failDraw(ctx, id, "failed to load entry snapshot", err)
	}
	snapshot := make([]selection.EntrySnapshot, 0, len(entries))
	for _, entry := range entries {
		snapshot = append(snapshot, selection.EntrySnapshot{
			WalletAddress: entry.WalletAddress,
			NumEntries:    entry.NumEntries,
		})
	}

	split := selection.SplitPool(raffle.PrizePool, raffle.PlatformFeePercent, raffle.PrizeTiers)
	result, err := selection.SelectWinners(snapshot, seed, split)
	if err != nil {
		return nil, s.failDraw(ctx, id, "winner selection failed", err)
	}

	winners := make([]*models.Winner, 0, len(result.Winners))
	for _, w := range result.Winners {
		winners = append(winners, &models.Winner{
			RaffleID:      id,
			WalletAddress: w.WalletAddress,
			TicketNumber:  w.TicketNumber,
			TotalTickets:  w.TotalTickets,
			Tier:          w.Tier,
			Prize:         w.Prize,
		})
	}
	if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
		return nil, s.failDraw(ctx, id, "failed to persist winners", err)
	}

	payouts := make([]*models.Payout, 0, len(winners))
	for _, w := range winners {
		payouts = append(payouts, &models.Payout{
			WinnerID:      w.ID,
			RaffleID:      id,
			WalletAddress: w.WalletAddress,
			Amount:        w.Prize,
			Status:        models.PayoutStatusPending,
		})
	}
	if err := s.payoutRepo.CreateMany(ctx, payouts); err != nil {
		return nil, s.failDraw(ctx, id, "failed to persist payouts", err)
	}

	ok, err = s.raffleRepo.CompleteDraw(ctx, id, split.ProtocolFee, split.WinnerPayout)
	if err != nil {
		return nil, s.failDraw(ctx, id, "failed to complete raffle", err)
	}
	if !ok {
		return nil, s.failDraw(ctx, id, "raffle left drawing state unexpectedly",
			fmt.Errorf("completion update matched no document"))
	}

	if err := s.statsRepo.Apply(ctx, models.StatsDelta{
		CompletedRaffles: 1,
		TotalWinners:     int64(len(winners)),
	}); err != nil {
		slog.Error("Failed to update platform stats for completion", "error", err, "raffleId", id.Hex())
	}

	slog.Info("Draw completed",
		"raffleId", id.Hex(),
		"totalTickets", result.TotalTickets,
		"winners", len(winners),
		"protocolFee", utils.FormatAmount(split.ProtocolFee),
		"winnerPayout", utils.FormatAmount(split.WinnerPayout))
	return s.GetRaffleByID(ctx, id)
}

// failDraw records a draw failure on the raffle and returns the wrapped
// error. The raffle stays in drawing with its seed stored; the
// lifecycle never moves backwards, so recovery from here is an
// operator action.
func (s *RaffleServiceImpl) failDraw(ctx context.Context, id primitive.ObjectID, stage string, cause error) error {
	slog.Error("Draw failed", "error", cause, "raffleId", id.Hex(), "stage", stage)
	if err := s.raffleRepo.SetDrawError(ctx, id, fmt.Sprintf("%s: %v", stage, cause)); err != nil {
		slog.Error("Failed to record draw error", "error", err, "raffleId", id.Hex())
	}
	return apperrors.Wrap(apperrors.KindInternal, cause, "%s", stage)
}

// VerifyDraw recomputes a completed draw from its stored seed
func (s *RaffleServiceImpl) VerifyDraw(ctx context.Context, id primitive.ObjectID) (*models.DrawVerification, error) {
	raffle, err := s.GetRaffleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raffle.Status != models.RaffleStatusCompleted {
		return nil, apperrors.New(apperrors.KindValidation,
			"raffle %s has no completed draw to verify (status %s)", id.Hex(), raffle.Status)
	}

	entries, err := s.entryRepo.FindConfirmedByRaffleID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry snapshot: %w", err)
	}
	snapshot := make([]selection.EntrySnapshot, 0, len(entries))
	for _, entry := range entries {
		snapshot = append(snapshot, selection.EntrySnapshot{
			WalletAddress: entry.WalletAddress,
			NumEntries:    entry.NumEntries,
		})
	}

	split := selection.SplitPool(raffle.PrizePool, raffle.PlatformFeePercent, raffle.PrizeTiers)
	result, err := selection.SelectWinners(snapshot, raffle.RandomSeed, split)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to recompute draw")
	}

	stored, err := s.winnerRepo.FindByRaffleID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored winners: %w", err)
	}

	return &models.DrawVerification{
		RaffleID:     id,
		RandomSeed:   raffle.RandomSeed,
		TotalTickets: result.TotalTickets,
		Valid:        selection.Matches(result, stored),
		Winners:      stored,
	}, nil
}

// ActivateDueRaffles opens scheduled raffles whose start time passed
func (s *RaffleServiceImpl) ActivateDueRaffles(ctx context.Context) (int, error) {
	due, err := s.raffleRepo.FindDueToActivate(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to find raffles due to activate: %w", err)
	}

	count := 0
	for _, raffle := range due {
		ok, err := s.raffleRepo.UpdateStatusIf(ctx, raffle.ID, models.RaffleStatusActive, models.RaffleStatusScheduled)
		if err != nil {
			slog.Error("Failed to activate raffle", "error", err, "raffleId", raffle.ID.Hex())
			continue
		}
		if ok {
			count++
			slog.Info("Raffle activated", "raffleId", raffle.ID.Hex(), "endTime", raffle.EndTime)
		}
	}
	return count, nil
}

// MarkEndingRaffles flags active raffles inside the ending-soon window
func (s *RaffleServiceImpl) MarkEndingRaffles(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(s.endingWindow)
	due, err := s.raffleRepo.FindDueToMarkEnding(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to find raffles due to mark ending: %w", err)
	}

	count := 0
	for _, raffle := range due {
		ok, err := s.raffleRepo.UpdateStatusIf(ctx, raffle.ID, models.RaffleStatusEnding, models.RaffleStatusActive)
		if err != nil {
			slog.Error("Failed to mark raffle ending", "error", err, "raffleId", raffle.ID.Hex())
			continue
		}
		if ok {
			count++
			slog.Info("Raffle ending soon", "raffleId", raffle.ID.Hex(), "endTime", raffle.EndTime)
		}
	}
	return count, nil
}

// DrawDueRaffles draws ending raffles whose end time passed
func (s *RaffleServiceImpl) DrawDueRaffles(ctx context.Context) (int, error) {
	due, err := s.raffleRepo.FindDueToDraw(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to find raffles due to draw: %w", err)
	}

	count := 0
	for _, raffle := range due {
		if _, err := s.ExecuteDraw(ctx, raffle.ID); err != nil {
			switch apperrors.KindOf(err) {
			case apperrors.KindNoEntriesForDraw:
				slog.Warn("Raffle ended with no entries, awaiting cancellation", "raffleId", raffle.ID.Hex())
			case apperrors.KindInvalidStatusTransition:
				// Someone else drew it between the query and here.
			default:
				slog.Error("Scheduled draw failed", "error", err, "raffleId", raffle.ID.Hex())
			}
			continue
		}
		count++
	}
	return count, nil
}
