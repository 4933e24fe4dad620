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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// EntryServiceImpl implements the EntryService interface. An accepted
// entry is a short write sequence over three collections; the raffle
// counter update is the commit point, and everything before it is
// rolled back if the raffle stopped accepting entries in between.
type EntryServiceImpl struct {
	raffleRepo      repositories.RaffleRepository
	entryRepo       repositories.EntryRepository
	participantRepo repositories.ParticipantRepository
	winnerRepo      repositories.WinnerRepository
	statsRepo       repositories.StatsRepository
}

var _ EntryService = (*EntryServiceImpl)(nil)

// NewEntryService creates a new EntryService implementation
func NewEntryService(
	raffleRepo repositories.RaffleRepository,
	entryRepo repositories.EntryRepository,
	participantRepo repositories.ParticipantRepository,
	winnerRepo repositories.WinnerRepository,
	statsRepo repositories.StatsRepository,
) *EntryServiceImpl {
	return &EntryServiceImpl{
		raffleRepo:      raffleRepo,
		entryRepo:       entryRepo,
		participantRepo: participantRepo,
		winnerRepo:      winnerRepo,
		statsRepo:       statsRepo,
	}
}

// SubmitEntry records a confirmed paid entry
func (s *EntryServiceImpl) SubmitEntry(ctx context.Context, raffleID primitive.ObjectID, wallet string, numEntries, totalPaid int64, paymentReference string) (*models.Entry, error) {
	wallet = utils.NormalizeWallet(wallet)
	if wallet == "" {
		return nil, apperrors.New(apperrors.KindInvalidEntry, "wallet address is required")
	}
	if numEntries <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidEntry, "numEntries must be positive, got %d", numEntries)
	}
	if paymentReference == "" {
		return nil, apperrors.New(apperrors.KindInvalidEntry, "payment reference is required")
	}

	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.KindRaffleNotFound, "raffle %s not found", raffleID.Hex())
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if !raffle.Status.AcceptsEntries() {
		return nil, apperrors.New(apperrors.KindRaffleNotActive,
			"raffle %s is %s and does not accept entries", raffleID.Hex(), raffle.Status)
	}
	if want := numEntries * raffle.EntryPrice; totalPaid != want {
		return nil, apperrors.New(apperrors.KindInvalidEntry,
			"totalPaid %d does not match %d entries at price %d", totalPaid, numEntries, raffle.EntryPrice)
	}
	if numEntries > raffle.MaxEntriesPerUser {
		return nil, apperrors.New(apperrors.KindMaxEntriesExceeded,
			"%d entries exceed the per-wallet limit of %d", numEntries, raffle.MaxEntriesPerUser)
	}

	entry := &models.Entry{
		RaffleID:         raffleID,
		WalletAddress:    wallet,
		NumEntries:       numEntries,
		TotalPaid:        totalPaid,
		PaymentReference: paymentReference,
		Status:           models.EntryStatusConfirmed,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.replayEntry(ctx, paymentReference)
		}
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	first, err := s.participantRepo.IncrementEntries(ctx, raffleID, wallet, numEntries, totalPaid, raffle.MaxEntriesPerUser, time.Now())
	if err != nil {
		s.rollbackEntry(ctx, entry)
		if apperrors.KindOf(err) == apperrors.KindMaxEntriesExceeded {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update participant aggregate: %w", err)
	}

	var newParticipants int64
	if first {
		newParticipants = 1
	}
	applied, err := s.raffleRepo.ApplyEntry(ctx, raffleID, numEntries, totalPaid, newParticipants)
	if err != nil || !applied {
		s.rollbackParticipant(ctx, raffleID, wallet, numEntries, totalPaid, first)
		s.rollbackEntry(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to update raffle counters: %w", err)
		}
		return nil, apperrors.New(apperrors.KindRaffleNotActive,
			"raffle %s stopped accepting entries", raffleID.Hex())
	}

	if err := s.statsRepo.Apply(ctx, models.StatsDelta{
		TotalEntries: numEntries,
		TotalRevenue: selection.PercentOf(totalPaid, raffle.PlatformFeePercent),
	}); err != nil {
		slog.Error("Failed to update platform stats for entry", "error", err, "entryId", entry.ID)
	}

	slog.Info("Entry accepted",
		"raffleId", raffleID.Hex(),
		"wallet", utils.MaskWallet(wallet),
		"numEntries", numEntries,
		"totalPaid", utils.FormatAmount(totalPaid),
		"firstEntry", first)
	return entry, nil
}

// replayEntry resolves a duplicate payment reference to the entry that
// already consumed it.
func (s *EntryServiceImpl) replayEntry(ctx context.Context, paymentReference string) (*models.Entry, error) {
	existing, err := s.entryRepo.FindByPaymentReference(ctx, paymentReference)
	if err != nil {
		return nil, fmt.Errorf("failed to load replayed entry: %w", err)
	}
	slog.Info("Entry replayed by payment reference", "entryId", existing.ID.Hex())
	return existing, nil
}

func (s *EntryServiceImpl) rollbackEntry(ctx context.Context, entry *models.Entry) {
	if err := s.entryRepo.Delete(ctx, entry.ID); err != nil {
		slog.Error("Failed to roll back entry after aborted sequence", "error", err, "entryId", entry.ID.Hex())
	}
}

func (s *EntryServiceImpl) rollbackParticipant(ctx context.Context, raffleID primitive.ObjectID, wallet string, numEntries, totalPaid int64, wasFirst bool) {
	if err := s.participantRepo.Reverse(ctx, raffleID, wallet, numEntries, totalPaid, wasFirst); err != nil {
		slog.Error("Failed to roll back participant aggregate", "error", err,
			"raffleId", raffleID.Hex(), "wallet", utils.MaskWallet(wallet))
	}
}

// GetEntriesByRaffleID lists a raffle's entries, newest first
func (s *EntryServiceImpl) GetEntriesByRaffleID(ctx context.Context, raffleID primitive.ObjectID, page, limit int) ([]*models.Entry, error) {
	return s.entryRepo.FindByRaffleID(ctx, raffleID, page, limit)
}

// GetEntriesByWallet lists a wallet's entries across raffles
func (s *EntryServiceImpl) GetEntriesByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Entry, error) {
	return s.entryRepo.FindByWallet(ctx, utils.NormalizeWallet(wallet), page, limit)
}

// GetWinnersByWallet lists a wallet's wins across raffles
func (s *EntryServiceImpl) GetWinnersByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Winner, error) {
	return s.winnerRepo.FindByWallet(ctx, utils.NormalizeWallet(wallet), page, limit)
}
