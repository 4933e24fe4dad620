package services

import (
	"context"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleService defines the interface for raffle lifecycle operations
type RaffleService interface {
	// CreateRaffle validates and schedules a new raffle
	CreateRaffle(ctx context.Context, req *models.CreateRaffleRequest) (*models.Raffle, error)

	// GetRaffleByID retrieves a raffle by its ID
	GetRaffleByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)

	// GetRaffles lists raffles, optionally filtered by status
	GetRaffles(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error)

	// GetWinnersByRaffleID retrieves the winners of a raffle in draw order
	GetWinnersByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error)

	// CancelRaffle cancels a raffle that has not drawn yet and marks its
	// entries refunded
	CancelRaffle(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)

	// ExecuteDraw runs the full draw: seed commit, winner selection,
	// winner and payout persistence, completion
	ExecuteDraw(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)

	// VerifyDraw recomputes a completed draw from its stored seed and
	// reports whether the stored winners match
	VerifyDraw(ctx context.Context, id primitive.ObjectID) (*models.DrawVerification, error)

	// Scheduler entry points. Each returns how many raffles it moved.
	ActivateDueRaffles(ctx context.Context) (int, error)
	MarkEndingRaffles(ctx context.Context) (int, error)
	DrawDueRaffles(ctx context.Context) (int, error)
}

// EntryService defines the interface for the entry ledger
type EntryService interface {
	// SubmitEntry records a confirmed paid entry. Replays of the same
	// paymentReference return the original entry without side effects.
	SubmitEntry(ctx context.Context, raffleID primitive.ObjectID, wallet string, numEntries, totalPaid int64, paymentReference string) (*models.Entry, error)

	// GetEntriesByRaffleID lists a raffle's entries, newest first
	GetEntriesByRaffleID(ctx context.Context, raffleID primitive.ObjectID, page, limit int) ([]*models.Entry, error)

	// GetEntriesByWallet lists a wallet's entries across raffles
	GetEntriesByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Entry, error)

	// GetWinnersByWallet lists a wallet's wins across raffles
	GetWinnersByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Winner, error)
}

// PayoutService defines the interface for the payout tracker
type PayoutService interface {
	// GetPayouts lists payouts in a given status, oldest first
	GetPayouts(ctx context.Context, status models.PayoutStatus, page, limit int) ([]*models.Payout, error)

	// RecordPayoutAttempt applies the outcome of one transfer attempt
	RecordPayoutAttempt(ctx context.Context, payoutID primitive.ObjectID, outcome *models.PayoutAttemptRequest) (*models.Payout, error)

	// Sweep claims due payouts and executes their transfers through the
	// payment gateway on a bounded worker pool
	Sweep(ctx context.Context) (*models.SweepResult, error)
}

// StatsService defines the interface for platform statistics reads
type StatsService interface {
	GetPlatformStats(ctx context.Context) (*models.PlatformStatsResponse, error)
}
