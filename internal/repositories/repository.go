package repositories

import (
	"context"
	"time"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleRepository defines the interface for raffle data operations.
// Status changes go through the conditional methods so concurrent
// writers cannot skip lifecycle steps.
type RaffleRepository interface {
	Create(ctx context.Context, raffle *models.Raffle) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error)
	FindByStatus(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error)
	Count(ctx context.Context) (int64, error)

	// Scheduler queries. Cutoffs are inclusive.
	FindDueToActivate(ctx context.Context, now time.Time) ([]*models.Raffle, error)
	FindDueToMarkEnding(ctx context.Context, cutoff time.Time) ([]*models.Raffle, error)
	FindDueToDraw(ctx context.Context, now time.Time) ([]*models.Raffle, error)

	// UpdateStatusIf moves the raffle to the target status only when its
	// current status is one of from. Returns false when no document
	// matched, i.e. another writer got there first.
	UpdateStatusIf(ctx context.Context, id primitive.ObjectID, to models.RaffleStatus, from ...models.RaffleStatus) (bool, error)

	// BeginDraw is the ending->drawing transition. The seed and draw
	// time are written in the same update so a crashed draw can always
	// be replayed from the stored seed.
	BeginDraw(ctx context.Context, id primitive.ObjectID, seed string, drawTime time.Time) (bool, error)

	// ApplyEntry atomically adds an accepted entry to the raffle
	// counters. The update only matches while the raffle still accepts
	// entries; false means the raffle moved on and the caller must roll
	// its writes back.
	ApplyEntry(ctx context.Context, id primitive.ObjectID, entries, amount, newParticipants int64) (bool, error)

	// CompleteDraw is the drawing->completed transition, recording the
	// final pool split.
	CompleteDraw(ctx context.Context, id primitive.ObjectID, protocolFee, winnerPayout int64) (bool, error)

	SetDrawError(ctx context.Context, id primitive.ObjectID, message string) error
}

// EntryRepository defines the interface for entry data operations.
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error)
	FindByPaymentReference(ctx context.Context, reference string) (*models.Entry, error)
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID, page, limit int) ([]*models.Entry, error)
	FindByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Entry, error)

	// FindConfirmedByRaffleID returns every confirmed entry in creation
	// order. This is the draw snapshot, so ordering must be stable.
	FindConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Entry, error)

	MarkRefundedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ParticipantRepository defines the interface for per-raffle
// participant aggregates.
type ParticipantRepository interface {
	// IncrementEntries upserts the wallet's aggregate for the raffle,
	// enforcing the per-user entry cap. Returns true when this was the
	// wallet's first entry in the raffle.
	IncrementEntries(ctx context.Context, raffleID primitive.ObjectID, wallet string, entries, paid, maxEntries int64, now time.Time) (bool, error)

	// Reverse undoes a previous IncrementEntries after a failed entry
	// sequence. wasFirst must be the value the increment returned.
	Reverse(ctx context.Context, raffleID primitive.ObjectID, wallet string, entries, paid int64, wasFirst bool) error

	FindByRaffleAndWallet(ctx context.Context, raffleID primitive.ObjectID, wallet string) (*models.Participant, error)
	CountByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error)
}

// WinnerRepository defines the interface for winner data operations.
type WinnerRepository interface {
	CreateMany(ctx context.Context, winners []*models.Winner) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Winner, error)
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error)
	FindByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Winner, error)
}

// PayoutRepository defines the interface for payout data operations.
// Payout status changes are CAS updates keyed on the current status so
// two sweepers can never process the same payout twice.
type PayoutRepository interface {
	CreateMany(ctx context.Context, payouts []*models.Payout) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payout, error)
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Payout, error)
	FindByStatus(ctx context.Context, status models.PayoutStatus, page, limit int) ([]*models.Payout, error)
	CountByStatus(ctx context.Context, status models.PayoutStatus) (int64, error)

	// FindDue returns payouts eligible for an attempt: pending ones and
	// failed ones that have not exhausted maxAttempts.
	FindDue(ctx context.Context, maxAttempts int, limit int) ([]*models.Payout, error)

	// BeginAttempt moves pending|failed -> processing and bumps the
	// attempt counter. False means the payout was not in an attemptable
	// state.
	BeginAttempt(ctx context.Context, id primitive.ObjectID) (bool, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, paymentReference string, processedAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id primitive.ObjectID, message string) (bool, error)
}

// StatsRepository defines the interface for the platform stats
// document.
type StatsRepository interface {
	Get(ctx context.Context) (*models.PlatformStats, error)
	Apply(ctx context.Context, delta models.StatsDelta) error
}

// AdminUserRepository defines the interface for admin user data
// operations.
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	Count(ctx context.Context) (int64, error)
}
