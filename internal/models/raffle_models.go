package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateRaffleRequest is the admin request to schedule a new raffle.
// Omitted startTime means "open now"; omitted maxEntriesPerUser falls
// back to the raffle type's preset.
type CreateRaffleRequest struct {
	Type               RaffleType  `json:"type" binding:"required"`
	EntryPrice         int64       `json:"entryPrice" binding:"required,gt=0"`
	StartTime          time.Time   `json:"startTime"`
	WinnerCount        int         `json:"winnerCount" binding:"required,gt=0"`
	PrizeTiers         []PrizeTier `json:"prizeTiers" binding:"required"`
	PlatformFeePercent int64       `json:"platformFeePercent"`
	MaxEntriesPerUser  int64       `json:"maxEntriesPerUser"`
}

// SubmitEntryRequest is the payment collaborator's confirmation of a
// paid entry. The paymentReference doubles as the idempotency key.
type SubmitEntryRequest struct {
	RaffleID         string `json:"raffleId" binding:"required"`
	WalletAddress    string `json:"walletAddress" binding:"required"`
	NumEntries       int64  `json:"numEntries" binding:"required,gt=0"`
	TotalPaid        int64  `json:"totalPaid" binding:"required,gt=0"`
	PaymentReference string `json:"paymentReference" binding:"required"`
}

// PayoutAttemptRequest records the outcome of a transfer attempt made
// outside the sweep.
type PayoutAttemptRequest struct {
	Success          bool   `json:"success"`
	PaymentReference string `json:"paymentReference"`
	Error            string `json:"error"`
}

// DrawVerification is the public verification report for a completed
// draw: the stored seed, the recomputed selection's ticket count and
// whether the stored winners match the recomputation.
type DrawVerification struct {
	RaffleID     primitive.ObjectID `json:"raffleId"`
	RandomSeed   string             `json:"randomSeed"`
	TotalTickets int64              `json:"totalTickets"`
	Valid        bool               `json:"valid"`
	Winners      []*Winner          `json:"winners"`
}

// SweepResult summarizes one payout sweep run.
type SweepResult struct {
	Eligible  int `json:"eligible"`
	Attempted int `json:"attempted"`
	Paid      int `json:"paid"`
	Failed    int `json:"failed"`
}
