package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayoutStatus represents the money-movement state for one winner
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusPaid       PayoutStatus = "PAID"
	PayoutStatusFailed     PayoutStatus = "FAILED"
)

// payoutTransitions is the closed transition table for payouts.
// FAILED -> PROCESSING re-opens a payout for a retry; PAID is terminal.
var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutStatusPending:    {PayoutStatusProcessing, PayoutStatusFailed},
	PayoutStatusProcessing: {PayoutStatusPaid, PayoutStatusFailed},
	PayoutStatusFailed:     {PayoutStatusProcessing},
	PayoutStatusPaid:       {},
}

// CanTransition reports whether moving a payout from one status to another is legal.
func (s PayoutStatus) CanTransition(to PayoutStatus) bool {
	for _, next := range payoutTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Payout tracks the transfer of one winner's prize. Exactly one document
// exists per winner; Amount always equals the winner's Prize. Failed
// payouts keep the error and stay eligible for a retry sweep.
type Payout struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WinnerID         primitive.ObjectID `bson:"winnerId" json:"winnerId"`
	RaffleID         primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	WalletAddress    string             `bson:"walletAddress" json:"walletAddress"`
	Amount           int64              `bson:"amount" json:"amount"`
	Status           PayoutStatus       `bson:"status" json:"status"`
	PaymentReference string             `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	Error            string             `bson:"error,omitempty" json:"error,omitempty"`
	Attempts         int                `bson:"attempts" json:"attempts"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	ProcessedAt      time.Time          `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}
