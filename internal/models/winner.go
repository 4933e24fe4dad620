package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Winner represents a winner produced by a draw. TicketNumber is the
// winning ticket (1..TotalTickets) and TotalTickets the snapshot size at
// draw time, so the selection can be re-verified from the stored seed.
// Winner rows are written once and never recomputed.
type Winner struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID      primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	WalletAddress string             `bson:"walletAddress" json:"walletAddress"`
	TicketNumber  int64              `bson:"ticketNumber" json:"ticketNumber"`
	TotalTickets  int64              `bson:"totalTickets" json:"totalTickets"`
	Prize         int64              `bson:"prize" json:"prize"`
	Tier          string             `bson:"tier" json:"tier"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
