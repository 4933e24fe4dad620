package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryStatus represents the status of a purchased entry
type EntryStatus string

const (
	EntryStatusConfirmed EntryStatus = "CONFIRMED"
	EntryStatusRefunded  EntryStatus = "REFUNDED"
)

// Entry represents one entry purchase: NumEntries consecutive tickets
// bought in a single confirmed payment. Immutable once created except
// for Status. PaymentReference is the upstream payment identifier and
// doubles as the idempotency key (unique across all entries).
type Entry struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID         primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	WalletAddress    string             `bson:"walletAddress" json:"walletAddress"`
	NumEntries       int64              `bson:"numEntries" json:"numEntries"`
	TotalPaid        int64              `bson:"totalPaid" json:"totalPaid"`
	PaymentReference string             `bson:"paymentReference" json:"paymentReference"`
	Status           EntryStatus        `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// Participant is the per-(raffle, wallet) aggregate behind the per-user
// entry cap and the totalParticipants counter. One document per wallet
// per raffle, updated with atomic increments.
type Participant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID      primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	WalletAddress string             `bson:"walletAddress" json:"walletAddress"`
	NumEntries    int64              `bson:"numEntries" json:"numEntries"`
	TotalPaid     int64              `bson:"totalPaid" json:"totalPaid"`
	FirstEntryAt  time.Time          `bson:"firstEntryAt" json:"firstEntryAt"`
}
