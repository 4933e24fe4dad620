package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleStatus represents the lifecycle status of a raffle
type RaffleStatus string

const (
	RaffleStatusScheduled RaffleStatus = "SCHEDULED"
	RaffleStatusActive    RaffleStatus = "ACTIVE"
	RaffleStatusEnding    RaffleStatus = "ENDING"
	RaffleStatusDrawing   RaffleStatus = "DRAWING"
	RaffleStatusCompleted RaffleStatus = "COMPLETED"
	RaffleStatusCancelled RaffleStatus = "CANCELLED"
)

// raffleTransitions is the closed transition table for the raffle lifecycle.
// A raffle never revisits a prior status.
var raffleTransitions = map[RaffleStatus][]RaffleStatus{
	RaffleStatusScheduled: {RaffleStatusActive, RaffleStatusCancelled},
	RaffleStatusActive:    {RaffleStatusEnding, RaffleStatusCancelled},
	RaffleStatusEnding:    {RaffleStatusDrawing, RaffleStatusCancelled},
	RaffleStatusDrawing:   {RaffleStatusCompleted},
	RaffleStatusCompleted: {},
	RaffleStatusCancelled: {},
}

// CanTransition reports whether moving a raffle from one status to another is legal.
func (s RaffleStatus) CanTransition(to RaffleStatus) bool {
	for _, next := range raffleTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// AcceptsEntries reports whether entries may still be submitted in this status.
func (s RaffleStatus) AcceptsEntries() bool {
	return s == RaffleStatusActive || s == RaffleStatusEnding
}

// RaffleType categorises a raffle and determines its default duration and entry cap
type RaffleType string

const (
	RaffleTypeDaily   RaffleType = "DAILY"
	RaffleTypeWeekly  RaffleType = "WEEKLY"
	RaffleTypeMonthly RaffleType = "MONTHLY"
)

// RaffleTypePreset holds the defaults a raffle inherits from its type
type RaffleTypePreset struct {
	Duration          time.Duration
	MaxEntriesPerUser int64
}

var raffleTypePresets = map[RaffleType]RaffleTypePreset{
	RaffleTypeDaily:   {Duration: 24 * time.Hour, MaxEntriesPerUser: 100},
	RaffleTypeWeekly:  {Duration: 7 * 24 * time.Hour, MaxEntriesPerUser: 500},
	RaffleTypeMonthly: {Duration: 30 * 24 * time.Hour, MaxEntriesPerUser: 2000},
}

// PresetFor returns the preset for a raffle type and whether the type is known.
func PresetFor(t RaffleType) (RaffleTypePreset, bool) {
	preset, ok := raffleTypePresets[t]
	return preset, ok
}

// PrizeTier defines one named slice of the winner payout.
// Tiers are stored ordered by percentage descending; that order is also
// the draw order.
type PrizeTier struct {
	Name        string `bson:"name" json:"name"`
	Percentage  int64  `bson:"percentage" json:"percentage"`
	WinnerCount int    `bson:"winnerCount" json:"winnerCount"`
}

// Raffle represents a timed raffle. All monetary amounts are in the
// stable coin's smallest unit. PrizePool, TotalEntries and
// TotalParticipants are only ever mutated through atomic increments.
type Raffle struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type               RaffleType         `bson:"type" json:"type"`
	Status             RaffleStatus       `bson:"status" json:"status"`
	EntryPrice         int64              `bson:"entryPrice" json:"entryPrice"`
	TotalEntries       int64              `bson:"totalEntries" json:"totalEntries"`
	TotalParticipants  int64              `bson:"totalParticipants" json:"totalParticipants"`
	PrizePool          int64              `bson:"prizePool" json:"prizePool"`
	ProtocolFee        int64              `bson:"protocolFee" json:"protocolFee"`
	WinnerPayout       int64              `bson:"winnerPayout" json:"winnerPayout"`
	WinnerCount        int                `bson:"winnerCount" json:"winnerCount"`
	PlatformFeePercent int64              `bson:"platformFeePercent" json:"platformFeePercent"`
	PrizeTiers         []PrizeTier        `bson:"prizeTiers" json:"prizeTiers"`
	MaxEntriesPerUser  int64              `bson:"maxEntriesPerUser" json:"maxEntriesPerUser"`
	StartTime          time.Time          `bson:"startTime" json:"startTime"`
	EndTime            time.Time          `bson:"endTime" json:"endTime"`
	DrawTime           time.Time          `bson:"drawTime,omitempty" json:"drawTime,omitempty"`
	RandomSeed         string             `bson:"randomSeed,omitempty" json:"randomSeed,omitempty"`
	DrawError          string             `bson:"drawError,omitempty" json:"drawError,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
