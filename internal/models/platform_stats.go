package models

import "time"

// PlatformStats is the single platform-wide rollup document. Every field
// is maintained by atomic increments from the entry ledger, the raffle
// lifecycle and the payout tracker; it is never recomputed in-process.
type PlatformStats struct {
	ID               string    `bson:"_id" json:"-"`
	TotalRaffles     int64     `bson:"totalRaffles" json:"totalRaffles"`
	CompletedRaffles int64     `bson:"completedRaffles" json:"completedRaffles"`
	CancelledRaffles int64     `bson:"cancelledRaffles" json:"cancelledRaffles"`
	TotalEntries     int64     `bson:"totalEntries" json:"totalEntries"`
	TotalRevenue     int64     `bson:"totalRevenue" json:"totalRevenue"`
	TotalWinners     int64     `bson:"totalWinners" json:"totalWinners"`
	TotalPaidOut     int64     `bson:"totalPaidOut" json:"totalPaidOut"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PlatformStatsID is the _id of the single stats document.
const PlatformStatsID = "platform"

// StatsDelta is one atomic adjustment to the stats document. Zero
// fields are skipped, so a delta only touches the counters it names.
type StatsDelta struct {
	TotalRaffles     int64
	CompletedRaffles int64
	CancelledRaffles int64
	TotalEntries     int64
	TotalRevenue     int64
	TotalWinners     int64
	TotalPaidOut     int64
}

// PlatformStatsResponse is the GET /stats payload: the rollup document
// plus live payout queue depth.
type PlatformStatsResponse struct {
	*PlatformStats
	PendingPayouts int64 `json:"pendingPayouts"`
}
