package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var allRaffleStatuses = []RaffleStatus{
	RaffleStatusScheduled,
	RaffleStatusActive,
	RaffleStatusEnding,
	RaffleStatusDrawing,
	RaffleStatusCompleted,
	RaffleStatusCancelled,
}

func TestRaffleStatusTransitions(t *testing.T) {
	allowed := map[RaffleStatus][]RaffleStatus{
		RaffleStatusScheduled: {RaffleStatusActive, RaffleStatusCancelled},
		RaffleStatusActive:    {RaffleStatusEnding, RaffleStatusCancelled},
		RaffleStatusEnding:    {RaffleStatusDrawing, RaffleStatusCancelled},
		RaffleStatusDrawing:   {RaffleStatusCompleted},
		RaffleStatusCompleted: nil,
		RaffleStatusCancelled: nil,
	}

	for from, legal := range allowed {
		legalSet := make(map[RaffleStatus]bool, len(legal))
		for _, to := range legal {
			legalSet[to] = true
		}
		for _, to := range allRaffleStatuses {
			require.Equal(t, legalSet[to], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

// Completed and cancelled are terminal, and nothing reaches a status
// that precedes it in the lifecycle.
func TestRaffleStatusNeverRevisits(t *testing.T) {
	order := map[RaffleStatus]int{
		RaffleStatusScheduled: 0,
		RaffleStatusActive:    1,
		RaffleStatusEnding:    2,
		RaffleStatusDrawing:   3,
		RaffleStatusCompleted: 4,
		RaffleStatusCancelled: 4,
	}
	for _, from := range allRaffleStatuses {
		for _, to := range allRaffleStatuses {
			if from.CanTransition(to) {
				require.Greater(t, order[to], order[from], "%s -> %s moves backwards", from, to)
			}
		}
	}
}

func TestRaffleStatusAcceptsEntries(t *testing.T) {
	accepting := map[RaffleStatus]bool{
		RaffleStatusActive: true,
		RaffleStatusEnding: true,
	}
	for _, status := range allRaffleStatuses {
		require.Equal(t, accepting[status], status.AcceptsEntries(), "status %s", status)
	}
}

func TestPresetFor(t *testing.T) {
	daily, ok := PresetFor(RaffleTypeDaily)
	require.True(t, ok)
	require.Equal(t, 24*time.Hour, daily.Duration)
	require.Equal(t, int64(100), daily.MaxEntriesPerUser)

	weekly, ok := PresetFor(RaffleTypeWeekly)
	require.True(t, ok)
	require.Equal(t, 7*24*time.Hour, weekly.Duration)
	require.Equal(t, int64(500), weekly.MaxEntriesPerUser)

	monthly, ok := PresetFor(RaffleTypeMonthly)
	require.True(t, ok)
	require.Equal(t, 30*24*time.Hour, monthly.Duration)
	require.Equal(t, int64(2000), monthly.MaxEntriesPerUser)

	_, ok = PresetFor(RaffleType("HOURLY"))
	require.False(t, ok)
}
