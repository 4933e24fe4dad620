package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allPayoutStatuses = []PayoutStatus{
	PayoutStatusPending,
	PayoutStatusProcessing,
	PayoutStatusPaid,
	PayoutStatusFailed,
}

func TestPayoutStatusTransitions(t *testing.T) {
	allowed := map[PayoutStatus][]PayoutStatus{
		PayoutStatusPending:    {PayoutStatusProcessing, PayoutStatusFailed},
		PayoutStatusProcessing: {PayoutStatusPaid, PayoutStatusFailed},
		PayoutStatusFailed:     {PayoutStatusProcessing},
		PayoutStatusPaid:       nil,
	}

	for from, legal := range allowed {
		legalSet := make(map[PayoutStatus]bool, len(legal))
		for _, to := range legal {
			legalSet[to] = true
		}
		for _, to := range allPayoutStatuses {
			require.Equal(t, legalSet[to], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

// A failed payout can be reopened for a retry; a paid one cannot.
func TestPaidIsTerminal(t *testing.T) {
	for _, to := range allPayoutStatuses {
		require.False(t, PayoutStatusPaid.CanTransition(to), "PAID -> %s", to)
	}
	require.True(t, PayoutStatusFailed.CanTransition(PayoutStatusProcessing))
}
