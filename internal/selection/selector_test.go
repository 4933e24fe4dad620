package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
)

// Seeds are arbitrary 32-byte hex strings; the expected tickets below
// were derived once from the published algorithm and pinned.
const (
	seedMultiTier = "2442ffeede6ab0781f47fb14845f2683237ccb5e6cd26af1d2be97f972d24b9e"
	seedTicket7   = "6b6b9feff0a6dc15ef821cfd5048566a6fa235aa0c43fb7881531da2efc6800d"
	seedRemainder = "7fc3c2c1eb9394af89bee45c15f85978439e1a17e71a3562f1706b10ea641b04"
	seedFullFill  = "899495bbab1c65f7145b3cd960010db25dda42adcb41885e3a375d011b8e2e90"
)

func multiTierFixture() ([]EntrySnapshot, PoolSplit) {
	snapshot := []EntrySnapshot{
		{WalletAddress: "0xaaa", NumEntries: 10},
		{WalletAddress: "0xbbb", NumEntries: 5},
		{WalletAddress: "0xccc", NumEntries: 25},
		{WalletAddress: "0xddd", NumEntries: 1},
		{WalletAddress: "0xeee", NumEntries: 9},
	}
	split := SplitPool(1_000_000, 10, []models.PrizeTier{
		{Name: "grand", Percentage: 50, WinnerCount: 1},
		{Name: "second", Percentage: 30, WinnerCount: 2},
		{Name: "third", Percentage: 20, WinnerCount: 3},
	})
	return snapshot, split
}

func TestSelectWinnersMultiTier(t *testing.T) {
	snapshot, split := multiTierFixture()

	result, err := SelectWinners(snapshot, seedMultiTier, split)
	require.NoError(t, err)
	require.Equal(t, int64(50), result.TotalTickets)

	// Five wallets and six slots: the pool runs dry after the fifth
	// win, so the sixth slot stays unfilled.
	want := []SelectedWinner{
		{WalletAddress: "0xeee", TicketNumber: 49, TotalTickets: 50, Tier: "grand", Prize: 450_000},
		{WalletAddress: "0xaaa", TicketNumber: 7, TotalTickets: 50, Tier: "second", Prize: 135_000},
		{WalletAddress: "0xccc", TicketNumber: 35, TotalTickets: 50, Tier: "second", Prize: 135_000},
		{WalletAddress: "0xbbb", TicketNumber: 15, TotalTickets: 50, Tier: "third", Prize: 60_000},
		{WalletAddress: "0xddd", TicketNumber: 41, TotalTickets: 50, Tier: "third", Prize: 60_000},
	}
	require.Equal(t, want, result.Winners)
}

func TestSelectWinnersDeterministic(t *testing.T) {
	snapshot, split := multiTierFixture()

	first, err := SelectWinners(snapshot, seedMultiTier, split)
	require.NoError(t, err)
	second, err := SelectWinners(snapshot, seedMultiTier, split)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestSelectWinnersOneWinPerWallet(t *testing.T) {
	snapshot, split := multiTierFixture()

	result, err := SelectWinners(snapshot, seedMultiTier, split)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, w := range result.Winners {
		require.False(t, seen[w.WalletAddress], "wallet %s won twice", w.WalletAddress)
		seen[w.WalletAddress] = true
	}
}

func TestSelectWinnersTicketOwnerWins(t *testing.T) {
	// Wallet 0xW holds tickets 1..10, wallet 0xX holds 11..15. The
	// pinned seed makes the draw land on ticket 7.
	snapshot := []EntrySnapshot{
		{WalletAddress: "0xW", NumEntries: 10},
		{WalletAddress: "0xX", NumEntries: 5},
	}
	split := SplitPool(75, 10, []models.PrizeTier{{Name: "grand", Percentage: 100, WinnerCount: 1}})

	result, err := SelectWinners(snapshot, seedTicket7, split)
	require.NoError(t, err)
	require.Len(t, result.Winners, 1)
	require.Equal(t, "0xW", result.Winners[0].WalletAddress)
	require.Equal(t, int64(7), result.Winners[0].TicketNumber)
	require.Equal(t, int64(67), result.Winners[0].Prize)
}

func TestSelectWinnersSingleParticipant(t *testing.T) {
	snapshot := []EntrySnapshot{{WalletAddress: "0xsolo", NumEntries: 8}}
	split := SplitPool(600, 10, []models.PrizeTier{{Name: "grand", Percentage: 100, WinnerCount: 3}})

	result, err := SelectWinners(snapshot, seedRemainder, split)
	require.NoError(t, err)
	require.Len(t, result.Winners, 1)
	require.Equal(t, "0xsolo", result.Winners[0].WalletAddress)
	require.Equal(t, int64(180), result.Winners[0].Prize)
}

func TestSelectWinnersRemainderToTopTier(t *testing.T) {
	snapshot := []EntrySnapshot{
		{WalletAddress: "0xone", NumEntries: 3},
		{WalletAddress: "0xtwo", NumEntries: 4},
		{WalletAddress: "0xthree", NumEntries: 3},
	}
	split := SplitPool(1003, 10, []models.PrizeTier{
		{Name: "grand", Percentage: 60, WinnerCount: 1},
		{Name: "minor", Percentage: 40, WinnerCount: 3},
	})
	require.Equal(t, int64(1), split.Remainder)

	result, err := SelectWinners(snapshot, seedRemainder, split)
	require.NoError(t, err)
	require.Len(t, result.Winners, 3)
	require.Equal(t, "0xthree", result.Winners[0].WalletAddress)
	require.Equal(t, int64(543), result.Winners[0].Prize)
	require.Equal(t, int64(120), result.Winners[1].Prize)
	require.Equal(t, int64(120), result.Winners[2].Prize)
}

func TestSelectWinnersPrizesSumToPayout(t *testing.T) {
	// Eight wallets for six slots, so every slot fills. The grand
	// winner absorbs the rounding remainder and the prizes add up to
	// the winner payout exactly.
	snapshot := []EntrySnapshot{
		{WalletAddress: "0xw1", NumEntries: 2},
		{WalletAddress: "0xw2", NumEntries: 7},
		{WalletAddress: "0xw3", NumEntries: 1},
		{WalletAddress: "0xw4", NumEntries: 12},
		{WalletAddress: "0xw5", NumEntries: 4},
		{WalletAddress: "0xw6", NumEntries: 6},
		{WalletAddress: "0xw7", NumEntries: 3},
		{WalletAddress: "0xw8", NumEntries: 5},
	}
	split := SplitPool(999_999, 7, []models.PrizeTier{
		{Name: "grand", Percentage: 50, WinnerCount: 1},
		{Name: "second", Percentage: 30, WinnerCount: 2},
		{Name: "third", Percentage: 20, WinnerCount: 3},
	})
	require.Equal(t, int64(-1), split.Remainder)

	result, err := SelectWinners(snapshot, seedFullFill, split)
	require.NoError(t, err)
	require.Len(t, result.Winners, 6)
	require.Equal(t, int64(464_999), result.Winners[0].Prize)

	var total int64
	for _, w := range result.Winners {
		total += w.Prize
	}
	require.Equal(t, split.WinnerPayout, total)
}

func TestSelectWinnersEmptySnapshot(t *testing.T) {
	split := SplitPool(100, 10, []models.PrizeTier{{Name: "grand", Percentage: 100, WinnerCount: 1}})

	_, err := SelectWinners(nil, seedMultiTier, split)
	require.Error(t, err)
	require.Equal(t, apperrors.KindNoEntriesForDraw, apperrors.KindOf(err))
}

func TestSelectWinnersRejectsBadSeed(t *testing.T) {
	snapshot := []EntrySnapshot{{WalletAddress: "0xaaa", NumEntries: 1}}
	split := SplitPool(100, 10, []models.PrizeTier{{Name: "grand", Percentage: 100, WinnerCount: 1}})

	for _, seed := range []string{"", "zz", "abc"} {
		_, err := SelectWinners(snapshot, seed, split)
		require.Error(t, err, "seed %q", seed)
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestSelectWinnersRejectsEmptyEntry(t *testing.T) {
	snapshot := []EntrySnapshot{
		{WalletAddress: "0xaaa", NumEntries: 1},
		{WalletAddress: "0xbbb", NumEntries: 0},
	}
	split := SplitPool(100, 10, []models.PrizeTier{{Name: "grand", Percentage: 100, WinnerCount: 1}})

	_, err := SelectWinners(snapshot, seedMultiTier, split)
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestMatches(t *testing.T) {
	snapshot, split := multiTierFixture()
	result, err := SelectWinners(snapshot, seedMultiTier, split)
	require.NoError(t, err)

	stored := make([]*models.Winner, 0, len(result.Winners))
	for _, w := range result.Winners {
		stored = append(stored, &models.Winner{
			WalletAddress: w.WalletAddress,
			TicketNumber:  w.TicketNumber,
			TotalTickets:  w.TotalTickets,
			Tier:          w.Tier,
			Prize:         w.Prize,
		})
	}

	// Retrieval order must not matter.
	stored[0], stored[len(stored)-1] = stored[len(stored)-1], stored[0]
	require.True(t, Matches(result, stored))

	tamper := func(mutate func([]*models.Winner)) []*models.Winner {
		tampered := make([]*models.Winner, 0, len(stored))
		for _, w := range stored {
			clone := *w
			tampered = append(tampered, &clone)
		}
		mutate(tampered)
		return tampered
	}

	require.False(t, Matches(result, tamper(func(ws []*models.Winner) { ws[1].Prize++ })))
	require.False(t, Matches(result, tamper(func(ws []*models.Winner) { ws[2].TicketNumber++ })))
	require.False(t, Matches(result, stored[:len(stored)-1]))
}
