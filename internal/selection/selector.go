package selection

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
)

// EntrySnapshot is one confirmed entry as seen at draw time. Snapshots
// are taken in entry creation order, which fixes the ticket numbering:
// the first entry owns tickets 1..NumEntries, the next one continues
// from there.
type EntrySnapshot struct {
	WalletAddress string
	NumEntries    int64
}

// SelectedWinner is one drawn ticket with its wallet, tier and prize.
type SelectedWinner struct {
	WalletAddress string `json:"walletAddress"`
	TicketNumber  int64  `json:"ticketNumber"`
	TotalTickets  int64  `json:"totalTickets"`
	Tier          string `json:"tier"`
	Prize         int64  `json:"prize"`
}

// DrawResult is the complete outcome of one draw in draw order.
type DrawResult struct {
	TotalTickets int64            `json:"totalTickets"`
	Winners      []SelectedWinner `json:"winners"`
}

// ticketRange is a contiguous block of tickets owned by one wallet.
type ticketRange struct {
	wallet string
	first  int64
	last   int64
}

func (r ticketRange) size() int64 {
	return r.last - r.first + 1
}

// SelectWinners runs the deterministic draw over an entry snapshot.
//
// Tickets are numbered 1..N in snapshot order. For winner i (counting
// from zero across all tiers) the rank is derived as
//
//	sha256(seedBytes || bigEndian64(i)) -> littleEndian64(h[:8]) mod remaining
//
// and mapped to the rank-th still-unselected ticket. After each win
// every ticket belonging to the winning wallet is removed, so a wallet
// wins at most once per raffle. Tiers are drawn in configuration order,
// largest share first; the rounding remainder goes to the first winner
// of the top tier. If the pool of eligible wallets runs out early the
// result simply holds fewer winners.
func SelectWinners(snapshot []EntrySnapshot, seed string, split PoolSplit) (*DrawResult, error) {
	seedBytes, err := hex.DecodeString(seed)
	if err != nil || len(seedBytes) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "random seed must be non-empty hex")
	}

	ranges := make([]ticketRange, 0, len(snapshot))
	var total int64
	for _, entry := range snapshot {
		if entry.NumEntries <= 0 {
			return nil, apperrors.New(apperrors.KindValidation, "snapshot entry for %s has no tickets", entry.WalletAddress)
		}
		ranges = append(ranges, ticketRange{
			wallet: entry.WalletAddress,
			first:  total + 1,
			last:   total + entry.NumEntries,
		})
		total += entry.NumEntries
	}
	if total == 0 {
		return nil, apperrors.New(apperrors.KindNoEntriesForDraw, "raffle has no confirmed entries")
	}

	result := &DrawResult{TotalTickets: total}
	remaining := total
	var counter uint64

	for tierIdx, tier := range split.Tiers {
		for i := 0; i < tier.WinnerCount; i++ {
			if remaining == 0 {
				return result, nil
			}
			rank := rankAt(seedBytes, counter, remaining)
			counter++

			ticket, wallet := ticketAt(ranges, rank)
			prize := tier.AmountPerWinner
			if tierIdx == 0 && i == 0 {
				prize += split.Remainder
			}
			result.Winners = append(result.Winners, SelectedWinner{
				WalletAddress: wallet,
				TicketNumber:  ticket,
				TotalTickets:  total,
				Tier:          tier.Name,
				Prize:         prize,
			})

			ranges, remaining = excludeWallet(ranges, wallet, remaining)
		}
	}
	return result, nil
}

// rankAt derives the rank of the next winning ticket among the
// remaining unselected ones. One hash per selection keeps the sequence
// verifiable from the seed alone.
func rankAt(seed []byte, counter uint64, remaining int64) int64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)

	h := sha256.New()
	h.Write(seed)
	h.Write(buf[:])
	sum := h.Sum(nil)

	return int64(binary.LittleEndian.Uint64(sum[:8]) % uint64(remaining))
}

// ticketAt maps a rank in [0, remaining) to the rank-th unselected
// ticket by walking the surviving ranges in order.
func ticketAt(ranges []ticketRange, rank int64) (int64, string) {
	for _, r := range ranges {
		if rank < r.size() {
			return r.first + rank, r.wallet
		}
		rank -= r.size()
	}
	// Unreachable while rank < remaining; keep the last ticket as a
	// safe answer rather than panicking inside a draw.
	last := ranges[len(ranges)-1]
	return last.last, last.wallet
}

// excludeWallet drops every range owned by the given wallet and returns
// the updated remaining ticket count.
func excludeWallet(ranges []ticketRange, wallet string, remaining int64) ([]ticketRange, int64) {
	kept := ranges[:0]
	for _, r := range ranges {
		if r.wallet == wallet {
			remaining -= r.size()
			continue
		}
		kept = append(kept, r)
	}
	return kept, remaining
}

// Matches reports whether a stored winner set is exactly the one the
// seed produces over the snapshot. Both sides are compared in ticket
// order so storage retrieval order does not matter.
func Matches(result *DrawResult, stored []*models.Winner) bool {
	if len(result.Winners) != len(stored) {
		return false
	}

	recomputed := make([]SelectedWinner, len(result.Winners))
	copy(recomputed, result.Winners)
	sort.Slice(recomputed, func(i, j int) bool {
		return recomputed[i].TicketNumber < recomputed[j].TicketNumber
	})

	actual := make([]*models.Winner, len(stored))
	copy(actual, stored)
	sort.Slice(actual, func(i, j int) bool {
		return actual[i].TicketNumber < actual[j].TicketNumber
	})

	for i, w := range recomputed {
		s := actual[i]
		if w.WalletAddress != s.WalletAddress ||
			w.TicketNumber != s.TicketNumber ||
			w.Tier != s.Tier ||
			w.Prize != s.Prize {
			return false
		}
	}
	return true
}
