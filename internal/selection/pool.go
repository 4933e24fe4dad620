// Package selection holds the pure draw-time computations: the prize
// pool split across tiers and the deterministic, seed-driven winner
// selection. Nothing in here touches storage or the clock; callers pass
// an immutable entry snapshot and get a reproducible result back.
package selection

import (
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
)

// PercentOf returns round-half-up of v*pct/100 in integer arithmetic.
// This is the single rounding policy used for all fee and tier math.
func PercentOf(v, pct int64) int64 {
	return (v*pct + 50) / 100
}

// TierAllocation is one prize tier with its computed amounts.
type TierAllocation struct {
	Name            string `json:"name"`
	Percentage      int64  `json:"percentage"`
	WinnerCount     int    `json:"winnerCount"`
	TierAmount      int64  `json:"tierAmount"`
	AmountPerWinner int64  `json:"amountPerWinner"`
}

// PoolSplit is the full allocation of a prize pool: the protocol fee,
// the winner payout and the per-tier amounts. Remainder is whatever the
// per-tier rounding left over (positive or negative, bounded by the
// number of tiers); it is added to the first winner of the top tier so
// the individual prizes sum to exactly WinnerPayout.
type PoolSplit struct {
	PrizePool    int64            `json:"prizePool"`
	ProtocolFee  int64            `json:"protocolFee"`
	WinnerPayout int64            `json:"winnerPayout"`
	Tiers        []TierAllocation `json:"tiers"`
	Remainder    int64            `json:"remainder"`
}

// SplitPool derives the protocol fee, winner payout and per-tier
// allocations from a prize pool. The fee is rounded half-up once; the
// payout is the exact complement so fee+payout always equals the pool.
// Tier amounts are rounded half-up from the payout; per-winner amounts
// use integer division.
func SplitPool(prizePool, feePercent int64, tiers []models.PrizeTier) PoolSplit {
	fee := PercentOf(prizePool, feePercent)
	payout := prizePool - fee

	split := PoolSplit{
		PrizePool:    prizePool,
		ProtocolFee:  fee,
		WinnerPayout: payout,
		Tiers:        make([]TierAllocation, 0, len(tiers)),
	}

	var distributed int64
	for _, tier := range tiers {
		amount := PercentOf(payout, tier.Percentage)
		perWinner := amount / int64(tier.WinnerCount)
		split.Tiers = append(split.Tiers, TierAllocation{
			Name:            tier.Name,
			Percentage:      tier.Percentage,
			WinnerCount:     tier.WinnerCount,
			TierAmount:      amount,
			AmountPerWinner: perWinner,
		})
		distributed += perWinner * int64(tier.WinnerCount)
	}
	split.Remainder = payout - distributed
	return split
}

// ValidateTiers checks a tier configuration at raffle creation time:
// percentages must sum to 100, tier winner counts must sum to
// winnerCount, and tiers must be ordered largest share first (that
// order is also the draw order).
func ValidateTiers(tiers []models.PrizeTier, winnerCount int) error {
	if len(tiers) == 0 {
		return apperrors.New(apperrors.KindValidation, "at least one prize tier is required")
	}
	if winnerCount <= 0 {
		return apperrors.New(apperrors.KindValidation, "winnerCount must be positive")
	}

	var pctSum int64
	winnerSum := 0
	for i, tier := range tiers {
		if tier.Name == "" {
			return apperrors.New(apperrors.KindValidation, "prize tier %d has no name", i)
		}
		if tier.Percentage <= 0 {
			return apperrors.New(apperrors.KindValidation, "prize tier %q percentage must be positive", tier.Name)
		}
		if tier.WinnerCount <= 0 {
			return apperrors.New(apperrors.KindValidation, "prize tier %q winner count must be positive", tier.Name)
		}
		if i > 0 && tier.Percentage > tiers[i-1].Percentage {
			return apperrors.New(apperrors.KindValidation, "prize tiers must be ordered largest share first")
		}
		pctSum += tier.Percentage
		winnerSum += tier.WinnerCount
	}
	if pctSum != 100 {
		return apperrors.New(apperrors.KindValidation, "prize tier percentages sum to %d, want 100", pctSum)
	}
	if winnerSum != winnerCount {
		return apperrors.New(apperrors.KindValidation, "prize tier winner counts sum to %d, want %d", winnerSum, winnerCount)
	}
	return nil
}
