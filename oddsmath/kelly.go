package oddsmath

import "github.com/shopspring/decimal"

// KellyFraction returns the full-Kelly fraction of bankroll to stake given a
// fair win probability and decimal odds. A negative edge means no bet, so the
// result is clamped at zero, never a short position.
func KellyFraction(fairProbability, decimalOdds float64) float64 {
	if fairProbability <= 0 || fairProbability >= 1 || decimalOdds <= 1 {
		return 0
	}

	b := decimalOdds - 1 // net odds
	f := (b*fairProbability - (1 - fairProbability)) / b
	if f < 0 {
		return 0
	}
	return f
}

// SuggestedStake sizes a stake via fractional Kelly with a bankroll cap.
// The full Kelly fraction is damped by kellyMultiplier, capped at
// bankroll*maxStakePct, and rounded to the nearest roundingUnit. The cap is
// re-applied after rounding so the recommendation can never exceed it, and the
// result is never negative.
func SuggestedStake(bankroll decimal.Decimal, fairProbability float64, american int, kellyMultiplier, maxStakePct float64, roundingUnit decimal.Decimal) decimal.Decimal {
	dec, err := DecimalOdds(american)
	if err != nil {
		return decimal.Zero
	}
	if bankroll.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	f := KellyFraction(fairProbability, dec) * kellyMultiplier
	if f <= 0 {
		return decimal.Zero
	}

	stake := bankroll.Mul(decimal.NewFromFloat(f))

	cap := bankroll.Mul(decimal.NewFromFloat(maxStakePct))
	if stake.GreaterThan(cap) {
		stake = cap
	}

	if roundingUnit.GreaterThan(decimal.Zero) {
		stake = stake.Div(roundingUnit).Round(0).Mul(roundingUnit)
		if stake.GreaterThan(cap) {
			stake = stake.Sub(roundingUnit)
		}
	}

	if stake.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return stake
}
