// Package oddsmath provides pure conversions between American odds, decimal
// odds and implied probability, plus payout and Kelly stake sizing.
//
// Monetary values (stakes, payouts) use shopspring/decimal, never float64.
// Probabilities and Kelly fractions stay float64.
package oddsmath

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidOdds is returned for American odds of 0, which have no meaning.
var ErrInvalidOdds = errors.New("invalid American odds: cannot be 0")

var hundred = decimal.NewFromInt(100)

// ImpliedProbability converts American odds to the probability implied by the
// price. +150 → 0.40, -120 → 0.545...
func ImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, ErrInvalidOdds
	}

	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}

	abs := float64(-american)
	return abs / (abs + 100.0), nil
}

// DecimalOdds converts American odds to decimal odds.
// +150 → 2.50, -150 → 1.67
func DecimalOdds(american int) (float64, error) {
	if american == 0 {
		return 0, ErrInvalidOdds
	}

	if american > 0 {
		return 1.0 + float64(american)/100.0, nil
	}

	return 1.0 + 100.0/float64(-american), nil
}

// PayoutOnWin returns the profit (excluding returned stake) for a winning bet
// of stake units at the given American odds. Bad input (zero odds or a
// non-positive stake) yields zero rather than an error: this feeds
// user-facing forms and must never blow up on a half-filled pick.
func PayoutOnWin(stake decimal.Decimal, american int) decimal.Decimal {
	if american == 0 || stake.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	if american > 0 {
		return stake.Mul(decimal.NewFromInt(int64(american))).Div(hundred)
	}

	return stake.Mul(hundred).Div(decimal.NewFromInt(int64(-american)))
}
