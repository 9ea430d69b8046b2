package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Market identifies the bet market a pick was made on.
type Market string

const (
	MarketMoneyline Market = "moneyline"
	MarketSpread    Market = "spread"
	MarketTotal     Market = "total"
)

// PickStatus represents the lifecycle state of a pick
type PickStatus string

const (
	StatusPending PickStatus = "pending"
	StatusWon     PickStatus = "won"
	StatusLost    PickStatus = "lost"
	StatusPush    PickStatus = "push"
	StatusVoid    PickStatus = "void"
)

// IsTerminal reports whether the status is one of the four settled states.
func (s PickStatus) IsTerminal() bool {
	switch s {
	case StatusWon, StatusLost, StatusPush, StatusVoid:
		return true
	}
	return false
}

// Pick represents a single wagered (or hypothetical) bet in the database
type Pick struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Sport     string    `db:"sport" json:"sport"`
	League    string    `db:"league" json:"league"`
	EventID   string    `db:"event_id" json:"eventId"`
	HomeTeam  string    `db:"home_team" json:"homeTeam"`
	AwayTeam  string    `db:"away_team" json:"awayTeam"`
	StartTime time.Time `db:"start_time" json:"startTime"`

	Market    Market   `db:"market" json:"market"`
	Selection string   `db:"selection" json:"selection"`
	Line      *float64 `db:"line" json:"line,omitempty"` // required for spread/total, nil for moneyline

	Odds               int             `db:"odds" json:"odds"` // American odds
	Stake              decimal.Decimal `db:"stake" json:"stake"`
	ImpliedProbability float64         `db:"implied_probability" json:"impliedProbability"`
	ToWin              decimal.Decimal `db:"to_win" json:"toWin"`

	Status        PickStatus `db:"status" json:"status"`
	OutcomeDetail string     `db:"outcome_detail" json:"outcomeDetail"`
	SettledAt     *time.Time `db:"settled_at" json:"settledAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// GradeOutcome is the result of grading a pick against a final score.
type GradeOutcome struct {
	Status PickStatus
	Detail string
}
