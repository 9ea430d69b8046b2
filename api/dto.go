package api

import (
	"math"
	"time"

	"picktrack/models"
	"picktrack/service"

	"github.com/google/uuid"
)

// createPickRequest is the payload for POST /api/picks
type createPickRequest struct {
	Sport     string        `json:"sport"`
	League    string        `json:"league"`
	EventID   string        `json:"eventId"`
	HomeTeam  string        `json:"homeTeam"`
	AwayTeam  string        `json:"awayTeam"`
	StartTime time.Time     `json:"startTime"`
	Market    models.Market `json:"market"`
	Selection string        `json:"selection"`
	Line      *float64      `json:"line"`
	Odds      int           `json:"odds"`
	Stake     float64       `json:"stake"`
}

// gradeRequest is the payload for POST /api/grade. Either pickId or a
// homeTeam/awayTeam pair must be supplied.
type gradeRequest struct {
	PickID     *uuid.UUID `json:"pickId"`
	HomeTeam   string     `json:"homeTeam"`
	AwayTeam   string     `json:"awayTeam"`
	StartTime  *time.Time `json:"startTime"`
	HomeScore  *float64   `json:"homeScore"`
	AwayScore  *float64   `json:"awayScore"`
	StakeUnits *float64   `json:"stakeUnits"`
}

// bulkGradeRequest is the payload for POST /api/grade/bulk
type bulkGradeRequest struct {
	Items []bulkGradeItemRequest `json:"items"`
}

type bulkGradeItemRequest struct {
	PickID    uuid.UUID `json:"pickId"`
	HomeScore *float64  `json:"homeScore"`
	AwayScore *float64  `json:"awayScore"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// intScore validates that a JSON score is a present, finite integer. Scores
// arrive as JSON numbers; anything fractional is rejected before grading runs.
func intScore(v *float64, name string) (int, error) {
	if v == nil {
		return 0, service.NewValidationError("%s is required", name)
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, service.NewValidationError("%s must be an integer", name)
	}
	return int(f), nil
}
