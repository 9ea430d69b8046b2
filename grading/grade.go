// Package grading implements the market rules that turn a final score into a
// pick outcome. Grading is a pure function of (market, selection, line,
// homeScore, awayScore): no I/O, no state, and it never fails; anything it
// cannot resolve becomes a void outcome with the reason recorded in the
// detail string.
//
// Selection matching here is exact (case-insensitive against the pick's own
// stored team names or the literal "home"/"away"). The fuzzy alias matching
// used for display enrichment elsewhere must never be used for grading;
// settled money requires an auditable match.
package grading

import (
	"fmt"
	"math"
	"strings"

	"picktrack/models"
)

type side int

const (
	sideNone side = iota
	sideHome
	sideAway
)

// Grade resolves a pick against a final score. Scores are validated by the
// caller; Grade itself is total over its inputs.
func Grade(pick *models.Pick, homeScore, awayScore int) models.GradeOutcome {
	detail := scoreline(pick, homeScore, awayScore)

	switch pick.Market {
	case models.MarketMoneyline:
		return gradeMoneyline(pick, homeScore, awayScore, detail)
	case models.MarketSpread:
		return gradeSpread(pick, homeScore, awayScore, detail)
	case models.MarketTotal:
		return gradeTotal(pick, homeScore, awayScore, detail)
	default:
		return void(detail, "unknown market")
	}
}

func gradeMoneyline(pick *models.Pick, homeScore, awayScore int, detail string) models.GradeOutcome {
	if homeScore == awayScore {
		return models.GradeOutcome{Status: models.StatusPush, Detail: detail}
	}

	picked := resolveSide(pick, pick.Selection)
	if picked == sideNone {
		return void(detail, "selection not matched to a team")
	}

	winner := sideHome
	if awayScore > homeScore {
		winner = sideAway
	}

	if picked == winner {
		return models.GradeOutcome{Status: models.StatusWon, Detail: detail}
	}
	return models.GradeOutcome{Status: models.StatusLost, Detail: detail}
}

func gradeSpread(pick *models.Pick, homeScore, awayScore int, detail string) models.GradeOutcome {
	line, ok := finiteLine(pick)
	if !ok {
		return void(detail, "no spread line")
	}

	picked := resolveSide(pick, pick.Selection)
	if picked == sideNone {
		return void(detail, "selection not matched to a team")
	}

	selected, opponent := float64(homeScore), float64(awayScore)
	if picked == sideAway {
		selected, opponent = float64(awayScore), float64(homeScore)
	}

	adjusted := selected + line
	switch {
	case adjusted > opponent:
		return models.GradeOutcome{Status: models.StatusWon, Detail: detail}
	case adjusted < opponent:
		return models.GradeOutcome{Status: models.StatusLost, Detail: detail}
	default:
		return models.GradeOutcome{Status: models.StatusPush, Detail: detail}
	}
}

func gradeTotal(pick *models.Pick, homeScore, awayScore int, detail string) models.GradeOutcome {
	line, ok := finiteLine(pick)
	if !ok {
		return void(detail, "no total line")
	}

	selection := strings.TrimSpace(pick.Selection)
	over := strings.EqualFold(selection, "over")
	under := strings.EqualFold(selection, "under")
	if !over && !under {
		return void(detail, "total selection must be Over or Under")
	}

	sum := float64(homeScore + awayScore)
	if sum == line {
		return models.GradeOutcome{Status: models.StatusPush, Detail: detail}
	}

	wentOver := sum > line
	if wentOver == over {
		return models.GradeOutcome{Status: models.StatusWon, Detail: detail}
	}
	return models.GradeOutcome{Status: models.StatusLost, Detail: detail}
}

// resolveSide maps a selection to home or away by exact case-insensitive
// match against the pick's stored team names or the words "home"/"away".
func resolveSide(pick *models.Pick, selection string) side {
	s := strings.TrimSpace(selection)
	switch {
	case strings.EqualFold(s, "home"), strings.EqualFold(s, strings.TrimSpace(pick.HomeTeam)):
		return sideHome
	case strings.EqualFold(s, "away"), strings.EqualFold(s, strings.TrimSpace(pick.AwayTeam)):
		return sideAway
	default:
		return sideNone
	}
}

func finiteLine(pick *models.Pick) (float64, bool) {
	if pick.Line == nil {
		return 0, false
	}
	line := *pick.Line
	if math.IsNaN(line) || math.IsInf(line, 0) {
		return 0, false
	}
	return line, true
}

func scoreline(pick *models.Pick, homeScore, awayScore int) string {
	return fmt.Sprintf("%s %d @ %s %d", pick.AwayTeam, awayScore, pick.HomeTeam, homeScore)
}

func void(detail, reason string) models.GradeOutcome {
	return models.GradeOutcome{
		Status: models.StatusVoid,
		Detail: fmt.Sprintf("%s (%s)", detail, reason),
	}
}
