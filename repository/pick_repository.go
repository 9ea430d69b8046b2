package repository

import (
	"context"
	"fmt"

	"picktrack/database"
	"picktrack/models"
	"picktrack/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PickRepository implements the service.PickRepository interface
type PickRepository struct {
	q queryable
}

// NewPickRepository creates a new pick repository
func NewPickRepository(db *database.DB) *PickRepository {
	return &PickRepository{q: db.Pool}
}

// newPickRepositoryWithTx creates a new pick repository with a transaction
func newPickRepositoryWithTx(tx queryable) *PickRepository {
	return &PickRepository{q: tx}
}

const pickColumns = `
	id, sport, league, event_id, home_team, away_team, start_time,
	market, selection, line, odds, stake, implied_probability, to_win,
	status, outcome_detail, settled_at, created_at
`

// Create inserts a new pick
func (r *PickRepository) Create(ctx context.Context, pick *models.Pick) error {
	query := `
		INSERT INTO picks
		(id, sport, league, event_id, home_team, away_team, start_time,
		 market, selection, line, odds, stake, implied_probability, to_win,
		 status, outcome_detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		pick.ID,
		pick.Sport,
		pick.League,
		pick.EventID,
		pick.HomeTeam,
		pick.AwayTeam,
		pick.StartTime,
		pick.Market,
		pick.Selection,
		pick.Line,
		pick.Odds,
		pick.Stake,
		pick.ImpliedProbability,
		pick.ToWin,
		pick.Status,
		pick.OutcomeDetail,
	).Scan(&pick.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pick %s: %w", pick.ID, err)
	}

	return nil
}

// GetByID retrieves a pick by its ID, returning nil when absent
func (r *PickRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE id = $1`

	pick, err := scanPick(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick %s: %w", id, err)
	}

	return pick, nil
}

// FindPending returns all pending picks for a team pair, matched
// case-insensitively, optionally bounded by a start-time window
func (r *PickRepository) FindPending(ctx context.Context, homeTeam, awayTeam string, window *service.TimeWindow) ([]*models.Pick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE status = 'pending'
		  AND LOWER(home_team) = LOWER($1)
		  AND LOWER(away_team) = LOWER($2)
	`
	args := []any{homeTeam, awayTeam}

	if window != nil {
		query += ` AND start_time >= $3 AND start_time <= $4`
		args = append(args, window.From, window.To)
	}
	query += ` ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending picks for %s/%s: %w", homeTeam, awayTeam, err)
	}
	defer rows.Close()

	return collectPicks(rows)
}

// List returns picks, newest first, optionally filtered by status
func (r *PickRepository) List(ctx context.Context, status *models.PickStatus, limit int) ([]*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks`
	args := []any{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	return collectPicks(rows)
}

// UpdateSettlement persists a pick's status, outcome detail and settled-at time
func (r *PickRepository) UpdateSettlement(ctx context.Context, pick *models.Pick) error {
	query := `
		UPDATE picks
		SET status = $2, outcome_detail = $3, settled_at = $4
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, pick.ID, pick.Status, pick.OutcomeDetail, pick.SettledAt)
	if err != nil {
		return fmt.Errorf("failed to update pick %s: %w", pick.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pick %s not found for update", pick.ID)
	}

	return nil
}

// CountByStatus returns the number of picks in each status
func (r *PickRepository) CountByStatus(ctx context.Context) (map[models.PickStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM picks GROUP BY status`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count picks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.PickStatus]int)
	for rows.Next() {
		var status models.PickStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pick count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pick counts: %w", err)
	}

	return counts, nil
}

func scanPick(row pgx.Row) (*models.Pick, error) {
	var pick models.Pick
	err := row.Scan(
		&pick.ID,
		&pick.Sport,
		&pick.League,
		&pick.EventID,
		&pick.HomeTeam,
		&pick.AwayTeam,
		&pick.StartTime,
		&pick.Market,
		&pick.Selection,
		&pick.Line,
		&pick.Odds,
		&pick.Stake,
		&pick.ImpliedProbability,
		&pick.ToWin,
		&pick.Status,
		&pick.OutcomeDetail,
		&pick.SettledAt,
		&pick.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pick, nil
}

func collectPicks(rows pgx.Rows) ([]*models.Pick, error) {
	var picks []*models.Pick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate picks: %w", err)
	}

	return picks, nil
}
