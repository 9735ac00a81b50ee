package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchStale — переход счёта не прошёл, потому что матч уже не в
	// ожидаемом состоянии: конкурирующая запись успела раньше.
	ErrMatchStale = errors.New("match is no longer in the expected state")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error)

	UpdateScoreSubmission(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateConfirmation(ctx context.Context, exec SQLExecutor, id, confirmerUserID int, completedAt time.Time) error
	UpdateDispute(ctx context.Context, exec SQLExecutor, id int, reason string) error
	UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time, venue *string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, challenger_team_id, challenged_team_id, category_id, status,
	set_scores_challenger, set_scores_challenged, sets_won_challenger, sets_won_challenged,
	winner_team_id, score_submitted_by, score_confirmed_by, score_disputed, dispute_reason,
	scheduled_at, venue, completed_at, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.ChallengerTeamID,
		&m.ChallengedTeamID,
		&m.CategoryID,
		&m.Status,
		pq.Array(&m.SetScoresChallenger),
		pq.Array(&m.SetScoresChallenged),
		&m.SetsWonChallenger,
		&m.SetsWonChallenged,
		&m.WinnerTeamID,
		&m.ScoreSubmittedBy,
		&m.ScoreConfirmedBy,
		&m.ScoreDisputed,
		&m.DisputeReason,
		&m.ScheduledAt,
		&m.Venue,
		&m.CompletedAt,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches (challenger_team_id, challenged_team_id, category_id, status, scheduled_at, venue)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return exec.QueryRowContext(ctx, query,
		match.ChallengerTeamID,
		match.ChallengedTeamID,
		match.CategoryID,
		match.Status,
		match.ScheduledAt,
		match.Venue,
	).Scan(&match.ID, &match.CreatedAt)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE challenger_team_id = $1 OR challenged_team_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for team %d: %w", teamID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}

// UpdateScoreSubmission записывает поданный счёт. Предикат статуса
// не пускает подачу по завершённому или отменённому матчу.
func (r *postgresMatchRepository) UpdateScoreSubmission(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET set_scores_challenger = $1,
		    set_scores_challenged = $2,
		    sets_won_challenger = $3,
		    sets_won_challenged = $4,
		    winner_team_id = $5,
		    score_submitted_by = $6,
		    score_disputed = FALSE,
		    dispute_reason = NULL,
		    status = 'pending'
		WHERE id = $7 AND status IN ('pending', 'scheduled', 'in_progress')`

	result, err := exec.ExecContext(ctx, query,
		pq.Array(match.SetScoresChallenger),
		pq.Array(match.SetScoresChallenged),
		match.SetsWonChallenger,
		match.SetsWonChallenged,
		match.WinnerTeamID,
		match.ScoreSubmittedBy,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateScoreSubmission: failed for match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchStale)
}

// UpdateConfirmation завершает матч. Ноль строк — значит счёт уже
// подтверждён, оспорен или не был подан: вызывающий должен перечитать.
func (r *postgresMatchRepository) UpdateConfirmation(ctx context.Context, exec SQLExecutor, id, confirmerUserID int, completedAt time.Time) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET score_confirmed_by = $1, status = 'completed', completed_at = $2
		WHERE id = $3 AND status = 'pending' AND score_submitted_by IS NOT NULL`

	result, err := exec.ExecContext(ctx, query, confirmerUserID, completedAt, id)
	if err != nil {
		return fmt.Errorf("UpdateConfirmation: failed for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchStale)
}

// UpdateDispute обнуляет все поля счёта и возвращает матч в in_progress.
func (r *postgresMatchRepository) UpdateDispute(ctx context.Context, exec SQLExecutor, id int, reason string) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET set_scores_challenger = NULL,
		    set_scores_challenged = NULL,
		    sets_won_challenger = NULL,
		    sets_won_challenged = NULL,
		    winner_team_id = NULL,
		    completed_at = NULL,
		    score_submitted_by = NULL,
		    score_confirmed_by = NULL,
		    score_disputed = TRUE,
		    dispute_reason = $1,
		    status = 'in_progress'
		WHERE id = $2 AND status = 'pending' AND score_submitted_by IS NOT NULL`

	result, err := exec.ExecContext(ctx, query, reason, id)
	if err != nil {
		return fmt.Errorf("UpdateDispute: failed for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchStale)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time, venue *string) error {
	query := `
		UPDATE matches
		SET scheduled_at = $1, venue = $2, status = 'scheduled'
		WHERE id = $3 AND status IN ('pending', 'scheduled')`

	result, err := r.db.ExecContext(ctx, query, scheduledAt, venue, id)
	if err != nil {
		return fmt.Errorf("UpdateSchedule: failed for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchStale)
}
