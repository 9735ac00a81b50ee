package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrChallengeStale возвращается, когда переход статуса не прошёл,
	// потому что вызов уже не в ожидаемом состоянии (проигранная гонка).
	ErrChallengeStale = errors.New("challenge is no longer in the expected state")
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id int) (*models.Challenge, error)
	ListByTeam(ctx context.Context, teamID int, status *models.ChallengeStatus) ([]*models.Challenge, error)
	HasPendingBetween(ctx context.Context, challengerTeamID, challengedTeamID int) (bool, error)

	// ResolvePending переводит вызов из pending в терминальный статус.
	// Ноль затронутых строк означает проигранную гонку состояний.
	ResolvePending(ctx context.Context, exec SQLExecutor, id int, status models.ChallengeStatus, declineReason *string, matchID *int) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type postgresChallengeRepository struct {
	db *sql.DB
}

func NewPostgresChallengeRepository(db *sql.DB) ChallengeRepository {
	return &postgresChallengeRepository{db: db}
}

const challengeColumns = `id, category_id, challenger_team_id, challenged_team_id, status, message, decline_reason, expires_at, match_id, created_at`

func scanChallenge(row interface{ Scan(...interface{}) error }, c *models.Challenge) error {
	return row.Scan(
		&c.ID,
		&c.CategoryID,
		&c.ChallengerTeamID,
		&c.ChallengedTeamID,
		&c.Status,
		&c.Message,
		&c.DeclineReason,
		&c.ExpiresAt,
		&c.MatchID,
		&c.CreatedAt,
	)
}

func (r *postgresChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	query := `
		INSERT INTO challenges
			(category_id, challenger_team_id, challenged_team_id, status, message, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		challenge.CategoryID,
		challenge.ChallengerTeamID,
		challenge.ChallengedTeamID,
		challenge.Status,
		challenge.Message,
		challenge.ExpiresAt,
	).Scan(&challenge.ID, &challenge.CreatedAt)
}

func (r *postgresChallengeRepository) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`

	challenge := &models.Challenge{}
	err := scanChallenge(r.db.QueryRowContext(ctx, query, id), challenge)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to scan challenge %d: %w", id, err)
	}
	return challenge, nil
}

func (r *postgresChallengeRepository) ListByTeam(ctx context.Context, teamID int, status *models.ChallengeStatus) ([]*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE (challenger_team_id = $1 OR challenged_team_id = $1)`
	args := []interface{}{teamID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges for team %d: %w", teamID, err)
	}
	defer rows.Close()

	challenges := make([]*models.Challenge, 0)
	for rows.Next() {
		var challenge models.Challenge
		if scanErr := scanChallenge(rows, &challenge); scanErr != nil {
			return nil, fmt.Errorf("failed to scan challenge row: %w", scanErr)
		}
		challenges = append(challenges, &challenge)
	}
	return challenges, rows.Err()
}

func (r *postgresChallengeRepository) HasPendingBetween(ctx context.Context, challengerTeamID, challengedTeamID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM challenges
			WHERE challenger_team_id = $1 AND challenged_team_id = $2 AND status = 'pending'
		)`, challengerTeamID, challengedTeamID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresChallengeRepository) ResolvePending(ctx context.Context, exec SQLExecutor, id int, status models.ChallengeStatus, declineReason *string, matchID *int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE challenges
		SET status = $1, decline_reason = $2, match_id = $3
		WHERE id = $4 AND status = 'pending'`

	result, err := exec.ExecContext(ctx, query, status, declineReason, matchID, id)
	if err != nil {
		return fmt.Errorf("ResolvePending: failed for challenge %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrChallengeStale)
}

func (r *postgresChallengeRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE challenges
		SET status = 'expired'
		WHERE status = 'pending' AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("ExpireOverdue: %w", err)
	}
	return result.RowsAffected()
}
