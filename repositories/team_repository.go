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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already in use within the club")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Team, error)
	UpdateFreeze(ctx context.Context, id int, frozen bool, until *time.Time, reason *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO teams (club_id, name, is_frozen, frozen_until, frozen_reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		team.ClubID,
		team.Name,
		team.IsFrozen,
		team.FrozenUntil,
		team.FrozenReason,
	).Scan(&team.ID, &team.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "teams_club_id_name_key" {
		return ErrTeamNameConflict
	}
	return err
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, club_id, name, is_frozen, frozen_until, frozen_reason, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.ClubID,
		&team.Name,
		&team.IsFrozen,
		&team.FrozenUntil,
		&team.FrozenReason,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByClub(ctx context.Context, clubID int) ([]*models.Team, error) {
	query := `
		SELECT id, club_id, name, is_frozen, frozen_until, frozen_reason, created_at
		FROM teams
		WHERE club_id = $1
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for club %d: %w", clubID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.ClubID,
			&team.Name,
			&team.IsFrozen,
			&team.FrozenUntil,
			&team.FrozenReason,
			&team.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, &team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) UpdateFreeze(ctx context.Context, id int, frozen bool, until *time.Time, reason *string) error {
	query := `
		UPDATE teams
		SET is_frozen = $1, frozen_until = $2, frozen_reason = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, frozen, until, reason, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
