package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/padel-ladder-system/models"
)

var (
	ErrLadderNotFound   = errors.New("ladder not found")
	ErrCategoryNotFound = errors.New("ladder category not found")
)

type LadderRepository interface {
	CreateLadder(ctx context.Context, ladder *models.Ladder) error
	GetLadderByID(ctx context.Context, id int) (*models.Ladder, error)
	CreateCategory(ctx context.Context, category *models.LadderCategory) error
	GetCategoryByID(ctx context.Context, id int) (*models.LadderCategory, error)
	ListCategoriesByLadder(ctx context.Context, ladderID int) ([]*models.LadderCategory, error)
}

type postgresLadderRepository struct {
	db *sql.DB
}

func NewPostgresLadderRepository(db *sql.DB) LadderRepository {
	return &postgresLadderRepository{db: db}
}

func (r *postgresLadderRepository) CreateLadder(ctx context.Context, ladder *models.Ladder) error {
	query := `
		INSERT INTO ladders (club_id, name, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		ladder.ClubID,
		ladder.Name,
		ladder.Status,
	).Scan(&ladder.ID, &ladder.CreatedAt)
}

func (r *postgresLadderRepository) GetLadderByID(ctx context.Context, id int) (*models.Ladder, error) {
	query := `SELECT id, club_id, name, status, created_at FROM ladders WHERE id = $1`

	ladder := &models.Ladder{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ladder.ID,
		&ladder.ClubID,
		&ladder.Name,
		&ladder.Status,
		&ladder.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLadderNotFound
		}
		return nil, fmt.Errorf("failed to scan ladder by id %d: %w", id, err)
	}
	return ladder, nil
}

func (r *postgresLadderRepository) CreateCategory(ctx context.Context, category *models.LadderCategory) error {
	query := `
		INSERT INTO ladder_categories (ladder_id, name, challenge_range, entry_fee)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		category.LadderID,
		category.Name,
		category.ChallengeRange,
		category.EntryFee,
	).Scan(&category.ID, &category.CreatedAt)
}

func (r *postgresLadderRepository) GetCategoryByID(ctx context.Context, id int) (*models.LadderCategory, error) {
	query := `
		SELECT id, ladder_id, name, challenge_range, entry_fee, created_at
		FROM ladder_categories
		WHERE id = $1`

	category := &models.LadderCategory{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.LadderID,
		&category.Name,
		&category.ChallengeRange,
		&category.EntryFee,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to scan ladder category by id %d: %w", id, err)
	}
	return category, nil
}

func (r *postgresLadderRepository) ListCategoriesByLadder(ctx context.Context, ladderID int) ([]*models.LadderCategory, error) {
	query := `
		SELECT id, ladder_id, name, challenge_range, entry_fee, created_at
		FROM ladder_categories
		WHERE ladder_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for ladder %d: %w", ladderID, err)
	}
	defer rows.Close()

	categories := make([]*models.LadderCategory, 0)
	for rows.Next() {
		var category models.LadderCategory
		if scanErr := rows.Scan(
			&category.ID,
			&category.LadderID,
			&category.Name,
			&category.ChallengeRange,
			&category.EntryFee,
			&category.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan ladder category row: %w", scanErr)
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}
