package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/lib/pq"
)

var (
	ErrRankingEntryNotFound = errors.New("ranking entry not found")
	ErrRankingEntryConflict = errors.New("team already has a ranking entry in this category")
)

type RankingRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.RankingEntry) error
	GetByID(ctx context.Context, id int) (*models.RankingEntry, error)
	// GetByCategoryAndTeam читает запись через exec, чтобы чтения внутри
	// транзакции видели её незакоммиченные изменения. Вне транзакции — nil.
	GetByCategoryAndTeam(ctx context.Context, exec SQLExecutor, categoryID, teamID int) (*models.RankingEntry, error)
	ListByCategory(ctx context.Context, categoryID int) ([]*models.RankingEntry, error)
	CountByCategory(ctx context.Context, categoryID int) (int, error)

	// ShiftRange сдвигает на +1 все позиции categoryID в [fromRank, toRank).
	// Вызывается только внутри транзакции вместе с UpdateRank победителя.
	ShiftRange(ctx context.Context, exec SQLExecutor, categoryID, fromRank, toRank int) error
	UpdateRank(ctx context.Context, exec SQLExecutor, entryID, rank int) error
	UpdateStats(ctx context.Context, exec SQLExecutor, entryID, points, wins, losses, streak int) error
	SwapRanks(ctx context.Context, exec SQLExecutor, entryAID, rankA, entryBID, rankB int) error
}

type postgresRankingRepository struct {
	db *sql.DB
}

func NewPostgresRankingRepository(db *sql.DB) RankingRepository {
	return &postgresRankingRepository{db: db}
}

func (r *postgresRankingRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.RankingEntry) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO ranking_entries (category_id, team_id, rank, points, wins, losses, streak)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, updated_at`

	err := exec.QueryRowContext(ctx, query,
		entry.CategoryID,
		entry.TeamID,
		entry.Rank,
		entry.Points,
		entry.Wins,
		entry.Losses,
		entry.Streak,
	).Scan(&entry.ID, &entry.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "ranking_entries_category_id_team_id_key" {
		return ErrRankingEntryConflict
	}
	return err
}

const rankingEntryColumns = `id, category_id, team_id, rank, points, wins, losses, streak, updated_at`

func scanRankingEntry(row interface{ Scan(...interface{}) error }, entry *models.RankingEntry) error {
	return row.Scan(
		&entry.ID,
		&entry.CategoryID,
		&entry.TeamID,
		&entry.Rank,
		&entry.Points,
		&entry.Wins,
		&entry.Losses,
		&entry.Streak,
		&entry.UpdatedAt,
	)
}

func (r *postgresRankingRepository) GetByID(ctx context.Context, id int) (*models.RankingEntry, error) {
	query := `SELECT ` + rankingEntryColumns + ` FROM ranking_entries WHERE id = $1`

	entry := &models.RankingEntry{}
	err := scanRankingEntry(r.db.QueryRowContext(ctx, query, id), entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRankingEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan ranking entry %d: %w", id, err)
	}
	return entry, nil
}

func (r *postgresRankingRepository) GetByCategoryAndTeam(ctx context.Context, exec SQLExecutor, categoryID, teamID int) (*models.RankingEntry, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + rankingEntryColumns + ` FROM ranking_entries WHERE category_id = $1 AND team_id = $2`

	entry := &models.RankingEntry{}
	err := scanRankingEntry(exec.QueryRowContext(ctx, query, categoryID, teamID), entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRankingEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan ranking entry for category %d team %d: %w", categoryID, teamID, err)
	}
	return entry, nil
}

func (r *postgresRankingRepository) ListByCategory(ctx context.Context, categoryID int) ([]*models.RankingEntry, error) {
	query := `SELECT ` + rankingEntryColumns + ` FROM ranking_entries WHERE category_id = $1 ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking entries for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	entries := make([]*models.RankingEntry, 0)
	for rows.Next() {
		var entry models.RankingEntry
		if scanErr := scanRankingEntry(rows, &entry); scanErr != nil {
			return nil, fmt.Errorf("failed to scan ranking entry row: %w", scanErr)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (r *postgresRankingRepository) CountByCategory(ctx context.Context, categoryID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ranking_entries WHERE category_id = $1`, categoryID,
	).Scan(&count)
	return count, err
}

func (r *postgresRankingRepository) ShiftRange(ctx context.Context, exec SQLExecutor, categoryID, fromRank, toRank int) error {
	query := `
		UPDATE ranking_entries
		SET rank = rank + 1, updated_at = NOW()
		WHERE category_id = $1 AND rank >= $2 AND rank < $3`

	_, err := exec.ExecContext(ctx, query, categoryID, fromRank, toRank)
	if err != nil {
		return fmt.Errorf("ShiftRange: failed for category %d [%d, %d): %w", categoryID, fromRank, toRank, err)
	}
	return nil
}

func (r *postgresRankingRepository) UpdateRank(ctx context.Context, exec SQLExecutor, entryID, rank int) error {
	query := `UPDATE ranking_entries SET rank = $1, updated_at = NOW() WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, rank, entryID)
	if err != nil {
		return fmt.Errorf("UpdateRank: failed for entry %d: %w", entryID, err)
	}
	return checkAffectedRows(result, ErrRankingEntryNotFound)
}

func (r *postgresRankingRepository) UpdateStats(ctx context.Context, exec SQLExecutor, entryID, points, wins, losses, streak int) error {
	query := `
		UPDATE ranking_entries
		SET points = $1, wins = $2, losses = $3, streak = $4, updated_at = NOW()
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query, points, wins, losses, streak, entryID)
	if err != nil {
		return fmt.Errorf("UpdateStats: failed for entry %d: %w", entryID, err)
	}
	return checkAffectedRows(result, ErrRankingEntryNotFound)
}

func (r *postgresRankingRepository) SwapRanks(ctx context.Context, exec SQLExecutor, entryAID, rankA, entryBID, rankB int) error {
	// Два UPDATE в одной транзакции вызывающего. Уникальный индекс по
	// (category_id, rank) должен быть отложенным (DEFERRABLE), иначе
	// промежуточное состояние нарушит его.
	if err := r.UpdateRank(ctx, exec, entryAID, rankB); err != nil {
		return err
	}
	return r.UpdateRank(ctx, exec, entryBID, rankA)
}
