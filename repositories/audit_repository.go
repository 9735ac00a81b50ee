package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/padel-ladder-system/models"
)

type AuditRepository interface {
	Append(ctx context.Context, exec SQLExecutor, record *models.StatAuditRecord) error
	ListByTarget(ctx context.Context, target string) ([]*models.StatAuditRecord, error)
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

// Append пишется в той же транзакции, что и сама правка: админское
// изменение без записи в журнал не должно закоммититься.
func (r *postgresAuditRepository) Append(ctx context.Context, exec SQLExecutor, record *models.StatAuditRecord) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO stat_audit_records (actor_id, action, target, old_values, new_values, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return exec.QueryRowContext(ctx, query,
		record.ActorID,
		record.Action,
		record.Target,
		record.OldValues,
		record.NewValues,
		record.Notes,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *postgresAuditRepository) ListByTarget(ctx context.Context, target string) ([]*models.StatAuditRecord, error) {
	query := `
		SELECT id, actor_id, action, target, old_values, new_values, notes, created_at
		FROM stat_audit_records
		WHERE target = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records for %s: %w", target, err)
	}
	defer rows.Close()

	records := make([]*models.StatAuditRecord, 0)
	for rows.Next() {
		var record models.StatAuditRecord
		if scanErr := rows.Scan(
			&record.ID,
			&record.ActorID,
			&record.Action,
			&record.Target,
			&record.OldValues,
			&record.NewValues,
			&record.Notes,
			&record.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan audit record row: %w", scanErr)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}
