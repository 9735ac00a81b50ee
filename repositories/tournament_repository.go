package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.TournamentStatus) error
	SetWinner(ctx context.Context, exec SQLExecutor, id, winnerTeamID int) error
	// ListRegistrationExpired возвращает турниры в статусе registration
	// с прошедшим дедлайном — кандидаты для перевода планировщиком.
	ListRegistrationExpired(ctx context.Context, now time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, club_id, name, description, format, status, max_teams, entry_fee,
	registration_deadline, start_date, court_count, match_duration_minutes, winner_team_id, created_at`

func scanTournament(row interface{ Scan(...interface{}) error }, t *models.Tournament) error {
	return row.Scan(
		&t.ID,
		&t.ClubID,
		&t.Name,
		&t.Description,
		&t.Format,
		&t.Status,
		&t.MaxTeams,
		&t.EntryFee,
		&t.RegistrationDeadline,
		&t.StartDate,
		&t.CourtCount,
		&t.MatchDurationMinutes,
		&t.WinnerTeamID,
		&t.CreatedAt,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(club_id, name, description, format, status, max_teams, entry_fee,
			 registration_deadline, start_date, court_count, match_duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		tournament.ClubID,
		tournament.Name,
		tournament.Description,
		tournament.Format,
		tournament.Status,
		tournament.MaxTeams,
		tournament.EntryFee,
		tournament.RegistrationDeadline,
		tournament.StartDate,
		tournament.CourtCount,
		tournament.MatchDurationMinutes,
	).Scan(&tournament.ID, &tournament.CreatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	tournament := &models.Tournament{}
	err := scanTournament(r.db.QueryRowContext(ctx, query, id), tournament)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) ListByClub(ctx context.Context, clubID int) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE club_id = $1 ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for club %d: %w", clubID, err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var tournament models.Tournament
		if scanErr := scanTournament(rows, &tournament); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, &tournament)
	}
	return tournaments, rows.Err()
}

// UpdateStatus делает переход статуса только из ожидаемого from.
// Ноль строк — конкурирующий переход уже случился.
func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.TournamentStatus) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE tournaments SET status = $1 WHERE id = $2 AND status = $3`
	result, err := exec.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("UpdateStatus: failed for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetWinner(ctx context.Context, exec SQLExecutor, id, winnerTeamID int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE tournaments SET status = 'completed', winner_team_id = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, winnerTeamID, id)
	if err != nil {
		return fmt.Errorf("SetWinner: failed for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ListRegistrationExpired(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments
		WHERE status = 'registration' AND registration_deadline IS NOT NULL AND registration_deadline <= $1`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query registration-expired tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var tournament models.Tournament
		if scanErr := scanTournament(rows, &tournament); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, &tournament)
	}
	return tournaments, rows.Err()
}
