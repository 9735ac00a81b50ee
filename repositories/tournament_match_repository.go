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
	ErrTournamentMatchNotFound = errors.New("tournament match not found")
	ErrTournamentMatchStale    = errors.New("tournament match is no longer in the expected state")
)

type TournamentMatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.TournamentMatch) error
	GetByID(ctx context.Context, id int) (*models.TournamentMatch, error)
	ListByTournament(ctx context.Context, tournamentID int, stage *models.TournamentStage) ([]*models.TournamentMatch, error)
	ListByRound(ctx context.Context, tournamentID int, stage models.TournamentStage, roundNumber int) ([]*models.TournamentMatch, error)

	UpdateScore(ctx context.Context, exec SQLExecutor, match *models.TournamentMatch, completedAt time.Time) error
	SetTeamSlot(ctx context.Context, exec SQLExecutor, id, slot, teamID int) error
}

type postgresTournamentMatchRepository struct {
	db *sql.DB
}

func NewPostgresTournamentMatchRepository(db *sql.DB) TournamentMatchRepository {
	return &postgresTournamentMatchRepository{db: db}
}

const tournamentMatchColumns = `id, tournament_id, stage, round_number, match_number, team1_id, team2_id,
	set_scores_team1, set_scores_team2, winner_team_id, court_number, scheduled_at, completed_at, created_at`

func scanTournamentMatch(row interface{ Scan(...interface{}) error }, m *models.TournamentMatch) error {
	return row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Stage,
		&m.RoundNumber,
		&m.MatchNumber,
		&m.Team1ID,
		&m.Team2ID,
		pq.Array(&m.SetScoresTeam1),
		pq.Array(&m.SetScoresTeam2),
		&m.WinnerTeamID,
		&m.CourtNumber,
		&m.ScheduledAt,
		&m.CompletedAt,
		&m.CreatedAt,
	)
}

func (r *postgresTournamentMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.TournamentMatch) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO tournament_matches
			(tournament_id, stage, round_number, match_number, team1_id, team2_id, court_number, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Stage,
		match.RoundNumber,
		match.MatchNumber,
		match.Team1ID,
		match.Team2ID,
		match.CourtNumber,
		match.ScheduledAt,
	).Scan(&match.ID, &match.CreatedAt)
}

func (r *postgresTournamentMatchRepository) GetByID(ctx context.Context, id int) (*models.TournamentMatch, error) {
	query := `SELECT ` + tournamentMatchColumns + ` FROM tournament_matches WHERE id = $1`

	match := &models.TournamentMatch{}
	err := scanTournamentMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresTournamentMatchRepository) ListByTournament(ctx context.Context, tournamentID int, stage *models.TournamentStage) ([]*models.TournamentMatch, error) {
	query := `SELECT ` + tournamentMatchColumns + ` FROM tournament_matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if stage != nil {
		query += ` AND stage = $2`
		args = append(args, *stage)
	}
	query += ` ORDER BY stage ASC, round_number ASC, match_number ASC`

	return r.queryMatches(ctx, query, args...)
}

func (r *postgresTournamentMatchRepository) ListByRound(ctx context.Context, tournamentID int, stage models.TournamentStage, roundNumber int) ([]*models.TournamentMatch, error) {
	query := `SELECT ` + tournamentMatchColumns + ` FROM tournament_matches
		WHERE tournament_id = $1 AND stage = $2 AND round_number = $3
		ORDER BY match_number ASC`

	return r.queryMatches(ctx, query, tournamentID, stage, roundNumber)
}

func (r *postgresTournamentMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.TournamentMatch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.TournamentMatch, 0)
	for rows.Next() {
		var match models.TournamentMatch
		if scanErr := scanTournamentMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}

// UpdateScore записывает счёт и победителя. Повторная запись по уже
// завершённому матчу не проходит предикат.
func (r *postgresTournamentMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, match *models.TournamentMatch, completedAt time.Time) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE tournament_matches
		SET set_scores_team1 = $1, set_scores_team2 = $2, winner_team_id = $3, completed_at = $4
		WHERE id = $5 AND completed_at IS NULL`

	result, err := exec.ExecContext(ctx, query,
		pq.Array(match.SetScoresTeam1),
		pq.Array(match.SetScoresTeam2),
		match.WinnerTeamID,
		completedAt,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateScore: failed for tournament match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentMatchStale)
}

func (r *postgresTournamentMatchRepository) SetTeamSlot(ctx context.Context, exec SQLExecutor, id, slot, teamID int) error {
	if exec == nil {
		exec = r.db
	}
	var query string
	switch slot {
	case 1:
		query = `UPDATE tournament_matches SET team1_id = $1 WHERE id = $2`
	case 2:
		query = `UPDATE tournament_matches SET team2_id = $1 WHERE id = $2`
	default:
		return fmt.Errorf("SetTeamSlot: invalid slot %d", slot)
	}

	result, err := exec.ExecContext(ctx, query, teamID, id)
	if err != nil {
		return fmt.Errorf("SetTeamSlot: failed for tournament match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentMatchNotFound)
}
