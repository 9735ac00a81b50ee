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
	ErrAmericanoSessionNotFound = errors.New("americano session not found")
	ErrAmericanoMatchNotFound   = errors.New("americano match not found")
	ErrAmericanoPlayerNotFound  = errors.New("americano player not found")
	ErrAmericanoTeamNotFound    = errors.New("americano team not found")
)

type AmericanoRepository interface {
	CreateSession(ctx context.Context, session *models.AmericanoSession) error
	GetSession(ctx context.Context, id int) (*models.AmericanoSession, error)
	UpdateSessionStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.AmericanoStatus) error

	CreatePlayer(ctx context.Context, player *models.AmericanoPlayer) error
	ListPlayers(ctx context.Context, sessionID int) ([]*models.AmericanoPlayer, error)
	ApplyPlayerDelta(ctx context.Context, exec SQLExecutor, playerID, points, played, wins, losses int) error

	CreateTeam(ctx context.Context, team *models.AmericanoTeam) error
	ListTeams(ctx context.Context, sessionID int) ([]*models.AmericanoTeam, error)
	ApplyTeamDelta(ctx context.Context, exec SQLExecutor, teamID, points, played, wins, losses int) error

	CreateMatch(ctx context.Context, exec SQLExecutor, match *models.AmericanoMatch) error
	GetMatch(ctx context.Context, id int) (*models.AmericanoMatch, error)
	ListMatches(ctx context.Context, sessionID int) ([]*models.AmericanoMatch, error)
	UpdateMatchScore(ctx context.Context, exec SQLExecutor, id, score1, score2 int, completedAt time.Time) error
	CountIncomplete(ctx context.Context, sessionID int) (int, error)
}

type postgresAmericanoRepository struct {
	db *sql.DB
}

func NewPostgresAmericanoRepository(db *sql.DB) AmericanoRepository {
	return &postgresAmericanoRepository{db: db}
}

func (r *postgresAmericanoRepository) CreateSession(ctx context.Context, session *models.AmericanoSession) error {
	query := `
		INSERT INTO americano_sessions (club_id, name, mode, points_per_round, total_rounds, current_round, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		session.ClubID,
		session.Name,
		session.Mode,
		session.PointsPerRound,
		session.TotalRounds,
		session.CurrentRound,
		session.Status,
	).Scan(&session.ID, &session.CreatedAt)
}

func (r *postgresAmericanoRepository) GetSession(ctx context.Context, id int) (*models.AmericanoSession, error) {
	query := `
		SELECT id, club_id, name, mode, points_per_round, total_rounds, current_round, status, created_at
		FROM americano_sessions
		WHERE id = $1`

	session := &models.AmericanoSession{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.ClubID,
		&session.Name,
		&session.Mode,
		&session.PointsPerRound,
		&session.TotalRounds,
		&session.CurrentRound,
		&session.Status,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAmericanoSessionNotFound
		}
		return nil, fmt.Errorf("failed to scan americano session %d: %w", id, err)
	}
	return session, nil
}

func (r *postgresAmericanoRepository) UpdateSessionStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.AmericanoStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE americano_sessions SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("UpdateSessionStatus: failed for session %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrAmericanoSessionNotFound)
}

func (r *postgresAmericanoRepository) CreatePlayer(ctx context.Context, player *models.AmericanoPlayer) error {
	query := `
		INSERT INTO americano_players (session_id, name)
		VALUES ($1, $2)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query, player.SessionID, player.Name).Scan(&player.ID)
}

func (r *postgresAmericanoRepository) ListPlayers(ctx context.Context, sessionID int) ([]*models.AmericanoPlayer, error) {
	query := `
		SELECT id, session_id, name, total_points, matches_played, wins, losses
		FROM americano_players
		WHERE session_id = $1
		ORDER BY total_points DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query americano players for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	players := make([]*models.AmericanoPlayer, 0)
	for rows.Next() {
		var player models.AmericanoPlayer
		if scanErr := rows.Scan(
			&player.ID,
			&player.SessionID,
			&player.Name,
			&player.TotalPoints,
			&player.MatchesPlayed,
			&player.Wins,
			&player.Losses,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan americano player row: %w", scanErr)
		}
		players = append(players, &player)
	}
	return players, rows.Err()
}

// ApplyPlayerDelta инкрементально меняет накопительные счётчики игрока.
// Дельты могут быть отрицательными (откат при исправлении счёта).
func (r *postgresAmericanoRepository) ApplyPlayerDelta(ctx context.Context, exec SQLExecutor, playerID, points, played, wins, losses int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `
		UPDATE americano_players
		SET total_points = total_points + $1,
		    matches_played = matches_played + $2,
		    wins = wins + $3,
		    losses = losses + $4
		WHERE id = $5`, points, played, wins, losses, playerID)
	if err != nil {
		return fmt.Errorf("ApplyPlayerDelta: failed for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrAmericanoPlayerNotFound)
}

func (r *postgresAmericanoRepository) CreateTeam(ctx context.Context, team *models.AmericanoTeam) error {
	query := `
		INSERT INTO americano_teams (session_id, name)
		VALUES ($1, $2)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query, team.SessionID, team.Name).Scan(&team.ID)
}

func (r *postgresAmericanoRepository) ListTeams(ctx context.Context, sessionID int) ([]*models.AmericanoTeam, error) {
	query := `
		SELECT id, session_id, name, total_points, matches_played, wins, losses
		FROM americano_teams
		WHERE session_id = $1
		ORDER BY total_points DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query americano teams for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	teams := make([]*models.AmericanoTeam, 0)
	for rows.Next() {
		var team models.AmericanoTeam
		if scanErr := rows.Scan(
			&team.ID,
			&team.SessionID,
			&team.Name,
			&team.TotalPoints,
			&team.MatchesPlayed,
			&team.Wins,
			&team.Losses,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan americano team row: %w", scanErr)
		}
		teams = append(teams, &team)
	}
	return teams, rows.Err()
}

func (r *postgresAmericanoRepository) ApplyTeamDelta(ctx context.Context, exec SQLExecutor, teamID, points, played, wins, losses int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `
		UPDATE americano_teams
		SET total_points = total_points + $1,
		    matches_played = matches_played + $2,
		    wins = wins + $3,
		    losses = losses + $4
		WHERE id = $5`, points, played, wins, losses, teamID)
	if err != nil {
		return fmt.Errorf("ApplyTeamDelta: failed for team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrAmericanoTeamNotFound)
}

const americanoMatchColumns = `id, session_id, round_number, court_number, team1_id, team2_id,
	side1_player1_id, side1_player2_id, side2_player1_id, side2_player2_id, score1, score2, completed_at`

func scanAmericanoMatch(row interface{ Scan(...interface{}) error }, m *models.AmericanoMatch) error {
	return row.Scan(
		&m.ID,
		&m.SessionID,
		&m.RoundNumber,
		&m.CourtNumber,
		&m.Team1ID,
		&m.Team2ID,
		&m.Side1Player1ID,
		&m.Side1Player2ID,
		&m.Side2Player1ID,
		&m.Side2Player2ID,
		&m.Score1,
		&m.Score2,
		&m.CompletedAt,
	)
}

func (r *postgresAmericanoRepository) CreateMatch(ctx context.Context, exec SQLExecutor, match *models.AmericanoMatch) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO americano_matches
			(session_id, round_number, court_number, team1_id, team2_id,
			 side1_player1_id, side1_player2_id, side2_player1_id, side2_player2_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	return exec.QueryRowContext(ctx, query,
		match.SessionID,
		match.RoundNumber,
		match.CourtNumber,
		match.Team1ID,
		match.Team2ID,
		match.Side1Player1ID,
		match.Side1Player2ID,
		match.Side2Player1ID,
		match.Side2Player2ID,
	).Scan(&match.ID)
}

func (r *postgresAmericanoRepository) GetMatch(ctx context.Context, id int) (*models.AmericanoMatch, error) {
	query := `SELECT ` + americanoMatchColumns + ` FROM americano_matches WHERE id = $1`

	match := &models.AmericanoMatch{}
	err := scanAmericanoMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAmericanoMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan americano match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresAmericanoRepository) ListMatches(ctx context.Context, sessionID int) ([]*models.AmericanoMatch, error) {
	query := `SELECT ` + americanoMatchColumns + ` FROM americano_matches
		WHERE session_id = $1
		ORDER BY round_number ASC, court_number ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query americano matches for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	matches := make([]*models.AmericanoMatch, 0)
	for rows.Next() {
		var match models.AmericanoMatch
		if scanErr := scanAmericanoMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan americano match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}

func (r *postgresAmericanoRepository) UpdateMatchScore(ctx context.Context, exec SQLExecutor, id, score1, score2 int, completedAt time.Time) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `
		UPDATE americano_matches
		SET score1 = $1, score2 = $2, completed_at = $3
		WHERE id = $4`, score1, score2, completedAt, id)
	if err != nil {
		return fmt.Errorf("UpdateMatchScore: failed for americano match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrAmericanoMatchNotFound)
}

func (r *postgresAmericanoRepository) CountIncomplete(ctx context.Context, sessionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM americano_matches
		WHERE session_id = $1 AND completed_at IS NULL`, sessionID,
	).Scan(&count)
	return count, err
}
