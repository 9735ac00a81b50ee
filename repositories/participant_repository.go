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
	ErrParticipantNotFound = errors.New("tournament participant not found")
	ErrParticipantConflict = errors.New("team is already registered for this tournament")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.TournamentParticipant) error
	GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.TournamentParticipant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentParticipant, error)
	CountRegistered(ctx context.Context, tournamentID int) (int, error)
	MaxWaitlistPosition(ctx context.Context, tournamentID int) (int, error)

	Delete(ctx context.Context, exec SQLExecutor, id int) error
	SetWaitlistPosition(ctx context.Context, exec SQLExecutor, id int, position *int) error
	// RenumberWaitlistAfter сдвигает на -1 все позиции листа ожидания
	// строго больше позиции удалённого/продвинутого участника.
	RenumberWaitlistAfter(ctx context.Context, exec SQLExecutor, tournamentID, removedPosition int) error
	SetGroupNumber(ctx context.Context, exec SQLExecutor, id int, groupNumber int) error
	ApplyGroupResult(ctx context.Context, exec SQLExecutor, id int, wins, losses, pointsFor, pointsAgainst int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `id, tournament_id, team_id, group_number, waitlist_position, payment_status,
	group_wins, group_losses, group_points_for, group_points_against, created_at`

func scanParticipant(row interface{ Scan(...interface{}) error }, p *models.TournamentParticipant) error {
	return row.Scan(
		&p.ID,
		&p.TournamentID,
		&p.TeamID,
		&p.GroupNumber,
		&p.WaitlistPosition,
		&p.PaymentStatus,
		&p.GroupWins,
		&p.GroupLosses,
		&p.GroupPointsFor,
		&p.GroupPointsAgainst,
		&p.CreatedAt,
	)
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, participant *models.TournamentParticipant) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO tournament_participants (tournament_id, team_id, waitlist_position, payment_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		participant.TournamentID,
		participant.TeamID,
		participant.WaitlistPosition,
		participant.PaymentStatus,
	).Scan(&participant.ID, &participant.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "tournament_participants_tournament_id_team_id_key" {
		return ErrParticipantConflict
	}
	return err
}

func (r *postgresParticipantRepository) GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.TournamentParticipant, error) {
	query := `SELECT ` + participantColumns + ` FROM tournament_participants
		WHERE tournament_id = $1 AND team_id = $2`

	participant := &models.TournamentParticipant{}
	err := scanParticipant(r.db.QueryRowContext(ctx, query, tournamentID, teamID), participant)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant for tournament %d team %d: %w", tournamentID, teamID, err)
	}
	return participant, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentParticipant, error) {
	// Сначала зарегистрированные (в порядке заявок), потом лист ожидания.
	query := `SELECT ` + participantColumns + ` FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY waitlist_position ASC NULLS FIRST, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.TournamentParticipant, 0)
	for rows.Next() {
		var participant models.TournamentParticipant
		if scanErr := scanParticipant(rows, &participant); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, &participant)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) CountRegistered(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tournament_participants
		WHERE tournament_id = $1 AND waitlist_position IS NULL`, tournamentID,
	).Scan(&count)
	return count, err
}

func (r *postgresParticipantRepository) MaxWaitlistPosition(ctx context.Context, tournamentID int) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(waitlist_position), 0) FROM tournament_participants
		WHERE tournament_id = $1`, tournamentID,
	).Scan(&max)
	return max, err
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM tournament_participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) SetWaitlistPosition(ctx context.Context, exec SQLExecutor, id int, position *int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE tournament_participants SET waitlist_position = $1 WHERE id = $2`, position, id)
	if err != nil {
		return fmt.Errorf("SetWaitlistPosition: failed for participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) RenumberWaitlistAfter(ctx context.Context, exec SQLExecutor, tournamentID, removedPosition int) error {
	if exec == nil {
		exec = r.db
	}
	_, err := exec.ExecContext(ctx, `
		UPDATE tournament_participants
		SET waitlist_position = waitlist_position - 1
		WHERE tournament_id = $1 AND waitlist_position > $2`, tournamentID, removedPosition)
	if err != nil {
		return fmt.Errorf("RenumberWaitlistAfter: failed for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresParticipantRepository) SetGroupNumber(ctx context.Context, exec SQLExecutor, id int, groupNumber int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE tournament_participants SET group_number = $1 WHERE id = $2`, groupNumber, id)
	if err != nil {
		return fmt.Errorf("SetGroupNumber: failed for participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

// ApplyGroupResult инкрементально добавляет результат группового матча.
func (r *postgresParticipantRepository) ApplyGroupResult(ctx context.Context, exec SQLExecutor, id int, wins, losses, pointsFor, pointsAgainst int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `
		UPDATE tournament_participants
		SET group_wins = group_wins + $1,
		    group_losses = group_losses + $2,
		    group_points_for = group_points_for + $3,
		    group_points_against = group_points_against + $4
		WHERE id = $5`, wins, losses, pointsFor, pointsAgainst, id)
	if err != nil {
		return fmt.Errorf("ApplyGroupResult: failed for participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
