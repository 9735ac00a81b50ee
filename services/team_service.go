package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
)

type CreateTeamInput struct {
	ClubID int
	Name   string
}

// FreezeTeamInput — административная заморозка или разморозка команды.
// Замороженная команда не участвует в вызовах, пока заморозка действует.
type FreezeTeamInput struct {
	Frozen bool
	Until  *time.Time
	Reason *string
	Notes  string
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Team, error)
	AdminSetFreeze(ctx context.Context, actorID, teamID int, input FreezeTeamInput) (*models.Team, error)
}

type teamService struct {
	teamRepo  repositories.TeamRepository
	auditRepo repositories.AuditRepository
	logger    *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, auditRepo repositories.AuditRepository, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo:  teamRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if input.ClubID <= 0 {
		return nil, fmt.Errorf("%w: club_id is required", ErrValidationFailed)
	}

	team := &models.Team{
		ClubID: input.ClubID,
		Name:   name,
	}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListByClub(ctx context.Context, clubID int) ([]*models.Team, error) {
	return s.teamRepo.ListByClub(ctx, clubID)
}

// AdminSetFreeze меняет статус заморозки команды и пишет запись в журнал.
// Notes обязательны, как и для остальных административных правок.
func (s *teamService) AdminSetFreeze(ctx context.Context, actorID, teamID int, input FreezeTeamInput) (*models.Team, error) {
	if input.Notes == "" {
		return nil, ErrAuditNotesRequired
	}
	if input.Frozen && input.Reason == nil {
		return nil, fmt.Errorf("%w: a freeze requires a reason", ErrValidationFailed)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	before := *team

	if err := s.teamRepo.UpdateFreeze(ctx, teamID, input.Frozen, input.Until, input.Reason); err != nil {
		return nil, fmt.Errorf("failed to update freeze for team %d: %w", teamID, err)
	}

	team.IsFrozen = input.Frozen
	team.FrozenUntil = input.Until
	team.FrozenReason = input.Reason

	oldValues, err := json.Marshal(&before)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot old values: %w", err)
	}
	newValues, err := json.Marshal(team)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot new values: %w", err)
	}
	record := &models.StatAuditRecord{
		ActorID:   actorID,
		Action:    "set_freeze",
		Target:    fmt.Sprintf("team:%d", teamID),
		OldValues: oldValues,
		NewValues: newValues,
		Notes:     input.Notes,
	}
	if err := s.auditRepo.Append(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("failed to append audit record: %w", err)
	}

	s.logger.Info("team freeze updated",
		slog.Int("team_id", teamID),
		slog.Bool("frozen", input.Frozen),
		slog.Int("actor_id", actorID),
	)
	return team, nil
}
