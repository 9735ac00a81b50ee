package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
)

// ProposeChallengeInput — параметры нового вызова.
type ProposeChallengeInput struct {
	ChallengerTeamID int
	ChallengedTeamID int
	CategoryID       int
	Message          *string
}

type ChallengeService interface {
	Propose(ctx context.Context, input ProposeChallengeInput) (*models.Challenge, error)
	Accept(ctx context.Context, challengeID int) (*models.Match, error)
	Decline(ctx context.Context, challengeID int, reason string) error
	Cancel(ctx context.Context, challengeID, cancellingTeamID int) error
	ListByTeam(ctx context.Context, teamID int, status *models.ChallengeStatus) ([]*models.Challenge, error)
	// ExpireOverdue переводит просроченные pending-вызовы в expired.
	// Запускается планировщиком.
	ExpireOverdue(ctx context.Context) (int64, error)
}

type challengeService struct {
	txRunner      TxRunner
	challengeRepo repositories.ChallengeRepository
	matchRepo     repositories.MatchRepository
	teamRepo      repositories.TeamRepository
	ladderRepo    repositories.LadderRepository
	rankingRepo   repositories.RankingRepository
	notifier      Notifier
	logger        *slog.Logger

	challengeWindow time.Duration
	now             func() time.Time
}

func NewChallengeService(
	txRunner TxRunner,
	challengeRepo repositories.ChallengeRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	ladderRepo repositories.LadderRepository,
	rankingRepo repositories.RankingRepository,
	notifier Notifier,
	logger *slog.Logger,
	challengeWindow time.Duration,
) ChallengeService {
	return &challengeService{
		txRunner:        txRunner,
		challengeRepo:   challengeRepo,
		matchRepo:       matchRepo,
		teamRepo:        teamRepo,
		ladderRepo:      ladderRepo,
		rankingRepo:     rankingRepo,
		notifier:        notifier,
		logger:          logger,
		challengeWindow: challengeWindow,
		now:             time.Now,
	}
}

func (s *challengeService) Propose(ctx context.Context, input ProposeChallengeInput) (*models.Challenge, error) {
	if input.ChallengerTeamID == input.ChallengedTeamID {
		return nil, ErrSelfChallenge
	}

	now := s.now()

	challenger, err := s.teamRepo.GetByID(ctx, input.ChallengerTeamID)
	if err != nil {
		return nil, fmt.Errorf("%w: challenger team %d", ErrTeamNotFound, input.ChallengerTeamID)
	}
	challenged, err := s.teamRepo.GetByID(ctx, input.ChallengedTeamID)
	if err != nil {
		return nil, fmt.Errorf("%w: challenged team %d", ErrTeamNotFound, input.ChallengedTeamID)
	}
	if challenger.Frozen(now) {
		return nil, fmt.Errorf("%w: team %q", ErrTeamFrozen, challenger.Name)
	}
	if challenged.Frozen(now) {
		return nil, fmt.Errorf("%w: team %q", ErrTeamFrozen, challenged.Name)
	}

	category, err := s.ladderRepo.GetCategoryByID(ctx, input.CategoryID)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	challengerEntry, err := s.rankingRepo.GetByCategoryAndTeam(ctx, nil, category.ID, challenger.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: challenger has no ranking in category %d", ErrEntryNotFound, category.ID)
	}
	challengedEntry, err := s.rankingRepo.GetByCategoryAndTeam(ctx, nil, category.ID, challenged.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: challenged team has no ranking in category %d", ErrEntryNotFound, category.ID)
	}

	// Вызвать можно только команду выше себя, не дальше challenge_range
	// позиций: rank ∈ [challenger.rank - range, challenger.rank - 1].
	if challengedEntry.Rank >= challengerEntry.Rank {
		return nil, ErrChallengeNotBetter
	}
	if challengedEntry.Rank < challengerEntry.Rank-category.ChallengeRange {
		return nil, fmt.Errorf("%w: rank %d is more than %d positions above rank %d",
			ErrChallengeOutOfRange, challengedEntry.Rank, category.ChallengeRange, challengerEntry.Rank)
	}

	duplicate, err := s.challengeRepo.HasPendingBetween(ctx, challenger.ID, challenged.ID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateChallenge
	}

	categoryID := category.ID
	challenge := &models.Challenge{
		CategoryID:       &categoryID,
		ChallengerTeamID: challenger.ID,
		ChallengedTeamID: challenged.ID,
		Status:           models.ChallengeStatusPending,
		Message:          input.Message,
		ExpiresAt:        now.Add(s.challengeWindow),
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.notifier.NotifyChallengeProposed(challenge)
	return challenge, nil
}

// Accept создаёт матч и помечает вызов принятым одной транзакцией:
// вызов не может оказаться accepted без соответствующего матча.
func (s *challengeService) Accept(ctx context.Context, challengeID int) (*models.Match, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	if challenge.Status != models.ChallengeStatusPending {
		return nil, ErrChallengeNotPending
	}
	if s.now().After(challenge.ExpiresAt) {
		return nil, ErrChallengeExpired
	}

	match := &models.Match{
		ChallengerTeamID: challenge.ChallengerTeamID,
		ChallengedTeamID: challenge.ChallengedTeamID,
		CategoryID:       challenge.CategoryID,
		Status:           models.MatchStatusPending,
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return fmt.Errorf("failed to create match for challenge %d: %w", challengeID, err)
		}
		if err := s.challengeRepo.ResolvePending(ctx, exec, challengeID, models.ChallengeStatusAccepted, nil, &match.ID); err != nil {
			if errors.Is(err, repositories.ErrChallengeStale) {
				return ErrStaleState
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	challenge.Status = models.ChallengeStatusAccepted
	challenge.MatchID = &match.ID
	s.notifier.NotifyChallengeAccepted(challenge, match)
	return match, nil
}

func (s *challengeService) Decline(ctx context.Context, challengeID int, reason string) error {
	if reason == "" {
		return ErrDeclineReasonRequired
	}

	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return ErrChallengeNotFound
		}
		return err
	}
	if challenge.Status != models.ChallengeStatusPending {
		return ErrChallengeNotPending
	}

	if err := s.challengeRepo.ResolvePending(ctx, nil, challengeID, models.ChallengeStatusDeclined, &reason, nil); err != nil {
		if errors.Is(err, repositories.ErrChallengeStale) {
			return ErrStaleState
		}
		return err
	}

	challenge.Status = models.ChallengeStatusDeclined
	challenge.DeclineReason = &reason
	s.notifier.NotifyChallengeDeclined(challenge)
	return nil
}

func (s *challengeService) Cancel(ctx context.Context, challengeID, cancellingTeamID int) error {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return ErrChallengeNotFound
		}
		return err
	}
	if challenge.ChallengerTeamID != cancellingTeamID {
		return fmt.Errorf("%w: only the challenger may cancel", ErrValidationFailed)
	}
	if challenge.Status != models.ChallengeStatusPending {
		return ErrChallengeNotPending
	}

	if err := s.challengeRepo.ResolvePending(ctx, nil, challengeID, models.ChallengeStatusCancelled, nil, nil); err != nil {
		if errors.Is(err, repositories.ErrChallengeStale) {
			return ErrStaleState
		}
		return err
	}
	return nil
}

func (s *challengeService) ListByTeam(ctx context.Context, teamID int, status *models.ChallengeStatus) ([]*models.Challenge, error) {
	return s.challengeRepo.ListByTeam(ctx, teamID, status)
}

func (s *challengeService) ExpireOverdue(ctx context.Context) (int64, error) {
	expired, err := s.challengeRepo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.logger.Info("expired overdue challenges", slog.Int64("count", expired))
	}
	return expired, nil
}
