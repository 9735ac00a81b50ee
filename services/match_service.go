package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
	"github.com/Dosada05/padel-ladder-system/scoring"
)

// SubmitScoreInput — счёт по сетам, поданный одним из участников.
// Сеты идут в сыгранном порядке; индекс i — i-й сет.
type SubmitScoreInput struct {
	MatchID         int
	SubmitterUserID int
	Sets            []scoring.SetScore // A — challenger, B — challenged
}

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error)
	Schedule(ctx context.Context, matchID int, scheduledAt time.Time, venue *string) error

	SubmitScore(ctx context.Context, input SubmitScoreInput) (*models.Match, error)
	ConfirmScore(ctx context.Context, matchID, confirmerUserID int) (*models.Match, error)
	DisputeScore(ctx context.Context, matchID, disputerUserID int, reason string) error
}

type matchService struct {
	txRunner   TxRunner
	matchRepo  repositories.MatchRepository
	rankingSvc RankingService
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewMatchService(
	txRunner TxRunner,
	matchRepo repositories.MatchRepository,
	rankingSvc RankingService,
	notifier Notifier,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txRunner:   txRunner,
		matchRepo:  matchRepo,
		rankingSvc: rankingSvc,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error) {
	return s.matchRepo.ListByTeam(ctx, teamID)
}

func (s *matchService) Schedule(ctx context.Context, matchID int, scheduledAt time.Time, venue *string) error {
	if err := s.matchRepo.UpdateSchedule(ctx, matchID, scheduledAt, venue); err != nil {
		if errors.Is(err, repositories.ErrMatchStale) {
			return ErrStaleState
		}
		return err
	}
	return nil
}

// SubmitScore проверяет счёт по правилам best-of-3 и записывает его.
// Счёт остаётся неподтверждённым: рейтинг меняется только в ConfirmScore.
// Повторная подача (после спора) перезаписывает предыдущий счёт.
func (s *matchService) SubmitScore(ctx context.Context, input SubmitScoreInput) (*models.Match, error) {
	match, err := s.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, fmt.Errorf("%w: match is cancelled", ErrValidationFailed)
	}

	result, err := scoring.ResolveBestOfThree(input.Sets)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	challengerScores := make([]int64, len(input.Sets))
	challengedScores := make([]int64, len(input.Sets))
	for i, set := range input.Sets {
		challengerScores[i] = int64(set.A)
		challengedScores[i] = int64(set.B)
	}

	winnerTeamID := match.ChallengerTeamID
	if result.WinnerSide == 2 {
		winnerTeamID = match.ChallengedTeamID
	}

	match.SetScoresChallenger = challengerScores
	match.SetScoresChallenged = challengedScores
	match.SetsWonChallenger = &result.SetsWonA
	match.SetsWonChallenged = &result.SetsWonB
	match.WinnerTeamID = &winnerTeamID
	match.ScoreSubmittedBy = &input.SubmitterUserID
	match.ScoreDisputed = false
	match.DisputeReason = nil
	match.Status = models.MatchStatusPending

	if err := s.matchRepo.UpdateScoreSubmission(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchStale) {
			return nil, ErrStaleState
		}
		return nil, err
	}

	s.notifier.NotifyScoreSubmitted(match)
	return match, nil
}

// ConfirmScore завершает матч и применяет результат к рейтингу одной
// транзакцией: либо и матч completed, и рейтинг обновлён, либо ни то, ни другое.
func (s *matchService) ConfirmScore(ctx context.Context, matchID, confirmerUserID int) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.ScoreSubmittedBy == nil || match.WinnerTeamID == nil {
		return nil, ErrScoreNotSubmitted
	}
	if *match.ScoreSubmittedBy == confirmerUserID {
		return nil, ErrSelfConfirmation
	}

	completedAt := s.now()
	winnerTeamID := *match.WinnerTeamID
	loserTeamID := match.ChallengerTeamID
	if winnerTeamID == match.ChallengerTeamID {
		loserTeamID = match.ChallengedTeamID
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateConfirmation(ctx, exec, matchID, confirmerUserID, completedAt); err != nil {
			if errors.Is(err, repositories.ErrMatchStale) {
				return ErrStaleState
			}
			return err
		}
		if match.CategoryID != nil {
			if err := s.rankingSvc.ApplyMatchResult(ctx, exec, *match.CategoryID, winnerTeamID, loserTeamID); err != nil {
				return fmt.Errorf("failed to apply match %d result to rankings: %w", matchID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match.Status = models.MatchStatusCompleted
	match.ScoreConfirmedBy = &confirmerUserID
	match.CompletedAt = &completedAt

	s.logger.Info("match score confirmed",
		slog.Int("match_id", matchID),
		slog.Int("winner_team_id", winnerTeamID),
	)
	s.notifier.NotifyScoreConfirmed(match)
	return match, nil
}

// DisputeScore отклоняет поданный счёт: все поля счёта сбрасываются,
// матч возвращается в in_progress и ждёт повторной подачи.
func (s *matchService) DisputeScore(ctx context.Context, matchID, disputerUserID int, reason string) error {
	if reason == "" {
		return ErrDisputeReasonRequired
	}

	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Status == models.MatchStatusCompleted {
		return ErrMatchAlreadyCompleted
	}
	if match.ScoreSubmittedBy == nil {
		return ErrScoreNotSubmitted
	}
	if *match.ScoreSubmittedBy == disputerUserID {
		return fmt.Errorf("%w: submitter cannot dispute their own score", ErrValidationFailed)
	}

	if err := s.matchRepo.UpdateDispute(ctx, nil, matchID, reason); err != nil {
		if errors.Is(err, repositories.ErrMatchStale) {
			return ErrStaleState
		}
		return err
	}

	match.Status = models.MatchStatusInProgress
	match.ScoreDisputed = true
	match.DisputeReason = &reason
	s.notifier.NotifyScoreDisputed(match)
	return nil
}
