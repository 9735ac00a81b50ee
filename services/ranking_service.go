package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
)

// StatAdjustment — частичная админская правка показателей записи.
// nil-поля не трогаются.
type StatAdjustment struct {
	Points *int `json:"points,omitempty"`
	Wins   *int `json:"wins,omitempty"`
	Losses *int `json:"losses,omitempty"`
	Streak *int `json:"streak,omitempty"`
}

type RankingService interface {
	Standings(ctx context.Context, categoryID int) ([]*models.RankingEntry, error)
	// EnsureEntry добавляет команду в конец рейтинга категории (rank = N+1),
	// если записи ещё нет.
	EnsureEntry(ctx context.Context, categoryID, teamID int) (*models.RankingEntry, error)

	// ApplyMatchResult применяет подтверждённый результат матча:
	// счётчики обеих команд и, при апсете, сдвиг рангов — одной транзакцией.
	ApplyMatchResult(ctx context.Context, exec repositories.SQLExecutor, categoryID, winnerTeamID, loserTeamID int) error

	AdminAdjustStats(ctx context.Context, actorID, entryID int, adjustment StatAdjustment, notes string) error
	AdminSwapRanks(ctx context.Context, actorID, entryAID, entryBID int, notes string) error
}

type rankingService struct {
	txRunner    TxRunner
	rankingRepo repositories.RankingRepository
	auditRepo   repositories.AuditRepository
	logger      *slog.Logger

	winPoints   int
	lossPenalty int
}

func NewRankingService(
	txRunner TxRunner,
	rankingRepo repositories.RankingRepository,
	auditRepo repositories.AuditRepository,
	logger *slog.Logger,
	winPoints, lossPenalty int,
) RankingService {
	return &rankingService{
		txRunner:    txRunner,
		rankingRepo: rankingRepo,
		auditRepo:   auditRepo,
		logger:      logger,
		winPoints:   winPoints,
		lossPenalty: lossPenalty,
	}
}

func (s *rankingService) Standings(ctx context.Context, categoryID int) ([]*models.RankingEntry, error) {
	entries, err := s.rankingRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for category %d: %w", categoryID, err)
	}
	return entries, nil
}

func (s *rankingService) EnsureEntry(ctx context.Context, categoryID, teamID int) (*models.RankingEntry, error) {
	existing, err := s.rankingRepo.GetByCategoryAndTeam(ctx, nil, categoryID, teamID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrRankingEntryNotFound) {
		return nil, err
	}

	count, err := s.rankingRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	entry := &models.RankingEntry{
		CategoryID: categoryID,
		TeamID:     teamID,
		Rank:       count + 1,
	}
	if err := s.rankingRepo.Create(ctx, nil, entry); err != nil {
		if errors.Is(err, repositories.ErrRankingEntryConflict) {
			// Параллельная регистрация успела раньше — перечитываем.
			return s.rankingRepo.GetByCategoryAndTeam(ctx, nil, categoryID, teamID)
		}
		return nil, err
	}
	return entry, nil
}

// winnerStats возвращает новые значения показателей победителя.
func winnerStats(entry *models.RankingEntry, winPoints int) (points, wins, losses, streak int) {
	streak = 1
	if entry.Streak >= 0 {
		streak = entry.Streak + 1
	}
	return entry.Points + winPoints, entry.Wins + 1, entry.Losses, streak
}

// loserStats возвращает новые значения показателей проигравшего.
// Очки не опускаются ниже нуля.
func loserStats(entry *models.RankingEntry, lossPenalty int) (points, wins, losses, streak int) {
	streak = -1
	if entry.Streak <= 0 {
		streak = entry.Streak - 1
	}
	points = entry.Points - lossPenalty
	if points < 0 {
		points = 0
	}
	return points, entry.Wins, entry.Losses + 1, streak
}

func (s *rankingService) ApplyMatchResult(ctx context.Context, exec repositories.SQLExecutor, categoryID, winnerTeamID, loserTeamID int) error {
	apply := func(exec repositories.SQLExecutor) error {
		// Читаем через exec: внутри транзакции подтверждения счёта чтения
		// должны видеть её состояние, а не пул соединений.
		winner, err := s.rankingRepo.GetByCategoryAndTeam(ctx, exec, categoryID, winnerTeamID)
		if err != nil {
			return fmt.Errorf("%w: winner team %d in category %d", ErrEntryNotFound, winnerTeamID, categoryID)
		}
		loser, err := s.rankingRepo.GetByCategoryAndTeam(ctx, exec, categoryID, loserTeamID)
		if err != nil {
			return fmt.Errorf("%w: loser team %d in category %d", ErrEntryNotFound, loserTeamID, categoryID)
		}

		points, wins, losses, streak := winnerStats(winner, s.winPoints)
		if err := s.rankingRepo.UpdateStats(ctx, exec, winner.ID, points, wins, losses, streak); err != nil {
			return err
		}
		points, wins, losses, streak = loserStats(loser, s.lossPenalty)
		if err := s.rankingRepo.UpdateStats(ctx, exec, loser.ID, points, wins, losses, streak); err != nil {
			return err
		}

		// Апсет: команда с численно худшим рангом победила. Все записи в
		// [loserRank, winnerRank) сдвигаются на позицию хуже, победитель
		// занимает прежний слот проигравшего. Не-апсет рангов не меняет.
		if winner.Rank > loser.Rank {
			if err := s.rankingRepo.ShiftRange(ctx, exec, categoryID, loser.Rank, winner.Rank); err != nil {
				return err
			}
			if err := s.rankingRepo.UpdateRank(ctx, exec, winner.ID, loser.Rank); err != nil {
				return err
			}
		}
		return nil
	}

	if exec != nil {
		// Уже внутри транзакции вызывающего (подтверждение счёта).
		return apply(exec)
	}
	return s.txRunner.RunInTx(ctx, apply)
}

func (s *rankingService) AdminAdjustStats(ctx context.Context, actorID, entryID int, adjustment StatAdjustment, notes string) error {
	if notes == "" {
		return ErrAuditNotesRequired
	}

	entry, err := s.rankingRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrRankingEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	updated := *entry
	if adjustment.Points != nil {
		updated.Points = *adjustment.Points
	}
	if adjustment.Wins != nil {
		updated.Wins = *adjustment.Wins
	}
	if adjustment.Losses != nil {
		updated.Losses = *adjustment.Losses
	}
	if adjustment.Streak != nil {
		updated.Streak = *adjustment.Streak
	}

	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.rankingRepo.UpdateStats(ctx, exec, entry.ID, updated.Points, updated.Wins, updated.Losses, updated.Streak); err != nil {
			return err
		}
		return s.appendAudit(ctx, exec, actorID, "adjust_stats", entry, &updated, notes)
	})
}

func (s *rankingService) AdminSwapRanks(ctx context.Context, actorID, entryAID, entryBID int, notes string) error {
	if notes == "" {
		return ErrAuditNotesRequired
	}

	entryA, err := s.rankingRepo.GetByID(ctx, entryAID)
	if err != nil {
		return ErrEntryNotFound
	}
	entryB, err := s.rankingRepo.GetByID(ctx, entryBID)
	if err != nil {
		return ErrEntryNotFound
	}

	if entryA.CategoryID != entryB.CategoryID {
		return ErrNotAdjacentRanks
	}
	diff := entryA.Rank - entryB.Rank
	if diff != 1 && diff != -1 {
		return ErrNotAdjacentRanks
	}

	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.rankingRepo.SwapRanks(ctx, exec, entryA.ID, entryA.Rank, entryB.ID, entryB.Rank); err != nil {
			return err
		}
		updatedA := *entryA
		updatedA.Rank = entryB.Rank
		return s.appendAudit(ctx, exec, actorID, "swap_ranks", entryA, &updatedA, notes)
	})
}

func (s *rankingService) appendAudit(ctx context.Context, exec repositories.SQLExecutor, actorID int, action string, before, after *models.RankingEntry, notes string) error {
	oldValues, err := json.Marshal(before)
	if err != nil {
		return fmt.Errorf("failed to snapshot old values: %w", err)
	}
	newValues, err := json.Marshal(after)
	if err != nil {
		return fmt.Errorf("failed to snapshot new values: %w", err)
	}

	record := &models.StatAuditRecord{
		ActorID:   actorID,
		Action:    action,
		Target:    fmt.Sprintf("ranking_entry:%d", before.ID),
		OldValues: oldValues,
		NewValues: newValues,
		Notes:     notes,
	}
	if err := s.auditRepo.Append(ctx, exec, record); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	s.logger.Info("admin ranking override recorded",
		slog.Int("actor_id", actorID),
		slog.String("action", action),
		slog.String("target", record.Target),
	)
	return nil
}
