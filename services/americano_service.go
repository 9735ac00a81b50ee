package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Dosada05/padel-ladder-system/brackets"
	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
)

// CreateAmericanoInput — параметры новой сессии.
// Names — имена игроков (individual) либо названия пар (team).
type CreateAmericanoInput struct {
	ClubID         int
	Name           string
	Mode           models.AmericanoMode
	PointsPerRound int
	TotalRounds    *int
	Names          []string
}

// AmericanoPlayerStats — свёртка сыгранных матчей одного игрока.
type AmericanoPlayerStats struct {
	PlayerID      int    `json:"player_id"`
	Name          string `json:"name"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Differential  int    `json:"differential"`
	Wins          int    `json:"wins"`
	Ties          int    `json:"ties"`
	Losses        int    `json:"losses"`
}

type AmericanoService interface {
	CreateSession(ctx context.Context, input CreateAmericanoInput) (*models.AmericanoSession, error)
	GetSession(ctx context.Context, id int) (*models.AmericanoSession, error)
	Start(ctx context.Context, sessionID int) ([]*models.AmericanoMatch, error)
	ListMatches(ctx context.Context, sessionID int) ([]*models.AmericanoMatch, error)
	Leaderboard(ctx context.Context, sessionID int) ([]*models.AmericanoPlayer, []*models.AmericanoTeam, error)

	SubmitMatchScore(ctx context.Context, matchID, score1, score2 int) error
	// CorrectScore заменяет счёт уже сыгранного матча: старый вклад
	// вычитается из агрегатов, новый добавляется.
	CorrectScore(ctx context.Context, matchID, newScore1, newScore2 int) error
	PlayerStats(ctx context.Context, sessionID, playerID int) (*AmericanoPlayerStats, error)
}

type americanoService struct {
	txRunner TxRunner
	repo     repositories.AmericanoRepository
	logger   *slog.Logger

	now func() time.Time
	rng *rand.Rand
}

func NewAmericanoService(txRunner TxRunner, repo repositories.AmericanoRepository, logger *slog.Logger) AmericanoService {
	return &americanoService{
		txRunner: txRunner,
		repo:     repo,
		logger:   logger,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *americanoService) CreateSession(ctx context.Context, input CreateAmericanoInput) (*models.AmericanoSession, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: session name is required", ErrValidationFailed)
	}
	if input.PointsPerRound < 1 {
		return nil, fmt.Errorf("%w: points_per_round must be positive", ErrValidationFailed)
	}

	switch input.Mode {
	case models.AmericanoModeTeam:
		if len(input.Names) < 2 {
			return nil, fmt.Errorf("%w: team americano needs at least 2 teams", ErrValidationFailed)
		}
	case models.AmericanoModeIndividual:
		if input.TotalRounds == nil || *input.TotalRounds < 1 {
			return nil, ErrTotalRoundsRequired
		}
		if len(input.Names) < 4 || len(input.Names)%4 != 0 {
			return nil, ErrPlayersNotMultipleOfFour
		}
	default:
		return nil, fmt.Errorf("%w: unknown americano mode %q", ErrValidationFailed, input.Mode)
	}

	session := &models.AmericanoSession{
		ClubID:         input.ClubID,
		Name:           input.Name,
		Mode:           input.Mode,
		PointsPerRound: input.PointsPerRound,
		TotalRounds:    input.TotalRounds,
		Status:         models.AmericanoStatusDraft,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create americano session: %w", err)
	}

	for _, name := range input.Names {
		switch input.Mode {
		case models.AmericanoModeTeam:
			team := &models.AmericanoTeam{SessionID: session.ID, Name: name}
			if err := s.repo.CreateTeam(ctx, team); err != nil {
				return nil, fmt.Errorf("failed to create americano team %q: %w", name, err)
			}
		case models.AmericanoModeIndividual:
			player := &models.AmericanoPlayer{SessionID: session.ID, Name: name}
			if err := s.repo.CreatePlayer(ctx, player); err != nil {
				return nil, fmt.Errorf("failed to create americano player %q: %w", name, err)
			}
		}
	}
	return session, nil
}

func (s *americanoService) GetSession(ctx context.Context, id int) (*models.AmericanoSession, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAmericanoSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// Start генерирует все матчи сессии вперёд и переводит её в in_progress.
// Командный режим — круг по парам; индивидуальный — на каждый раунд
// перетасовка игроков и разбиение на четвёрки ([0,1] против [2,3]).
func (s *americanoService) Start(ctx context.Context, sessionID int) ([]*models.AmericanoMatch, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.AmericanoStatusDraft {
		return nil, ErrSessionWrongStatus
	}

	var matches []*models.AmericanoMatch
	switch session.Mode {
	case models.AmericanoModeTeam:
		matches, err = s.generateTeamMatches(ctx, session)
	case models.AmericanoModeIndividual:
		matches, err = s.generateIndividualMatches(ctx, session)
	}
	if err != nil {
		return nil, err
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, match := range matches {
			if err := s.repo.CreateMatch(ctx, exec, match); err != nil {
				return fmt.Errorf("failed to create americano match r%d: %w", match.RoundNumber, err)
			}
		}
		return s.repo.UpdateSessionStatus(ctx, exec, sessionID, models.AmericanoStatusDraft, models.AmericanoStatusInProgress)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("americano session started",
		slog.Int("session_id", sessionID),
		slog.String("mode", string(session.Mode)),
		slog.Int("matches", len(matches)),
	)
	return matches, nil
}

func (s *americanoService) generateTeamMatches(ctx context.Context, session *models.AmericanoSession) ([]*models.AmericanoMatch, error) {
	teams, err := s.repo.ListTeams(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]int, 0, len(teams))
	for _, team := range teams {
		teamIDs = append(teamIDs, team.ID)
	}

	pairings, err := brackets.RoundRobinPairings(teamIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	matches := make([]*models.AmericanoMatch, 0, len(pairings))
	for i, pairing := range pairings {
		team1, team2 := pairing.Team1ID, pairing.Team2ID
		matches = append(matches, &models.AmericanoMatch{
			SessionID:   session.ID,
			RoundNumber: i + 1,
			CourtNumber: 1,
			Team1ID:     &team1,
			Team2ID:     &team2,
		})
	}
	return matches, nil
}

func (s *americanoService) generateIndividualMatches(ctx context.Context, session *models.AmericanoSession) ([]*models.AmericanoMatch, error) {
	players, err := s.repo.ListPlayers(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if len(players) < 4 || len(players)%4 != 0 {
		return nil, ErrPlayersNotMultipleOfFour
	}
	if session.TotalRounds == nil {
		return nil, ErrTotalRoundsRequired
	}

	ids := make([]int, 0, len(players))
	for _, player := range players {
		ids = append(ids, player.ID)
	}

	matches := make([]*models.AmericanoMatch, 0, *session.TotalRounds*len(ids)/4)
	for round := 1; round <= *session.TotalRounds; round++ {
		s.rng.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		for i := 0; i+3 < len(ids); i += 4 {
			p1, p2, p3, p4 := ids[i], ids[i+1], ids[i+2], ids[i+3]
			matches = append(matches, &models.AmericanoMatch{
				SessionID:      session.ID,
				RoundNumber:    round,
				CourtNumber:    i/4 + 1,
				Side1Player1ID: &p1,
				Side1Player2ID: &p2,
				Side2Player1ID: &p3,
				Side2Player2ID: &p4,
			})
		}
	}
	return matches, nil
}

func (s *americanoService) ListMatches(ctx context.Context, sessionID int) ([]*models.AmericanoMatch, error) {
	return s.repo.ListMatches(ctx, sessionID)
}

func (s *americanoService) Leaderboard(ctx context.Context, sessionID int) ([]*models.AmericanoPlayer, []*models.AmericanoTeam, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	switch session.Mode {
	case models.AmericanoModeTeam:
		teams, err := s.repo.ListTeams(ctx, sessionID)
		return nil, teams, err
	default:
		players, err := s.repo.ListPlayers(ctx, sessionID)
		return players, nil, err
	}
}

// SubmitMatchScore записывает счёт матча и применяет его к агрегатам всех
// участников одной транзакцией. Сумма очков обязана равняться
// points_per_round сессии. Когда сыгран последний матч, сессия завершается.
func (s *americanoService) SubmitMatchScore(ctx context.Context, matchID, score1, score2 int) error {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Completed() {
		return ErrMatchAlreadyCompleted
	}

	session, err := s.GetSession(ctx, match.SessionID)
	if err != nil {
		return err
	}
	if session.Status != models.AmericanoStatusInProgress {
		return ErrSessionWrongStatus
	}
	if err := validateAmericanoScore(session, score1, score2); err != nil {
		return err
	}

	completedAt := s.now()
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.repo.UpdateMatchScore(ctx, exec, matchID, score1, score2, completedAt); err != nil {
			return err
		}
		return s.applyMatchDeltas(ctx, exec, match, score1, score2, 1)
	})
	if err != nil {
		return err
	}

	incomplete, err := s.repo.CountIncomplete(ctx, match.SessionID)
	if err != nil {
		return err
	}
	if incomplete == 0 {
		err := s.repo.UpdateSessionStatus(ctx, nil, match.SessionID, models.AmericanoStatusInProgress, models.AmericanoStatusCompleted)
		if err != nil && !errors.Is(err, repositories.ErrAmericanoSessionNotFound) {
			return err
		}
		s.logger.Info("americano session completed", slog.Int("session_id", match.SessionID))
	}
	return nil
}

// CorrectScore атомарно откатывает вклад старого счёта и применяет новый.
// matches_played не меняется: матч остаётся сыгранным один раз.
func (s *americanoService) CorrectScore(ctx context.Context, matchID, newScore1, newScore2 int) error {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.Completed() {
		return ErrScoreNotSubmitted
	}

	session, err := s.GetSession(ctx, match.SessionID)
	if err != nil {
		return err
	}
	if err := validateAmericanoScore(session, newScore1, newScore2); err != nil {
		return err
	}

	oldScore1, oldScore2 := *match.Score1, *match.Score2
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		// Откат: -played компенсируется последующим +played с новым счётом.
		reverted := *match
		reverted.Score1, reverted.Score2 = &oldScore1, &oldScore2
		if err := s.applyMatchDeltas(ctx, exec, &reverted, oldScore1, oldScore2, -1); err != nil {
			return err
		}
		if err := s.applyMatchDeltas(ctx, exec, match, newScore1, newScore2, 1); err != nil {
			return err
		}
		return s.repo.UpdateMatchScore(ctx, exec, matchID, newScore1, newScore2, *match.CompletedAt)
	})
}

// applyMatchDeltas прибавляет (sign=+1) или вычитает (sign=-1) вклад одного
// счёта в агрегаты обеих сторон матча.
func (s *americanoService) applyMatchDeltas(ctx context.Context, exec repositories.SQLExecutor, match *models.AmericanoMatch, score1, score2, sign int) error {
	win1, loss1, win2, loss2 := 0, 0, 0, 0
	switch {
	case score1 > score2:
		win1, loss2 = 1, 1
	case score2 > score1:
		win2, loss1 = 1, 1
	}

	if match.Team1ID != nil && match.Team2ID != nil {
		if err := s.repo.ApplyTeamDelta(ctx, exec, *match.Team1ID, sign*score1, sign, sign*win1, sign*loss1); err != nil {
			return err
		}
		return s.repo.ApplyTeamDelta(ctx, exec, *match.Team2ID, sign*score2, sign, sign*win2, sign*loss2)
	}

	side1 := []*int{match.Side1Player1ID, match.Side1Player2ID}
	side2 := []*int{match.Side2Player1ID, match.Side2Player2ID}
	for _, playerID := range side1 {
		if playerID == nil {
			continue
		}
		if err := s.repo.ApplyPlayerDelta(ctx, exec, *playerID, sign*score1, sign, sign*win1, sign*loss1); err != nil {
			return err
		}
	}
	for _, playerID := range side2 {
		if playerID == nil {
			continue
		}
		if err := s.repo.ApplyPlayerDelta(ctx, exec, *playerID, sign*score2, sign, sign*win2, sign*loss2); err != nil {
			return err
		}
	}
	return nil
}

// PlayerStats пересчитывает показатели игрока по сыгранным матчам.
func (s *americanoService) PlayerStats(ctx context.Context, sessionID, playerID int) (*AmericanoPlayerStats, error) {
	players, err := s.repo.ListPlayers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var player *models.AmericanoPlayer
	for _, p := range players {
		if p.ID == playerID {
			player = p
			break
		}
	}
	if player == nil {
		return nil, ErrNotFound
	}

	matches, err := s.repo.ListMatches(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stats := &AmericanoPlayerStats{PlayerID: playerID, Name: player.Name}
	for _, match := range matches {
		if !match.Completed() {
			continue
		}
		var own, opp int
		switch {
		case containsPlayer(playerID, match.Side1Player1ID, match.Side1Player2ID):
			own, opp = *match.Score1, *match.Score2
		case containsPlayer(playerID, match.Side2Player1ID, match.Side2Player2ID):
			own, opp = *match.Score2, *match.Score1
		default:
			continue
		}
		stats.PointsFor += own
		stats.PointsAgainst += opp
		switch {
		case own > opp:
			stats.Wins++
		case own < opp:
			stats.Losses++
		default:
			stats.Ties++
		}
	}
	stats.Differential = stats.PointsFor - stats.PointsAgainst
	return stats, nil
}

func (s *americanoService) getMatch(ctx context.Context, id int) (*models.AmericanoMatch, error) {
	match, err := s.repo.GetMatch(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAmericanoMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func validateAmericanoScore(session *models.AmericanoSession, score1, score2 int) error {
	if score1 < 0 || score2 < 0 {
		return fmt.Errorf("%w: scores cannot be negative", ErrValidationFailed)
	}
	if score1+score2 != session.PointsPerRound {
		return fmt.Errorf("%w: %d+%d != %d", ErrPointSumMismatch, score1, score2, session.PointsPerRound)
	}
	return nil
}

func containsPlayer(playerID int, ids ...*int) bool {
	for _, id := range ids {
		if id != nil && *id == playerID {
			return true
		}
	}
	return false
}
