package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/padel-ladder-system/brackets"
	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
	"github.com/Dosada05/padel-ladder-system/scoring"
)

// CreateTournamentInput — параметры нового турнира.
type CreateTournamentInput struct {
	ClubID               int
	Name                 string
	Description          *string
	Format               models.TournamentFormat
	MaxTeams             int
	EntryFee             *float64
	RegistrationDeadline *time.Time
	StartDate            time.Time
	CourtCount           int
	MatchDurationMinutes int
}

// SubmitTournamentScoreInput — счёт матча турнира (группового или на вылет).
type SubmitTournamentScoreInput struct {
	MatchID int
	Sets    []scoring.SetScore // A — team1, B — team2
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Tournament, error)
	// GetDetail возвращает турнир вместе с участниками и матчами.
	GetDetail(ctx context.Context, id int) (*models.Tournament, error)

	OpenRegistration(ctx context.Context, tournamentID int) error
	Start(ctx context.Context, tournamentID int) error
	Register(ctx context.Context, tournamentID, teamID int) (*models.TournamentParticipant, error)
	Withdraw(ctx context.Context, tournamentID, teamID int) error

	// AssignGroups раскладывает зарегистрированных участников по группам:
	// вручную через manual (teamID -> номер группы) или случайно поровну.
	AssignGroups(ctx context.Context, tournamentID, groupCount int, manual map[int]int) error
	GenerateGroupMatches(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error)
	GroupStandings(ctx context.Context, tournamentID int) (map[int][]brackets.GroupStanding, error)
	SeedKnockout(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error)

	SubmitGroupScore(ctx context.Context, input SubmitTournamentScoreInput) (*models.TournamentMatch, error)
	SubmitKnockoutScore(ctx context.Context, input SubmitTournamentScoreInput) (*models.TournamentMatch, error)

	// AutoUpdateStatuses переводит турниры с истёкшим дедлайном регистрации
	// в in_progress. Запускается планировщиком.
	AutoUpdateStatuses(ctx context.Context) (int, error)
}

type tournamentService struct {
	txRunner        TxRunner
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.TournamentMatchRepository
	logger          *slog.Logger

	now func() time.Time
	rng *rand.Rand
}

func NewTournamentService(
	txRunner TxRunner,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.TournamentMatchRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		txRunner:        txRunner,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		logger:          logger,
		now:             time.Now,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.MaxTeams < 2 {
		return nil, fmt.Errorf("%w: max_teams must be at least 2", ErrValidationFailed)
	}
	if input.CourtCount < 1 {
		return nil, fmt.Errorf("%w: court_count must be at least 1", ErrValidationFailed)
	}
	if input.MatchDurationMinutes < 1 {
		return nil, fmt.Errorf("%w: match_duration_minutes must be positive", ErrValidationFailed)
	}
	switch input.Format {
	case models.FormatSingleElimination, models.FormatDoubleElimination, models.FormatRoundRobin:
	default:
		return nil, fmt.Errorf("%w: unknown tournament format %q", ErrValidationFailed, input.Format)
	}

	tournament := &models.Tournament{
		ClubID:               input.ClubID,
		Name:                 input.Name,
		Description:          input.Description,
		Format:               input.Format,
		Status:               models.TournamentStatusDraft,
		MaxTeams:             input.MaxTeams,
		EntryFee:             input.EntryFee,
		RegistrationDeadline: input.RegistrationDeadline,
		StartDate:            input.StartDate,
		CourtCount:           input.CourtCount,
		MatchDurationMinutes: input.MatchDurationMinutes,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) ListByClub(ctx context.Context, clubID int) ([]*models.Tournament, error) {
	return s.tournamentRepo.ListByClub(ctx, clubID)
}

// GetDetail собирает турнир, участников и матчи параллельно.
func (s *tournamentService) GetDetail(ctx context.Context, id int) (*models.Tournament, error) {
	var (
		tournament   *models.Tournament
		participants []*models.TournamentParticipant
		matches      []*models.TournamentMatch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, id, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tournament.Participants = make([]models.TournamentParticipant, 0, len(participants))
	for _, p := range participants {
		tournament.Participants = append(tournament.Participants, *p)
	}
	tournament.Matches = make([]models.TournamentMatch, 0, len(matches))
	for _, m := range matches {
		tournament.Matches = append(tournament.Matches, *m)
	}
	return tournament, nil
}

func (s *tournamentService) OpenRegistration(ctx context.Context, tournamentID int) error {
	err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, models.TournamentStatusDraft, models.TournamentStatusRegistration)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentWrongStatus
		}
		return err
	}
	return nil
}

func (s *tournamentService) Start(ctx context.Context, tournamentID int) error {
	err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, models.TournamentStatusRegistration, models.TournamentStatusInProgress)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentWrongStatus
		}
		return err
	}
	return nil
}

// Register никогда не отклоняет заявку из-за заполненности: сверх max_teams
// команда встаёт в хвост листа ожидания.
func (s *tournamentService) Register(ctx context.Context, tournamentID, teamID int) (*models.TournamentParticipant, error) {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentStatusRegistration {
		return nil, ErrTournamentWrongStatus
	}

	registered, err := s.participantRepo.CountRegistered(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	participant := &models.TournamentParticipant{
		TournamentID:  tournamentID,
		TeamID:        teamID,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	if registered >= tournament.MaxTeams {
		maxPos, err := s.participantRepo.MaxWaitlistPosition(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		position := maxPos + 1
		participant.WaitlistPosition = &position
	}

	if err := s.participantRepo.Create(ctx, nil, participant); err != nil {
		if errors.Is(err, repositories.ErrParticipantConflict) {
			return nil, fmt.Errorf("%w: team %d", ErrValidationFailed, teamID)
		}
		return nil, err
	}

	s.logger.Info("team registered for tournament",
		slog.Int("tournament_id", tournamentID),
		slog.Int("team_id", teamID),
		slog.Bool("waitlisted", participant.WaitlistPosition != nil),
	)
	return participant, nil
}

// Withdraw снимает команду с турнира. Если место освободилось, голова листа
// ожидания подтверждается, остальные сдвигаются — всё одной транзакцией.
func (s *tournamentService) Withdraw(ctx context.Context, tournamentID, teamID int) error {
	participant, err := s.participantRepo.GetByTournamentAndTeam(ctx, tournamentID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !participant.Registered() {
		removed := *participant.WaitlistPosition
		return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			if err := s.participantRepo.Delete(ctx, exec, participant.ID); err != nil {
				return err
			}
			return s.participantRepo.RenumberWaitlistAfter(ctx, exec, tournamentID, removed)
		})
	}

	all, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	var head *models.TournamentParticipant
	for _, p := range all {
		if p.WaitlistPosition != nil && *p.WaitlistPosition == 1 {
			head = p
			break
		}
	}

	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.participantRepo.Delete(ctx, exec, participant.ID); err != nil {
			return err
		}
		if head == nil {
			return nil
		}
		if err := s.participantRepo.SetWaitlistPosition(ctx, exec, head.ID, nil); err != nil {
			return err
		}
		return s.participantRepo.RenumberWaitlistAfter(ctx, exec, tournamentID, 1)
	})
}

func (s *tournamentService) AssignGroups(ctx context.Context, tournamentID, groupCount int, manual map[int]int) error {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.Status != models.TournamentStatusInProgress {
		return ErrTournamentWrongStatus
	}

	participants, err := s.registeredParticipants(ctx, tournamentID)
	if err != nil {
		return err
	}
	byTeam := make(map[int]*models.TournamentParticipant, len(participants))
	teamIDs := make([]int, 0, len(participants))
	for _, p := range participants {
		byTeam[p.TeamID] = p
		teamIDs = append(teamIDs, p.TeamID)
	}

	assignment := make(map[int]int, len(participants)) // participantID -> group
	if len(manual) > 0 {
		for teamID, group := range manual {
			p, ok := byTeam[teamID]
			if !ok {
				return fmt.Errorf("%w: team %d is not registered for tournament %d", ErrValidationFailed, teamID, tournamentID)
			}
			if group < 1 || group > groupCount {
				return fmt.Errorf("%w: group %d is out of range 1..%d", ErrValidationFailed, group, groupCount)
			}
			assignment[p.ID] = group
		}
		if len(assignment) != len(participants) {
			return fmt.Errorf("%w: manual assignment must cover all %d registered teams", ErrValidationFailed, len(participants))
		}
	} else {
		groups, err := brackets.SplitIntoGroups(teamIDs, groupCount, s.rng)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
		}
		for g, ids := range groups {
			for _, teamID := range ids {
				assignment[byTeam[teamID].ID] = g + 1
			}
		}
	}

	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for participantID, group := range assignment {
			if err := s.participantRepo.SetGroupNumber(ctx, exec, participantID, group); err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateGroupMatches строит полный круговой этап. При назначенных группах —
// по кругу внутри каждой группы; без групп (чистый round_robin) — по всему
// составу. Корты и время раздаются по сетке расписания.
func (s *tournamentService) GenerateGroupMatches(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error) {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentStatusInProgress {
		return nil, ErrTournamentWrongStatus
	}

	participants, err := s.registeredParticipants(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	// Группы в порядке номеров; без назначенных групп — один общий пул.
	pools := make(map[int][]int)
	for _, p := range participants {
		group := 0
		if p.GroupNumber != nil {
			group = *p.GroupNumber
		}
		pools[group] = append(pools[group], p.TeamID)
	}
	groupNumbers := make([]int, 0, len(pools))
	for g := range pools {
		groupNumbers = append(groupNumbers, g)
	}
	sort.Ints(groupNumbers)

	params := brackets.ScheduleParams{
		CourtCount:    tournament.CourtCount,
		StartTime:     tournament.StartDate,
		MatchDuration: time.Duration(tournament.MatchDurationMinutes) * time.Minute,
	}

	matches := make([]*models.TournamentMatch, 0)
	matchNumber := 0
	for _, g := range groupNumbers {
		pairings, err := brackets.RoundRobinPairings(pools[g])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
		}
		for _, pairing := range pairings {
			court, at := brackets.ScheduleSlot(matchNumber, params)
			team1, team2 := pairing.Team1ID, pairing.Team2ID
			scheduledAt := at
			matchNumber++
			matches = append(matches, &models.TournamentMatch{
				TournamentID: tournamentID,
				Stage:        models.StageGroup,
				RoundNumber:  1,
				MatchNumber:  matchNumber,
				Team1ID:      &team1,
				Team2ID:      &team2,
				CourtNumber:  &court,
				ScheduledAt:  &scheduledAt,
			})
		}
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, match := range matches {
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("failed to create group match %d: %w", match.MatchNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group matches generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("count", len(matches)),
	)
	return matches, nil
}

func (s *tournamentService) GroupStandings(ctx context.Context, tournamentID int) (map[int][]brackets.GroupStanding, error) {
	participants, err := s.registeredParticipants(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	tables := make(map[int][]brackets.GroupStanding)
	for _, p := range participants {
		group := 0
		if p.GroupNumber != nil {
			group = *p.GroupNumber
		}
		tables[group] = append(tables[group], brackets.GroupStanding{
			TeamID:        p.TeamID,
			Wins:          p.GroupWins,
			Losses:        p.GroupLosses,
			PointsFor:     p.GroupPointsFor,
			PointsAgainst: p.GroupPointsAgainst,
		})
	}
	for group := range tables {
		brackets.SortStandings(tables[group])
	}
	return tables, nil
}

// SeedKnockout формирует сетку плей-офф из итоговых групповых таблиц
// и сохраняет все раунды одной транзакцией.
func (s *tournamentService) SeedKnockout(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error) {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentStatusInProgress {
		return nil, ErrTournamentWrongStatus
	}

	tables, err := s.GroupStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	groupNumbers := make([]int, 0, len(tables))
	for g := range tables {
		groupNumbers = append(groupNumbers, g)
	}
	sort.Ints(groupNumbers)

	rankings := make([][]int, 0, len(groupNumbers))
	for _, g := range groupNumbers {
		ranked := make([]int, 0, len(tables[g]))
		for _, row := range tables[g] {
			ranked = append(ranked, row.TeamID)
		}
		rankings = append(rankings, ranked)
	}

	seeded, err := brackets.SeedKnockout(rankings)
	if err != nil {
		if errors.Is(err, brackets.ErrUnsupportedGroupCount) {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
		}
		return nil, err
	}

	matches := make([]*models.TournamentMatch, 0, len(seeded))
	for _, sm := range seeded {
		matches = append(matches, &models.TournamentMatch{
			TournamentID: tournamentID,
			Stage:        models.StageKnockout,
			RoundNumber:  sm.RoundNumber,
			MatchNumber:  sm.MatchNumber,
			Team1ID:      sm.Team1ID,
			Team2ID:      sm.Team2ID,
		})
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, match := range matches {
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("failed to create knockout match r%d m%d: %w", match.RoundNumber, match.MatchNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// SubmitGroupScore записывает счёт группового матча и инкрементально
// обновляет таблицу обеих команд. Очки таблицы — выигранные геймы.
func (s *tournamentService) SubmitGroupScore(ctx context.Context, input SubmitTournamentScoreInput) (*models.TournamentMatch, error) {
	match, result, games1, games2, err := s.prepareScore(ctx, input, models.StageGroup)
	if err != nil {
		return nil, err
	}

	winnerTeamID := *match.Team1ID
	loserTeamID := *match.Team2ID
	if result.WinnerSide == 2 {
		winnerTeamID, loserTeamID = loserTeamID, winnerTeamID
	}
	match.WinnerTeamID = &winnerTeamID

	winner, err := s.participantRepo.GetByTournamentAndTeam(ctx, match.TournamentID, winnerTeamID)
	if err != nil {
		return nil, err
	}
	loser, err := s.participantRepo.GetByTournamentAndTeam(ctx, match.TournamentID, loserTeamID)
	if err != nil {
		return nil, err
	}

	winnerFor, winnerAgainst := games1, games2
	if result.WinnerSide == 2 {
		winnerFor, winnerAgainst = games2, games1
	}

	completedAt := s.now()
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateScore(ctx, exec, match, completedAt); err != nil {
			if errors.Is(err, repositories.ErrTournamentMatchStale) {
				return ErrMatchAlreadyCompleted
			}
			return err
		}
		if err := s.participantRepo.ApplyGroupResult(ctx, exec, winner.ID, 1, 0, winnerFor, winnerAgainst); err != nil {
			return err
		}
		return s.participantRepo.ApplyGroupResult(ctx, exec, loser.ID, 0, 1, winnerAgainst, winnerFor)
	})
	if err != nil {
		return nil, err
	}
	match.CompletedAt = &completedAt

	if err := s.maybeCompleteRoundRobin(ctx, match.TournamentID); err != nil {
		return nil, err
	}
	return match, nil
}

// SubmitKnockoutScore записывает счёт и продвигает победителя в следующий
// раунд; после финала турнир завершается с winner_team_id.
func (s *tournamentService) SubmitKnockoutScore(ctx context.Context, input SubmitTournamentScoreInput) (*models.TournamentMatch, error) {
	match, result, _, _, err := s.prepareScore(ctx, input, models.StageKnockout)
	if err != nil {
		return nil, err
	}

	winnerTeamID := *match.Team1ID
	if result.WinnerSide == 2 {
		winnerTeamID = *match.Team2ID
	}
	match.WinnerTeamID = &winnerTeamID

	nextRound, err := s.matchRepo.ListByRound(ctx, match.TournamentID, models.StageKnockout, match.RoundNumber+1)
	if err != nil {
		return nil, err
	}

	completedAt := s.now()
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateScore(ctx, exec, match, completedAt); err != nil {
			if errors.Is(err, repositories.ErrTournamentMatchStale) {
				return ErrMatchAlreadyCompleted
			}
			return err
		}
		if len(nextRound) == 0 {
			// Финал сыгран.
			return s.tournamentRepo.SetWinner(ctx, exec, match.TournamentID, winnerTeamID)
		}

		nextIndex, slot := brackets.AdvanceTarget(match.MatchNumber)
		if nextIndex >= len(nextRound) {
			return fmt.Errorf("no next-round match at index %d for match number %d", nextIndex, match.MatchNumber)
		}
		return s.matchRepo.SetTeamSlot(ctx, exec, nextRound[nextIndex].ID, slot, winnerTeamID)
	})
	if err != nil {
		return nil, err
	}

	match.CompletedAt = &completedAt
	s.logger.Info("knockout match completed",
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("match_id", match.ID),
		slog.Int("winner_team_id", winnerTeamID),
	)
	return match, nil
}

func (s *tournamentService) AutoUpdateStatuses(ctx context.Context) (int, error) {
	expired, err := s.tournamentRepo.ListRegistrationExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, tournament := range expired {
		err := s.tournamentRepo.UpdateStatus(ctx, nil, tournament.ID,
			models.TournamentStatusRegistration, models.TournamentStatusInProgress)
		if err != nil {
			// Конкурирующий переход — не ошибка всей развёртки.
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				continue
			}
			return updated, err
		}
		updated++
		s.logger.Info("tournament moved to in_progress by deadline",
			slog.Int("tournament_id", tournament.ID))
	}
	return updated, nil
}

// prepareScore загружает матч нужной стадии, проверяет слоты и счёт.
// Возвращает матч с заполненными полями счёта и суммы геймов по сторонам.
func (s *tournamentService) prepareScore(ctx context.Context, input SubmitTournamentScoreInput, stage models.TournamentStage) (*models.TournamentMatch, *scoring.Result, int, int, error) {
	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentMatchNotFound) {
			return nil, nil, 0, 0, ErrMatchNotFound
		}
		return nil, nil, 0, 0, err
	}
	if match.Stage != stage {
		return nil, nil, 0, 0, fmt.Errorf("%w: match %d is a %s-stage match", ErrValidationFailed, match.ID, match.Stage)
	}
	if match.CompletedAt != nil {
		return nil, nil, 0, 0, ErrMatchAlreadyCompleted
	}
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, nil, 0, 0, ErrMatchSlotsNotResolved
	}

	result, err := scoring.ResolveBestOfThree(input.Sets)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	games1, games2 := 0, 0
	match.SetScoresTeam1 = make([]int64, len(input.Sets))
	match.SetScoresTeam2 = make([]int64, len(input.Sets))
	for i, set := range input.Sets {
		match.SetScoresTeam1[i] = int64(set.A)
		match.SetScoresTeam2[i] = int64(set.B)
		games1 += set.A
		games2 += set.B
	}
	return match, result, games1, games2, nil
}

// maybeCompleteRoundRobin завершает чистый круговой турнир, когда сыгран
// последний матч: победитель — лидер общей таблицы.
func (s *tournamentService) maybeCompleteRoundRobin(ctx context.Context, tournamentID int) error {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.Format != models.FormatRoundRobin || tournament.Status != models.TournamentStatusInProgress {
		return nil
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return err
	}
	for _, match := range matches {
		if match.CompletedAt == nil {
			return nil
		}
	}

	tables, err := s.GroupStandings(ctx, tournamentID)
	if err != nil {
		return err
	}
	overall := make([]brackets.GroupStanding, 0)
	for _, rows := range tables {
		overall = append(overall, rows...)
	}
	if len(overall) == 0 {
		return nil
	}
	brackets.SortStandings(overall)

	if err := s.tournamentRepo.SetWinner(ctx, nil, tournamentID, overall[0].TeamID); err != nil {
		return err
	}
	s.logger.Info("round-robin tournament completed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("winner_team_id", overall[0].TeamID),
	)
	return nil
}

func (s *tournamentService) registeredParticipants(ctx context.Context, tournamentID int) ([]*models.TournamentParticipant, error) {
	all, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	registered := make([]*models.TournamentParticipant, 0, len(all))
	for _, p := range all {
		if p.Registered() {
			registered = append(registered, p)
		}
	}
	return registered, nil
}
