package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxRunner прогоняет функцию без транзакции: фейковые репозитории
// пишут в память, nil-экзекьютор им безразличен.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

// stubExecutor — маркер для проверки, что вызов репозитория получил
// экзекьютор транзакции, а не пошёл мимо неё. Методы не вызываются.
type stubExecutor struct{}

func (stubExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (stubExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (stubExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	proposed  []*models.Challenge
	accepted  []*models.Challenge
	declined  []*models.Challenge
	submitted []*models.Match
	confirmed []*models.Match
	disputed  []*models.Match
}

func (n *recordingNotifier) NotifyChallengeProposed(c *models.Challenge) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.proposed = append(n.proposed, c)
}

func (n *recordingNotifier) NotifyChallengeAccepted(c *models.Challenge, _ *models.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accepted = append(n.accepted, c)
}

func (n *recordingNotifier) NotifyChallengeDeclined(c *models.Challenge) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.declined = append(n.declined, c)
}

func (n *recordingNotifier) NotifyScoreSubmitted(m *models.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, m)
}

func (n *recordingNotifier) NotifyScoreConfirmed(m *models.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, m)
}

func (n *recordingNotifier) NotifyScoreDisputed(m *models.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.disputed = append(n.disputed, m)
}

type fakeRankingRepo struct {
	entries map[int]*models.RankingEntry
	nextID  int
	// readExecs копит экзекьюторы, переданные в GetByCategoryAndTeam.
	readExecs []repositories.SQLExecutor
}

func newFakeRankingRepo() *fakeRankingRepo {
	return &fakeRankingRepo{entries: make(map[int]*models.RankingEntry), nextID: 1}
}

func (f *fakeRankingRepo) add(categoryID, teamID, rank int) *models.RankingEntry {
	entry := &models.RankingEntry{ID: f.nextID, CategoryID: categoryID, TeamID: teamID, Rank: rank}
	f.entries[entry.ID] = entry
	f.nextID++
	return entry
}

func (f *fakeRankingRepo) Create(_ context.Context, _ repositories.SQLExecutor, entry *models.RankingEntry) error {
	for _, e := range f.entries {
		if e.CategoryID == entry.CategoryID && e.TeamID == entry.TeamID {
			return repositories.ErrRankingEntryConflict
		}
	}
	entry.ID = f.nextID
	f.nextID++
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeRankingRepo) GetByID(_ context.Context, id int) (*models.RankingEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, repositories.ErrRankingEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeRankingRepo) GetByCategoryAndTeam(_ context.Context, exec repositories.SQLExecutor, categoryID, teamID int) (*models.RankingEntry, error) {
	f.readExecs = append(f.readExecs, exec)
	for _, e := range f.entries {
		if e.CategoryID == categoryID && e.TeamID == teamID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrRankingEntryNotFound
}

func (f *fakeRankingRepo) ListByCategory(_ context.Context, categoryID int) ([]*models.RankingEntry, error) {
	entries := make([]*models.RankingEntry, 0)
	for _, e := range f.entries {
		if e.CategoryID == categoryID {
			copied := *e
			entries = append(entries, &copied)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })
	return entries, nil
}

func (f *fakeRankingRepo) CountByCategory(_ context.Context, categoryID int) (int, error) {
	count := 0
	for _, e := range f.entries {
		if e.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRankingRepo) ShiftRange(_ context.Context, _ repositories.SQLExecutor, categoryID, fromRank, toRank int) error {
	for _, e := range f.entries {
		if e.CategoryID == categoryID && e.Rank >= fromRank && e.Rank < toRank {
			e.Rank++
		}
	}
	return nil
}

func (f *fakeRankingRepo) UpdateRank(_ context.Context, _ repositories.SQLExecutor, entryID, rank int) error {
	entry, ok := f.entries[entryID]
	if !ok {
		return repositories.ErrRankingEntryNotFound
	}
	entry.Rank = rank
	return nil
}

func (f *fakeRankingRepo) UpdateStats(_ context.Context, _ repositories.SQLExecutor, entryID, points, wins, losses, streak int) error {
	entry, ok := f.entries[entryID]
	if !ok {
		return repositories.ErrRankingEntryNotFound
	}
	entry.Points, entry.Wins, entry.Losses, entry.Streak = points, wins, losses, streak
	return nil
}

func (f *fakeRankingRepo) SwapRanks(ctx context.Context, exec repositories.SQLExecutor, entryAID, rankA, entryBID, rankB int) error {
	if err := f.UpdateRank(ctx, exec, entryAID, rankB); err != nil {
		return err
	}
	return f.UpdateRank(ctx, exec, entryBID, rankA)
}

type fakeAuditRepo struct {
	records []*models.StatAuditRecord
}

func (f *fakeAuditRepo) Append(_ context.Context, _ repositories.SQLExecutor, record *models.StatAuditRecord) error {
	record.ID = len(f.records) + 1
	record.CreatedAt = time.Now()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAuditRepo) ListByTarget(_ context.Context, target string) ([]*models.StatAuditRecord, error) {
	matched := make([]*models.StatAuditRecord, 0)
	for _, r := range f.records {
		if r.Target == target {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, team := range teams {
		repo.teams[team.ID] = team
	}
	return repo
}

func (f *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	team.ID = len(f.teams) + 1
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) ListByClub(_ context.Context, clubID int) ([]*models.Team, error) {
	teams := make([]*models.Team, 0)
	for _, team := range f.teams {
		if team.ClubID == clubID {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (f *fakeTeamRepo) UpdateFreeze(_ context.Context, id int, frozen bool, until *time.Time, reason *string) error {
	team, ok := f.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.IsFrozen, team.FrozenUntil, team.FrozenReason = frozen, until, reason
	return nil
}

type fakeLadderRepo struct {
	ladders    map[int]*models.Ladder
	categories map[int]*models.LadderCategory
}

func newFakeLadderRepo(categories ...*models.LadderCategory) *fakeLadderRepo {
	repo := &fakeLadderRepo{
		ladders:    make(map[int]*models.Ladder),
		categories: make(map[int]*models.LadderCategory),
	}
	for _, category := range categories {
		repo.categories[category.ID] = category
	}
	return repo
}

func (f *fakeLadderRepo) CreateLadder(_ context.Context, ladder *models.Ladder) error {
	ladder.ID = len(f.ladders) + 1
	f.ladders[ladder.ID] = ladder
	return nil
}

func (f *fakeLadderRepo) GetLadderByID(_ context.Context, id int) (*models.Ladder, error) {
	ladder, ok := f.ladders[id]
	if !ok {
		return nil, repositories.ErrLadderNotFound
	}
	return ladder, nil
}

func (f *fakeLadderRepo) CreateCategory(_ context.Context, category *models.LadderCategory) error {
	category.ID = len(f.categories) + 1
	f.categories[category.ID] = category
	return nil
}

func (f *fakeLadderRepo) GetCategoryByID(_ context.Context, id int) (*models.LadderCategory, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	return category, nil
}

func (f *fakeLadderRepo) ListCategoriesByLadder(_ context.Context, ladderID int) ([]*models.LadderCategory, error) {
	categories := make([]*models.LadderCategory, 0)
	for _, category := range f.categories {
		if category.LadderID == ladderID {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

type fakeChallengeRepo struct {
	challenges map[int]*models.Challenge
	nextID     int
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[int]*models.Challenge), nextID: 1}
}

func (f *fakeChallengeRepo) Create(_ context.Context, challenge *models.Challenge) error {
	challenge.ID = f.nextID
	challenge.CreatedAt = time.Now()
	f.nextID++
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) GetByID(_ context.Context, id int) (*models.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return nil, repositories.ErrChallengeNotFound
	}
	copied := *challenge
	return &copied, nil
}

func (f *fakeChallengeRepo) ListByTeam(_ context.Context, teamID int, status *models.ChallengeStatus) ([]*models.Challenge, error) {
	challenges := make([]*models.Challenge, 0)
	for _, c := range f.challenges {
		if c.ChallengerTeamID != teamID && c.ChallengedTeamID != teamID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		copied := *c
		challenges = append(challenges, &copied)
	}
	return challenges, nil
}

func (f *fakeChallengeRepo) HasPendingBetween(_ context.Context, challengerTeamID, challengedTeamID int) (bool, error) {
	for _, c := range f.challenges {
		if c.ChallengerTeamID == challengerTeamID && c.ChallengedTeamID == challengedTeamID && c.Status == models.ChallengeStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChallengeRepo) ResolvePending(_ context.Context, _ repositories.SQLExecutor, id int, status models.ChallengeStatus, declineReason *string, matchID *int) error {
	challenge, ok := f.challenges[id]
	if !ok || challenge.Status != models.ChallengeStatusPending {
		return repositories.ErrChallengeStale
	}
	challenge.Status = status
	challenge.DeclineReason = declineReason
	challenge.MatchID = matchID
	return nil
}

func (f *fakeChallengeRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var expired int64
	for _, c := range f.challenges {
		if c.Status == models.ChallengeStatusPending && !c.ExpiresAt.After(now) {
			c.Status = models.ChallengeStatusExpired
			expired++
		}
	}
	return expired, nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = f.nextID
	match.CreatedAt = time.Now()
	f.nextID++
	copied := *match
	f.matches[match.ID] = &copied
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeMatchRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.ChallengerTeamID == teamID || m.ChallengedTeamID == teamID {
			copied := *m
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (f *fakeMatchRepo) UpdateScoreSubmission(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	stored, ok := f.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	switch stored.Status {
	case models.MatchStatusPending, models.MatchStatusScheduled, models.MatchStatusInProgress:
	default:
		return repositories.ErrMatchStale
	}
	stored.SetScoresChallenger = match.SetScoresChallenger
	stored.SetScoresChallenged = match.SetScoresChallenged
	stored.SetsWonChallenger = match.SetsWonChallenger
	stored.SetsWonChallenged = match.SetsWonChallenged
	stored.WinnerTeamID = match.WinnerTeamID
	stored.ScoreSubmittedBy = match.ScoreSubmittedBy
	stored.ScoreDisputed = false
	stored.DisputeReason = nil
	stored.Status = models.MatchStatusPending
	return nil
}

func (f *fakeMatchRepo) UpdateConfirmation(_ context.Context, _ repositories.SQLExecutor, id, confirmerUserID int, completedAt time.Time) error {
	stored, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if stored.Status != models.MatchStatusPending || stored.ScoreSubmittedBy == nil {
		return repositories.ErrMatchStale
	}
	stored.ScoreConfirmedBy = &confirmerUserID
	stored.Status = models.MatchStatusCompleted
	stored.CompletedAt = &completedAt
	return nil
}

func (f *fakeMatchRepo) UpdateDispute(_ context.Context, _ repositories.SQLExecutor, id int, reason string) error {
	stored, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if stored.Status != models.MatchStatusPending || stored.ScoreSubmittedBy == nil {
		return repositories.ErrMatchStale
	}
	stored.SetScoresChallenger = nil
	stored.SetScoresChallenged = nil
	stored.SetsWonChallenger = nil
	stored.SetsWonChallenged = nil
	stored.WinnerTeamID = nil
	stored.CompletedAt = nil
	stored.ScoreSubmittedBy = nil
	stored.ScoreConfirmedBy = nil
	stored.ScoreDisputed = true
	stored.DisputeReason = &reason
	stored.Status = models.MatchStatusInProgress
	return nil
}

func (f *fakeMatchRepo) UpdateSchedule(_ context.Context, id int, scheduledAt time.Time, venue *string) error {
	stored, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if stored.Status != models.MatchStatusPending && stored.Status != models.MatchStatusScheduled {
		return repositories.ErrMatchStale
	}
	stored.ScheduledAt = &scheduledAt
	stored.Venue = venue
	stored.Status = models.MatchStatusScheduled
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (f *fakeTournamentRepo) Create(_ context.Context, tournament *models.Tournament) error {
	tournament.ID = f.nextID
	tournament.CreatedAt = time.Now()
	f.nextID++
	copied := *tournament
	f.tournaments[tournament.ID] = &copied
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	tournament, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *tournament
	return &copied, nil
}

func (f *fakeTournamentRepo) ListByClub(_ context.Context, clubID int) ([]*models.Tournament, error) {
	tournaments := make([]*models.Tournament, 0)
	for _, t := range f.tournaments {
		if t.ClubID == clubID {
			copied := *t
			tournaments = append(tournaments, &copied)
		}
	}
	return tournaments, nil
}

func (f *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, from, to models.TournamentStatus) error {
	tournament, ok := f.tournaments[id]
	if !ok || tournament.Status != from {
		return repositories.ErrTournamentNotFound
	}
	tournament.Status = to
	return nil
}

func (f *fakeTournamentRepo) SetWinner(_ context.Context, _ repositories.SQLExecutor, id, winnerTeamID int) error {
	tournament, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.Status = models.TournamentStatusCompleted
	tournament.WinnerTeamID = &winnerTeamID
	return nil
}

func (f *fakeTournamentRepo) ListRegistrationExpired(_ context.Context, now time.Time) ([]*models.Tournament, error) {
	expired := make([]*models.Tournament, 0)
	for _, t := range f.tournaments {
		if t.Status == models.TournamentStatusRegistration && t.RegistrationDeadline != nil && !t.RegistrationDeadline.After(now) {
			copied := *t
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

type fakeParticipantRepo struct {
	participants map[int]*models.TournamentParticipant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]*models.TournamentParticipant), nextID: 1}
}

func (f *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, participant *models.TournamentParticipant) error {
	for _, p := range f.participants {
		if p.TournamentID == participant.TournamentID && p.TeamID == participant.TeamID {
			return repositories.ErrParticipantConflict
		}
	}
	participant.ID = f.nextID
	participant.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	f.nextID++
	copied := *participant
	f.participants[participant.ID] = &copied
	return nil
}

func (f *fakeParticipantRepo) GetByTournamentAndTeam(_ context.Context, tournamentID, teamID int) (*models.TournamentParticipant, error) {
	for _, p := range f.participants {
		if p.TournamentID == tournamentID && p.TeamID == teamID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.TournamentParticipant, error) {
	participants := make([]*models.TournamentParticipant, 0)
	for _, p := range f.participants {
		if p.TournamentID == tournamentID {
			copied := *p
			participants = append(participants, &copied)
		}
	}
	sort.Slice(participants, func(i, j int) bool {
		a, b := participants[i], participants[j]
		switch {
		case a.WaitlistPosition == nil && b.WaitlistPosition != nil:
			return true
		case a.WaitlistPosition != nil && b.WaitlistPosition == nil:
			return false
		case a.WaitlistPosition != nil && b.WaitlistPosition != nil:
			return *a.WaitlistPosition < *b.WaitlistPosition
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return participants, nil
}

func (f *fakeParticipantRepo) CountRegistered(_ context.Context, tournamentID int) (int, error) {
	count := 0
	for _, p := range f.participants {
		if p.TournamentID == tournamentID && p.WaitlistPosition == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeParticipantRepo) MaxWaitlistPosition(_ context.Context, tournamentID int) (int, error) {
	max := 0
	for _, p := range f.participants {
		if p.TournamentID == tournamentID && p.WaitlistPosition != nil && *p.WaitlistPosition > max {
			max = *p.WaitlistPosition
		}
	}
	return max, nil
}

func (f *fakeParticipantRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := f.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(f.participants, id)
	return nil
}

func (f *fakeParticipantRepo) SetWaitlistPosition(_ context.Context, _ repositories.SQLExecutor, id int, position *int) error {
	participant, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	participant.WaitlistPosition = position
	return nil
}

func (f *fakeParticipantRepo) RenumberWaitlistAfter(_ context.Context, _ repositories.SQLExecutor, tournamentID, removedPosition int) error {
	for _, p := range f.participants {
		if p.TournamentID == tournamentID && p.WaitlistPosition != nil && *p.WaitlistPosition > removedPosition {
			next := *p.WaitlistPosition - 1
			p.WaitlistPosition = &next
		}
	}
	return nil
}

func (f *fakeParticipantRepo) SetGroupNumber(_ context.Context, _ repositories.SQLExecutor, id int, groupNumber int) error {
	participant, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	participant.GroupNumber = &groupNumber
	return nil
}

func (f *fakeParticipantRepo) ApplyGroupResult(_ context.Context, _ repositories.SQLExecutor, id int, wins, losses, pointsFor, pointsAgainst int) error {
	participant, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	participant.GroupWins += wins
	participant.GroupLosses += losses
	participant.GroupPointsFor += pointsFor
	participant.GroupPointsAgainst += pointsAgainst
	return nil
}

type fakeTournamentMatchRepo struct {
	matches map[int]*models.TournamentMatch
	nextID  int
}

func newFakeTournamentMatchRepo() *fakeTournamentMatchRepo {
	return &fakeTournamentMatchRepo{matches: make(map[int]*models.TournamentMatch), nextID: 1}
}

func (f *fakeTournamentMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.TournamentMatch) error {
	match.ID = f.nextID
	match.CreatedAt = time.Now()
	f.nextID++
	copied := *match
	f.matches[match.ID] = &copied
	return nil
}

func (f *fakeTournamentMatchRepo) GetByID(_ context.Context, id int) (*models.TournamentMatch, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrTournamentMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeTournamentMatchRepo) ListByTournament(_ context.Context, tournamentID int, stage *models.TournamentStage) ([]*models.TournamentMatch, error) {
	matches := make([]*models.TournamentMatch, 0)
	for _, m := range f.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if stage != nil && m.Stage != *stage {
			continue
		}
		copied := *m
		matches = append(matches, &copied)
	}
	sortTournamentMatches(matches)
	return matches, nil
}

func (f *fakeTournamentMatchRepo) ListByRound(_ context.Context, tournamentID int, stage models.TournamentStage, roundNumber int) ([]*models.TournamentMatch, error) {
	matches := make([]*models.TournamentMatch, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && m.Stage == stage && m.RoundNumber == roundNumber {
			copied := *m
			matches = append(matches, &copied)
		}
	}
	sortTournamentMatches(matches)
	return matches, nil
}

func sortTournamentMatches(matches []*models.TournamentMatch) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Stage != b.Stage {
			return a.Stage < b.Stage
		}
		if a.RoundNumber != b.RoundNumber {
			return a.RoundNumber < b.RoundNumber
		}
		return a.MatchNumber < b.MatchNumber
	})
}

func (f *fakeTournamentMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, match *models.TournamentMatch, completedAt time.Time) error {
	stored, ok := f.matches[match.ID]
	if !ok {
		return repositories.ErrTournamentMatchNotFound
	}
	if stored.CompletedAt != nil {
		return repositories.ErrTournamentMatchStale
	}
	stored.SetScoresTeam1 = match.SetScoresTeam1
	stored.SetScoresTeam2 = match.SetScoresTeam2
	stored.WinnerTeamID = match.WinnerTeamID
	stored.CompletedAt = &completedAt
	return nil
}

func (f *fakeTournamentMatchRepo) SetTeamSlot(_ context.Context, _ repositories.SQLExecutor, id, slot, teamID int) error {
	stored, ok := f.matches[id]
	if !ok {
		return repositories.ErrTournamentMatchNotFound
	}
	switch slot {
	case 1:
		stored.Team1ID = &teamID
	case 2:
		stored.Team2ID = &teamID
	}
	return nil
}

type fakeAmericanoRepo struct {
	sessions map[int]*models.AmericanoSession
	players  map[int]*models.AmericanoPlayer
	teams    map[int]*models.AmericanoTeam
	matches  map[int]*models.AmericanoMatch
	nextID   int
}

func newFakeAmericanoRepo() *fakeAmericanoRepo {
	return &fakeAmericanoRepo{
		sessions: make(map[int]*models.AmericanoSession),
		players:  make(map[int]*models.AmericanoPlayer),
		teams:    make(map[int]*models.AmericanoTeam),
		matches:  make(map[int]*models.AmericanoMatch),
		nextID:   1,
	}
}

func (f *fakeAmericanoRepo) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeAmericanoRepo) CreateSession(_ context.Context, session *models.AmericanoSession) error {
	session.ID = f.id()
	session.CreatedAt = time.Now()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeAmericanoRepo) GetSession(_ context.Context, id int) (*models.AmericanoSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repositories.ErrAmericanoSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeAmericanoRepo) UpdateSessionStatus(_ context.Context, _ repositories.SQLExecutor, id int, from, to models.AmericanoStatus) error {
	session, ok := f.sessions[id]
	if !ok || session.Status != from {
		return repositories.ErrAmericanoSessionNotFound
	}
	session.Status = to
	return nil
}

func (f *fakeAmericanoRepo) CreatePlayer(_ context.Context, player *models.AmericanoPlayer) error {
	player.ID = f.id()
	copied := *player
	f.players[player.ID] = &copied
	return nil
}

func (f *fakeAmericanoRepo) ListPlayers(_ context.Context, sessionID int) ([]*models.AmericanoPlayer, error) {
	players := make([]*models.AmericanoPlayer, 0)
	for _, p := range f.players {
		if p.SessionID == sessionID {
			copied := *p
			players = append(players, &copied)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].TotalPoints != players[j].TotalPoints {
			return players[i].TotalPoints > players[j].TotalPoints
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (f *fakeAmericanoRepo) ApplyPlayerDelta(_ context.Context, _ repositories.SQLExecutor, playerID, points, played, wins, losses int) error {
	player, ok := f.players[playerID]
	if !ok {
		return repositories.ErrAmericanoPlayerNotFound
	}
	player.TotalPoints += points
	player.MatchesPlayed += played
	player.Wins += wins
	player.Losses += losses
	return nil
}

func (f *fakeAmericanoRepo) CreateTeam(_ context.Context, team *models.AmericanoTeam) error {
	team.ID = f.id()
	copied := *team
	f.teams[team.ID] = &copied
	return nil
}

func (f *fakeAmericanoRepo) ListTeams(_ context.Context, sessionID int) ([]*models.AmericanoTeam, error) {
	teams := make([]*models.AmericanoTeam, 0)
	for _, t := range f.teams {
		if t.SessionID == sessionID {
			copied := *t
			teams = append(teams, &copied)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].TotalPoints != teams[j].TotalPoints {
			return teams[i].TotalPoints > teams[j].TotalPoints
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}

func (f *fakeAmericanoRepo) ApplyTeamDelta(_ context.Context, _ repositories.SQLExecutor, teamID, points, played, wins, losses int) error {
	team, ok := f.teams[teamID]
	if !ok {
		return repositories.ErrAmericanoTeamNotFound
	}
	team.TotalPoints += points
	team.MatchesPlayed += played
	team.Wins += wins
	team.Losses += losses
	return nil
}

func (f *fakeAmericanoRepo) CreateMatch(_ context.Context, _ repositories.SQLExecutor, match *models.AmericanoMatch) error {
	match.ID = f.id()
	copied := *match
	f.matches[match.ID] = &copied
	return nil
}

func (f *fakeAmericanoRepo) GetMatch(_ context.Context, id int) (*models.AmericanoMatch, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrAmericanoMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeAmericanoRepo) ListMatches(_ context.Context, sessionID int) ([]*models.AmericanoMatch, error) {
	matches := make([]*models.AmericanoMatch, 0)
	for _, m := range f.matches {
		if m.SessionID == sessionID {
			copied := *m
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].RoundNumber != matches[j].RoundNumber {
			return matches[i].RoundNumber < matches[j].RoundNumber
		}
		return matches[i].CourtNumber < matches[j].CourtNumber
	})
	return matches, nil
}

func (f *fakeAmericanoRepo) UpdateMatchScore(_ context.Context, _ repositories.SQLExecutor, id, score1, score2 int, completedAt time.Time) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrAmericanoMatchNotFound
	}
	match.Score1 = &score1
	match.Score2 = &score2
	match.CompletedAt = &completedAt
	return nil
}

func (f *fakeAmericanoRepo) CountIncomplete(_ context.Context, sessionID int) (int, error) {
	count := 0
	for _, m := range f.matches {
		if m.SessionID == sessionID && m.CompletedAt == nil {
			count++
		}
	}
	return count, nil
}
