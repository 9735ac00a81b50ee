package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/padel-ladder-system/models"
)

func newAmericanoFixture(t *testing.T) (*fakeAmericanoRepo, AmericanoService) {
	t.Helper()
	repo := newFakeAmericanoRepo()
	return repo, NewAmericanoService(fakeTxRunner{}, repo, testLogger())
}

func TestCreateSession_IndividualValidation(t *testing.T) {
	_, svc := newAmericanoFixture(t)

	rounds := 3
	_, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Friday Night",
		Mode:           models.AmericanoModeIndividual,
		PointsPerRound: 32,
		Names:          []string{"a", "b", "c", "d"},
	})
	assert.ErrorIs(t, err, ErrTotalRoundsRequired)

	_, err = svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Friday Night",
		Mode:           models.AmericanoModeIndividual,
		PointsPerRound: 32,
		TotalRounds:    &rounds,
		Names:          []string{"a", "b", "c", "d", "e", "f"},
	})
	assert.ErrorIs(t, err, ErrPlayersNotMultipleOfFour)

	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Friday Night",
		Mode:           models.AmericanoModeIndividual,
		PointsPerRound: 32,
		TotalRounds:    &rounds,
		Names:          []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.AmericanoStatusDraft, session.Status)
}

func TestStart_TeamModeRoundRobin(t *testing.T) {
	_, svc := newAmericanoFixture(t)

	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Pairs Evening",
		Mode:           models.AmericanoModeTeam,
		PointsPerRound: 24,
		Names:          []string{"t1", "t2", "t3", "t4"},
	})
	require.NoError(t, err)

	matches, err := svc.Start(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 6) // C(4,2)

	started, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AmericanoStatusInProgress, started.Status)

	// Повторный старт не проходит.
	_, err = svc.Start(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionWrongStatus)
}

func TestStart_IndividualGeneratesAllRounds(t *testing.T) {
	_, svc := newAmericanoFixture(t)

	rounds := 3
	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Mixer",
		Mode:           models.AmericanoModeIndividual,
		PointsPerRound: 32,
		TotalRounds:    &rounds,
		Names:          []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	})
	require.NoError(t, err)

	matches, err := svc.Start(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, matches, 6) // 8 игроков = 2 корта, 3 раунда

	perRound := make(map[int]int)
	for _, match := range matches {
		perRound[match.RoundNumber]++
		require.NotNil(t, match.Side1Player1ID)
		require.NotNil(t, match.Side2Player2ID)
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, perRound)
}

func TestSubmitMatchScore_PointSumInvariant(t *testing.T) {
	_, svc := newAmericanoFixture(t)

	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Pairs Evening",
		Mode:           models.AmericanoModeTeam,
		PointsPerRound: 24,
		Names:          []string{"t1", "t2"},
	})
	require.NoError(t, err)
	matches, err := svc.Start(context.Background(), session.ID)
	require.NoError(t, err)

	err = svc.SubmitMatchScore(context.Background(), matches[0].ID, 10, 10)
	assert.ErrorIs(t, err, ErrPointSumMismatch)

	err = svc.SubmitMatchScore(context.Background(), matches[0].ID, 14, 10)
	require.NoError(t, err)

	err = svc.SubmitMatchScore(context.Background(), matches[0].ID, 14, 10)
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
}

func TestSubmitMatchScore_AggregatesAndAutoComplete(t *testing.T) {
	repo, svc := newAmericanoFixture(t)

	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Pairs Evening",
		Mode:           models.AmericanoModeTeam,
		PointsPerRound: 24,
		Names:          []string{"t1", "t2"},
	})
	require.NoError(t, err)
	matches, err := svc.Start(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	require.NoError(t, svc.SubmitMatchScore(context.Background(), matches[0].ID, 15, 9))

	teams, err := repo.ListTeams(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, 15, teams[0].TotalPoints)
	assert.Equal(t, 1, teams[0].Wins)
	assert.Equal(t, 1, teams[0].MatchesPlayed)
	assert.Equal(t, 9, teams[1].TotalPoints)
	assert.Equal(t, 1, teams[1].Losses)

	// Единственный матч сыгран — сессия завершилась сама.
	completed, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AmericanoStatusCompleted, completed.Status)
}

func TestCorrectScore_IsReversible(t *testing.T) {
	repo, svc := newAmericanoFixture(t)

	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Pairs Evening",
		Mode:           models.AmericanoModeTeam,
		PointsPerRound: 24,
		Names:          []string{"t1", "t2", "t3"},
	})
	require.NoError(t, err)
	matches, err := svc.Start(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// Неверный счёт, затем исправление с переворотом победителя.
	require.NoError(t, svc.SubmitMatchScore(context.Background(), matches[0].ID, 20, 4))
	require.NoError(t, svc.CorrectScore(context.Background(), matches[0].ID, 10, 14))

	teams, err := repo.ListTeams(context.Background(), session.ID)
	require.NoError(t, err)

	byName := make(map[string]*models.AmericanoTeam)
	for _, team := range teams {
		byName[team.Name] = team
	}

	// Состояние идентично прямой подаче 10:14.
	first := byName["t1"]
	assert.Equal(t, 10, first.TotalPoints)
	assert.Equal(t, 0, first.Wins)
	assert.Equal(t, 1, first.Losses)
	assert.Equal(t, 1, first.MatchesPlayed, "correction must not double-count the match")

	second := byName["t2"]
	assert.Equal(t, 14, second.TotalPoints)
	assert.Equal(t, 1, second.Wins)
	assert.Equal(t, 0, second.Losses)
	assert.Equal(t, 1, second.MatchesPlayed)

	corrected, err := repo.GetMatch(context.Background(), matches[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 10, *corrected.Score1)
	assert.Equal(t, 14, *corrected.Score2)
}

func TestCorrectScore_RequiresCompletedMatch(t *testing.T) {
	_, svc := newAmericanoFixture(t)

	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Pairs Evening",
		Mode:           models.AmericanoModeTeam,
		PointsPerRound: 24,
		Names:          []string{"t1", "t2"},
	})
	require.NoError(t, err)
	matches, err := svc.Start(context.Background(), session.ID)
	require.NoError(t, err)

	err = svc.CorrectScore(context.Background(), matches[0].ID, 14, 10)
	assert.ErrorIs(t, err, ErrScoreNotSubmitted)
}

func TestPlayerStats_FoldsCompletedMatches(t *testing.T) {
	_, svc := newAmericanoFixture(t)

	rounds := 2
	session, err := svc.CreateSession(context.Background(), CreateAmericanoInput{
		ClubID:         1,
		Name:           "Mixer",
		Mode:           models.AmericanoModeIndividual,
		PointsPerRound: 32,
		TotalRounds:    &rounds,
		Names:          []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)
	matches, err := svc.Start(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	require.NoError(t, svc.SubmitMatchScore(context.Background(), matches[0].ID, 20, 12))
	// Второй раунд не сыгран: в свёртку не попадает.

	playerID := *matches[0].Side1Player1ID
	stats, err := svc.PlayerStats(context.Background(), session.ID, playerID)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.PointsFor)
	assert.Equal(t, 12, stats.PointsAgainst)
	assert.Equal(t, 8, stats.Differential)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 0, stats.Losses)
}
