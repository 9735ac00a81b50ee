package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/scoring"
)

type matchFixture struct {
	matchRepo   *fakeMatchRepo
	rankingRepo *fakeRankingRepo
	notifier    *recordingNotifier
	svc         MatchService
	match       *models.Match
}

// newMatchFixture собирает матч лестницы team 105 (ранг 5) против
// team 102 (ранг 2) с настоящим RankingService поверх фейковых репозиториев.
func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	rankingRepo := newFakeRankingRepo()
	for i := 1; i <= 5; i++ {
		rankingRepo.add(1, 100+i, i)
	}
	rankingSvc := NewRankingService(fakeTxRunner{}, rankingRepo, &fakeAuditRepo{}, testLogger(), 25, 10)

	matchRepo := newFakeMatchRepo()
	categoryID := 1
	match := &models.Match{
		ChallengerTeamID: 105,
		ChallengedTeamID: 102,
		CategoryID:       &categoryID,
		Status:           models.MatchStatusPending,
	}
	require.NoError(t, matchRepo.Create(context.Background(), nil, match))

	notifier := &recordingNotifier{}
	svc := NewMatchService(fakeTxRunner{}, matchRepo, rankingSvc, notifier, testLogger())
	return &matchFixture{
		matchRepo:   matchRepo,
		rankingRepo: rankingRepo,
		notifier:    notifier,
		svc:         svc,
		match:       match,
	}
}

func TestSubmitScore_InvalidSetRejected(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.SubmitScore(context.Background(), SubmitScoreInput{
		MatchID:         f.match.ID,
		SubmitterUserID: 10,
		Sets:            []scoring.SetScore{{A: 6, B: 5}, {A: 6, B: 2}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorContains(t, err, "set 1")
}

func TestSubmitScore_ThirdSetAfterDecidedMatch(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.SubmitScore(context.Background(), SubmitScoreInput{
		MatchID:         f.match.ID,
		SubmitterUserID: 10,
		Sets:            []scoring.SetScore{{A: 6, B: 3}, {A: 6, B: 4}, {A: 6, B: 1}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorContains(t, err, "should be empty")
}

func TestSubmitScore_RecordsResult(t *testing.T) {
	f := newMatchFixture(t)

	match, err := f.svc.SubmitScore(context.Background(), SubmitScoreInput{
		MatchID:         f.match.ID,
		SubmitterUserID: 10,
		Sets:            []scoring.SetScore{{A: 6, B: 3}, {A: 4, B: 6}, {A: 7, B: 5}},
	})
	require.NoError(t, err)

	require.NotNil(t, match.WinnerTeamID)
	assert.Equal(t, 105, *match.WinnerTeamID)
	assert.Equal(t, []int64{6, 4, 7}, match.SetScoresChallenger)
	assert.Equal(t, []int64{3, 6, 5}, match.SetScoresChallenged)
	assert.Equal(t, 2, *match.SetsWonChallenger)
	assert.Equal(t, 1, *match.SetsWonChallenged)
	assert.Len(t, f.notifier.submitted, 1)

	// Счёт ждёт подтверждения: рейтинг ещё не тронут.
	entry, err := f.rankingRepo.GetByCategoryAndTeam(context.Background(), nil, 1, 105)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Rank)
	assert.Equal(t, 0, entry.Wins)
}

func TestConfirmScore_ForbidsSelfConfirmation(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.SubmitScore(context.Background(), SubmitScoreInput{
		MatchID:         f.match.ID,
		SubmitterUserID: 10,
		Sets:            []scoring.SetScore{{A: 6, B: 3}, {A: 6, B: 4}},
	})
	require.NoError(t, err)

	_, err = f.svc.ConfirmScore(context.Background(), f.match.ID, 10)
	assert.ErrorIs(t, err, ErrSelfConfirmation)
}

func TestConfirmScore_WithoutSubmission(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.ConfirmScore(context.Background(), f.match.ID, 20)
	assert.ErrorIs(t, err, ErrScoreNotSubmitted)
}

func TestConfirmScore_CompletesAndAppliesUpset(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.SubmitScore(context.Background(), SubmitScoreInput{
		MatchID:         f.match.ID,
		SubmitterUserID: 10,
		Sets:            []scoring.SetScore{{A: 6, B: 3}, {A: 6, B: 4}},
	})
	require.NoError(t, err)

	match, err := f.svc.ConfirmScore(context.Background(), f.match.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, match.Status)
	require.NotNil(t, match.CompletedAt)
	assert.Len(t, f.notifier.confirmed, 1)

	// Апсет: победитель занял ранг 2, проигравший и промежуточные сдвинулись.
	winner, err := f.rankingRepo.GetByCategoryAndTeam(context.Background(), nil, 1, 105)
	require.NoError(t, err)
	assert.Equal(t, 2, winner.Rank)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 25, winner.Points)

	loser, err := f.rankingRepo.GetByCategoryAndTeam(context.Background(), nil, 1, 102)
	require.NoError(t, err)
	assert.Equal(t, 3, loser.Rank)
	assert.Equal(t, 1, loser.Losses)

	// Повторное подтверждение не проходит.
	_, err = f.svc.ConfirmScore(context.Background(), f.match.ID, 20)
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
}

func TestDisputeScore_ResetsSubmission(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.SubmitScore(context.Background(), SubmitScoreInput{
		MatchID:         f.match.ID,
		SubmitterUserID: 10,
		Sets:            []scoring.SetScore{{A: 6, B: 3}, {A: 6, B: 4}},
	})
	require.NoError(t, err)

	err = f.svc.DisputeScore(context.Background(), f.match.ID, 20, "")
	assert.ErrorIs(t, err, ErrDisputeReasonRequired)

	err = f.svc.DisputeScore(context.Background(), f.match.ID, 20, "we won the second set")
	require.NoError(t, err)

	stored, err := f.matchRepo.GetByID(context.Background(), f.match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusInProgress, stored.Status)
	assert.True(t, stored.ScoreDisputed)
	assert.Nil(t, stored.WinnerTeamID)
	assert.Nil(t, stored.ScoreSubmittedBy)
	assert.Empty(t, stored.SetScoresChallenger)
	assert.Len(t, f.notifier.disputed, 1)

	// Рейтинг не изменился.
	entry, err := f.rankingRepo.GetByCategoryAndTeam(context.Background(), nil, 1, 105)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Rank)
	assert.Equal(t, 0, entry.Wins)

	// Повторная подача после спора перезаписывает счёт.
	resubmitted, err := f.svc.SubmitScore(context.Background(), SubmitScoreInput{
		MatchID:         f.match.ID,
		SubmitterUserID: 20,
		Sets:            []scoring.SetScore{{A: 3, B: 6}, {A: 4, B: 6}},
	})
	require.NoError(t, err)
	assert.False(t, resubmitted.ScoreDisputed)
	assert.Equal(t, 102, *resubmitted.WinnerTeamID)
}
