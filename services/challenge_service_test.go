package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/padel-ladder-system/models"
)

type challengeFixture struct {
	challengeRepo *fakeChallengeRepo
	matchRepo     *fakeMatchRepo
	teamRepo      *fakeTeamRepo
	rankingRepo   *fakeRankingRepo
	notifier      *recordingNotifier
	svc           ChallengeService
}

// newChallengeFixture поднимает категорию с challenge_range=3 и пятью
// командами на рангах 1..5 (team 101 — ранг 1, team 105 — ранг 5).
func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()

	teamRepo := newFakeTeamRepo()
	for i := 1; i <= 5; i++ {
		teamRepo.teams[100+i] = &models.Team{ID: 100 + i, ClubID: 1, Name: "team"}
	}
	ladderRepo := newFakeLadderRepo(&models.LadderCategory{ID: 1, LadderID: 1, Name: "A", ChallengeRange: 3})
	rankingRepo := newFakeRankingRepo()
	for i := 1; i <= 5; i++ {
		rankingRepo.add(1, 100+i, i)
	}

	challengeRepo := newFakeChallengeRepo()
	matchRepo := newFakeMatchRepo()
	notifier := &recordingNotifier{}
	svc := NewChallengeService(
		fakeTxRunner{}, challengeRepo, matchRepo, teamRepo, ladderRepo, rankingRepo,
		notifier, testLogger(), 7*24*time.Hour,
	)
	return &challengeFixture{
		challengeRepo: challengeRepo,
		matchRepo:     matchRepo,
		teamRepo:      teamRepo,
		rankingRepo:   rankingRepo,
		notifier:      notifier,
		svc:           svc,
	}
}

func TestPropose_WithinRange(t *testing.T) {
	f := newChallengeFixture(t)

	// Ранг 5 с диапазоном 3 может вызывать ранги 2..4.
	challenge, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 105,
		ChallengedTeamID: 102,
		CategoryID:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusPending, challenge.Status)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), challenge.ExpiresAt, time.Minute)
	assert.Len(t, f.notifier.proposed, 1)
}

func TestPropose_OutOfRange(t *testing.T) {
	f := newChallengeFixture(t)

	// Ранг 1 дальше трёх позиций от ранга 5.
	_, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 105,
		ChallengedTeamID: 101,
		CategoryID:       1,
	})
	assert.ErrorIs(t, err, ErrChallengeOutOfRange)
}

func TestPropose_OnlyUpward(t *testing.T) {
	f := newChallengeFixture(t)

	// Вызов вниз по таблице запрещён.
	_, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 102,
		ChallengedTeamID: 104,
		CategoryID:       1,
	})
	assert.ErrorIs(t, err, ErrChallengeNotBetter)
}

func TestPropose_SelfChallenge(t *testing.T) {
	f := newChallengeFixture(t)

	_, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 103,
		ChallengedTeamID: 103,
		CategoryID:       1,
	})
	assert.ErrorIs(t, err, ErrSelfChallenge)
}

func TestPropose_FrozenTeam(t *testing.T) {
	f := newChallengeFixture(t)
	f.teamRepo.teams[102].IsFrozen = true

	_, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 104,
		ChallengedTeamID: 102,
		CategoryID:       1,
	})
	assert.ErrorIs(t, err, ErrTeamFrozen)
}

func TestPropose_ExpiredFreezeDoesNotBlock(t *testing.T) {
	f := newChallengeFixture(t)
	past := time.Now().Add(-time.Hour)
	f.teamRepo.teams[102].IsFrozen = true
	f.teamRepo.teams[102].FrozenUntil = &past

	_, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 104,
		ChallengedTeamID: 102,
		CategoryID:       1,
	})
	assert.NoError(t, err)
}

func TestPropose_DuplicatePending(t *testing.T) {
	f := newChallengeFixture(t)

	input := ProposeChallengeInput{ChallengerTeamID: 104, ChallengedTeamID: 102, CategoryID: 1}
	_, err := f.svc.Propose(context.Background(), input)
	require.NoError(t, err)

	_, err = f.svc.Propose(context.Background(), input)
	assert.ErrorIs(t, err, ErrDuplicateChallenge)
}

func TestAccept_CreatesMatchAtomically(t *testing.T) {
	f := newChallengeFixture(t)

	challenge, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 104, ChallengedTeamID: 102, CategoryID: 1,
	})
	require.NoError(t, err)

	match, err := f.svc.Accept(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, 104, match.ChallengerTeamID)
	assert.Equal(t, 102, match.ChallengedTeamID)
	assert.Equal(t, models.MatchStatusPending, match.Status)

	stored, err := f.challengeRepo.GetByID(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusAccepted, stored.Status)
	require.NotNil(t, stored.MatchID)
	assert.Equal(t, match.ID, *stored.MatchID)
	assert.Len(t, f.notifier.accepted, 1)
}

func TestAccept_ExpiredChallenge(t *testing.T) {
	f := newChallengeFixture(t)

	challenge := &models.Challenge{
		ChallengerTeamID: 104,
		ChallengedTeamID: 102,
		Status:           models.ChallengeStatusPending,
		ExpiresAt:        time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.challengeRepo.Create(context.Background(), challenge))

	_, err := f.svc.Accept(context.Background(), challenge.ID)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestAccept_AlreadyResolved(t *testing.T) {
	f := newChallengeFixture(t)

	challenge, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 104, ChallengedTeamID: 102, CategoryID: 1,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Decline(context.Background(), challenge.ID, "busy this week"))

	_, err = f.svc.Accept(context.Background(), challenge.ID)
	assert.ErrorIs(t, err, ErrChallengeNotPending)
}

func TestDecline_RequiresReason(t *testing.T) {
	f := newChallengeFixture(t)

	challenge, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 104, ChallengedTeamID: 102, CategoryID: 1,
	})
	require.NoError(t, err)

	err = f.svc.Decline(context.Background(), challenge.ID, "")
	assert.ErrorIs(t, err, ErrDeclineReasonRequired)

	err = f.svc.Decline(context.Background(), challenge.ID, "injury")
	require.NoError(t, err)

	stored, err := f.challengeRepo.GetByID(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusDeclined, stored.Status)
	require.NotNil(t, stored.DeclineReason)
	assert.Equal(t, "injury", *stored.DeclineReason)
}

func TestCancel_OnlyByChallenger(t *testing.T) {
	f := newChallengeFixture(t)

	challenge, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 104, ChallengedTeamID: 102, CategoryID: 1,
	})
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), challenge.ID, 102)
	assert.ErrorIs(t, err, ErrValidationFailed)

	err = f.svc.Cancel(context.Background(), challenge.ID, 104)
	require.NoError(t, err)

	stored, err := f.challengeRepo.GetByID(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusCancelled, stored.Status)
}

func TestExpireOverdue_SweepsOnlyPending(t *testing.T) {
	f := newChallengeFixture(t)

	overdue := &models.Challenge{
		ChallengerTeamID: 104,
		ChallengedTeamID: 102,
		Status:           models.ChallengeStatusPending,
		ExpiresAt:        time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.challengeRepo.Create(context.Background(), overdue))

	fresh, err := f.svc.Propose(context.Background(), ProposeChallengeInput{
		ChallengerTeamID: 105, ChallengedTeamID: 103, CategoryID: 1,
	})
	require.NoError(t, err)

	expired, err := f.svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	stored, err := f.challengeRepo.GetByID(context.Background(), overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusExpired, stored.Status)

	kept, err := f.challengeRepo.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusPending, kept.Status)
}
