package brackets

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinPairings(t *testing.T) {
	pairings, err := RoundRobinPairings([]int{10, 20, 30, 40})
	require.NoError(t, err)
	require.Len(t, pairings, 6) // C(4,2)

	seen := make(map[[2]int]bool)
	for i, p := range pairings {
		assert.Equal(t, i+1, p.MatchNumber)
		assert.NotEqual(t, p.Team1ID, p.Team2ID)

		key := [2]int{p.Team1ID, p.Team2ID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		assert.False(t, seen[key], "pair %v generated twice", key)
		seen[key] = true
	}
}

func TestRoundRobinPairings_TooFewTeams(t *testing.T) {
	_, err := RoundRobinPairings([]int{1})
	require.Error(t, err)
}

func TestScheduleSlot(t *testing.T) {
	start := time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC)
	params := ScheduleParams{CourtCount: 3, StartTime: start, MatchDuration: 30 * time.Minute}

	cases := []struct {
		index     int
		wantCourt int
		wantSlot  int // time slots after start
	}{
		{0, 1, 0},
		{1, 2, 0},
		{2, 3, 0},
		{3, 1, 1},
		{4, 2, 1},
		{7, 2, 2},
	}
	for _, tc := range cases {
		court, at := ScheduleSlot(tc.index, params)
		assert.Equal(t, tc.wantCourt, court, "index %d", tc.index)
		assert.Equal(t, start.Add(time.Duration(tc.wantSlot)*30*time.Minute), at, "index %d", tc.index)
	}
}

func TestSplitIntoGroups(t *testing.T) {
	teams := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	rng := rand.New(rand.NewSource(42))

	groups, err := SplitIntoGroups(teams, 2, rng)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Sizes differ by at most one and every team lands in exactly one group.
	assert.Equal(t, 5, len(groups[0]))
	assert.Equal(t, 4, len(groups[1]))

	seen := make(map[int]bool)
	for _, g := range groups {
		for _, id := range g {
			assert.False(t, seen[id])
			seen[id] = true
		}
	}
	assert.Len(t, seen, len(teams))
}

func TestSplitIntoGroups_NotEnoughTeams(t *testing.T) {
	_, err := SplitIntoGroups([]int{1, 2, 3}, 2, nil)
	require.Error(t, err)
}
