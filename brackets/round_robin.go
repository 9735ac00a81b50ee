package brackets

import (
	"fmt"
	"math/rand"
	"time"
)

// Pairing is one generated round-robin match between two teams.
// MatchNumber increments from 1 in generation order.
type Pairing struct {
	MatchNumber int
	Team1ID     int
	Team2ID     int
}

// RoundRobinPairings creates matches for a round-robin field:
// every unordered pair of teams meets exactly once.
func RoundRobinPairings(teamIDs []int) ([]Pairing, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("round robin: not enough teams (found %d, min 2 required)", len(teamIDs))
	}

	pairings := make([]Pairing, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	matchNumber := 0
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			matchNumber++
			pairings = append(pairings, Pairing{
				MatchNumber: matchNumber,
				Team1ID:     teamIDs[i],
				Team2ID:     teamIDs[j],
			})
		}
	}
	return pairings, nil
}

// ScheduleParams describes the court grid a match list is laid out on.
type ScheduleParams struct {
	CourtCount    int
	StartTime     time.Time
	MatchDuration time.Duration
}

// ScheduleSlot maps a 0-based match index onto a court and a start time:
// courts are filled in order, then the whole grid advances one time slot.
func ScheduleSlot(index int, params ScheduleParams) (court int, at time.Time) {
	court = (index % params.CourtCount) + 1
	at = params.StartTime.Add(time.Duration(index/params.CourtCount) * params.MatchDuration)
	return court, at
}

// SplitIntoGroups shuffles the teams and fills groupCount buckets
// round-robin style, so group sizes differ by at most one.
func SplitIntoGroups(teamIDs []int, groupCount int, rng *rand.Rand) ([][]int, error) {
	if groupCount < 1 {
		return nil, fmt.Errorf("group split: group count must be positive, got %d", groupCount)
	}
	if len(teamIDs) < groupCount*2 {
		return nil, fmt.Errorf("group split: need at least %d teams for %d groups, found %d", groupCount*2, groupCount, len(teamIDs))
	}

	shuffled := make([]int, len(teamIDs))
	copy(shuffled, teamIDs)
	if rng != nil {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	groups := make([][]int, groupCount)
	for i, id := range shuffled {
		g := i % groupCount
		groups[g] = append(groups[g], id)
	}
	return groups, nil
}
