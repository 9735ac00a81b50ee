package brackets

import (
	"errors"
	"fmt"
)

// ErrUnsupportedGroupCount is returned when auto-seeding is asked for a
// topology it does not know. Seeding anything else silently would produce
// a wrong bracket, so it must be rejected.
var ErrUnsupportedGroupCount = errors.New("auto-seeding supports exactly 2 or 4 groups")

// SeededMatch is one knockout match produced by seeding. Team slots are nil
// for placeholder matches that get filled by winner propagation.
type SeededMatch struct {
	RoundNumber int
	MatchNumber int
	Team1ID     *int
	Team2ID     *int
}

// SeedKnockout builds the knockout rounds from ordered group tables
// (best team first in each group; the top 2 of every group qualify).
//
// 2 groups: cross semifinals A1-B2 and B1-A2, plus an empty final.
// 4 groups: quarterfinal i pairs group i's winner with group (3-i)'s
// runner-up, plus two semifinal placeholders and an empty final.
func SeedKnockout(groupRankings [][]int) ([]SeededMatch, error) {
	for g, ranking := range groupRankings {
		if len(ranking) < 2 {
			return nil, fmt.Errorf("group %d has %d ranked teams, need at least 2 to qualify", g+1, len(ranking))
		}
	}

	switch len(groupRankings) {
	case 2:
		a, b := groupRankings[0], groupRankings[1]
		return []SeededMatch{
			{RoundNumber: 1, MatchNumber: 1, Team1ID: &a[0], Team2ID: &b[1]},
			{RoundNumber: 1, MatchNumber: 2, Team1ID: &b[0], Team2ID: &a[1]},
			{RoundNumber: 2, MatchNumber: 1},
		}, nil

	case 4:
		matches := make([]SeededMatch, 0, 7)
		for i := 0; i < 4; i++ {
			winner := groupRankings[i][0]
			runnerUp := groupRankings[3-i][1]
			matches = append(matches, SeededMatch{
				RoundNumber: 1,
				MatchNumber: i + 1,
				Team1ID:     &winner,
				Team2ID:     &runnerUp,
			})
		}
		matches = append(matches,
			SeededMatch{RoundNumber: 2, MatchNumber: 1},
			SeededMatch{RoundNumber: 2, MatchNumber: 2},
			SeededMatch{RoundNumber: 3, MatchNumber: 1},
		)
		return matches, nil

	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedGroupCount, len(groupRankings))
	}
}

// AdvanceTarget maps a completed knockout match onto the slot its winner
// occupies in the next round: odd match numbers feed slot 1, even feed
// slot 2, of next-round match index (matchNumber-1)/2 (0-based).
//
// This odd/even mapping encodes the binary-bracket parent/child relation
// and must not change.
func AdvanceTarget(matchNumber int) (nextMatchIndex int, slot int) {
	nextMatchIndex = (matchNumber - 1) / 2
	if matchNumber%2 == 1 {
		slot = 1
	} else {
		slot = 2
	}
	return nextMatchIndex, slot
}
