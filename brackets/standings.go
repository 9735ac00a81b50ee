package brackets

import "sort"

// GroupStanding is one row of a group table.
type GroupStanding struct {
	TeamID        int
	Wins          int
	Losses        int
	PointsFor     int
	PointsAgainst int
}

// Diff is the game differential used as the tiebreaker.
func (s GroupStanding) Diff() int {
	return s.PointsFor - s.PointsAgainst
}

// SortStandings orders a group table: wins descending, then game
// differential descending. The sort is stable so equal rows keep
// their registration order.
func SortStandings(standings []GroupStanding) {
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].Diff() > standings[j].Diff()
	})
}
