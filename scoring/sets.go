package scoring

import "fmt"

// SetScore holds the games won by each side in one set.
type SetScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Result of resolving a best-of-3 submission.
type Result struct {
	SetsWonA int
	SetsWonB int
	// WinnerSide is 1 when side A took the match, 2 for side B.
	WinnerSide int
}

// SetError points at the offending set of a rejected submission.
type SetError struct {
	SetNumber int // 1-based
	Reason    string
}

func (e *SetError) Error() string {
	return fmt.Sprintf("set %d: %s", e.SetNumber, e.Reason)
}

// IsValidSet reports whether (a, b) is a finished padel set:
// 6 games with the opponent at 4 or fewer, 7-5, or a 7-6 tiebreak.
// Symmetric for either side.
func IsValidSet(a, b int) bool {
	if a < b {
		a, b = b, a
	}
	switch a {
	case 6:
		return b >= 0 && b <= 4
	case 7:
		return b == 5 || b == 6
	default:
		return false
	}
}

// setWinner returns 1 or 2 for a valid set. Callers must validate first.
func setWinner(s SetScore) int {
	if s.A > s.B {
		return 1
	}
	return 2
}

// ResolveBestOfThree validates an ordered set list and decides the match.
//
// Rules: at least two sets, every set must be a finished set, the first side
// to two sets wins, and once the match is decided no further set may be
// present. Errors carry the 1-based position of the offending set.
func ResolveBestOfThree(sets []SetScore) (*Result, error) {
	if len(sets) < 2 {
		return nil, &SetError{SetNumber: len(sets) + 1, Reason: "at least 2 completed sets are required"}
	}
	if len(sets) > 3 {
		return nil, &SetError{SetNumber: 4, Reason: "best-of-3 match cannot have more than 3 sets"}
	}

	res := &Result{}
	for i, s := range sets {
		if res.SetsWonA == 2 || res.SetsWonB == 2 {
			// Match was already decided by the previous set.
			return nil, &SetError{SetNumber: i + 1, Reason: "match was already decided by the previous set"}
		}
		if !IsValidSet(s.A, s.B) {
			return nil, &SetError{SetNumber: i + 1, Reason: fmt.Sprintf("%d-%d is not a valid set score", s.A, s.B)}
		}
		if setWinner(s) == 1 {
			res.SetsWonA++
		} else {
			res.SetsWonB++
		}
	}

	switch {
	case res.SetsWonA == 2:
		res.WinnerSide = 1
	case res.SetsWonB == 2:
		res.WinnerSide = 2
	default:
		return nil, &SetError{SetNumber: len(sets), Reason: "match is not decided: no side has won 2 sets"}
	}
	return res, nil
}
