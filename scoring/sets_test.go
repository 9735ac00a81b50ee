package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidSet(t *testing.T) {
	cases := []struct {
		a, b  int
		valid bool
	}{
		{6, 0, true},
		{6, 4, true},
		{6, 5, false},
		{6, 6, false},
		{7, 5, true},
		{7, 6, true},
		{7, 7, false},
		{8, 6, false},
		{7, 4, false},
		{5, 3, false},
		{0, 0, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidSet(tc.a, tc.b), "score %d-%d", tc.a, tc.b)
		assert.Equal(t, tc.valid, IsValidSet(tc.b, tc.a), "score %d-%d (swapped)", tc.b, tc.a)
	}
}

func TestResolveBestOfThree_StraightSets(t *testing.T) {
	res, err := ResolveBestOfThree([]SetScore{{6, 2}, {6, 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SetsWonA)
	assert.Equal(t, 0, res.SetsWonB)
	assert.Equal(t, 1, res.WinnerSide)
}

func TestResolveBestOfThree_ThreeSets(t *testing.T) {
	res, err := ResolveBestOfThree([]SetScore{{6, 2}, {3, 6}, {7, 6}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SetsWonA)
	assert.Equal(t, 1, res.SetsWonB)
	assert.Equal(t, 1, res.WinnerSide)
}

func TestResolveBestOfThree_SideBWins(t *testing.T) {
	res, err := ResolveBestOfThree([]SetScore{{4, 6}, {5, 7}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.SetsWonA)
	assert.Equal(t, 2, res.SetsWonB)
	assert.Equal(t, 2, res.WinnerSide)
}

func TestResolveBestOfThree_ThirdSetAfterDecision(t *testing.T) {
	_, err := ResolveBestOfThree([]SetScore{{6, 2}, {6, 3}, {6, 4}})
	require.Error(t, err)

	var setErr *SetError
	require.ErrorAs(t, err, &setErr)
	assert.Equal(t, 3, setErr.SetNumber)
	assert.Contains(t, setErr.Reason, "already decided")
	// Error() prepends the set number, so Reason itself must not carry it.
	assert.Equal(t, "set 3: "+setErr.Reason, setErr.Error())
	assert.NotContains(t, setErr.Reason, "set 3")
}

func TestResolveBestOfThree_InvalidSetIsPositional(t *testing.T) {
	_, err := ResolveBestOfThree([]SetScore{{6, 2}, {6, 5}})
	require.Error(t, err)

	var setErr *SetError
	require.ErrorAs(t, err, &setErr)
	assert.Equal(t, 2, setErr.SetNumber)
}

func TestResolveBestOfThree_Undecided(t *testing.T) {
	_, err := ResolveBestOfThree([]SetScore{{6, 2}, {3, 6}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not decided")
}

func TestResolveBestOfThree_TooFewSets(t *testing.T) {
	_, err := ResolveBestOfThree([]SetScore{{6, 2}})
	require.Error(t, err)
}
