package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinishedMatch(t *testing.T, a, b string, scoreA, scoreB float64) *Match {
	t.Helper()
	m, err := NewMatch(a, b)
	require.NoError(t, err)
	require.NoError(t, m.SetResult(scoreA, scoreB))
	return m
}

func TestRoundAddMatch(t *testing.T) {
	r := NewRound("Round 1", 1, false)

	m, err := NewMatch("A", "B")
	require.NoError(t, err)
	require.NoError(t, r.AddMatch(m))
	assert.Len(t, r.Matches, 1)
}

func TestRoundAddMatchAfterClose(t *testing.T) {
	r := NewRound("Round 1", 1, false)
	require.NoError(t, r.AddMatch(newFinishedMatch(t, "A", "B", 1, 0)))
	require.NoError(t, r.Close())

	m, err := NewMatch("C", "D")
	require.NoError(t, err)
	assert.ErrorIs(t, r.AddMatch(m), ErrRoundClosed)
}

func TestRoundCloseRequiresFinishedMatches(t *testing.T) {
	r := NewRound("Round 1", 1, false)
	m, err := NewMatch("A", "B")
	require.NoError(t, err)
	require.NoError(t, r.AddMatch(m))
	require.NoError(t, r.AddMatch(newFinishedMatch(t, "C", "D", 0.5, 0.5)))

	err = r.Close()
	assert.ErrorIs(t, err, ErrMatchesPending)
	assert.False(t, r.Closed)
	assert.Nil(t, r.ClosedAt)

	require.NoError(t, m.SetResult(1, 0))
	require.NoError(t, r.Close())
	assert.True(t, r.Closed)
	require.NotNil(t, r.ClosedAt)

	// Повторное закрытие.
	assert.ErrorIs(t, r.Close(), ErrRoundClosed)
}

func TestRoundProgress(t *testing.T) {
	r := NewRound("Round 1", 1, false)
	assert.True(t, r.AllMatchesFinished())
	assert.Equal(t, 0.0, r.CompletionRatio())

	pending, err := NewMatch("A", "B")
	require.NoError(t, err)
	require.NoError(t, r.AddMatch(pending))
	require.NoError(t, r.AddMatch(newFinishedMatch(t, "C", "D", 1, 0)))

	assert.False(t, r.AllMatchesFinished())
	assert.Equal(t, 0.5, r.CompletionRatio())
	assert.Len(t, r.UnfinishedMatches(), 1)
	assert.Len(t, r.FinishedMatches(), 1)
}
