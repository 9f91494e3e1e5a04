package services

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournio/swiss-system/pairing"
	"github.com/tournio/swiss-system/repositories"
)

func TestStatsServiceNotFound(t *testing.T) {
	svc := NewStatsService(repositories.NewInMemoryTournamentRepository())
	_, err := svc.TournamentStatistics(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestStatsServiceBeforeStart(t *testing.T) {
	repo := repositories.NewInMemoryTournamentRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tournaments := NewTournamentService(repo,
		pairing.NewSwissGenerator(rand.New(rand.NewSource(1))),
		pairing.NewLeaderTieBreaker(), nil, logger)
	stats := NewStatsService(repo)

	tournament := createTournament(t, tournaments, "City Cup", 2, "A", "B", "C", "D")

	got, err := stats.TournamentStatistics(context.Background(), tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, "not_started", got.Basic.Status)
	assert.Equal(t, 4, got.Basic.Participants)
	assert.Equal(t, 0, got.Basic.TotalMatches)
	assert.Empty(t, got.Rounds)
	assert.Equal(t, 4, got.Performance.LeadersCount)
}

func TestStatsServiceMidTournament(t *testing.T) {
	repo := repositories.NewInMemoryTournamentRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tournaments := NewTournamentService(repo,
		pairing.NewSwissGenerator(rand.New(rand.NewSource(1))),
		pairing.NewLeaderTieBreaker(), nil, logger)
	stats := NewStatsService(repo)

	ctx := context.Background()
	tournament := createTournament(t, tournaments, "City Cup", 2, "A", "B", "C", "D")

	round, err := tournaments.StartNextRound(ctx, tournament.ID)
	require.NoError(t, err)
	require.NoError(t, tournaments.RecordResult(ctx, tournament.ID, round.Ordinal, 0, 1, 0))
	require.NoError(t, tournaments.RecordResult(ctx, tournament.ID, round.Ordinal, 1, 0.5, 0.5))
	closed, err := tournaments.CloseRoundIfComplete(ctx, tournament.ID)
	require.NoError(t, err)
	require.True(t, closed)

	got, err := stats.TournamentStatistics(ctx, tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, "in_progress", got.Basic.Status)
	assert.Equal(t, 2, got.Basic.TotalMatches)
	assert.Equal(t, 2, got.Basic.FinishedMatches)
	assert.Equal(t, 1.0, got.Basic.CompletionRate)

	assert.Equal(t, 1, got.Results.Draws)
	assert.Equal(t, 1, got.Results.DecisiveGames)
	assert.Equal(t, 0.5, got.Results.DrawRate)

	assert.Equal(t, 1.0, got.Performance.HighestScore)
	assert.Equal(t, 0.0, got.Performance.LowestScore)
	assert.Equal(t, 0.5, got.Performance.AverageScore)
	assert.Equal(t, 1, got.Performance.LeadersCount)
	assert.Equal(t, map[string]int{"0.0": 1, "0.5": 2, "1.0": 1}, got.Performance.Distribution)

	require.Len(t, got.Rounds, 1)
	assert.True(t, got.Rounds[0].Closed)
	assert.Equal(t, 1, got.Rounds[0].Wins)
	assert.Equal(t, 1, got.Rounds[0].Draws)
	assert.Equal(t, 1.0, got.Rounds[0].CompletionRate)
}
