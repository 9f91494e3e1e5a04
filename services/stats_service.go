package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tournio/swiss-system/models"
	"github.com/tournio/swiss-system/repositories"
)

type StatsService interface {
	TournamentStatistics(ctx context.Context, id string) (*models.TournamentStatistics, error)
}

type statsService struct {
	repo repositories.TournamentRepository
}

func NewStatsService(repo repositories.TournamentRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) TournamentStatistics(ctx context.Context, id string) (*models.TournamentStatistics, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	return &models.TournamentStatistics{
		Basic:       basicStats(t),
		Results:     resultStats(t),
		Performance: performanceStats(t),
		Rounds:      roundStats(t),
	}, nil
}

func basicStats(t *models.Tournament) models.BasicStats {
	var total, finished int
	for _, round := range t.Rounds {
		total += len(round.Matches)
		finished += len(round.FinishedMatches())
	}

	status := "not_started"
	switch {
	case t.IsFinished():
		status = "finished"
	case t.HasStarted():
		status = "in_progress"
	}

	stats := models.BasicStats{
		Name:            t.Name,
		Participants:    len(t.Participants),
		RoundsScheduled: t.ScheduledRounds,
		RoundsPlayed:    len(t.Rounds),
		TotalMatches:    total,
		FinishedMatches: finished,
		Status:          status,
	}
	if total > 0 {
		stats.CompletionRate = float64(finished) / float64(total)
	}
	return stats
}

func resultStats(t *models.Tournament) models.ResultStats {
	var stats models.ResultStats
	for _, round := range t.Rounds {
		for _, match := range round.FinishedMatches() {
			stats.FinishedMatches++
			if match.IsDraw() {
				stats.Draws++
			} else {
				stats.DecisiveGames++
			}
		}
	}
	if stats.FinishedMatches > 0 {
		stats.DrawRate = float64(stats.Draws) / float64(stats.FinishedMatches)
		stats.DecisiveRate = float64(stats.DecisiveGames) / float64(stats.FinishedMatches)
	}
	return stats
}

func performanceStats(t *models.Tournament) models.PerformanceStats {
	stats := models.PerformanceStats{Distribution: make(map[string]int)}
	if len(t.Participants) == 0 {
		return stats
	}

	var sum float64
	highest := t.Scores.Points(t.Participants[0])
	lowest := highest
	for _, key := range t.Participants {
		score := t.Scores.Points(key)
		sum += score
		if score > highest {
			highest = score
		}
		if score < lowest {
			lowest = score
		}
		stats.Distribution[fmt.Sprintf("%.1f", score)]++
	}

	stats.AverageScore = sum / float64(len(t.Participants))
	stats.HighestScore = highest
	stats.LowestScore = lowest
	stats.ScoreSpread = highest - lowest
	for _, key := range t.Participants {
		if t.Scores.Points(key) == highest {
			stats.LeadersCount++
		}
	}
	return stats
}

func roundStats(t *models.Tournament) []models.RoundStats {
	out := make([]models.RoundStats, 0, len(t.Rounds))
	for _, round := range t.Rounds {
		stats := models.RoundStats{
			Ordinal:         round.Ordinal,
			Name:            round.Name,
			TieBreak:        round.TieBreak,
			Matches:         len(round.Matches),
			FinishedMatches: len(round.FinishedMatches()),
			CompletionRate:  round.CompletionRatio(),
			Closed:          round.Closed,
		}
		for _, match := range round.FinishedMatches() {
			if match.IsDraw() {
				stats.Draws++
			} else {
				stats.Wins++
			}
		}
		if round.ClosedAt != nil {
			stats.DurationMinutes = round.ClosedAt.Sub(round.StartedAt).Minutes()
		}
		out = append(out, stats)
	}
	return out
}
