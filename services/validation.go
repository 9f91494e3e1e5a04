package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/tournio/swiss-system/models"
	"github.com/tournio/swiss-system/pairing"
)

// ValidateConsistency сверяет состояние турнира с инвариантами предметной
// области. Находки — рекомендации для пути восстановления, не ошибки:
// пустой список означает согласованное состояние.
func (s *tournamentService) ValidateConsistency(ctx context.Context, id string) ([]string, error) {
	t, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	findings := make([]string, 0)
	findings = append(findings, validateRoster(t)...)
	findings = append(findings, validateRounds(t)...)
	findings = append(findings, validateProgress(t)...)
	findings = append(findings, validateLedger(t)...)
	return findings, nil
}

// RecomputeScores обнуляет таблицу и восстанавливает её из истории
// завершённых матчей. Единственный путь, которому разрешён ResetAll.
func (s *tournamentService) RecomputeScores(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(ctx, id)
	if err != nil {
		return err
	}

	t.Scores.ResetAll()
	for _, round := range t.Rounds {
		for _, match := range round.FinishedMatches() {
			if err := t.Scores.Add(match.ParticipantA, match.ScoreA); err != nil {
				return fmt.Errorf("recompute round %d: %w", round.Ordinal, err)
			}
			if err := t.Scores.Add(match.ParticipantB, match.ScoreB); err != nil {
				return fmt.Errorf("recompute round %d: %w", round.Ordinal, err)
			}
		}
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}

	s.logger.Info("scores recomputed from match history",
		slog.String("tournament_id", t.ID))
	s.broadcast(t.ID, pairing.EventStandingsUpdated, t.CurrentRankings())
	return nil
}

func validateRoster(t *models.Tournament) []string {
	var findings []string
	if len(t.Participants) < 2 {
		findings = append(findings, "at least 2 participants are required")
	}
	if len(t.Participants)%2 != 0 {
		findings = append(findings, "participant count must be even")
	}
	seen := make(map[string]bool, len(t.Participants))
	for _, key := range t.Participants {
		if seen[key] {
			findings = append(findings, fmt.Sprintf("duplicate participant key: %s", key))
		}
		seen[key] = true
	}
	return findings
}

func validateRounds(t *models.Tournament) []string {
	var findings []string
	roster := make(map[string]bool, len(t.Participants))
	for _, key := range t.Participants {
		roster[key] = true
	}

	for _, round := range t.Rounds {
		if len(round.Matches) == 0 {
			findings = append(findings, fmt.Sprintf("round %d: no matches", round.Ordinal))
			continue
		}

		seen := make(map[string]bool)
		for _, match := range round.Matches {
			for _, key := range []string{match.ParticipantA, match.ParticipantB} {
				if seen[key] {
					findings = append(findings, fmt.Sprintf("round %d: participant %s plays more than once", round.Ordinal, key))
				}
				seen[key] = true
				if !roster[key] {
					findings = append(findings, fmt.Sprintf("round %d: participant %s is not registered", round.Ordinal, key))
				}
			}
		}

		// Тай-брейк намеренно покрывает только часть состава.
		if !round.TieBreak {
			for _, key := range t.Participants {
				if !seen[key] {
					findings = append(findings, fmt.Sprintf("round %d: participant %s is missing", round.Ordinal, key))
				}
			}
		}

		if round.Closed && !round.AllMatchesFinished() {
			findings = append(findings, fmt.Sprintf("round %d: closed but has unfinished matches", round.Ordinal))
		}
	}
	return findings
}

func validateProgress(t *models.Tournament) []string {
	var findings []string
	if t.CurrentRound != len(t.Rounds) {
		findings = append(findings, fmt.Sprintf(
			"round counter mismatch: current_round=%d, rounds played=%d", t.CurrentRound, len(t.Rounds)))
	}
	if last := t.LastRound(); last != nil && !last.Closed && t.Finished {
		findings = append(findings, "tournament marked finished but the last round is still open")
	}
	return findings
}

// validateLedger сверяет таблицу с пересчётом из истории матчей.
func validateLedger(t *models.Tournament) []string {
	var findings []string
	expected := make(map[string]float64, len(t.Participants))
	for _, round := range t.Rounds {
		for _, match := range round.FinishedMatches() {
			expected[match.ParticipantA] += match.ScoreA
			expected[match.ParticipantB] += match.ScoreB
		}
	}
	for _, key := range t.Participants {
		actual := t.Scores.Points(key)
		if math.Abs(expected[key]-actual) > models.ScoreTolerance {
			findings = append(findings, fmt.Sprintf(
				"participant %s: ledger has %.1f, match history yields %.1f", key, actual, expected[key]))
		}
	}
	return findings
}
