package pairing

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/tournio/swiss-system/models"
)

// SwissGenerator pairs the first round uniformly at random and every later
// round by score rank, avoiding rematches where possible.
type SwissGenerator struct {
	rnd *rand.Rand
}

// NewSwissGenerator builds the generator. A nil source seeds from the clock;
// tests can pass their own.
func NewSwissGenerator(rnd *rand.Rand) PairingStrategy {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SwissGenerator{rnd: rnd}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

func (g *SwissGenerator) GeneratePairs(ctx context.Context, params GeneratePairsParams) ([]models.Pair, error) {
	t := params.Tournament
	n := len(t.Participants)

	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	if n%2 != 0 {
		return nil, ErrOddRoster
	}

	if t.CurrentRound == 0 {
		return g.firstRoundPairs(t.Participants), nil
	}
	return swissPairs(t), nil
}

// firstRoundPairs: no score information exists yet, so a uniform shuffle
// avoids any systematic seeding bias.
func (g *SwissGenerator) firstRoundPairs(participants []string) []models.Pair {
	shuffled := make([]string, len(participants))
	copy(shuffled, participants)
	g.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairs := make([]models.Pair, 0, len(shuffled)/2)
	for i := 0; i < len(shuffled); i += 2 {
		pairs = append(pairs, models.Pair{A: shuffled[i], B: shuffled[i+1]})
	}
	return pairs
}

// swissPairs ranks participants by (-score, key) and greedily pairs from the
// top: the highest unpaired participant meets the nearest unpaired opponent
// they have not played yet. When every remaining candidate is a rematch the
// first remaining one is taken anyway; the fallback trades optimality for
// guaranteed termination.
func swissPairs(t *models.Tournament) []models.Pair {
	rankings := t.CurrentRankings()
	available := make([]string, 0, len(rankings))
	for _, s := range rankings {
		available = append(available, s.Key)
	}

	pairs := make([]models.Pair, 0, len(available)/2)
	for len(available) >= 2 {
		first := available[0]
		available = available[1:]

		opponentIdx := -1
		for i, candidate := range available {
			if !t.HavePlayed(first, candidate) {
				opponentIdx = i
				break
			}
		}
		if opponentIdx == -1 {
			// Forced rematch.
			opponentIdx = 0
		}

		pairs = append(pairs, models.Pair{A: first, B: available[opponentIdx]})
		available = append(available[:opponentIdx], available[opponentIdx+1:]...)
	}
	return pairs
}

// PairingQuality — диагностика качества жеребьёвки. Только для отчётности,
// никогда не используется для отклонения пар.
type PairingQuality struct {
	TotalPairs    int     `json:"total_pairs"`
	Rematches     int     `json:"rematches"`
	RematchRate   float64 `json:"rematch_rate"`
	AvgScoreGap   float64 `json:"average_score_gap"`
	MaxScoreGap   float64 `json:"max_score_gap"`
	BalancedPairs int     `json:"balanced_pairs"`
}

// AnalyzeQuality counts rematches and score gaps produced by a pairing.
func AnalyzeQuality(t *models.Tournament, pairs []models.Pair) PairingQuality {
	q := PairingQuality{TotalPairs: len(pairs)}
	if len(pairs) == 0 {
		return q
	}

	var gapSum float64
	for _, pair := range pairs {
		if t.HavePlayed(pair.A, pair.B) {
			q.Rematches++
		}
		gap := math.Abs(t.Scores.Points(pair.A) - t.Scores.Points(pair.B))
		gapSum += gap
		if gap > q.MaxScoreGap {
			q.MaxScoreGap = gap
		}
		if gap <= 1.0 {
			q.BalancedPairs++
		}
	}
	q.RematchRate = float64(q.Rematches) / float64(q.TotalPairs)
	q.AvgScoreGap = gapSum / float64(q.TotalPairs)
	return q
}
