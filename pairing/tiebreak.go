package pairing

import (
	"github.com/tournio/swiss-system/models"
)

// LeaderTieBreaker resolves a tie for first place through supplementary
// rounds restricted to the tied participants. A persistent or unpairable
// tie is an accepted terminal outcome, never an error.
type LeaderTieBreaker struct{}

func NewLeaderTieBreaker() TieBreakStrategy {
	return &LeaderTieBreaker{}
}

func (tb *LeaderTieBreaker) GetName() string {
	return "FirstPlaceTieBreak"
}

// NeedsTieBreak: все запланированные туры сыграны, последний тур закрыт,
// турнир не завершён явно и первые два участника делят очки.
func (tb *LeaderTieBreaker) NeedsTieBreak(t *models.Tournament) bool {
	if t.Finished || len(t.Participants) < 2 {
		return false
	}
	if t.CurrentRound < t.ScheduledRounds {
		return false
	}
	last := t.LastRound()
	if last == nil || !last.Closed {
		return false
	}
	return t.HasTieForFirst()
}

func (tb *LeaderTieBreaker) TiedParticipants(t *models.Tournament) []string {
	return t.TiedForFirst()
}

func (tb *LeaderTieBreaker) CanPairTieBreak(t *models.Tournament) bool {
	tied := t.TiedForFirst()
	return len(tied) >= 2 && len(tied)%2 == 0
}

// GeneratePairs pairs the tied group by current ranking: 1st vs 2nd,
// 3rd vs 4th, and so on.
func (tb *LeaderTieBreaker) GeneratePairs(t *models.Tournament) ([]models.Pair, error) {
	tied := t.TiedForFirst()
	if len(tied) < 2 {
		return nil, ErrNoTiedGroup
	}
	if len(tied)%2 != 0 {
		return nil, ErrOddTiedGroup
	}

	pairs := make([]models.Pair, 0, len(tied)/2)
	for i := 0; i < len(tied); i += 2 {
		pairs = append(pairs, models.Pair{A: tied[i], B: tied[i+1]})
	}
	return pairs, nil
}
