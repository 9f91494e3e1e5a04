package models

import (
	"fmt"
	"time"
)

// Round — один тур: упорядоченный набор матчей с жизненным циклом
// open → closed. Закрытый тур неизменяем.
type Round struct {
	Name      string     `json:"name"`
	Ordinal   int        `json:"ordinal"`
	TieBreak  bool       `json:"tie_break"`
	StartedAt time.Time  `json:"started_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	Closed    bool       `json:"closed"`
	Matches   []*Match   `json:"matches"`
}

func NewRound(name string, ordinal int, tieBreak bool) *Round {
	return &Round{
		Name:      name,
		Ordinal:   ordinal,
		TieBreak:  tieBreak,
		StartedAt: time.Now(),
	}
}

func (r *Round) AddMatch(m *Match) error {
	if r.Closed {
		return ErrRoundClosed
	}
	r.Matches = append(r.Matches, m)
	return nil
}

// Close закрывает тур. Требует, чтобы все матчи были завершены.
func (r *Round) Close() error {
	if r.Closed {
		return ErrRoundClosed
	}
	if pending := len(r.UnfinishedMatches()); pending > 0 {
		return fmt.Errorf("%w: %d remaining", ErrMatchesPending, pending)
	}
	now := time.Now()
	r.ClosedAt = &now
	r.Closed = true
	return nil
}

func (r *Round) AllMatchesFinished() bool {
	for _, m := range r.Matches {
		if !m.Finished {
			return false
		}
	}
	return true
}

func (r *Round) UnfinishedMatches() []*Match {
	var out []*Match
	for _, m := range r.Matches {
		if !m.Finished {
			out = append(out, m)
		}
	}
	return out
}

func (r *Round) FinishedMatches() []*Match {
	var out []*Match
	for _, m := range r.Matches {
		if m.Finished {
			out = append(out, m)
		}
	}
	return out
}

// CompletionRatio returns the finished fraction of the round, in [0, 1].
func (r *Round) CompletionRatio() float64 {
	if len(r.Matches) == 0 {
		return 0
	}
	return float64(len(r.FinishedMatches())) / float64(len(r.Matches))
}
