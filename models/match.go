package models

import "math"

// ScoreTolerance задаёт допуск при сравнении вещественных очков.
const ScoreTolerance = 1e-3

// ValidScore reports whether s is one of the three legal results.
func ValidScore(s float64) bool {
	return s == 0 || s == 0.5 || s == 1
}

// Match — одна партия между двумя участниками. Наименьшая единица состояния:
// создаётся незаполненной при формировании тура и переходит в finished ровно
// один раз через SetResult.
type Match struct {
	ParticipantA string  `json:"participant_a"`
	ParticipantB string  `json:"participant_b"`
	ScoreA       float64 `json:"score_a"`
	ScoreB       float64 `json:"score_b"`
	Finished     bool    `json:"finished"`
}

func NewMatch(participantA, participantB string) (*Match, error) {
	if participantA == participantB {
		return nil, ErrSelfPairing
	}
	return &Match{
		ParticipantA: participantA,
		ParticipantB: participantB,
	}, nil
}

// SetResult записывает результат партии. Повторный вызов запрещён:
// исправление результата потребовало бы явного переоткрытия матча,
// которое здесь не моделируется.
func (m *Match) SetResult(scoreA, scoreB float64) error {
	if m.Finished {
		return ErrMatchAlreadyFinished
	}
	if !ValidScore(scoreA) || !ValidScore(scoreB) {
		return ErrInvalidScore
	}
	if math.Abs(scoreA+scoreB-1.0) > ScoreTolerance {
		return ErrScoreSum
	}
	m.ScoreA = scoreA
	m.ScoreB = scoreB
	m.Finished = true
	return nil
}

// Winner returns the higher-scoring participant key.
// ok is false for a draw or an unfinished match.
func (m *Match) Winner() (key string, ok bool) {
	if !m.Finished || m.IsDraw() {
		return "", false
	}
	if m.ScoreA > m.ScoreB {
		return m.ParticipantA, true
	}
	return m.ParticipantB, true
}

// Loser returns the lower-scoring participant key.
// ok is false for a draw or an unfinished match.
func (m *Match) Loser() (key string, ok bool) {
	if !m.Finished || m.IsDraw() {
		return "", false
	}
	if m.ScoreA < m.ScoreB {
		return m.ParticipantA, true
	}
	return m.ParticipantB, true
}

func (m *Match) IsDraw() bool {
	return m.Finished && math.Abs(m.ScoreA-m.ScoreB) < ScoreTolerance
}

func (m *Match) Involves(key string) bool {
	return key == m.ParticipantA || key == m.ParticipantB
}

// Opponent returns the other participant of the match.
func (m *Match) Opponent(key string) (string, bool) {
	switch key {
	case m.ParticipantA:
		return m.ParticipantB, true
	case m.ParticipantB:
		return m.ParticipantA, true
	}
	return "", false
}

func (m *Match) ScoreFor(key string) (float64, bool) {
	switch key {
	case m.ParticipantA:
		return m.ScoreA, true
	case m.ParticipantB:
		return m.ScoreB, true
	}
	return 0, false
}
