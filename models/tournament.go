package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pair — пара соперников, результат работы генератора жеребьёвки.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Standing — строка текущей таблицы: ключ участника и накопленные очки.
type Standing struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// Tournament владеет составом, турами и таблицей очков. Сущность не
// потокобезопасна: все мутирующие вызовы сериализует сервисный слой.
type Tournament struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ScheduledRounds int          `json:"scheduled_rounds"`
	CurrentRound    int          `json:"current_round"`
	Participants    []string     `json:"participants"`
	Rounds          []*Round     `json:"rounds"`
	Scores          *ScoreLedger `json:"scores"`
	Finished        bool         `json:"finished"`
	CreatedAt       time.Time    `json:"created_at"`
}

func NewTournament(name string, scheduledRounds int) (*Tournament, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrTournamentNameRequired
	}
	if scheduledRounds < 1 || scheduledRounds > 20 {
		return nil, ErrInvalidRoundCount
	}
	return &Tournament{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(name),
		ScheduledRounds: scheduledRounds,
		Scores:          NewScoreLedger(),
		CreatedAt:       time.Now(),
	}, nil
}

// AddParticipant регистрирует участника. Состав фиксируется с началом
// первого тура.
func (t *Tournament) AddParticipant(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrParticipantKeyRequired
	}
	if t.HasStarted() {
		return ErrRosterLocked
	}
	for _, existing := range t.Participants {
		if existing == key {
			return fmt.Errorf("%w: %s", ErrParticipantExists, key)
		}
	}
	t.Participants = append(t.Participants, key)
	t.Scores.Register(key)
	return nil
}

func (t *Tournament) HasStarted() bool {
	return len(t.Rounds) > 0
}

// IsFinished: турнир завершён явно, либо сыграны все запланированные туры,
// последний тур закрыт и лидер единственный. При равенстве на первом месте
// турнир остаётся открытым до тай-брейка или явного Finish.
func (t *Tournament) IsFinished() bool {
	if t.Finished {
		return true
	}
	last := t.LastRound()
	return t.CurrentRound >= t.ScheduledRounds &&
		last != nil && last.Closed &&
		!t.HasTieForFirst()
}

// Finish marks the tournament terminal. Co-leaders are an accepted outcome.
func (t *Tournament) Finish() {
	t.Finished = true
}

func (t *Tournament) CanStartNextRound() bool {
	if t.IsFinished() {
		return false
	}
	if len(t.Participants) < 2 || len(t.Participants)%2 != 0 {
		return false
	}
	if t.CurrentRound >= t.ScheduledRounds {
		return false
	}
	last := t.LastRound()
	return last == nil || last.Closed
}

// StartRound строит тур из готовых пар и добавляет его в историю.
// Тай-брейковые туры не занимают запланированные слоты, но учитываются
// счётчиком сыгранных туров.
func (t *Tournament) StartRound(pairs []Pair, tieBreak bool) (*Round, error) {
	ordinal := t.CurrentRound + 1
	name := fmt.Sprintf("Round %d", ordinal)
	if tieBreak {
		name = fmt.Sprintf("Tie-break %d", ordinal)
	}
	round := NewRound(name, ordinal, tieBreak)
	for _, pair := range pairs {
		match, err := NewMatch(pair.A, pair.B)
		if err != nil {
			return nil, err
		}
		if err := round.AddMatch(match); err != nil {
			return nil, err
		}
	}
	t.CurrentRound = ordinal
	t.Rounds = append(t.Rounds, round)
	return round, nil
}

func (t *Tournament) LastRound() *Round {
	if len(t.Rounds) == 0 {
		return nil
	}
	return t.Rounds[len(t.Rounds)-1]
}

// RoundByOrdinal returns the round with the given 1-based ordinal.
func (t *Tournament) RoundByOrdinal(ordinal int) *Round {
	for _, r := range t.Rounds {
		if r.Ordinal == ordinal {
			return r
		}
	}
	return nil
}

// HavePlayed reports whether the two participants met in any prior round.
func (t *Tournament) HavePlayed(a, b string) bool {
	for _, round := range t.Rounds {
		for _, match := range round.Matches {
			if match.Involves(a) && match.Involves(b) {
				return true
			}
		}
	}
	return false
}

// CurrentRankings возвращает таблицу, отсортированную по убыванию очков;
// при равенстве — по ключу участника, чтобы порядок был полным и
// воспроизводимым.
func (t *Tournament) CurrentRankings() []Standing {
	standings := make([]Standing, 0, len(t.Participants))
	for _, key := range t.Participants {
		standings = append(standings, Standing{Key: key, Score: t.Scores.Points(key)})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].Key < standings[j].Key
	})
	return standings
}

// HasTieForFirst reports whether the top two ranked participants have equal
// scores within tolerance.
func (t *Tournament) HasTieForFirst() bool {
	rankings := t.CurrentRankings()
	if len(rankings) < 2 {
		return false
	}
	return rankings[0].Score-rankings[1].Score < ScoreTolerance
}

// TiedForFirst returns every participant sharing the leader's score, in
// ranking order. Empty unless at least two participants are tied.
func (t *Tournament) TiedForFirst() []string {
	rankings := t.CurrentRankings()
	if len(rankings) == 0 {
		return nil
	}
	leader := rankings[0].Score
	var tied []string
	for _, s := range rankings {
		if leader-s.Score >= ScoreTolerance {
			break
		}
		tied = append(tied, s.Key)
	}
	if len(tied) < 2 {
		return nil
	}
	return tied
}
