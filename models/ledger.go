package models

import (
	"encoding/json"
	"sort"
)

// ScoreLedger — накопленные очки по ключу участника, единственный источник
// истины для таблицы результатов. Не потокобезопасен: вызовы сериализует
// владелец (Tournament через сервисный слой).
type ScoreLedger struct {
	points map[string]float64
}

func NewScoreLedger() *ScoreLedger {
	return &ScoreLedger{points: make(map[string]float64)}
}

// Register ensures the key has an entry, defaulting to 0.
func (l *ScoreLedger) Register(key string) {
	if _, ok := l.points[key]; !ok {
		l.points[key] = 0
	}
}

// Points returns the accumulated score, 0 for an unknown key.
func (l *ScoreLedger) Points(key string) float64 {
	return l.points[key]
}

// Add прибавляет очки одной партии. Допустимы только 0, 0.5 и 1.
func (l *ScoreLedger) Add(key string, points float64) error {
	if !ValidScore(points) {
		return ErrInvalidPoints
	}
	l.points[key] += points
	return nil
}

// ResetAll zeroes every entry. Used only by the recompute-from-history
// repair path, never by normal play.
func (l *ScoreLedger) ResetAll() {
	for key := range l.points {
		l.points[key] = 0
	}
}

// Total returns the sum of all entries.
func (l *ScoreLedger) Total() float64 {
	var sum float64
	for _, p := range l.points {
		sum += p
	}
	return sum
}

// Snapshot returns a copy of the underlying map.
func (l *ScoreLedger) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(l.points))
	for k, v := range l.points {
		out[k] = v
	}
	return out
}

// Keys returns every registered key in deterministic order.
func (l *ScoreLedger) Keys() []string {
	keys := make([]string, 0, len(l.points))
	for k := range l.points {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *ScoreLedger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.points)
}

func (l *ScoreLedger) UnmarshalJSON(data []byte) error {
	points := make(map[string]float64)
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	l.points = points
	return nil
}
