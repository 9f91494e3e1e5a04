package pairing

import (
	"context"
	"errors"

	"github.com/tournio/swiss-system/models"
)

var (
	ErrNotEnoughParticipants = errors.New("at least 2 participants are required to generate pairs")
	ErrOddRoster             = errors.New("roster size must be even to generate pairs")
	ErrNoTiedGroup           = errors.New("no tied group of two or more participants")
	ErrOddTiedGroup          = errors.New("tied group has an odd size and cannot be paired")
)

type GeneratePairsParams struct {
	Tournament *models.Tournament
}

// PairingStrategy produces the opponent pairs for a tournament's next round.
// Implementations read tournament state and never mutate it.
type PairingStrategy interface {
	GeneratePairs(ctx context.Context, params GeneratePairsParams) ([]models.Pair, error)

	GetName() string
}

// TieBreakStrategy detects a tie for first place after the scheduled rounds
// and produces supplementary pairings restricted to the tied group.
type TieBreakStrategy interface {
	NeedsTieBreak(t *models.Tournament) bool
	TiedParticipants(t *models.Tournament) []string
	CanPairTieBreak(t *models.Tournament) bool
	GeneratePairs(t *models.Tournament) ([]models.Pair, error)

	GetName() string
}
