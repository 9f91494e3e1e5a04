package models

import "errors"

// Ошибки доменных сущностей. Сервисный слой оборачивает их контекстом,
// HTTP-слой маппит через errors.Is.
var (
	ErrSelfPairing          = errors.New("a participant cannot be paired against themselves")
	ErrInvalidScore         = errors.New("match scores must be 0, 0.5 or 1")
	ErrScoreSum             = errors.New("match scores must sum to 1.0")
	ErrMatchAlreadyFinished = errors.New("match result is already recorded")

	ErrRoundClosed    = errors.New("round is already closed")
	ErrMatchesPending = errors.New("round has unfinished matches")

	ErrInvalidPoints = errors.New("points must be 0, 0.5 or 1")

	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidRoundCount      = errors.New("scheduled round count must be between 1 and 20")
	ErrParticipantKeyRequired = errors.New("participant key is required")
	ErrParticipantExists      = errors.New("participant is already registered")
	ErrRosterLocked           = errors.New("cannot modify the roster after the first round has started")
)
