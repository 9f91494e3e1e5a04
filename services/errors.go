package services

import "errors"

// Общие ошибки сервисного слоя, маппятся в HTTP в handlers.
var (
	// Ресурсы
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Нарушения порядка операций: вызов сделан не вовремя, вызывающий
	// должен перепроверить состояние. Никогда не ретраятся внутри.
	ErrRoundInProgress         = errors.New("the current round is still open")
	ErrTournamentFinished      = errors.New("tournament is already finished")
	ErrScheduledRoundsComplete = errors.New("all scheduled rounds have been played")
	ErrTieBreakNotNeeded       = errors.New("standings are decisive, no tie-break is needed")
	ErrTieBreakNotPairable     = errors.New("tied group cannot be paired for a tie-break round")

	// Аутентификация оператора
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
)
