package service

import "casino_engine/internal/domain"

// Caller-facing engine errors. Stable codes, safe to surface synchronously.
var (
	ErrUnsupportedGame = domain.NewEngineError("UNSUPPORTED_GAME", "unknown game")
	ErrNotInstantGame  = domain.NewEngineError("UNSUPPORTED_GAME", "game does not support single-call play")
	ErrBetTooLow       = domain.NewEngineError("BET_TOO_LOW", "bet below minimum")
	ErrBetTooHigh      = domain.NewEngineError("BET_TOO_HIGH", "bet exceeds maximum")
	ErrGameInProgress  = domain.NewEngineError("GAME_IN_PROGRESS", "a game is already in progress")
	ErrNoActiveGame    = domain.NewEngineError("NO_ACTIVE_GAME", "no game in progress")
	ErrSessionBusy     = domain.NewEngineError("SESSION_BUSY", "another action on this game is still running")
	ErrDeckExhausted   = domain.NewEngineError("DECK_EXHAUSTED", "deck exhausted, cash out to finish")
	ErrInvalidAction   = domain.NewEngineError("INVALID_ACTION", "action not allowed in current state")
	ErrSeedInUse       = domain.NewEngineError("SEED_IN_USE", "finish in-progress games before rotating the seed")
	ErrBadClientSeed   = domain.NewEngineError("INVALID_CLIENT_SEED", "client seed must be 1-64 characters")
	ErrAutoBetRunning  = domain.NewEngineError("AUTOBET_RUNNING", "an autobet session is already running")
	ErrAutoBetNotFound = domain.NewEngineError("AUTOBET_NOT_FOUND", "no autobet session")
	ErrAutoBetConfig   = domain.NewEngineError("AUTOBET_CONFIG", "invalid autobet configuration")
)

// invalidParams wraps a game's own validation failure under a stable code.
func invalidParams(err error) error {
	return domain.NewEngineError("INVALID_PARAMS", err.Error())
}
