package domain

import "errors"

var (
	ErrInvalidWindow          = errors.New("invalid time window")
	ErrWindowOutOfBounds      = errors.New("window out of event bounds")
	ErrInvalidPlayerCount     = errors.New("invalid player count")
	ErrInvalidGameType        = errors.New("invalid game type")
	ErrInvalidCapacity        = errors.New("invalid capacity")
	ErrInsufficientCapacity   = errors.New("insufficient capacity")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrEventNotFound          = errors.New("event not found")
	ErrEventExpired           = errors.New("event expired")
	ErrGameNotFound           = errors.New("game not found")
	ErrGameNotConfirmed       = errors.New("game not confirmed")
	ErrGameFull               = errors.New("game full")
	ErrAlreadyJoined          = errors.New("gamer already joined")
	ErrNotInGame              = errors.New("gamer not in game")
	ErrHostCannotLeave        = errors.New("host cannot leave own game")
	ErrGamerNotFound          = errors.New("gamer not found")
	ErrPublicanNotFound       = errors.New("publican not found")
	ErrPubNameRequired        = errors.New("pub name required")
	ErrGamerIDRequired        = errors.New("gamer id required")
	ErrInvalidID              = errors.New("invalid id")
)
