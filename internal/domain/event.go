package domain

import (
	"math"
	"time"
)

type GameType string

const (
	GameTypeSeatBased  GameType = "seat_based"
	GameTypeTableBased GameType = "table_based"
)

// Event is a publican-published window of slot capacity at a pub.
// Its slot ledger is owned by the storage layer; reserve/release are the
// only operations that mutate it.
type Event struct {
	ID        string
	PubID     string
	GameType  GameType
	StartTime time.Time
	EndTime   time.Time
	// Expires marks when the event stops being joinable; games still
	// confirmed past this point are expired by the sweep.
	Expires time.Time

	// Seat-based events track individual seats per slot.
	NumSeats int
	// Table-based events track whole tables per slot.
	NumTables     int
	TableCapacity int

	CreatedAt time.Time
}

// InitialSlotCapacity is the capacity every slot starts with.
func (e Event) InitialSlotCapacity() int {
	switch e.GameType {
	case GameTypeSeatBased:
		return e.NumSeats
	case GameTypeTableBased:
		return e.NumTables
	}
	return 0
}

// UnitsFor converts a requested player count into the capacity units one
// game consumes per overlapped slot. Seat-based games charge one unit per
// seat. Table-based games charge whole tables, rounding up: a party that
// spills onto a second table takes the whole second table.
func (e Event) UnitsFor(maxPlayers int) (int, error) {
	if maxPlayers <= 0 {
		return 0, ErrInvalidPlayerCount
	}
	switch e.GameType {
	case GameTypeSeatBased:
		return maxPlayers, nil
	case GameTypeTableBased:
		return int(math.Ceil(float64(maxPlayers) / float64(e.TableCapacity))), nil
	}
	return 0, ErrInvalidGameType
}

// GameSlotKeys validates a proposed game window against the event and
// returns the ledger keys it overlaps. The window must sit inside
// [StartTime, EndTime) and align to slot boundaries.
func (e Event) GameSlotKeys(start, end time.Time) ([]string, error) {
	keys, err := SlotKeys(start, end)
	if err != nil {
		return nil, err
	}
	if start.Before(e.StartTime) || end.After(e.EndTime) {
		return nil, ErrWindowOutOfBounds
	}
	if e.StartTime.Sub(start)%time.Hour != 0 {
		return nil, ErrWindowOutOfBounds
	}
	return keys, nil
}

// Expired reports whether the event is past its joinable lifetime.
func (e Event) Expired(now time.Time) bool {
	return !now.Before(e.Expires)
}
