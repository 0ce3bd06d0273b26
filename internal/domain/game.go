package domain

import "time"

type GameState string

const (
	// GameStateConfirmed is the only live state; a confirmed game's
	// capacity is already committed to the ledger.
	GameStateConfirmed GameState = "confirmed"
	GameStateCancelled GameState = "cancelled"
	GameStateExpired   GameState = "expired"
)

// Game is a hosted session inside an event window. Its existence is the
// evidence that capacity was reserved; there is no pending state.
type Game struct {
	ID        string
	EventID   string
	Host      string
	Name      string
	StartTime time.Time
	EndTime   time.Time

	MaxPlayers int
	// Units is the per-slot consumption charged at creation, kept so
	// cancel/expire release exactly what was reserved.
	Units int

	Participants []string
	State        GameState
	CreatedAt    time.Time
}

// HasParticipant reports membership, host included.
func (g Game) HasParticipant(gamerID string) bool {
	for _, p := range g.Participants {
		if p == gamerID {
			return true
		}
	}
	return false
}

// Full reports whether the game reached its player limit.
func (g Game) Full() bool {
	return len(g.Participants) >= g.MaxPlayers
}
