package domain

import "time"

// Gamer is referenced by games as host or participant. Hosted and joined
// game ids are derived from the game records, not stored on the gamer.
type Gamer struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Publican owns a pub and publishes events at it.
type Publican struct {
	ID        string
	PubName   string
	CreatedAt time.Time
}
