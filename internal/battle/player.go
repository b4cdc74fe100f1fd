package battle

import "time"

// Identity is the authenticated identity attached to a live connection.
// It is normalized at the gateway boundary: UserID and Username are always
// non-empty by the time they reach room or player construction.
type Identity struct {
	UserID   string
	Username string
}

// BaseStats are fixed combat attributes assigned at player creation.
// Currently constant for every player; kept as data for future customization.
type BaseStats struct {
	Power     float64 `json:"power"`
	Stability float64 `json:"stability"`
}

// LiveStats is the mutable per-tick state of a player.
type LiveStats struct {
	Energy        float64 `json:"energy"`
	Combo         float64 `json:"combo"`
	ReactionScore float64 `json:"reactionScore"`
	// lastActionAt drives the inter-action rate limit. Never serialized.
	lastActionAt time.Time
}

// Player is ephemeral state scoped to a single room.
type Player struct {
	ConnID   string
	UserID   string
	Username string
	Base     BaseStats
	Live     LiveStats
}

func newPlayer(connID string, id Identity) *Player {
	return &Player{
		ConnID:   connID,
		UserID:   id.UserID,
		Username: id.Username,
		Base:     BaseStats{Power: 100, Stability: 100},
		Live:     LiveStats{Energy: 100, Combo: 1.0, ReactionScore: 0},
	}
}
