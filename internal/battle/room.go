package battle

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is a room's position in its lifecycle state machine.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseCountdown Phase = "countdown"
	PhaseActive    Phase = "active"
	PhaseFinished  Phase = "finished"
)

// End-of-battle reasons.
const (
	ReasonDominance  = "dominance"
	ReasonEnergy     = "energy"
	ReasonPlayerLeft = "player_left"
	ReasonEmpty      = "empty"
)

// Result is the terminal payload broadcast when a battle ends. Winner is the
// winning player's user id, or nil when there is no winner.
type Result struct {
	Reason string  `json:"reason"`
	Winner *string `json:"winner"`
}

// EnergyPair mirrors each player's live energy keyed by slot.
type EnergyPair struct {
	P1 float64 `json:"p1"`
	P2 float64 `json:"p2"`
}

// Room is one ephemeral two-player battle session. All mutable state is
// guarded by mu; the registry owns the id->room mapping and the simulation
// loop only ever holds a reference handed out by the registry.
type Room struct {
	ID string

	mu        sync.Mutex
	players   []*Player
	phase     Phase
	dominance float64
	energy    EnergyPair

	// countdown and tickStop are owned exclusively by the room and are
	// canceled exactly once, during finalization.
	countdown *time.Timer
	tickStop  chan struct{}
	finished  bool
}

func newRoomID() string {
	return "room_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func newRoom(connID string, id Identity) *Room {
	return &Room{
		ID:      newRoomID(),
		players: []*Player{newPlayer(connID, id)},
		phase:   PhaseLobby,
		energy:  EnergyPair{P1: 100, P2: 100},
	}
}

// Phase returns the room's current lifecycle phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// PlayerCount returns the number of players currently in the room.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// LeadPlayer returns the identity of the first remaining player, used to
// report the winner when the opponent abandons an active battle.
func (r *Room) LeadPlayer() (Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.players) == 0 {
		return Identity{}, false
	}
	p := r.players[0]
	return Identity{UserID: p.UserID, Username: p.Username}, true
}

// ApplyAction routes one skill action to the player owning connID. It
// returns (applied, nil) while the battle is active; rejected actions are a
// normal false result. Requests outside the active phase or from unknown
// connections are reported as errors for the caller's ack.
func (r *Room) ApplyAction(connID string, typ ActionType, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseActive {
		return false, ErrBattleNotActive
	}
	p := r.playerByConnLocked(connID)
	if p == nil {
		return false, ErrPlayerNotInRoom
	}
	return applyAction(p, typ, now), nil
}

func (r *Room) playerByConnLocked(connID string) *Player {
	for _, p := range r.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// PlayerSnapshot is the outward projection of a player. The rate-limit
// timestamp is internal and never exposed.
type PlayerSnapshot struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Base     BaseStats `json:"base"`
	Live     struct {
		Energy        float64 `json:"energy"`
		Combo         float64 `json:"combo"`
		ReactionScore float64 `json:"reactionScore"`
	} `json:"live"`
}

// Snapshot is the room state broadcast to all room members each tick and on
// every membership or phase change.
type Snapshot struct {
	ID        string     `json:"id"`
	Phase     Phase      `json:"phase"`
	Dominance float64    `json:"dominance"`
	Energy    EnergyPair `json:"energy"`
	Players   struct {
		P1 *PlayerSnapshot `json:"p1"`
		P2 *PlayerSnapshot `json:"p2"`
	} `json:"players"`
}

func snapshotPlayer(p *Player) *PlayerSnapshot {
	if p == nil {
		return nil
	}
	s := &PlayerSnapshot{UserID: p.UserID, Username: p.Username, Base: p.Base}
	s.Live.Energy = p.Live.Energy
	s.Live.Combo = p.Live.Combo
	s.Live.ReactionScore = p.Live.ReactionScore
	return s
}

func (r *Room) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        r.ID,
		Phase:     r.phase,
		Dominance: r.dominance,
		Energy:    r.energy,
	}
	if len(r.players) > 0 {
		snap.Players.P1 = snapshotPlayer(r.players[0])
	}
	if len(r.players) > 1 {
		snap.Players.P2 = snapshotPlayer(r.players[1])
	}
	return snap
}

// Snapshot returns a consistent copy of the room state for broadcasting.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}
