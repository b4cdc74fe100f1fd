package battle

import (
	"errors"
	"sync"
)

// Rejected-request errors. These are reported to the requesting caller as
// structured acks and never crash anything.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotJoinable = errors.New("room is not joinable")
	ErrNeedTwoPlayers  = errors.New("need two players to start")
	ErrAlreadyStarted  = errors.New("battle already started")
	ErrBattleNotActive = errors.New("battle not active")
	ErrPlayerNotInRoom = errors.New("player not in room")
)

// Registry is the authoritative in-memory directory of active rooms. It is
// created once at startup and injected into the gateway and the engine; it
// exclusively owns the id->room mapping.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create allocates a new room in the lobby phase holding exactly one player.
func (reg *Registry) Create(connID string, id Identity) *Room {
	room := newRoom(connID, id)
	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()
	return room
}

// Join appends a second player to a lobby room. The room is returned
// unchanged in phase; capacity and joinability are enforced here.
func (reg *Registry) Join(roomID, connID string, id Identity) (*Room, error) {
	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	reg.mu.Unlock()
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if len(room.players) >= 2 {
		return nil, ErrRoomFull
	}
	if room.phase != PhaseLobby {
		return nil, ErrRoomNotJoinable
	}
	room.players = append(room.players, newPlayer(connID, id))
	return room, nil
}

// Get looks a room up without mutating anything.
func (reg *Registry) Get(roomID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[roomID]
	return room, ok
}

// Contains reports whether the room is still registered. Pending timer
// callbacks re-check this before acting so a torn-down room stays inert.
func (reg *Registry) Contains(roomID string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.rooms[roomID]
	return ok
}

// Remove deletes the room from the registry. Idempotent.
func (reg *Registry) Remove(roomID string) {
	reg.mu.Lock()
	delete(reg.rooms, roomID)
	reg.mu.Unlock()
}

// Leave removes the player matching connID from the room, preserving the
// order of whoever remains. It returns the mutated room, or false if the
// room does not exist. Deciding teardown from the resulting player count is
// the caller's responsibility.
func (reg *Registry) Leave(roomID, connID string) (*Room, bool) {
	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	reg.mu.Unlock()
	if !ok {
		return nil, false
	}

	room.mu.Lock()
	kept := room.players[:0]
	for _, p := range room.players {
		if p.ConnID != connID {
			kept = append(kept, p)
		}
	}
	room.players = kept
	room.mu.Unlock()
	return room, true
}
