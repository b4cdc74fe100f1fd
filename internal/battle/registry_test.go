package battle

import (
	"strings"
	"testing"
)

func TestRegistry_CreateAndJoin(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("c1", Identity{UserID: "u1", Username: "P1"})

	if !strings.HasPrefix(room.ID, "room_") {
		t.Fatalf("unexpected room id format: %s", room.ID)
	}
	if room.Phase() != PhaseLobby {
		t.Fatalf("expected new room in lobby phase, got %s", room.Phase())
	}
	if room.PlayerCount() != 1 {
		t.Fatalf("expected 1 player after create, got %d", room.PlayerCount())
	}

	joined, err := reg.Join(room.ID, "c2", Identity{UserID: "u2", Username: "P2"})
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if joined != room {
		t.Fatalf("join returned a different room")
	}
	if room.PlayerCount() != 2 {
		t.Fatalf("expected 2 players after join, got %d", room.PlayerCount())
	}
}

func TestRegistry_JoinUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Join("room_missing", "c1", Identity{UserID: "u1", Username: "P1"}); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRegistry_JoinFullRoom(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("c1", Identity{UserID: "u1", Username: "P1"})
	if _, err := reg.Join(room.ID, "c2", Identity{UserID: "u2", Username: "P2"}); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if _, err := reg.Join(room.ID, "c3", Identity{UserID: "u3", Username: "P3"}); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if room.PlayerCount() != 2 {
		t.Fatalf("rejected join mutated the room, players=%d", room.PlayerCount())
	}
}

func TestRegistry_JoinNotJoinable(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("c1", Identity{UserID: "u1", Username: "P1"})
	room.mu.Lock()
	room.phase = PhaseCountdown
	room.mu.Unlock()

	if _, err := reg.Join(room.ID, "c2", Identity{UserID: "u2", Username: "P2"}); err != ErrRoomNotJoinable {
		t.Fatalf("expected ErrRoomNotJoinable, got %v", err)
	}
	if room.PlayerCount() != 1 {
		t.Fatalf("rejected join mutated the room, players=%d", room.PlayerCount())
	}
}

func TestRegistry_LeavePreservesOrder(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("c1", Identity{UserID: "u1", Username: "P1"})
	if _, err := reg.Join(room.ID, "c2", Identity{UserID: "u2", Username: "P2"}); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	got, ok := reg.Leave(room.ID, "c1")
	if !ok {
		t.Fatalf("leave reported unknown room")
	}
	if got.PlayerCount() != 1 {
		t.Fatalf("expected 1 player after leave, got %d", got.PlayerCount())
	}
	lead, ok := got.LeadPlayer()
	if !ok || lead.UserID != "u2" {
		t.Fatalf("expected remaining player u2, got %+v ok=%v", lead, ok)
	}

	// Leaving with an unknown connection id is a no-op.
	got, ok = reg.Leave(room.ID, "c99")
	if !ok || got.PlayerCount() != 1 {
		t.Fatalf("leave with unknown conn mutated the room")
	}

	if _, ok := reg.Leave("room_missing", "c1"); ok {
		t.Fatalf("expected leave on unknown room to report false")
	}
}

func TestRegistry_RemoveIdempotent(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("c1", Identity{UserID: "u1", Username: "P1"})

	reg.Remove(room.ID)
	if reg.Contains(room.ID) {
		t.Fatalf("expected room to be gone after remove")
	}
	reg.Remove(room.ID)

	if _, ok := reg.Get(room.ID); ok {
		t.Fatalf("expected Get to miss after remove")
	}
}
