package battle

import (
	"sync"
	"testing"
	"time"
)

// recordingBroadcaster captures engine output for assertions.
type recordingBroadcaster struct {
	mu      sync.Mutex
	updates []Snapshot
	ends    []Result
	closed  []string
}

func (b *recordingBroadcaster) RoomUpdate(snap Snapshot) {
	b.mu.Lock()
	b.updates = append(b.updates, snap)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) RoomEnd(roomID string, result Result) {
	b.mu.Lock()
	b.ends = append(b.ends, result)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) CloseRoom(roomID string) {
	b.mu.Lock()
	b.closed = append(b.closed, roomID)
	b.mu.Unlock()
}

func newTestBattle(t *testing.T) (*Registry, *Engine, *recordingBroadcaster, *Room) {
	t.Helper()
	reg := NewRegistry()
	bc := &recordingBroadcaster{}
	eng := NewEngine(reg, bc)
	room := reg.Create("c1", Identity{UserID: "u1", Username: "P1"})
	if _, err := reg.Join(room.ID, "c2", Identity{UserID: "u2", Username: "P2"}); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	return reg, eng, bc, room
}

func activate(room *Room) {
	room.mu.Lock()
	room.phase = PhaseActive
	room.mu.Unlock()
}

func TestStartBattle_Rejections(t *testing.T) {
	reg := NewRegistry()
	bc := &recordingBroadcaster{}
	eng := NewEngine(reg, bc)

	if err := eng.StartBattle("room_missing"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	room := reg.Create("c1", Identity{UserID: "u1", Username: "P1"})
	if err := eng.StartBattle(room.ID); err != ErrNeedTwoPlayers {
		t.Fatalf("expected ErrNeedTwoPlayers, got %v", err)
	}

	if _, err := reg.Join(room.ID, "c2", Identity{UserID: "u2", Username: "P2"}); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := eng.StartBattle(room.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if room.Phase() != PhaseCountdown {
		t.Fatalf("expected countdown phase after start, got %s", room.Phase())
	}

	if err := eng.StartBattle(room.ID); err != ErrAlreadyStarted {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestTick_SymmetricPlayersStayBalanced(t *testing.T) {
	_, eng, bc, room := newTestBattle(t)
	activate(room)

	eng.tick(room, time.Now())

	snap := room.Snapshot()
	if snap.Dominance != 0 {
		t.Fatalf("expected dominance 0 for identical players, got %v", snap.Dominance)
	}
	if snap.Energy.P1 != snap.Energy.P2 {
		t.Fatalf("expected symmetric energy drain, got p1=%v p2=%v", snap.Energy.P1, snap.Energy.P2)
	}
	if snap.Energy.P1 >= 100 {
		t.Fatalf("expected energy to drain, got %v", snap.Energy.P1)
	}
	if snap.Players.P1.Live.Energy != snap.Energy.P1 {
		t.Fatalf("player live energy not mirrored: %v vs %v", snap.Players.P1.Live.Energy, snap.Energy.P1)
	}
	if len(bc.updates) == 0 {
		t.Fatalf("expected a snapshot broadcast after the tick")
	}
}

func TestTick_ComboAdvantageShiftsDominance(t *testing.T) {
	_, eng, _, room := newTestBattle(t)
	activate(room)

	room.mu.Lock()
	room.players[0].Live.Combo = 2.0
	room.mu.Unlock()

	eng.tick(room, time.Now())

	snap := room.Snapshot()
	if snap.Dominance <= 0 {
		t.Fatalf("expected dominance to shift toward player 1, got %v", snap.Dominance)
	}
	if snap.Energy.P2 >= snap.Energy.P1 {
		t.Fatalf("expected player 2 to drain faster, got p1=%v p2=%v", snap.Energy.P1, snap.Energy.P2)
	}
}

func TestTick_DominanceWinsBeforeEnergy(t *testing.T) {
	reg, eng, bc, room := newTestBattle(t)
	activate(room)

	room.mu.Lock()
	room.dominance = 100
	room.energy.P1 = 0.01
	room.mu.Unlock()

	eng.tick(room, time.Now())

	if len(bc.ends) != 1 {
		t.Fatalf("expected one terminal result, got %d", len(bc.ends))
	}
	res := bc.ends[0]
	if res.Reason != ReasonDominance {
		t.Fatalf("expected dominance to take priority over energy, got %s", res.Reason)
	}
	if res.Winner == nil || *res.Winner != "u1" {
		t.Fatalf("expected winner u1, got %v", res.Winner)
	}
	if reg.Contains(room.ID) {
		t.Fatalf("expected finished room to be removed from the registry")
	}
}

func TestTick_EnergyDepletionAwardsOpponent(t *testing.T) {
	_, eng, bc, room := newTestBattle(t)
	activate(room)

	room.mu.Lock()
	room.energy.P1 = 0.01
	room.mu.Unlock()

	eng.tick(room, time.Now())

	if len(bc.ends) != 1 {
		t.Fatalf("expected one terminal result, got %d", len(bc.ends))
	}
	res := bc.ends[0]
	if res.Reason != ReasonEnergy {
		t.Fatalf("expected energy reason, got %s", res.Reason)
	}
	if res.Winner == nil || *res.Winner != "u2" {
		t.Fatalf("expected winner u2, got %v", res.Winner)
	}
}

func TestTick_MissingOpponentEndsBattle(t *testing.T) {
	reg, eng, bc, room := newTestBattle(t)
	activate(room)

	if _, ok := reg.Leave(room.ID, "c2"); !ok {
		t.Fatalf("leave failed")
	}

	eng.tick(room, time.Now())

	if len(bc.ends) != 1 {
		t.Fatalf("expected one terminal result, got %d", len(bc.ends))
	}
	if bc.ends[0].Reason != ReasonPlayerLeft {
		t.Fatalf("expected player_left reason, got %s", bc.ends[0].Reason)
	}
	if reg.Contains(room.ID) {
		t.Fatalf("expected room to be removed after abandonment")
	}
}

func TestFinalize_Idempotent(t *testing.T) {
	reg, eng, bc, room := newTestBattle(t)
	activate(room)

	winner := "u1"
	eng.Finalize(room, Result{Reason: ReasonDominance, Winner: &winner})
	eng.Finalize(room, Result{Reason: ReasonDominance, Winner: &winner})

	if len(bc.ends) != 1 {
		t.Fatalf("expected exactly one terminal broadcast, got %d", len(bc.ends))
	}
	if room.Phase() != PhaseFinished {
		t.Fatalf("expected finished phase, got %s", room.Phase())
	}
	if reg.Contains(room.ID) {
		t.Fatalf("expected room removed from registry after finalize")
	}

	// Ticks on a finished room are no-ops.
	before := len(bc.updates)
	eng.tick(room, time.Now())
	if len(bc.updates) != before {
		t.Fatalf("expected tick on finished room to broadcast nothing")
	}
}

func TestApplyAction_PhaseAndMembership(t *testing.T) {
	_, _, _, room := newTestBattle(t)

	if _, err := room.ApplyAction("c1", ActionAttack, time.Now()); err != ErrBattleNotActive {
		t.Fatalf("expected ErrBattleNotActive in lobby, got %v", err)
	}

	activate(room)
	if _, err := room.ApplyAction("c99", ActionAttack, time.Now()); err != ErrPlayerNotInRoom {
		t.Fatalf("expected ErrPlayerNotInRoom, got %v", err)
	}

	applied, err := room.ApplyAction("c1", ActionAttack, time.Now())
	if err != nil || !applied {
		t.Fatalf("expected action to apply, got applied=%v err=%v", applied, err)
	}
}
