package battle

import (
	"time"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/logging"
)

// Simulation timing and tuning.
const (
	TickInterval   = 50 * time.Millisecond
	CountdownDelay = 3 * time.Second

	dominanceStep = 3.0
	energyDrain   = 0.8
	comboDecay    = 0.01
	reactionDecay = 0.2
)

// Broadcaster fans engine output out to the connections joined to a room.
// Implemented by the session gateway.
type Broadcaster interface {
	// RoomUpdate broadcasts a state snapshot to the room's members.
	RoomUpdate(snap Snapshot)
	// RoomEnd broadcasts the terminal result payload to the room's members.
	RoomEnd(roomID string, result Result)
	// CloseRoom forces all connections out of the room's broadcast group.
	CloseRoom(roomID string)
}

// Engine drives the fixed-tick battle simulation for every active room. It
// holds only references handed out by the registry and re-checks registry
// membership before acting on anything deferred, so callbacks that outlive
// a torn-down room are no-ops.
type Engine struct {
	registry *Registry
	bc       Broadcaster
}

func NewEngine(registry *Registry, bc Broadcaster) *Engine {
	return &Engine{registry: registry, bc: bc}
}

// StartBattle moves a lobby room with two players into the countdown phase
// and schedules the transition to active. Starting is irrevocable once the
// countdown begins, except via leave/disconnect.
func (e *Engine) StartBattle(roomID string) error {
	room, ok := e.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if len(room.players) < 2 {
		room.mu.Unlock()
		return ErrNeedTwoPlayers
	}
	if room.phase != PhaseLobby {
		room.mu.Unlock()
		return ErrAlreadyStarted
	}
	room.phase = PhaseCountdown
	room.countdown = time.AfterFunc(CountdownDelay, func() { e.beginActive(room) })
	snap := room.snapshotLocked()
	room.mu.Unlock()

	e.bc.RoomUpdate(snap)
	return nil
}

// beginActive fires at countdown expiry. If everyone left during the
// countdown the room is already gone from the registry and nothing happens.
func (e *Engine) beginActive(room *Room) {
	if !e.registry.Contains(room.ID) {
		return
	}

	room.mu.Lock()
	if room.finished || room.phase != PhaseCountdown {
		room.mu.Unlock()
		return
	}
	room.phase = PhaseActive
	room.tickStop = make(chan struct{})
	stop := room.tickStop
	snap := room.snapshotLocked()
	room.mu.Unlock()

	e.bc.RoomUpdate(snap)
	go e.runTicks(room, stop)
}

func (e *Engine) runTicks(room *Room, stop <-chan struct{}) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick(room, time.Now())
		}
	}
}

func basePressure(p *Player) float64 {
	return (p.Base.Power*0.6 + p.Base.Stability*0.4) / 100
}

func skillPressure(p *Player) float64 {
	return (p.Live.Combo*20 + p.Live.ReactionScore*0.3) / 100
}

func applySkillDecay(p *Player) {
	p.Live.Combo = clamp(p.Live.Combo-comboDecay, minCombo, maxCombo)
	p.Live.ReactionScore = clamp(p.Live.ReactionScore-reactionDecay, minReaction, maxReaction)
}

// tick advances the simulation by one step: decay, pressure, dominance,
// energy drain, then terminal checks in fixed priority order (dominance
// before energy, player 1 before player 2). A tick never panics out; any
// degenerate state degrades to a terminal outcome.
func (e *Engine) tick(room *Room, now time.Time) {
	room.mu.Lock()
	if room.finished {
		room.mu.Unlock()
		return
	}
	if len(room.players) < 2 {
		room.mu.Unlock()
		e.Finalize(room, Result{Reason: ReasonPlayerLeft})
		return
	}

	p1 := room.players[0]
	p2 := room.players[1]

	applySkillDecay(p1)
	applySkillDecay(p2)

	totalP1 := 0.5*basePressure(p1) + 0.5*skillPressure(p1)
	totalP2 := 0.5*basePressure(p2) + 0.5*skillPressure(p2)

	room.dominance = clamp(room.dominance+(totalP1-totalP2)*dominanceStep, -100, 100)

	room.energy.P1 = clamp(room.energy.P1-max(0, totalP2)*energyDrain, 0, 100)
	room.energy.P2 = clamp(room.energy.P2-max(0, totalP1)*energyDrain, 0, 100)

	p1.Live.Energy = room.energy.P1
	p2.Live.Energy = room.energy.P2

	var result *Result
	switch {
	case room.dominance >= 100:
		result = &Result{Reason: ReasonDominance, Winner: &p1.UserID}
	case room.dominance <= -100:
		result = &Result{Reason: ReasonDominance, Winner: &p2.UserID}
	case room.energy.P1 <= 0:
		result = &Result{Reason: ReasonEnergy, Winner: &p2.UserID}
	case room.energy.P2 <= 0:
		result = &Result{Reason: ReasonEnergy, Winner: &p1.UserID}
	}

	if result != nil {
		room.mu.Unlock()
		e.Finalize(room, *result)
		return
	}

	snap := room.snapshotLocked()
	room.mu.Unlock()
	e.bc.RoomUpdate(snap)
}

// Finalize ends a battle: it cancels the room's timers exactly once,
// broadcasts the terminal result followed by one final snapshot, empties
// the broadcast group and removes the room from the registry. Safe to call
// from any trigger (tick-detected terminal state, leave, disconnect);
// subsequent calls are no-ops.
func (e *Engine) Finalize(room *Room, result Result) {
	room.mu.Lock()
	if room.finished {
		room.mu.Unlock()
		return
	}
	room.finished = true
	room.phase = PhaseFinished
	if room.countdown != nil {
		room.countdown.Stop()
		room.countdown = nil
	}
	if room.tickStop != nil {
		close(room.tickStop)
		room.tickStop = nil
	}
	snap := room.snapshotLocked()
	room.mu.Unlock()

	winner := ""
	if result.Winner != nil {
		winner = *result.Winner
	}
	logging.Info("battle finished", logging.Fields{
		constants.LogFieldRoomID: room.ID,
		constants.LogFieldReason: result.Reason,
		constants.LogFieldWinner: winner,
	})

	e.bc.RoomEnd(room.ID, result)
	e.bc.RoomUpdate(snap)
	e.bc.CloseRoom(room.ID)
	e.registry.Remove(room.ID)
}
