package battle

import "time"

// ActionType enumerates the skill actions a player may send while a battle
// is active.
type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionDefend ActionType = "defend"
	ActionBurst  ActionType = "burst"
	ActionFocus  ActionType = "focus"
)

// Live stat bounds.
const (
	maxCombo    = 3.0
	minCombo    = 0.5
	maxReaction = 100.0
	minReaction = 0.0

	// minActionInterval is the minimum spacing between two accepted actions
	// from the same player. Anything faster is dropped as macro spam.
	minActionInterval = 75 * time.Millisecond
)

type actionEffect struct {
	combo    float64
	reaction float64
}

var actionEffects = map[ActionType]actionEffect{
	ActionAttack: {combo: 0.08, reaction: 1},
	ActionDefend: {combo: -0.03, reaction: 3},
	ActionBurst:  {combo: 0.15, reaction: -2},
	ActionFocus:  {combo: 0.0, reaction: 4},
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// applyAction validates and applies one skill action to a player's live
// stats. It returns true when the action was accepted and the stats were
// mutated, false when rejected (unknown type or rate-limited). Rejection is
// a normal outcome reported to the caller, not an error.
//
// The caller is responsible for holding the room lock when the player is
// shared with the simulation loop.
func applyAction(p *Player, typ ActionType, now time.Time) bool {
	effect, ok := actionEffects[typ]
	if !ok {
		return false
	}

	if !p.Live.lastActionAt.IsZero() && now.Sub(p.Live.lastActionAt) < minActionInterval {
		return false
	}

	p.Live.lastActionAt = now
	p.Live.Combo = clamp(p.Live.Combo+effect.combo, minCombo, maxCombo)
	p.Live.ReactionScore = clamp(p.Live.ReactionScore+effect.reaction, minReaction, maxReaction)
	return true
}
