// Package tactics is the decision engine: given a read-only battle snapshot
// and the host's pre-validated legal actions, it returns exactly one action
// per call. All cross-call state lives on Context; there are no package
// globals, so concurrent games never share anything.
package tactics

import (
	"math/rand"

	"github.com/arquen/warmind/model"
)

// Context owns everything that persists between decision calls for one side
// of one game: the doctrine, the injectable random source, and the per-round
// caches (phase plan, fire plan, one-shot flags). The caller keeps it for the
// whole game and the lifecycle methods substitute for locking — the engine
// itself is strictly synchronous.
type Context struct {
	Side       string
	Difficulty int
	Doctrine   Doctrine

	rng   *rand.Rand
	round int
	phase model.Phase

	plan     *PhasePlan
	firePlan *FirePlan

	firedOneShots      map[string]bool // weapon key → already expended this game
	stratagemEvaluated map[string]bool // stratagem key → considered this phase
}

// NewContext builds a context for one side at the given difficulty tier
// (1..4). A nil rng gets a fixed-seed source so the default is deterministic;
// tests and the host inject their own.
func NewContext(side string, difficulty int, rng *rand.Rand) *Context {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 4 {
		difficulty = 4
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Context{
		Side:               side,
		Difficulty:         difficulty,
		Doctrine:           ProfileFor(difficulty),
		rng:                rng,
		firedOneShots:      make(map[string]bool),
		stratagemEvaluated: make(map[string]bool),
	}
}

// BeginRound invalidates every per-round cache. Called by Decide when the
// snapshot's round number changes.
func (c *Context) BeginRound(round int) {
	c.round = round
	c.plan = nil
	c.firePlan = nil
	c.stratagemEvaluated = make(map[string]bool)
}

// BeginPhase resets the per-phase flags. Plans survive phase changes within
// a round — the phase plan built in movement is consumed by shooting and
// charge.
func (c *Context) BeginPhase(phase model.Phase) {
	if phase == c.phase {
		return
	}
	c.phase = phase
	c.stratagemEvaluated = make(map[string]bool)
	if phase == model.PhaseShooting {
		c.firePlan = nil // rebuilt once per shooting phase from live state
	}
}

// Round returns the round the context last began.
func (c *Context) Round() int { return c.round }

// noise returns the difficulty-scaled random term added to comparison
// scores. Zero-noise doctrines yield exactly zero so determinism tests hold.
func (c *Context) noise() float64 {
	if c.Doctrine.Noise <= 0 {
		return 0
	}
	return (c.rng.Float64()*2 - 1) * c.Doctrine.Noise
}

// MarkOneShotFired records that a single-use weapon has been expended, keyed
// by unit and weapon id. Mirrors the host rules engine's usage query so the
// fire plan never double-books a spent weapon.
func (c *Context) MarkOneShotFired(unitID, weaponID string) {
	c.firedOneShots[unitID+"/"+weaponID] = true
}

// OneShotFired reports whether a single-use weapon was already expended.
func (c *Context) OneShotFired(unitID, weaponID string) bool {
	return c.firedOneShots[unitID+"/"+weaponID]
}

// stratagemOnce returns true the first time it is called with a key in the
// current phase, false afterwards. Keeps stratagem-style evaluations from
// repeating when the host re-queries mid-phase.
func (c *Context) stratagemOnce(key string) bool {
	if c.stratagemEvaluated[key] {
		return false
	}
	c.stratagemEvaluated[key] = true
	return true
}
