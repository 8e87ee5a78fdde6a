package tactics

import (
	"fmt"
	"log/slog"

	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// Decide is the engine's single entry point: one snapshot and legal-action
// list in, exactly one action out. It is synchronous and never touches
// anything outside the Context.
func (c *Context) Decide(phase model.Phase, snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	if snap == nil || len(snap.Units) == 0 {
		return endPhaseOr(legal, "empty battlefield")
	}
	if snap.Round != c.round {
		c.BeginRound(snap.Round)
	}
	c.BeginPhase(phase)

	// Low-tier doctrines sometimes act on impulse instead of the scoring
	// pipeline. The roll comes from the injected source, so seeded games
	// still replay identically.
	if c.Doctrine.RandomActionChance > 0 && c.rng.Float64() < c.Doctrine.RandomActionChance {
		if act, ok := c.randomAction(snap, legal); ok {
			return act
		}
	}

	switch phase {
	case model.PhaseDeployment:
		return c.decideDeployment(snap, legal)
	case model.PhaseCommand:
		return c.decideCommand(snap, legal)
	case model.PhaseMovement:
		return c.decideMovement(snap, legal)
	case model.PhaseShooting:
		return c.decideShooting(snap, legal)
	case model.PhaseCharge:
		return c.decideCharge(snap, legal)
	case model.PhaseFight:
		return c.decideFight(snap, legal)
	case model.PhaseScoring:
		return c.decideScoring(snap, legal)
	default:
		slog.Warn("unknown phase", "phase", phase, "side", c.Side)
		return endPhaseOr(legal, fmt.Sprintf("unknown phase %q", phase))
	}
}

// randomAction picks a uniformly random legal action and fills in the
// simplest payload that makes it executable. Kinds that need real planning
// to be sensible are declined, letting the normal pipeline handle the call.
func (c *Context) randomAction(snap *model.BattleSnapshot, legal []model.LegalAction) (model.Action, bool) {
	if len(legal) == 0 {
		return model.Action{}, false
	}
	la := legal[c.rng.Intn(len(legal))]
	u := snap.Unit(la.Actor)

	switch la.Kind {
	case model.ActionEndPhase:
		return model.EndPhase("acting on impulse"), true
	case model.ActionHold:
		if u == nil {
			return model.Action{}, false
		}
		return model.Action{Kind: model.ActionHold, Actor: u.ID, Rationale: "acting on impulse"}, true
	case model.ActionMove, model.ActionAdvance:
		if u == nil || !u.OnTable() {
			return model.Action{}, false
		}
		// Wander toward a random objective.
		if len(snap.Objectives) == 0 {
			return model.Action{}, false
		}
		obj := snap.Objectives[c.rng.Intn(len(snap.Objectives))]
		dest := geom.Toward(u.Position(), obj.Pos, float64(u.Stats.Move))
		return model.Action{
			Kind:      la.Kind,
			Actor:     u.ID,
			Payload:   model.Payload{Destinations: geom.Formation(dest, u.ModelCount(), u.BaseRadius())},
			Rationale: "acting on impulse",
		}, true
	case model.ActionCharge:
		if u == nil || len(la.Targets) == 0 {
			return model.Action{}, false
		}
		target := la.Targets[c.rng.Intn(len(la.Targets))]
		return model.Action{
			Kind:      model.ActionCharge,
			Actor:     u.ID,
			Payload:   model.Payload{TargetID: target},
			Rationale: "acting on impulse",
		}, true
	default:
		// Shooting, fighting, deployment and scoring need coherent payloads
		// even on a whim.
		return model.Action{}, false
	}
}

// endPhaseOr returns the host's own end_phase descriptor when one is legal,
// and the documented catch-all otherwise.
func endPhaseOr(legal []model.LegalAction, rationale string) model.Action {
	if la := model.FindLegal(legal, model.ActionEndPhase, ""); la != nil {
		return model.Action{Kind: la.Kind, Actor: la.Actor, Rationale: rationale}
	}
	return model.EndPhase(rationale)
}
