package tactics

import (
	"fmt"
	"log/slog"

	"github.com/arquen/warmind/assess"
	"github.com/arquen/warmind/dice"
	"github.com/arquen/warmind/model"
)

// Charge scoring tuning.
const (
	chargeBelowHalfBonus = 2.0
	chargeCharacterBonus = 2.5
	chargeLockWeight     = 0.4
	chargeShortBonus     = 2.0 // needed distance ≤ 6, nearly automatic
	chargeShortRange     = 6.0
	chargeObjectiveBonus = 2.5
	toughWallPenalty     = 1.5 // target too tough for our melee to dent
	lateRoundBar         = 1.5 // extra threshold in the last rounds off-objective
)

// chargeCandidate is one declarable charge with its expected worth.
type chargeCandidate struct {
	actor    *model.UnitView
	target   *model.UnitView
	prob     float64
	needed   float64
	score    float64 // final value: quality × probability + situational bonuses
}

// decideCharge scores every declarable charge and declares the best one that
// clears the doctrine threshold, one per call until none remain.
func (c *Context) decideCharge(snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	plan := c.ensurePlan(snap)
	sit := c.situationFor(snap)
	occupancy := objectiveOccupancy(snap)

	threshold := c.chargeThreshold(sit)
	if c.stratagemOnce("charge-threshold") {
		slog.Debug("charge threshold",
			"side", c.Side,
			"round", snap.Round,
			"threshold", threshold,
			"tempo", sit.tempo,
		)
	}

	var best *chargeCandidate
	for _, la := range legal {
		if la.Kind != model.ActionCharge {
			continue
		}
		u := snap.Unit(la.Actor)
		if u == nil || !u.OnTable() || !u.HasMelee() {
			continue
		}
		targets := la.Targets
		if len(targets) == 0 {
			// Host left the target open; consider every enemy in threat range.
			for _, e := range snap.EnemyUnits(c.Side) {
				if e.OnTable() {
					targets = append(targets, e.ID)
				}
			}
		}
		for _, targetID := range targets {
			e := snap.Unit(targetID)
			if e == nil || !e.OnTable() {
				continue
			}
			cand := c.scoreCharge(snap, u, e, plan, sit, occupancy)
			if cand == nil {
				continue
			}
			bar := threshold
			if sit.round >= 4 && !occupancy[e.ID] {
				// Late charges that don't fight for a marker need to be clearly
				// worth the exposure.
				bar += lateRoundBar
			}
			if cand.score < bar {
				continue
			}
			if best == nil || cand.score > best.score {
				best = cand
			}
		}
	}

	if best == nil {
		return endPhaseOr(legal, "no charge worth the risk")
	}
	return model.Action{
		Kind:    model.ActionCharge,
		Actor:   best.actor.ID,
		Payload: model.Payload{TargetID: best.target.ID},
		Rationale: fmt.Sprintf("%s charges %s (%.0f%% to make it)",
			best.actor.Name, best.target.Name, best.prob*100),
	}
}

// scoreCharge prices one actor/target charge. Returns nil when the charge is
// out of reach or the probability-weighted value is zero.
func (c *Context) scoreCharge(snap *model.BattleSnapshot, u, e *model.UnitView, plan *PhasePlan, sit situation, occupancy map[string]bool) *chargeCandidate {
	needed := model.EdgeDistance(u, e) - model.EngagementRange
	prob := dice.ChargeProb(needed)
	if prob <= 0 {
		return nil
	}

	quality := assess.EstimateMeleeDamage(u, e) * 2
	if e.BelowHalfStrength() {
		quality += chargeBelowHalfBonus
	}
	if e.IsCharacter() {
		quality += chargeCharacterBonus
	}
	if lock, ok := plan.LockTargets[e.ID]; ok {
		bonus := lock * chargeLockWeight
		if bonus > lockBonusCap {
			bonus = lockBonusCap
		}
		quality += bonus
	}

	// Trade sanity: bouncing off a wall we can't hurt, or feeding a cheap
	// unit to something that will erase it, both read as penalties.
	if assess.EstimateMeleeDamage(u, e) < 1.0 && (e.IsVehicle() || e.IsMonster() || e.Stats.Toughness >= 9) {
		quality -= toughWallPenalty
	}
	quality *= 0.7 + 0.6*sit.aggression

	score := quality * prob
	if needed <= chargeShortRange {
		score += chargeShortBonus * prob
	}
	if occupancy[e.ID] {
		// Clearing a marker pays even on a marginal fight.
		score += chargeObjectiveBonus
	}
	score += c.noise()
	if score <= 0 {
		return nil
	}
	return &chargeCandidate{actor: u, target: e, prob: prob, needed: needed, score: score}
}

// chargeThreshold is the doctrine's bar for declaring, loosened when trailing
// (tempo above 1 means the side needs fights). The tier differences live in
// the doctrine profiles themselves.
func (c *Context) chargeThreshold(sit situation) float64 {
	t := c.Doctrine.ChargeThreshold
	if sit.tempo > 1 {
		t /= sit.tempo
	}
	return t
}
