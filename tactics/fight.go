package tactics

import (
	"fmt"

	"github.com/arquen/warmind/assess"
	"github.com/arquen/warmind/model"
)

// Fight scoring tuning.
const (
	wipeBonus          = 5.0 // expected damage covers the target's remaining wounds
	fightKillRate      = 0.5 // bonus per expected model kill
	fightOverkillRate  = 0.3 // penalty per wound of expected spill past the wipe
	fightLockWeight    = 0.3
	fightMarkerBonus   = 2.0
)

// fightChoice is one engaged unit's best target and weapon set.
type fightChoice struct {
	actor       *model.UnitView
	target      *model.UnitView
	assignments []model.WeaponAssignment
	score       float64
}

// decideFight picks fight activations in value order: for each unit with a
// legal fight action, score every engaged enemy with the unit's best melee
// loadout and activate the highest-value pairing first. Activation order
// matters in melee, so finishing kills go before chip damage.
func (c *Context) decideFight(snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	plan := c.ensurePlan(snap)
	occupancy := objectiveOccupancy(snap)

	var best *fightChoice
	for _, la := range legal {
		if la.Kind != model.ActionFight {
			continue
		}
		u := snap.Unit(la.Actor)
		if u == nil || !u.OnTable() || !u.HasMelee() {
			continue
		}
		for _, e := range engagingEnemies(snap, u) {
			choice := scoreFight(u, e, plan, occupancy)
			if choice == nil {
				continue
			}
			choice.score += c.noise()
			if best == nil || choice.score > best.score {
				best = choice
			}
		}
	}

	if best == nil {
		return endPhaseOr(legal, "no units left to fight")
	}
	return model.Action{
		Kind:  model.ActionFight,
		Actor: best.actor.ID,
		Payload: model.Payload{
			TargetID:    best.target.ID,
			Assignments: best.assignments,
		},
		Rationale: fmt.Sprintf("%s fights %s", best.actor.Name, best.target.Name),
	}
}

// scoreFight builds the melee loadout against one engaged enemy: the primary
// profile with the best expected damage, plus every extra-attacks weapon,
// scored on damage, kill potential and overkill spill.
func scoreFight(u, e *model.UnitView, plan *PhasePlan, occupancy map[string]bool) *fightChoice {
	melee := u.MeleeWeapons()
	var primary *model.WeaponProfile
	primaryDmg := 0.0
	var extras []model.WeaponProfile
	sit := assess.Situation{Distance: 0}
	for i := range melee {
		if melee[i].Rules.ExtraAttacks {
			extras = append(extras, melee[i])
			continue
		}
		dmg := assess.ExpectedDamage(melee[i], u, e, sit) * assess.EfficiencyMult(melee[i], e)
		if dmg > primaryDmg {
			primary = &melee[i]
			primaryDmg = dmg
		}
	}
	if primary == nil && len(extras) == 0 {
		return nil
	}

	total := primaryDmg
	for _, w := range extras {
		total += assess.ExpectedDamage(w, u, e, sit) * assess.EfficiencyMult(w, e)
	}
	if total <= 0 {
		return nil
	}

	remaining := float64(e.TotalWounds())
	score := total
	if total >= remaining {
		// A wipe removes the unit's swing-back entirely.
		score += wipeBonus - (total-remaining)*fightOverkillRate
	} else if wpm := float64(e.Stats.Wounds); wpm > 0 {
		score += (total / wpm) * fightKillRate
	}
	if lock, ok := plan.LockTargets[e.ID]; ok {
		bonus := lock * fightLockWeight
		if bonus > lockBonusCap {
			bonus = lockBonusCap
		}
		score += bonus
	}
	if occupancy[e.ID] {
		score += fightMarkerBonus
	}

	var assignments []model.WeaponAssignment
	if primary != nil {
		assignments = append(assignments, model.WeaponAssignment{WeaponID: primary.ID, TargetID: e.ID})
	}
	for _, w := range extras {
		assignments = append(assignments, model.WeaponAssignment{WeaponID: w.ID, TargetID: e.ID})
	}
	return &fightChoice{actor: u, target: e, assignments: assignments, score: score}
}
