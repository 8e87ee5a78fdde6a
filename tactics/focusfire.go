package tactics

import (
	"log/slog"
	"math"
	"sort"

	"github.com/arquen/warmind/assess"
	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// FirePlan is the shooting phase's target allocation, built once per phase
// and drained unit by unit as the host asks for decisions.
type FirePlan struct {
	Round        int
	TargetValues map[string]float64
	Assignments  map[string][]model.WeaponAssignment // shooter unit → weapon/target pairs
}

// Macro target-value tuning.
const (
	valuePerPoint        = 0.08
	tradeWeight          = 0.5
	outputWeight         = 0.6
	characterBonus       = 4.0
	bigTargetBonus       = 3.0
	belowHalfBonus       = 3.0
	onObjectiveBonus     = 4.0
	ocBonusPerPoint      = 0.3
	highDefenseDiscount  = 0.5
	chargeTargetSuppress = 0.1 // shooting a unit we intend to charge wastes the melee
)

// Micro allocation tuning.
const (
	overkillTolerance = 1.0  // allocated damage beyond tolerance × kill threshold earns nothing
	nearCapDiscount   = 0.25 // value rate between the threshold and the tolerance line
	killBonusRate     = 0.2  // extra value per model-kill boundary crossed
)

// ensureFirePlan returns the shooting plan for this phase, building it on
// first use.
func (c *Context) ensureFirePlan(snap *model.BattleSnapshot) *FirePlan {
	if c.firePlan != nil && c.firePlan.Round == snap.Round {
		return c.firePlan
	}
	c.firePlan = c.BuildFirePlan(snap)
	slog.Debug("fire plan built",
		"side", c.Side,
		"round", snap.Round,
		"shooters", len(c.firePlan.Assignments),
	)
	return c.firePlan
}

// TargetValue is the macro priority of shooting one enemy unit: what it
// costs, what it threatens, what buffs ride on it, and whether killing it
// moves the objective game — suppressed to near nothing when a charge
// intent already claims it.
func (c *Context) TargetValue(snap *model.BattleSnapshot, e *model.UnitView, plan *PhasePlan, sit situation, onObjective bool) float64 {
	v := float64(e.Points) * valuePerPoint
	v += assess.TradeEfficiency(e) * tradeWeight
	v += (assess.RangedOutputScore(e) + assess.MeleeOutputScore(e)) * outputWeight

	// Buffed units are worth more dead, but a buff behind a hard shell is
	// discounted — the wounds to collect it are expensive.
	v *= e.Abilities.OffensiveMult
	if dm := e.Abilities.DefensiveMult; dm > 1 {
		v *= 1 + (dm-1)*highDefenseDiscount
	}

	if e.IsCharacter() {
		v += characterBonus
	}
	if e.IsVehicle() || e.IsMonster() {
		v += bigTargetBonus
	}
	if e.BelowHalfStrength() {
		v += belowHalfBonus
	}
	if onObjective {
		v += onObjectiveBonus + ocBonusPerPoint*float64(e.Stats.OC)
	}

	for _, intent := range plan.ChargeIntents {
		if intent.TargetID == e.ID {
			v *= chargeTargetSuppress
			break
		}
	}

	v *= 0.8 + 0.4*sit.aggression
	return v + c.noise()
}

// weaponSlot is one assignable weapon in the allocation matrix.
type weaponSlot struct {
	shooterID string
	weapon    model.WeaponProfile
	damage    map[string]float64 // target id → expected damage
}

// BuildFirePlan runs the two-level focus-fire scheme: macro target values
// for every enemy, then iterative marginal-value assignment of each weapon
// to the target where its damage still buys the most.
func (c *Context) BuildFirePlan(snap *model.BattleSnapshot) *FirePlan {
	plan := c.ensurePlan(snap)
	sit := c.situationFor(snap)
	occupancy := objectiveOccupancy(snap)
	blockers := snap.BlockingTerrain()

	enemies := snap.EnemyUnits(c.Side)
	fp := &FirePlan{
		Round:        snap.Round,
		TargetValues: make(map[string]float64),
		Assignments:  make(map[string][]model.WeaponAssignment),
	}
	for _, e := range enemies {
		if e.OnTable() {
			fp.TargetValues[e.ID] = c.TargetValue(snap, e, plan, sit, occupancy[e.ID])
		}
	}

	// Build the weapon × target expected-damage matrix.
	var slots []weaponSlot
	shooters := snap.FriendlyUnits(c.Side)
	for _, u := range shooters {
		if !u.OnTable() || isEngaged(snap, u) {
			continue
		}
		pos := u.Position()
		for _, w := range u.RangedWeapons() {
			if w.Rules.OneShot && c.OneShotFired(u.ID, w.ID) {
				continue
			}
			slot := weaponSlot{shooterID: u.ID, weapon: w, damage: make(map[string]float64)}
			for _, e := range enemies {
				if !e.OnTable() {
					continue
				}
				dist := model.EdgeDistance(u, e)
				if dist > w.Range {
					continue
				}
				if geom.LineBlocked(pos, e.Position(), blockers) {
					continue
				}
				sitE := assess.Situation{Distance: dist, Cover: targetInCover(snap, e)}
				dmg := assess.ExpectedDamage(w, u, e, sitE) * assess.EfficiencyMult(w, e)
				if dmg > 0 {
					slot.damage[e.ID] = dmg
				}
			}
			if len(slot.damage) > 0 {
				slots = append(slots, slot)
			}
		}
	}

	// Iterative marginal-value assignment. Each pass commits exactly one
	// weapon, so this terminates in at most len(slots) iterations.
	allocated := make(map[string]float64)
	taken := make([]bool, len(slots))
	for range slots {
		bestIdx, bestTarget, bestValue := -1, "", 0.0
		for i := range slots {
			if taken[i] {
				continue
			}
			for _, targetID := range sortedKeys(slots[i].damage) {
				mv := marginalValue(snap, fp.TargetValues[targetID], targetID, slots[i].damage[targetID], allocated[targetID])
				if mv > bestValue {
					bestIdx, bestTarget, bestValue = i, targetID, mv
				}
			}
		}
		if bestIdx < 0 {
			break // nothing left with positive marginal value
		}
		taken[bestIdx] = true
		slot := slots[bestIdx]
		allocated[bestTarget] += slot.damage[bestTarget]
		fp.Assignments[slot.shooterID] = append(fp.Assignments[slot.shooterID], model.WeaponAssignment{
			WeaponID: slot.weapon.ID,
			TargetID: bestTarget,
		})
		if slot.weapon.Rules.OneShot {
			c.MarkOneShotFired(slot.shooterID, slot.weapon.ID)
		}
	}

	return fp
}

// marginalValue prices adding `damage` onto a target that already has
// `already` allocated: full rate up to the kill threshold, a bonus per
// model-kill boundary crossed, a discounted rate up to the overkill
// tolerance line, and nothing beyond it.
func marginalValue(snap *model.BattleSnapshot, targetValue float64, targetID string, damage, already float64) float64 {
	target := snap.Unit(targetID)
	if target == nil || damage <= 0 || targetValue <= 0 {
		return 0
	}
	threshold := float64(target.TotalWounds())
	if threshold <= 0 {
		return 0
	}
	perWound := targetValue / threshold
	tolLine := threshold * overkillTolerance

	after := already + damage
	full := math.Min(after, threshold) - math.Min(already, threshold)
	if full < 0 {
		full = 0
	}
	capped := math.Min(after, tolLine) - math.Max(math.Min(already, tolLine), threshold)
	if capped < 0 {
		capped = 0
	}

	value := full*perWound + capped*perWound*nearCapDiscount

	// Damage that finishes whole models is worth extra: wounds on a dead
	// model can't be healed back or split.
	wpm := float64(target.Stats.Wounds)
	if wpm > 0 {
		killsBefore := math.Floor(math.Min(already, threshold) / wpm)
		killsAfter := math.Floor(math.Min(after, threshold) / wpm)
		value += (killsAfter - killsBefore) * perWound * wpm * killBonusRate
	}
	return value
}

// targetInCover reports whether the unit's centroid sits inside any terrain
// footprint — the cheap cover approximation the host's own estimator uses.
func targetInCover(snap *model.BattleSnapshot, u *model.UnitView) bool {
	pos := u.Position()
	for _, t := range snap.Terrain {
		if t.Poly.Contains(pos) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
