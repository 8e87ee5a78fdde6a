package tactics

import (
	"fmt"

	"github.com/arquen/warmind/assess"
	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// EngagedState describes an engaged unit's relationship to the nearest
// objective.
type EngagedState int

const (
	EngagedOffObjective EngagedState = iota
	EngagedWinning                   // on a marker, friendly OC ≥ enemy OC there
	EngagedSoleHolder                // losing the OC count but nobody else holds it
	EngagedBackedUp                  // losing the OC count with friendly backup present
)

// Survival classifies a unit's odds against the melee it is stuck in.
type Survival int

const (
	SurvivalSafe Survival = iota
	SurvivalSevere
	SurvivalLethal
)

const severeDamageFraction = 0.6

// AssessSurvival compares the estimated incoming melee damage from every
// engaging enemy against the unit's remaining wounds.
func AssessSurvival(snap *model.BattleSnapshot, u *model.UnitView) Survival {
	incoming := 0.0
	for _, e := range engagingEnemies(snap, u) {
		incoming += assess.EstimateMeleeDamage(e, u)
	}
	wounds := float64(u.TotalWounds())
	switch {
	case incoming >= wounds:
		return SurvivalLethal
	case incoming >= wounds*severeDamageFraction:
		return SurvivalSevere
	default:
		return SurvivalSafe
	}
}

// classifyEngaged determines the engaged unit's objective situation.
func classifyEngaged(snap *model.BattleSnapshot, u *model.UnitView) (EngagedState, *model.Objective) {
	for i := range snap.Objectives {
		obj := snap.Objectives[i]
		if !unitControls(u, obj) {
			continue
		}
		friendly := objectiveOC(snap, obj, u.Side)
		enemy := enemyObjectiveOC(snap, obj, u.Side)
		switch {
		case friendly >= enemy:
			return EngagedWinning, &obj
		case soleHolder(snap, u, obj):
			return EngagedSoleHolder, &obj
		default:
			return EngagedBackedUp, &obj
		}
	}
	return EngagedOffObjective, nil
}

// shouldFallBack applies the hold/fall-back transition rule: hold while
// winning or tied on the marker, unless the melee is lethal and the marker
// survives losing this unit's OC; never hand the enemy a marker with no
// other holder; off-objective units leave when the fight looks bad; the
// fall-back-mitigating abilities tilt the call toward leaving.
func shouldFallBack(snap *model.BattleSnapshot, u *model.UnitView, state EngagedState, obj *model.Objective, survival Survival) (bool, string) {
	mitigated := u.Abilities.FallBackAndShoot || u.Abilities.FallBackAndCharge

	switch state {
	case EngagedWinning:
		if survival == SurvivalLethal && obj != nil {
			friendly := objectiveOC(snap, *obj, u.Side)
			enemy := enemyObjectiveOC(snap, *obj, u.Side)
			if friendly-u.Stats.OC >= enemy {
				return true, "melee is lethal and the marker holds without us"
			}
		}
		if mitigated && survival != SurvivalSafe {
			friendly := objectiveOC(snap, *obj, u.Side)
			enemy := enemyObjectiveOC(snap, *obj, u.Side)
			if friendly-u.Stats.OC >= enemy {
				return true, "fall-back ability keeps the marker and frees the unit"
			}
		}
		return false, "winning the marker"
	case EngagedSoleHolder:
		// Abandoning the only claim hands the marker over.
		return false, "sole holder; the marker falls if we leave"
	case EngagedBackedUp:
		if survival == SurvivalLethal {
			return true, "melee is lethal and backup holds the marker"
		}
		if mitigated && survival == SurvivalSevere {
			return true, "taking heavy losses and fall-back is mitigated"
		}
		return false, "backup present; holding the line"
	default: // off objective
		if survival != SurvivalSafe {
			return true, "no marker to hold and the melee is going badly"
		}
		if mitigated {
			return true, "free to disengage without penalty"
		}
		return false, "melee is survivable"
	}
}

// Fall-back search parameters: eleven directions tried at decreasing move
// fractions until every model lands clear of all engagement ranges.
var fallbackFractions = []float64{1.0, 0.75, 0.5, 0.25}

// fallBackDestinations finds per-model retreat positions: pick a retreat
// target (nearest friendly or uncontrolled marker, preferring directions
// away from the engaging enemies' centroid), then try the fallback
// directions at decreasing move fractions until a formation places every
// model strictly outside every enemy's engagement range without crossing
// terrain or overlapping another base.
func fallBackDestinations(snap *model.BattleSnapshot, u *model.UnitView) ([]geom.Point, bool) {
	enemies := engagingEnemies(snap, u)
	if len(enemies) == 0 {
		return nil, false
	}
	var enemyPts []geom.Point
	for _, e := range enemies {
		enemyPts = append(enemyPts, e.LivingPositions()...)
	}
	threatCentroid := geom.Centroid(enemyPts)
	pos := u.Position()
	away := pos.Sub(threatCentroid).Norm()

	prefer := retreatDirection(snap, u, pos, away)
	move := float64(u.Stats.Move)
	radius := u.BaseRadius()
	blocked := snap.ImpassableFor(u)
	occupied := snap.OccupiedBases(u.ID)

	var enemyBases []geom.Circle
	for _, e := range snap.EnemyUnits(u.Side) {
		if !e.OnTable() {
			continue
		}
		for _, m := range e.Models {
			if m.Alive {
				enemyBases = append(enemyBases, geom.Circle{C: m.Pos, R: m.BaseRadius})
			}
		}
	}

	for _, dir := range geom.FallbackDirections(prefer) {
		for _, frac := range fallbackFractions {
			center := pos.Add(dir.Scale(move * frac))
			pts := geom.Formation(center, u.ModelCount(), radius)
			if !geom.ClearOfAll(pts, radius, enemyBases, model.EngagementRange) {
				continue
			}
			if pathCrossesAny(pos, center, blocked) {
				continue
			}
			if !geom.NoOverlap(pts, radius, occupied) {
				continue
			}
			return pts, true
		}
	}
	return nil, false
}

// retreatDirection prefers heading for the nearest friendly-or-uncontrolled
// marker whose direction roughly agrees with "away from the enemy"; with no
// such marker it retreats straight away.
func retreatDirection(snap *model.BattleSnapshot, u *model.UnitView, pos, away geom.Point) geom.Point {
	var best geom.Point
	bestScore := 0.0
	found := false
	for _, obj := range snap.Objectives {
		enemy := enemyObjectiveOC(snap, obj, u.Side)
		friendly := objectiveOC(snap, obj, u.Side)
		if enemy > friendly {
			continue // retreating into an enemy-held marker trades one melee for another
		}
		dir := obj.Pos.Sub(pos).Norm()
		align := dir.Dot(away)
		score := align*10 - geom.Dist(pos, obj.Pos)*0.1
		if !found || score > bestScore {
			best, bestScore, found = dir, score, true
		}
	}
	if !found {
		return away
	}
	return best
}

// resolveEngaged returns the movement-phase action for an engaged unit:
// hold, or fall back with per-model destinations.
func (c *Context) resolveEngaged(snap *model.BattleSnapshot, u *model.UnitView, legal []model.LegalAction) model.Action {
	state, obj := classifyEngaged(snap, u)
	survival := AssessSurvival(snap, u)
	fall, why := shouldFallBack(snap, u, state, obj, survival)

	if fall {
		if model.FindLegal(legal, model.ActionFallBack, u.ID) != nil {
			if dests, ok := fallBackDestinations(snap, u); ok {
				return model.Action{
					Kind:      model.ActionFallBack,
					Actor:     u.ID,
					Payload:   model.Payload{Destinations: dests},
					Rationale: fmt.Sprintf("%s falls back: %s", u.Name, why),
				}
			}
			// No clean exit: every direction stays engaged or collides.
			why = "no disengagement route; holding instead"
		}
	}
	return model.Action{
		Kind:      model.ActionHold,
		Actor:     u.ID,
		Rationale: fmt.Sprintf("%s holds: %s", u.Name, why),
	}
}
