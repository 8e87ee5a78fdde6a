package tactics

import (
	"fmt"
	"math"
	"sort"

	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// Assignment is one movable unit's job for the movement phase. Scores are
// recomputed from live state every decision and never persisted.
type Assignment struct {
	UnitID      string
	ObjectiveID string
	Action      string // hold, move, advance, or screen
	Score       float64
	Rationale   string
	Distance    float64
	Dest        geom.Point
}

// Assigner tuning.
const (
	ocEfficiencyCap      = 1.5
	reachNowBonus        = 4.0
	reachNextBonus       = 1.5
	farDistancePenalty   = 0.05
	threatDeltaWeight    = 0.4
	chargeAlignBonus     = 2.0
	laneKeepBonus        = 1.5
	objectiveSaturation  = 2 // extra OC beyond the flip requirement before a marker stops drawing units

	expendableMaxPoints = 90
	valuableMinPoints   = 150
	screenStandoff      = 4.0
	minScreenSpacing    = 4.0
	corridorFraction    = 0.55
	maxCorridorBlockers = 2
	denialRingRadius    = 6.0
)

// AssignUnits produces exactly one assignment per movable unit using the
// three-pass greedy scheme: lock in holders that are still needed, send the
// rest to the highest-need markers by score, then route leftover expendable
// units to screening and blocking jobs. Ties break toward the
// earlier-enumerated unit (stable sort), which determinism tests rely on.
func (c *Context) AssignUnits(snap *model.BattleSnapshot, movable []*model.UnitView, evals []ObjectiveEvaluation, tm *ThreatMap, plan *PhasePlan, sit situation) []Assignment {
	assigned := make(map[string]*Assignment)
	assignedOC := make(map[string]int) // objective id → OC routed there this phase

	// Pass 1: units already on a marker stay when the marker still needs
	// them or they are its only holder.
	for _, u := range movable {
		for i := range evals {
			ev := &evals[i]
			if !unitControls(u, ev.Objective) {
				continue
			}
			needed := ev.FriendlyOC-u.Stats.OC <= ev.EnemyOC
			sole := soleHolder(snap, u, ev.Objective)
			if needed || sole {
				assigned[u.ID] = &Assignment{
					UnitID:      u.ID,
					ObjectiveID: ev.Objective.ID,
					Action:      model.ActionHold,
					Score:       ev.Priority,
					Rationale:   fmt.Sprintf("holding %s (%s)", ev.Objective.ID, ev.State),
					Dest:        u.Position(),
				}
				assignedOC[ev.Objective.ID] += u.Stats.OC
			}
			break // a unit contests at most one marker for assignment purposes
		}
	}

	// Pass 2: score every remaining (unit, objective) pair and assign
	// greedily by descending score.
	type candidate struct {
		unit  *model.UnitView
		eval  *ObjectiveEvaluation
		score float64
		dist  float64
	}
	var cands []candidate
	for _, u := range movable {
		if assigned[u.ID] != nil {
			continue
		}
		for i := range evals {
			ev := &evals[i]
			score, dist := c.pairScore(snap, u, ev, tm, plan, sit)
			cands = append(cands, candidate{unit: u, eval: ev, score: score, dist: dist})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	for _, cand := range cands {
		if assigned[cand.unit.ID] != nil {
			continue
		}
		need := cand.eval.OCToFlip + objectiveSaturation
		if assignedOC[cand.eval.Objective.ID] >= need && cand.eval.State != StateUncontrolled {
			continue
		}
		action := model.ActionMove
		if cand.dist > float64(cand.unit.Stats.Move)+ControlRadius && sit.strategy.Aggression >= 0.7 {
			if _, hasLane := plan.ShootingLanes[cand.unit.ID]; !hasLane {
				action = model.ActionAdvance
			}
		}
		assigned[cand.unit.ID] = &Assignment{
			UnitID:      cand.unit.ID,
			ObjectiveID: cand.eval.Objective.ID,
			Action:      action,
			Score:       cand.score,
			Rationale:   fmt.Sprintf("taking %s (%s, need %d OC)", cand.eval.Objective.ID, cand.eval.State, cand.eval.OCToFlip),
			Distance:    cand.dist,
			Dest:        cand.eval.Objective.Pos,
		}
		assignedOC[cand.eval.Objective.ID] += cand.unit.Stats.OC
	}

	// Pass 3: leftover units become screens, blockers, or supports.
	var screenSpots []geom.Point
	blockers := 0
	for _, u := range movable {
		if assigned[u.ID] != nil {
			continue
		}
		if a := c.screeningAssignment(snap, u, evals, movable, assigned, &screenSpots, &blockers); a != nil {
			assigned[u.ID] = a
			continue
		}
		assigned[u.ID] = supportAssignment(u, evals)
	}

	out := make([]Assignment, 0, len(movable))
	for _, u := range movable {
		out = append(out, *assigned[u.ID])
	}
	return out
}

// pairScore rates sending one unit at one marker: base priority, OC
// efficiency against what the marker still needs, reachability, the change
// in danger-zone exposure (weighted up as the round strategy shifts toward
// survival), and alignment with the phase plan.
func (c *Context) pairScore(snap *model.BattleSnapshot, u *model.UnitView, ev *ObjectiveEvaluation, tm *ThreatMap, plan *PhasePlan, sit situation) (float64, float64) {
	pos := u.Position()
	dist := geom.Dist(pos, ev.Objective.Pos)
	move := float64(u.Stats.Move)

	score := ev.Priority

	need := ev.OCToFlip
	if need < 1 {
		need = 1
	}
	eff := float64(u.Stats.OC) / float64(need)
	if eff > ocEfficiencyCap {
		eff = ocEfficiencyCap
	}
	score += eff * 2

	switch {
	case dist-ControlRadius <= move:
		score += reachNowBonus
	case dist-ControlRadius <= 2*move+6:
		score += reachNextBonus
	default:
		score -= dist * farDistancePenalty
	}

	dest := geom.Toward(pos, ev.Objective.Pos, move)
	delta := tm.PositionThreat(dest, u) - tm.PositionThreat(pos, u)
	if delta > 0 {
		score -= delta * threatDeltaWeight * (0.5 + c.Doctrine.RiskAversion) * sit.strategy.Survival
	}

	if intent, ok := plan.ChargeIntents[u.ID]; ok {
		if target := snap.Unit(intent.TargetID); target != nil && target.Alive() {
			tp := target.Position()
			if geom.Dist(ev.Objective.Pos, tp) < geom.Dist(pos, tp) {
				score += chargeAlignBonus
			}
		}
	}
	if lane, ok := plan.ShootingLanes[u.ID]; ok {
		for _, targetID := range lane {
			if target := snap.Unit(targetID); target != nil && target.Alive() {
				if geom.Dist(dest, target.Position()) <= u.MaxWeaponRange() {
					score += laneKeepBonus
					break
				}
			}
		}
	}

	return score + c.noise(), dist
}

// soleHolder reports whether u is the only friendly unit contesting the
// marker.
func soleHolder(snap *model.BattleSnapshot, u *model.UnitView, obj model.Objective) bool {
	for _, other := range snap.FriendlyUnits(u.Side) {
		if other.ID != u.ID && other.OnTable() && unitControls(other, obj) {
			return false
		}
	}
	return true
}

// screeningAssignment routes an expendable unit to the most pressing
// screening job: deep-strike denial around home markers, bodyguarding a
// valuable friendly, or corridor blocking between a contested marker and the
// enemy pushing at it.
func (c *Context) screeningAssignment(snap *model.BattleSnapshot, u *model.UnitView, evals []ObjectiveEvaluation, movable []*model.UnitView, assigned map[string]*Assignment, screenSpots *[]geom.Point, blockers *int) *Assignment {
	if u.Points > expendableMaxPoints || u.IsCharacter() {
		return nil
	}

	// Deep-strike denial: fill the widest backfield gap near home markers.
	if snap.EnemyReservesExist(u.Side) {
		if spot, ok := denialSpot(snap, u, evals, *screenSpots); ok {
			*screenSpots = append(*screenSpots, spot)
			return &Assignment{
				UnitID:    u.ID,
				Action:    model.ActionScreen,
				Score:     8,
				Rationale: "screening backfield against reserves",
				Distance:  geom.Dist(u.Position(), spot),
				Dest:      spot,
			}
		}
	}

	// Bodyguard the most valuable unscreened friendly.
	if ward := valuableFriendly(snap, u); ward != nil {
		enemy := nearestEnemy(snap, u.Side, ward.Position())
		if enemy != nil {
			spot := geom.Toward(ward.Position(), enemy.Position(), screenStandoff)
			if spacedFrom(spot, *screenSpots, minScreenSpacing) {
				*screenSpots = append(*screenSpots, spot)
				return &Assignment{
					UnitID:    u.ID,
					Action:    model.ActionScreen,
					Score:     7,
					Rationale: fmt.Sprintf("screening %s", ward.Name),
					Distance:  geom.Dist(u.Position(), spot),
					Dest:      spot,
				}
			}
		}
	}

	// Corridor blocking: stand in the lane between a contested marker and
	// the nearest enemy bearing down on it.
	if *blockers < maxCorridorBlockers {
		for i := range evals {
			ev := &evals[i]
			if ev.State != StateContested && ev.State != StateEnemyWeak {
				continue
			}
			enemy := nearestEnemy(snap, u.Side, ev.Objective.Pos)
			if enemy == nil {
				continue
			}
			spot := geom.Lerp(ev.Objective.Pos, enemy.Position(), corridorFraction)
			if !spacedFrom(spot, *screenSpots, minScreenSpacing) {
				continue
			}
			*screenSpots = append(*screenSpots, spot)
			*blockers++
			return &Assignment{
				UnitID:      u.ID,
				ObjectiveID: ev.Objective.ID,
				Action:      model.ActionScreen,
				Score:       6,
				Rationale:   fmt.Sprintf("blocking the approach to %s", ev.Objective.ID),
				Distance:    geom.Dist(u.Position(), spot),
				Dest:        spot,
			}
		}
	}

	return nil
}

// supportAssignment is the fallback: move toward the nearest marker, or hold
// when there are none.
func supportAssignment(u *model.UnitView, evals []ObjectiveEvaluation) *Assignment {
	pos := u.Position()
	bestIdx := -1
	bestDist := 0.0
	for i := range evals {
		d := geom.Dist(pos, evals[i].Objective.Pos)
		if bestIdx < 0 || d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx < 0 {
		return &Assignment{
			UnitID:    u.ID,
			Action:    model.ActionHold,
			Rationale: "no objectives to support",
			Dest:      pos,
		}
	}
	ev := evals[bestIdx]
	return &Assignment{
		UnitID:      u.ID,
		ObjectiveID: ev.Objective.ID,
		Action:      model.ActionMove,
		Score:       ev.Priority * 0.5,
		Rationale:   fmt.Sprintf("supporting %s", ev.Objective.ID),
		Distance:    bestDist,
		Dest:        ev.Objective.Pos,
	}
}

// denialSpot samples a ring around each home marker and picks the sampled
// point farthest from any friendly unit — the widest gap a reserve unit
// could drop into.
func denialSpot(snap *model.BattleSnapshot, u *model.UnitView, evals []ObjectiveEvaluation, taken []geom.Point) (geom.Point, bool) {
	friends := snap.FriendlyUnits(u.Side)
	var best geom.Point
	bestGap := 0.0
	found := false
	for i := range evals {
		if evals[i].Objective.Zone != "home" {
			continue
		}
		center := evals[i].Objective.Pos
		for _, spot := range ringPoints(center, denialRingRadius, 8) {
			if !spacedFrom(spot, taken, minScreenSpacing) {
				continue
			}
			gap := nearestFriendlyDist(friends, u.ID, spot)
			if gap > bestGap {
				best, bestGap, found = spot, gap, true
			}
		}
	}
	// A gap smaller than the screen spacing is already covered.
	if !found || bestGap < minScreenSpacing {
		return geom.Point{}, false
	}
	return best, true
}

func ringPoints(center geom.Point, radius float64, n int) []geom.Point {
	out := make([]geom.Point, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, center.Add(geom.Point{X: radius, Y: 0}.Rotate(2*math.Pi*float64(i)/float64(n))))
	}
	return out
}

// spacedFrom reports whether p keeps the minimum spacing from every point
// already claimed by another screen.
func spacedFrom(p geom.Point, taken []geom.Point, spacing float64) bool {
	for _, t := range taken {
		if geom.Dist(p, t) < spacing {
			return false
		}
	}
	return true
}

func nearestFriendlyDist(friends []*model.UnitView, excludeID string, p geom.Point) float64 {
	best := 1e9
	for _, f := range friends {
		if f.ID == excludeID || !f.OnTable() {
			continue
		}
		if d := geom.Dist(f.Position(), p); d < best {
			best = d
		}
	}
	return best
}

func valuableFriendly(snap *model.BattleSnapshot, screener *model.UnitView) *model.UnitView {
	var best *model.UnitView
	for _, f := range snap.FriendlyUnits(screener.Side) {
		if f.ID == screener.ID || !f.OnTable() || f.Points < valuableMinPoints {
			continue
		}
		if best == nil || f.Points > best.Points {
			best = f
		}
	}
	return best
}

func nearestEnemy(snap *model.BattleSnapshot, side string, p geom.Point) *model.UnitView {
	var best *model.UnitView
	bestDist := 0.0
	for _, e := range snap.EnemyUnits(side) {
		if !e.OnTable() {
			continue
		}
		d := geom.Dist(e.Position(), p)
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}
