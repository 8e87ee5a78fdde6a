package tactics

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// advanceAverage is the average extra movement from an advance roll.
const advanceAverage = 3.5

// decideMovement resolves one movement-phase request: build the turn's
// phase plan, threat map, objective evaluations and assignments, then act
// for the most important unit that still has a legal move.
func (c *Context) decideMovement(snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	plan := c.ensurePlan(snap)
	tm := BuildThreatMap(snap, c.Side)
	sit := c.situationFor(snap)
	evals := EvaluateObjectives(snap, c.Side, sit)

	actors := movementActors(snap, legal)
	if len(actors) == 0 {
		return endPhaseOr(legal, "no units left to move")
	}

	assignments := c.AssignUnits(snap, actors, evals, tm, plan, sit)
	byUnit := make(map[string]*Assignment, len(assignments))
	for i := range assignments {
		byUnit[assignments[i].UnitID] = &assignments[i]
	}

	// Act for the highest-scoring assignment first; ties keep enumeration
	// order.
	var pick *model.UnitView
	var pickAssign *Assignment
	for _, u := range actors {
		a := byUnit[u.ID]
		if pickAssign == nil || a.Score > pickAssign.Score {
			pick, pickAssign = u, a
		}
	}

	if isEngaged(snap, pick) {
		return c.resolveEngaged(snap, pick, legal)
	}

	return c.moveUnit(snap, pick, pickAssign, tm, plan, legal)
}

// moveUnit turns an assignment into a concrete action with per-model
// destinations.
func (c *Context) moveUnit(snap *model.BattleSnapshot, u *model.UnitView, a *Assignment, tm *ThreatMap, plan *PhasePlan, legal []model.LegalAction) model.Action {
	pos := u.Position()
	move := float64(u.Stats.Move)
	kind := a.Action
	goal := a.Dest
	rationale := a.Rationale

	// A declared assault overrides the objective route: close the charge
	// distance and never advance (advancing forfeits the charge).
	if intent, ok := plan.ChargeIntents[u.ID]; ok {
		if target := snap.Unit(intent.TargetID); target != nil && target.Alive() {
			goal = target.Position()
			if kind == model.ActionAdvance {
				kind = model.ActionMove
			}
			if kind == model.ActionHold {
				kind = model.ActionMove
			}
			rationale = fmt.Sprintf("%s closes on %s for the charge", u.Name, target.Name)
		}
	}

	// Screens are plain moves to a screening spot as far as the host is
	// concerned; without a legal move the unit keeps its ground instead.
	if kind == model.ActionScreen {
		if model.FindLegal(legal, model.ActionMove, u.ID) != nil {
			kind = model.ActionMove
		} else {
			kind = model.ActionHold
			goal = pos
		}
	}

	if kind == model.ActionHold {
		if model.FindLegal(legal, model.ActionHold, u.ID) == nil {
			kind = model.ActionMove
			goal = pos
		} else {
			return model.Action{Kind: model.ActionHold, Actor: u.ID, Rationale: rationale}
		}
	}

	allowance := move
	if kind == model.ActionAdvance {
		if model.FindLegal(legal, model.ActionAdvance, u.ID) == nil {
			kind = model.ActionMove
		} else {
			allowance += advanceAverage
		}
	}
	dest := geom.Toward(pos, goal, allowance)
	if better, ok := tm.SaferPosition(snap, u, pos, goal, allowance); ok {
		dest = better
		rationale += " (adjusted for danger zones)"
	}

	dests := c.placeUnit(snap, u, dest)
	slog.Debug("movement decision",
		"unit", u.ID,
		"action", kind,
		"objective", a.ObjectiveID,
		"score", a.Score,
	)
	return model.Action{
		Kind:  kind,
		Actor: u.ID,
		Payload: model.Payload{
			ObjectiveID:  a.ObjectiveID,
			Destinations: dests,
		},
		Rationale: rationale,
	}
}

// placeUnit expands a destination point into per-model positions, nudging
// sideways when the formation would land on another base.
func (c *Context) placeUnit(snap *model.BattleSnapshot, u *model.UnitView, dest geom.Point) []geom.Point {
	radius := u.BaseRadius()
	occupied := snap.OccupiedBases(u.ID)
	for _, shift := range []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: -2, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: -2}, {X: 4, Y: 0}, {X: -4, Y: 0}} {
		pts := geom.Formation(dest.Add(shift), u.ModelCount(), radius)
		if geom.NoOverlap(pts, radius, occupied) {
			return pts
		}
	}
	// Everything nearby is packed; return the naive formation and let the
	// host's validator shift individual models.
	return geom.Formation(dest, u.ModelCount(), radius)
}

// movementActors returns the friendly units that still have a legal
// movement-phase action this call, in deterministic id order.
func movementActors(snap *model.BattleSnapshot, legal []model.LegalAction) []*model.UnitView {
	seen := make(map[string]bool)
	var out []*model.UnitView
	for _, la := range legal {
		switch la.Kind {
		case model.ActionMove, model.ActionAdvance, model.ActionHold, model.ActionFallBack:
		default:
			continue
		}
		if la.Actor == "" || seen[la.Actor] {
			continue
		}
		u := snap.Unit(la.Actor)
		if u == nil || !u.OnTable() {
			continue
		}
		seen[la.Actor] = true
		out = append(out, u)
	}
	sortByID(out)
	return out
}

func sortByID(units []*model.UnitView) {
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
}
