package tactics

import (
	"fmt"
	"sort"

	"github.com/arquen/warmind/assess"
	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

const deepStrikeShortRange = 12.0

// decideDeployment places one unit per call: objective sitters on the home
// markers, melee units on the zone edge nearest the enemy, shooters at the
// back with lanes toward midfield. Deep-strike units whose weapons want to
// be close start in reserve instead.
func (c *Context) decideDeployment(snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	actors := deploymentActors(snap, legal)
	if len(actors) == 0 {
		return endPhaseOr(legal, "deployment complete")
	}
	u := actors[0]

	if model.FindLegal(legal, model.ActionReserve, u.ID) != nil && wantsReserve(u) {
		return model.Action{
			Kind:      model.ActionReserve,
			Actor:     u.ID,
			Rationale: fmt.Sprintf("%s held in reserve for a deep strike", u.Name),
		}
	}
	if model.FindLegal(legal, model.ActionDeploy, u.ID) == nil {
		return endPhaseOr(legal, "no deployable units")
	}

	zone, ok := snap.DeploymentZones[c.Side]
	if !ok {
		return endPhaseOr(legal, "no deployment zone for side")
	}
	anchor := deployAnchor(snap, u, zone)
	dests := c.deployFormation(snap, u, anchor, zone)

	return model.Action{
		Kind:      model.ActionDeploy,
		Actor:     u.ID,
		Payload:   model.Payload{Destinations: dests},
		Rationale: fmt.Sprintf("%s deploys as %s", u.Name, deployRole(snap, u, zone)),
	}
}

// wantsReserve: deep strikers whose output only matters up close gain more
// from arriving late than from walking the table.
func wantsReserve(u *model.UnitView) bool {
	if !u.Abilities.DeepStrike {
		return false
	}
	if assess.MeleeOutputScore(u) > assess.RangedOutputScore(u) {
		return true
	}
	return u.MaxWeaponRange() > 0 && u.MaxWeaponRange() <= deepStrikeShortRange
}

// deployRole classifies a unit for placement.
func deployRole(snap *model.BattleSnapshot, u *model.UnitView, zone geom.Rect) string {
	if homeObjective(snap, zone) != nil && u.Stats.OC >= 2 && assess.RangedOutputScore(u) < 4 {
		return "objective holder"
	}
	if assess.MeleeOutputScore(u) > assess.RangedOutputScore(u) {
		return "assault element"
	}
	return "fire support"
}

// deployAnchor picks the formation center for a unit by role: holders on the
// home marker, assault elements on the forward edge, fire support deep in
// the zone facing midfield.
func deployAnchor(snap *model.BattleSnapshot, u *model.UnitView, zone geom.Rect) geom.Point {
	center := boardCenter(snap)
	switch deployRole(snap, u, zone) {
	case "objective holder":
		return zone.Clamp(homeObjective(snap, zone).Pos)
	case "assault element":
		// Clamping the board center into the rect lands on the forward edge.
		return zone.Clamp(center)
	default:
		back := zone.Center().Add(zone.Center().Sub(center))
		return zone.Clamp(back)
	}
}

// homeObjective returns the objective inside the deployment zone, or nil.
func homeObjective(snap *model.BattleSnapshot, zone geom.Rect) *model.Objective {
	for i := range snap.Objectives {
		if zone.Contains(snap.Objectives[i].Pos) {
			return &snap.Objectives[i]
		}
	}
	return nil
}

// boardCenter approximates the fight's center of gravity from the objective
// layout, falling back to the midpoint of the deployment zones.
func boardCenter(snap *model.BattleSnapshot) geom.Point {
	if len(snap.Objectives) > 0 {
		pts := make([]geom.Point, 0, len(snap.Objectives))
		for _, o := range snap.Objectives {
			pts = append(pts, o.Pos)
		}
		return geom.Centroid(pts)
	}
	var pts []geom.Point
	for _, z := range snap.DeploymentZones {
		pts = append(pts, z.Center())
	}
	return geom.Centroid(pts)
}

// deployFormation expands the anchor into per-model positions inside the
// zone, nudging laterally when another unit already sits there.
func (c *Context) deployFormation(snap *model.BattleSnapshot, u *model.UnitView, anchor geom.Point, zone geom.Rect) []geom.Point {
	radius := u.BaseRadius()
	occupied := snap.OccupiedBases(u.ID)
	for _, shift := range []geom.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: -3, Y: 0}, {X: 6, Y: 0}, {X: -6, Y: 0}, {X: 0, Y: 3}, {X: 0, Y: -3}, {X: 9, Y: 0}, {X: -9, Y: 0}} {
		center := zone.Clamp(anchor.Add(shift))
		pts := geom.Formation(center, u.ModelCount(), radius)
		if !allInside(pts, zone) {
			continue
		}
		if geom.NoOverlap(pts, radius, occupied) {
			return pts
		}
	}
	return geom.Formation(anchor, u.ModelCount(), radius)
}

func allInside(pts []geom.Point, zone geom.Rect) bool {
	for _, p := range pts {
		if !zone.Contains(p) {
			return false
		}
	}
	return true
}

// deploymentActors lists the undeployed units that may act this call, in id
// order so placement is reproducible.
func deploymentActors(snap *model.BattleSnapshot, legal []model.LegalAction) []*model.UnitView {
	seen := make(map[string]bool)
	var out []*model.UnitView
	for _, la := range legal {
		if la.Kind != model.ActionDeploy && la.Kind != model.ActionReserve {
			continue
		}
		if la.Actor == "" || seen[la.Actor] {
			continue
		}
		u := snap.Unit(la.Actor)
		if u == nil || !u.Alive() {
			continue
		}
		seen[la.Actor] = true
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
