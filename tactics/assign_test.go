package tactics

import (
	"testing"

	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// Every movable unit gets exactly one assignment, and the action vocabulary
// stays within what the movement handler can execute.
func TestAssignUnitsCompleteness(t *testing.T) {
	units := []*model.UnitView{
		buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}, points: 80}),
		buildUnit(unitSpec{id: "r2", side: "red", pos: geom.Point{X: 0, Y: 10}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}, points: 80, weapons: []model.WeaponProfile{bolter("b")}}),
		buildUnit(unitSpec{id: "r3", side: "red", pos: geom.Point{X: 0, Y: 20}, models: 3, stats: model.StatBlock{Move: 10, OC: 1}, points: 60}),
		buildUnit(unitSpec{id: "r4", side: "red", pos: geom.Point{X: 2, Y: 30}, models: 1, stats: model.StatBlock{Move: 6, OC: 2}, points: 200}),
	}
	enemy := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 40, Y: 10}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}, weapons: []model.WeaponProfile{bolter("b")}})
	all := append(append([]*model.UnitView{}, units...), enemy)
	snap := buildSnap(1, all...)
	snap.Objectives = []model.Objective{
		{ID: "home", Pos: geom.Point{X: 2, Y: 30}, Zone: "home"},
		{ID: "mid", Pos: geom.Point{X: 20, Y: 10}, Zone: "middle"},
	}

	c := NewContext("red", 4, nil)
	sit := c.situationFor(snap)
	tm := BuildThreatMap(snap, "red")
	plan := BuildPhasePlan(snap, "red")
	evals := EvaluateObjectives(snap, "red", sit)

	assignments := c.AssignUnits(snap, units, evals, tm, plan, sit)
	if len(assignments) != len(units) {
		t.Fatalf("got %d assignments for %d units", len(assignments), len(units))
	}
	allowed := map[string]bool{
		model.ActionHold: true, model.ActionMove: true,
		model.ActionAdvance: true, model.ActionScreen: true,
	}
	seen := map[string]bool{}
	for i, a := range assignments {
		if a.UnitID != units[i].ID {
			t.Errorf("assignment %d is for %s, want %s (input order preserved)", i, a.UnitID, units[i].ID)
		}
		if !allowed[a.Action] {
			t.Errorf("unit %s assigned unknown action %q", a.UnitID, a.Action)
		}
		if seen[a.UnitID] {
			t.Errorf("unit %s assigned twice", a.UnitID)
		}
		seen[a.UnitID] = true
	}
}

// A unit alone on a marker with the enemy pressing must hold it, not wander.
func TestAssignUnitsSoleHolderStays(t *testing.T) {
	holder := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}, points: 80})
	enemy := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 12, Y: 0}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}})
	snap := buildSnap(2, holder, enemy)
	snap.Objectives = []model.Objective{{ID: "alpha", Pos: geom.Point{X: 0, Y: 0}, Zone: "home"}}

	c := NewContext("red", 4, nil)
	sit := c.situationFor(snap)
	assignments := c.AssignUnits(snap, []*model.UnitView{holder},
		EvaluateObjectives(snap, "red", sit), BuildThreatMap(snap, "red"), BuildPhasePlan(snap, "red"), sit)

	if assignments[0].Action != model.ActionHold {
		t.Errorf("sole holder action = %q, want hold", assignments[0].Action)
	}
	if assignments[0].ObjectiveID != "alpha" {
		t.Errorf("sole holder objective = %q, want alpha", assignments[0].ObjectiveID)
	}
}

// An uncontrolled marker in reach pulls an unassigned unit toward it.
func TestAssignUnitsTakesUncontrolledMarker(t *testing.T) {
	taker := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 6}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}, points: 80})
	enemy := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 40, Y: 6}, models: 5})
	snap := buildSnap(1, taker, enemy)
	snap.Objectives = []model.Objective{{ID: "mid", Pos: geom.Point{X: 15, Y: 6}, Zone: "middle"}}

	c := NewContext("red", 4, nil)
	sit := c.situationFor(snap)
	assignments := c.AssignUnits(snap, []*model.UnitView{taker},
		EvaluateObjectives(snap, "red", sit), BuildThreatMap(snap, "red"), BuildPhasePlan(snap, "red"), sit)

	if assignments[0].ObjectiveID != "mid" {
		t.Errorf("objective = %q, want the uncontrolled mid marker", assignments[0].ObjectiveID)
	}
	if a := assignments[0].Action; a != model.ActionMove && a != model.ActionAdvance {
		t.Errorf("action = %q, want a move toward the marker", a)
	}
}

// The late-game survival weight deepens the danger-zone penalty, so the same
// risky approach scores worse than it does in the opening rounds.
func TestPairScoreSurvivalWeighting(t *testing.T) {
	unit := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}, points: 80})
	brute := grinder("b1", geom.Point{X: 16, Y: 0})
	snap := buildSnap(1, unit, brute)
	snap.Objectives = []model.Objective{{ID: "mid", Pos: geom.Point{X: 14, Y: 0}, Zone: "middle"}}

	c := NewContext("red", 4, nil)
	tm := BuildThreatMap(snap, "red")
	plan := BuildPhasePlan(snap, "red")
	sit := c.situationFor(snap)
	evals := EvaluateObjectives(snap, "red", sit)

	early := sit
	early.strategy.Survival = 0.4
	late := sit
	late.strategy.Survival = 1.0

	scoreEarly, _ := c.pairScore(snap, unit, &evals[0], tm, plan, early)
	scoreLate, _ := c.pairScore(snap, unit, &evals[0], tm, plan, late)
	if scoreLate >= scoreEarly {
		t.Errorf("late score %v not below early score %v for the same risky approach", scoreLate, scoreEarly)
	}
}

// Cheap leftover units screen the backfield while enemy reserves loom.
func TestAssignUnitsScreensAgainstReserves(t *testing.T) {
	holder := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}, points: 80})
	cheap := buildUnit(unitSpec{id: "r2", side: "red", pos: geom.Point{X: 5, Y: 5}, models: 5, stats: model.StatBlock{Move: 6, OC: 1}, points: 50})
	lurker := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 0, Y: 0}, models: 5, stats: model.StatBlock{Move: 6}})
	lurker.Status = model.StatusReserve
	enemy := buildUnit(unitSpec{id: "b2", side: "blue", pos: geom.Point{X: 40, Y: 0}, models: 5, stats: model.StatBlock{Move: 6, OC: 2}})
	snap := buildSnap(2, holder, cheap, lurker, enemy)
	snap.Objectives = []model.Objective{{ID: "home", Pos: geom.Point{X: 0, Y: 0}, Zone: "home"}}

	c := NewContext("red", 4, nil)
	sit := c.situationFor(snap)
	assignments := c.AssignUnits(snap, []*model.UnitView{holder, cheap},
		EvaluateObjectives(snap, "red", sit), BuildThreatMap(snap, "red"), BuildPhasePlan(snap, "red"), sit)

	var cheapAssign *Assignment
	for i := range assignments {
		if assignments[i].UnitID == "r2" {
			cheapAssign = &assignments[i]
		}
	}
	if cheapAssign == nil {
		t.Fatal("no assignment for r2")
	}
	if cheapAssign.Action != model.ActionScreen {
		t.Errorf("cheap leftover action = %q, want screen", cheapAssign.Action)
	}
}
