package tactics

import (
	"testing"

	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

func TestClassifyObjective(t *testing.T) {
	holder := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, stats: model.StatBlock{OC: 2}})
	raider := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 30, Y: 0}, stats: model.StatBlock{OC: 2}})
	snap := buildSnap(1, holder, raider)

	obj := model.Objective{ID: "alpha", Pos: geom.Point{X: 0, Y: 0}}
	tests := []struct {
		name             string
		friendly, enemy  int
		want             ObjectiveState
	}{
		{"uncontrolled", 0, 0, StateUncontrolled},
		{"contested", 2, 2, StateContested},
		{"held safe when no one near", 3, 0, StateHeldSafe},
		{"enemy weak", 0, 2, StateEnemyWeak},
		{"enemy strong", 0, 6, StateEnemyStrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyObjective(snap, obj, "red", tt.friendly, tt.enemy); got != tt.want {
				t.Errorf("classifyObjective(%d, %d) = %v, want %v", tt.friendly, tt.enemy, got, tt.want)
			}
		})
	}
}

func TestHeldThreatenedNeedsEnemyNearby(t *testing.T) {
	holder := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, stats: model.StatBlock{OC: 2}})
	raider := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 6, Y: 0}, stats: model.StatBlock{OC: 2}})
	snap := buildSnap(1, holder, raider)
	obj := model.Objective{ID: "alpha", Pos: geom.Point{X: 0, Y: 0}}

	if got := classifyObjective(snap, obj, "red", 2, 0); got != StateHeldThreatened {
		t.Errorf("objective with enemy 6 inches out = %v, want held-threatened", got)
	}
}

func TestObjectiveOCIgnoresBattleShocked(t *testing.T) {
	holder := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, stats: model.StatBlock{OC: 2}})
	snap := buildSnap(1, holder)
	obj := model.Objective{ID: "alpha", Pos: geom.Point{X: 0, Y: 0}}

	if got := objectiveOC(snap, obj, "red"); got != 2 {
		t.Fatalf("objectiveOC = %d, want 2", got)
	}
	holder.BattleShocked = true
	if got := objectiveOC(snap, obj, "red"); got != 0 {
		t.Errorf("battle-shocked objectiveOC = %d, want 0", got)
	}
}

// An open midfield marker in the early game must outrank everything a unit
// could do instead, so the engine races for it.
func TestUncontrolledMidfieldPriority(t *testing.T) {
	runner := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, stats: model.StatBlock{Move: 6, OC: 2}})
	enemy := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 40, Y: 0}})
	snap := buildSnap(1, runner, enemy)
	snap.Objectives = []model.Objective{{ID: "mid", Pos: geom.Point{X: 20, Y: 0}, Zone: "middle"}}

	c := NewContext("red", 4, nil)
	sit := c.situationFor(snap)
	evals := EvaluateObjectives(snap, "red", sit)
	if len(evals) != 1 {
		t.Fatalf("got %d evaluations, want 1", len(evals))
	}
	if evals[0].State != StateUncontrolled {
		t.Fatalf("state = %v, want uncontrolled", evals[0].State)
	}
	if evals[0].Priority < 15 {
		t.Errorf("open midfield priority = %v, want at least 15", evals[0].Priority)
	}
	if evals[0].OCToFlip != 1 {
		t.Errorf("OCToFlip = %d, want 1 for an empty marker", evals[0].OCToFlip)
	}
}

func TestOCToFlip(t *testing.T) {
	holder := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 0, Y: 0}, stats: model.StatBlock{OC: 3}})
	runner := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 30, Y: 0}, stats: model.StatBlock{OC: 2}})
	snap := buildSnap(2, holder, runner)
	snap.Objectives = []model.Objective{{ID: "alpha", Pos: geom.Point{X: 0, Y: 0}, Zone: "middle"}}

	c := NewContext("red", 4, nil)
	evals := EvaluateObjectives(snap, "red", c.situationFor(snap))
	if evals[0].OCToFlip != 4 {
		t.Errorf("OCToFlip = %d, want 4 (beat 3 enemy OC)", evals[0].OCToFlip)
	}
}
