package tactics

import (
	"testing"

	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

func deploySnap(units ...*model.UnitView) *model.BattleSnapshot {
	snap := buildSnap(1, units...)
	snap.DeploymentZones = map[string]geom.Rect{
		"red":  {MinX: 0, MinY: 0, MaxX: 44, MaxY: 12},
		"blue": {MinX: 0, MinY: 48, MaxX: 44, MaxY: 60},
	}
	snap.Objectives = []model.Objective{
		{ID: "home", Pos: geom.Point{X: 22, Y: 6}, Zone: "home"},
		{ID: "mid", Pos: geom.Point{X: 22, Y: 30}, Zone: "middle"},
	}
	return snap
}

func TestDecideDeploymentPlacesInZone(t *testing.T) {
	squad := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5, stats: model.StatBlock{Move: 6}, weapons: []model.WeaponProfile{bolter("b")}, points: 80})
	squad.Status = model.StatusUndeployed
	enemy := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 22, Y: 55}, models: 5})
	snap := deploySnap(squad, enemy)

	c := NewContext("red", 4, nil)
	legal := legalFor(model.LegalAction{Kind: model.ActionDeploy, Actor: "r1"})
	act := c.Decide(model.PhaseDeployment, snap, legal)

	if act.Kind != model.ActionDeploy {
		t.Fatalf("kind = %q, want deploy", act.Kind)
	}
	if len(act.Payload.Destinations) != 5 {
		t.Fatalf("got %d destinations, want 5", len(act.Payload.Destinations))
	}
	zone := snap.DeploymentZones["red"]
	for _, p := range act.Payload.Destinations {
		if !zone.Contains(p) {
			t.Errorf("model placed at %v outside the deployment zone", p)
		}
	}
}

func TestDecideDeploymentReservesDeepStriker(t *testing.T) {
	striker := buildUnit(unitSpec{
		id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5,
		stats:   model.StatBlock{Move: 6},
		weapons: []model.WeaponProfile{chainsword("claws")},
		points:  120,
	})
	striker.Status = model.StatusUndeployed
	striker.Abilities.DeepStrike = true
	enemy := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 22, Y: 55}, models: 5})
	snap := deploySnap(striker, enemy)

	c := NewContext("red", 4, nil)
	legal := legalFor(
		model.LegalAction{Kind: model.ActionDeploy, Actor: "r1"},
		model.LegalAction{Kind: model.ActionReserve, Actor: "r1"},
	)
	act := c.Decide(model.PhaseDeployment, snap, legal)

	if act.Kind != model.ActionReserve {
		t.Errorf("kind = %q, want reserve for a deep-striking melee unit", act.Kind)
	}
}

func TestDecideDeploymentComplete(t *testing.T) {
	placed := buildUnit(unitSpec{id: "r1", side: "red", pos: geom.Point{X: 5, Y: 5}, models: 5})
	enemy := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 22, Y: 55}, models: 5})
	snap := deploySnap(placed, enemy)

	c := NewContext("red", 4, nil)
	act := c.Decide(model.PhaseDeployment, snap, legalFor())
	if act.Kind != model.ActionEndPhase {
		t.Errorf("kind = %q, want end_phase with nothing to deploy", act.Kind)
	}
}
