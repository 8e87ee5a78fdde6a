package tactics

import (
	"testing"

	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

func TestDecideChargeDeclaresGoodCharge(t *testing.T) {
	assault := buildUnit(unitSpec{
		id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5,
		stats:   model.StatBlock{Move: 6},
		weapons: []model.WeaponProfile{chainsword("swords")},
		points:  90,
	})
	prey := buildUnit(unitSpec{
		id: "b1", side: "blue", pos: geom.Point{X: 10, Y: 0}, models: 5,
		stats:  model.StatBlock{Toughness: 4, Save: 4, Wounds: 2},
		points: 100,
	})
	snap := buildSnap(2, assault, prey)

	c := NewContext("red", 4, nil)
	legal := legalFor(model.LegalAction{Kind: model.ActionCharge, Actor: "r1", Targets: []string{"b1"}})
	act := c.Decide(model.PhaseCharge, snap, legal)

	if act.Kind != model.ActionCharge {
		t.Fatalf("kind = %q, want charge", act.Kind)
	}
	if act.Actor != "r1" || act.Payload.TargetID != "b1" {
		t.Errorf("charge %s -> %s, want r1 -> b1", act.Actor, act.Payload.TargetID)
	}
}

func TestDecideChargeSkipsHopelessDistance(t *testing.T) {
	assault := buildUnit(unitSpec{
		id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5,
		stats:   model.StatBlock{Move: 6},
		weapons: []model.WeaponProfile{chainsword("swords")},
	})
	prey := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 40, Y: 0}, models: 5})
	snap := buildSnap(2, assault, prey)

	c := NewContext("red", 4, nil)
	legal := legalFor(model.LegalAction{Kind: model.ActionCharge, Actor: "r1", Targets: []string{"b1"}})
	act := c.Decide(model.PhaseCharge, snap, legal)

	if act.Kind != model.ActionEndPhase {
		t.Errorf("kind = %q, want end_phase for a 35-inch charge", act.Kind)
	}
}

func TestDecideChargeSkipsWorthlessFight(t *testing.T) {
	// Bare fists into a fortress monster: reachable, but not worth declaring.
	chaff := buildUnit(unitSpec{
		id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 2,
		stats: model.StatBlock{Move: 6, Toughness: 3, Wounds: 1},
		weapons: []model.WeaponProfile{{
			ID: "fists", Kind: model.WeaponMelee,
			Attacks: "2", Skill: 5, Strength: 3, AP: 0, Damage: "1",
		}},
		points: 40,
	})
	fortress := buildUnit(unitSpec{
		id: "b1", side: "blue", pos: geom.Point{X: 7, Y: 0}, models: 1,
		stats:  model.StatBlock{Move: 8, Toughness: 12, Save: 2, Wounds: 16},
		points: 300,
	})
	fortress.Keywords = []string{"Vehicle"}
	snap := buildSnap(2, chaff, fortress)

	c := NewContext("red", 4, nil)
	legal := legalFor(model.LegalAction{Kind: model.ActionCharge, Actor: "r1", Targets: []string{"b1"}})
	act := c.Decide(model.PhaseCharge, snap, legal)

	if act.Kind != model.ActionEndPhase {
		t.Errorf("kind = %q, want end_phase for a worthless charge", act.Kind)
	}
}

func TestDecideFightPicksEngagedTarget(t *testing.T) {
	brawler := buildUnit(unitSpec{
		id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5,
		stats:   model.StatBlock{Move: 6},
		weapons: []model.WeaponProfile{chainsword("swords")},
	})
	locked := buildUnit(unitSpec{
		id: "b1", side: "blue", pos: geom.Point{X: 5.5, Y: 0}, models: 5,
		stats:  model.StatBlock{Toughness: 4, Save: 4, Wounds: 2},
		points: 100,
	})
	snap := buildSnap(2, brawler, locked)

	c := NewContext("red", 4, nil)
	legal := legalFor(model.LegalAction{Kind: model.ActionFight, Actor: "r1"})
	act := c.Decide(model.PhaseFight, snap, legal)

	if act.Kind != model.ActionFight {
		t.Fatalf("kind = %q, want fight", act.Kind)
	}
	if act.Payload.TargetID != "b1" {
		t.Errorf("fight target = %q, want b1", act.Payload.TargetID)
	}
	if len(act.Payload.Assignments) == 0 {
		t.Error("fight action carries no weapon assignments")
	}
}

func TestDecideFightNoEngagement(t *testing.T) {
	brawler := buildUnit(unitSpec{
		id: "r1", side: "red", pos: geom.Point{X: 0, Y: 0}, models: 5,
		weapons: []model.WeaponProfile{chainsword("swords")},
	})
	distant := buildUnit(unitSpec{id: "b1", side: "blue", pos: geom.Point{X: 30, Y: 0}, models: 5})
	snap := buildSnap(2, brawler, distant)

	c := NewContext("red", 4, nil)
	legal := legalFor(model.LegalAction{Kind: model.ActionFight, Actor: "r1"})
	act := c.Decide(model.PhaseFight, snap, legal)

	if act.Kind != model.ActionEndPhase {
		t.Errorf("kind = %q, want end_phase with nobody in contact", act.Kind)
	}
}
