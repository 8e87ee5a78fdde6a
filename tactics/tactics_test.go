package tactics

import (
	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// Test fixtures shared by the tactics tests. Units are built raw and run
// through the same normalization the IPC boundary applies.

type unitSpec struct {
	id      string
	side    string
	pos     geom.Point
	models  int
	stats   model.StatBlock
	weapons []model.WeaponProfile
	points  int
	kw      []string
}

func buildUnit(s unitSpec) *model.UnitView {
	if s.models == 0 {
		s.models = 1
	}
	u := &model.UnitView{
		ID: s.id, Side: s.side, Name: s.id,
		Stats: s.stats, Weapons: s.weapons, Points: s.points, Keywords: s.kw,
	}
	for i := 0; i < s.models; i++ {
		u.Models = append(u.Models, model.ModelView{
			Alive: true,
			Pos:   geom.Point{X: s.pos.X + float64(i)*1.2, Y: s.pos.Y},
		})
	}
	return u
}

func buildSnap(round int, units ...*model.UnitView) *model.BattleSnapshot {
	snap := &model.BattleSnapshot{
		Round: round,
		Units: make(map[string]*model.UnitView),
		Resources: map[string]model.SideResources{
			"red":  {},
			"blue": {},
		},
	}
	for _, u := range units {
		snap.Units[u.ID] = u
	}
	snap.Normalize()
	return snap
}

func bolter(id string) model.WeaponProfile {
	return model.WeaponProfile{
		ID: id, Name: id, Kind: model.WeaponRanged,
		Range: 24, Attacks: "10", Skill: 3, Strength: 4, AP: 0, Damage: "1",
	}
}

func chainsword(id string) model.WeaponProfile {
	return model.WeaponProfile{
		ID: id, Name: id, Kind: model.WeaponMelee,
		Attacks: "20", Skill: 3, Strength: 5, AP: 2, Damage: "2",
	}
}

func legalFor(kinds ...model.LegalAction) []model.LegalAction {
	return append(kinds, model.LegalAction{Kind: model.ActionEndPhase})
}
