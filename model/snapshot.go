// Package model defines the read-only battle snapshot the host game sends
// with every decision request, plus the action record sent back. All types
// carry JSON tags matching the host's serializer; Normalize fills defaults
// and parses weapon rules once so the engine never re-validates mid-scoring.
package model

import (
	"github.com/arquen/warmind/geom"
)

// Phase identifies the turn segment a decision request belongs to.
type Phase string

const (
	PhaseDeployment Phase = "deployment"
	PhaseCommand    Phase = "command"
	PhaseMovement   Phase = "movement"
	PhaseShooting   Phase = "shooting"
	PhaseCharge     Phase = "charge"
	PhaseFight      Phase = "fight"
	PhaseScoring    Phase = "scoring"
)

// SideResources is the per-player resource view.
type SideResources struct {
	CommandPoints int `json:"commandPoints"`
	VictoryPoints int `json:"victoryPoints"`
}

// BattleSnapshot is the immutable-for-the-call view of the game. It is owned
// by the host rules engine; the decision engine only reads it.
type BattleSnapshot struct {
	Round           int                      `json:"round"`
	Units           map[string]*UnitView     `json:"units"`
	Objectives      []Objective              `json:"objectives"`
	DeploymentZones map[string]geom.Rect     `json:"deploymentZones"`
	Terrain         []TerrainFeature         `json:"terrain"`
	Resources       map[string]SideResources `json:"resources"`
}

// Normalize fills missing stats with conservative defaults and parses every
// weapon's special-rule tokens into typed fields. Called once at the snapshot
// boundary (defaults: M6 T4 Sv4+ W1 OC1) so downstream scoring reads typed
// values without defensive checks.
func (s *BattleSnapshot) Normalize() {
	for _, u := range s.Units {
		u.normalize()
	}
}

// VictoryDiff returns side's victory points minus the best opposing total.
// Positive means side is leading.
func (s *BattleSnapshot) VictoryDiff(side string) int {
	own := s.Resources[side].VictoryPoints
	best := 0
	seen := false
	for other, res := range s.Resources {
		if other == side {
			continue
		}
		if !seen || res.VictoryPoints > best {
			best = res.VictoryPoints
			seen = true
		}
	}
	return own - best
}

// FriendlyUnits returns side's units that still have a living model.
func (s *BattleSnapshot) FriendlyUnits(side string) []*UnitView {
	return s.selectUnits(func(u *UnitView) bool { return u.Side == side && u.Alive() })
}

// EnemyUnits returns living units of every other side.
func (s *BattleSnapshot) EnemyUnits(side string) []*UnitView {
	return s.selectUnits(func(u *UnitView) bool { return u.Side != side && u.Alive() })
}

// Unit returns the unit with the given id, or nil. Dead units are returned
// as-is; callers filtering combatants use FriendlyUnits/EnemyUnits instead.
func (s *BattleSnapshot) Unit(id string) *UnitView {
	return s.Units[id]
}

// EnemyReservesExist reports whether any opposing unit is still off-table,
// which is what makes deep-strike screening worth paying for.
func (s *BattleSnapshot) EnemyReservesExist(side string) bool {
	for _, u := range s.Units {
		if u.Side != side && u.Alive() && (u.Status == StatusReserve || u.Status == StatusUndeployed) {
			return true
		}
	}
	return false
}

// BlockingTerrain returns the outlines of features that block line of sight.
func (s *BattleSnapshot) BlockingTerrain() []geom.Polygon {
	var out []geom.Polygon
	for _, t := range s.Terrain {
		if t.BlocksLOS {
			out = append(out, t.Poly)
		}
	}
	return out
}

// ImpassableFor returns the outlines a unit with the given keywords cannot
// cross.
func (s *BattleSnapshot) ImpassableFor(u *UnitView) []geom.Polygon {
	var out []geom.Polygon
	for _, t := range s.Terrain {
		if t.blocksUnit(u) {
			out = append(out, t.Poly)
		}
	}
	return out
}

// OccupiedBases returns every living model base on the table except those
// belonging to the excluded unit. Used for overlap checks when planning
// destinations.
func (s *BattleSnapshot) OccupiedBases(exclude string) []geom.Circle {
	var out []geom.Circle
	for id, u := range s.Units {
		if id == exclude || !u.OnTable() {
			continue
		}
		for _, m := range u.Models {
			if m.Alive {
				out = append(out, geom.Circle{C: m.Pos, R: m.BaseRadius})
			}
		}
	}
	return out
}

func (s *BattleSnapshot) selectUnits(keep func(*UnitView) bool) []*UnitView {
	out := make([]*UnitView, 0, len(s.Units))
	for _, u := range s.Units {
		if keep(u) {
			out = append(out, u)
		}
	}
	sortUnitsByID(out)
	return out
}

// Objective is a board objective marker.
type Objective struct {
	ID   string     `json:"id"`
	Pos  geom.Point `json:"pos"`
	Zone string     `json:"zone"` // "home", "middle", or "enemy" relative to the acting side
}

// TerrainFeature is a polygonal board feature with per-keyword passability.
type TerrainFeature struct {
	Kind       string       `json:"kind"`
	Poly       geom.Polygon `json:"poly"`
	BlocksLOS  bool         `json:"blocksLos"`
	Impassable []string     `json:"impassable"` // keywords that cannot cross; "*" blocks everyone
}

func (t TerrainFeature) blocksUnit(u *UnitView) bool {
	for _, kw := range t.Impassable {
		if kw == "*" || u.HasKeyword(kw) {
			return true
		}
	}
	return false
}
