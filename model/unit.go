package model

import (
	"sort"
	"strings"

	"github.com/arquen/warmind/geom"
)

// Unit status values reported by the host engine.
const (
	StatusUndeployed = "undeployed"
	StatusReserve    = "reserve"
	StatusDeployed   = "deployed"
	StatusMoved      = "moved"
	StatusShot       = "shot"
	StatusCharged    = "charged"
	StatusFought     = "fought"
)

// EngagementRange is the distance at which units are in melee contact.
const EngagementRange = 1.0

// StatBlock is a unit's numeric profile. Zero values are replaced with
// documented baselines at the snapshot boundary.
type StatBlock struct {
	Move       int `json:"move"`
	Toughness  int `json:"toughness"`
	Save       int `json:"save"`
	Wounds     int `json:"wounds"`
	Leadership int `json:"leadership"`
	OC         int `json:"oc"`
	Invuln     int `json:"invuln"` // 0 = none
}

// AbilityFlags carries the host ability analyzer's verdict for a unit:
// datasheet flags plus aggregate buff multipliers from attached leaders and
// auras. Multipliers default to 1.0 when absent.
type AbilityFlags struct {
	FeelNoPain        int     `json:"feelNoPain"` // 0 = none, else threshold
	Stealth           bool    `json:"stealth"`
	LoneOperative     bool    `json:"loneOperative"`
	DeepStrike        bool    `json:"deepStrike"`
	FallBackAndShoot  bool    `json:"fallBackAndShoot"`
	FallBackAndCharge bool    `json:"fallBackAndCharge"`
	OffensiveMult     float64 `json:"offensiveMult"`
	DefensiveMult     float64 `json:"defensiveMult"`
}

// ModelView is a single miniature within a unit.
type ModelView struct {
	Alive      bool       `json:"alive"`
	Pos        geom.Point `json:"pos"`
	BaseRadius float64    `json:"baseRadius"`
	Wounds     int        `json:"wounds"`
}

// UnitView is the engine's read-only view of one unit.
type UnitView struct {
	ID            string        `json:"id"`
	Side          string        `json:"side"`
	Name          string        `json:"name"`
	Status        string        `json:"status"`
	BattleShocked bool          `json:"battleShocked"`
	Models        []ModelView   `json:"models"`
	Keywords      []string      `json:"keywords"`
	Stats         StatBlock     `json:"stats"`
	Weapons       []WeaponProfile `json:"weapons"`
	Abilities     AbilityFlags  `json:"abilities"`
	Points        int           `json:"points"`
}

func (u *UnitView) normalize() {
	if u.Stats.Move == 0 {
		u.Stats.Move = 6
	}
	if u.Stats.Toughness == 0 {
		u.Stats.Toughness = 4
	}
	if u.Stats.Save == 0 {
		u.Stats.Save = 4
	}
	if u.Stats.Wounds == 0 {
		u.Stats.Wounds = 1
	}
	if u.Stats.OC == 0 {
		u.Stats.OC = 1
	}
	if u.Stats.Leadership == 0 {
		u.Stats.Leadership = 7
	}
	if u.Abilities.OffensiveMult == 0 {
		u.Abilities.OffensiveMult = 1
	}
	if u.Abilities.DefensiveMult == 0 {
		u.Abilities.DefensiveMult = 1
	}
	if u.Status == "" {
		u.Status = StatusDeployed
	}
	for i := range u.Models {
		if u.Models[i].BaseRadius == 0 {
			u.Models[i].BaseRadius = 0.5
		}
		if u.Models[i].Alive && u.Models[i].Wounds == 0 {
			u.Models[i].Wounds = u.Stats.Wounds
		}
	}
	for i := range u.Weapons {
		u.Weapons[i].normalize()
	}
}

// Alive reports whether the unit has at least one living model. Dead units
// are excluded from every friendly/enemy query.
func (u *UnitView) Alive() bool {
	for _, m := range u.Models {
		if m.Alive {
			return true
		}
	}
	return false
}

// OnTable reports whether the unit is deployed with a living model.
func (u *UnitView) OnTable() bool {
	return u.Status != StatusUndeployed && u.Status != StatusReserve && u.Alive()
}

// ModelCount returns the number of living models.
func (u *UnitView) ModelCount() int {
	n := 0
	for _, m := range u.Models {
		if m.Alive {
			n++
		}
	}
	return n
}

// StartingModels returns the unit's full model count, dead or alive, for
// below-half-strength checks.
func (u *UnitView) StartingModels() int {
	return len(u.Models)
}

// BelowHalfStrength reports whether the unit has lost half or more of its
// models (or, for single-model units, half or more of its wounds).
func (u *UnitView) BelowHalfStrength() bool {
	if len(u.Models) == 1 {
		return u.Models[0].Alive && u.Models[0].Wounds*2 <= u.Stats.Wounds
	}
	return u.ModelCount()*2 <= len(u.Models)
}

// TotalWounds returns remaining wounds summed over living models — the
// unit's kill threshold.
func (u *UnitView) TotalWounds() int {
	total := 0
	for _, m := range u.Models {
		if m.Alive {
			total += m.Wounds
		}
	}
	return total
}

// Position returns the centroid of living models. Zero point when none live.
func (u *UnitView) Position() geom.Point {
	var pts []geom.Point
	for _, m := range u.Models {
		if m.Alive {
			pts = append(pts, m.Pos)
		}
	}
	return geom.Centroid(pts)
}

// LivingPositions returns the positions of living models in model order.
func (u *UnitView) LivingPositions() []geom.Point {
	var pts []geom.Point
	for _, m := range u.Models {
		if m.Alive {
			pts = append(pts, m.Pos)
		}
	}
	return pts
}

// BaseRadius returns the base radius of the first living model.
func (u *UnitView) BaseRadius() float64 {
	for _, m := range u.Models {
		if m.Alive {
			return m.BaseRadius
		}
	}
	return 0.5
}

// EdgeDistance returns the closest base-edge to base-edge distance between
// living models of two units. Never negative.
func EdgeDistance(a, b *UnitView) float64 {
	best := 0.0
	found := false
	for _, ma := range a.Models {
		if !ma.Alive {
			continue
		}
		for _, mb := range b.Models {
			if !mb.Alive {
				continue
			}
			d := geom.Dist(ma.Pos, mb.Pos) - ma.BaseRadius - mb.BaseRadius
			if !found || d < best {
				best = d
				found = true
			}
		}
	}
	if !found || best < 0 {
		return 0
	}
	return best
}

// EngagedWith reports whether any living model of a is within engagement
// range of a living model of b.
func EngagedWith(a, b *UnitView) bool {
	if !a.Alive() || !b.Alive() {
		return false
	}
	return EdgeDistance(a, b) <= EngagementRange
}

// HasKeyword reports whether the unit carries the keyword, case-insensitively.
func (u *UnitView) HasKeyword(kw string) bool {
	for _, k := range u.Keywords {
		if strings.EqualFold(k, kw) {
			return true
		}
	}
	return false
}

// IsCharacter, IsVehicle and IsMonster are the keyword classes the scoring
// code branches on.
func (u *UnitView) IsCharacter() bool { return u.HasKeyword("character") }
func (u *UnitView) IsVehicle() bool   { return u.HasKeyword("vehicle") }
func (u *UnitView) IsMonster() bool   { return u.HasKeyword("monster") }
func (u *UnitView) IsInfantry() bool  { return u.HasKeyword("infantry") }

// RangedWeapons returns the unit's ranged profiles.
func (u *UnitView) RangedWeapons() []WeaponProfile {
	return u.weaponsOfKind(WeaponRanged)
}

// MeleeWeapons returns the unit's melee profiles.
func (u *UnitView) MeleeWeapons() []WeaponProfile {
	return u.weaponsOfKind(WeaponMelee)
}

func (u *UnitView) weaponsOfKind(kind string) []WeaponProfile {
	var out []WeaponProfile
	for _, w := range u.Weapons {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// MaxWeaponRange returns the unit's longest ranged-weapon range, 0 if none.
func (u *UnitView) MaxWeaponRange() float64 {
	best := 0.0
	for _, w := range u.RangedWeapons() {
		if w.Range > best {
			best = w.Range
		}
	}
	return best
}

// HasMelee reports whether the unit carries any melee weapon beyond bare
// close-combat attacks worth planning around.
func (u *UnitView) HasMelee() bool {
	return len(u.MeleeWeapons()) > 0
}

func sortUnitsByID(units []*UnitView) {
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
}
