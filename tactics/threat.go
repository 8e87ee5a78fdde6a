package tactics

import (
	"github.com/arquen/warmind/assess"
	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// ThreatEntry is one enemy unit's projected danger zones for this turn.
type ThreatEntry struct {
	Unit         *model.UnitView
	Pos          geom.Point
	ChargeRadius float64 // move + charge + engagement: the reach of a full-tilt assault
	ShootRadius  float64 // longest ranged weapon
	Level        float64 // clamped threat weight
	CanMelee     bool
	CanShoot     bool
}

// ThreatMap holds every living enemy's danger zones for position scoring.
type ThreatMap struct {
	Entries []ThreatEntry
}

// Threat scoring weights. Charge zones dominate shooting zones, and the band
// inside standChargeRange is where an enemy can charge without moving first.
const (
	chargeThreatWeight = 4.0
	shootThreatWeight  = 1.5
	standChargePenalty = 2.0
	standChargeRange   = 12.0

	meleeSeekerFactor = 0.4 // melee units want to be found
	fragileFactor     = 1.5 // fragile units want to hide

	maxChargeRoll = 12.0
)

// BuildThreatMap projects a danger zone for every living enemy with a valid
// position.
func BuildThreatMap(snap *model.BattleSnapshot, side string) *ThreatMap {
	tm := &ThreatMap{}
	for _, e := range snap.EnemyUnits(side) {
		if !e.OnTable() {
			continue
		}
		entry := ThreatEntry{
			Unit:        e,
			Pos:         e.Position(),
			ShootRadius: e.MaxWeaponRange(),
			Level:       assess.ThreatLevel(e),
			CanMelee:    e.HasMelee(),
			CanShoot:    e.MaxWeaponRange() > 0,
		}
		if entry.CanMelee {
			entry.ChargeRadius = float64(e.Stats.Move) + maxChargeRoll + model.EngagementRange
		}
		tm.Entries = append(tm.Entries, entry)
	}
	return tm
}

// PositionThreat sums depth-weighted penalties over every enemy whose danger
// zone contains the point: linear in how far inside the radius the point
// lies, charge zones over shooting zones, with the extra stand-and-charge
// band inside 12". The result is scaled down for melee-focused friendlies
// and up for fragile ones.
func (tm *ThreatMap) PositionThreat(pt geom.Point, u *model.UnitView) float64 {
	total := 0.0
	for i := range tm.Entries {
		e := &tm.Entries[i]
		d := geom.Dist(pt, e.Pos)
		if e.CanMelee && e.ChargeRadius > 0 && d < e.ChargeRadius {
			depth := 1 - d/e.ChargeRadius
			total += chargeThreatWeight * depth * e.Level
			if d < standChargeRange {
				total += standChargePenalty * (1 - d/standChargeRange) * e.Level
			}
		}
		if e.CanShoot && e.ShootRadius > 0 && d < e.ShootRadius {
			depth := 1 - d/e.ShootRadius
			total += shootThreatWeight * depth * e.Level
		}
	}
	if u != nil {
		if u.HasMelee() && assess.MeleeOutputScore(u) > assess.RangedOutputScore(u) {
			total *= meleeSeekerFactor
		}
		if assess.IsFragile(u) {
			total *= fragileFactor
		}
	}
	return total
}

// saferMargin is how much a candidate must beat the naive destination by
// before the detour is worth taking.
const saferMargin = 1.0

// SaferPosition evaluates alternative destinations for a move from `from`
// toward `objective` and returns the best-scoring one when it materially
// beats the naive destination. Score is forward progress toward the
// objective minus total threat; candidates that cross impassable terrain or
// land on another base are discarded.
func (tm *ThreatMap) SaferPosition(snap *model.BattleSnapshot, u *model.UnitView, from, objective geom.Point, move float64) (geom.Point, bool) {
	candidates := geom.MoveCandidates(from, objective, move)
	blocked := snap.ImpassableFor(u)
	occupied := snap.OccupiedBases(u.ID)
	radius := u.BaseRadius()

	score := func(p geom.Point) float64 {
		progress := geom.Dist(from, objective) - geom.Dist(p, objective)
		return progress - tm.PositionThreat(p, u)
	}

	naive := candidates[0]
	naiveScore := score(naive)
	best, bestScore := naive, naiveScore

	for _, cand := range candidates[1:] {
		if geom.Dist(from, cand) > move+1e-9 {
			continue
		}
		if pathCrossesAny(from, cand, blocked) {
			continue
		}
		if !geom.NoOverlap([]geom.Point{cand}, radius, occupied) {
			continue
		}
		if s := score(cand); s > bestScore {
			best, bestScore = cand, s
		}
	}

	if bestScore > naiveScore+saferMargin {
		return best, true
	}
	return naive, false
}

func pathCrossesAny(a, b geom.Point, polys []geom.Polygon) bool {
	for _, poly := range polys {
		if poly.Intersects(a, b) {
			return true
		}
	}
	return false
}
