package assess

import "github.com/arquen/warmind/model"

// Threat-level clamp bounds: even a gretchin blob registers, and nothing
// counts more than three times a baseline unit.
const (
	ThreatLevelMin = 0.3
	ThreatLevelMax = 3.0
)

// ThreatLevel weights a unit's danger zones: a function of its size,
// durability, keyword class, and best melee profile, clamped to
// [ThreatLevelMin, ThreatLevelMax].
func ThreatLevel(u *model.UnitView) float64 {
	level := 1.0

	// Mass: more bodies and more wounds mean more staying power.
	level += float64(u.ModelCount()) * 0.04
	level += float64(u.Stats.Toughness-4) * 0.08
	level += float64(u.TotalWounds()) * 0.02

	switch {
	case u.IsVehicle() || u.IsMonster():
		level += 0.5
	case u.IsCharacter():
		level += 0.3
	}

	// Melee quality: a unit that hits hard up close projects a bigger zone.
	melee := MeleeOutputScore(u)
	level += melee * 0.08

	if level < ThreatLevelMin {
		level = ThreatLevelMin
	}
	if level > ThreatLevelMax {
		level = ThreatLevelMax
	}
	return level
}

// IsFragile reports whether a friendly unit should be extra shy of danger
// zones: low toughness or single-wound models.
func IsFragile(u *model.UnitView) bool {
	return u.Stats.Toughness <= 3 || u.Stats.Wounds <= 1
}
