// Package assess classifies units and weapons and estimates combat output.
// Everything here is expectation math over the host's stat blocks — no dice
// are ever rolled and no state is mutated.
package assess

import (
	"github.com/arquen/warmind/dice"
	"github.com/arquen/warmind/model"
)

// WeaponRole is the job a weapon profile is built for.
type WeaponRole int

const (
	RoleGeneralPurpose WeaponRole = iota
	RoleAntiInfantry
	RoleAntiTank
)

func (r WeaponRole) String() string {
	switch r {
	case RoleAntiInfantry:
		return "anti-infantry"
	case RoleAntiTank:
		return "anti-tank"
	default:
		return "general-purpose"
	}
}

// TargetArchetype is the defensive shape of a unit, used to match weapons to
// the targets they are efficient against.
type TargetArchetype int

const (
	ArchetypeElite TargetArchetype = iota
	ArchetypeHorde
	ArchetypeVehicleMonster
)

func (a TargetArchetype) String() string {
	switch a {
	case ArchetypeHorde:
		return "horde"
	case ArchetypeVehicleMonster:
		return "vehicle-monster"
	default:
		return "elite"
	}
}

// ClassifyWeapon buckets a profile by what it kills efficiently: high
// strength or damage marks anti-tank, many low-damage attacks mark
// anti-infantry, everything else is general purpose.
func ClassifyWeapon(w model.WeaponProfile) WeaponRole {
	avgDmg := dice.Average(w.Damage)
	if w.Strength >= 8 && (avgDmg >= 2.5 || w.AP >= 2) {
		return RoleAntiTank
	}
	if dice.Average(w.Attacks) >= 3 && avgDmg <= 1.5 && w.Strength <= 5 {
		return RoleAntiInfantry
	}
	return RoleGeneralPurpose
}

// ClassifyTarget buckets a unit by its defensive shape.
func ClassifyTarget(u *model.UnitView) TargetArchetype {
	if u.IsVehicle() || u.IsMonster() || u.Stats.Toughness >= 9 || u.Stats.Wounds >= 10 {
		return ArchetypeVehicleMonster
	}
	if u.StartingModels() >= 8 && u.Stats.Wounds <= 1 {
		return ArchetypeHorde
	}
	return ArchetypeElite
}

// roleEfficiency scales a weapon's estimated damage by how well its role
// matches the target archetype. Mismatches are discounted, not zeroed: a
// lascannon still kills infantry, it is just a waste.
func roleEfficiency(role WeaponRole, arch TargetArchetype) float64 {
	switch role {
	case RoleAntiTank:
		switch arch {
		case ArchetypeVehicleMonster:
			return 1.3
		case ArchetypeHorde:
			return 0.5
		default:
			return 0.9
		}
	case RoleAntiInfantry:
		switch arch {
		case ArchetypeHorde:
			return 1.3
		case ArchetypeVehicleMonster:
			return 0.45
		default:
			return 1.0
		}
	default:
		return 1.0
	}
}

// EfficiencyMult is the weapon-vs-target matching multiplier, including the
// damage-waste penalty for multi-damage weapons shooting single-wound models.
func EfficiencyMult(w model.WeaponProfile, target *model.UnitView) float64 {
	mult := roleEfficiency(ClassifyWeapon(w), ClassifyTarget(target))
	if target.Stats.Wounds == 1 && dice.Average(w.Damage) >= 2 {
		mult *= 0.6
	}
	return mult
}
