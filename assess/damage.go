package assess

import (
	"github.com/arquen/warmind/dice"
	"github.com/arquen/warmind/model"
)

// Situation carries the positional context an expected-damage estimate
// depends on.
type Situation struct {
	Distance float64 // edge-to-edge inches to the target
	Cover    bool    // target benefits from cover
}

// critProb is the chance of a natural 6 on one d6.
const critProb = 1.0 / 6

// ExpectedDamage estimates the wounds a single weapon profile inflicts on
// the target in one activation, applying the full rules chain: blast and
// rapid-fire attack bonuses, torrent auto-hits, sustained and lethal hits,
// anti-keyword critical wounds, twin-linked rerolls, devastating wounds,
// melta damage, cover, stealth, feel-no-pain, and per-model wound-overflow
// capping. Attack counts are the unit's total for that profile.
func ExpectedDamage(w model.WeaponProfile, attacker, target *model.UnitView, sit Situation) float64 {
	if w.Kind == model.WeaponRanged && sit.Distance > w.Range {
		return 0
	}

	attacks := dice.Average(w.Attacks)
	if w.Rules.Blast {
		attacks += float64(target.ModelCount() / 5)
	}
	halfRange := w.Kind == model.WeaponRanged && w.Range > 0 && sit.Distance <= w.Range/2
	if w.Rules.RapidFire > 0 && halfRange {
		attacks += float64(w.Rules.RapidFire)
	}
	if attacks <= 0 {
		return 0
	}

	// Hit step.
	var hitP, critHitP float64
	if w.Rules.Torrent {
		hitP, critHitP = 1, 0
	} else {
		skill := w.Skill
		if w.Kind == model.WeaponRanged && target.Abilities.Stealth {
			skill++
		}
		hitP = dice.ProbAtLeast(skill)
		critHitP = critProb
		if hitP < critHitP {
			hitP = critHitP // a 6 always hits
		}
	}
	hits := attacks * hitP
	if w.Rules.SustainedHits > 0 {
		hits += attacks * critHitP * float64(w.Rules.SustainedHits)
	}
	autoWounds := 0.0
	if w.Rules.LethalHits {
		autoWounds = attacks * critHitP
		hits -= autoWounds
		if hits < 0 {
			hits = 0
		}
	}

	// Wound step.
	woundTN := dice.WoundTarget(w.Strength, target.Stats.Toughness)
	critWoundP := critProb
	if w.Rules.AntiValue > 0 && target.HasKeyword(w.Rules.AntiKeyword) {
		if w.Rules.AntiValue < woundTN {
			woundTN = w.Rules.AntiValue
		}
		critWoundP = dice.ProbAtLeast(w.Rules.AntiValue)
	}
	woundP := dice.ProbAtLeast(woundTN)
	if w.Rules.TwinLinked {
		woundP = 1 - (1-woundP)*(1-woundP)
	}
	wounds := hits * woundP
	devWounds := 0.0
	if w.Rules.DevastatingWounds {
		devWounds = hits * critWoundP
		if devWounds > wounds {
			devWounds = wounds
		}
	}

	// Save step. Devastating wounds skip it entirely.
	cover := sit.Cover && !w.Rules.IgnoresCover
	failP := dice.FailSaveProb(target.Stats.Save, target.Stats.Invuln, w.AP, cover)
	unsaved := (wounds-devWounds)*failP + autoWounds*failP + devWounds

	// Damage step.
	dmgPer := dice.Average(w.Damage)
	if w.Rules.Melta > 0 && halfRange {
		dmgPer += float64(w.Rules.Melta)
	}
	// Excess damage on a slain model is lost.
	if wpm := float64(target.Stats.Wounds); dmgPer > wpm {
		dmgPer = wpm
	}
	if fnp := target.Abilities.FeelNoPain; fnp > 0 {
		dmgPer *= 1 - dice.ProbAtLeast(fnp)
	}

	total := unsaved * dmgPer
	total *= attacker.Abilities.OffensiveMult
	if dm := target.Abilities.DefensiveMult; dm > 0 {
		total /= dm
	}
	return total
}

// EstimateRangedOutput sums expected ranged damage against the target at the
// most favorable range, used for threat flags and target values.
func EstimateRangedOutput(u, target *model.UnitView) float64 {
	total := 0.0
	for _, w := range u.RangedWeapons() {
		if w.Rules.OneShot {
			continue // don't count a spent or hoarded single use as steady output
		}
		total += ExpectedDamage(w, u, target, Situation{Distance: w.Range / 2})
	}
	return total
}

// EstimateMeleeDamage sums expected melee damage from u into target: every
// primary profile at its best plus all extra-attacks profiles.
func EstimateMeleeDamage(u, target *model.UnitView) float64 {
	best := 0.0
	extras := 0.0
	for _, w := range u.MeleeWeapons() {
		d := ExpectedDamage(w, u, target, Situation{Distance: 0})
		if w.Rules.ExtraAttacks {
			extras += d
		} else if d > best {
			best = d
		}
	}
	return best + extras
}

// referenceTarget is the fixed profile output estimates are normalized
// against when no concrete target is in play (T4, 4+ save, 2 wounds,
// five models).
func referenceTarget() *model.UnitView {
	u := &model.UnitView{
		ID:   "_reference",
		Name: "reference profile",
		Stats: model.StatBlock{
			Move: 6, Toughness: 4, Save: 4, Wounds: 2, OC: 1, Leadership: 7,
		},
		Abilities: model.AbilityFlags{OffensiveMult: 1, DefensiveMult: 1},
	}
	for i := 0; i < 5; i++ {
		u.Models = append(u.Models, model.ModelView{Alive: true, Wounds: 2, BaseRadius: 0.5})
	}
	return u
}

// RangedOutputScore is a unit's expected ranged damage against the reference
// profile — the "how dangerous is this shooter" number.
func RangedOutputScore(u *model.UnitView) float64 {
	return EstimateRangedOutput(u, referenceTarget())
}

// MeleeOutputScore is the melee analogue of RangedOutputScore.
func MeleeOutputScore(u *model.UnitView) float64 {
	return EstimateMeleeDamage(u, referenceTarget())
}

// TradeEfficiency returns the points an attacker expects to claim per point
// spent when wiping the target: target points divided by the effort (wounds)
// it takes. Higher is a better trade for the attacker.
func TradeEfficiency(target *model.UnitView) float64 {
	wounds := target.TotalWounds()
	if wounds <= 0 {
		return 0
	}
	return float64(target.Points) / float64(wounds)
}
