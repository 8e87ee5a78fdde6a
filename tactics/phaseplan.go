package tactics

import (
	"log/slog"
	"sort"

	"github.com/arquen/warmind/assess"
	"github.com/arquen/warmind/dice"
	"github.com/arquen/warmind/model"
)

// ChargeIntent marks a friendly unit's planned assault for this turn: move
// toward the target in the movement phase, hold fire on it in the shooting
// phase, declare against it in the charge phase.
type ChargeIntent struct {
	TargetID string
	Score    float64
	Distance float64 // expected post-move charge distance
}

// PhasePlan links the movement, shooting and charge decisions of one turn.
// Built once at the start of the movement phase, round-tagged, and
// invalidated when the round changes.
type PhasePlan struct {
	Round         int
	LockTargets   map[string]float64      // dangerous enemy shooters worth tying down
	ChargeIntents map[string]ChargeIntent // friendly unit → planned assault
	ShootingLanes map[string][]string     // friendly unit → enemies currently in range
}

// Plan-building thresholds.
const (
	dangerousShooterOutput = 6.0 // ranged output above this marks a lock target
	chargeIntentThreshold  = 8.0 // minimum score to commit to an assault
	lockBonusCap           = 6.0
	intentObjectiveBonus   = 3.0
)

// ensurePlan returns the phase plan for the snapshot's round, building it if
// the cached one is missing or stale.
func (c *Context) ensurePlan(snap *model.BattleSnapshot) *PhasePlan {
	if c.plan != nil && c.plan.Round == snap.Round {
		return c.plan
	}
	c.plan = BuildPhasePlan(snap, c.Side)
	slog.Debug("phase plan built",
		"side", c.Side,
		"round", snap.Round,
		"lockTargets", len(c.plan.LockTargets),
		"chargeIntents", len(c.plan.ChargeIntents),
		"shootingLanes", len(c.plan.ShootingLanes),
	)
	return c.plan
}

// BuildPhasePlan surveys the board once per movement phase: flags dangerous
// enemy shooters as lock targets, commits melee units to the assaults worth
// making, and records which enemies each remaining shooter can reach.
func BuildPhasePlan(snap *model.BattleSnapshot, side string) *PhasePlan {
	plan := &PhasePlan{
		Round:         snap.Round,
		LockTargets:   make(map[string]float64),
		ChargeIntents: make(map[string]ChargeIntent),
		ShootingLanes: make(map[string][]string),
	}

	enemies := snap.EnemyUnits(side)
	friends := snap.FriendlyUnits(side)

	for _, e := range enemies {
		if !e.OnTable() {
			continue
		}
		if out := assess.RangedOutputScore(e); out >= dangerousShooterOutput {
			plan.LockTargets[e.ID] = out
		}
	}

	onObjective := objectiveOccupancy(snap)

	for _, u := range friends {
		if !u.OnTable() || !u.HasMelee() {
			continue
		}
		if isEngaged(snap, u) {
			continue
		}

		reach := float64(u.Stats.Move) + maxChargeRoll + model.EngagementRange
		bestScore := 0.0
		var best *ChargeIntent
		for _, e := range enemies {
			if !e.OnTable() {
				continue
			}
			edge := model.EdgeDistance(u, e)
			if edge > reach {
				continue
			}

			score := assess.EstimateMeleeDamage(u, e) * 2
			if lock, ok := plan.LockTargets[e.ID]; ok {
				bonus := lock * 0.5
				if bonus > lockBonusCap {
					bonus = lockBonusCap
				}
				score += bonus
			}
			if onObjective[e.ID] {
				score += intentObjectiveBonus
			}

			// Short post-move charges are the reliable ones.
			postMove := edge - float64(u.Stats.Move)
			if postMove < 0 {
				postMove = 0
			}
			p := dice.ChargeProb(postMove - model.EngagementRange)
			score *= 0.4 + 0.6*p

			if score > bestScore {
				bestScore = score
				best = &ChargeIntent{TargetID: e.ID, Score: score, Distance: postMove}
			}
		}
		if best != nil && bestScore >= chargeIntentThreshold {
			plan.ChargeIntents[u.ID] = *best
		}
	}

	for _, u := range friends {
		if !u.OnTable() || u.MaxWeaponRange() <= 0 {
			continue
		}
		if _, committed := plan.ChargeIntents[u.ID]; committed {
			continue
		}
		var lane []string
		maxRange := u.MaxWeaponRange()
		for _, e := range enemies {
			if e.OnTable() && model.EdgeDistance(u, e) <= maxRange {
				lane = append(lane, e.ID)
			}
		}
		if len(lane) > 0 {
			sort.Strings(lane)
			plan.ShootingLanes[u.ID] = lane
		}
	}

	return plan
}

// objectiveOccupancy maps unit id → whether the unit stands within control
// range of any objective.
func objectiveOccupancy(snap *model.BattleSnapshot) map[string]bool {
	out := make(map[string]bool)
	for _, u := range snap.Units {
		if !u.OnTable() {
			continue
		}
		for _, obj := range snap.Objectives {
			if unitControls(u, obj) {
				out[u.ID] = true
				break
			}
		}
	}
	return out
}

// isEngaged reports whether u is in melee contact with any living enemy.
func isEngaged(snap *model.BattleSnapshot, u *model.UnitView) bool {
	for _, e := range snap.EnemyUnits(u.Side) {
		if e.OnTable() && model.EngagedWith(u, e) {
			return true
		}
	}
	return false
}

// engagingEnemies returns the living enemies in melee contact with u.
func engagingEnemies(snap *model.BattleSnapshot, u *model.UnitView) []*model.UnitView {
	var out []*model.UnitView
	for _, e := range snap.EnemyUnits(u.Side) {
		if e.OnTable() && model.EngagedWith(u, e) {
			out = append(out, e)
		}
	}
	return out
}
