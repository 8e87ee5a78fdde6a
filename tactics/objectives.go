package tactics

import (
	"github.com/arquen/warmind/geom"
	"github.com/arquen/warmind/model"
)

// ControlRadius is the distance within which a model contests an objective.
const ControlRadius = 3.0

// ObjectiveState classifies who holds a marker and how firmly.
type ObjectiveState int

const (
	StateUncontrolled ObjectiveState = iota
	StateContested
	StateHeldSafe
	StateHeldThreatened
	StateEnemyWeak
	StateEnemyStrong
)

func (s ObjectiveState) String() string {
	switch s {
	case StateUncontrolled:
		return "uncontrolled"
	case StateContested:
		return "contested"
	case StateHeldSafe:
		return "held-safe"
	case StateHeldThreatened:
		return "held-threatened"
	case StateEnemyWeak:
		return "enemy-weak"
	case StateEnemyStrong:
		return "enemy-strong"
	default:
		return "unknown"
	}
}

// ObjectiveEvaluation is the scored view of one marker.
type ObjectiveEvaluation struct {
	Objective  model.Objective
	FriendlyOC int
	EnemyOC    int
	State      ObjectiveState
	Priority   float64
	OCToFlip   int // OC still required to take or retake control
}

// State-class weights and zone bonuses for objective priority.
var stateWeights = map[ObjectiveState]float64{
	StateUncontrolled:   12,
	StateContested:      14,
	StateHeldSafe:       6,
	StateHeldThreatened: 13,
	StateEnemyWeak:      11,
	StateEnemyStrong:    5,
}

const (
	zoneBonusHome   = 4.0
	zoneBonusMiddle = 2.0
	enemyWeakMargin = 3 // enemy lead small enough to flip cheaply

	// Distance at which a nearby enemy makes a held objective "threatened".
	threatenRange = 9.0
)

// unitControls reports whether any living model of u sits within control
// range of the objective.
func unitControls(u *model.UnitView, obj model.Objective) bool {
	for _, m := range u.Models {
		if m.Alive && geom.Dist(m.Pos, obj.Pos) <= ControlRadius {
			return true
		}
	}
	return false
}

// objectiveOC sums the OC of side's units contesting the objective.
// Battle-shocked units never count toward control.
func objectiveOC(snap *model.BattleSnapshot, obj model.Objective, side string) int {
	total := 0
	for _, u := range snap.Units {
		if u.Side != side || !u.OnTable() || u.BattleShocked {
			continue
		}
		if unitControls(u, obj) {
			total += u.Stats.OC
		}
	}
	return total
}

// classifyObjective derives the control state from OC totals and enemy
// proximity.
func classifyObjective(snap *model.BattleSnapshot, obj model.Objective, side string, friendly, enemy int) ObjectiveState {
	switch {
	case friendly == 0 && enemy == 0:
		return StateUncontrolled
	case friendly == enemy:
		return StateContested
	case friendly > enemy:
		if enemyNear(snap, obj, side, threatenRange) {
			return StateHeldThreatened
		}
		return StateHeldSafe
	case enemy-friendly <= enemyWeakMargin:
		return StateEnemyWeak
	default:
		return StateEnemyStrong
	}
}

func enemyNear(snap *model.BattleSnapshot, obj model.Objective, side string, radius float64) bool {
	for _, e := range snap.EnemyUnits(side) {
		if !e.OnTable() {
			continue
		}
		for _, m := range e.Models {
			if m.Alive && geom.Dist(m.Pos, obj.Pos) <= radius {
				return true
			}
		}
	}
	return false
}

// EvaluateObjectives scores every marker for the acting side: control state,
// state-class weight plus home/away bonus plus the round urgency curve, all
// scaled by the VP-tempo modifier. Order follows the snapshot's objective
// list so ties resolve deterministically downstream.
func EvaluateObjectives(snap *model.BattleSnapshot, side string, sit situation) []ObjectiveEvaluation {
	out := make([]ObjectiveEvaluation, 0, len(snap.Objectives))
	for _, obj := range snap.Objectives {
		friendly := objectiveOC(snap, obj, side)
		enemy := enemyObjectiveOC(snap, obj, side)
		state := classifyObjective(snap, obj, side, friendly, enemy)

		priority := stateWeights[state]
		switch obj.Zone {
		case "home":
			priority += zoneBonusHome
		case "middle":
			priority += zoneBonusMiddle
		}
		priority += urgency(sit, state, obj.Zone)
		priority *= sit.tempo

		flip := 0
		if enemy >= friendly {
			flip = enemy - friendly + 1
		}

		out = append(out, ObjectiveEvaluation{
			Objective:  obj,
			FriendlyOC: friendly,
			EnemyOC:    enemy,
			State:      state,
			Priority:   priority,
			OCToFlip:   flip,
		})
	}
	return out
}

// enemyObjectiveOC sums OC over every opposing side contesting the marker.
func enemyObjectiveOC(snap *model.BattleSnapshot, obj model.Objective, side string) int {
	total := 0
	for _, u := range snap.Units {
		if u.Side == side || !u.OnTable() || u.BattleShocked {
			continue
		}
		if unitControls(u, obj) {
			total += u.Stats.OC
		}
	}
	return total
}

// urgency is the round-dependent component of objective priority: early
// rounds reward pushing at midfield and enemy ground, late rounds reward
// holding what scores.
func urgency(sit situation, state ObjectiveState, zone string) float64 {
	u := 0.0
	switch zone {
	case "enemy":
		u += 3 * sit.strategy.Aggression
	case "middle":
		u += 2 * sit.strategy.Aggression
	}
	switch state {
	case StateHeldThreatened, StateContested:
		u += 3 * sit.strategy.Objective
	case StateUncontrolled:
		u += 2 * sit.strategy.Objective
	}
	return u
}
