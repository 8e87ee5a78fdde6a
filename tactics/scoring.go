package tactics

import (
	"fmt"
	"log/slog"

	"github.com/arquen/warmind/model"
)

// decideCommand handles the command phase. The engine has nothing to spend
// here yet, so it logs the posture it settled on for the round and ends the
// phase.
func (c *Context) decideCommand(snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	sit := c.situationFor(snap)
	if c.stratagemOnce("command-posture") {
		slog.Debug("command posture",
			"side", c.Side,
			"round", snap.Round,
			"vpDiff", sit.vpDiff,
			"tempo", sit.tempo,
			"aggression", sit.aggression,
		)
	}
	return endPhaseOr(legal, "command phase complete")
}

// decideScoring claims the held objective worth the most: friendly OC must
// beat enemy OC on the marker, ties broken by evaluation priority then
// objective id.
func (c *Context) decideScoring(snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	la := model.FindLegal(legal, model.ActionScore, "")
	if la == nil {
		return endPhaseOr(legal, "nothing to score")
	}

	sit := c.situationFor(snap)
	evals := EvaluateObjectives(snap, c.Side, sit)

	claimable := func(id string) bool {
		if len(la.Targets) == 0 {
			return true
		}
		for _, t := range la.Targets {
			if t == id {
				return true
			}
		}
		return false
	}

	var best *ObjectiveEvaluation
	for i := range evals {
		ev := &evals[i]
		if ev.FriendlyOC <= ev.EnemyOC || !claimable(ev.Objective.ID) {
			continue
		}
		if best == nil || ev.Priority > best.Priority {
			best = ev
		}
	}
	if best == nil {
		return endPhaseOr(legal, "no objective held")
	}
	return model.Action{
		Kind:    model.ActionScore,
		Actor:   la.Actor,
		Payload: model.Payload{ObjectiveID: best.Objective.ID},
		Rationale: fmt.Sprintf("scoring %s (OC %d vs %d)",
			best.Objective.ID, best.FriendlyOC, best.EnemyOC),
	}
}
