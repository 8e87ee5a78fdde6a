package tactics

import (
	"fmt"

	"github.com/arquen/warmind/model"
)

// decideShooting drains the phase's fire plan: the first shooter (in id
// order) that still has both a legal shoot action and planned assignments
// fires them all at once. Units the plan skipped pass, and when nobody is
// left the phase ends.
func (c *Context) decideShooting(snap *model.BattleSnapshot, legal []model.LegalAction) model.Action {
	fp := c.ensureFirePlan(snap)

	for _, u := range shootingActors(snap, legal) {
		assignments := fp.Assignments[u.ID]
		if len(assignments) == 0 {
			continue
		}
		// Filter out targets that died to an earlier shooter this phase.
		live := assignments[:0:0]
		for _, a := range assignments {
			if t := snap.Unit(a.TargetID); t != nil && t.OnTable() {
				live = append(live, a)
			}
		}
		delete(fp.Assignments, u.ID)
		if len(live) == 0 {
			continue
		}
		primary := snap.Unit(live[0].TargetID)
		rationale := fmt.Sprintf("%s fires on %s", u.Name, primary.Name)
		if len(live) > 1 {
			rationale = fmt.Sprintf("%s splits fire across %d targets", u.Name, countTargets(live))
		}
		return model.Action{
			Kind:      model.ActionShoot,
			Actor:     u.ID,
			Payload:   model.Payload{Assignments: live},
			Rationale: rationale,
		}
	}

	return endPhaseOr(legal, "no profitable shots remain")
}

// shootingActors lists friendly units with a legal shoot action, in id order.
func shootingActors(snap *model.BattleSnapshot, legal []model.LegalAction) []*model.UnitView {
	seen := make(map[string]bool)
	var out []*model.UnitView
	for _, la := range legal {
		if la.Kind != model.ActionShoot || la.Actor == "" || seen[la.Actor] {
			continue
		}
		u := snap.Unit(la.Actor)
		if u == nil || !u.OnTable() {
			continue
		}
		seen[la.Actor] = true
		out = append(out, u)
	}
	sortByID(out)
	return out
}

func countTargets(assignments []model.WeaponAssignment) int {
	seen := make(map[string]bool)
	for _, a := range assignments {
		seen[a.TargetID] = true
	}
	return len(seen)
}
