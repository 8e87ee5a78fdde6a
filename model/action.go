package model

import "github.com/arquen/warmind/geom"

// Action kinds the engine can emit. The host pre-validates which kinds are
// legal each call; EndPhase is the documented catch-all.
const (
	ActionDeploy   = "deploy"
	ActionReserve  = "reserve"
	ActionHold     = "hold"
	ActionMove     = "move"
	ActionAdvance  = "advance"
	ActionScreen   = "screen"
	ActionShoot    = "shoot"
	ActionCharge   = "charge"
	ActionFight    = "fight"
	ActionFallBack = "fall_back"
	ActionScore    = "score"
	ActionEndPhase = "end_phase"
)

// LegalAction is one pre-validated action descriptor from the host: the kind
// plus the minimal parameters needed to disambiguate it.
type LegalAction struct {
	Kind    string   `json:"kind"`
	Actor   string   `json:"actor,omitempty"`
	Targets []string `json:"targets,omitempty"`
	Weapons []string `json:"weapons,omitempty"`
}

// WeaponAssignment pairs one weapon with the enemy unit it fires at or
// swings into.
type WeaponAssignment struct {
	WeaponID string `json:"weaponId"`
	TargetID string `json:"targetId"`
}

// Payload carries the parameters of a chosen action. Only the fields the
// action kind needs are populated.
type Payload struct {
	TargetID     string             `json:"targetId,omitempty"`
	Destinations []geom.Point       `json:"destinations,omitempty"`
	Assignments  []WeaponAssignment `json:"assignments,omitempty"`
	ObjectiveID  string             `json:"objectiveId,omitempty"`
}

// Action is the single output of a decision call. Rationale is advisory for
// logs and replays; the host must never branch on it.
type Action struct {
	Kind      string  `json:"kind"`
	Actor     string  `json:"actor,omitempty"`
	Payload   Payload `json:"payload,omitempty"`
	Rationale string  `json:"rationale"`
}

// EndPhase builds the catch-all end-phase action.
func EndPhase(rationale string) Action {
	return Action{Kind: ActionEndPhase, Rationale: rationale}
}

// FindLegal returns the first legal action with the given kind and actor
// (empty actor matches any), or nil.
func FindLegal(legal []LegalAction, kind, actor string) *LegalAction {
	for i := range legal {
		if legal[i].Kind != kind {
			continue
		}
		if actor == "" || legal[i].Actor == actor {
			return &legal[i]
		}
	}
	return nil
}

// LegalKinds returns the set of kinds present in the legal-action list.
func LegalKinds(legal []LegalAction) map[string]bool {
	out := make(map[string]bool, len(legal))
	for _, la := range legal {
		out[la.Kind] = true
	}
	return out
}
