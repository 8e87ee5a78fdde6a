package tactics

import "github.com/arquen/warmind/model"

// roundStrategy is the round-dependent urgency curve: how much weight the
// engine puts on pressing forward, holding objectives, and keeping units
// alive at each stage of the game.
type roundStrategy struct {
	Aggression float64 // forward pressure
	Objective  float64 // objective urgency
	Survival   float64 // attrition caution
}

// strategyFor returns the urgency weights for a round: aggressive early,
// balanced mid, objective- and survival-weighted late.
func strategyFor(round int) roundStrategy {
	switch {
	case round <= 2:
		return roundStrategy{Aggression: 1.0, Objective: 0.7, Survival: 0.4}
	case round == 3:
		return roundStrategy{Aggression: 0.7, Objective: 1.0, Survival: 0.7}
	default:
		return roundStrategy{Aggression: 0.4, Objective: 1.2, Survival: 1.0}
	}
}

// Tempo caps: a trailing side speeds up, but never beyond tempoCapBase plus
// any posture shift; the desperation spike applies only when behind late.
const (
	tempoCapBase        = 1.3
	tempoTrailingRate   = 0.02 // boost per VP behind
	tempoDesperation    = 1.5
	desperationVPBehind = -15
)

// situation is the per-call bundle of doctrine, urgency and tempo the
// handlers score with. Built fresh at every decision from live state.
type situation struct {
	strategy        roundStrategy
	tempo           float64
	aggression      float64 // doctrine aggression after posture shifts
	round           int
	vpDiff          int
}

// situationFor derives the scoring situation from the snapshot: round
// urgency, posture-shifted aggression, and the VP-tempo modifier (trailing
// boost, capped; desperation spike when behind in the final rounds).
func (c *Context) situationFor(snap *model.BattleSnapshot) situation {
	round := snap.Round
	vpDiff := snap.VictoryDiff(c.Side)

	aggShift, capShift := c.Doctrine.posture(PostureEnv{Round: round, VPDiff: vpDiff})
	cap := tempoCapBase + capShift

	tempo := 1.0
	if vpDiff < 0 {
		tempo = 1 + float64(-vpDiff)*tempoTrailingRate
		if tempo > cap {
			tempo = cap
		}
		if round >= 4 && vpDiff <= desperationVPBehind && tempoDesperation > tempo {
			tempo = tempoDesperation
		}
	}

	return situation{
		strategy:   strategyFor(round),
		tempo:      tempo,
		aggression: clamp(c.Doctrine.Aggression+aggShift, 0, 1),
		round:      round,
		vpDiff:     vpDiff,
	}
}
