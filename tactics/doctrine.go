package tactics

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// Doctrine is a difficulty profile: the weights that modulate every scoring
// decision, plus posture rules that shift them as the game swings. Weights
// are 0.0–1.0 unless noted.
type Doctrine struct {
	Name               string  `yaml:"name"`
	Aggression         float64 `yaml:"aggression"`
	ObjectiveFocus     float64 `yaml:"objective_focus"`
	RiskAversion       float64 `yaml:"risk_aversion"`
	Noise              float64 `yaml:"noise"`                // score jitter amplitude, 0 = deterministic
	RandomActionChance float64 `yaml:"random_action_chance"` // per-call chance to act at random
	ChargeThreshold    float64 `yaml:"charge_threshold"`     // base declaration bar

	Postures []PostureRule `yaml:"postures"`
}

// PostureRule shifts doctrine weights while its condition holds. Conditions
// are expr source compiled once at profile load against PostureEnv.
type PostureRule struct {
	Name            string  `yaml:"name"`
	When            string  `yaml:"when"`
	AggressionShift float64 `yaml:"aggression_shift"`
	TempoCapShift   float64 `yaml:"tempo_cap_shift"`

	program *vm.Program
}

// PostureEnv is the evaluation environment for posture conditions.
type PostureEnv struct {
	Round  int
	VPDiff int
}

func (e PostureEnv) Trailing() bool   { return e.VPDiff < 0 }
func (e PostureEnv) Leading() bool    { return e.VPDiff > 0 }
func (e PostureEnv) FinalRound() bool { return e.Round >= 5 }
func (e PostureEnv) LateGame() bool   { return e.Round >= 4 }

// Validate clamps all weights to their valid ranges.
func (d *Doctrine) Validate() {
	d.Aggression = clamp(d.Aggression, 0, 1)
	d.ObjectiveFocus = clamp(d.ObjectiveFocus, 0, 1)
	d.RiskAversion = clamp(d.RiskAversion, 0, 1)
	d.Noise = clamp(d.Noise, 0, 5)
	d.RandomActionChance = clamp(d.RandomActionChance, 0, 1)
	if d.ChargeThreshold <= 0 {
		d.ChargeThreshold = 6
	}
}

// Compile compiles every posture condition. A doctrine with a condition that
// fails to compile is rejected whole, so a live profile is never half-valid.
func (d *Doctrine) Compile() error {
	for i := range d.Postures {
		prog, err := expr.Compile(d.Postures[i].When, expr.Env(PostureEnv{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("compile posture %q: %w", d.Postures[i].Name, err)
		}
		d.Postures[i].program = prog
	}
	return nil
}

// posture evaluates all posture rules for the given situation and returns
// the accumulated shifts. Rules whose evaluation errors are skipped.
func (d *Doctrine) posture(env PostureEnv) (aggressionShift, tempoCapShift float64) {
	for i := range d.Postures {
		if d.Postures[i].program == nil {
			continue
		}
		out, err := vm.Run(d.Postures[i].program, env)
		if err != nil {
			continue
		}
		if on, ok := out.(bool); ok && on {
			aggressionShift += d.Postures[i].AggressionShift
			tempoCapShift += d.Postures[i].TempoCapShift
		}
	}
	return aggressionShift, tempoCapShift
}

// DefaultProfiles returns the built-in doctrine per difficulty tier, already
// compiled. Tier 1 plays at random often and sees the board through heavy
// noise; tier 4 is deterministic and fully tuned.
func DefaultProfiles() map[int]Doctrine {
	profiles := map[int]Doctrine{
		1: {
			Name:               "recruit",
			Aggression:         0.5,
			ObjectiveFocus:     0.3,
			RiskAversion:       0.2,
			Noise:              2.5,
			RandomActionChance: 0.35,
			ChargeThreshold:    9,
		},
		2: {
			Name:               "trooper",
			Aggression:         0.5,
			ObjectiveFocus:     0.5,
			RiskAversion:       0.4,
			Noise:              1.2,
			RandomActionChance: 0.1,
			ChargeThreshold:    7.5,
		},
		3: {
			Name:               "sergeant",
			Aggression:         0.6,
			ObjectiveFocus:     0.7,
			RiskAversion:       0.5,
			Noise:              0.4,
			RandomActionChance: 0,
			ChargeThreshold:    6,
			Postures:           defaultPostures(),
		},
		4: {
			Name:               "veteran",
			Aggression:         0.7,
			ObjectiveFocus:     0.85,
			RiskAversion:       0.6,
			Noise:              0,
			RandomActionChance: 0,
			ChargeThreshold:    5.5,
			Postures:           defaultPostures(),
		},
	}
	for tier, d := range profiles {
		d.Validate()
		if err := d.Compile(); err != nil {
			// Built-in conditions are constants; a failure here is a
			// programming error, not a runtime condition.
			panic(err)
		}
		profiles[tier] = d
	}
	return profiles
}

func defaultPostures() []PostureRule {
	return []PostureRule{
		{
			Name:            "opening-tempo",
			When:            "Round <= 2",
			AggressionShift: 0.1,
		},
		{
			Name:            "trailing-push",
			When:            "Trailing() && Round >= 3",
			AggressionShift: 0.15,
			TempoCapShift:   0.1,
		},
		{
			Name:            "desperation",
			When:            "LateGame() && VPDiff <= -12",
			AggressionShift: 0.3,
			TempoCapShift:   0.3,
		},
		{
			Name:            "consolidate-lead",
			When:            "LateGame() && VPDiff >= 12",
			AggressionShift: -0.2,
		},
	}
}

// ProfileFor returns the built-in doctrine for a difficulty tier, clamped to
// the known range.
func ProfileFor(difficulty int) Doctrine {
	profiles := DefaultProfiles()
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 4 {
		difficulty = 4
	}
	return profiles[difficulty]
}

// LoadProfiles reads doctrine overrides from a YAML file keyed by difficulty
// tier. Profiles that fail validation or compilation reject the whole file
// so a bad edit never partially applies.
func LoadProfiles(path string) (map[int]Doctrine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read doctrine file: %w", err)
	}
	var parsed map[int]Doctrine
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse doctrine file: %w", err)
	}
	out := DefaultProfiles()
	for tier, d := range parsed {
		if tier < 1 || tier > 4 {
			return nil, fmt.Errorf("doctrine tier %d out of range 1..4", tier)
		}
		d.Validate()
		if err := d.Compile(); err != nil {
			return nil, fmt.Errorf("doctrine tier %d: %w", tier, err)
		}
		out[tier] = d
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
