package model

import (
	"regexp"
	"strconv"
	"strings"
)

// Weapon kinds.
const (
	WeaponRanged = "ranged"
	WeaponMelee  = "melee"
)

// WeaponProfile is one attack profile. Attacks and Damage are dice
// expressions ("2", "D6", "D3+1") evaluated as averages by the estimators.
type WeaponProfile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Range    float64  `json:"range"`
	Attacks  string   `json:"attacks"`
	Skill    int      `json:"skill"` // to-hit threshold, e.g. 3 for 3+
	Strength int      `json:"strength"`
	AP       int      `json:"ap"` // magnitude, 2 means AP-2
	Damage   string   `json:"damage"`
	Specials []string `json:"specials"`

	// Rules is populated from Specials at the snapshot boundary; scoring
	// code reads these typed fields, never the strings.
	Rules WeaponRules `json:"-"`
}

func (w *WeaponProfile) normalize() {
	if w.Kind == "" {
		w.Kind = WeaponRanged
	}
	if w.Attacks == "" {
		w.Attacks = "1"
	}
	if w.Skill == 0 {
		w.Skill = 4
	}
	if w.Strength == 0 {
		w.Strength = 4
	}
	if w.Damage == "" {
		w.Damage = "1"
	}
	if w.ID == "" {
		w.ID = w.Name
	}
	w.Rules = ParseWeaponRules(w.Specials)
}

// WeaponRules is the typed form of a weapon's free-text special-rules tokens.
type WeaponRules struct {
	Blast             bool
	Torrent           bool
	LethalHits        bool
	DevastatingWounds bool
	TwinLinked        bool
	IgnoresCover      bool
	ExtraAttacks      bool
	OneShot           bool
	RapidFire         int    // bonus attacks at half range
	Melta             int    // bonus damage at half range
	SustainedHits     int    // extra hits per critical hit
	AntiKeyword       string // critical wound threshold vs this keyword
	AntiValue         int
}

var (
	rapidFireRe = regexp.MustCompile(`^rapid[ -]?fire\s*(\d+)$`)
	meltaRe     = regexp.MustCompile(`^melta\s*(\d+)$`)
	sustainedRe = regexp.MustCompile(`^sustained\s+hits\s*(\d+)$`)
	antiRe      = regexp.MustCompile(`^anti[ -](\S+)\s+(\d)\+$`)
)

// ParseWeaponRules converts special-rules tokens into typed fields. Tokens it
// does not recognize are ignored; the host may carry rules the engine does
// not score.
func ParseWeaponRules(specials []string) WeaponRules {
	var r WeaponRules
	for _, raw := range specials {
		tok := strings.ToLower(strings.TrimSpace(raw))
		switch tok {
		case "blast":
			r.Blast = true
			continue
		case "torrent":
			r.Torrent = true
			continue
		case "lethal hits":
			r.LethalHits = true
			continue
		case "devastating wounds":
			r.DevastatingWounds = true
			continue
		case "twin-linked", "twin linked":
			r.TwinLinked = true
			continue
		case "ignores cover":
			r.IgnoresCover = true
			continue
		case "extra attacks":
			r.ExtraAttacks = true
			continue
		case "one shot":
			r.OneShot = true
			continue
		}
		if m := rapidFireRe.FindStringSubmatch(tok); m != nil {
			r.RapidFire, _ = strconv.Atoi(m[1])
			continue
		}
		if m := meltaRe.FindStringSubmatch(tok); m != nil {
			r.Melta, _ = strconv.Atoi(m[1])
			continue
		}
		if m := sustainedRe.FindStringSubmatch(tok); m != nil {
			r.SustainedHits, _ = strconv.Atoi(m[1])
			continue
		}
		if m := antiRe.FindStringSubmatch(tok); m != nil {
			n, _ := strconv.Atoi(m[2])
			if n >= 2 && n <= 6 {
				r.AntiKeyword = m[1]
				r.AntiValue = n
			}
		}
	}
	return r
}
