package model

import "testing"

func TestParseWeaponRules(t *testing.T) {
	tests := []struct {
		name     string
		specials []string
		want     WeaponRules
	}{
		{
			name:     "empty",
			specials: nil,
			want:     WeaponRules{},
		},
		{
			name:     "simple flags",
			specials: []string{"Blast", "Torrent", "Lethal Hits"},
			want:     WeaponRules{Blast: true, Torrent: true, LethalHits: true},
		},
		{
			name:     "rapid fire and melta take magnitudes",
			specials: []string{"Rapid Fire 2", "Melta 4"},
			want:     WeaponRules{RapidFire: 2, Melta: 4},
		},
		{
			name:     "rapid-fire with hyphen",
			specials: []string{"rapid-fire 1"},
			want:     WeaponRules{RapidFire: 1},
		},
		{
			name:     "sustained hits",
			specials: []string{"Sustained Hits 1"},
			want:     WeaponRules{SustainedHits: 1},
		},
		{
			name:     "anti keyword with threshold",
			specials: []string{"Anti-Vehicle 4+"},
			want:     WeaponRules{AntiKeyword: "vehicle", AntiValue: 4},
		},
		{
			name:     "anti threshold out of range ignored",
			specials: []string{"Anti-Infantry 7+"},
			want:     WeaponRules{},
		},
		{
			name:     "twin linked both spellings",
			specials: []string{"Twin-Linked"},
			want:     WeaponRules{TwinLinked: true},
		},
		{
			name:     "unknown tokens ignored",
			specials: []string{"Hazardous", "Precision"},
			want:     WeaponRules{},
		},
		{
			name:     "one shot and extra attacks",
			specials: []string{"One Shot", "Extra Attacks"},
			want:     WeaponRules{OneShot: true, ExtraAttacks: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseWeaponRules(tt.specials); got != tt.want {
				t.Errorf("ParseWeaponRules(%v) = %+v, want %+v", tt.specials, got, tt.want)
			}
		})
	}
}

func TestWeaponNormalizeDefaults(t *testing.T) {
	w := WeaponProfile{Name: "boltgun", Specials: []string{"Rapid Fire 1"}}
	w.normalize()
	if w.Kind != WeaponRanged {
		t.Errorf("Kind = %q, want ranged", w.Kind)
	}
	if w.Attacks != "1" || w.Damage != "1" {
		t.Errorf("Attacks/Damage = %q/%q, want 1/1", w.Attacks, w.Damage)
	}
	if w.Skill != 4 || w.Strength != 4 {
		t.Errorf("Skill/Strength = %d/%d, want 4/4", w.Skill, w.Strength)
	}
	if w.ID != "boltgun" {
		t.Errorf("ID = %q, want name fallback", w.ID)
	}
	if w.Rules.RapidFire != 1 {
		t.Errorf("Rules.RapidFire = %d, want 1", w.Rules.RapidFire)
	}
}
