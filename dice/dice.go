// Package dice computes d6 outcome probabilities and dice-expression
// averages. The decision engine never rolls dice — it estimates, and the host
// rules engine resolves.
package dice

import (
	"regexp"
	"strconv"
	"strings"
)

// ProbAtLeast returns the chance a single d6 rolls tn or higher. A natural 1
// always fails and a natural 6 always succeeds, so the result is clamped to
// [1/6, 5/6] for thresholds in 2..6. Thresholds above 6 are impossible,
// thresholds below 2 auto-succeed on anything but a 1.
func ProbAtLeast(tn int) float64 {
	if tn > 6 {
		return 0
	}
	if tn < 2 {
		tn = 2
	}
	return float64(7-tn) / 6
}

// WoundTarget returns the d6 roll needed for strength s to wound toughness t.
func WoundTarget(s, t int) int {
	switch {
	case s >= 2*t:
		return 2
	case s > t:
		return 3
	case s == t:
		return 4
	case s*2 <= t:
		return 6
	default:
		return 5
	}
}

// SaveTarget returns the effective save threshold for a defender with armor
// save sv (2..6) and invulnerable save inv (0 = none) against armor
// penetration ap (given as a non-negative magnitude). Cover improves the
// armor save by one. Returns 7 when no save is possible.
func SaveTarget(sv, inv, ap int, cover bool) int {
	eff := sv + ap
	if cover {
		eff--
	}
	if eff < 2 {
		eff = 2
	}
	if eff > 6 {
		eff = 7
	}
	if inv > 0 && inv < eff {
		eff = inv
	}
	return eff
}

// FailSaveProb returns the chance the defender fails its best save.
func FailSaveProb(sv, inv, ap int, cover bool) float64 {
	return 1 - ProbAtLeast(SaveTarget(sv, inv, ap, cover))
}

// ChargeProb returns the chance a 2d6 charge roll covers the given distance,
// enumerated exactly over the 36 equally likely outcomes. Distances of 2 or
// less always succeed (2 is the minimum roll); distances beyond 12 never do.
func ChargeProb(dist float64) float64 {
	if dist <= 2 {
		return 1
	}
	if dist > 12 {
		return 0
	}
	need := int(dist)
	if float64(need) < dist {
		need++ // partial inches still require the next pip
	}
	wins := 0
	for a := 1; a <= 6; a++ {
		for b := 1; b <= 6; b++ {
			if a+b >= need {
				wins++
			}
		}
	}
	return float64(wins) / 36
}

var exprRe = regexp.MustCompile(`(?i)^\s*(\d+)?\s*d\s*(\d+)\s*(?:([+\-])\s*(\d+))?\s*$`)

// Average returns the expected value of a dice expression such as "3", "D6",
// "2D6", or "D3+1". Unparseable expressions evaluate to 0 so a malformed
// profile degrades instead of failing.
func Average(expr string) float64 {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0
	}
	if n, err := strconv.Atoi(expr); err == nil {
		return float64(n)
	}
	m := exprRe.FindStringSubmatch(expr)
	if m == nil {
		return 0
	}
	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	sides, _ := strconv.Atoi(m[2])
	avg := float64(count) * float64(sides+1) / 2
	if m[3] != "" {
		k, _ := strconv.Atoi(m[4])
		if m[3] == "-" {
			avg -= float64(k)
		} else {
			avg += float64(k)
		}
	}
	if avg < 0 {
		return 0
	}
	return avg
}

// MaxValue returns the highest possible result of a dice expression, used for
// devastating-wound estimates. Unparseable expressions evaluate to 0.
func MaxValue(expr string) float64 {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0
	}
	if n, err := strconv.Atoi(expr); err == nil {
		return float64(n)
	}
	m := exprRe.FindStringSubmatch(expr)
	if m == nil {
		return 0
	}
	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	sides, _ := strconv.Atoi(m[2])
	max := float64(count * sides)
	if m[3] != "" {
		k, _ := strconv.Atoi(m[4])
		if m[3] == "-" {
			max -= float64(k)
		} else {
			max += float64(k)
		}
	}
	if max < 0 {
		return 0
	}
	return max
}
