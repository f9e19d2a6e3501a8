// Package match computes skill overlap between a task's requirements and a
// candidate's skill set.
package match

import "github.com/okian/crewplan/internal/domain/taxonomy"

// FuzzyWeight is how much a domain-equivalent (non-exact) skill hit counts
// relative to an exact hit.
const FuzzyWeight = 0.7

// Result is the outcome of matching one candidate against one task.
type Result struct {
	Exact   int      // case-insensitive exact hits
	Fuzzy   int      // equivalence-group hits
	Ratio   float64  // (exact + FuzzyWeight*fuzzy) / required, clamped to [0,1]
	Missing []string // required skills with no hit at all; diagnostics only
}

// Skills matches required skills against a candidate's set. With no required
// skills the ratio is 1: a task that asks for nothing is fully matched.
func Skills(required, skills []string) Result {
	if len(required) == 0 {
		return Result{Ratio: 1}
	}

	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[taxonomy.NormalizeSkill(s)] = struct{}{}
	}

	var res Result
	for _, req := range required {
		if _, ok := have[taxonomy.NormalizeSkill(req)]; ok {
			res.Exact++
			continue
		}
		if fuzzyHit(req, skills) {
			res.Fuzzy++
			continue
		}
		res.Missing = append(res.Missing, req)
	}

	ratio := (float64(res.Exact) + FuzzyWeight*float64(res.Fuzzy)) / float64(len(required))
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	res.Ratio = ratio
	return res
}

func fuzzyHit(required string, skills []string) bool {
	for _, s := range skills {
		if taxonomy.Equivalent(required, s) {
			return true
		}
	}
	return false
}
