// Package scoring ranks candidates for a task by combining skill match,
// availability, experience, efficiency, and role fit into one composite
// score.
package scoring

import (
	"sort"
	"strings"

	"github.com/okian/crewplan/internal/domain/match"
	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/internal/domain/taxonomy"
)

// Candidate is the scored view of one (task, employee) pair. Recomputed fresh
// each run, never cached across runs.
type Candidate struct {
	Employee         model.Employee
	Domain           taxonomy.Domain
	RosterIndex      int
	DomainCompatible bool
	SkillRatio       float64
	MissingSkills    []string
	Capacity         float64
	ExperienceScore  float64
	RoleBonus        float64
	Score            float64
	Qualified        bool
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights replaces the default weight configuration.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// Scorer computes composite candidate scores using an explicit weight
// configuration.
type Scorer struct {
	weights Weights
}

// New creates a Scorer with default weights unless overridden by options.
func New(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the active weight configuration.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the candidate view of one employee for one task.
// Unqualified candidates keep their component fields for explainability but
// carry a composite score of zero.
func (s *Scorer) Score(task model.TaskSpec, taskDomain taxonomy.Domain, emp model.Employee, empDomain taxonomy.Domain, rosterIndex int) Candidate {
	m := match.Skills(task.RequiredSkills, emp.Skills)

	c := Candidate{
		Employee:         emp,
		Domain:           empDomain,
		RosterIndex:      rosterIndex,
		DomainCompatible: taxonomy.Compatible(taskDomain, empDomain),
		SkillRatio:       m.Ratio,
		MissingSkills:    m.Missing,
		Capacity:         emp.AvailableCapacity(),
		ExperienceScore:  s.experienceScore(emp.Experience),
		RoleBonus:        s.RoleBonus(emp.Role, taskDomain, empDomain),
	}

	c.Qualified = c.DomainCompatible && c.SkillRatio >= s.weights.QualifyRatio
	if !c.Qualified {
		return c
	}

	c.Score = s.weights.SkillMatch*c.SkillRatio +
		c.RoleBonus +
		s.weights.Capacity*c.Capacity +
		s.weights.Experience*c.ExperienceScore +
		s.weights.Efficiency*emp.Efficiency
	return c
}

// Rank scores every employee for the task and orders the result: qualified
// before unqualified, then descending composite score. The sort is stable so
// ties keep original roster order.
func (s *Scorer) Rank(task model.TaskSpec, taskDomain taxonomy.Domain, employees []model.Employee, domains []taxonomy.Domain) []Candidate {
	out := make([]Candidate, len(employees))
	for i, emp := range employees {
		out[i] = s.Score(task, taskDomain, emp, domains[i], i)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Qualified != out[j].Qualified {
			return out[i].Qualified
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// RoleBonus is RoleDirect when the role text names the task's domain,
// RoleDomain on a plain domain-tag match, else zero.
func (s *Scorer) RoleBonus(role string, taskDomain, empDomain taxonomy.Domain) float64 {
	if roleMentions(role, taskDomain) {
		return s.weights.RoleDirect
	}
	if taskDomain == empDomain {
		return s.weights.RoleDomain
	}
	return 0
}

func (s *Scorer) experienceScore(years float64) float64 {
	if s.weights.ExperienceCapYears <= 0 {
		return 0
	}
	score := years / s.weights.ExperienceCapYears
	if score > 1 {
		return 1
	}
	return score
}

// roleVocabulary maps a domain to the words and phrases a role title uses to
// name it. Single words are matched per token so that e.g. "ml" does not hit
// inside "html".
var roleVocabulary = map[taxonomy.Domain][]string{
	taxonomy.Mobile:   {"mobile", "ios", "android"},
	taxonomy.Web:      {"web", "frontend", "front-end", "front end"},
	taxonomy.Backend:  {"backend", "back-end", "back end"},
	taxonomy.DevOps:   {"devops", "sre", "site reliability", "infrastructure", "platform"},
	taxonomy.QA:       {"qa", "test", "quality"},
	taxonomy.ML:       {"ml", "machine learning", "data scientist", "data science"},
	taxonomy.Security: {"security"},
}

func roleMentions(role string, d taxonomy.Domain) bool {
	lower := strings.ToLower(role)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == '/' || r == ',' || r == '(' || r == ')'
	})
	for _, kw := range roleVocabulary[d] {
		if strings.Contains(kw, " ") || strings.Contains(kw, "-") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if tok == kw {
				return true
			}
		}
	}
	return false
}
