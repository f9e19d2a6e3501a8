// Package classify infers the work domain of tasks and employees from the
// taxonomy's ordered keyword rules.
package classify

import (
	"strings"

	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/internal/domain/taxonomy"
)

// Classifier tags tasks and employees with a domain. It is stateless; one
// instance can serve any number of runs.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Task classifies a task from its title alone.
func (c *Classifier) Task(t model.TaskSpec) taxonomy.Domain {
	return taxonomy.Detect(t.Title)
}

// Employee classifies an employee. Role text is the stronger signal and is
// checked first; the skill set is the fallback. An employee whose skills are
// exclusively mobile technologies is forced to mobile regardless of what the
// fallback would say.
func (c *Classifier) Employee(e model.Employee) taxonomy.Domain {
	if d := taxonomy.Detect(e.Role); d != taxonomy.Other {
		return d
	}
	if onlyMobileSkills(e.Skills) {
		return taxonomy.Mobile
	}
	return taxonomy.Detect(strings.Join(e.Skills, " "))
}

// onlyMobileSkills reports whether the set contains at least one mobile
// technology and no web-equivalent skill.
func onlyMobileSkills(skills []string) bool {
	sawMobile := false
	for _, s := range skills {
		if taxonomy.WebEquivalentSkill(s) {
			return false
		}
		if taxonomy.MobileSkill(s) {
			sawMobile = true
		}
	}
	return sawMobile
}
