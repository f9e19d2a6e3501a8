// Package taxonomy holds the static work-domain data: keyword rules for
// domain detection, skill equivalence groups, and the domain compatibility
// matrix. Everything here is data; the matching logic lives in classify and
// match.
package taxonomy

import "strings"

// Domain tags a task or an employee with a work area.
type Domain string

// Known domain tags.
const (
	Mobile   Domain = "mobile"
	Web      Domain = "web"
	Backend  Domain = "backend"
	DevOps   Domain = "devops"
	QA       Domain = "qa"
	ML       Domain = "ml"
	Security Domain = "security"
	Other    Domain = "other"
)

// Rule maps a keyword set to a domain. Rules are evaluated in order and the
// first keyword hit wins.
type Rule struct {
	Domain   Domain
	Keywords []string
}

// Rules is the ordered detection table. Mobile comes before web on purpose:
// mobile vocabulary ("react native", "app") overlaps web vocabulary, and a
// mobile task misfiled as web breaks the compatibility matrix downstream.
// Reordering this table changes classification behavior.
func Rules() []Rule {
	return []Rule{
		{Mobile, []string{"ios", "android", "react native", "react-native", "flutter", "swift", "kotlin", "mobile", "app store"}},
		{ML, []string{"machine learning", "ml model", "neural", "tensorflow", "pytorch", "data science", "recommendation", "llm"}},
		{Security, []string{"security", "authentication", "authorization", "encryption", "vulnerability", "penetration", "oauth"}},
		{DevOps, []string{"devops", "deployment", "deploy", "ci/cd", "cicd", "pipeline", "docker", "kubernetes", "terraform", "infrastructure", "monitoring"}},
		{QA, []string{"qa", "test", "testing", "quality assurance", "regression"}},
		{Web, []string{"web", "frontend", "front-end", "react", "vue", "angular", "dashboard", "ui", "css", "html", "landing page"}},
		{Backend, []string{"backend", "back-end", "api", "server", "database", "microservice", "sql", "queue", "integration"}},
	}
}

// Detect runs the ordered rule table over text and returns the first matching
// domain, or Other when nothing matches.
func Detect(text string) Domain {
	lower := strings.ToLower(text)
	for _, r := range Rules() {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Domain
			}
		}
	}
	return Other
}

// Compatible reports whether an employee tagged empDomain may work a task
// tagged taskDomain. Other is a flexible employee tag modeling a generalist:
// it covers web, backend, and other tasks but is never automatically
// compatible with mobile. A task tagged Other accepts anyone.
func Compatible(taskDomain, empDomain Domain) bool {
	if taskDomain == empDomain || taskDomain == Other {
		return true
	}
	if empDomain == Other {
		return taskDomain == Web || taskDomain == Backend
	}
	return false
}

// violations lists, per task domain, the employee domains the repair pass
// must strip. This is deliberately narrower than !Compatible: repair only
// undoes pairings known to be harmful, not every speculative mismatch.
var violations = map[Domain][]Domain{
	Web:    {Mobile, Backend},
	Mobile: {Web, Backend},
}

// Violates reports whether the (task, employee) domain pairing is in the
// fixed incompatibility matrix. Tasks tagged Other are never violated.
func Violates(taskDomain, empDomain Domain) bool {
	for _, d := range violations[taskDomain] {
		if d == empDomain {
			return true
		}
	}
	return false
}
