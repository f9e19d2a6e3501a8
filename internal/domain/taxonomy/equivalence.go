package taxonomy

import "strings"

// equivalenceGroups are sets of skills treated as near-interchangeable for
// fuzzy matching. A required skill absent from a candidate's set still counts
// (at reduced weight) when both sides share a group.
var equivalenceGroups = [][]string{
	{"machine learning", "ml", "tensorflow", "pytorch", "deep learning", "scikit-learn"},
	{"javascript", "typescript", "node.js", "node", "es6"},
	{"react", "vue", "angular", "next.js", "svelte"},
	{"react native", "flutter", "mobile development"},
	{"swift", "ios", "swiftui"},
	{"kotlin", "android", "jetpack compose"},
	{"go", "golang"},
	{"python", "django", "flask", "fastapi"},
	{"java", "spring", "spring boot"},
	{"sql", "postgresql", "mysql", "database design", "sqlite"},
	{"nosql", "mongodb", "redis", "dynamodb"},
	{"aws", "gcp", "azure", "cloud"},
	{"docker", "kubernetes", "containers", "helm"},
	{"ci/cd", "jenkins", "github actions", "gitlab ci"},
	{"terraform", "ansible", "infrastructure as code", "pulumi"},
	{"testing", "test automation", "selenium", "cypress", "qa"},
	{"security", "penetration testing", "encryption", "oauth", "authentication"},
	{"rest", "rest api", "api design", "graphql", "grpc"},
	{"html", "css", "sass", "tailwind"},
}

// groupIndex maps a normalized skill to its group id. Built once at package
// init; the groups above are static data.
var groupIndex = func() map[string]int {
	idx := make(map[string]int)
	for i, group := range equivalenceGroups {
		for _, s := range group {
			idx[s] = i
		}
	}
	return idx
}()

// NormalizeSkill lowercases and trims a skill name for lookup.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equivalent reports whether two skills are exact (case-insensitive) matches
// or belong to the same equivalence group.
func Equivalent(a, b string) bool {
	na, nb := NormalizeSkill(a), NormalizeSkill(b)
	if na == nb {
		return true
	}
	ga, okA := groupIndex[na]
	gb, okB := groupIndex[nb]
	return okA && okB && ga == gb
}

// MobileSkill reports whether a skill is a mobile-specific technology.
// Used by the classifier to force employees whose skill set is exclusively
// mobile into the mobile domain even when their role text is ambiguous.
func MobileSkill(s string) bool {
	switch groupID, ok := groupIndex[NormalizeSkill(s)]; {
	case !ok:
		return false
	default:
		first := equivalenceGroups[groupID][0]
		return first == "react native" || first == "swift" || first == "kotlin"
	}
}

// WebEquivalentSkill reports whether a skill would let an employee pass as a
// web developer. The mobile-forcing rule in the classifier only fires when no
// such skill is present.
func WebEquivalentSkill(s string) bool {
	switch groupID, ok := groupIndex[NormalizeSkill(s)]; {
	case !ok:
		return false
	default:
		first := equivalenceGroups[groupID][0]
		return first == "javascript" || first == "react" || first == "html"
	}
}
