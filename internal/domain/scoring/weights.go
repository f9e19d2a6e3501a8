package scoring

// Default weight configuration constants.
const (
	defaultSkillMatchWeight = 0.40
	defaultCapacityWeight   = 0.25
	defaultExperienceWeight = 0.12
	defaultEfficiencyWeight = 0.08
	defaultRoleDirectBonus  = 0.15
	defaultRoleDomainBonus  = 0.08
	defaultQualifyRatio     = 0.30
	defaultExperienceCap    = 15
)

// Weights is the explicit weight configuration of the composite score.
// Centralizing the numbers here keeps them testable and tunable without
// touching control flow.
type Weights struct {
	// SkillMatch scales the skill-match ratio.
	SkillMatch float64 `koanf:"skill_match"`

	// Capacity scales available capacity (1 - workload).
	Capacity float64 `koanf:"capacity"`

	// Experience scales the capped experience score.
	Experience float64 `koanf:"experience"`

	// Efficiency scales the employee's efficiency factor.
	Efficiency float64 `koanf:"efficiency"`

	// RoleDirect is the bonus when the role title names the task's domain.
	RoleDirect float64 `koanf:"role_direct"`

	// RoleDomain is the bonus for a plain domain-tag match.
	RoleDomain float64 `koanf:"role_domain"`

	// QualifyRatio is the minimum skill-match ratio for qualification.
	QualifyRatio float64 `koanf:"qualify_ratio"`

	// ExperienceCapYears is the years-of-experience value that saturates the
	// experience score at 1.
	ExperienceCapYears float64 `koanf:"experience_cap_years"`
}

// DefaultWeights returns the stock configuration.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:         defaultSkillMatchWeight,
		Capacity:           defaultCapacityWeight,
		Experience:         defaultExperienceWeight,
		Efficiency:         defaultEfficiencyWeight,
		RoleDirect:         defaultRoleDirectBonus,
		RoleDomain:         defaultRoleDomainBonus,
		QualifyRatio:       defaultQualifyRatio,
		ExperienceCapYears: defaultExperienceCap,
	}
}
