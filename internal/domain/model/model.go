// Package model contains domain models passed between layers.
package model

// Employee is one roster member. Loaded once per run from the employee
// directory and treated as an immutable snapshot for the duration of the run.
type Employee struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Role       string   `json:"role" yaml:"role"`
	Skills     []string `json:"skills" yaml:"skills"`
	Workload   float64  `json:"workload" yaml:"workload"`     // fraction of capacity consumed, 0..1
	HourlyRate float64  `json:"hourly_rate" yaml:"hourly_rate"`
	Experience float64  `json:"experience_years" yaml:"experience_years"`
	Stress     float64  `json:"stress" yaml:"stress"`         // 0..1
	Efficiency float64  `json:"efficiency" yaml:"efficiency"` // 0..1
	Available  bool     `json:"available" yaml:"available"`
}

// AvailableCapacity is the fraction of capacity still free.
func (e Employee) AvailableCapacity() float64 {
	c := 1 - e.Workload
	if c < 0 {
		return 0
	}
	return c
}

// TaskSpec is one work item to be staffed. Immutable input to a run.
type TaskSpec struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	RequiredSkills []string `json:"required_skills" yaml:"required_skills"`
	EstimatedHours float64  `json:"estimated_hours" yaml:"estimated_hours"`
	DeadlineWeeks  int      `json:"deadline_weeks" yaml:"deadline_weeks"`
	Priority       string   `json:"priority" yaml:"priority"`
}

// Allocation records who was assigned to a task. The first assignee is the
// primary. A task with no qualified candidate has no Allocation at all.
type Allocation struct {
	TaskID         string   `json:"task_id"`
	Assignees      []string `json:"assignees"`
	Reasoning      string   `json:"reasoning"`
	Confidence     float64  `json:"confidence"`
	EstimatedHours float64  `json:"estimated_hours"` // hours per assignee
	RiskFactors    []string `json:"risk_factors"`
}

// Rejection explains why one employee was passed over for one task.
// At most one Rejection exists per (task, employee) pair.
type Rejection struct {
	TaskID     string `json:"task_id"`
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// TimelineWeek is one entry of the pass-through schedule view.
type TimelineWeek struct {
	Week    int      `json:"week"`
	TaskIDs []string `json:"task_ids"`
	Hours   float64  `json:"hours"`
}

// BusinessAnalytics aggregates the financial and risk picture of a run.
type BusinessAnalytics struct {
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	ProjectedSavings   float64 `json:"projected_savings"`
	SavingsPercentage  float64 `json:"savings_percentage"`
	TimeEfficiencyGain float64 `json:"time_efficiency_gain"`
	RiskAssessment     string  `json:"risk_assessment"`
	ROIEstimate        float64 `json:"roi_estimate"`
}

// AllocationResult is the full output of one allocation run.
type AllocationResult struct {
	RunID       string            `json:"run_id,omitempty"`
	Tasks       []TaskSpec        `json:"tasks"`
	Allocations []Allocation      `json:"allocations"`
	Rejections  []Rejection       `json:"rejections"`
	Timeline    []TimelineWeek    `json:"timeline"`
	Analytics   BusinessAnalytics `json:"business_analytics"`
}

// Allocated reports whether the task id carries an allocation with at least
// one assignee.
func (r AllocationResult) Allocated(taskID string) bool {
	for _, a := range r.Allocations {
		if a.TaskID == taskID && len(a.Assignees) > 0 {
			return true
		}
	}
	return false
}
