// Package finance aggregates the cost, savings, and risk picture of a
// finished allocation set.
package finance

import (
	"fmt"
	"strings"

	"github.com/okian/crewplan/internal/domain/model"
)

// Default aggregator configuration constants.
const (
	// DefaultMarketRate is the reference hourly rate savings are measured
	// against.
	DefaultMarketRate = 150

	// overloadedWorkload marks an assignee as overloaded for risk purposes.
	overloadedWorkload = 0.70

	// deadlineShare flags tasks whose hours exceed this share of the hours
	// available before the deadline.
	deadlineShare = 0.80

	// efficiencyBaseline is the market-average efficiency the time
	// efficiency gain is measured against.
	efficiencyBaseline = 0.75
)

// RiskLevel orders risk findings. Levels only escalate across checks, never
// downgrade.
type RiskLevel int

// Risk levels, lowest first.
const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (l RiskLevel) String() string {
	switch l {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithMarketRate overrides the reference market rate.
func WithMarketRate(rate float64) Option {
	return func(a *Aggregator) {
		if rate > 0 {
			a.marketRate = rate
		}
	}
}

// WithProductiveHoursPerWeek overrides the productive hours per person per
// week used by the deadline-capacity check.
func WithProductiveHoursPerWeek(hours float64) Option {
	return func(a *Aggregator) {
		if hours > 0 {
			a.hoursPerWeek = hours
		}
	}
}

// Aggregator computes BusinessAnalytics from a final allocation set.
type Aggregator struct {
	marketRate   float64
	hoursPerWeek float64
}

// New creates an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		marketRate:   DefaultMarketRate,
		hoursPerWeek: 30,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes cost, savings, and the risk assessment for a run.
// Employees must contain every assignee; the engine validates ids before the
// repair pass, so a miss here only degrades the averages.
func (a *Aggregator) Aggregate(tasks []model.TaskSpec, allocs []model.Allocation, employees map[string]model.Employee) model.BusinessAnalytics {
	taskByID := make(map[string]model.TaskSpec, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	var totalCost, allocatedHours float64
	var efficiencySum float64
	var assigneeCount int
	for _, alloc := range allocs {
		t, ok := taskByID[alloc.TaskID]
		if !ok || len(alloc.Assignees) == 0 {
			continue
		}
		hoursPer := t.EstimatedHours / float64(len(alloc.Assignees))
		for _, id := range alloc.Assignees {
			e, found := employees[id]
			if !found {
				continue
			}
			totalCost += hoursPer * e.HourlyRate
			efficiencySum += e.Efficiency
			assigneeCount++
		}
		allocatedHours += t.EstimatedHours
	}

	reference := allocatedHours * a.marketRate
	savings := reference - totalCost
	var savingsPct float64
	if reference > 0 {
		savingsPct = savings / reference
	}

	var gain, roi float64
	if assigneeCount > 0 {
		avgEfficiency := efficiencySum / float64(assigneeCount)
		gain = (avgEfficiency - efficiencyBaseline) / efficiencyBaseline
	}
	if totalCost > 0 {
		roi = savings / totalCost
	}

	return model.BusinessAnalytics{
		TotalEstimatedCost: totalCost,
		ProjectedSavings:   savings,
		SavingsPercentage:  savingsPct,
		TimeEfficiencyGain: gain,
		RiskAssessment:     a.riskAssessment(tasks, allocs, employees),
		ROIEstimate:        roi,
	}
}

// riskAssessment runs the ordered risk checks. Each check can only raise the
// level; the final string concatenates whatever fired, or reports low risk.
func (a *Aggregator) riskAssessment(tasks []model.TaskSpec, allocs []model.Allocation, employees map[string]model.Employee) string {
	allocated := make(map[string]model.Allocation, len(allocs))
	for _, al := range allocs {
		if len(al.Assignees) > 0 {
			allocated[al.TaskID] = al
		}
	}

	level := RiskLow
	var findings []string

	unassigned := 0
	for _, t := range tasks {
		if _, ok := allocated[t.ID]; !ok {
			unassigned++
		}
	}
	if unassigned > 0 {
		level = RiskHigh
		findings = append(findings, fmt.Sprintf("%d task(s) unassigned", unassigned))
	}

	overloaded := make(map[string]struct{})
	for _, al := range allocated {
		for _, id := range al.Assignees {
			if e, ok := employees[id]; ok && e.Workload > overloadedWorkload {
				overloaded[id] = struct{}{}
			}
		}
	}
	if len(overloaded) > 0 {
		if level < RiskMedium {
			level = RiskMedium
		}
		findings = append(findings, fmt.Sprintf("%d assignee(s) above %.0f%% workload", len(overloaded), overloadedWorkload*100))
	}

	tight := 0
	for _, t := range tasks {
		al, ok := allocated[t.ID]
		if !ok {
			continue
		}
		available := float64(t.DeadlineWeeks) * a.hoursPerWeek * float64(len(al.Assignees))
		if t.EstimatedHours > deadlineShare*available {
			tight++
		}
	}
	if tight > 0 {
		if level < RiskMedium {
			level = RiskMedium
		}
		findings = append(findings, fmt.Sprintf("%d task(s) close to deadline capacity", tight))
	}

	if len(findings) == 0 {
		return "Low risk"
	}
	return fmt.Sprintf("%s risk: %s", level, strings.Join(findings, "; "))
}
