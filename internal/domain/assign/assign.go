// Package assign fills task headcounts from ranked candidates under budget,
// capacity, and stress constraints, recording a rejection for every candidate
// it passes over.
package assign

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/internal/domain/scoring"
)

// Default assigner configuration constants.
const (
	// DefaultProductiveHoursPerWeek is the assumed productive hours one
	// person contributes per week.
	DefaultProductiveHoursPerWeek = 30

	minTeamSize = 1
	maxTeamSize = 3

	baseWorkloadCeiling  = 0.75
	workloadCeilingCap   = 0.90
	roleLeniencyMinBonus = 0.15

	stressCeiling        = 0.65
	stressCeilingLenient = 0.75

	fallbackMinCapacity = 0.10

	// explainabilitySlots bounds how many qualified-but-unselected
	// candidates get a courtesy rejection per task.
	explainabilitySlots = 3

	// partialSkillsRatio is the skill-match ratio under which a courtesy
	// rejection reads "Partial skills" rather than "Better match found".
	partialSkillsRatio = 0.7

	// deadlinePressureShare flags tasks whose per-person hours consume more
	// than this share of the hours available before the deadline.
	deadlinePressureShare = 0.8
)

// Option applies a configuration option to the Assigner.
type Option func(*Assigner)

// WithProductiveHoursPerWeek overrides the assumed productive hours per
// person per week used by the team sizer.
func WithProductiveHoursPerWeek(hours float64) Option {
	return func(a *Assigner) {
		if hours > 0 {
			a.hoursPerWeek = hours
		}
	}
}

// Assigner performs constrained greedy assignment. It is stateless across
// runs; all mutable run state lives in the Ledger and RejectionLog the caller
// provides.
type Assigner struct {
	hoursPerWeek float64
}

// New creates an Assigner.
func New(opts ...Option) *Assigner {
	a := &Assigner{hoursPerWeek: DefaultProductiveHoursPerWeek}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TeamSize converts estimated hours and the deadline into required headcount,
// bounded to [1, 3].
func (a *Assigner) TeamSize(t model.TaskSpec) int {
	weeks := t.DeadlineWeeks
	if weeks < 1 {
		weeks = 1
	}
	n := int(math.Ceil(t.EstimatedHours / (a.hoursPerWeek * float64(weeks))))
	if n < minTeamSize {
		return minTeamSize
	}
	if n > maxTeamSize {
		return maxTeamSize
	}
	return n
}

// Assign walks tasks in input order, filling each from its ranked candidate
// list. Earlier tasks get first claim on the shared budget ledger. Tasks with
// zero final assignees produce no Allocation; that is a result state, not an
// error.
func (a *Assigner) Assign(tasks []model.TaskSpec, ranked [][]scoring.Candidate, ledger *Ledger, log *RejectionLog) []model.Allocation {
	allocations := make([]model.Allocation, 0, len(tasks))
	for i, t := range tasks {
		if alloc, ok := a.assignTask(t, ranked[i], ledger, log); ok {
			allocations = append(allocations, alloc)
		}
	}
	return allocations
}

func (a *Assigner) assignTask(t model.TaskSpec, ranked []scoring.Candidate, ledger *Ledger, log *RejectionLog) (model.Allocation, bool) {
	need := a.TeamSize(t)

	var team []scoring.Candidate
	var fallback []scoring.Candidate

	for _, c := range ranked {
		if len(team) >= need {
			break
		}
		if !c.Qualified {
			if !c.DomainCompatible {
				log.Add(t.ID, c.Employee.ID, ReasonWrongDomain)
			}
			continue
		}

		cost := marginalCost(t, len(team), c.Employee.HourlyRate)
		if !ledger.Permits(cost) {
			log.Add(t.ID, c.Employee.ID, ReasonOverBudget)
			continue
		}

		maxWorkload := baseWorkloadCeiling
		if c.RoleBonus >= roleLeniencyMinBonus {
			maxWorkload += roleLeniencyMinBonus
		}
		if maxWorkload > workloadCeilingCap {
			maxWorkload = workloadCeilingCap
		}
		if c.Capacity < 1-maxWorkload {
			// Over the capacity ceiling. Not rejected yet: the fallback
			// tier may still take them if nobody else fits.
			fallback = append(fallback, c)
			continue
		}

		threshold := stressCeiling
		if c.RoleBonus >= roleLeniencyMinBonus {
			threshold = stressCeilingLenient
		}
		if c.Employee.Stress > threshold {
			log.Add(t.ID, c.Employee.ID, ReasonHighStress)
			continue
		}

		team = append(team, c)
		ledger.Commit(cost)
	}

	// Relaxed fallback tier: re-scan deferred candidates in score order.
	for _, c := range fallback {
		if len(team) >= need {
			log.Add(t.ID, c.Employee.ID, workloadReason(c.Employee))
			continue
		}
		cost := marginalCost(t, len(team), c.Employee.HourlyRate)
		if c.Capacity >= fallbackMinCapacity && ledger.Permits(cost) {
			team = append(team, c)
			ledger.Commit(cost)
			continue
		}
		log.Add(t.ID, c.Employee.ID, ReasonFullyBooked)
	}

	a.explainPassedOver(t, ranked, team, log)

	if len(team) == 0 {
		return model.Allocation{}, false
	}
	return a.buildAllocation(t, team), true
}

// explainPassedOver records courtesy rejections for up to three qualified
// candidates that were neither assigned nor rejected on a hard constraint.
func (a *Assigner) explainPassedOver(t model.TaskSpec, ranked, team []scoring.Candidate, log *RejectionLog) {
	assigned := make(map[string]struct{}, len(team))
	for _, c := range team {
		assigned[c.Employee.ID] = struct{}{}
	}
	slots := explainabilitySlots
	for _, c := range ranked {
		if slots == 0 {
			return
		}
		if !c.Qualified {
			continue
		}
		if _, ok := assigned[c.Employee.ID]; ok {
			continue
		}
		if log.Has(t.ID, c.Employee.ID) {
			continue
		}
		reason := ReasonBetterMatch
		switch {
		case c.Employee.Stress > stressCeiling:
			reason = ReasonHighStress
		case c.SkillRatio < partialSkillsRatio:
			reason = ReasonPartialSkills
		}
		log.Add(t.ID, c.Employee.ID, reason)
		slots--
	}
}

func (a *Assigner) buildAllocation(t model.TaskSpec, team []scoring.Candidate) model.Allocation {
	ids := make([]string, len(team))
	var scoreSum float64
	for i, c := range team {
		ids[i] = c.Employee.ID
		scoreSum += c.Score
	}
	confidence := scoreSum / float64(len(team))
	if confidence > 1 {
		confidence = 1
	}

	hoursPer := t.EstimatedHours / float64(len(team))

	return model.Allocation{
		TaskID:         t.ID,
		Assignees:      ids,
		Reasoning:      a.reasoning(t, team),
		Confidence:     confidence,
		EstimatedHours: hoursPer,
		RiskFactors:    a.riskFactors(t, team, hoursPer),
	}
}

func (a *Assigner) reasoning(t model.TaskSpec, team []scoring.Candidate) string {
	primary := team[0]
	var b strings.Builder
	fmt.Fprintf(&b, "%s leads with composite score %.2f (skill match %.0f%%, free capacity %.0f%%)",
		primary.Employee.Name, primary.Score, primary.SkillRatio*100, primary.Capacity*100)
	if len(team) > 1 {
		names := make([]string, 0, len(team)-1)
		for _, c := range team[1:] {
			names = append(names, c.Employee.Name)
		}
		fmt.Fprintf(&b, "; supported by %s", strings.Join(names, ", "))
	}
	if len(primary.MissingSkills) > 0 {
		fmt.Fprintf(&b, "; unmatched skills: %s", strings.Join(primary.MissingSkills, ", "))
	}
	return b.String()
}

func (a *Assigner) riskFactors(t model.TaskSpec, team []scoring.Candidate, hoursPer float64) []string {
	var factors []string
	available := float64(t.DeadlineWeeks) * a.hoursPerWeek
	if hoursPer > deadlinePressureShare*available {
		factors = append(factors, fmt.Sprintf("deadline pressure: %.0fh per person against %.0fh available", hoursPer, available))
	}
	for _, c := range team {
		if c.Employee.Workload > highWorkloadShare {
			factors = append(factors, fmt.Sprintf("%s already above %.0f%% workload", c.Employee.Name, highWorkloadShare*100))
		}
	}
	return factors
}

// highWorkloadShare mirrors the aggregator's overload threshold so the
// per-allocation risk factors and the run-level risk assessment agree.
const highWorkloadShare = 0.70

// marginalCost is the additional spend of adding one more assignee: the
// task's hours re-split over the grown team, priced at the newcomer's rate.
func marginalCost(t model.TaskSpec, current int, rate float64) float64 {
	hoursPer := t.EstimatedHours / float64(current+1)
	return hoursPer * rate
}

func workloadReason(e model.Employee) string {
	return fmt.Sprintf("%.0f%% workload", e.Workload*100)
}
