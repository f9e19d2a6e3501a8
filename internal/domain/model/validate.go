package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for ingress validation. These allow errors.Is/As from
// callers.
var (
	ErrInvalidEmployee = errors.New("invalid employee")
	ErrInvalidTask     = errors.New("invalid task")
)

// ValidateEmployee checks the fields an allocation run depends on. A failure
// here is an integration bug in the caller, not a business outcome, so runs
// fail fast before any scoring happens.
func ValidateEmployee(e Employee) error {
	switch {
	case strings.TrimSpace(e.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidEmployee)
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: employee %s: missing name", ErrInvalidEmployee, e.ID)
	case e.Workload < 0 || e.Workload > 1:
		return fmt.Errorf("%w: employee %s: workload %v out of [0,1]", ErrInvalidEmployee, e.ID, e.Workload)
	case e.Stress < 0 || e.Stress > 1:
		return fmt.Errorf("%w: employee %s: stress %v out of [0,1]", ErrInvalidEmployee, e.ID, e.Stress)
	case e.Efficiency < 0 || e.Efficiency > 1:
		return fmt.Errorf("%w: employee %s: efficiency %v out of [0,1]", ErrInvalidEmployee, e.ID, e.Efficiency)
	case e.HourlyRate < 0:
		return fmt.Errorf("%w: employee %s: negative hourly rate", ErrInvalidEmployee, e.ID)
	case e.Experience < 0:
		return fmt.Errorf("%w: employee %s: negative experience", ErrInvalidEmployee, e.ID)
	}
	return nil
}

// ValidateTask checks the fields an allocation run depends on.
func ValidateTask(t TaskSpec) error {
	switch {
	case strings.TrimSpace(t.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidTask)
	case strings.TrimSpace(t.Title) == "":
		return fmt.Errorf("%w: task %s: missing title", ErrInvalidTask, t.ID)
	case t.EstimatedHours <= 0:
		return fmt.Errorf("%w: task %s: estimated hours must be positive", ErrInvalidTask, t.ID)
	case t.DeadlineWeeks < 1:
		return fmt.Errorf("%w: task %s: deadline weeks must be at least 1", ErrInvalidTask, t.ID)
	}
	return nil
}

// ValidateRoster validates every employee and rejects duplicate ids.
func ValidateRoster(employees []Employee) error {
	seen := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		if err := ValidateEmployee(e); err != nil {
			return err
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidEmployee, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// ValidateTasks validates every task and rejects duplicate ids.
func ValidateTasks(tasks []TaskSpec) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if err := ValidateTask(t); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidTask, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
