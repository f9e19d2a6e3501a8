// Package repair re-checks an allocation set against the domain
// incompatibility matrix and strips or replaces violating assignees. It runs
// on every allocation set, whether produced by the deterministic assigner or
// supplied by an external provider, and is idempotent: repairing an already
// repaired set changes nothing.
package repair

import (
	"fmt"
	"sort"

	"github.com/okian/crewplan/internal/domain/assign"
	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/internal/domain/taxonomy"
)

// Roster is the employee view the repairer needs: lookup by id plus the full
// ordered list for the replacement search.
type Roster struct {
	Employees []model.Employee
	Domains   []taxonomy.Domain
}

// byID returns the roster index for an employee id, or -1.
func (r Roster) byID(id string) int {
	for i, e := range r.Employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Repairer validates and repairs allocations.
type Repairer struct{}

// New creates a Repairer.
func New() *Repairer {
	return &Repairer{}
}

// Repair canonicalizes the allocation set and strips domain-incompatible
// assignees, recording them as rejections. A single replacement search runs
// when a strip empties the assignee list entirely; a partially stripped list
// is left reduced, with no replacement sought for individual removed slots.
//
// Canonicalization enforces the structural shape an external draft cannot be
// trusted to respect: a task appears in at most one allocation (first entry
// wins), an assignee appears at most once per allocation, entries for tasks
// outside the run are dropped, and an id already rejected for a task never
// stays assigned to it. Per-assignee hours are recomputed from the final
// assignee set.
func (r *Repairer) Repair(allocs []model.Allocation, tasks map[string]model.TaskSpec, taskDomains map[string]taxonomy.Domain, roster Roster, log *assign.RejectionLog) []model.Allocation {
	out := make([]model.Allocation, 0, len(allocs))
	seen := make(map[string]struct{}, len(allocs))
	for _, a := range allocs {
		if _, known := tasks[a.TaskID]; !known {
			// Nothing in the run to bill this against.
			continue
		}
		if _, dup := seen[a.TaskID]; dup {
			continue
		}
		seen[a.TaskID] = struct{}{}
		out = append(out, r.repairOne(a, tasks, taskDomains, roster, log))
	}
	return out
}

func (r *Repairer) repairOne(a model.Allocation, tasks map[string]model.TaskSpec, taskDomains map[string]taxonomy.Domain, roster Roster, log *assign.RejectionLog) model.Allocation {
	task := tasks[a.TaskID]
	taskDomain := taskDomains[a.TaskID]

	kept := make([]string, 0, len(a.Assignees))
	seen := make(map[string]struct{}, len(a.Assignees))
	stripped := 0
	for _, id := range a.Assignees {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if log.Has(a.TaskID, id) {
			// Already rejected for this task; an id never sits on
			// both sides of the result.
			stripped++
			continue
		}
		idx := roster.byID(id)
		// Unknown ids can only come from an untrusted external draft;
		// their domain is unverifiable, so they are stripped like any
		// other incompatible assignee.
		if idx < 0 || taxonomy.Violates(taskDomain, roster.Domains[idx]) {
			log.Add(a.TaskID, id, assign.ReasonWrongDomain)
			stripped++
			continue
		}
		kept = append(kept, id)
	}
	if stripped == 0 && len(kept) == len(a.Assignees) {
		return a
	}

	a.Assignees = kept
	if len(kept) == 0 {
		if rep, ok := r.replacement(a.TaskID, taskDomain, roster, log); ok {
			a.Assignees = []string{rep.ID}
			a.Confidence = clamp01(rep.AvailableCapacity() * rep.Efficiency)
			a.Reasoning = fmt.Sprintf("%s selected as replacement after domain repair (capacity %.0f%%, efficiency %.0f%%)",
				rep.Name, rep.AvailableCapacity()*100, rep.Efficiency*100)
		}
	}

	// Best effort: a reduced or even empty list stands; the aggregator's
	// risk logic surfaces the consequence.
	if len(a.Assignees) > 0 {
		a.EstimatedHours = task.EstimatedHours / float64(len(a.Assignees))
	} else {
		a.EstimatedHours = 0
	}
	return a
}

// replacement picks the best domain-compatible, available employee ranked by
// available capacity times efficiency. Employees already rejected for the
// task are skipped so no id ends up both assigned and rejected.
func (r *Repairer) replacement(taskID string, taskDomain taxonomy.Domain, roster Roster, log *assign.RejectionLog) (model.Employee, bool) {
	type ranked struct {
		emp   model.Employee
		score float64
	}
	var pool []ranked
	for i, e := range roster.Employees {
		if !e.Available {
			continue
		}
		if !taxonomy.Compatible(taskDomain, roster.Domains[i]) {
			continue
		}
		if log.Has(taskID, e.ID) {
			continue
		}
		pool = append(pool, ranked{emp: e, score: e.AvailableCapacity() * e.Efficiency})
	}
	if len(pool) == 0 {
		return model.Employee{}, false
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].score > pool[j].score
	})
	return pool[0].emp, true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
