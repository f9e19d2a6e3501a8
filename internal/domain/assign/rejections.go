package assign

import "github.com/okian/crewplan/internal/domain/model"

// Rejection reason codes. The set is fixed; free-form text only appears in
// the workload variant produced by workloadReason.
const (
	ReasonWrongDomain   = "Wrong domain"
	ReasonOverBudget    = "Over budget"
	ReasonHighStress    = "High stress"
	ReasonFullyBooked   = "Fully booked"
	ReasonPartialSkills = "Partial skills"
	ReasonBetterMatch   = "Better match found"
)

// RejectionLog collects rejections for one run, deduplicated per
// (task, employee) pair. The first recorded reason wins. Like the Ledger it
// is request-scoped and must not be shared across runs.
type RejectionLog struct {
	seen map[pairKey]struct{}
	list []model.Rejection
}

type pairKey struct {
	taskID     string
	employeeID string
}

// NewRejectionLog creates an empty log, optionally seeded with rejections
// carried over from an external draft.
func NewRejectionLog(seed ...model.Rejection) *RejectionLog {
	l := &RejectionLog{seen: make(map[pairKey]struct{})}
	for _, r := range seed {
		l.Add(r.TaskID, r.EmployeeID, r.Reason)
	}
	return l
}

// Add records a rejection unless the pair was already seen. Returns true if
// the rejection was newly recorded.
func (l *RejectionLog) Add(taskID, employeeID, reason string) bool {
	k := pairKey{taskID, employeeID}
	if _, dup := l.seen[k]; dup {
		return false
	}
	l.seen[k] = struct{}{}
	l.list = append(l.list, model.Rejection{TaskID: taskID, EmployeeID: employeeID, Reason: reason})
	return true
}

// Has reports whether the pair already carries a rejection.
func (l *RejectionLog) Has(taskID, employeeID string) bool {
	_, ok := l.seen[pairKey{taskID, employeeID}]
	return ok
}

// Rejections returns the recorded rejections in insertion order.
func (l *RejectionLog) Rejections() []model.Rejection {
	return l.list
}

// Len returns the number of recorded rejections.
func (l *RejectionLog) Len() int {
	return len(l.list)
}
