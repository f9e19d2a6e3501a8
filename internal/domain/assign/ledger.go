package assign

// Ledger is the running-cost counter of one allocation run. A nil budget
// means unlimited. Ledgers are request-scoped: each run allocates its own and
// never shares it across concurrent runs.
type Ledger struct {
	budget    *float64
	committed float64
}

// NewLedger creates a ledger for one run. Pass nil for an unlimited budget.
func NewLedger(budget *float64) *Ledger {
	return &Ledger{budget: budget}
}

// Permits reports whether committing an additional cost would stay inside
// the budget.
func (l *Ledger) Permits(cost float64) bool {
	if l.budget == nil {
		return true
	}
	return l.committed+cost <= *l.budget
}

// Commit adds cost to the running total.
func (l *Ledger) Commit(cost float64) {
	l.committed += cost
}

// Committed returns the total committed so far.
func (l *Ledger) Committed() float64 {
	return l.committed
}

// Budget returns the configured budget, or nil when unlimited.
func (l *Ledger) Budget() *float64 {
	return l.budget
}
