// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/crewplan/internal/domain/model"
)

// EmployeesDependencies defines the interface for roster reads.
type EmployeesDependencies interface {
	Employees(ctx context.Context) ([]model.Employee, error)
	InvalidateRoster()
}

// EmployeesHandler handles roster requests.
type EmployeesHandler struct {
	deps EmployeesDependencies
}

// NewEmployeesHandler creates a new employees handler.
func NewEmployeesHandler(deps EmployeesDependencies) *EmployeesHandler {
	return &EmployeesHandler{deps: deps}
}

// HandleEmployees handles GET and DELETE /employees requests. DELETE drops
// the cached roster so the next run re-reads it from its source.
func (h *EmployeesHandler) HandleEmployees(w http.ResponseWriter, r *http.Request) {
	const op = "api.employees"
	switch r.Method {
	case http.MethodGet:
		employees, err := h.deps.Employees(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrNotReady, err))
			return
		}
		writeJSON(w, http.StatusOK, employees)
	case http.MethodDelete:
		h.deps.InvalidateRoster()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
