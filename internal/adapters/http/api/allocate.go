// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/crewplan/internal/app"
	"github.com/okian/crewplan/internal/domain/model"
)

// AllocateDependencies defines the interface for allocation runs.
type AllocateDependencies interface {
	Allocate(ctx context.Context, req service.RunRequest) (model.AllocationResult, error)
}

// AllocateHandler handles allocation requests.
type AllocateHandler struct {
	deps AllocateDependencies
}

// NewAllocateHandler creates a new allocate handler.
func NewAllocateHandler(deps AllocateDependencies) *AllocateHandler {
	return &AllocateHandler{deps: deps}
}

// allocateRequest mirrors the OpenAPI schema for POST /allocate. Task and
// employee ids are strings by construction: a numeric id fails JSON decoding
// and is rejected at this boundary rather than coerced.
type allocateRequest struct {
	Feature       string                  `json:"feature"`
	Tasks         []model.TaskSpec        `json:"tasks"`
	Budget        *float64                `json:"budget"`
	DeadlineWeeks int                     `json:"deadline_weeks"`
	Priority      string                  `json:"priority"`
	Draft         *model.AllocationResult `json:"draft,omitempty"`
}

func (r allocateRequest) validate() error {
	if strings.TrimSpace(r.Feature) == "" && len(r.Tasks) == 0 {
		return errors.New("either feature or tasks must be provided")
	}
	if r.Budget != nil && *r.Budget < 0 {
		return errors.New("budget must not be negative")
	}
	if r.DeadlineWeeks < 0 {
		return errors.New("deadline_weeks must not be negative")
	}
	return nil
}

// HandlePostAllocate handles POST /allocate requests.
func (h *AllocateHandler) HandlePostAllocate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_allocate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req allocateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Allocate(r.Context(), service.RunRequest{
		Feature:       req.Feature,
		Tasks:         req.Tasks,
		Budget:        req.Budget,
		DeadlineWeeks: req.DeadlineWeeks,
		Priority:      req.Priority,
		Draft:         req.Draft,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTask), errors.Is(err, model.ErrInvalidEmployee), errors.Is(err, service.ErrNoTasks):
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		case errors.Is(err, service.ErrNoDirectory):
			writeError(w, http.StatusServiceUnavailable, "not_ready", Wrap(op, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}
