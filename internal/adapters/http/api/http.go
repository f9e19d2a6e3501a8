// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/crewplan/internal/app"
	"github.com/okian/crewplan/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Allocate executes one allocation run synchronously.
	Allocate(ctx context.Context, req service.RunRequest) (model.AllocationResult, error)

	// Read operations expose run history and the roster.
	Run(ctx context.Context, runID string) (model.AllocationResult, error)
	RecentRuns(ctx context.Context, n int) ([]model.AllocationResult, error)
	Employees(ctx context.Context) ([]model.Employee, error)
	InvalidateRoster()
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	allocateHandler  *AllocateHandler
	runsHandler      *RunsHandler
	employeesHandler *EmployeesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		allocateHandler:  NewAllocateHandler(deps),
		runsHandler:      NewRunsHandler(deps),
		employeesHandler: NewEmployeesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/allocate", MetricsMiddleware(s.allocateHandler.HandlePostAllocate, "allocate"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandleListRuns, "runs"))
	mux.HandleFunc("/runs/", MetricsMiddleware(s.runsHandler.HandleGetRun, "run"))
	mux.HandleFunc("/employees", MetricsMiddleware(s.employeesHandler.HandleEmployees, "employees"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
