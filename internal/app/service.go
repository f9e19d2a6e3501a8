// Package service provides the core business service that implements the
// dependencies required by the HTTP API: it orchestrates one allocation run
// end to end.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crewplan/internal/adapters/repository"
	"github.com/okian/crewplan/internal/domain/assign"
	"github.com/okian/crewplan/internal/domain/classify"
	"github.com/okian/crewplan/internal/domain/finance"
	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/internal/domain/repair"
	"github.com/okian/crewplan/internal/domain/scoring"
	"github.com/okian/crewplan/internal/domain/taxonomy"
	"github.com/okian/crewplan/pkg/logger"
	"github.com/okian/crewplan/pkg/metrics"
)

// Directory is the employee directory the engine consumes. Snapshots are
// immutable for the duration of one run.
type Directory interface {
	Snapshot(ctx context.Context) ([]model.Employee, error)
	Invalidate()
}

// TaskSource decomposes a free-text feature description into tasks. A
// nonsensical request yields a *model.InvalidTaskError.
type TaskSource interface {
	Decompose(ctx context.Context, feature string) ([]model.TaskSpec, error)
}

// DraftProvider may supply a complete draft allocation from an external,
// non-deterministic source. Drafts are never trusted: every draft goes
// through the repair pass and the aggregator exactly like a deterministic
// one. Any error or nil draft falls back to the deterministic assigner.
type DraftProvider interface {
	Draft(ctx context.Context, tasks []model.TaskSpec, employees []model.Employee, budget *float64) (*model.AllocationResult, error)
}

// RunRequest carries the inputs of one allocation run.
type RunRequest struct {
	Feature       string
	Tasks         []model.TaskSpec
	Budget        *float64
	DeadlineWeeks int
	Priority      string

	// Draft is an externally produced allocation to validate and repair
	// instead of running the deterministic assigner.
	Draft *model.AllocationResult
}

// Draft source labels used in logs and metrics.
const (
	sourceDeterministic = "deterministic"
	sourceExternal      = "external"
)

// Service implements the allocation engine behind the HTTP API and the CLI.
type Service struct {
	mu sync.RWMutex

	// Core components
	classifier *classify.Classifier
	scorer     *scoring.Scorer
	assigner   *assign.Assigner
	repairer   *repair.Repairer
	aggregator *finance.Aggregator
	store      repository.Store

	// Collaborators
	directory     Directory
	taskSource    TaskSource
	draftProvider DraftProvider

	// Configuration
	weights      scoring.Weights
	hoursPerWeek float64
	marketRate   float64
	runStoreSize int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDirectory sets the employee directory.
func WithDirectory(d Directory) Option {
	return func(s *Service) {
		s.directory = d
	}
}

// WithTaskSource sets the task decomposition provider.
func WithTaskSource(src TaskSource) Option {
	return func(s *Service) {
		s.taskSource = src
	}
}

// WithDraftProvider sets the optional external allocation provider.
func WithDraftProvider(p DraftProvider) Option {
	return func(s *Service) {
		s.draftProvider = p
	}
}

// WithWeights sets the scoring weight configuration.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithProductiveHoursPerWeek sets the assumed productive hours per person
// per week.
func WithProductiveHoursPerWeek(hours float64) Option {
	return func(s *Service) {
		if hours > 0 {
			s.hoursPerWeek = hours
		}
	}
}

// WithMarketRate sets the reference market rate.
func WithMarketRate(rate float64) Option {
	return func(s *Service) {
		if rate > 0 {
			s.marketRate = rate
		}
	}
}

// WithRunStoreSize bounds the in-memory run history.
func WithRunStoreSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.runStoreSize = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weights:      scoring.DefaultWeights(),
		hoursPerWeek: assign.DefaultProductiveHoursPerWeek,
		marketRate:   finance.DefaultMarketRate,
		runStoreSize: 128,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.classifier = classify.New()
	s.scorer = scoring.New(scoring.WithWeights(s.weights))
	s.assigner = assign.New(assign.WithProductiveHoursPerWeek(s.hoursPerWeek))
	s.repairer = repair.New()
	s.aggregator = finance.New(
		finance.WithMarketRate(s.marketRate),
		finance.WithProductiveHoursPerWeek(s.hoursPerWeek),
	)
	s.store = repository.NewMemStore(repository.WithMaxRuns(s.runStoreSize))

	return s
}

// Allocate executes one allocation run: classify, score, assign (or accept an
// external draft), repair, aggregate. The run is synchronous and owns its
// budget ledger and rejection log; nothing is shared across concurrent runs.
func (s *Service) Allocate(ctx context.Context, req RunRequest) (model.AllocationResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	if s.directory == nil {
		return model.AllocationResult{}, ErrNoDirectory
	}
	employees, err := s.directory.Snapshot(ctx)
	if err != nil {
		return model.AllocationResult{}, err
	}
	metrics.UpdateRosterSize(len(employees))

	tasks, invalid, err := s.resolveTasks(ctx, req)
	if err != nil {
		return model.AllocationResult{}, err
	}
	if invalid != nil {
		// Nonsensical request: an empty, zeroed result, never a failure.
		s.logger.Info(ctx, "request rejected by decomposition screen",
			logger.String("run_id", runID),
			logger.String("reason", invalid.Message),
		)
		empty := model.AllocationResult{
			RunID:       runID,
			Tasks:       []model.TaskSpec{},
			Allocations: []model.Allocation{},
			Rejections:  []model.Rejection{},
			Timeline:    []model.TimelineWeek{},
			Analytics:   model.BusinessAnalytics{RiskAssessment: "Low risk"},
		}
		_ = s.store.Put(ctx, empty)
		return empty, nil
	}

	taskDomains := make([]taxonomy.Domain, len(tasks))
	for i, t := range tasks {
		taskDomains[i] = s.classifier.Task(t)
	}
	empDomains := make([]taxonomy.Domain, len(employees))
	for i, e := range employees {
		empDomains[i] = s.classifier.Employee(e)
	}

	log := assign.NewRejectionLog()
	draft, source := s.draft(ctx, req, tasks, employees, log)
	if draft == nil {
		ranked := make([][]scoring.Candidate, len(tasks))
		for i, t := range tasks {
			ranked[i] = s.scorer.Rank(t, taskDomains[i], employees, empDomains)
		}
		ledger := assign.NewLedger(req.Budget)
		draft = s.assigner.Assign(tasks, ranked, ledger, log)
	}

	allocations := s.repairAndCount(draft, tasks, taskDomains, employees, empDomains, log)

	empByID := make(map[string]model.Employee, len(employees))
	for _, e := range employees {
		empByID[e.ID] = e
	}
	analytics := s.aggregator.Aggregate(tasks, allocations, empByID)

	result := model.AllocationResult{
		RunID:       runID,
		Tasks:       tasks,
		Allocations: allocations,
		Rejections:  log.Rejections(),
		Timeline:    buildTimeline(tasks),
		Analytics:   analytics,
	}
	if err := s.store.Put(ctx, result); err != nil {
		return model.AllocationResult{}, err
	}

	s.observeRun(ctx, result, source, start)
	return result, nil
}

// resolveTasks picks the task list: inline tasks win; otherwise the
// decomposition provider runs. Scalar request constraints fill gaps in the
// specs before validation.
func (s *Service) resolveTasks(ctx context.Context, req RunRequest) ([]model.TaskSpec, *model.InvalidTaskError, error) {
	tasks := req.Tasks
	if len(tasks) == 0 {
		if s.taskSource == nil {
			return nil, nil, ErrNoTasks
		}
		decomposed, err := s.taskSource.Decompose(ctx, req.Feature)
		if err != nil {
			var invalid *model.InvalidTaskError
			if errors.As(err, &invalid) {
				return nil, invalid, nil
			}
			return nil, nil, err
		}
		tasks = decomposed
	}

	filled := make([]model.TaskSpec, len(tasks))
	copy(filled, tasks)
	for i := range filled {
		if filled[i].DeadlineWeeks == 0 && req.DeadlineWeeks > 0 {
			filled[i].DeadlineWeeks = req.DeadlineWeeks
		}
		if filled[i].Priority == "" {
			filled[i].Priority = req.Priority
		}
	}
	if err := model.ValidateTasks(filled); err != nil {
		return nil, nil, err
	}
	return filled, nil, nil
}

// draft obtains an external draft when one is supplied or a provider is
// configured. Returns nil when the deterministic path should run.
func (s *Service) draft(ctx context.Context, req RunRequest, tasks []model.TaskSpec, employees []model.Employee, log *assign.RejectionLog) ([]model.Allocation, string) {
	external := req.Draft
	if external == nil && s.draftProvider != nil {
		d, err := s.draftProvider.Draft(ctx, tasks, employees, req.Budget)
		if err != nil {
			// Provider trouble is never fatal: the deterministic
			// assigner is always available.
			s.logger.Warn(ctx, "draft provider failed; using deterministic assigner", logger.Error(err))
		} else {
			external = d
		}
	}
	if external == nil {
		return nil, sourceDeterministic
	}
	for _, r := range external.Rejections {
		log.Add(r.TaskID, r.EmployeeID, r.Reason)
	}
	return external.Allocations, sourceExternal
}

// repairAndCount runs the repair pass and records its metrics by diffing
// assignee sets before and after.
func (s *Service) repairAndCount(draft []model.Allocation, tasks []model.TaskSpec, taskDomains []taxonomy.Domain, employees []model.Employee, empDomains []taxonomy.Domain, log *assign.RejectionLog) []model.Allocation {
	taskByID := make(map[string]model.TaskSpec, len(tasks))
	domByID := make(map[string]taxonomy.Domain, len(tasks))
	for i, t := range tasks {
		taskByID[t.ID] = t
		domByID[t.ID] = taskDomains[i]
	}
	ros := repair.Roster{Employees: employees, Domains: empDomains}

	repaired := s.repairer.Repair(draft, taskByID, domByID, ros, log)

	// Repair canonicalizes the draft, so entries are diffed by task id
	// rather than position: duplicates and unknown-task entries have no
	// counterpart in the output.
	afterByTask := make(map[string]map[string]struct{}, len(repaired))
	for _, a := range repaired {
		set := make(map[string]struct{}, len(a.Assignees))
		for _, id := range a.Assignees {
			set[id] = struct{}{}
		}
		afterByTask[a.TaskID] = set
	}
	counted := make(map[string]struct{}, len(draft))
	for _, d := range draft {
		after, kept := afterByTask[d.TaskID]
		if !kept {
			continue
		}
		if _, dup := counted[d.TaskID]; dup {
			continue
		}
		counted[d.TaskID] = struct{}{}

		before := make(map[string]struct{}, len(d.Assignees))
		for _, id := range d.Assignees {
			before[id] = struct{}{}
		}
		total := len(before)
		replaced := false
		for id := range after {
			if _, ok := before[id]; !ok {
				replaced = true
			}
			delete(before, id)
		}
		for range before {
			metrics.RecordRepairStrip()
		}
		if total > 0 && len(before) == total {
			// Everyone was stripped, so a replacement search ran.
			metrics.RecordReplacementSearch(replaced)
		}
	}

	// Allocations emptied beyond repair are result states, not entries:
	// the aggregator reports those tasks as unassigned.
	out := repaired[:0]
	for _, a := range repaired {
		if len(a.Assignees) > 0 {
			out = append(out, a)
		}
	}
	return out
}

func (s *Service) observeRun(ctx context.Context, result model.AllocationResult, source string, start time.Time) {
	assigned := 0
	for _, t := range result.Tasks {
		if result.Allocated(t.ID) {
			assigned++
		}
	}
	unassigned := len(result.Tasks) - assigned

	metrics.RecordRun(source, float64(time.Since(start).Milliseconds()))
	metrics.RecordRunCost(result.Analytics.TotalEstimatedCost)
	metrics.RecordTaskOutcomes(assigned, unassigned)
	for _, r := range result.Rejections {
		metrics.RecordRejection(r.Reason)
	}

	s.logger.Info(ctx, "allocation run finished",
		logger.String("run_id", result.RunID),
		logger.String("source", source),
		logger.Int("tasks", len(result.Tasks)),
		logger.Int("assigned", assigned),
		logger.Int("unassigned", unassigned),
		logger.Int("rejections", len(result.Rejections)),
		logger.Float64("total_cost", result.Analytics.TotalEstimatedCost),
	)
}

// Run returns a stored run result by id.
func (s *Service) Run(ctx context.Context, runID string) (model.AllocationResult, error) {
	return s.store.Get(ctx, runID)
}

// RecentRuns returns up to n stored results, newest first.
func (s *Service) RecentRuns(ctx context.Context, n int) ([]model.AllocationResult, error) {
	return s.store.Recent(ctx, n)
}

// Employees returns the current roster snapshot.
func (s *Service) Employees(ctx context.Context) ([]model.Employee, error) {
	if s.directory == nil {
		return nil, ErrNoDirectory
	}
	return s.directory.Snapshot(ctx)
}

// InvalidateRoster drops the cached roster so the next run re-reads it.
func (s *Service) InvalidateRoster() {
	if s.directory != nil {
		s.directory.Invalidate()
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"runStoreSize":  s.runStoreSize,
		"storedRuns":    s.store.Count(ctx),
		"marketRate":    s.marketRate,
		"hoursPerWeek":  s.hoursPerWeek,
		"qualifyRatio":  s.weights.QualifyRatio,
		"draftProvider": s.draftProvider != nil,
		"taskSource":    s.taskSource != nil,
	}
	if s.directory != nil {
		if employees, err := s.directory.Snapshot(ctx); err == nil {
			stats["rosterSize"] = len(employees)
		}
	}
	return stats
}
