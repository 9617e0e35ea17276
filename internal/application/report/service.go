package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MertalpTasdelen/yeninesilevim/internal/adapters/trendyol"
	"github.com/MertalpTasdelen/yeninesilevim/internal/domain/reconcile"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/config"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

// JobStatus represents the current state of a report job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Request holds parameters for starting a report run.
type Request struct {
	Start time.Time
	End   time.Time

	// LegacyWindows, when non-nil, overrides the configured window mode
	// for this run.
	LegacyWindows *bool
}

// Job represents a running or completed report job.
type Job struct {
	ID          string
	Status      JobStatus
	Request     Request
	Phase       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Report      *Report
	Error       error
	RunID       int64

	cancelFunc context.CancelFunc
}

// Service manages report jobs. Only one job runs at a time; the partner
// API rate limits aggressively and concurrent sweeps gain nothing.
type Service struct {
	cfg    *config.Config
	repo   storage.Repository
	logger *slog.Logger

	jobs      map[string]*Job
	jobsMutex sync.RWMutex
	runLock   sync.Mutex

	// newEngine builds the engine for one run; replaceable in tests.
	newEngine func(opts Options) *Engine
}

// NewService creates a report service backed by the given repository.
func NewService(cfg *config.Config, repo storage.Repository, logger *slog.Logger) *Service {
	s := &Service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With(slog.String("system", "report")),
		jobs:   make(map[string]*Job),
	}

	s.newEngine = func(opts Options) *Engine {
		clientOpts := []trendyol.Option{
			trendyol.WithLogger(logger),
			trendyol.WithPageSize(cfg.Report.PageSize),
			trendyol.WithStoreFrontCode(cfg.Trendyol.StoreFrontCode),
		}
		if cfg.Trendyol.BaseURL != "" {
			clientOpts = append(clientOpts, trendyol.WithBaseURL(cfg.Trendyol.BaseURL))
		}
		if cfg.Trendyol.UserAgent != "" {
			clientOpts = append(clientOpts, trendyol.WithUserAgent(cfg.Trendyol.UserAgent))
		}
		client := trendyol.NewClient(trendyol.Credentials{
			SellerID:  cfg.Trendyol.SellerID,
			APIKey:    cfg.Trendyol.APIKey,
			APISecret: cfg.Trendyol.APISecret,
		}, clientOpts...)

		return NewEngine(client, repo, opts, logger)
	}

	return s
}

// RunSync executes a report run synchronously and records it in the run
// history. Used by the synchronous report endpoint and the CLI.
func (s *Service) RunSync(ctx context.Context, req Request) (*Report, error) {
	opts := s.buildOptions(req, nil)

	runID, err := s.repo.StartReportRun(req.Start, req.End, opts.LegacyWindows)
	if err != nil {
		s.logger.Warn("failed to record report run start", slog.String("error", err.Error()))
	}

	engine := s.newEngine(opts)
	rep, err := engine.Run(ctx, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	if runID > 0 {
		s.recordCompletion(runID, rep)
	}

	return rep, nil
}

// Start starts a new report job asynchronously.
// The passed context is NOT used as the parent for the background job:
// jobs outlive the HTTP request that started them. Use Cancel() instead.
func (s *Service) Start(_ context.Context, req Request) (string, error) {
	if req.End.Before(req.Start) {
		return "", fmt.Errorf("invalid range: end before start")
	}
	if !s.runLock.TryLock() {
		return "", fmt.Errorf("a report run is already in progress")
	}

	jobID := uuid.NewString()
	jobCtx, cancel := context.WithCancel(context.Background())

	job := &Job{
		ID:         jobID,
		Status:     StatusPending,
		Request:    req,
		Phase:      "pending",
		StartedAt:  time.Now(),
		cancelFunc: cancel,
	}

	s.jobsMutex.Lock()
	s.jobs[jobID] = job
	s.jobsMutex.Unlock()

	go s.runJob(jobCtx, job)

	s.logger.Info("report job started",
		"job_id", jobID,
		"start", req.Start.Format("2006-01-02"),
		"end", req.End.Format("2006-01-02"),
	)

	return jobID, nil
}

// Get retrieves a report job by ID.
func (s *Service) Get(jobID string) (*Job, error) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	return job, nil
}

// List returns all jobs (for monitoring).
func (s *Service) List() []*Job {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// Cancel cancels a running report job.
func (s *Service) Cancel(jobID string) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if job.Status != StatusPending && job.Status != StatusRunning {
		return fmt.Errorf("job cannot be cancelled: status=%s", job.Status)
	}

	job.cancelFunc()
	job.Status = StatusCancelled
	now := time.Now()
	job.CompletedAt = &now
	job.Phase = "cancelled"

	s.logger.Info("report job cancelled", "job_id", jobID)
	return nil
}

// CleanupOldJobs removes finished jobs older than the specified duration.
func (s *Service) CleanupOldJobs(maxAge time.Duration) int {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, job := range s.jobs {
		switch job.Status {
		case StatusCompleted, StatusFailed, StatusCancelled:
			if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
				delete(s.jobs, id)
				removed++
			}
		}
	}

	if removed > 0 {
		s.logger.Debug("cleaned up old report jobs", "removed", removed)
	}

	return removed
}

// runJob executes a report job in a background goroutine.
func (s *Service) runJob(ctx context.Context, job *Job) {
	defer s.runLock.Unlock()

	opts := s.buildOptions(job.Request, func(phase string) {
		s.updateJobPhase(job.ID, phase)
	})

	runID, err := s.repo.StartReportRun(job.Request.Start, job.Request.End, opts.LegacyWindows)
	if err != nil {
		s.logger.Warn("failed to record report run start", slog.String("error", err.Error()))
	}

	s.jobsMutex.Lock()
	job.Status = StatusRunning
	job.Phase = "initializing"
	job.RunID = runID
	s.jobsMutex.Unlock()

	engine := s.newEngine(opts)
	rep, err := engine.Run(ctx, job.Request.Start, job.Request.End)

	if err != nil {
		if ctx.Err() == context.Canceled {
			// Already marked as cancelled in Cancel()
			return
		}
		s.failJob(job.ID, err)
		return
	}

	if runID > 0 {
		s.recordCompletion(runID, rep)
	}

	s.completeJob(job.ID, rep)
}

// buildOptions merges the config policy with per-request overrides.
func (s *Service) buildOptions(req Request, onPhase func(string)) Options {
	legacy := s.cfg.Report.LegacyWindows
	if req.LegacyWindows != nil {
		legacy = *req.LegacyWindows
	}

	return Options{
		WindowDays:    s.cfg.Report.WindowDays,
		LegacyWindows: legacy,
		Policy: reconcile.Policy{
			ShippingFeeRequiresProductMatch: s.cfg.Report.ShippingFeeRequiresProductMatch,
		},
		OnPhase: onPhase,
	}
}

// recordCompletion persists the run outcome to the run history.
func (s *Service) recordCompletion(runID int64, rep *Report) {
	err := s.repo.CompleteReportRun(runID, storage.RunSummary{
		SaleCount:      len(rep.Lines),
		OrderCount:     len(rep.Pivot),
		ErrorCount:     len(rep.Errors),
		Degraded:       rep.Degraded,
		TotalNetProfit: rep.TotalNetProfit,
	})
	if err != nil {
		s.logger.Warn("failed to record report run completion",
			slog.Int64("run_id", runID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) updateJobPhase(jobID, phase string) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		job.Phase = phase
	}
}

func (s *Service) completeJob(jobID string, rep *Report) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		now := time.Now()
		job.Status = StatusCompleted
		job.CompletedAt = &now
		job.Report = rep
		job.Phase = "completed"
		s.logger.Info("report job completed",
			"job_id", jobID,
			"lines", len(rep.Lines),
			"orders", len(rep.Pivot),
			"degraded", rep.Degraded,
		)
	}
}

func (s *Service) failJob(jobID string, err error) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		now := time.Now()
		job.Status = StatusFailed
		job.CompletedAt = &now
		job.Error = err
		job.Phase = "failed"
		s.logger.Error("report job failed", "job_id", jobID, "error", err)
	}
}
