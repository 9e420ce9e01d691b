package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/report"
	"github.com/i474232898/weather-insights/internal/weather"
)

// ReportRunner produces one report over the trailing window.
type ReportRunner interface {
	Run(ctx context.Context, days int) report.Result
}

// Config holds the job schedule.
type Config struct {
	Cities        []string
	FetchInterval time.Duration
	// ReportCron is a five-field cron expression evaluated in Location.
	ReportCron string
	ReportDays int
	Location   *time.Location
}

// Scheduler periodically ingests every configured city and produces the daily report.
type Scheduler struct {
	scheduler *gocron.Scheduler
	ingestor  *weather.Ingestor
	reports   ReportRunner
	cfg       Config
	logger    *zap.Logger
}

// New creates a new Scheduler. reports may be nil to disable the report job.
func New(cfg Config, ingestor *weather.Ingestor, reports ReportRunner, logger *zap.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(cfg.Location)
	// A job never overlaps a still-running instance of itself.
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		ingestor:  ingestor,
		reports:   reports,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start schedules the jobs and starts the underlying scheduler. ctx is handed
// to every job run.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.cfg.Cities) == 0 {
		s.logger.Warn("scheduler: no cities configured; ingestion not scheduled")
	} else {
		interval := s.cfg.FetchInterval
		if interval <= 0 {
			interval = time.Hour
		}
		if _, err := s.scheduler.Every(interval).Do(func() { s.Ingest(ctx) }); err != nil {
			return fmt.Errorf("schedule ingestion: %w", err)
		}
	}

	if s.reports != nil && s.cfg.ReportCron != "" {
		if _, err := s.scheduler.Cron(s.cfg.ReportCron).Do(func() { s.Report(ctx) }); err != nil {
			return fmt.Errorf("schedule report %q: %w", s.cfg.ReportCron, err)
		}
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started",
		zap.Int("cities", len(s.cfg.Cities)),
		zap.Duration("fetch_interval", s.cfg.FetchInterval),
		zap.String("report_cron", s.cfg.ReportCron))
	return nil
}

// Ingest runs one sequential ingestion pass over every city.
func (s *Scheduler) Ingest(ctx context.Context) weather.BatchResult {
	s.logger.Info("scheduler: running weather fetch job")
	res := s.ingestor.IngestAll(ctx, s.cfg.Cities)
	for _, f := range res.Failed {
		s.logger.Warn("scheduler: city failed", zap.String("city", f.City), zap.Error(f.Err))
	}
	return res
}

// Report runs one report over the configured window. Failures inside the run
// are logged by the runner.
func (s *Scheduler) Report(ctx context.Context) {
	s.logger.Info("scheduler: running report job", zap.Int("days", s.cfg.ReportDays))
	res := s.reports.Run(ctx, s.cfg.ReportDays)
	s.logger.Info("scheduler: report completed",
		zap.String("run_id", res.RunID),
		zap.Strings("artifacts", res.Artifacts))
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
