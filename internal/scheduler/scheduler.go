// Package scheduler runs the periodic inventory report: export the table
// and check it for low stock on a cron schedule.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/lowstock"
	"github.com/mesh-intelligence/stockroom/internal/report"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// DefaultSpec runs the report every day at 20:00.
const DefaultSpec = "0 20 * * *"

// Config holds what one tick needs.
type Config struct {
	Spec       string // standard 5-field cron expression
	ExportPath string // empty skips the export
	Threshold  int
}

// Scheduler manages the report job.
type Scheduler struct {
	cron     *cron.Cron
	store    types.Store
	exporter *report.Exporter
	cfg      Config
	logger   *zap.Logger

	// OnLow, when set, receives the partition of every tick that found
	// low records.
	OnLow func(lowstock.Result)

	mu      sync.Mutex
	started bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg Config, store types.Store, exporter *report.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if exporter == nil {
		exporter = report.NewExporter(0)
	}
	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the job and starts the cron engine. It fails when the
// cron expression does not parse.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Spec, s.tick); err != nil {
		return fmt.Errorf("scheduling report %q: %w", s.cfg.Spec, err)
	}
	s.logger.Info("starting scheduler", zap.String("spec", s.cfg.Spec))
	s.cron.Start()
	s.started = true
	return nil
}

// Stop stops the cron engine and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	s.started = false
}

func (s *Scheduler) tick() {
	if _, err := s.RunOnce(); err != nil {
		s.logger.Error("scheduled report failed", zap.Error(err))
	}
}

// RunOnce performs one tick synchronously: read every record, export
// them when an export path is configured, and partition them against the
// threshold. Low records are logged as a warning and passed to OnLow.
func (s *Scheduler) RunOnce() (lowstock.Result, error) {
	records, err := s.store.GetAll()
	if err != nil {
		return lowstock.Result{}, fmt.Errorf("reading inventory: %w", err)
	}

	if s.cfg.ExportPath != "" {
		if err := s.exporter.Export(records, s.cfg.ExportPath); err != nil {
			return lowstock.Result{}, err
		}
		s.logger.Info("report exported",
			zap.String("path", s.cfg.ExportPath),
			zap.Int("records", len(records)))
	}

	res := lowstock.Partition(records, s.cfg.Threshold)
	if res.HasLow() {
		s.logger.Warn("low stock",
			zap.Int("count", len(res.Below)),
			zap.Int("threshold", s.cfg.Threshold),
			zap.String("items", res.Warning()))
		if s.OnLow != nil {
			s.OnLow(res)
		}
	}
	return res, nil
}
