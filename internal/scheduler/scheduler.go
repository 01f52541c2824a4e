package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/audit"
	"github.com/aminekone/ticketbridge/internal/config"
)

// Scheduler runs the periodic audit rollup: a log line summarizing how many
// webhook deliveries each endpoint received since the previous rollup.
type Scheduler struct {
	cron    *cron.Cron
	journal *audit.Journal
	cfg     config.SchedulerConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, journal *audit.Journal, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:    cron.New(),
		journal: journal,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the rollup job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("rollup_cron", s.cfg.RollupCron))

	if _, err := s.cron.AddFunc(s.cfg.RollupCron, s.rollup); err != nil {
		s.logger.Error("failed to schedule audit rollup", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) rollup() {
	counters := s.journal.DrainCounters()
	if len(counters) == 0 {
		s.logger.Info("audit rollup: no requests since last rollup")
		return
	}

	fields := make([]zap.Field, 0, len(counters))
	for endpoint, count := range counters {
		fields = append(fields, zap.Int(endpoint, count))
	}
	s.logger.Info("audit rollup", fields...)
}
