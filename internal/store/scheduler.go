package store

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"rvd/internal/providers"
	"rvd/internal/store/interfaces"
	"rvd/internal/structures"
)

// Scheduler drives the two cooperative background jobs: the periodic snapshot
// save and the retention sweep. The sweep also runs once during Restore, so a
// freshly started process never serves expired reports.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	reports   ReportStoreInterface
	directory ChannelDirectoryInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		start := time.Now()
		if err := s.reports.Persist(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting reports: %s", err)
			return
		}
		if err := s.directory.Persist(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting channels: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(start))
		s.logger.Debugf(providers.TypeApp, "Persisted snapshots")
	})

	s.cron.AddFunc(gron.Every(s.config.Retention.SweepInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.sweep()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if err := s.reports.Restore(); err != nil {
		return err
	}
	if err := s.directory.Restore(); err != nil {
		return err
	}
	s.sweep()
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshots...")
	start := time.Now()
	if err := s.reports.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting reports: %s", err)
		return err
	}
	if err := s.directory.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting channels: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func (s *Scheduler) sweep() {
	if purged := s.reports.PurgeExpired(time.Now()); purged > 0 {
		s.metrics.AddReportsPurged(purged)
		s.logger.Infof(providers.TypeApp, "Retention sweep purged %d reports", purged)
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, reports ReportStoreInterface, directory ChannelDirectoryInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		reports:   reports,
		directory: directory,
	}
}
