package services

import (
	"context"
	"time"

	"rvd/internal/geocode"
	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/store"
	"rvd/internal/structures"
)

// ReportServiceInterface ingests submitted locations: resolve the address,
// deduplicate, store and broadcast.
type ReportServiceInterface interface {
	// Ingest processes one submitted coordinate pair. The bool reports whether
	// a new report was created; a dedup hit only extends the broadcast to
	// destinations that do not hold a live copy yet.
	Ingest(ctx context.Context, lat, lon float64, reporter string) (*models.LocationReport, bool, error)
}

type ReportService struct {
	resolver    geocode.Resolver
	reports     store.ReportStoreInterface
	directory   store.ChannelDirectoryInterface
	broadcaster BroadcastServiceInterface
	metrics     providers.MetricsProviderInterface
	logger      providers.Logger
	retention   time.Duration
}

func NewReportService(
	conf *structures.Config,
	resolver geocode.Resolver,
	reports store.ReportStoreInterface,
	directory store.ChannelDirectoryInterface,
	broadcaster BroadcastServiceInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) ReportServiceInterface {
	return &ReportService{
		resolver:    resolver,
		reports:     reports,
		directory:   directory,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
		retention:   conf.Retention.Window,
	}
}

func (s *ReportService) Ingest(ctx context.Context, lat, lon float64, reporter string) (*models.LocationReport, bool, error) {
	address, err := s.resolver.Resolve(ctx, lat, lon)
	if err != nil {
		// Degraded, not dropped: the report goes out with the raw coordinates.
		s.logger.Warnf(providers.TypeBot, "Address lookup for %f,%f failed: %s", lat, lon, err)
		address = ""
	}

	key := models.DedupKey(lat, lon)
	report, created, err := s.reports.FindOrCreate(key, func() *models.LocationReport {
		return models.NewLocationReport(lat, lon, address, reporter, time.Now(), s.retention)
	})
	if err != nil {
		return nil, false, err
	}
	s.metrics.IncReportsIngested(!created)

	targets := make([]models.ChannelEntry, 0, s.directory.Len())
	for _, entry := range s.directory.List() {
		if !report.HasLiveCopy(entry.DestinationID) {
			targets = append(targets, entry)
		}
	}

	if created {
		s.logger.Infof(providers.TypeBot, "New report %s by @%s", key, reporter)
	} else {
		s.logger.Infof(providers.TypeBot, "Duplicate submission for %s by @%s, %d destinations uncovered", key, reporter, len(targets))
	}

	if len(targets) > 0 {
		if _, err := s.broadcaster.Publish(key, targets); err != nil {
			return report, created, err
		}
	}

	if refreshed, ok := s.reports.Get(key); ok {
		report = refreshed
	}
	return report, created, nil
}
