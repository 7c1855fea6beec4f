package services

import (
	"sync"

	"rvd/internal/bot"
	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/store"
	"rvd/internal/structures"
)

// BroadcastServiceInterface fans a report out to subscribed destinations and
// keeps the per-destination renderings in sync afterwards.
type BroadcastServiceInterface interface {
	// Publish sends the report to every target and records the successful
	// copies on the report in one store mutation. A failed destination is
	// skipped, not fatal; its entry in the returned slice carries the error.
	Publish(key string, targets []models.ChannelEntry) ([]SendResult, error)
	// Resync re-renders every live copy of the report. Edit failures bump the
	// copy failure counter; at the configured threshold the copy is marked
	// dead and dropped from future resyncs.
	Resync(key string) error
}

// SendResult is the outcome of one destination in a Publish fan-out. Err is
// nil when the copy was placed; Copy is only valid then.
type SendResult struct {
	DestinationID int64
	Copy          models.Copy
	Err           error
}

type copyHandle struct {
	destinationID int64
	messageID     int
}

type BroadcastService struct {
	transport bot.Transport
	reports   store.ReportStoreInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	threshold int
}

func NewBroadcastService(
	conf *structures.Config,
	transport bot.Transport,
	reports store.ReportStoreInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) BroadcastServiceInterface {
	return &BroadcastService{
		transport: transport,
		reports:   reports,
		metrics:   metrics,
		logger:    logger,
		threshold: conf.Broadcast.DeadCopyThreshold,
	}
}

func (s *BroadcastService) Publish(key string, targets []models.ChannelEntry) ([]SendResult, error) {
	report, ok := s.reports.Get(key)
	if !ok {
		return nil, models.ErrUnknownReport
	}
	if len(targets) == 0 {
		return nil, nil
	}

	text := bot.RenderReport(report)
	keyboard := bot.VoteKeyboard(report)

	results := make([]SendResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target models.ChannelEntry) {
			defer wg.Done()

			msgID, err := s.transport.Send(target.DestinationID, target.ThreadID, text, keyboard)
			if err != nil {
				results[i] = SendResult{DestinationID: target.DestinationID, Err: err}
				return
			}
			if err := s.transport.SendLocation(target.DestinationID, target.ThreadID, report.Latitude, report.Longitude); err != nil {
				s.logger.Warnf(providers.TypeBot, "Location pin for %s to %d failed: %s", key, target.DestinationID, err)
			}
			results[i] = SendResult{
				DestinationID: target.DestinationID,
				Copy: models.Copy{
					DestinationID: target.DestinationID,
					ThreadID:      target.ThreadID,
					MessageID:     msgID,
				},
			}
		}(i, target)
	}
	wg.Wait()

	placed := make([]models.Copy, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			s.metrics.IncBroadcastSends("error")
			s.logger.Warnf(providers.TypeBot, "Broadcast of %s to %d failed: %s", key, res.DestinationID, res.Err)
			continue
		}
		s.metrics.IncBroadcastSends("ok")
		placed = append(placed, res.Copy)
	}

	if len(placed) == 0 {
		s.logger.Errorf(providers.TypeBot, "Broadcast of %s reached none of %d targets", key, len(targets))
		return results, nil
	}

	if _, err := s.reports.Mutate(key, func(r *models.LocationReport) {
		for _, c := range placed {
			if !r.HasLiveCopy(c.DestinationID) {
				r.Copies = append(r.Copies, c)
			}
		}
	}); err != nil {
		return nil, err
	}

	s.logger.Infof(providers.TypeBot, "Broadcast %s to %d of %d targets", key, len(placed), len(targets))
	return results, nil
}

func (s *BroadcastService) Resync(key string) error {
	report, ok := s.reports.Get(key)
	if !ok {
		return models.ErrUnknownReport
	}

	copies := report.LiveCopies()
	if len(copies) == 0 {
		return nil
	}

	text := bot.RenderReport(report)
	keyboard := bot.VoteKeyboard(report)

	failures := make([]bool, len(copies))
	var wg sync.WaitGroup
	for i, c := range copies {
		wg.Add(1)
		go func(i int, c models.Copy) {
			defer wg.Done()
			if err := s.transport.Edit(c.DestinationID, c.MessageID, text, keyboard); err != nil {
				failures[i] = true
				s.metrics.IncResyncFailures()
				s.logger.Warnf(providers.TypeBot, "Resync of %s in %d failed: %s", key, c.DestinationID, err)
			}
		}(i, c)
	}
	wg.Wait()

	adjust := false
	for i, c := range copies {
		if failures[i] || c.Failures > 0 {
			adjust = true
		}
	}
	if !adjust {
		return nil
	}

	outcome := make(map[copyHandle]bool, len(copies))
	for i, c := range copies {
		outcome[copyHandle{c.DestinationID, c.MessageID}] = failures[i]
	}

	_, err := s.reports.Mutate(key, func(r *models.LocationReport) {
		for i := range r.Copies {
			c := &r.Copies[i]
			failed, seen := outcome[copyHandle{c.DestinationID, c.MessageID}]
			if !seen || c.Dead {
				continue
			}
			if !failed {
				c.Failures = 0
				continue
			}
			c.Failures++
			if s.threshold > 0 && c.Failures >= s.threshold {
				c.Dead = true
				s.logger.Warnf(providers.TypeBot, "Copy of %s in %d marked dead after %d failures", key, c.DestinationID, c.Failures)
			}
		}
	})
	return err
}
