package services

import (
	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/store"
)

// VoteProcessorInterface applies crowd verdicts on broadcast reports.
type VoteProcessorInterface interface {
	// CastVote records the verdict of voter on the report behind the clicked
	// copy. Returns whether the tally changed; re-submitting the held verdict
	// is a no-op and triggers no resync. An unknown handle is
	// models.ErrUnknownReport.
	CastVote(destinationID int64, messageID int, voter int64, verdict models.Verdict) (bool, error)
}

type VoteProcessor struct {
	reports     store.ReportStoreInterface
	broadcaster BroadcastServiceInterface
	metrics     providers.MetricsProviderInterface
	logger      providers.Logger
}

func NewVoteProcessor(
	reports store.ReportStoreInterface,
	broadcaster BroadcastServiceInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) VoteProcessorInterface {
	return &VoteProcessor{
		reports:     reports,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *VoteProcessor) CastVote(destinationID int64, messageID int, voter int64, verdict models.Verdict) (bool, error) {
	report, ok := s.reports.FindByCopyHandle(destinationID, messageID)
	if !ok {
		return false, models.ErrUnknownReport
	}

	// Same verdict again: nothing to change, no snapshot write.
	if held, voted := report.Votes.Get(voter); voted && held == verdict {
		return false, nil
	}

	changed := false
	if _, err := s.reports.Mutate(report.DedupKey, func(r *models.LocationReport) {
		changed = r.Votes.Cast(voter, verdict)
	}); err != nil {
		return false, err
	}

	if !changed {
		return false, nil
	}
	s.metrics.IncVotes(verdict.String())
	s.logger.Debugf(providers.TypeBot, "Vote %s on %s", verdict, report.DedupKey)

	// The vote is already durable; a partially failed resync only leaves some
	// copies one tally behind until the next change.
	if err := s.broadcaster.Resync(report.DedupKey); err != nil {
		s.logger.Warnf(providers.TypeBot, "Resync after vote on %s failed: %s", report.DedupKey, err)
	}
	return true, nil
}
