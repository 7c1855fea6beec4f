package services

import (
	"rvd/internal/providers"
	"rvd/internal/store"
)

// StatsSource feeds the gauge metrics from the live stores.
type StatsSource struct {
	reports       store.ReportStoreInterface
	directory     store.ChannelDirectoryInterface
	subscriptions SubscriptionServiceInterface
}

func NewStatsSource(
	reports store.ReportStoreInterface,
	directory store.ChannelDirectoryInterface,
	subscriptions SubscriptionServiceInterface,
) providers.StatsSourceInterface {
	return &StatsSource{
		reports:       reports,
		directory:     directory,
		subscriptions: subscriptions,
	}
}

func (s *StatsSource) ActiveReports() int {
	return s.reports.Len()
}

func (s *StatsSource) SubscribedChannels() int {
	return s.directory.Len()
}

func (s *StatsSource) PendingRequests() int {
	return s.subscriptions.PendingCount()
}
