package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvd/internal/models"
	"rvd/internal/store"
	"rvd/internal/structures"
	"rvd/internal/testutil"
)

const week = 7 * 24 * time.Hour

type fixture struct {
	conf        *structures.Config
	transport   *testutil.MockTransport
	metrics     *testutil.MockMetrics
	logger      *testutil.MockLogger
	resolver    *testutil.MockResolver
	reports     store.ReportStoreInterface
	directory   store.ChannelDirectoryInterface
	broadcaster BroadcastServiceInterface
	ingest      ReportServiceInterface
	votes       VoteProcessorInterface
	subs        SubscriptionServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Transport: structures.Transport{
			Token:   "test",
			OwnerID: 99,
		},
		Persistence: structures.Persistence{
			ReportsPath:  filepath.Join(dir, "reports.json.zst"),
			ChannelsPath: filepath.Join(dir, "channels.json.zst"),
		},
		Retention: structures.RetentionConfig{
			Window: week,
		},
		Broadcast: structures.BroadcastConfig{
			DeadCopyThreshold: 3,
		},
	}

	logger := &testutil.MockLogger{}
	compressor, err := store.NewZstdCompressor()
	require.NoError(t, err)
	fm := store.NewFileManager(compressor, logger)

	f := &fixture{
		conf:      conf,
		transport: &testutil.MockTransport{},
		metrics:   &testutil.MockMetrics{},
		logger:    logger,
		resolver:  &testutil.MockResolver{Address: "Teststraße 1,\n12345 Berlin"},
		reports:   store.NewReportStore(conf, fm, nil, logger),
		directory: store.NewChannelDirectory(conf, fm, logger),
	}
	f.broadcaster = NewBroadcastService(conf, f.transport, f.reports, f.metrics, logger)
	f.ingest = NewReportService(conf, f.resolver, f.reports, f.directory, f.broadcaster, f.metrics, logger)
	f.votes = NewVoteProcessor(f.reports, f.broadcaster, f.metrics, logger)
	f.subs = NewSubscriptionService(conf, f.transport, f.directory, logger)
	return f
}

func (f *fixture) subscribe(t *testing.T, destinations ...int64) {
	t.Helper()
	for _, d := range destinations {
		_, err := f.directory.Add(models.ChannelEntry{DestinationID: d})
		require.NoError(t, err)
	}
}

func TestIngest_NewReportBroadcasts(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, -100, -200)

	report, created, err := f.ingest.Ingest(context.Background(), 52.5, 13.4, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Teststraße 1,\n12345 Berlin", report.Address)
	assert.Equal(t, "alice", report.Reporter)
	assert.Len(t, report.Copies, 2)

	assert.Len(t, f.transport.Sent, 2)
	assert.Len(t, f.transport.Locations, 2)
	assert.Contains(t, f.transport.Sent[0].Text, "Hausdurchsuchung")
	assert.Equal(t, 1, f.metrics.Created)
	assert.Equal(t, 0, f.metrics.Deduplicated)
}

func TestIngest_DedupExtendsOnlyUncoveredDestinations(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, -100)

	_, created, err := f.ingest.Ingest(context.Background(), 52.5, 13.4, "alice")
	require.NoError(t, err)
	require.True(t, created)
	require.Len(t, f.transport.Sent, 1)

	f.subscribe(t, -200)

	// Same cell, slightly different reading, different reporter
	report, created, err := f.ingest.Ingest(context.Background(), 52.50002, 13.40003, "bob")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "alice", report.Reporter, "first submission wins")
	assert.Len(t, report.Copies, 2)

	sent := f.transport.SentTo(-200)
	require.Len(t, sent, 1)
	assert.Len(t, f.transport.SentTo(-100), 1, "covered destination must not get a second copy")
	assert.Equal(t, 1, f.metrics.Deduplicated)
}

func TestIngest_GeocodeFailureDegradesToCoordinates(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, -100)
	f.resolver.Err = models.ErrGeocodeUnavailable

	report, created, err := f.ingest.Ingest(context.Background(), 52.5, 13.4, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, report.Address)

	require.Len(t, f.transport.Sent, 1)
	assert.Contains(t, f.transport.Sent[0].Text, "Unbekannte Adresse")
}

func TestIngest_NoSubscribers(t *testing.T) {
	f := newFixture(t)

	report, created, err := f.ingest.Ingest(context.Background(), 52.5, 13.4, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, report.Copies)
	assert.Empty(t, f.transport.Sent)
}
