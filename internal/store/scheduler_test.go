package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvd/internal/models"
	"rvd/internal/store/interfaces"
	"rvd/internal/structures"
	"rvd/internal/testutil"
)

func schedulerFixture(t *testing.T) (SchedulerFixture, *structures.Config) {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Persistence: structures.Persistence{
			ReportsPath:  filepath.Join(dir, "reports.json.zst"),
			ChannelsPath: filepath.Join(dir, "channels.json.zst"),
			SaveInterval: time.Hour,
		},
		Retention: structures.RetentionConfig{
			Window:        week,
			SweepInterval: time.Hour,
		},
	}

	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(compressor, logger)
	reports := NewReportStore(conf, fm, nil, logger)
	directory := NewChannelDirectory(conf, fm, logger)
	metrics := &testutil.MockMetrics{}

	return SchedulerFixture{
		Scheduler: NewScheduler(conf, logger, metrics, reports, directory),
		Reports:   reports,
		Directory: directory,
		Metrics:   metrics,
	}, conf
}

type SchedulerFixture struct {
	Scheduler interfaces.SchedulerInterface
	Reports   ReportStoreInterface
	Directory ChannelDirectoryInterface
	Metrics   *testutil.MockMetrics
}

func TestScheduler_RestoreSweepsExpired(t *testing.T) {
	f, _ := schedulerFixture(t)

	_, _, err := f.Reports.FindOrCreate(models.DedupKey(52.5, 13.4), func() *models.LocationReport {
		return sampleReport(52.5, 13.4, "old", -time.Hour)
	})
	require.NoError(t, err)
	_, _, err = f.Reports.FindOrCreate(models.DedupKey(48.1, 11.5), func() *models.LocationReport {
		return sampleReport(48.1, 11.5, "fresh", week)
	})
	require.NoError(t, err)
	require.NoError(t, f.Reports.Persist())

	require.NoError(t, f.Scheduler.Restore())

	assert.Equal(t, 1, f.Reports.Len())
	assert.Equal(t, 1, f.Metrics.Purged)
}

func TestScheduler_PersistWritesSnapshots(t *testing.T) {
	f, conf := schedulerFixture(t)

	_, _, err := f.Reports.FindOrCreate(models.DedupKey(52.5, 13.4), func() *models.LocationReport {
		return sampleReport(52.5, 13.4, "alice", week)
	})
	require.NoError(t, err)
	_, err = f.Directory.Add(models.ChannelEntry{DestinationID: -100})
	require.NoError(t, err)

	require.NoError(t, f.Scheduler.Persist())

	_, err = os.Stat(conf.Persistence.ReportsPath)
	assert.NoError(t, err)
	_, err = os.Stat(conf.Persistence.ChannelsPath)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.Metrics.PersistObserved)
}

func TestScheduler_InitAndStop(t *testing.T) {
	f, _ := schedulerFixture(t)
	f.Scheduler.Init()
	f.Scheduler.Stop()
}
