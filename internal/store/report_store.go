package store

import (
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/structures"
)

type copyKey struct {
	destinationID int64
	messageID     int
}

// ReportStoreInterface is the single point of truth for reports, their votes
// and their broadcast-copy bookkeeping.
type ReportStoreInterface interface {
	// FindOrCreate returns the report for key, constructing and persisting it
	// via factory when absent. Atomic under the store lock: concurrent
	// ingestion of the same key yields exactly one entry.
	FindOrCreate(key string, factory func() *models.LocationReport) (*models.LocationReport, bool, error)
	// FindByCopyHandle resolves a vote-button click back to its report.
	FindByCopyHandle(destinationID int64, messageID int) (*models.LocationReport, bool)
	Get(key string) (*models.LocationReport, bool)
	// Mutate applies fn to the report under exclusive access and persists the
	// result before returning. On a persistence failure the in-memory state
	// stays at the last persisted snapshot and a StorageError is returned.
	Mutate(key string, fn func(*models.LocationReport)) (*models.LocationReport, error)
	// PurgeExpired removes every report past its expiry horizon and returns
	// how many were dropped. Never fails the caller.
	PurgeExpired(now time.Time) int
	List() []*models.LocationReport
	Len() int
	Restore() error
	Persist() error
}

type ReportStore struct {
	mu          sync.Mutex
	reports     map[string]*models.LocationReport
	byCopy      map[copyKey]string
	fileManager *FileManager
	archive     *Archive
	path        string
	logger      providers.Logger
}

func NewReportStore(conf *structures.Config, fileManager *FileManager, archive *Archive, logger providers.Logger) ReportStoreInterface {
	return &ReportStore{
		reports:     make(map[string]*models.LocationReport),
		byCopy:      make(map[copyKey]string),
		fileManager: fileManager,
		archive:     archive,
		path:        conf.Persistence.ReportsPath,
		logger:      logger,
	}
}

func (s *ReportStore) FindOrCreate(key string, factory func() *models.LocationReport) (*models.LocationReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.reports[key]; ok {
		return r.Clone(), false, nil
	}

	r := factory()
	if err := s.persistLocked(r); err != nil {
		return nil, false, models.NewStorageError("save reports", err)
	}
	s.reports[key] = r
	s.indexCopiesLocked(r)
	return r.Clone(), true, nil
}

func (s *ReportStore) FindByCopyHandle(destinationID int64, messageID int) (*models.LocationReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.byCopy[copyKey{destinationID: destinationID, messageID: messageID}]
	if !ok {
		return nil, false
	}
	r, ok := s.reports[key]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

func (s *ReportStore) Get(key string) (*models.LocationReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[key]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

func (s *ReportStore) Mutate(key string, fn func(*models.LocationReport)) (*models.LocationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.reports[key]
	if !ok {
		return nil, models.ErrUnknownReport
	}

	// Work on a clone: memory only advances past the last persisted snapshot
	// when the write succeeded.
	next := cur.Clone()
	fn(next)

	if err := s.persistLocked(next); err != nil {
		return nil, models.NewStorageError("save reports", err)
	}

	s.reports[key] = next
	s.indexCopiesLocked(next)
	return next.Clone(), nil
}

func (s *ReportStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*models.LocationReport
	for _, r := range s.reports {
		if r.Expired(now) {
			expired = append(expired, r)
		}
	}
	if len(expired) == 0 {
		return 0
	}

	survivors := make(map[string]*models.LocationReport, len(s.reports)-len(expired))
	for k, r := range s.reports {
		if !r.Expired(now) {
			survivors[k] = r
		}
	}

	if err := s.saveSnapshot(survivors, nil); err != nil {
		s.logger.Errorf(providers.TypeApp, "Sweep aborted, could not persist: %s", err)
		return 0
	}

	if s.archive != nil {
		records := make([]*models.ReportRecord, len(expired))
		for i, r := range expired {
			records[i] = r.Record()
		}
		if err := s.archive.Store(records, now); err != nil {
			s.logger.Warnf(providers.TypeApp, "Could not archive %d purged reports: %s", len(records), err)
		}
	}

	s.reports = survivors
	s.byCopy = make(map[copyKey]string, len(survivors))
	for _, r := range survivors {
		s.indexCopiesLocked(r)
	}
	return len(expired)
}

func (s *ReportStore) List() []*models.LocationReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.LocationReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *ReportStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func (s *ReportStore) Restore() error {
	data, err := s.fileManager.Load(s.path)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	var file models.ReportsFile
	if err := json.Unmarshal(data, &file); err == nil && file.Reports != nil {
		s.putRecords(file.Reports)
		return nil
	}

	// Pre-envelope layout: bare array of records
	var records []*models.ReportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warnf(providers.TypeApp, "Migration of reports snapshot failed")
		return err
	}
	s.logger.Warnf(providers.TypeApp, "Migrated reports snapshot from pre-envelope format")
	s.putRecords(records)
	return nil
}

func (s *ReportStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSnapshot(s.reports, nil)
}

func (s *ReportStore) putRecords(records []*models.ReportRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if rec == nil || rec.DedupKey == "" {
			continue
		}
		r := rec.Report()
		s.reports[r.DedupKey] = r
		s.indexCopiesLocked(r)
	}
}

func (s *ReportStore) indexCopiesLocked(r *models.LocationReport) {
	for _, c := range r.Copies {
		s.byCopy[copyKey{destinationID: c.DestinationID, messageID: c.MessageID}] = r.DedupKey
	}
}

// persistLocked writes the current snapshot with extra replacing (or joining)
// its map entry. Memory is untouched; callers install extra only on success.
func (s *ReportStore) persistLocked(extra *models.LocationReport) error {
	return s.saveSnapshot(s.reports, extra)
}

func (s *ReportStore) saveSnapshot(reports map[string]*models.LocationReport, extra *models.LocationReport) error {
	file := &models.ReportsFile{Version: 1, Reports: make([]*models.ReportRecord, 0, len(reports)+1)}
	for k, r := range reports {
		if extra != nil && k == extra.DedupKey {
			continue
		}
		file.Reports = append(file.Reports, r.Record())
	}
	if extra != nil {
		file.Reports = append(file.Reports, extra.Record())
	}
	sort.Slice(file.Reports, func(i, j int) bool {
		if file.Reports[i].CreatedAt.Equal(file.Reports[j].CreatedAt) {
			return file.Reports[i].DedupKey < file.Reports[j].DedupKey
		}
		return file.Reports[i].CreatedAt.Before(file.Reports[j].CreatedAt)
	})
	return s.fileManager.Save(s.path, file)
}
