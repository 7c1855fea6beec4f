package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/store/interfaces"
	"rvd/internal/structures"
)

// ArchiveFile is the on-disk format for one sweep's worth of purged reports.
type ArchiveFile struct {
	PurgedAt time.Time              `json:"purged_at"`
	Reports  []*models.ReportRecord `json:"reports"`
}

// Archive keeps purged reports around for audit. Each sweep writes its own
// dated file, so there is never a read-modify-write cycle on archive data.
// Disabled when no directory is configured.
type Archive struct {
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewArchive(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *Archive {
	return &Archive{
		dir:        conf.Retention.ArchiveDir,
		compressor: compressor,
		logger:     logger,
	}
}

func (a *Archive) Enabled() bool {
	return a.dir != ""
}

func (a *Archive) Store(records []*models.ReportRecord, now time.Time) error {
	if !a.Enabled() || len(records) == 0 {
		return nil
	}

	jsonData, err := json.Marshal(&ArchiveFile{PurgedAt: now, Reports: records})
	if err != nil {
		return err
	}
	data, err := a.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("purged-%s.json.zst", now.UTC().Format("20060102-150405.000000000"))
	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "Archived %d purged reports to %s", len(records), name)
	return nil
}
