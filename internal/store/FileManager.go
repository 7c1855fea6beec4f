package store

import (
	"os"

	json "github.com/goccy/go-json"

	"rvd/internal/providers"
	"rvd/internal/store/interfaces"
)

// FileManager persists JSON snapshots compressed with zstd. Writes go through
// a tmp file, fsync and rename, so a crash mid-write never corrupts the last
// good snapshot.
type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) Save(fileName string, v any) error {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Load returns the decoded snapshot bytes, or nil when the file does not
// exist yet. Files written by pre-compression revisions are plain JSON; when
// zstd rejects the payload the raw bytes are handed back for the caller's
// format migration to sort out.
func (f *FileManager) Load(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s is not compressed, assuming legacy plain JSON", fileName)
		return data, nil
	}
	return decompressed, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
