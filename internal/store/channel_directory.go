package store

import (
	"sync"

	json "github.com/goccy/go-json"

	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/structures"
)

// ChannelDirectoryInterface is the persisted list of subscribed destinations.
type ChannelDirectoryInterface interface {
	// Add appends the entry and persists; a duplicate is an idempotent no-op
	// reported via the bool.
	Add(entry models.ChannelEntry) (bool, error)
	Contains(entry models.ChannelEntry) bool
	List() []models.ChannelEntry
	Len() int
	Restore() error
	Persist() error
}

type ChannelDirectory struct {
	mu          sync.Mutex
	entries     []models.ChannelEntry
	keys        map[string]struct{}
	fileManager *FileManager
	path        string
	logger      providers.Logger
}

func NewChannelDirectory(conf *structures.Config, fileManager *FileManager, logger providers.Logger) ChannelDirectoryInterface {
	return &ChannelDirectory{
		keys:        make(map[string]struct{}),
		fileManager: fileManager,
		path:        conf.Persistence.ChannelsPath,
		logger:      logger,
	}
}

func (d *ChannelDirectory) Add(entry models.ChannelEntry) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.keys[entry.Key()]; ok {
		return false, nil
	}

	next := append(append([]models.ChannelEntry(nil), d.entries...), entry)
	if err := d.saveLocked(next); err != nil {
		return false, models.NewStorageError("save channels", err)
	}

	d.entries = next
	d.keys[entry.Key()] = struct{}{}
	return true, nil
}

func (d *ChannelDirectory) Contains(entry models.ChannelEntry) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.keys[entry.Key()]
	return ok
}

func (d *ChannelDirectory) List() []models.ChannelEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.ChannelEntry(nil), d.entries...)
}

func (d *ChannelDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *ChannelDirectory) Restore() error {
	data, err := d.fileManager.Load(d.path)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	var file models.ChannelsFile
	if err := json.Unmarshal(data, &file); err == nil && file.Version > 0 {
		d.put(file.Channels)
		return nil
	}

	// First-revision layout: {"channels":[{"chat_id":..,"message_thread_id":..}]}
	var legacy models.LegacyChannelsFile
	if err := json.Unmarshal(data, &legacy); err != nil || legacy.Channels == nil {
		d.logger.Warnf(providers.TypeApp, "Migration of channels file failed")
		return err
	}
	entries := make([]models.ChannelEntry, 0, len(legacy.Channels))
	for _, c := range legacy.Channels {
		entries = append(entries, models.ChannelEntry{DestinationID: c.ChatID, ThreadID: c.MessageThreadID})
	}
	d.logger.Warnf(providers.TypeApp, "Migrated channels file from legacy format")
	d.put(entries)
	return nil
}

func (d *ChannelDirectory) Persist() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveLocked(d.entries)
}

func (d *ChannelDirectory) put(entries []models.ChannelEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range entries {
		if _, ok := d.keys[e.Key()]; ok {
			continue
		}
		d.entries = append(d.entries, e)
		d.keys[e.Key()] = struct{}{}
	}
}

func (d *ChannelDirectory) saveLocked(entries []models.ChannelEntry) error {
	return d.fileManager.Save(d.path, &models.ChannelsFile{Version: 1, Channels: entries})
}
