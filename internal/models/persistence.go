package models

import "time"

// ReportRecord is the V1 persistence format for a single report. Vote sets are
// stored as plain ID arrays; the in-memory bitmaps are rebuilt on load.
type ReportRecord struct {
	DedupKey      string    `json:"dedup_key"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Address       string    `json:"address"`
	Reporter      string    `json:"reporter"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Copies        []Copy    `json:"copies"`
	ValidVoters   []int64   `json:"valid_voters"`
	InvalidVoters []int64   `json:"invalid_voters"`
}

// ReportsFile is the persistence envelope with an explicit version field.
// Pre-envelope files held a bare array of records; the loader migrates those.
type ReportsFile struct {
	Version int             `json:"version"`
	Reports []*ReportRecord `json:"reports"`
}

// ChannelsFile is the directory envelope.
type ChannelsFile struct {
	Version  int            `json:"version"`
	Channels []ChannelEntry `json:"channels"`
}

// LegacyChannelEntry matches the channels file written by the first bot
// revision, kept so existing deployments load without manual migration.
type LegacyChannelEntry struct {
	ChatID          int64 `json:"chat_id"`
	MessageThreadID int   `json:"message_thread_id"`
}

type LegacyChannelsFile struct {
	Channels []LegacyChannelEntry `json:"channels"`
}

func (r *LocationReport) Record() *ReportRecord {
	return &ReportRecord{
		DedupKey:      r.DedupKey,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Address:       r.Address,
		Reporter:      r.Reporter,
		CreatedAt:     r.CreatedAt,
		ExpiresAt:     r.ExpiresAt,
		Copies:        append([]Copy(nil), r.Copies...),
		ValidVoters:   r.Votes.ValidVoters(),
		InvalidVoters: r.Votes.InvalidVoters(),
	}
}

func (rec *ReportRecord) Report() *LocationReport {
	return &LocationReport{
		DedupKey:  rec.DedupKey,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Address:   rec.Address,
		Reporter:  rec.Reporter,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
		Copies:    append([]Copy(nil), rec.Copies...),
		Votes:     RestoreVoteLedger(rec.ValidVoters, rec.InvalidVoters),
	}
}
