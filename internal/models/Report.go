package models

import (
	"fmt"
	"time"
)

// Copy is one rendered broadcast instance of a report inside a destination.
// Failures counts consecutive resync failures; at the configured threshold the
// copy is marked Dead and skipped by future resyncs, but never removed from
// the report (stale handles stay around for audit).
type Copy struct {
	DestinationID int64 `json:"destination_id"`
	ThreadID      int   `json:"thread_id,omitempty"`
	MessageID     int   `json:"message_id"`
	Failures      int   `json:"failures,omitempty"`
	Dead          bool  `json:"dead,omitempty"`
}

// LocationReport is a single submitted location incident, keyed by its dedup
// key and broadcast to zero or more destinations.
type LocationReport struct {
	DedupKey  string
	Latitude  float64
	Longitude float64
	Address   string
	Reporter  string
	CreatedAt time.Time
	ExpiresAt time.Time
	Copies    []Copy
	Votes     *VoteLedger
}

// DedupKey buckets coordinates into an ~11m cell. Two submissions rounding to
// the same cell are the same report: the first resolved address and reporter
// win, later submissions only contribute broadcast copies.
func DedupKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f:%.4f", lat, lon)
}

func NewLocationReport(lat, lon float64, address, reporter string, now time.Time, retention time.Duration) *LocationReport {
	return &LocationReport{
		DedupKey:  DedupKey(lat, lon),
		Latitude:  lat,
		Longitude: lon,
		Address:   address,
		Reporter:  reporter,
		CreatedAt: now,
		ExpiresAt: now.Add(retention),
		Votes:     NewVoteLedger(),
	}
}

func (r *LocationReport) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// HasLiveCopy reports whether the destination already holds a non-dead copy.
func (r *LocationReport) HasLiveCopy(destinationID int64) bool {
	for _, c := range r.Copies {
		if c.DestinationID == destinationID && !c.Dead {
			return true
		}
	}
	return false
}

// LiveCopies returns the copies still eligible for resync.
func (r *LocationReport) LiveCopies() []Copy {
	out := make([]Copy, 0, len(r.Copies))
	for _, c := range r.Copies {
		if !c.Dead {
			out = append(out, c)
		}
	}
	return out
}

// Clone deep-copies the report so store callers can never mutate shared state.
func (r *LocationReport) Clone() *LocationReport {
	cp := *r
	cp.Copies = make([]Copy, len(r.Copies))
	copy(cp.Copies, r.Copies)
	if r.Votes != nil {
		cp.Votes = r.Votes.Clone()
	}
	return &cp
}
