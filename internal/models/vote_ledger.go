package models

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

type Verdict uint8

const (
	VerdictValid Verdict = iota
	VerdictInvalid
)

func (v Verdict) String() string {
	if v == VerdictValid {
		return "valid"
	}
	return "invalid"
}

// VoteLedger tracks per-voter verdicts as two sparse ID sets. A voter ID is
// never present in both bitmaps: Cast moves the ID atomically from one set to
// the other on a verdict switch. Not internally synchronized — callers go
// through the report store, which serializes all mutations.
type VoteLedger struct {
	valid   *roaring64.Bitmap
	invalid *roaring64.Bitmap
}

func NewVoteLedger() *VoteLedger {
	return &VoteLedger{
		valid:   roaring64.New(),
		invalid: roaring64.New(),
	}
}

// Cast applies one verdict event and reports whether the ledger changed.
// Resubmitting the current verdict is a no-op.
func (l *VoteLedger) Cast(voter int64, v Verdict) bool {
	id := uint64(voter)
	cur, have := l.Get(voter)
	if have && cur == v {
		return false
	}

	switch v {
	case VerdictValid:
		l.invalid.Remove(id)
		l.valid.Add(id)
	case VerdictInvalid:
		l.valid.Remove(id)
		l.invalid.Add(id)
	default:
		return false
	}
	return true
}

// Get returns the voter's current verdict, if any.
func (l *VoteLedger) Get(voter int64) (Verdict, bool) {
	id := uint64(voter)
	if l.valid.Contains(id) {
		return VerdictValid, true
	}
	if l.invalid.Contains(id) {
		return VerdictInvalid, true
	}
	return 0, false
}

func (l *VoteLedger) ValidCount() int {
	return int(l.valid.GetCardinality())
}

func (l *VoteLedger) InvalidCount() int {
	return int(l.invalid.GetCardinality())
}

func (l *VoteLedger) Total() int {
	return l.ValidCount() + l.InvalidCount()
}

// ValidPercent is the valid share in percent, rounded to two decimal places.
// Zero when nobody has voted yet.
func (l *VoteLedger) ValidPercent() float64 {
	total := l.Total()
	if total == 0 {
		return 0
	}
	return math.Round(100*float64(l.ValidCount())/float64(total)*100) / 100
}

func (l *VoteLedger) ValidVoters() []int64 {
	return bitmapToIDs(l.valid)
}

func (l *VoteLedger) InvalidVoters() []int64 {
	return bitmapToIDs(l.invalid)
}

func (l *VoteLedger) Clone() *VoteLedger {
	return &VoteLedger{
		valid:   l.valid.Clone(),
		invalid: l.invalid.Clone(),
	}
}

// RestoreVoteLedger rebuilds a ledger from persisted ID sets. An ID present in
// both slices keeps its invalid verdict, matching Cast ordering on replay.
func RestoreVoteLedger(valid, invalid []int64) *VoteLedger {
	l := NewVoteLedger()
	for _, id := range valid {
		l.valid.Add(uint64(id))
	}
	for _, id := range invalid {
		l.valid.Remove(uint64(id))
		l.invalid.Add(uint64(id))
	}
	return l
}

func bitmapToIDs(b *roaring64.Bitmap) []int64 {
	raw := b.ToArray()
	ids := make([]int64, len(raw))
	for i, v := range raw {
		ids[i] = int64(v)
	}
	return ids
}
