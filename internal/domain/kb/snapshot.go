package kb

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// Snapshot is an immutable, ordered view of the knowledge base.
type Snapshot struct {
	records  []Record
	version  uint64
	digest   string
	loadedAt time.Time
}

// NewSnapshot creates a snapshot. records must not be modified afterwards.
func NewSnapshot(records []Record, version uint64, loadedAt time.Time) *Snapshot {
	return &Snapshot{records: records, version: version, digest: digest(records), loadedAt: loadedAt}
}

// digest hashes the records in order. Fields are NUL-terminated so that
// moving text between adjacent fields changes the hash.
func digest(records []Record) string {
	h := sha256.New()
	for i := range records {
		r := &records[i]
		for _, f := range [...]string{
			r.ID, r.QuestionPrimary, r.QuestionSecondary, r.AnswerPrimary, r.AnswerSecondary, r.Project,
		} {
			_, _ = h.Write([]byte(f))
			_, _ = h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Records returns the records in source order.
func (s *Snapshot) Records() []Record { return s.records }

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Version counts reloads in this process. It is not comparable across processes.
func (s *Snapshot) Version() uint64 { return s.version }

// Digest is a content hash of the records, identical for identical data in any process.
func (s *Snapshot) Digest() string { return s.digest }

// LoadedAt returns the load time.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Holder publishes the current snapshot. Reloads replace it wholesale.
type Holder struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Replace publishes a new snapshot built from records.
func (h *Holder) Replace(records []Record, now time.Time) *Snapshot {
	s := NewSnapshot(records, h.version.Add(1), now)
	h.current.Store(s)
	return s
}

// Snapshot returns the current snapshot, or nil if none was loaded yet.
func (h *Holder) Snapshot() *Snapshot {
	return h.current.Load()
}

// Loaded reports whether a snapshot is available.
func (h *Holder) Loaded() bool {
	return h.current.Load() != nil
}
