// Package history provides a bounded, timestamp-keyed snapshot store.
// One Store holds the rolling history for a single observation kind;
// the polling engine instantiates one per kind so eviction is applied
// independently.
package history

import (
	"errors"
	"time"

	"github.com/evemaps/pipecleaner/internal/esi"
)

// ErrNotFound is returned by Get for a timestamp that was evicted or
// never stored. Under correct engine bookkeeping this indicates a bug
// in the caller, not a recoverable condition.
var ErrNotFound = errors.New("history: no snapshot at timestamp")

// frame is one stored snapshot.
type frame[T any] struct {
	ts    time.Time
	table map[esi.SystemID]T
}

// Store is a capacity-bounded collection of snapshots ordered by
// timestamp. Once the capacity is exceeded the snapshot with the
// smallest timestamp is evicted; among equal timestamps the earliest
// inserted goes first.
type Store[T any] struct {
	maxFrames int
	frames    []frame[T]
}

// NewStore creates a store holding at most maxFrames snapshots.
func NewStore[T any](maxFrames int) *Store[T] {
	if maxFrames < 1 {
		maxFrames = 1
	}

	return &Store[T]{maxFrames: maxFrames}
}

// Put inserts a snapshot, then evicts oldest-first until the store is
// within capacity.
func (s *Store[T]) Put(ts time.Time, table map[esi.SystemID]T) {
	s.frames = append(s.frames, frame[T]{ts: ts, table: table})

	for len(s.frames) > s.maxFrames {
		s.evictOldest()
	}
}

// evictOldest removes the frame with the minimum timestamp. Frames are
// appended in insertion order, so scanning with a strict comparison
// keeps ties deterministic: the earliest inserted of equal timestamps
// is removed first.
func (s *Store[T]) evictOldest() {
	oldest := 0

	for i := 1; i < len(s.frames); i++ {
		if s.frames[i].ts.Before(s.frames[oldest].ts) {
			oldest = i
		}
	}

	s.frames = append(s.frames[:oldest], s.frames[oldest+1:]...)
}

// Get returns the snapshot stored at exactly ts, or ErrNotFound.
func (s *Store[T]) Get(ts time.Time) (map[esi.SystemID]T, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].ts.Equal(ts) {
			return s.frames[i].table, nil
		}
	}

	return nil, ErrNotFound
}

// Latest returns the snapshot with the maximum timestamp.
func (s *Store[T]) Latest() (time.Time, map[esi.SystemID]T, error) {
	if len(s.frames) == 0 {
		return time.Time{}, nil, ErrNotFound
	}

	newest := 0

	for i := 1; i < len(s.frames); i++ {
		if !s.frames[i].ts.Before(s.frames[newest].ts) {
			newest = i
		}
	}

	return s.frames[newest].ts, s.frames[newest].table, nil
}

// LatestTimestamp returns the maximum stored timestamp.
func (s *Store[T]) LatestTimestamp() (time.Time, error) {
	ts, _, err := s.Latest()

	return ts, err
}

// Timestamps returns every stored timestamp in insertion order.
func (s *Store[T]) Timestamps() []time.Time {
	out := make([]time.Time, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.ts
	}

	return out
}

// Len returns the number of stored snapshots.
func (s *Store[T]) Len() int {
	return len(s.frames)
}
