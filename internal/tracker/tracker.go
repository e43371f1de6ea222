package tracker

import (
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 32

type shard struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

// SlidingWindow keeps per-key ordered event timestamps and prunes them to the
// requested interval on every read. Keys are sharded so unrelated users never
// contend on the same lock.
type SlidingWindow struct {
	shards [shardCount]*shard
}

func New() *SlidingWindow {
	t := &SlidingWindow{}
	for i := range t.shards {
		t.shards[i] = &shard{windows: make(map[string][]time.Time)}
	}
	return t
}

func (t *SlidingWindow) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return t.shards[h.Sum32()%shardCount]
}

// Record appends a timestamp to the key's window. Unknown keys start empty.
func (t *SlidingWindow) Record(key string, ts time.Time) {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[key] = append(s.windows[key], ts)
}

// CountWithin prunes entries older than now-interval, commits the pruned
// window back and returns the remaining count. Calling it again with the same
// now returns the same count.
func (t *SlidingWindow) CountWithin(key string, interval time.Duration, now time.Time) int {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := prune(s.windows[key], interval, now)
	t.commit(s, key, kept)
	return len(kept)
}

// RecordAndCount prunes, appends now and returns the new count as one atomic
// step per key. This is the read-prune-append sequence the detectors rely on.
func (t *SlidingWindow) RecordAndCount(key string, interval time.Duration, now time.Time) int {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := append(prune(s.windows[key], interval, now), now)
	s.windows[key] = kept
	return len(kept)
}

// Reset drops the key's window entirely.
func (t *SlidingWindow) Reset(key string) {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
}

func (t *SlidingWindow) commit(s *shard, key string, kept []time.Time) {
	if len(kept) == 0 {
		delete(s.windows, key)
		return
	}
	s.windows[key] = kept
}

// prune keeps timestamps ts with now-ts < interval.
func prune(window []time.Time, interval time.Duration, now time.Time) []time.Time {
	kept := window[:0]
	for _, ts := range window {
		if now.Sub(ts) < interval {
			kept = append(kept, ts)
		}
	}
	return kept
}
