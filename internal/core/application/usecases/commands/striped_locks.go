package commands

import (
	"hash/fnv"
	"sort"
	"sync"
)

// defaultLockStripes balances memory against contention for typical fleet sizes.
const defaultLockStripes = 64

// StripedLocks is an in-process serialization point keyed by aggregate id.
// The assignment handler acquires the stripes of every rider (and the order)
// it is about to mutate, closing the check-then-act window where two
// concurrent assignments both pass a rider's capacity check before either
// commits.
//
// Keys hash onto a fixed set of mutexes; unrelated keys may share a stripe,
// which costs throughput but never correctness. Stripes are always locked in
// ascending index order so overlapping acquisitions cannot deadlock.
type StripedLocks struct {
	stripes []sync.Mutex
}

// NewStripedLocks creates a lock set with the given stripe count.
// Counts below 1 fall back to the default.
func NewStripedLocks(stripes int) *StripedLocks {
	if stripes < 1 {
		stripes = defaultLockStripes
	}
	return &StripedLocks{stripes: make([]sync.Mutex, stripes)}
}

// Acquire locks the stripes of all given keys and returns the release
// function. Empty keys are ignored; duplicate stripes are locked once.
func (l *StripedLocks) Acquire(keys ...string) func() {
	indices := make([]int, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		indices = append(indices, l.stripeIndex(key))
	}

	sort.Ints(indices)
	locked := make([]int, 0, len(indices))
	for i, idx := range indices {
		if i > 0 && idx == indices[i-1] {
			continue
		}
		l.stripes[idx].Lock()
		locked = append(locked, idx)
	}

	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			l.stripes[locked[i]].Unlock()
		}
	}
}

func (l *StripedLocks) stripeIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(l.stripes)))
}
