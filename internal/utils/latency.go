package utils

import (
	"sort"
	"sync"
	"time"
)

// LatencyTracker keeps a bounded window of duration samples for percentile
// reporting. Oldest samples are dropped once the window is full.
type LatencyTracker struct {
	mu      sync.RWMutex
	samples []time.Duration
	maxSize int
}

// NewLatencyTracker creates a tracker storing up to maxSize samples.
func NewLatencyTracker(maxSize int) *LatencyTracker {
	if maxSize <= 0 {
		maxSize = 512
	}
	return &LatencyTracker{maxSize: maxSize}
}

// Observe records a new duration.
func (l *LatencyTracker) Observe(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.samples) == l.maxSize {
		copy(l.samples, l.samples[1:])
		l.samples = l.samples[:l.maxSize-1]
	}
	l.samples = append(l.samples, d)
}

// Percentile returns the p-th percentile (0-100) over the current window,
// or zero when no samples have been recorded.
func (l *LatencyTracker) Percentile(p float64) time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.samples)
	if n == 0 {
		return 0
	}

	sorted := append([]time.Duration(nil), l.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	switch {
	case p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[n-1]
	}
	index := int((p / 100.0) * float64(n-1))
	return sorted[index]
}

// Count returns the number of samples in the window.
func (l *LatencyTracker) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.samples)
}
