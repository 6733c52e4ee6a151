package alerts

import (
	"strings"
	"sync"
	"time"

	"github.com/opstack-labs/platform-sim/internal/models"
)

// DefaultRetention is the window after which an alert is considered expired.
const DefaultRetention = 5 * time.Minute

// Store holds the process-wide active alert set. Insertion is deduplicated by
// resource name and expiry is lazy: expired entries are evicted at query time,
// never by a background timer, so an alert may linger in memory past its
// nominal expiry but is never returned once expired.
type Store struct {
	mu        sync.Mutex
	alerts    []models.Alert
	retention time.Duration
	now       func() time.Time
}

// NewStore constructs a Store with the given retention window. A
// non-positive retention falls back to DefaultRetention.
func NewStore(retention time.Duration) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		retention: retention,
		now:       time.Now,
	}
}

// Record inserts the alert unless an active alert already exists for the same
// resource. Returns true when the alert was inserted.
func (s *Store) Record(alert models.Alert) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.now())
	for _, existing := range s.alerts {
		if existing.Resource == alert.Resource {
			return false
		}
	}
	s.alerts = append(s.alerts, alert)
	return true
}

// List evicts expired alerts and returns the remainder filtered by severity.
// A severity of "all" (or empty) returns every active alert. Counts always
// reflect the filtered set.
func (s *Store) List(severity string) models.AlertList {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	filtered := make([]models.Alert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		if severity != "" && severity != "all" && !strings.EqualFold(string(alert.Severity), severity) {
			continue
		}
		filtered = append(filtered, alert)
	}

	list := models.AlertList{
		TotalAlerts: len(filtered),
		Alerts:      filtered,
		Timestamp:   now,
	}
	for _, alert := range filtered {
		switch alert.Severity {
		case models.SeverityCritical:
			list.Critical++
		case models.SeverityWarning:
			list.Warning++
		case models.SeverityInfo:
			list.Info++
		}
	}
	return list
}

// Get returns the active alert with the given id, evicting expired entries
// first. The second return reports whether the alert was found.
func (s *Store) Get(id string) (models.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.now())
	for _, alert := range s.alerts {
		if alert.ID == id {
			return alert, true
		}
	}
	return models.Alert{}, false
}

// ActiveResource reports whether an active alert exists for the resource.
// Used by the generator to honour the one-alert-per-resource rule without
// allocating a full list.
func (s *Store) ActiveResource(resource string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.now())
	for _, alert := range s.alerts {
		if alert.Resource == resource {
			return true
		}
	}
	return false
}

func (s *Store) evictLocked(now time.Time) {
	cutoff := now.Add(-s.retention)
	kept := s.alerts[:0]
	for _, alert := range s.alerts {
		if alert.Timestamp.After(cutoff) {
			kept = append(kept, alert)
		}
	}
	s.alerts = kept
}
