package utils

import (
	"fmt"
	"time"
)

// ParseWindow converts a query time window such as "5m" or "1h" into a
// duration. Empty input defaults to five minutes.
func ParseWindow(value string) (time.Duration, error) {
	if value == "" {
		return 5 * time.Minute, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse time window %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("time window must be positive, got %s", value)
	}
	return d, nil
}
