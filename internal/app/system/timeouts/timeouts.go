// Package timeouts provides centralized timeout values for handler
// operations.
//
// These are used with context.WithTimeout for database work in HTTP
// handlers. Central values keep the budgets consistent and easy to
// adjust.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: simple single-document reads or lookups
//   - Medium: list queries, moderate writes, multi-step reads
//   - Long: multi-collection work such as a ticket purchase or a
//     sales-stats aggregation
package timeouts

import (
	"os"
	"sync"
	"time"
)

// Default timeout values (used if nothing is configured).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for single-document reads.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for list queries and moderate writes.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for work spanning multiple collections.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// ConfigureFromEnv overrides timeouts from TIMEOUT_PING, TIMEOUT_SHORT,
// TIMEOUT_MEDIUM, and TIMEOUT_LONG, when set to parseable durations.
// It returns how many values were overridden.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	configured := 0

	for _, entry := range []struct {
		env string
		dst *time.Duration
	}{
		{"TIMEOUT_PING", &ping},
		{"TIMEOUT_SHORT", &short},
		{"TIMEOUT_MEDIUM", &medium},
		{"TIMEOUT_LONG", &long},
	} {
		if v := os.Getenv(entry.env); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				*entry.dst = d
				configured++
			}
		}
	}
	return configured
}

// Reset restores the defaults. Tests use it to undo ConfigureFromEnv.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	medium = DefaultMedium
	long = DefaultLong
}
