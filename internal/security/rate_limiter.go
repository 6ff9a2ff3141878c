// Package security guards the authoritative listener against abusive
// query traffic: a per-source-IP fixed-window rate limiter and a
// bogon source-address filter.
package security

import (
	"sync"
	"time"
)

// rateLimitEntry tracks query rate for a single source IP, so one
// misbehaving or spoofed sender can be throttled without affecting
// everyone else querying the server.
type rateLimitEntry struct {
	windowStart    time.Time
	cooldownExpiry time.Time
	lastSeen       time.Time
	queryCount     int
}

// RateLimiter enforces a per-source-IP queries-per-second threshold
// with a cooldown once exceeded, over a bounded map of tracked
// sources.
type RateLimiter struct {
	threshold     int
	cooldown      time.Duration
	maxEntries    int
	sources       map[string]*rateLimitEntry
	mu            sync.Mutex
	evictionCount uint64
}

// NewRateLimiter creates a rate limiter allowing threshold queries per
// second per source IP, imposing cooldown once a source exceeds it,
// and tracking at most maxEntries distinct sources.
func NewRateLimiter(threshold int, cooldown time.Duration, maxEntries int) *RateLimiter {
	return &RateLimiter{
		threshold:  threshold,
		cooldown:   cooldown,
		maxEntries: maxEntries,
		sources:    make(map[string]*rateLimitEntry),
	}
}

// Allow reports whether a query from sourceIP should be answered: it
// is false while the source is in cooldown or once it has exceeded
// threshold queries within the current one-second window.
func (rl *RateLimiter) Allow(sourceIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.sources[sourceIP]
	if !exists {
		rl.sources[sourceIP] = &rateLimitEntry{queryCount: 1, windowStart: now, lastSeen: now}
		if len(rl.sources) > rl.maxEntries {
			rl.evict()
		}
		return true
	}

	if !entry.cooldownExpiry.IsZero() {
		if now.Before(entry.cooldownExpiry) {
			return false
		}
		entry.queryCount = 1
		entry.windowStart = now
		entry.cooldownExpiry = time.Time{}
		entry.lastSeen = now
		return true
	}

	if now.Sub(entry.windowStart) > time.Second {
		entry.queryCount = 1
		entry.windowStart = now
	} else {
		entry.queryCount++
	}
	entry.lastSeen = now

	if entry.queryCount > rl.threshold {
		entry.cooldownExpiry = now.Add(rl.cooldown)
		return false
	}
	return true
}

// evict drops the oldest tenth of tracked sources by last-seen time.
// Must be called while holding rl.mu.
func (rl *RateLimiter) evict() {
	evictCount := rl.maxEntries / 10
	if evictCount == 0 {
		evictCount = 1
	}

	type entryWithTime struct {
		ip       string
		lastSeen time.Time
	}
	entries := make([]entryWithTime, 0, len(rl.sources))
	for ip, entry := range rl.sources {
		entries = append(entries, entryWithTime{ip: ip, lastSeen: entry.lastSeen})
	}

	for i := 0; i < evictCount && i < len(entries); i++ {
		oldestIdx := i
		for j := i + 1; j < len(entries); j++ {
			if entries[j].lastSeen.Before(entries[oldestIdx].lastSeen) {
				oldestIdx = j
			}
		}
		entries[i], entries[oldestIdx] = entries[oldestIdx], entries[i]
	}

	for i := 0; i < evictCount && i < len(entries); i++ {
		delete(rl.sources, entries[i].ip)
		rl.evictionCount++
	}
}

// Cleanup drops sources that haven't queried in the last minute,
// intended to run on a periodic timer so the map doesn't grow
// unbounded between bursts.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, entry := range rl.sources {
		if now.Sub(entry.lastSeen) > time.Minute {
			delete(rl.sources, ip)
		}
	}
}
