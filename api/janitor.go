/*
janitor.go - Run retention janitor

PURPOSE:
  Evicts old runs from the in-memory run map. Every run keeps its full ODS
  workbook in memory for download, so a long-lived server accumulating
  scenario runs would grow without bound.

DESIGN:
  - Runs a background goroutine with configurable sweep interval
  - Removes runs whose creation time is older than the TTL
  - Sweeps once immediately on start, then on every tick

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 10 minutes)
  - TTL: How long a run is retained (default: 24 hours)
  - Enabled: Whether the janitor is active (default: true)

USAGE:
  janitor := NewRetentionJanitor(handler)
  janitor.Start()
  // ... later
  janitor.Stop()

SEE ALSO:
  - handlers.go: The run map the janitor sweeps
*/
package api

import (
	"log"
	"sync"
	"time"
)

// RetentionJanitor expires completed runs after a TTL.
type RetentionJanitor struct {
	Handler       *Handler
	CheckInterval time.Duration
	TTL           time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionJanitor creates a janitor for the handler's run map.
func NewRetentionJanitor(handler *Handler) *RetentionJanitor {
	return &RetentionJanitor{
		Handler:       handler,
		CheckInterval: 10 * time.Minute,
		TTL:           24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the janitor.
func (j *RetentionJanitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.Enabled {
		log.Println("[Janitor] Disabled, not starting")
		return
	}

	j.ticker = time.NewTicker(j.CheckInterval)
	j.wg.Add(1)

	go j.run()

	log.Printf("[Janitor] Started: evicting runs older than %v every %v", j.TTL, j.CheckInterval)
}

// Stop stops the janitor.
func (j *RetentionJanitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.ticker != nil {
		j.ticker.Stop()
		close(j.stop)
		j.wg.Wait()
		log.Println("[Janitor] Stopped")
	}
}

func (j *RetentionJanitor) run() {
	defer j.wg.Done()

	// Sweep immediately on start
	j.sweep()

	for {
		select {
		case <-j.ticker.C:
			j.sweep()
		case <-j.stop:
			return
		}
	}
}

func (j *RetentionJanitor) sweep() {
	evicted := j.Handler.evictBefore(time.Now().Add(-j.TTL))
	if evicted > 0 {
		log.Printf("[Janitor] Evicted %d run(s) older than %v", evicted, j.TTL)
	}
}

// SweepNow triggers an immediate sweep (for testing/admin).
func (j *RetentionJanitor) SweepNow() {
	j.sweep()
}
