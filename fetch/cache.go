/*
cache.go - JSON snapshot cache

PURPOSE:
  Stores raw downloader output as JSON files so repeated runs skip the
  network. A snapshot holds the records exactly as the aggregation step
  consumes them, so a document can be rebuilt offline once the caches
  are warm.

SEE ALSO:
  - fetch/rte.go: eco2mix production snapshots
  - fetch/pvgis.go: per-location solar snapshots
*/
package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Cache reads and writes JSON snapshots under one directory.
type Cache struct {
	Dir string
}

// Load reads a snapshot into v. Returns false when no snapshot with
// that name exists yet.
func (c Cache) Load(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(c.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode cache %s: %w", name, err)
	}
	return true, nil
}

// Store writes a snapshot, creating the cache directory if needed.
func (c Cache) Store(name string, v any) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir %s: %w", c.Dir, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(c.Dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache %s: %w", name, err)
	}
	return nil
}
