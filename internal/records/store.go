// Package records persists check-in history as JSON Lines files, one
// wellness.HistoricalRecord per line.
package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"burnsim/internal/wellness"

	"github.com/rs/zerolog/log"
)

// Store is a thread-safe, chronologically ordered set of check-ins.
type Store struct {
	mu      sync.RWMutex
	records []wellness.HistoricalRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

func identity(r wellness.HistoricalRecord) string {
	return r.MemberID + "|" + r.Timestamp.UTC().Format(time.RFC3339Nano)
}

// Append adds records, dropping any whose member and timestamp are already
// present. It returns the number of records added.
func (s *Store) Append(records []wellness.HistoricalRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]bool, len(s.records))
	for _, r := range s.records {
		existing[identity(r)] = true
	}

	added := 0
	for _, r := range records {
		id := identity(r)
		if existing[id] {
			continue
		}
		existing[id] = true
		s.records = append(s.records, r)
		added++
	}
	if added == 0 {
		return 0
	}

	sort.SliceStable(s.records, func(i, j int) bool {
		if !s.records[i].Timestamp.Equal(s.records[j].Timestamp) {
			return s.records[i].Timestamp.Before(s.records[j].Timestamp)
		}
		return s.records[i].MemberID < s.records[j].MemberID
	})
	return added
}

// Records returns a copy of every stored record, oldest first.
func (s *Store) Records() []wellness.HistoricalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]wellness.HistoricalRecord, len(s.records))
	copy(out, s.records)
	return out
}

// ForMember returns the records of one member, oldest first.
func (s *Store) ForMember(memberID string) []wellness.HistoricalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []wellness.HistoricalRecord
	for _, r := range s.records {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Load reads a JSONL file into the store. Malformed lines are skipped with a
// warning.
func (s *Store) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open records: %w", err)
	}
	defer file.Close()

	var loaded []wellness.HistoricalRecord
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r wellness.HistoricalRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			log.Warn().Err(err).Str("path", path).Int("line", line).Msg("Skipping invalid JSON line in records")
			continue
		}
		loaded = append(loaded, r)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading records: %w", err)
	}

	added := s.Append(loaded)
	log.Info().Str("path", path).Int("count", added).Msg("Loaded check-in records")
	return nil
}

// Save writes every record to path, replacing it atomically.
func (s *Store) Save(path string) error {
	return Write(path, s.Records())
}

// Write persists records as JSONL via a temp file and rename.
func Write(path string, records []wellness.HistoricalRecord) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp records file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename records file: %w", err)
	}

	log.Debug().Str("path", path).Int("count", len(records)).Msg("Check-in records saved")
	return nil
}

// Read loads a JSONL file into a fresh store and returns its records.
func Read(path string) ([]wellness.HistoricalRecord, error) {
	s := NewStore()
	if err := s.Load(path); err != nil {
		return nil, err
	}
	return s.Records(), nil
}
