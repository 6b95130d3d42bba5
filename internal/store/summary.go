package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// SummaryFilter narrows a summary query. Empty fields match everything.
type SummaryFilter struct {
	GroupID string
	Kind    string
}

// SummaryStore is a single cumulative append-only JSONL log. Records are
// never deduplicated or replaced.
type SummaryStore struct {
	path string
	mu   sync.Mutex
}

func NewSummaryStore(path string) (*SummaryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure summary dir: %w", err)
	}
	return &SummaryStore{path: path}, nil
}

func (s *SummaryStore) Append(sum Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open append: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(sum); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// Query scans the full log in insertion order. Missing file or read errors
// yield an empty result.
func (s *SummaryStore) Query(filter SummaryFilter) []Summary {
	var out []Summary
	err := readLines(s.path, func(line []byte) bool {
		var sum Summary
		if err := json.Unmarshal(line, &sum); err != nil {
			return true
		}
		if filter.GroupID != "" && sum.GroupID != filter.GroupID {
			return true
		}
		if filter.Kind != "" && sum.Kind != filter.Kind {
			return true
		}
		out = append(out, sum)
		return true
	})
	if err != nil {
		log.Printf("failed to query summaries: %v", err)
		return nil
	}
	return out
}
