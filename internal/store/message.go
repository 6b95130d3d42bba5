package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// EventFilter narrows a partition scan. Empty fields match everything.
type EventFilter struct {
	GroupID  string
	SenderID string
}

// MessageStore keeps one append-only JSONL file per calendar day. Appends
// are serialized by a mutex; scans read without the lock and may observe a
// prefix of a concurrent append, which is fine because summaries work from
// point-in-time snapshots.
type MessageStore struct {
	dir string
	mu  sync.Mutex
}

func NewMessageStore(dir string) (*MessageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure message dir: %w", err)
	}
	return &MessageStore{dir: dir}, nil
}

func (s *MessageStore) partitionPath(key string) string {
	return filepath.Join(s.dir, "daily_"+key+".jsonl")
}

// Append writes one event to the partition matching its timestamp,
// creating the partition file on the first write of that day.
func (s *MessageStore) Append(ev ChatEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.partitionPath(PartitionKey(ev.Timestamp))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open partition: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(ev); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return nil
}

// Scan reads a partition in file order, applies the filter and truncates
// at limit (limit <= 0 reads everything). A missing partition or a read
// error yields an empty result: callers summarize whatever is available
// instead of failing.
func (s *MessageStore) Scan(key string, filter EventFilter, limit int) []ChatEvent {
	var out []ChatEvent
	err := readLines(s.partitionPath(key), func(line []byte) bool {
		var ev ChatEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return true
		}
		if filter.GroupID != "" && ev.GroupID != filter.GroupID {
			return true
		}
		if filter.SenderID != "" && ev.SenderID != filter.SenderID {
			return true
		}
		out = append(out, ev)
		return limit <= 0 || len(out) < limit
	})
	if err != nil {
		log.Printf("failed to scan partition %s: %v", key, err)
		return nil
	}
	return out
}

// ListGroupIDs returns the distinct group identifiers seen in a partition,
// sorted. The group registry is always derived this way, never persisted.
func (s *MessageStore) ListGroupIDs(key string) []string {
	seen := make(map[string]struct{})
	err := readLines(s.partitionPath(key), func(line []byte) bool {
		var ev ChatEvent
		if err := json.Unmarshal(line, &ev); err == nil && ev.GroupID != "" {
			seen[ev.GroupID] = struct{}{}
		}
		return true
	})
	if err != nil {
		log.Printf("failed to list groups in partition %s: %v", key, err)
		return nil
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// readLines feeds non-empty lines to fn until it returns false. A missing
// file is not an error. Lines that fail to decode (e.g. a torn tail being
// written concurrently) are skipped by the callers.
func readLines(path string, fn func(line []byte) bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open read: %w", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	sc.Buffer(buf, 10*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if !fn(line) {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}
