package store

import (
	"encoding/json"
	"time"
)

// Summary kinds: auto summaries come from the nightly sweep, manual ones
// from in-chat commands.
const (
	KindAuto   = "auto"
	KindManual = "manual"
)

// Default scan truncation for summarization inputs.
const (
	DefaultGroupScanLimit = 100
	DefaultUserScanLimit  = 50
)

// ChatEvent is a single chat message as received from the platform.
// Events are immutable once appended; append order within a partition is
// arrival order.
type ChatEvent struct {
	Timestamp  time.Time       `json:"timestamp"`
	GroupID    string          `json:"group_id"`
	GroupName  string          `json:"group_name,omitempty"`
	SenderID   string          `json:"sender_id"`
	SenderName string          `json:"sender_name,omitempty"`
	Text       string          `json:"text"`
	Raw        json.RawMessage `json:"raw_payload,omitempty"`
}

// Summary is one generated summary record. Multiple summaries per group
// and day are allowed; manual triggers do not suppress the nightly one.
type Summary struct {
	CreatedAt  time.Time `json:"created_at"`
	GroupID    string    `json:"group_id"`
	Kind       string    `json:"kind"`
	Content    string    `json:"content"`
	SourceDate string    `json:"source_date"`
}

// PartitionKey returns the day partition (YYYYMMDD, local time) for a
// timestamp. Writers and readers each compute it from their own clock;
// there is no shared "current partition" state to go stale at midnight.
func PartitionKey(t time.Time) string {
	return t.Format("20060102")
}
