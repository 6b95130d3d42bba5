package analytics

import "chat-analyzer/internal/store"

// DailyStats aggregates one day of stored chat activity.
type DailyStats struct {
	Date          string                `json:"date"`
	TotalMessages int                   `json:"total_messages"`
	UniqueSenders int                   `json:"unique_senders"`
	Groups        map[string]GroupStats `json:"groups"`
}

// GroupStats is the per-group slice of a day.
type GroupStats struct {
	GroupID       string `json:"group_id"`
	GroupName     string `json:"group_name,omitempty"`
	Messages      int    `json:"messages"`
	UniqueSenders int    `json:"unique_senders"`
}

// AnalyzeDay computes activity statistics over one partition's events.
func AnalyzeDay(events []store.ChatEvent, date string) *DailyStats {
	stats := &DailyStats{
		Date:   date,
		Groups: make(map[string]GroupStats),
	}

	senders := make(map[string]struct{})
	groupSenders := make(map[string]map[string]struct{})

	for _, ev := range events {
		if ev.Text == "" {
			continue
		}
		stats.TotalMessages++
		senders[ev.SenderID] = struct{}{}

		g := stats.Groups[ev.GroupID]
		g.GroupID = ev.GroupID
		if g.GroupName == "" {
			g.GroupName = ev.GroupName
		}
		g.Messages++

		if groupSenders[ev.GroupID] == nil {
			groupSenders[ev.GroupID] = make(map[string]struct{})
		}
		groupSenders[ev.GroupID][ev.SenderID] = struct{}{}
		g.UniqueSenders = len(groupSenders[ev.GroupID])

		stats.Groups[ev.GroupID] = g
	}

	stats.UniqueSenders = len(senders)
	return stats
}
