package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"chat-analyzer/internal/store"
	"chat-analyzer/internal/summarizer"
)

// midnightSpec fires at 00:00 local time every day.
const midnightSpec = "0 0 * * *"

type Summarizer interface {
	Summarize(ctx context.Context, events []store.ChatEvent, mode summarizer.Mode) string
}

type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Scheduler runs the nightly summarization sweep. It alternates between
// sleeping until the next local midnight and sweeping every group seen in
// the day that just ended. The next trigger is always computed from the
// current clock, so a slow sweep or a process stall shifts the schedule
// instead of accumulating drift, and midnights missed while the process
// was down are skipped, not backfilled.
type Scheduler struct {
	messages   *store.MessageStore
	summaries  *store.SummaryStore
	summarizer Summarizer
	notifier   Notifier
	schedule   cron.Schedule

	// Injectable for tests.
	clock      func() time.Time
	sleepUntil func(ctx context.Context, t time.Time) error
}

func New(messages *store.MessageStore, summaries *store.SummaryStore, sum Summarizer, notifier Notifier) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(midnightSpec)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule: %w", err)
	}
	return &Scheduler{
		messages:   messages,
		summaries:  summaries,
		summarizer: sum,
		notifier:   notifier,
		schedule:   schedule,
		clock:      time.Now,
		sleepUntil: sleepUntil,
	}, nil
}

// Run blocks until ctx is cancelled, firing exactly one sweep per midnight
// crossing.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Printf("📅 scheduler started, next sweep at %s", s.schedule.Next(s.clock()).Format(time.RFC3339))
	for {
		next := s.schedule.Next(s.clock())
		if err := s.sleepUntil(ctx, next); err != nil {
			log.Printf("📅 scheduler stopped: %v", err)
			return err
		}
		s.Sweep(ctx, next)
	}
}

// Sweep summarizes the day that ended at trigger for every group present
// in that day's partition. A failure in one group is logged and never
// prevents the remaining groups from being processed.
func (s *Scheduler) Sweep(ctx context.Context, trigger time.Time) {
	day := store.PartitionKey(trigger.Add(-24 * time.Hour))
	groups := s.messages.ListGroupIDs(day)
	log.Printf("🕛 daily sweep for %s: %d groups", day, len(groups))
	for _, groupID := range groups {
		s.sweepGroup(ctx, day, groupID)
	}
}

func (s *Scheduler) sweepGroup(ctx context.Context, day, groupID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sweep of group %s panicked: %v", groupID, r)
		}
	}()

	events := s.messages.Scan(day, store.EventFilter{GroupID: groupID}, store.DefaultGroupScanLimit)
	if len(events) == 0 {
		return
	}

	summary := s.summarizer.Summarize(ctx, events, summarizer.ModeDaily)
	if err := s.summaries.Append(store.Summary{
		CreatedAt:  s.clock(),
		GroupID:    groupID,
		Kind:       store.KindAuto,
		Content:    summary,
		SourceDate: day,
	}); err != nil {
		log.Printf("failed to save auto summary for group %s: %v", groupID, err)
	}

	if s.notifier == nil {
		return
	}
	text := fmt.Sprintf("群 %s 的每日总结:\n%s", groupID, summary)
	if err := s.notifier.Send(ctx, text); err != nil {
		log.Printf("failed to push summary for group %s: %v", groupID, err)
	}
}

func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
