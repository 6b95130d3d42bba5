package summarizer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chat-analyzer/internal/llm"
	"chat-analyzer/internal/store"
)

type Mode string

const (
	ModeDaily       Mode = "daily"
	ModeUserProfile Mode = "user_profile"
)

// Sentinels returned instead of raising: callers always get something they
// can persist and reply with.
const (
	EmptySentinel   = "没有找到需要总结的消息"
	FailureSentinel = "AI未能生成有效响应,请稍后重试"
)

type Summarizer struct {
	client llm.Client
	retry  *RetryPolicy
}

func New(client llm.Client) *Summarizer {
	return &Summarizer{client: client, retry: DefaultRetryPolicy()}
}

// Summarize generates the summary text for a message snapshot. It never
// returns an error: empty input and exhausted retries each map to a fixed
// sentinel so one stuck group cannot take down a sweep or a reply path.
// The caller persists the result; no store writes happen here.
func (s *Summarizer) Summarize(ctx context.Context, events []store.ChatEvent, mode Mode) string {
	if len(events) == 0 {
		return EmptySentinel
	}

	msgs := BuildPrompt(events, mode)

	var content string
	err := s.retry.Execute(func() error {
		resp, err := s.client.Generate(ctx, msgs)
		if err != nil {
			return err
		}
		if resp.Content == "" {
			return fmt.Errorf("completion returned empty content")
		}
		content = resp.Content
		return nil
	})
	if err != nil {
		log.Printf("summary generation failed after %d attempts: %v", s.retry.MaxAttempts, err)
		return FailureSentinel
	}
	return content
}

// BuildPrompt assembles the role-tagged turns: the mode's system template
// plus one user turn listing every message as "[timestamp] sender: text",
// in input order.
func BuildPrompt(events []store.ChatEvent, mode Mode) []llm.Message {
	system := dailySystemPrompt
	prefix := dailyUserPrefix
	if mode == ModeUserProfile {
		system = userProfileSystemPrompt
		prefix = profileUserPrefix
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, ev := range events {
		sender := ev.SenderName
		if sender == "" {
			sender = ev.SenderID
		}
		if sender == "" {
			sender = "未知用户"
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", ev.Timestamp.Format("2006-01-02 15:04:05"), sender, ev.Text)
	}

	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: sb.String()},
	}
}
