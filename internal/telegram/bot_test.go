package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chat-analyzer/internal/store"
	"chat-analyzer/internal/summarizer"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	mc := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, mc.Text)
	return tgbotapi.Message{}, nil
}

type fakeSummarizer struct {
	calls  int
	events []store.ChatEvent
	mode   summarizer.Mode
}

func (f *fakeSummarizer) Summarize(ctx context.Context, events []store.ChatEvent, mode summarizer.Mode) string {
	f.calls++
	f.events = events
	f.mode = mode
	return "fake summary"
}

var testNow = time.Date(2024, 3, 10, 14, 0, 0, 0, time.Local)

func newTestBot(t *testing.T) (*Bot, *fakeSender, *fakeSummarizer) {
	t.Helper()
	dir := t.TempDir()
	messages, err := store.NewMessageStore(filepath.Join(dir, "messages"))
	if err != nil {
		t.Fatalf("init message store: %v", err)
	}
	summaries, err := store.NewSummaryStore(filepath.Join(dir, "summaries.jsonl"))
	if err != nil {
		t.Fatalf("init summary store: %v", err)
	}
	fs := &fakeSender{}
	sum := &fakeSummarizer{}
	b := &Bot{
		s:              fs,
		messages:       messages,
		summaries:      summaries,
		summarizer:     sum,
		trustedGroupID: -100,
		clock:          func() time.Time { return testNow },
	}
	return b, fs, sum
}

func groupMsg(chatID, userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID, Type: "group", Title: "test group"},
		From: &tgbotapi.User{ID: userID, UserName: "tester"},
		Text: text,
	}
}

func TestPlainMessageIsAppended(t *testing.T) {
	b, fs, sum := newTestBot(t)

	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "hello there"))

	got := b.messages.Scan("20240310", store.EventFilter{GroupID: "-200"}, 0)
	if len(got) != 1 || got[0].Text != "hello there" {
		t.Fatalf("message not recorded: %+v", got)
	}
	if got[0].SenderID != "42" || got[0].SenderName != "tester" {
		t.Fatalf("sender fields wrong: %+v", got[0])
	}
	if len(got[0].Raw) == 0 {
		t.Fatalf("raw payload missing: %+v", got[0])
	}
	if sum.calls != 0 || len(fs.sent) != 0 {
		t.Fatalf("plain message must not summarize or reply")
	}
}

func TestSummarizeCommand(t *testing.T) {
	b, fs, sum := newTestBot(t)
	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "some earlier chatter"))

	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "总结"))

	if sum.calls != 1 || sum.mode != summarizer.ModeDaily {
		t.Fatalf("daily summarization not triggered: calls=%d mode=%s", sum.calls, sum.mode)
	}
	if len(sum.events) != 1 || sum.events[0].Text != "some earlier chatter" {
		t.Fatalf("wrong snapshot passed: %+v", sum.events)
	}
	// The command itself is not recorded.
	got := b.messages.Scan("20240310", store.EventFilter{GroupID: "-200"}, 0)
	if len(got) != 1 {
		t.Fatalf("command leaked into the store: %+v", got)
	}
	saved := b.summaries.Query(store.SummaryFilter{GroupID: "-200", Kind: store.KindManual})
	if len(saved) != 1 || saved[0].Content != "fake summary" || saved[0].SourceDate != "20240310" {
		t.Fatalf("manual summary not saved: %+v", saved)
	}
	if len(fs.sent) != 1 || !strings.HasPrefix(fs.sent[0], "【群聊总结】\n") {
		t.Fatalf("reply mismatch: %v", fs.sent)
	}
}

func TestProfileCommandWithTarget(t *testing.T) {
	b, fs, sum := newTestBot(t)
	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "mine"))
	b.handleIncomingMessage(context.Background(), groupMsg(-200, 7, "other user line"))

	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "看看 7"))

	if sum.calls != 1 || sum.mode != summarizer.ModeUserProfile {
		t.Fatalf("profile summarization not triggered: calls=%d mode=%s", sum.calls, sum.mode)
	}
	if len(sum.events) != 1 || sum.events[0].SenderID != "7" {
		t.Fatalf("wrong target messages: %+v", sum.events)
	}
	if len(fs.sent) != 1 || !strings.HasPrefix(fs.sent[0], "【用户画像】\n") {
		t.Fatalf("reply mismatch: %v", fs.sent)
	}
}

func TestProfileCommandDefaultsToSender(t *testing.T) {
	b, _, sum := newTestBot(t)
	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "my own words"))

	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "看看"))

	if len(sum.events) != 1 || sum.events[0].SenderID != "42" {
		t.Fatalf("want requester's own messages, got %+v", sum.events)
	}
}

func TestBangCommandsIgnoredOutsideTrustedGroup(t *testing.T) {
	b, fs, sum := newTestBot(t)

	b.handleIncomingMessage(context.Background(), groupMsg(-200, 42, "!whatever"))

	if sum.calls != 0 || len(fs.sent) != 0 {
		t.Fatalf("untrusted group must be ignored silently")
	}
	if got := b.messages.Scan("20240310", store.EventFilter{}, 0); len(got) != 0 {
		t.Fatalf("ignored command must not be recorded: %+v", got)
	}
}

func TestBangCommandsFallThroughInTrustedGroup(t *testing.T) {
	b, _, _ := newTestBot(t)

	// trustedGroupID is -100 in the test bot.
	b.handleIncomingMessage(context.Background(), groupMsg(-100, 42, "!status"))

	got := b.messages.Scan("20240310", store.EventFilter{GroupID: "-100"}, 0)
	if len(got) != 1 || got[0].Text != "!status" {
		t.Fatalf("trusted-group command should fall through to recording: %+v", got)
	}
}

func TestNonGroupMessagesIgnored(t *testing.T) {
	b, fs, sum := newTestBot(t)

	msg := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42, Type: "private"},
		From: &tgbotapi.User{ID: 42},
		Text: "hello",
	}
	b.handleIncomingMessage(context.Background(), msg)

	if sum.calls != 0 || len(fs.sent) != 0 {
		t.Fatalf("private chat must be ignored")
	}
	if got := b.messages.Scan("20240310", store.EventFilter{}, 0); len(got) != 0 {
		t.Fatalf("private message must not be recorded: %+v", got)
	}
}

func TestMalformedUpdateDropped(t *testing.T) {
	b, _, _ := newTestBot(t)

	msg := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: -200, Type: "group"},
		From: nil, // no sender
		Text: "hello",
	}
	b.handleIncomingMessage(context.Background(), msg)

	if got := b.messages.Scan("20240310", store.EventFilter{}, 0); len(got) != 0 {
		t.Fatalf("malformed update must be dropped: %+v", got)
	}
}
