package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chat-analyzer/internal/store"
	"chat-analyzer/internal/summarizer"
)

const (
	summarizeCmd = "总结"
	profileCmd   = "看看"
)

type Summarizer interface {
	Summarize(ctx context.Context, events []store.ChatEvent, mode summarizer.Mode) string
}

// Bot ingests group messages: commands are answered in place, everything
// else is appended to the message store under the current day partition.
type Bot struct {
	api        *tgbotapi.BotAPI
	s          sender
	messages   *store.MessageStore
	summaries  *store.SummaryStore
	summarizer Summarizer

	// Only this group may use !-prefixed commands.
	trustedGroupID int64

	clock func() time.Time
}

func New(botToken string, messages *store.MessageStore, summaries *store.SummaryStore, sum Summarizer, trustedGroupID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:            api,
		s:              botAPISender{api: api},
		messages:       messages,
		summaries:      summaries,
		summarizer:     sum,
		trustedGroupID: trustedGroupID,
		clock:          time.Now,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 bot started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleIncomingMessage(ctx, update.Message)
		}
	}
}

// handleIncomingMessage classifies one group message. Matched commands own
// the reply and are never recorded; everything else is appended.
func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || !(msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) {
		return
	}

	ev, err := eventFromMessage(msg, b.clock())
	if err != nil {
		log.Printf("dropping malformed update: %v", err)
		return
	}

	text := strings.TrimSpace(ev.Text)
	log.Printf("group message: group=%s sender=%s text=%q", ev.GroupID, ev.SenderID, text)

	// The command channel answers only in the trusted group; elsewhere the
	// message is silently dropped. In the trusted group classification
	// continues below.
	if strings.HasPrefix(text, "!") && msg.Chat.ID != b.trustedGroupID {
		return
	}

	switch {
	case text == summarizeCmd:
		b.handleSummarize(ctx, msg.Chat.ID, ev)
	case strings.HasPrefix(text, profileCmd):
		b.handleProfile(ctx, msg.Chat.ID, ev, text)
	default:
		if err := b.messages.Append(ev); err != nil {
			log.Printf("failed to record message: %v", err)
		}
	}
}

// handleSummarize answers the 总结 command with an on-demand summary of
// the group's messages stored so far today.
func (b *Bot) handleSummarize(ctx context.Context, chatID int64, ev store.ChatEvent) {
	now := b.clock()
	day := store.PartitionKey(now)
	events := b.messages.Scan(day, store.EventFilter{GroupID: ev.GroupID}, store.DefaultGroupScanLimit)
	summary := b.summarizer.Summarize(ctx, events, summarizer.ModeDaily)
	b.saveSummary(ev.GroupID, summary, day, now)
	b.reply(chatID, "【群聊总结】\n"+summary)
}

// handleProfile answers 看看 [id] with a profile of the target user built
// from their messages in the active partition. Without an argument the
// requester profiles themselves.
func (b *Bot) handleProfile(ctx context.Context, chatID int64, ev store.ChatEvent, text string) {
	target := ev.SenderID
	if fields := strings.Fields(text); len(fields) > 1 {
		target = fields[1]
	}
	now := b.clock()
	day := store.PartitionKey(now)
	events := b.messages.Scan(day, store.EventFilter{GroupID: ev.GroupID, SenderID: target}, store.DefaultUserScanLimit)
	profile := b.summarizer.Summarize(ctx, events, summarizer.ModeUserProfile)
	b.saveSummary(ev.GroupID, profile, day, now)
	b.reply(chatID, "【用户画像】\n"+profile)
}

func (b *Bot) saveSummary(groupID, content, sourceDate string, now time.Time) {
	err := b.summaries.Append(store.Summary{
		CreatedAt:  now,
		GroupID:    groupID,
		Kind:       store.KindManual,
		Content:    content,
		SourceDate: sourceDate,
	})
	if err != nil {
		log.Printf("failed to save manual summary for group %s: %v", groupID, err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// eventFromMessage validates the inbound update and converts it to a
// store record. Group and sender identifiers are required; display names
// are optional and left blank when the platform omits them.
func eventFromMessage(msg *tgbotapi.Message, now time.Time) (store.ChatEvent, error) {
	if msg.Chat == nil || msg.Chat.ID == 0 {
		return store.ChatEvent{}, fmt.Errorf("update without chat id")
	}
	if msg.From == nil || msg.From.ID == 0 {
		return store.ChatEvent{}, fmt.Errorf("update without sender id")
	}

	ev := store.ChatEvent{
		Timestamp:  now,
		GroupID:    strconv.FormatInt(msg.Chat.ID, 10),
		GroupName:  msg.Chat.Title,
		SenderID:   strconv.FormatInt(msg.From.ID, 10),
		SenderName: senderName(msg.From),
		Text:       msg.Text,
	}

	// Keep the original fields alongside the parsed record for audit.
	raw, err := json.Marshal(map[string]string{
		"timestamp": now.Format("2006-01-02 15:04:05"),
		"group_id":  ev.GroupID,
		"sender_id": ev.SenderID,
		"text":      ev.Text,
	})
	if err == nil {
		ev.Raw = raw
	}
	return ev, nil
}

func senderName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
