package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"chat-analyzer/internal/config"
	"chat-analyzer/internal/llm"
	"chat-analyzer/internal/notify"
	"chat-analyzer/internal/scheduler"
	"chat-analyzer/internal/store"
	"chat-analyzer/internal/summarizer"
	"chat-analyzer/internal/telegram"
	"chat-analyzer/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	messages, err := store.NewMessageStore(filepath.Join(cfg.DataDir, "messages"))
	if err != nil {
		log.Fatalf("failed to init message store: %v", err)
	}
	summaries, err := store.NewSummaryStore(filepath.Join(cfg.DataDir, "summaries.jsonl"))
	if err != nil {
		log.Fatalf("failed to init summary store: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}
	sum := summarizer.New(llmClient)

	var notifier scheduler.Notifier
	if cfg.FeishuWebhookURL != "" {
		notifier = notify.New(cfg.FeishuWebhookURL)
	}

	sched, err := scheduler.New(messages, summaries, sum, notifier)
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}

	bot, err := telegram.New(cfg.TelegramBotToken, messages, summaries, sum, cfg.TrustedGroupID)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	webSrv := web.New(messages, summaries, cfg.WebPassword)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bot.Start(ctx)
		return nil
	})
	g.Go(func() error {
		return sched.Run(ctx)
	})
	g.Go(func() error {
		return webSrv.Run(ctx, cfg.WebAddr)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("shutdown with error: %v", err)
	}
	log.Printf("👋 shutdown complete")
}
