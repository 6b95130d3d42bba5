package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// Only this group may issue !-prefixed commands.
	TrustedGroupID int64 `env:"TRUSTED_GROUP_ID"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gemini-2.0-flash"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Storage
	DataDir string `env:"DATA_DIR" envDefault:"data/chat_analyzer"`

	// Notifications (empty disables the webhook)
	FeishuWebhookURL string `env:"FEISHU_WEBHOOK_URL"`

	// Read API
	WebAddr     string `env:"WEB_ADDR" envDefault:":3300"`
	WebPassword string `env:"WEB_PASSWORD,required"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
