package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

var (
	ErrInvalidPromptSize  = errors.New("prompt size must be between 255 and 4096 characters")
	ErrInvalidFlushDays   = errors.New("flush days must be greater than zero")
	ErrInvalidHistorySize = errors.New("history size must be greater than zero")
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// LLM settings
	LLMProvider      string `env:"LLM_PROVIDER" envDefault:"openai"`
	APIKey           string `env:"AI_API_KEY"`
	BaseURL          string `env:"AI_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model            string `env:"AI_MODEL" envDefault:"llama-3.3-70b-versatile"`
	YandexOAuthToken string `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string `env:"YANDEX_FOLDER_ID"`

	// Chat settings
	PromptSize  int `env:"PROMPT_SIZE" envDefault:"1024"`
	FlushDays   int `env:"FLUSH_DAYS" envDefault:"1"`
	HistorySize int `env:"HISTORY_SIZE" envDefault:"10"`

	// Optional interaction transcript (JSONL)
	TranscriptFilePath string `env:"TRANSCRIPT_FILE_PATH"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PromptSize < 255 || c.PromptSize > 4096 {
		return ErrInvalidPromptSize
	}
	if c.FlushDays <= 0 {
		return ErrInvalidFlushDays
	}
	if c.HistorySize <= 0 {
		return ErrInvalidHistorySize
	}
	return nil
}

// FlushInterval is how long sessions live between store-wide flushes.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushDays) * 24 * time.Hour
}
