package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/franciscosbf/groqtgbot/internal/chat"
	"github.com/franciscosbf/groqtgbot/internal/config"
	"github.com/franciscosbf/groqtgbot/internal/llm"
	"github.com/franciscosbf/groqtgbot/internal/scheduler"
	"github.com/franciscosbf/groqtgbot/internal/storage"
	"github.com/franciscosbf/groqtgbot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env file not found: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	llmFactory := &llm.Factory{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
	client, err := llmFactory.CreateClient(cfg.LLMProvider, cfg.Model)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	store := chat.NewStore(chat.NewFactory(client, cfg.HistorySize))

	flusher := scheduler.NewFlusher(store, cfg.FlushInterval())
	if err := flusher.Start(); err != nil {
		log.Fatalf("failed to start flusher: %v", err)
	}
	defer flusher.Stop()

	var rec storage.Recorder
	if cfg.TranscriptFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.TranscriptFilePath)
		if err != nil {
			log.Printf("failed to init transcript recorder: %v", err)
		} else {
			rec = fr
		}
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		store,
		flusher,
		rec,
		cfg.PromptSize,
		cfg.HistorySize,
		cfg.Model,
	)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot.Start(ctx)
}
