package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/franciscosbf/groqtgbot/internal/chat"
	"github.com/franciscosbf/groqtgbot/internal/scheduler"
	"github.com/franciscosbf/groqtgbot/internal/storage"
)

const (
	promptCmd = "prompt"
	infoCmd   = "info"
)

const (
	userCooldown   = 4 * time.Second
	requestTimeout = 2 * time.Minute
)

// flushStatus is the read-only slice of the flusher the handlers need.
type flushStatus interface {
	Flushing() bool
	NextFlush() time.Time
}

type Bot struct {
	api     *tgbotapi.BotAPI
	s       sender
	store   *chat.Store
	flusher flushStatus
	rec     storage.Recorder

	promptSize  int
	historySize int
	model       string

	mu         sync.Mutex
	lastPrompt map[int64]time.Time
}

func New(
	botToken string,
	store *chat.Store,
	flusher *scheduler.Flusher,
	rec storage.Recorder,
	promptSize, historySize int,
	model string,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	return &Bot{
		api:         api,
		s:           botAPISender{api: api},
		store:       store,
		flusher:     flusher,
		rec:         rec,
		promptSize:  promptSize,
		historySize: historySize,
		model:       model,
		lastPrompt:  make(map[int64]time.Time),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("bot connected to telegram as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !msg.IsCommand() {
		return
	}
	// Commands only work inside group chats; each group is its own tenant
	// and sessions never cross it.
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		return
	}

	switch msg.Command() {
	case promptCmd:
		b.handlePrompt(ctx, msg)
	case infoCmd:
		b.handleInfo(msg)
	}
}

// handlePrompt sends the user's message through their session and delivers
// the model's reply. If the reply cannot be delivered the exchange is
// undone, otherwise the next request would reference an answer the user
// never saw.
func (b *Bot) handlePrompt(ctx context.Context, msg *tgbotapi.Message) {
	content := strings.TrimSpace(msg.CommandArguments())
	if content == "" {
		b.reply(msg, fmt.Sprintf("Usage: /%s <message>", promptCmd))
		return
	}

	if wait, ok := b.onCooldown(msg.From.ID); ok {
		b.reply(msg, fmt.Sprintf("Slow down, try again in %ds", int(wait.Seconds())+1))
		return
	}

	if len(content) > b.promptSize {
		b.reply(msg, fmt.Sprintf("Message must be %d characters max", b.promptSize))
		return
	}

	if b.flusher.Flushing() {
		b.reply(msg, "History is being flushed, wait a little more")
		return
	}

	tenantID := uint64(msg.Chat.ID)
	userID := uint64(msg.From.ID)
	session := b.store.GetOrCreate(tenantID, userID)

	sctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	response, err := session.Send(sctx, content)
	if err != nil {
		log.Printf("failed to generate response for user %d in chat %d: %v",
			msg.From.ID, msg.Chat.ID, err)
		b.reply(msg, "Failed to send message, as an unexpected error occurred")
		return
	}

	if err := b.reply(msg, response); err != nil {
		session.UndoLast()
		log.Printf("failed to deliver reply to user %d in chat %d, exchange dropped: %v",
			msg.From.ID, msg.Chat.ID, err)
		return
	}

	if b.rec != nil {
		if err := b.rec.AppendInteraction(storage.Event{
			Timestamp:         time.Now().UTC(),
			TenantID:          tenantID,
			UserID:            userID,
			UserMessage:       content,
			AssistantResponse: response,
		}); err != nil {
			log.Printf("failed to record interaction: %v", err)
		}
	}
}

// handleInfo reports the model and prompt characteristics, including when
// all sessions are wiped next.
func (b *Bot) handleInfo(msg *tgbotapi.Message) {
	plural := ""
	if b.historySize > 1 {
		plural = "s"
	}

	var bld strings.Builder
	bld.WriteString("Characteristics\n")
	bld.WriteString("Note: prompt messages are removed when session limit has been reached\n\n")
	fmt.Fprintf(&bld, "Sessions Reset Date: %s\n", b.flusher.NextFlush().Format("02 Jan 2006, 15:04"))
	fmt.Fprintf(&bld, "Session History Size: %d interaction%s per user\n", b.historySize, plural)
	fmt.Fprintf(&bld, "LLM's Name: %s\n", b.model)
	fmt.Fprintf(&bld, "Prompt Message Size Limit: %d characters", b.promptSize)

	b.reply(msg, bld.String())
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) error {
	m := tgbotapi.NewMessage(msg.Chat.ID, text)
	m.ReplyToMessageID = msg.MessageID
	if _, err := b.s.Send(m); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// onCooldown reports whether the user prompted too recently and, if so, how
// long until they may prompt again. A passing check arms the cooldown.
func (b *Bot) onCooldown(userID int64) (time.Duration, bool) {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	if last, ok := b.lastPrompt[userID]; ok {
		if elapsed := now.Sub(last); elapsed < userCooldown {
			return userCooldown - elapsed, true
		}
	}
	b.lastPrompt[userID] = now
	return 0, false
}
