package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/session"
)

// Telegram rejects messages longer than this many characters.
const maxMessageRunes = 4096

type Bot struct {
	s         sender
	orch      *analysis.Orchestrator
	sessions  *session.Registry
	maxUpload int64
	download  func(ctx context.Context, f tgbotapi.File) ([]byte, error)
	updates   func() tgbotapi.UpdatesChannel
}

func New(botToken string, orch *analysis.Orchestrator, sessions *session.Registry, maxUpload int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	log.Printf("Authorized on account %s", api.Self.UserName)
	b := &Bot{
		s:         botAPISender{api: api},
		orch:      orch,
		sessions:  sessions,
		maxUpload: maxUpload,
	}
	b.download = func(ctx context.Context, f tgbotapi.File) ([]byte, error) {
		return fetch(ctx, f.Link(api.Token), maxUpload)
	}
	b.updates = func() tgbotapi.UpdatesChannel {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		return api.GetUpdatesChan(u)
	}
	return b, nil
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	updates := b.updates()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message == nil:
	case update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message.Document != nil:
		b.handleDocument(ctx, update.Message)
	default:
		b.handleIncomingMessage(ctx, update.Message)
	}
}

func (b *Bot) sessionFor(chatID int64) *analysis.Session {
	return b.sessions.GetOrCreate(fmt.Sprintf("tg-%d", chatID))
}

func (b *Bot) sendMessage(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageRunes) {
		msg := tgbotapi.NewMessage(chatID, part)
		if _, err := b.s.Send(msg); err != nil {
			log.Printf("failed to send message: %v", err)
			return
		}
	}
}

func fetch(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return data, nil
}

// splitMessage cuts text into chunks of at most n runes, preferring line breaks.
func splitMessage(text string, n int) []string {
	runes := []rune(text)
	if len(runes) <= n {
		return []string{text}
	}
	var parts []string
	for len(runes) > n {
		cut := n
		for i := n - 1; i > n/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
