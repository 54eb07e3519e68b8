package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/extract"
)

const categoryPrefix = "cat:"

const helpText = `Send me text or a file (.txt, .md, .json, .csv) and I will analyze it.

Commands:
/key <api key> - set the API key (without an argument the key is removed)
/category [name] - choose the analysis type
/history - list recent analyses
/show <n> - show analysis number n
/delete <n> - delete analysis number n
/clear_cache - clear cached results
/reset - start a new analysis
/status - show session status`

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	sess := b.sessionFor(msg.Chat.ID)
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		b.sendMessage(msg.Chat.ID, "Welcome to the AI content analyst.\n\n"+helpText)
		b.sendCategoryKeyboard(msg.Chat.ID, sess.Category())
	case "key":
		b.forget(msg)
		sess.SetAPIKey(args)
		if args == "" {
			b.sendMessage(msg.Chat.ID, "API key removed. "+analysis.MsgNoAPIKey)
			return
		}
		b.sendMessage(msg.Chat.ID, "API key configured.")
	case "category":
		if args == "" {
			b.sendCategoryKeyboard(msg.Chat.ID, sess.Category())
			return
		}
		name, ok := b.orch.Catalog().Canonical(args)
		if !ok {
			b.sendMessage(msg.Chat.ID, "Unknown analysis type. Available: "+strings.Join(b.orch.Catalog().Names(), ", "))
			return
		}
		sess.SetCategory(name)
		b.sendMessage(msg.Chat.ID, "Analysis type set to "+name+".")
	case "history":
		b.sendMessage(msg.Chat.ID, formatHistory(sess))
	case "show":
		rec, ok := b.recordAt(msg, sess, args)
		if !ok {
			return
		}
		sess.ShowHistory(rec.ID)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("%s analysis from %s\n\n%s", rec.Category, rec.Timestamp, rec.Result))
	case "delete":
		rec, ok := b.recordAt(msg, sess, args)
		if !ok {
			return
		}
		sess.DeleteHistory(rec.ID)
		b.sendMessage(msg.Chat.ID, "History record deleted.")
	case "clear_cache":
		sess.ClearCache()
		b.sendMessage(msg.Chat.ID, "Cache cleared.")
	case "reset":
		sess.Reset()
		b.sendMessage(msg.Chat.ID, "Ready for a new analysis. Send text or a file.")
	case "status":
		b.sendMessage(msg.Chat.ID, formatStatus(sess, b.orch.Options().UseCache))
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command.\n\n"+helpText)
	}
}

// forget removes the message carrying a credential from the chat.
func (b *Bot) forget(msg *tgbotapi.Message) {
	if _, err := b.s.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		log.Printf("failed to delete key message: %v", err)
	}
}

func (b *Bot) recordAt(msg *tgbotapi.Message, sess *analysis.Session, arg string) (rec historyRecord, ok bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		b.sendMessage(msg.Chat.ID, "Usage: /"+msg.Command()+" <n>, where n is the number shown by /history")
		return rec, false
	}
	rec, ok = sess.History.At(n - 1)
	if !ok {
		b.sendMessage(msg.Chat.ID, "History record not found.")
	}
	return rec, ok
}

func (b *Bot) sendCategoryKeyboard(chatID int64, selected string) {
	names := b.orch.Catalog().Names()
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(names))
	for i, name := range names {
		label := name
		if strings.EqualFold(name, selected) {
			label = "✅ " + name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, categoryPrefix+strconv.Itoa(i)),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Choose the analysis type:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send category keyboard: %v", err)
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
	if cb.Message == nil || !strings.HasPrefix(cb.Data, categoryPrefix) {
		return
	}
	i, err := strconv.Atoi(strings.TrimPrefix(cb.Data, categoryPrefix))
	names := b.orch.Catalog().Names()
	if err != nil || i < 0 || i >= len(names) {
		return
	}
	b.sessionFor(cb.Message.Chat.ID).SetCategory(names[i])
	b.sendMessage(cb.Message.Chat.ID, "Analysis type set to "+names[i]+".")
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	log.Printf("Incoming message from chat %d, %d chars", msg.Chat.ID, len([]rune(msg.Text)))
	b.analyze(ctx, msg.Chat.ID, analysis.Request{Content: msg.Text, Source: "entered text"})
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	log.Printf("Document from chat %d: %s (%s, %d bytes)", msg.Chat.ID, doc.FileName, doc.MimeType, doc.FileSize)
	if b.maxUpload > 0 && int64(doc.FileSize) > b.maxUpload {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("File is too large, the limit is %d bytes.", b.maxUpload))
		return
	}
	file, err := b.s.GetFile(tgbotapi.FileConfig{FileID: doc.FileID})
	if err != nil {
		log.Printf("failed to get file: %v", err)
		b.sendMessage(msg.Chat.ID, "Could not fetch the file, please try again.")
		return
	}
	data, err := b.download(ctx, file)
	if err != nil {
		log.Printf("failed to download file: %v", err)
		b.sendMessage(msg.Chat.ID, "Could not fetch the file, please try again.")
		return
	}
	payload, ok := extract.Extract(data, doc.MimeType, doc.FileName)
	if !ok {
		b.sendMessage(msg.Chat.ID, analysis.MsgNoContent)
		return
	}
	b.analyze(ctx, msg.Chat.ID, analysis.Request{Content: payload.Text, Source: "uploaded " + payload.Label})
}

func (b *Bot) analyze(ctx context.Context, chatID int64, req analysis.Request) {
	sess := b.sessionFor(chatID)
	req.Category = sess.Category()
	if _, err := b.s.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("failed to send chat action: %v", err)
	}
	res := b.orch.Analyze(ctx, sess, req)
	b.sendMessage(chatID, formatResult(res))
}
