package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers text to a single chat. Delivery errors are logged and
// dropped, Notify never fails.
type Notifier struct {
	bot    Sender
	chatID int64
	logger *slog.Logger
}

func NewNotifier(bot Sender, chatID int64, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{bot: bot, chatID: chatID, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.ErrorContext(ctx, "telegram send failed", "chat_id", n.chatID, "error", err)
		return
	}
	n.logger.DebugContext(ctx, "telegram message sent", "chat_id", n.chatID)
}
