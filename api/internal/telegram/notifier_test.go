package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func bufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNotifier_Sends(t *testing.T) {
	var buf bytes.Buffer
	bot := &fakeBot{}
	n := NewNotifier(bot, 42, bufLogger(&buf))

	n.Notify(context.Background(), "hello")

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Equal(t, "hello", bot.sent[0].Text)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "telegram message sent")
}

func TestNotifier_SwallowsChannelError(t *testing.T) {
	var buf bytes.Buffer
	bot := &fakeBot{err: errors.New("Forbidden: bot was blocked by the user")}
	n := NewNotifier(bot, 42, bufLogger(&buf))

	assert.NotPanics(t, func() { n.Notify(context.Background(), "hello") })

	require.Len(t, bot.sent, 1)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "bot was blocked")
	assert.NotContains(t, buf.String(), "telegram message sent")
}

func TestNotifier_NilLogger(t *testing.T) {
	n := NewNotifier(&fakeBot{}, 1, nil)
	assert.NotPanics(t, func() { n.Notify(context.Background(), "x") })
}
