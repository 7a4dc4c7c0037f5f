package telegram

import (
	"context"
	"errors"
	"testing"

	"app-update-bot/internal/types"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

type fakeResponder struct {
	historyLimit int
}

func (f *fakeResponder) Greeting(ctx context.Context) string { return "hello" }
func (f *fakeResponder) Report() string                      { return "report" }
func (f *fakeResponder) History(limit int) string {
	f.historyLimit = limit
	return "history"
}

func commandUpdate(text string) tgbotapi.Update {
	end := len(text)
	for i, r := range text {
		if r == ' ' {
			end = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: 42},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}},
	}}
}

func TestSendNotificationWithButton(t *testing.T) {
	sender := &fakeSender{}
	b := &Bot{Bot: sender}

	err := b.SendNotification("-100", types.Notification{
		Text:   "<b>hi</b>",
		Button: &types.Button{Label: "🔄 Update Now", URL: "https://example.com"},
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "🔄 Update Now", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "https://example.com", *markup.InlineKeyboard[0][0].URL)
}

func TestSendNotificationWithoutButton(t *testing.T) {
	sender := &fakeSender{}
	b := &Bot{Bot: sender}

	require.NoError(t, b.SendNotification("1", types.Notification{Text: "full"}))

	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestSendNotificationError(t *testing.T) {
	b := &Bot{Bot: &fakeSender{err: errors.New("Forbidden: bot was blocked")}}

	err := b.SendNotification("1", types.Notification{Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot was blocked")
}

func TestSendMessageReplies(t *testing.T) {
	sender := &fakeSender{}
	b := &Bot{Bot: sender}

	require.NoError(t, b.SendMessage(Message{ChatID: 42, MessageID: 7, Text: "hello"}))

	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, 7, msg.ReplyToMessageID)
	assert.True(t, msg.DisableWebPagePreview)
}

func TestHandleUpdateRoutesCommands(t *testing.T) {
	responder := &fakeResponder{}
	b := &Bot{Responder: responder}

	assert.Equal(t, "hello", b.HandleUpdate(commandUpdate("/start")))
	assert.Equal(t, "report", b.HandleUpdate(commandUpdate("/status")))
	assert.Equal(t, "history", b.HandleUpdate(commandUpdate("/history")))
	assert.Equal(t, historyLimit, responder.historyLimit)
	assert.Contains(t, b.HandleUpdate(commandUpdate("/help")), "/status")
	assert.Equal(t, "", b.HandleUpdate(commandUpdate("/unknown")))
}

func TestGetUpdatesChannelWithoutSource(t *testing.T) {
	_, err := (&Bot{}).GetUpdatesChannel()
	assert.Error(t, err)
}

func TestSendNotificationToChannel(t *testing.T) {
	sender := &fakeSender{}
	b := &Bot{Bot: sender}

	require.NoError(t, b.SendNotification("@telegram_updates", types.Notification{Text: "x"}))

	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "@telegram_updates", msg.ChannelUsername)
	assert.Zero(t, msg.ChatID)
}

func TestSendNotificationInvalidChat(t *testing.T) {
	sender := &fakeSender{}
	b := &Bot{Bot: sender}

	for _, chat := range []string{"", "0", "@", "channel"} {
		assert.Error(t, b.SendNotification(chat, types.Notification{Text: "x"}), chat)
		assert.Error(t, ValidateChat(chat), chat)
	}
	assert.Empty(t, sender.sent)
	assert.NoError(t, ValidateChat(" -1001234567890 "))
	assert.NoError(t, ValidateChat("@telegram_updates"))
}
