package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"app-update-bot/internal/types"
	"app-update-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	historyLimit   = 10
	commandTimeout = 30 * time.Second
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:     bot,
		Config:  c,
		updates: bot.GetUpdatesChan,
	}, nil
}

// GetUpdatesChannel gets new updates updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	if b.updates == nil {
		return nil, errors.New("bot has no updates source")
	}
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.updates(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to %d", m.ChatID)
}

// ValidateChat checks that chat is a numeric chat ID or an @channel username
func ValidateChat(chat string) error {
	_, err := newChatMessage(chat, "")
	return err
}

func newChatMessage(chat, text string) (tgbotapi.MessageConfig, error) {
	chat = strings.TrimSpace(chat)
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil && id != 0 {
		return tgbotapi.NewMessage(id, text), nil
	}
	if len(chat) > 1 && strings.HasPrefix(chat, "@") {
		return tgbotapi.NewMessageToChannel(chat, text), nil
	}
	return tgbotapi.MessageConfig{}, errors.Errorf("invalid chat %q, expected a chat ID or @channel username", chat)
}

// SendNotification sends a change notification with its optional button
func (b *Bot) SendNotification(chat string, n types.Notification) error {
	msg, err := newChatMessage(chat, n.Text)
	if err != nil {
		return err
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if n.Button != nil {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(n.Button.Label, n.Button.URL),
			),
		)
	}
	_, err = b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send notification to %s", chat)
}

// HandleUpdate processes Telegram updates and returns the reply text.
// Unknown commands get an empty reply.
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	log.Debugf("received command: %s", u.Message.Command())

	if b.Responder == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch u.Message.Command() {
	case "start":
		return b.Responder.Greeting(ctx)
	case "status":
		return b.Responder.Report()
	case "history":
		return b.Responder.History(historyLimit)
	case "help":
		return translation.Translate("<b>Commands</b>\n/start - greeting\n/status - current state\n/history - recent notifications")
	}
	return ""
}
