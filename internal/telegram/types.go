package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
}

// Responder produces the replies to inbound commands
type Responder interface {
	Greeting(ctx context.Context) string
	Report() string
	History(limit int) string
}

// Sender is the subset of tgbotapi.BotAPI the bot uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot telegram interaction client
type Bot struct {
	Bot       Sender
	Config    BotConfig
	Responder Responder
	updates   func(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Message a telegram message struct
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}
