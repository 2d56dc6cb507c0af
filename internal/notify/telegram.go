package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// messageSender is the part of *bot.Bot the channel needs.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramChannel posts driver messages to one group chat.
type TelegramChannel struct {
	sender messageSender
	chatID int64
}

// NewTelegramChannel returns nil when either the token or the chat id is
// missing, which leaves the channel unconfigured.
func NewTelegramChannel(token string, chatID int64) (*TelegramChannel, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramChannel{sender: b, chatID: chatID}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Send(ctx context.Context, message string) error {
	_, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: c.chatID,
		Text:   message,
	})
	return err
}
