package notify

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/user"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the channel uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramChannel posts role broadcasts to a group chat per role, e.g. the admins'
// chat. Messages for a single user are skipped: users have no linked chat.
type TelegramChannel struct {
	sender Sender
	chats  map[user.Role]int64
}

// NewTelegramBot connects to the Bot API with token.
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return api, nil
}

func NewTelegramChannel(sender Sender, chats map[user.Role]int64) *TelegramChannel {
	return &TelegramChannel{sender: sender, chats: chats}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Deliver(ctx context.Context, msg Message) error {
	if msg.Role == nil {
		return nil
	}

	chatID, ok := c.chats[*msg.Role]
	if !ok || chatID == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.sender.Send(tgbotapi.NewMessage(chatID, msg.Title+"\n"+msg.Body)); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}
