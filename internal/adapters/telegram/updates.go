package telegram

import (
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// InboundEvent converts update. The second result is the callback query id
// to answer, if any. ok is false for updates the bot ignores.
func InboundEvent(update tgbotapi.Update) (event domain.InboundEvent, callbackID string, ok bool) {
	switch {
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if query.From == nil || query.From.ID == 0 {
			return domain.InboundEvent{}, "", false
		}
		chatID := query.From.ID
		if query.Message != nil && query.Message.Chat != nil {
			chatID = query.Message.Chat.ID
		}
		return domain.InboundEvent{
			Sender:        domain.Identity(query.From.ID),
			Chat:          domain.ChatID(chatID),
			CallbackToken: query.Data,
		}, query.ID, true
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
			return domain.InboundEvent{}, "", false
		}
		return domain.InboundEvent{
			Sender: domain.Identity(msg.From.ID),
			Chat:   domain.ChatID(msg.Chat.ID),
			Text:   msg.Text,
		}, "", true
	default:
		return domain.InboundEvent{}, "", false
	}
}
