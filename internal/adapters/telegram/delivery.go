package telegram

import (
	"context"
	"errors"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Keyboards holds what is needed to render domain keyboards as Bot API
// reply markup.
type Keyboards struct {
	Labels          map[domain.Button]string
	ChannelURL      string
	RefreshLabel    string
	BuyCreditsLabel string
	SelectCityLabel string
}

// Deliver sends replies in order. Alert replies answer callbackID when one is
// given. A pending callback query is always answered so the client stops
// waiting. Delivery continues past individual failures.
func (c Client) Deliver(ctx context.Context, callbackID string, replies []domain.Reply) error {
	var errs []error
	answered := false

	for _, reply := range replies {
		if reply.Alert && callbackID != "" && !answered {
			answered = true
			if err := c.request(ctx, "answerCallbackQuery", tgbotapi.NewCallbackWithAlert(callbackID, reply.Text)); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		method, chattable := c.outgoing(reply)
		if err := c.request(ctx, method, chattable); err != nil {
			errs = append(errs, err)
		}
	}

	if callbackID != "" && !answered {
		if err := c.request(ctx, "answerCallbackQuery", tgbotapi.NewCallback(callbackID, "")); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// outgoing sends persona cards as photos when the persona has an avatar.
func (c Client) outgoing(reply domain.Reply) (string, tgbotapi.Chattable) {
	markup := c.Keyboards.markup(reply.Keyboard)
	if reply.Persona != nil && reply.Persona.AvatarURL != "" && reply.Keyboard == domain.KeyboardChat {
		photo := tgbotapi.NewPhoto(int64(reply.Chat), tgbotapi.FileURL(reply.Persona.AvatarURL))
		photo.Caption = reply.Text
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		return "sendPhoto", photo
	}

	msg := tgbotapi.NewMessage(int64(reply.Chat), reply.Text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return "sendMessage", msg
}

// markup returns nil for keyboards that carry no buttons, which leaves the
// client's current keyboard in place.
func (k Keyboards) markup(keyboard domain.Keyboard) any {
	switch keyboard {
	case domain.KeyboardMain:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(k.button(domain.ButtonNewChat), k.button(domain.ButtonProfile)),
			tgbotapi.NewKeyboardButtonRow(k.button(domain.ButtonBuyCredits)),
		)
	case domain.KeyboardChat:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(k.button(domain.ButtonNewPersona), k.button(domain.ButtonEndChat)),
		)
	case domain.KeyboardSubscribe:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, 2)
		if k.ChannelURL != "" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("📢 Join the channel", k.ChannelURL)))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(orDefault(k.RefreshLabel, "🔄 I joined"), string(domain.CallbackRefreshMembership)),
		))
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	case domain.KeyboardProfile:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(orDefault(k.BuyCreditsLabel, "🪙 Buy credits"), string(domain.CallbackShowPricing))),
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(orDefault(k.SelectCityLabel, "📍 Select city"), string(domain.CallbackSelectCity))),
		)
	case domain.KeyboardNone, domain.KeyboardPricing:
		return nil
	default:
		return nil
	}
}

func (k Keyboards) button(button domain.Button) tgbotapi.KeyboardButton {
	if label, ok := k.Labels[button]; ok {
		return tgbotapi.NewKeyboardButton(label)
	}
	return tgbotapi.NewKeyboardButton(string(button))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
