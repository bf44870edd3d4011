package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/telemetry"
)

const (
	commandStart        = "start"
	commandRecharge     = "recharge"
	commandRechargeItal = "ricarica"
	commandInfo         = "info"
)

// Router dispatches classified events. It never returns an error; every
// failure becomes a reply to the sender.
type Router struct {
	classifier *Classifier
	gate       *AccessGate
	sessions   *SessionMachine
	ledger     *LedgerService
	quota      *QuotaEngine
	admin      *AdminService
	logger     *slog.Logger
}

func NewRouter(
	classifier *Classifier,
	gate *AccessGate,
	sessions *SessionMachine,
	ledger *LedgerService,
	quota *QuotaEngine,
	admin *AdminService,
	logger *slog.Logger,
) *Router {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		classifier: classifier,
		gate:       gate,
		sessions:   sessions,
		ledger:     ledger,
		quota:      quota,
		admin:      admin,
		logger:     logger,
	}
}

func (r *Router) Handle(ctx context.Context, in domain.InboundEvent) []domain.Reply {
	event := r.classifier.Classify(in)
	telemetry.EventsTotal.WithLabelValues(string(event.Kind)).Inc()

	if event.Kind == domain.EventCommand && isAdminCommand(event.Command) {
		return r.handleAdminCommand(ctx, event)
	}

	if !r.gate.IsAuthorized(ctx, event.Sender) {
		if event.Kind == domain.EventCallbackToken && event.Callback == domain.CallbackRefreshMembership {
			return []domain.Reply{{Chat: event.Chat, Text: msgStillNotSubscribed, Alert: true}}
		}
		return []domain.Reply{subscribePrompt(event.Chat)}
	}

	switch event.Kind {
	case domain.EventCommand:
		return r.handleCommand(ctx, event)
	case domain.EventButtonPress:
		return r.handleButton(ctx, event)
	case domain.EventCallbackToken:
		return r.handleCallback(ctx, event)
	case domain.EventFreeText:
		return r.handleText(ctx, event)
	default:
		r.logger.WarnContext(ctx, "unclassified event", "identity", event.Sender, "kind", event.Kind)
		return nil
	}
}

func (r *Router) handleCommand(ctx context.Context, event domain.Event) []domain.Reply {
	switch event.Command {
	case commandStart:
		if _, err := r.ledger.GetOrCreate(ctx, event.Sender); err != nil {
			return r.failure(ctx, event, err)
		}
		return []domain.Reply{welcome(event.Chat)}
	default:
		return []domain.Reply{{Chat: event.Chat, Text: msgUnknownCommand}}
	}
}

func (r *Router) handleButton(ctx context.Context, event domain.Event) []domain.Reply {
	switch event.Button {
	case domain.ButtonNewChat:
		start, err := r.sessions.StartChat(ctx, event.Sender)
		if err != nil {
			return r.failure(ctx, event, err)
		}
		return chatStartReplies(event.Chat, start)
	case domain.ButtonNewPersona:
		start, err := r.sessions.NewPersona(ctx, event.Sender)
		if err != nil {
			return r.failure(ctx, event, err)
		}
		return chatStartReplies(event.Chat, start)
	case domain.ButtonEndChat:
		r.sessions.EndChat(ctx, event.Sender)
		return []domain.Reply{welcome(event.Chat)}
	case domain.ButtonProfile:
		return r.profile(ctx, event)
	case domain.ButtonBuyCredits:
		return []domain.Reply{pricing(event.Chat)}
	default:
		return nil
	}
}

func (r *Router) handleCallback(ctx context.Context, event domain.Event) []domain.Reply {
	switch event.Callback {
	case domain.CallbackRefreshMembership:
		return []domain.Reply{
			{Chat: event.Chat, Text: msgSubscribed, Alert: true},
			welcome(event.Chat),
		}
	case domain.CallbackShowPricing:
		return []domain.Reply{pricing(event.Chat)}
	case domain.CallbackSelectCity:
		if err := r.sessions.SelectCity(ctx, event.Sender); err != nil {
			return r.failure(ctx, event, err)
		}
		return []domain.Reply{{Chat: event.Chat, Text: msgCityPrompt}}
	default:
		r.logger.DebugContext(ctx, "unknown callback token", "identity", event.Sender, "token", event.Callback)
		return nil
	}
}

func (r *Router) handleText(ctx context.Context, event domain.Event) []domain.Reply {
	session := r.sessions.Current(event.Sender)

	switch session.State {
	case domain.SessionAwaitingCityInput:
		record, err := r.sessions.SubmitCity(ctx, event.Sender, event.Text)
		if err != nil {
			return r.failure(ctx, event, err)
		}
		return []domain.Reply{{Chat: event.Chat, Text: citySavedText(record), Keyboard: domain.KeyboardMain}}
	case domain.SessionInConversation:
		turn, err := r.sessions.Converse(ctx, event.Sender, event.Text)
		if err != nil {
			return r.failure(ctx, event, err)
		}
		if !turn.Decision.Allowed {
			return []domain.Reply{
				{Chat: event.Chat, Text: msgNoCredits},
				pricing(event.Chat),
			}
		}
		persona := turn.Persona
		return []domain.Reply{{Chat: event.Chat, Text: personaLine(persona, turn.Reply), Persona: &persona}}
	case domain.SessionIdle:
		return nil
	default:
		return nil
	}
}

func (r *Router) handleAdminCommand(ctx context.Context, event domain.Event) []domain.Reply {
	reply := func(text string) []domain.Reply {
		return []domain.Reply{{Chat: event.Chat, Text: text}}
	}
	command := event.Command
	if command == commandRechargeItal {
		command = commandRecharge
	}

	if !r.admin.IsAdmin(event.Sender) {
		telemetry.AdminCommandsTotal.WithLabelValues(command, "unauthorized").Inc()
		r.logger.WarnContext(ctx, "privileged command refused", "identity", event.Sender, "command", command)
		return reply(msgPermissionDenied)
	}

	switch command {
	case commandRecharge:
		amount, code, err := ParseRechargeArgs(event.Args)
		if err != nil {
			telemetry.AdminCommandsTotal.WithLabelValues(command, "invalid").Inc()
			if errors.Is(err, domain.ErrUsage) {
				return reply(msgRechargeUsage)
			}
			return reply(msgInvalidAmount)
		}

		result, err := r.admin.SetCredits(ctx, event.Sender, code, amount)
		if err != nil {
			return r.adminFailure(ctx, event, command, code, err)
		}
		telemetry.AdminCommandsTotal.WithLabelValues(command, "ok").Inc()

		replies := reply(rechargeText(result))
		if result.NotifyAttempted && !result.Notified {
			replies = append(replies, domain.Reply{Chat: event.Chat, Text: msgNotifyFailed})
		}
		return replies
	case commandInfo:
		code, err := ParseInfoArgs(event.Args)
		if err != nil {
			telemetry.AdminCommandsTotal.WithLabelValues(command, "invalid").Inc()
			return reply(msgInfoUsage)
		}

		record, err := r.admin.Lookup(ctx, event.Sender, code)
		if err != nil {
			return r.adminFailure(ctx, event, command, code, err)
		}
		telemetry.AdminCommandsTotal.WithLabelValues(command, "ok").Inc()
		return reply(accountInfoText(record))
	default:
		return reply(msgUnknownCommand)
	}
}

func (r *Router) adminFailure(ctx context.Context, event domain.Event, command string, code domain.PublicCode, err error) []domain.Reply {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		telemetry.AdminCommandsTotal.WithLabelValues(command, "not_found").Inc()
		return []domain.Reply{{Chat: event.Chat, Text: accountNotFoundText(code)}}
	case errors.Is(err, domain.ErrUnauthorized):
		telemetry.AdminCommandsTotal.WithLabelValues(command, "unauthorized").Inc()
		return []domain.Reply{{Chat: event.Chat, Text: msgPermissionDenied}}
	case errors.Is(err, domain.ErrInvalidAmount):
		telemetry.AdminCommandsTotal.WithLabelValues(command, "invalid").Inc()
		return []domain.Reply{{Chat: event.Chat, Text: msgInvalidAmount}}
	default:
		telemetry.AdminCommandsTotal.WithLabelValues(command, "error").Inc()
		return r.failure(ctx, event, err)
	}
}

// failure maps an operation error to the reply the sender sees.
func (r *Router) failure(ctx context.Context, event domain.Event, err error) []domain.Reply {
	reply := func(text string, keyboard domain.Keyboard) []domain.Reply {
		return []domain.Reply{{Chat: event.Chat, Text: text, Keyboard: keyboard}}
	}

	switch {
	case errors.Is(err, domain.ErrCityRequired):
		return reply(msgCityRequired, domain.KeyboardProfile)
	case errors.Is(err, domain.ErrUnknownCity):
		return reply(msgCityUnknown, domain.KeyboardNone)
	case errors.Is(err, domain.ErrInvalidCity):
		return reply(msgCityInvalid, domain.KeyboardNone)
	case errors.Is(err, domain.ErrChatInProgress):
		return reply(msgEndChatFirst, domain.KeyboardChat)
	case errors.Is(err, domain.ErrInvalidTransition):
		r.logger.DebugContext(ctx, "ignored transition", "identity", event.Sender, "error", err)
		return reply(msgNotInChat, domain.KeyboardMain)
	case errors.Is(err, ErrNoPersonas):
		r.logger.ErrorContext(ctx, "no personas configured", "identity", event.Sender)
		return reply(msgNoPersonas, domain.KeyboardMain)
	default:
		r.logger.ErrorContext(ctx, "event handling failed", "identity", event.Sender, "kind", event.Kind, "error", err)
		return reply(msgRetryLater, domain.KeyboardNone)
	}
}

func (r *Router) profile(ctx context.Context, event domain.Event) []domain.Reply {
	record, err := r.ledger.GetOrCreate(ctx, event.Sender)
	if err != nil {
		return r.failure(ctx, event, err)
	}

	return []domain.Reply{{Chat: event.Chat, Text: profileText(record, r.quota.Policy()), Keyboard: domain.KeyboardProfile}}
}

func chatStartReplies(chat domain.ChatID, start ChatStart) []domain.Reply {
	persona := *start.Session.Persona
	return []domain.Reply{
		{Chat: chat, Text: personaCard(persona, start.City), Keyboard: domain.KeyboardChat, Persona: &persona},
		{Chat: chat, Text: personaLine(persona, start.Greeting), Persona: &persona},
	}
}

func isAdminCommand(command string) bool {
	switch command {
	case commandRecharge, commandRechargeItal, commandInfo:
		return true
	default:
		return false
	}
}

func welcome(chat domain.ChatID) domain.Reply {
	return domain.Reply{Chat: chat, Text: msgWelcome, Keyboard: domain.KeyboardMain}
}

func subscribePrompt(chat domain.ChatID) domain.Reply {
	return domain.Reply{Chat: chat, Text: msgNotSubscribed, Keyboard: domain.KeyboardSubscribe}
}

func pricing(chat domain.ChatID) domain.Reply {
	return domain.Reply{Chat: chat, Text: msgPricing, Keyboard: domain.KeyboardPricing}
}
