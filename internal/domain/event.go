package domain

// ChatID addresses the conversation a reply goes to.
type ChatID int64

// InboundEvent is the transport-neutral envelope of one platform event.
// Exactly one of Text and CallbackToken is expected to be set.
type InboundEvent struct {
	Sender        Identity
	Chat          ChatID
	Text          string
	CallbackToken string
}

type EventKind string

const (
	EventCommand       EventKind = "command"
	EventButtonPress   EventKind = "button_press"
	EventFreeText      EventKind = "free_text"
	EventCallbackToken EventKind = "callback_token"
)

type Button string

const (
	ButtonNewChat    Button = "new_chat"
	ButtonProfile    Button = "profile"
	ButtonBuyCredits Button = "buy_credits"
	ButtonNewPersona Button = "new_persona"
	ButtonEndChat    Button = "end_chat"
)

type CallbackToken string

const (
	CallbackRefreshMembership CallbackToken = "refresh_membership"
	CallbackShowPricing       CallbackToken = "show_pricing"
	CallbackSelectCity        CallbackToken = "select_city"
)

// Event is a classified InboundEvent.
type Event struct {
	Kind     EventKind
	Sender   Identity
	Chat     ChatID
	Command  string
	Args     []string
	Button   Button
	Text     string
	Callback CallbackToken
}

type Keyboard string

const (
	KeyboardNone      Keyboard = ""
	KeyboardMain      Keyboard = "main"
	KeyboardChat      Keyboard = "chat"
	KeyboardSubscribe Keyboard = "subscribe"
	KeyboardProfile   Keyboard = "profile"
	KeyboardPricing   Keyboard = "pricing"
)

// Reply is one outbound message for the transport to render.
type Reply struct {
	Chat     ChatID
	Text     string
	Keyboard Keyboard
	Persona  *Persona
	// Alert marks a reply meant as a callback answer rather than a message.
	Alert bool
}
