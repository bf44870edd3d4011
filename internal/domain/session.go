package domain

import "time"

type SessionState string

const (
	SessionIdle              SessionState = "idle"
	SessionAwaitingCityInput SessionState = "awaiting_city_input"
	SessionInConversation    SessionState = "in_conversation"
)

type Persona struct {
	Name      string
	AvatarURL string
}

// Session is the ephemeral conversational state of one identity. Persona is
// set only while State is SessionInConversation.
type Session struct {
	Identity   Identity
	State      SessionState
	Persona    *Persona
	TurnsTaken int
	StartedAt  time.Time
}

func IdleSession(identity Identity) Session {
	return Session{Identity: identity, State: SessionIdle}
}

func (s Session) InConversation() bool {
	return s.State == SessionInConversation && s.Persona != nil
}
