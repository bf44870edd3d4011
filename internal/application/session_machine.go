package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
)

const greetingInput = "ciao"

var ErrNoPersonas = errors.New("persona catalog is empty")

// ChatStart describes a freshly assigned persona and its opening message.
type ChatStart struct {
	Session  domain.Session
	City     string
	Greeting string
}

// Turn is the outcome of one free-text message inside a conversation.
type Turn struct {
	Persona  domain.Persona
	Decision domain.QuotaDecision
	Reply    string
	Tier     ResponseTier
}

// SessionMachine drives the per-identity conversation state.
type SessionMachine struct {
	store     *SessionStore
	ledger    *LedgerService
	quota     *QuotaEngine
	responses *ResponseEngine
	personas  ports.PersonaCatalog
	random    ports.Random
	clock     ports.Clock
	logger    *slog.Logger
}

func NewSessionMachine(
	store *SessionStore,
	ledger *LedgerService,
	quota *QuotaEngine,
	responses *ResponseEngine,
	personas ports.PersonaCatalog,
	random ports.Random,
	clock ports.Clock,
	logger *slog.Logger,
) *SessionMachine {
	if store == nil {
		store = NewSessionStore()
	}
	if random == nil {
		random = ports.SystemRandom{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionMachine{
		store:     store,
		ledger:    ledger,
		quota:     quota,
		responses: responses,
		personas:  personas,
		random:    random,
		clock:     clock,
		logger:    logger,
	}
}

func (m *SessionMachine) Current(identity domain.Identity) domain.Session {
	return m.store.Get(identity)
}

// SelectCity moves an idle session to AwaitingCityInput.
func (m *SessionMachine) SelectCity(ctx context.Context, identity domain.Identity) error {
	session := m.store.Get(identity)
	switch session.State {
	case domain.SessionIdle, domain.SessionAwaitingCityInput:
	case domain.SessionInConversation:
		return fmt.Errorf("select city: %w", domain.ErrChatInProgress)
	}

	m.store.Put(domain.Session{Identity: identity, State: domain.SessionAwaitingCityInput, StartedAt: m.clock.Now()})
	m.logger.DebugContext(ctx, "awaiting city input", "identity", identity)
	return nil
}

// SubmitCity stores a valid city and returns to Idle. Invalid input keeps
// the session waiting for another attempt.
func (m *SessionMachine) SubmitCity(ctx context.Context, identity domain.Identity, text string) (domain.AccountRecord, error) {
	session := m.store.Get(identity)
	if session.State != domain.SessionAwaitingCityInput {
		return domain.AccountRecord{}, fmt.Errorf("%w: submit city from %s", domain.ErrInvalidTransition, session.State)
	}

	record, err := m.ledger.SetCity(ctx, identity, text)
	if err != nil {
		return domain.AccountRecord{}, err
	}

	m.store.Delete(identity)
	m.logger.InfoContext(ctx, "city selected", "identity", identity, "city", record.City)
	return record, nil
}

// StartChat replaces any session with a new conversation. The account must
// have a city.
func (m *SessionMachine) StartChat(ctx context.Context, identity domain.Identity) (ChatStart, error) {
	record, err := m.ledger.GetOrCreate(ctx, identity)
	if err != nil {
		return ChatStart{}, err
	}
	if !record.HasCity() {
		return ChatStart{}, domain.ErrCityRequired
	}

	return m.assignPersona(ctx, record)
}

// NewPersona swaps the persona of a running conversation.
func (m *SessionMachine) NewPersona(ctx context.Context, identity domain.Identity) (ChatStart, error) {
	session := m.store.Get(identity)
	if !session.InConversation() {
		return ChatStart{}, fmt.Errorf("%w: new persona from %s", domain.ErrInvalidTransition, session.State)
	}

	record, err := m.ledger.GetOrCreate(ctx, identity)
	if err != nil {
		return ChatStart{}, err
	}

	return m.assignPersona(ctx, record)
}

// EndChat discards any session and reports whether a conversation was running.
func (m *SessionMachine) EndChat(ctx context.Context, identity domain.Identity) bool {
	session := m.store.Get(identity)
	m.store.Delete(identity)

	if session.InConversation() {
		m.logger.InfoContext(ctx, "conversation ended", "identity", identity, "persona", session.Persona.Name, "turns", session.TurnsTaken)
		return true
	}

	return false
}

// Converse meters and answers one message inside a conversation. A denied
// quota decision yields a Turn without a reply and without a turn increment.
func (m *SessionMachine) Converse(ctx context.Context, identity domain.Identity, text string) (Turn, error) {
	session := m.store.Get(identity)
	if !session.InConversation() {
		return Turn{}, fmt.Errorf("%w: converse from %s", domain.ErrInvalidTransition, session.State)
	}
	persona := *session.Persona

	if _, err := m.ledger.GetOrCreate(ctx, identity); err != nil {
		return Turn{}, err
	}

	decision, err := m.quota.Check(ctx, identity)
	if err != nil {
		return Turn{}, err
	}
	if decision.Allowed {
		decision, err = m.quota.Consume(ctx, identity)
		if err != nil {
			return Turn{}, err
		}
	}
	if !decision.Allowed {
		return Turn{Persona: persona, Decision: decision}, nil
	}

	reply, tier := m.responses.Generate(ctx, text, persona.Name)

	// The session may have been replaced while the generator ran.
	current := m.store.Get(identity)
	if current.InConversation() && *current.Persona == persona {
		current.TurnsTaken++
		m.store.Put(current)
	}

	return Turn{Persona: persona, Decision: decision, Reply: reply, Tier: tier}, nil
}

func (m *SessionMachine) assignPersona(ctx context.Context, record domain.AccountRecord) (ChatStart, error) {
	personas, err := m.personas.List(ctx)
	if err != nil {
		return ChatStart{}, fmt.Errorf("list personas: %w", err)
	}
	if len(personas) == 0 {
		return ChatStart{}, ErrNoPersonas
	}

	persona := personas[m.random.IntN(len(personas))]
	session := domain.Session{
		Identity:  record.Identity,
		State:     domain.SessionInConversation,
		Persona:   &persona,
		StartedAt: m.clock.Now(),
	}
	m.store.Put(session)

	greeting, _ := m.responses.Generate(ctx, greetingInput, persona.Name)
	m.logger.InfoContext(ctx, "persona assigned", "identity", record.Identity, "persona", persona.Name)

	return ChatStart{Session: session, City: record.City, Greeting: greeting}, nil
}
