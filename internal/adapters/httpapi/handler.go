package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/telegram"
	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/telemetry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxRequestBytes     = 1 << 20
	requestIDHeader     = "X-Request-ID"
	webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

	endpointEvents  = "/v1/events"
	endpointWebhook = "/v1/telegram/webhook"
	endpointHealth  = "/healthz"
)

// EventHandler turns one inbound event into replies.
type EventHandler interface {
	Handle(ctx context.Context, event domain.InboundEvent) []domain.Reply
}

// ReplyDeliverer pushes replies back to the messaging platform.
type ReplyDeliverer interface {
	Deliver(ctx context.Context, callbackID string, replies []domain.Reply) error
}

type Options struct {
	// APIToken enables the event endpoint. Callers send it as a bearer token.
	APIToken string
	// Deliverer and WebhookSecret together enable the Telegram webhook.
	Deliverer     ReplyDeliverer
	WebhookSecret string
	Logger        *slog.Logger
}

type Handler struct {
	events    EventHandler
	deliverer ReplyDeliverer
	apiToken  string
	secret    string
	logger    *slog.Logger
}

func NewHandler(events EventHandler, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		events:    events,
		deliverer: opts.Deliverer,
		apiToken:  opts.APIToken,
		secret:    opts.WebhookSecret,
		logger:    logger,
	}
}

// Routes builds the gorilla/mux router serving the bot.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(h.withRequestID)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc(endpointHealth, h.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	if h.apiToken != "" {
		events := v1.Path("/events").Subrouter()
		events.Use(h.requireAPIToken)
		events.Methods(http.MethodPost).HandlerFunc(h.PostEvent)
	}
	if h.deliverer != nil && h.secret != "" {
		v1.HandleFunc("/telegram/webhook", h.TelegramWebhook).Methods(http.MethodPost)
	}

	return r
}

type eventRequest struct {
	Sender   int64  `json:"sender"`
	Chat     int64  `json:"chat"`
	Text     string `json:"text"`
	Callback string `json:"callback"`
}

type personaPayload struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type replyPayload struct {
	Chat     int64           `json:"chat"`
	Text     string          `json:"text"`
	Keyboard string          `json:"keyboard,omitempty"`
	Persona  *personaPayload `json:"persona,omitempty"`
	Alert    bool            `json:"alert,omitempty"`
}

type eventResponse struct {
	RequestID string         `json:"request_id"`
	Replies   []replyPayload `json:"replies"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"}, endpointHealth)
}

// PostEvent accepts a transport-neutral event and answers with the replies.
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(telemetry.HTTPRequestDuration.WithLabelValues(r.Method, endpointEvents))
	defer timer.ObserveDuration()

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid JSON", endpointEvents)
		return
	}
	if req.Sender == 0 {
		h.respondError(w, r, http.StatusUnprocessableEntity, "sender is required", endpointEvents)
		return
	}
	hasText := strings.TrimSpace(req.Text) != ""
	hasCallback := strings.TrimSpace(req.Callback) != ""
	if hasText == hasCallback {
		h.respondError(w, r, http.StatusUnprocessableEntity, "exactly one of text and callback is required", endpointEvents)
		return
	}
	if req.Chat == 0 {
		req.Chat = req.Sender
	}

	event := domain.InboundEvent{
		Sender:        domain.Identity(req.Sender),
		Chat:          domain.ChatID(req.Chat),
		Text:          req.Text,
		CallbackToken: req.Callback,
	}
	replies := h.events.Handle(r.Context(), event)
	loggerFrom(r.Context(), h.logger).DebugContext(r.Context(), "event handled", "identity", event.Sender, "replies", len(replies))

	h.respondJSON(w, r, http.StatusOK, eventResponse{
		RequestID: requestID(r.Context()),
		Replies:   toPayloads(replies),
	}, endpointEvents)
}

// TelegramWebhook handles Bot API updates and delivers the replies through
// the configured deliverer. Ignored update kinds are acknowledged.
func (h *Handler) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(telemetry.HTTPRequestDuration.WithLabelValues(r.Method, endpointWebhook))
	defer timer.ObserveDuration()

	if !secretMatches(r.Header.Get(webhookSecretHeader), h.secret) {
		h.respondError(w, r, http.StatusUnauthorized, "invalid webhook secret", endpointWebhook)
		return
	}

	var update tgbotapi.Update
	if err := decodeJSON(r, &update); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid JSON", endpointWebhook)
		return
	}

	event, callbackID, ok := telegram.InboundEvent(update)
	if !ok {
		h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ignored"}, endpointWebhook)
		return
	}

	logger := loggerFrom(r.Context(), h.logger).With("identity", event.Sender, "update_id", update.UpdateID)
	replies := h.events.Handle(r.Context(), event)
	if err := h.deliverer.Deliver(r.Context(), callbackID, replies); err != nil {
		// Telegram retries non-2xx responses, which would replay the event.
		logger.WarnContext(r.Context(), "reply delivery failed", "replies", len(replies), "error", err)
	}

	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"}, endpointWebhook)
}

func toPayloads(replies []domain.Reply) []replyPayload {
	payloads := make([]replyPayload, 0, len(replies))
	for _, reply := range replies {
		payload := replyPayload{
			Chat:     int64(reply.Chat),
			Text:     reply.Text,
			Keyboard: string(reply.Keyboard),
			Alert:    reply.Alert,
		}
		if reply.Persona != nil {
			payload.Persona = &personaPayload{Name: reply.Persona.Name, AvatarURL: reply.Persona.AvatarURL}
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, code int, payload any, endpoint string) {
	telemetry.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(code)).Inc()

	response, err := json.Marshal(payload)
	if err != nil {
		loggerFrom(r.Context(), h.logger).ErrorContext(r.Context(), "encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, code int, message, endpoint string) {
	loggerFrom(r.Context(), h.logger).InfoContext(r.Context(), "request rejected", "endpoint", endpoint, "status", code, "reason", message)
	h.respondJSON(w, r, code, errorResponse{Error: message, RequestID: requestID(r.Context())}, endpoint)
}
