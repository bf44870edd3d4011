package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	"github.com/LOLLOVANDEV/incognitobot/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultGeneratorTimeout = 15 * time.Second
	minContinuationLength   = 3
	maxContinuationLength   = 200
	userLabel               = "User:"
)

type ResponseTier string

const (
	TierPrimary ResponseTier = "primary"
	TierKeyword ResponseTier = "keyword"
	TierLength  ResponseTier = "length"
)

var errUnusableContinuation = errors.New("generator returned an unusable continuation")

// ResponseEngine produces persona replies through the primary generator with
// a local keyword and length based fallback. It never fails.
type ResponseEngine struct {
	generator ports.Generator
	random    ports.Random
	table     ReplyTable
	timeout   time.Duration
	logger    *slog.Logger
}

type ResponseEngineOption func(*ResponseEngine)

func WithReplyTable(table ReplyTable) ResponseEngineOption {
	return func(e *ResponseEngine) {
		e.table = table.withDefaults()
	}
}

func WithGeneratorTimeout(timeout time.Duration) ResponseEngineOption {
	return func(e *ResponseEngine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

func NewResponseEngine(generator ports.Generator, random ports.Random, logger *slog.Logger, opts ...ResponseEngineOption) *ResponseEngine {
	if random == nil {
		random = ports.SystemRandom{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	engine := &ResponseEngine{
		generator: generator,
		random:    random,
		table:     DefaultReplyTable(),
		timeout:   defaultGeneratorTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

func (e *ResponseEngine) Generate(ctx context.Context, input string, persona string) (string, ResponseTier) {
	if e.generator != nil {
		reply, err := e.primary(ctx, input, persona)
		if err == nil {
			telemetry.ResponsesTotal.WithLabelValues(string(TierPrimary)).Inc()
			return reply, TierPrimary
		}
		e.logger.WarnContext(ctx, "generator failed, using local replies", "persona", persona, "error", err)
	}

	if reply, ok := e.keywordReply(input, persona); ok {
		telemetry.ResponsesTotal.WithLabelValues(string(TierKeyword)).Inc()
		return reply, TierKeyword
	}

	telemetry.ResponsesTotal.WithLabelValues(string(TierLength)).Inc()
	return e.lengthReply(input, persona), TierLength
}

type generation struct {
	text string
	err  error
}

// primary runs the generator as its own unit of work so a stalled provider
// only costs this caller the timeout.
func (e *ResponseEngine) primary(ctx context.Context, input string, persona string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	timer := prometheus.NewTimer(telemetry.GeneratorDuration)
	defer timer.ObserveDuration()

	done := make(chan generation, 1)
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				done <- generation{err: fmt.Errorf("%w: generator panic: %v", domain.ErrExternalService, recovered)}
			}
		}()
		text, err := e.generator.Generate(ctx, ports.GenerationRequest{Prompt: composePrompt(input, persona)})
		done <- generation{text: text, err: err}
	}()

	var result generation
	select {
	case result = <-done:
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", domain.ErrExternalService, ctx.Err())
	}
	if result.err != nil {
		return "", result.err
	}

	reply, ok := extractContinuation(result.text, persona)
	if !ok {
		return "", errUnusableContinuation
	}

	return e.ensureMarker(reply), nil
}

func composePrompt(input string, persona string) string {
	return fmt.Sprintf(
		"You are %s, a friendly AI chat persona. Reply briefly and warmly, in the language the user writes in.\n\n%s %s\n%s:",
		persona, userLabel, input, persona,
	)
}

// extractContinuation keeps the text after the last persona label, falling
// back to the text after the last user label.
func extractContinuation(raw string, persona string) (string, bool) {
	text := strings.TrimSpace(raw)
	label := persona + ":"

	if idx := strings.LastIndex(text, label); idx >= 0 {
		text = text[idx+len(label):]
	} else if idx := strings.LastIndex(text, userLabel); idx >= 0 {
		text = text[idx+len(userLabel):]
	}
	text = strings.TrimSpace(text)

	length := utf8.RuneCountInString(text)
	if length <= minContinuationLength || length >= maxContinuationLength {
		return "", false
	}

	return text, true
}

func (e *ResponseEngine) ensureMarker(reply string) string {
	for _, marker := range e.table.Markers {
		if strings.Contains(reply, marker) {
			return reply
		}
	}

	return reply + " " + e.table.Markers[0]
}

// keywordReply picks among the replies of the longest keyword found in
// input. Equal lengths resolve to the earliest rule.
func (e *ResponseEngine) keywordReply(input string, persona string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(input))

	var best *KeywordRule
	for i := range e.table.Keywords {
		rule := &e.table.Keywords[i]
		if rule.Keyword == "" || len(rule.Replies) == 0 || !strings.Contains(lowered, rule.Keyword) {
			continue
		}
		if best == nil || utf8.RuneCountInString(rule.Keyword) > utf8.RuneCountInString(best.Keyword) {
			best = rule
		}
	}
	if best == nil {
		return "", false
	}

	return e.pick(best.Replies, persona), true
}

func (e *ResponseEngine) lengthReply(input string, persona string) string {
	candidates := e.table.Long
	if utf8.RuneCountInString(strings.TrimSpace(input)) < e.table.ShortInputLimit {
		candidates = e.table.Short
	}

	return e.pick(candidates, persona)
}

func (e *ResponseEngine) pick(candidates []string, persona string) string {
	reply := strings.ReplaceAll(candidates[e.random.IntN(len(candidates))], personaPlaceholder, persona)
	if strings.TrimSpace(reply) == "" {
		return e.table.Markers[0]
	}

	return reply
}
