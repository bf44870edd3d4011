package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	"github.com/LOLLOVANDEV/incognitobot/internal/telemetry"
)

type QuotaEngine struct {
	repo   ports.LedgerRepository
	policy domain.QuotaPolicy
	logger *slog.Logger
}

func NewQuotaEngine(repo ports.LedgerRepository, policy domain.QuotaPolicy, logger *slog.Logger) *QuotaEngine {
	if logger == nil {
		logger = slog.Default()
	}

	return &QuotaEngine{repo: repo, policy: policy, logger: logger}
}

func (q *QuotaEngine) Policy() domain.QuotaPolicy {
	return q.policy
}

// Check reports what Consume would do without mutating anything. An unseen
// identity is judged as a fresh account.
func (q *QuotaEngine) Check(ctx context.Context, identity domain.Identity) (domain.QuotaDecision, error) {
	record, err := q.repo.Get(ctx, identity)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return domain.QuotaDecision{}, fmt.Errorf("get account: %w", err)
		}
		record = domain.AccountRecord{Identity: identity}
	}

	return q.policy.Decide(record), nil
}

// Consume re-derives the decision inside a single atomic update and applies
// it. A denied decision leaves the record untouched.
func (q *QuotaEngine) Consume(ctx context.Context, identity domain.Identity) (domain.QuotaDecision, error) {
	var decision domain.QuotaDecision

	_, err := q.repo.Update(ctx, identity, func(record *domain.AccountRecord) error {
		decision = q.policy.Decide(*record)
		q.policy.Apply(record, decision)
		return nil
	})
	if err != nil {
		return domain.QuotaDecision{}, fmt.Errorf("consume quota: %w", err)
	}

	telemetry.QuotaDecisionsTotal.WithLabelValues(string(decision.Via)).Inc()
	q.logger.DebugContext(ctx, "quota consumed", "identity", identity, "via", decision.Via)
	return decision, nil
}
