package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	"github.com/LOLLOVANDEV/incognitobot/internal/telemetry"
)

var authorizedStatuses = map[string]struct{}{
	"member":        {},
	"administrator": {},
	"creator":       {},
	"owner":         {},
}

// AccessGate answers whether an identity may use the bot. It fails closed.
type AccessGate struct {
	oracle ports.MembershipOracle
	logger *slog.Logger
}

func NewAccessGate(oracle ports.MembershipOracle, logger *slog.Logger) *AccessGate {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccessGate{oracle: oracle, logger: logger}
}

func (g *AccessGate) IsAuthorized(ctx context.Context, identity domain.Identity) bool {
	if g.oracle == nil {
		telemetry.AccessDecisionsTotal.WithLabelValues("error").Inc()
		g.logger.ErrorContext(ctx, "membership oracle not configured", "identity", identity)
		return false
	}

	status, err := g.oracle.MemberStatus(ctx, identity)
	if err != nil {
		telemetry.AccessDecisionsTotal.WithLabelValues("error").Inc()
		g.logger.WarnContext(ctx, "membership check failed", "identity", identity, "error", err)
		return false
	}

	if _, ok := authorizedStatuses[strings.ToLower(strings.TrimSpace(status))]; !ok {
		telemetry.AccessDecisionsTotal.WithLabelValues("denied").Inc()
		g.logger.DebugContext(ctx, "membership denied", "identity", identity, "status", status)
		return false
	}

	telemetry.AccessDecisionsTotal.WithLabelValues("granted").Inc()
	return true
}
