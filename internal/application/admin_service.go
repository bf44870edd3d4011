package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
)

type RechargeResult struct {
	Account         domain.AccountRecord
	PreviousBalance int64
	// NotifyAttempted is false when no notifier is configured.
	NotifyAttempted bool
	Notified        bool
}

// AdminService runs privileged ledger operations for allow-listed operators.
type AdminService struct {
	admins   map[domain.Identity]struct{}
	repo     ports.LedgerRepository
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewAdminService(admins []domain.Identity, repo ports.LedgerRepository, notifier ports.Notifier, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}

	allowed := make(map[domain.Identity]struct{}, len(admins))
	for _, admin := range admins {
		allowed[admin] = struct{}{}
	}

	return &AdminService{admins: allowed, repo: repo, notifier: notifier, logger: logger}
}

func (a *AdminService) IsAdmin(identity domain.Identity) bool {
	_, ok := a.admins[identity]
	return ok
}

// SetCredits sets the balance of the account behind code to amount. The
// previous balance is replaced, not added to.
func (a *AdminService) SetCredits(ctx context.Context, caller domain.Identity, code domain.PublicCode, amount int64) (RechargeResult, error) {
	if !a.IsAdmin(caller) {
		return RechargeResult{}, domain.ErrUnauthorized
	}
	if amount < 0 {
		return RechargeResult{}, fmt.Errorf("%w: %d is negative", domain.ErrInvalidAmount, amount)
	}

	target, err := a.repo.FindByPublicCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return RechargeResult{}, err
		}
		return RechargeResult{}, fmt.Errorf("find account by public code: %w", err)
	}

	var previous int64
	updated, err := a.repo.Update(ctx, target.Identity, func(record *domain.AccountRecord) error {
		if record.PublicCode != code {
			return domain.ErrAccountNotFound
		}
		previous = record.CreditBalance
		record.CreditBalance = amount
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return RechargeResult{}, err
		}
		return RechargeResult{}, fmt.Errorf("set account credits: %w", err)
	}

	a.logger.InfoContext(ctx, "credits set",
		"operator", caller,
		"public_code", code,
		"previous_balance", previous,
		"balance", amount,
	)

	result := RechargeResult{Account: updated, PreviousBalance: previous}
	if a.notifier == nil {
		return result, nil
	}
	result.NotifyAttempted = true
	if err := a.notifier.Notify(ctx, updated.Identity, creditsSetNotice(amount)); err != nil {
		a.logger.WarnContext(ctx, "credit notification failed", "identity", updated.Identity, "error", err)
		return result, nil
	}
	result.Notified = true

	return result, nil
}

func (a *AdminService) Lookup(ctx context.Context, caller domain.Identity, code domain.PublicCode) (domain.AccountRecord, error) {
	if !a.IsAdmin(caller) {
		return domain.AccountRecord{}, domain.ErrUnauthorized
	}

	record, err := a.repo.FindByPublicCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.AccountRecord{}, err
		}
		return domain.AccountRecord{}, fmt.Errorf("find account by public code: %w", err)
	}

	return record, nil
}

// ParseRechargeArgs reads "<amount> <code>".
func ParseRechargeArgs(args []string) (int64, domain.PublicCode, error) {
	if len(args) != 2 {
		return 0, "", domain.ErrUsage
	}

	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, args[0])
	}
	if amount < 0 {
		return 0, "", fmt.Errorf("%w: %d is negative", domain.ErrInvalidAmount, amount)
	}

	return amount, domain.NormalizePublicCode(args[1]), nil
}

// ParseInfoArgs reads "<code>".
func ParseInfoArgs(args []string) (domain.PublicCode, error) {
	if len(args) != 1 {
		return "", domain.ErrUsage
	}

	return domain.NormalizePublicCode(args[0]), nil
}
