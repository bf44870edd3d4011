package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
)

const maxPublicCodeAttempts = 32

// LedgerService owns the account lifecycle on top of a LedgerRepository.
type LedgerService struct {
	repo   ports.LedgerRepository
	random ports.Random
	logger *slog.Logger
}

func NewLedgerService(repo ports.LedgerRepository, random ports.Random, logger *slog.Logger) *LedgerService {
	if random == nil {
		random = ports.SystemRandom{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LedgerService{repo: repo, random: random, logger: logger}
}

// GetOrCreate returns the record of identity, creating it with a fresh
// public code on first reference.
func (s *LedgerService) GetOrCreate(ctx context.Context, identity domain.Identity) (domain.AccountRecord, error) {
	record, err := s.repo.Get(ctx, identity)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return domain.AccountRecord{}, fmt.Errorf("get account: %w", err)
	}

	for attempt := 0; attempt < maxPublicCodeAttempts; attempt++ {
		record = domain.NewAccountRecord(identity, s.newPublicCode())

		err := s.repo.Create(ctx, record)
		switch {
		case err == nil:
			s.logger.InfoContext(ctx, "account created", "identity", identity, "public_code", record.PublicCode)
			return record, nil
		case errors.Is(err, domain.ErrPublicCodeTaken):
			continue
		case errors.Is(err, domain.ErrAccountExists):
			existing, getErr := s.repo.Get(ctx, identity)
			if getErr != nil {
				return domain.AccountRecord{}, fmt.Errorf("get concurrently created account: %w", getErr)
			}
			return existing, nil
		default:
			return domain.AccountRecord{}, fmt.Errorf("create account: %w", err)
		}
	}

	return domain.AccountRecord{}, fmt.Errorf("generate public code after %d attempts: %w", maxPublicCodeAttempts, domain.ErrPublicCodeTaken)
}

func (s *LedgerService) Save(ctx context.Context, record domain.AccountRecord) error {
	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *LedgerService) FindByPublicCode(ctx context.Context, raw string) (domain.AccountRecord, error) {
	record, err := s.repo.FindByPublicCode(ctx, domain.NormalizePublicCode(raw))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.AccountRecord{}, err
		}
		return domain.AccountRecord{}, fmt.Errorf("find account by public code: %w", err)
	}

	return record, nil
}

func (s *LedgerService) List(ctx context.Context) ([]domain.AccountRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return records, nil
}

// SetCity validates raw against the gazetteer and stores the normalized name.
func (s *LedgerService) SetCity(ctx context.Context, identity domain.Identity, raw string) (domain.AccountRecord, error) {
	city, err := domain.NormalizeCity(raw)
	if err != nil {
		return domain.AccountRecord{}, err
	}

	if _, err := s.GetOrCreate(ctx, identity); err != nil {
		return domain.AccountRecord{}, err
	}

	record, err := s.repo.Update(ctx, identity, func(record *domain.AccountRecord) error {
		record.City = city
		return nil
	})
	if err != nil {
		return domain.AccountRecord{}, fmt.Errorf("update account city: %w", err)
	}

	return record, nil
}

func (s *LedgerService) newPublicCode() domain.PublicCode {
	code := make([]byte, domain.PublicCodeLength)
	for i := range code {
		code[i] = domain.PublicCodeAlphabet[s.random.IntN(len(domain.PublicCodeAlphabet))]
	}

	return domain.PublicCode(code)
}
