package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

const ledgerDSNKey = "ledger.dsn"

const (
	uniqueViolation   = "23505"
	primaryKeyName    = "accounts_pkey"
	publicCodeKeyName = "accounts_public_code_key"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	identity           BIGINT PRIMARY KEY,
	public_code        TEXT   NOT NULL UNIQUE,
	credit_balance     BIGINT NOT NULL DEFAULT 0 CHECK (credit_balance >= 0),
	city               TEXT   NOT NULL DEFAULT 'unset',
	free_uses_consumed BIGINT NOT NULL DEFAULT 0 CHECK (free_uses_consumed >= 0)
)`

const selectColumns = `SELECT identity, public_code, credit_balance, city, free_uses_consumed FROM accounts`

type Repository struct {
	pool *pgxpool.Pool
}

var _ ports.LedgerRepository = (*Repository)(nil)

func NewRepository(ctx context.Context, cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dsn := cfg.GetString(ledgerDSNKey)
	if dsn == "" {
		return nil, errors.New("ledger dsn is empty")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, persistenceError("create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, persistenceError("ping database", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, persistenceError("create tables", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Get(ctx context.Context, identity domain.Identity) (domain.AccountRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx, selectColumns+` WHERE identity = $1`, int64(identity)))
}

// FindByPublicCode retrieves a single account by its public code.
func (r *Repository) FindByPublicCode(ctx context.Context, code domain.PublicCode) (domain.AccountRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx, selectColumns+` WHERE public_code = $1`, string(code)))
}

func (r *Repository) List(ctx context.Context) ([]domain.AccountRecord, error) {
	rows, err := r.pool.Query(ctx, selectColumns+` ORDER BY identity`)
	if err != nil {
		return nil, persistenceError("list accounts", err)
	}
	defer rows.Close()

	var records []domain.AccountRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list accounts", err)
	}

	return records, nil
}

func (r *Repository) Create(ctx context.Context, record domain.AccountRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (identity, public_code, credit_balance, city, free_uses_consumed) VALUES ($1, $2, $3, $4, $5)`,
		int64(record.Identity), string(record.PublicCode), record.CreditBalance, record.City, record.FreeUsesConsumed,
	)
	if err != nil {
		return translateWriteError("insert account", err)
	}

	return nil
}

func (r *Repository) Save(ctx context.Context, record domain.AccountRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (identity, public_code, credit_balance, city, free_uses_consumed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity) DO UPDATE SET
			public_code = EXCLUDED.public_code,
			credit_balance = EXCLUDED.credit_balance,
			city = EXCLUDED.city,
			free_uses_consumed = EXCLUDED.free_uses_consumed`,
		int64(record.Identity), string(record.PublicCode), record.CreditBalance, record.City, record.FreeUsesConsumed,
	)
	if err != nil {
		return translateWriteError("upsert account", err)
	}

	return nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (r *Repository) Update(ctx context.Context, identity domain.Identity, fn func(*domain.AccountRecord) error) (domain.AccountRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.AccountRecord{}, persistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanRecord(tx.QueryRow(ctx, selectColumns+` WHERE identity = $1 FOR UPDATE`, int64(identity)))
	if err != nil {
		return domain.AccountRecord{}, err
	}

	updated := current
	if err := fn(&updated); err != nil {
		return domain.AccountRecord{}, err
	}
	updated.Identity = identity
	if err := updated.Validate(); err != nil {
		return domain.AccountRecord{}, err
	}
	if updated == current {
		return current, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE accounts SET public_code = $1, credit_balance = $2, city = $3, free_uses_consumed = $4 WHERE identity = $5`,
		string(updated.PublicCode), updated.CreditBalance, updated.City, updated.FreeUsesConsumed, int64(identity),
	)
	if err != nil {
		return domain.AccountRecord{}, translateWriteError("update account", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.AccountRecord{}, persistenceError("commit transaction", err)
	}

	return updated, nil
}

func scanRecord(row pgx.Row) (domain.AccountRecord, error) {
	var (
		identity int64
		code     string
		record   domain.AccountRecord
	)
	err := row.Scan(&identity, &code, &record.CreditBalance, &record.City, &record.FreeUsesConsumed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AccountRecord{}, domain.ErrAccountNotFound
		}
		return domain.AccountRecord{}, persistenceError("scan account", err)
	}

	record.Identity = domain.Identity(identity)
	record.PublicCode = domain.PublicCode(code)
	return record, nil
}

func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case primaryKeyName:
			return domain.ErrAccountExists
		case publicCodeKeyName:
			return domain.ErrPublicCodeTaken
		}
	}

	return persistenceError(op, err)
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
