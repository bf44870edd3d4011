package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
)

const (
	ledgerPathKey     = "ledger.path"
	defaultLedgerPath = "users.sqlite3"
	ledgerDirMode     = 0o700
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	identity           INTEGER PRIMARY KEY,
	public_code        TEXT    NOT NULL UNIQUE,
	credit_balance     INTEGER NOT NULL DEFAULT 0 CHECK (credit_balance >= 0),
	city               TEXT    NOT NULL DEFAULT 'unset',
	free_uses_consumed INTEGER NOT NULL DEFAULT 0 CHECK (free_uses_consumed >= 0)
);`

const selectColumns = `SELECT identity, public_code, credit_balance, city, free_uses_consumed FROM accounts`

// Repository stores the ledger in an embedded SQLite database. Writes go
// through a single connection, which serializes them.
type Repository struct {
	db *sql.DB
}

var _ ports.LedgerRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	cfg.SetDefault(ledgerPathKey, defaultLedgerPath)

	path := cfg.GetString(ledgerPathKey)
	if path == "" {
		return nil, errors.New("ledger path is empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve ledger path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), ledgerDirMode); err != nil {
		return nil, persistenceError("create ledger directory", err)
	}

	db, err := sql.Open("sqlite3", "file:"+absPath+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, persistenceError("open database", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, persistenceError("create tables", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Get(ctx context.Context, identity domain.Identity) (domain.AccountRecord, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE identity = ?`, int64(identity))
	return scanRecord(row)
}

func (r *Repository) FindByPublicCode(ctx context.Context, code domain.PublicCode) (domain.AccountRecord, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE public_code = ?`, string(code))
	return scanRecord(row)
}

func (r *Repository) List(ctx context.Context) ([]domain.AccountRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY identity`)
	if err != nil {
		return nil, persistenceError("list accounts", err)
	}
	defer func() { _ = rows.Close() }()

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

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (identity, public_code, credit_balance, city, free_uses_consumed) VALUES (?, ?, ?, ?, ?)`,
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

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (identity, public_code, credit_balance, city, free_uses_consumed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			public_code = excluded.public_code,
			credit_balance = excluded.credit_balance,
			city = excluded.city,
			free_uses_consumed = excluded.free_uses_consumed`,
		int64(record.Identity), string(record.PublicCode), record.CreditBalance, record.City, record.FreeUsesConsumed,
	)
	if err != nil {
		return translateWriteError("upsert account", err)
	}

	return nil
}

func (r *Repository) Update(ctx context.Context, identity domain.Identity, fn func(*domain.AccountRecord) error) (domain.AccountRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AccountRecord{}, persistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanRecord(tx.QueryRowContext(ctx, selectColumns+` WHERE identity = ?`, int64(identity)))
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

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET public_code = ?, credit_balance = ?, city = ?, free_uses_consumed = ? WHERE identity = ?`,
		string(updated.PublicCode), updated.CreditBalance, updated.City, updated.FreeUsesConsumed, int64(identity),
	)
	if err != nil {
		return domain.AccountRecord{}, translateWriteError("update account", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.AccountRecord{}, persistenceError("commit transaction", err)
	}

	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.AccountRecord, error) {
	var (
		identity int64
		code     string
		record   domain.AccountRecord
	)
	err := row.Scan(&identity, &code, &record.CreditBalance, &record.City, &record.FreeUsesConsumed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AccountRecord{}, domain.ErrAccountNotFound
		}
		return domain.AccountRecord{}, persistenceError("scan account", err)
	}

	record.Identity = domain.Identity(identity)
	record.PublicCode = domain.PublicCode(code)
	return record, nil
}

func translateWriteError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey:
			return domain.ErrAccountExists
		case sqlite3.ErrConstraintUnique:
			return domain.ErrPublicCodeTaken
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return persistenceError(op, err)
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
