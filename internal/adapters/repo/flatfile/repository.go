package flatfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	"github.com/spf13/viper"
)

const (
	ledgerPathKey       = "ledger.path"
	compactEveryKey     = "ledger.compact_every"
	defaultLedgerPath   = "users_database.txt"
	defaultCompactEvery = 256
	ledgerFileMode      = 0o600
	ledgerDirMode       = 0o700
	journalSuffix       = ".wal"
	tempFilePattern     = ".ledger-*.txt.tmp"
)

// Repository keeps the ledger in memory, appends one journal line per
// mutation and periodically folds the journal into the snapshot file. A
// ledger path must be opened by at most one Repository at a time.
type Repository struct {
	ledgerPath   string
	journalPath  string
	compactEvery int

	mu          sync.RWMutex
	records     map[domain.Identity]domain.AccountRecord
	codes       map[domain.PublicCode]domain.Identity
	journal     *os.File
	journalSize int64
	pending     int
	closed      bool
}

var _ ports.LedgerRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetDefault(ledgerPathKey, defaultLedgerPath)
	cfg.SetDefault(compactEveryKey, defaultCompactEvery)

	ledgerPath := cfg.GetString(ledgerPathKey)
	if ledgerPath == "" {
		return nil, errors.New("ledger path is empty")
	}
	ledgerPath, err := normalizeLedgerPath(ledgerPath)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		ledgerPath:   ledgerPath,
		journalPath:  ledgerPath + journalSuffix,
		compactEvery: cfg.GetInt(compactEveryKey),
		records:      map[domain.Identity]domain.AccountRecord{},
		codes:        map[domain.PublicCode]domain.Identity{},
	}

	if err := r.load(); err != nil {
		return nil, err
	}
	if err := r.openJournal(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Repository) Get(ctx context.Context, identity domain.Identity) (domain.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[identity]
	if !ok {
		return domain.AccountRecord{}, domain.ErrAccountNotFound
	}

	return record, nil
}

func (r *Repository) FindByPublicCode(ctx context.Context, code domain.PublicCode) (domain.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.codes[code]
	if !ok {
		return domain.AccountRecord{}, domain.ErrAccountNotFound
	}

	return r.records[identity], nil
}

func (r *Repository) List(ctx context.Context) ([]domain.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(), nil
}

func (r *Repository) Create(ctx context.Context, record domain.AccountRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.Identity]; ok {
		return domain.ErrAccountExists
	}
	if _, ok := r.codes[record.PublicCode]; ok {
		return domain.ErrPublicCodeTaken
	}

	return r.commitLocked(record)
}

func (r *Repository) Save(ctx context.Context, record domain.AccountRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.codes[record.PublicCode]; ok && owner != record.Identity {
		return domain.ErrPublicCodeTaken
	}

	return r.commitLocked(record)
}

func (r *Repository) Update(ctx context.Context, identity domain.Identity, fn func(*domain.AccountRecord) error) (domain.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[identity]
	if !ok {
		return domain.AccountRecord{}, domain.ErrAccountNotFound
	}

	updated := current
	if err := fn(&updated); err != nil {
		return domain.AccountRecord{}, err
	}
	updated.Identity = identity

	if err := updated.Validate(); err != nil {
		return domain.AccountRecord{}, err
	}
	if owner, ok := r.codes[updated.PublicCode]; ok && owner != identity {
		return domain.AccountRecord{}, domain.ErrPublicCodeTaken
	}
	if updated == current {
		return current, nil
	}

	if err := r.commitLocked(updated); err != nil {
		return domain.AccountRecord{}, err
	}

	return updated, nil
}

// Compact folds the journal into the snapshot file.
func (r *Repository) Compact(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.compactLocked()
}

func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	compactErr := r.compactLocked()
	if err := r.journal.Close(); err != nil {
		return errors.Join(compactErr, persistenceError("close ledger journal", err))
	}

	return compactErr
}

func (r *Repository) commitLocked(record domain.AccountRecord) error {
	if r.closed {
		return persistenceError("append ledger journal", os.ErrClosed)
	}

	line := formatRecord(record) + "\n"
	written, err := r.journal.WriteString(line)
	if err == nil {
		err = r.journal.Sync()
	}
	if err != nil {
		if written > 0 {
			if truncErr := r.journal.Truncate(r.journalSize); truncErr != nil {
				err = errors.Join(err, truncErr)
			}
		}
		return persistenceError("append ledger journal", err)
	}
	r.journalSize += int64(written)

	if previous, ok := r.records[record.Identity]; ok && previous.PublicCode != record.PublicCode {
		delete(r.codes, previous.PublicCode)
	}
	r.records[record.Identity] = record
	r.codes[record.PublicCode] = record.Identity
	r.pending++

	if r.compactEvery > 0 && r.pending >= r.compactEvery {
		// The journal already holds the record; a failed compaction is retried
		// on a later write or on Close.
		_ = r.compactLocked()
	}

	return nil
}

func (r *Repository) compactLocked() error {
	if r.pending == 0 {
		return nil
	}

	if err := r.writeSnapshot(r.sortedLocked()); err != nil {
		return err
	}
	if err := r.journal.Truncate(0); err != nil {
		return persistenceError("truncate ledger journal", err)
	}

	r.journalSize = 0
	r.pending = 0
	return nil
}

func (r *Repository) sortedLocked() []domain.AccountRecord {
	records := make([]domain.AccountRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Identity < records[j].Identity
	})

	return records
}

func (r *Repository) load() error {
	snapshot, err := readLines(r.ledgerPath, false)
	if err != nil {
		return err
	}
	for _, record := range snapshot {
		r.indexLoaded(record)
	}

	journal, err := readLines(r.journalPath, true)
	if err != nil {
		return err
	}
	for _, record := range journal {
		r.indexLoaded(record)
	}
	r.pending = len(journal)

	return nil
}

func (r *Repository) indexLoaded(record domain.AccountRecord) {
	if previous, ok := r.records[record.Identity]; ok {
		delete(r.codes, previous.PublicCode)
	}
	r.records[record.Identity] = record
	r.codes[record.PublicCode] = record.Identity
}

func (r *Repository) openJournal() error {
	if err := os.MkdirAll(filepath.Dir(r.journalPath), ledgerDirMode); err != nil {
		return persistenceError("create ledger directory", err)
	}

	journal, err := os.OpenFile(r.journalPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, ledgerFileMode)
	if err != nil {
		return persistenceError("open ledger journal", err)
	}

	info, err := journal.Stat()
	if err != nil {
		_ = journal.Close()
		return persistenceError("stat ledger journal", err)
	}

	r.journal = journal
	r.journalSize = info.Size()
	return nil
}

// readLines decodes one record per non-blank line. When tolerateTornTail is
// set, an undecodable final line without a trailing newline is dropped, as
// left behind by an interrupted journal append.
func readLines(path string, tolerateTornTail bool) ([]domain.AccountRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, persistenceError("read ledger file", err)
	}

	tornTail := len(data) > 0 && data[len(data)-1] != '\n'
	lines := make([]string, 0, bytes.Count(data, []byte{'\n'})+1)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, persistenceError("scan ledger file", err)
	}

	records := make([]domain.AccountRecord, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, fieldSeparator) {
			continue
		}

		record, err := parseRecord(line)
		if err != nil {
			if tolerateTornTail && tornTail && i == len(lines)-1 {
				break
			}
			return nil, persistenceError(fmt.Sprintf("decode %s line %d", filepath.Base(path), i+1), err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *Repository) writeSnapshot(records []domain.AccountRecord) error {
	var buf bytes.Buffer
	for _, record := range records {
		buf.WriteString(formatRecord(record))
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(r.ledgerPath), ledgerDirMode); err != nil {
		return persistenceError("create ledger directory", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.ledgerPath), tempFilePattern)
	if err != nil {
		return persistenceError("create temp ledger file", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(buf.Bytes()); err != nil {
		_ = tempFile.Close()
		return persistenceError("write temp ledger file", err)
	}

	if err := tempFile.Chmod(ledgerFileMode); err != nil {
		_ = tempFile.Close()
		return persistenceError("chmod temp ledger file", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return persistenceError("sync temp ledger file", err)
	}

	if err := tempFile.Close(); err != nil {
		return persistenceError("close temp ledger file", err)
	}

	if err := os.Rename(tempName, r.ledgerPath); err != nil {
		return persistenceError("replace ledger file", err)
	}

	cleanup = false
	return nil
}

func normalizeLedgerPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve ledger path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
