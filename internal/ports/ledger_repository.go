package ports

import (
	"context"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

// LedgerRepository stores one AccountRecord per identity. Implementations
// must be safe for concurrent use and must never lose a record of one
// identity while writing another.
type LedgerRepository interface {
	Get(ctx context.Context, identity domain.Identity) (domain.AccountRecord, error)
	FindByPublicCode(ctx context.Context, code domain.PublicCode) (domain.AccountRecord, error)
	List(ctx context.Context) ([]domain.AccountRecord, error)
	// Create inserts record if neither its identity nor its public code is
	// present, returning domain.ErrAccountExists or domain.ErrPublicCodeTaken.
	Create(ctx context.Context, record domain.AccountRecord) error
	// Save upserts record, replacing only the stored state of its identity.
	Save(ctx context.Context, record domain.AccountRecord) error
	// Update runs fn against the current record of identity and persists the
	// result atomically with respect to other writers of the same store.
	Update(ctx context.Context, identity domain.Identity, fn func(*domain.AccountRecord) error) (domain.AccountRecord, error)
}
