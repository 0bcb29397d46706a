package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountRepository holds the account catalog. Closed accounts are returned
// by the lookups; callers decide whether to hide them.
type AccountRepository interface {
	// Create stores account and, when opening is not nil, its opening movement
	// in the same transaction.
	Create(ctx context.Context, account Account, opening *AccountMovement) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (Account, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]Account, error)
	ListByIDs(ctx context.Context, ids []string) ([]Account, error)
	ListAll(ctx context.Context) ([]Account, error)
	Close(ctx context.Context, id string) error
}

// MovementRepository reads the append-only ledger. Movements are only ever
// written through a LedgerTx.
type MovementRepository interface {
	ListByAccountID(ctx context.Context, accountID string) ([]AccountMovement, error)
	ListByAccountIDAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]AccountMovement, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]AccountMovement, error)
}

// LedgerTx is the view of one account inside a ledger unit of work. The
// account row stays locked until the unit of work returns.
type LedgerTx interface {
	Account() Account
	CountMovementsBetween(ctx context.Context, from, to time.Time) (int, error)
	// HasMovement reports whether a movement of kind carrying reference
	// (case-insensitive) is dated within [from, to].
	HasMovement(ctx context.Context, kind MovementKind, reference string, from, to time.Time) (bool, error)
	// ApplyMovement writes the new balance and appends movement atomically.
	// It fails with ErrConcurrentUpdate when the account changed since it was
	// loaded.
	ApplyMovement(ctx context.Context, newBalance decimal.Decimal, movement AccountMovement) (AccountMovement, error)
}

// LedgerStore serializes balance mutations per account.
type LedgerStore interface {
	WithinLedgerTx(ctx context.Context, accountID string, fn func(ctx context.Context, tx LedgerTx) error) error
}
