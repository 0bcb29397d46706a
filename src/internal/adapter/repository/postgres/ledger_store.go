package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

var _ domain.LedgerStore = (*LedgerStore)(nil)

// LedgerStore runs balance mutations inside a transaction that holds the
// account row lock (SELECT ... FOR UPDATE) until commit.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) WithinLedgerTx(ctx context.Context, accountID string, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(tx.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRecordNotFound
		}
		logger.Error("ledger store lock account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return translateError(fmt.Errorf("lock account: %w", err))
	}

	if err := fn(ctx, &ledgerTx{tx: tx, account: account}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("ledger store commit failed", err, logger.Fields{
			"accountId": accountID,
		})
		return translateError(fmt.Errorf("commit ledger tx: %w", err))
	}
	committed = true
	return nil
}

type ledgerTx struct {
	tx      *sql.Tx
	account domain.Account
}

func (t *ledgerTx) Account() domain.Account {
	return t.account
}

func (t *ledgerTx) CountMovementsBetween(ctx context.Context, from, to time.Time) (int, error) {
	const query = `
SELECT COUNT(1)
FROM account_movements
WHERE account_id = $1
  AND movement_date BETWEEN $2 AND $3`

	var count int
	if err := t.tx.QueryRowContext(ctx, query, t.account.ID, from, to).Scan(&count); err != nil {
		return 0, translateError(fmt.Errorf("count movements: %w", err))
	}
	return count, nil
}

func (t *ledgerTx) HasMovement(ctx context.Context, kind domain.MovementKind, reference string, from, to time.Time) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM account_movements
	WHERE account_id = $1
	  AND movement_type = $2
	  AND UPPER(reference) = UPPER($3)
	  AND movement_date BETWEEN $4 AND $5
)`

	var exists bool
	if err := t.tx.QueryRowContext(ctx, query, t.account.ID, kind, reference, from, to).Scan(&exists); err != nil {
		return false, translateError(fmt.Errorf("find movement by reference: %w", err))
	}
	return exists, nil
}

func (t *ledgerTx) ApplyMovement(ctx context.Context, newBalance decimal.Decimal, movement domain.AccountMovement) (domain.AccountMovement, error) {
	// clock_timestamp() is read under the row lock, so stamps grow with
	// commit order on the account.
	const query = `
UPDATE accounts
SET balance = $2,
    version = version + 1,
    updated_at = clock_timestamp()
WHERE id = $1
  AND version = $3
RETURNING updated_at`

	var updatedAt time.Time
	err := t.tx.QueryRowContext(ctx, query, t.account.ID, newBalance, t.account.Version).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AccountMovement{}, domain.ErrConcurrentUpdate
	}
	if err != nil {
		return domain.AccountMovement{}, translateError(fmt.Errorf("update balance: %w", err))
	}

	movement.AccountID = t.account.ID
	movement.CreatedAt = updatedAt
	saved, err := insertMovement(ctx, t.tx, movement)
	if err != nil {
		return domain.AccountMovement{}, err
	}

	t.account.Balance = newBalance
	t.account.Version++
	t.account.UpdatedAt = updatedAt
	return saved, nil
}
