package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

var _ domain.AccountRepository = (*AccountRepository)(nil)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account and its opening movement in one transaction.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account, opening *domain.AccountMovement) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId":     account.ID,
		"customerId":    account.CustomerID,
		"accountNumber": account.AccountNumber,
		"type":          account.ProductType,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("begin create account tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
INSERT INTO accounts (
	id,
	account_number,
	customer_id,
	customer_type,
	product_type,
	status,
	holders,
	authorized_signers,
	balance,
	maintenance_fee,
	monthly_movement_limit,
	fixed_day
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING version, created_at, updated_at`

	if err := tx.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.AccountNumber,
		account.CustomerID,
		account.CustomerType,
		account.ProductType,
		account.Status,
		textArray(account.Holders),
		textArray(account.Signers),
		account.Balance,
		account.MaintenanceFee,
		nullFromInt(account.MonthlyMovementLimit),
		nullFromInt(account.FixedDay),
	).Scan(&account.Version, &account.CreatedAt, &account.UpdatedAt); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"customerId":    account.CustomerID,
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, translateError(fmt.Errorf("create account: %w", err))
	}

	if opening != nil {
		entry := *opening
		entry.AccountID = account.ID
		entry.CreatedAt = account.UpdatedAt
		if _, err := insertMovement(ctx, tx, entry); err != nil {
			logger.Error("account repository create opening movement failed", err, logger.Fields{
				"accountId": account.ID,
			})
			return domain.Account{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Account{}, translateError(fmt.Errorf("commit create account: %w", err))
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, "id", id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.getOne(ctx, query, "accountNumber", accountNumber)
}

func (r *AccountRepository) getOne(ctx context.Context, query, field, value string) (domain.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				field: value,
			})
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			field: value,
		})
		return domain.Account{}, fmt.Errorf("get account by %s: %w", field, err)
	}
	return account, nil
}

func (r *AccountRepository) ListByCustomerID(ctx context.Context, customerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 ORDER BY created_at, id`
	return r.list(ctx, "list accounts by customer", query, customerID)
}

func (r *AccountRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Account, error) {
	if len(ids) == 0 {
		return []domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY created_at, id`
	return r.list(ctx, "list accounts by ids", query, pq.Array(ids))
}

func (r *AccountRepository) ListAll(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`
	return r.list(ctx, "list accounts", query)
}

func (r *AccountRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("account repository "+op+" failed", err, nil)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return accounts, nil
}

// Close soft-deletes the account. The version bump makes any ledger
// transaction that loaded the account before the close fail its check.
func (r *AccountRepository) Close(ctx context.Context, id string) error {
	logger.Info("account repository close", logger.Fields{
		"accountId": id,
	})

	const query = `
UPDATE accounts
SET status = 'CLOSED',
    version = version + 1,
    updated_at = clock_timestamp()
WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("account repository close failed", err, logger.Fields{
			"accountId": id,
		})
		return translateError(fmt.Errorf("close account: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("close account rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
