package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

var _ domain.MovementRepository = (*MovementRepository)(nil)

type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) ListByAccountID(ctx context.Context, accountID string) ([]domain.AccountMovement, error) {
	query := `SELECT ` + movementColumns + `
FROM account_movements
WHERE account_id = $1
ORDER BY movement_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("movement repository list by account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("list movements by account: %w", err)
	}

	movements, err := scanMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("scan movements by account: %w", err)
	}
	return movements, nil
}

func (r *MovementRepository) ListByAccountIDAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.AccountMovement, error) {
	query := `SELECT ` + movementColumns + `
FROM account_movements
WHERE account_id = $1
  AND movement_date BETWEEN $2 AND $3
ORDER BY movement_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID, from, to)
	if err != nil {
		logger.Error("movement repository list by account and range failed", err, logger.Fields{
			"accountId": accountID,
			"from":      from,
			"to":        to,
		})
		return nil, fmt.Errorf("list movements by account and date range: %w", err)
	}

	movements, err := scanMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("scan movements by account and date range: %w", err)
	}
	return movements, nil
}

func (r *MovementRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.AccountMovement, error) {
	query := `SELECT ` + movementColumns + `
FROM account_movements
WHERE movement_date BETWEEN $1 AND $2
ORDER BY movement_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		logger.Error("movement repository list by range failed", err, logger.Fields{
			"from": from,
			"to":   to,
		})
		return nil, fmt.Errorf("list movements by date range: %w", err)
	}

	movements, err := scanMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("scan movements by date range: %w", err)
	}
	return movements, nil
}

// insertMovement stores m stamped with m.CreatedAt, which callers set to the
// updated_at of the balance row written in the same transaction.
func insertMovement(ctx context.Context, tx *sql.Tx, m domain.AccountMovement) (domain.AccountMovement, error) {
	const query = `
INSERT INTO account_movements (
	id,
	account_id,
	movement_date,
	movement_type,
	amount,
	reference,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`

	if err := tx.QueryRowContext(
		ctx,
		query,
		m.ID,
		m.AccountID,
		m.Date,
		m.Kind,
		m.Amount,
		m.Reference,
		m.CreatedAt,
	).Scan(&m.CreatedAt); err != nil {
		return domain.AccountMovement{}, translateError(fmt.Errorf("insert movement: %w", err))
	}
	return m, nil
}
