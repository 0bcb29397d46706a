package postgres

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const accountColumns = `id, account_number, customer_id, customer_type, product_type, status,
	holders, authorized_signers, balance, maintenance_fee, monthly_movement_limit, fixed_day,
	version, created_at, updated_at`

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account  domain.Account
		limit    sql.NullInt64
		fixedDay sql.NullInt64
	)
	if err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.CustomerID,
		&account.CustomerType,
		&account.ProductType,
		&account.Status,
		pq.Array(&account.Holders),
		pq.Array(&account.Signers),
		&account.Balance,
		&account.MaintenanceFee,
		&limit,
		&fixedDay,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}
	account.MonthlyMovementLimit = intFromNull(limit)
	account.FixedDay = intFromNull(fixedDay)
	return account, nil
}

const movementColumns = `id, account_id, movement_date, movement_type, amount, reference, created_at`

func scanMovement(row rowScanner) (domain.AccountMovement, error) {
	var m domain.AccountMovement
	if err := row.Scan(
		&m.ID,
		&m.AccountID,
		&m.Date,
		&m.Kind,
		&m.Amount,
		&m.Reference,
		&m.CreatedAt,
	); err != nil {
		return domain.AccountMovement{}, err
	}
	return m, nil
}

func scanMovements(rows *sql.Rows) ([]domain.AccountMovement, error) {
	defer rows.Close()

	movements := make([]domain.AccountMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFromInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// textArray never encodes NULL; holder and signer columns are NOT NULL.
func textArray(values []string) any {
	if values == nil {
		values = []string{}
	}
	return pq.Array(values)
}
