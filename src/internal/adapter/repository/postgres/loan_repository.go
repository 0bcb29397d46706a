package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

var _ domain.LoanRepository = (*LoanRepository)(nil)

const loanColumns = `id, customer_id, loan_type, status, principal, remaining, interest_rate_annual,
	term_months, disbursement_date, next_due_date, created_at, updated_at`

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Create(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	logger.Info("loan repository create", logger.Fields{
		"loanId":     loan.ID,
		"customerId": loan.CustomerID,
		"type":       loan.Type,
	})

	const query = `
INSERT INTO loans (
	id,
	customer_id,
	loan_type,
	status,
	principal,
	remaining,
	interest_rate_annual,
	term_months,
	disbursement_date,
	next_due_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at, updated_at`

	var nextDue sql.NullTime
	if loan.NextDueDate != nil {
		nextDue = sql.NullTime{Time: *loan.NextDueDate, Valid: true}
	}

	if err := r.db.QueryRowContext(
		ctx,
		query,
		loan.ID,
		loan.CustomerID,
		loan.Type,
		loan.Status,
		loan.Principal,
		loan.Remaining,
		loan.InterestRateAnnual,
		loan.TermMonths,
		loan.DisbursementDate,
		nextDue,
	).Scan(&loan.CreatedAt, &loan.UpdatedAt); err != nil {
		logger.Error("loan repository create failed", err, logger.Fields{
			"customerId": loan.CustomerID,
		})
		return domain.Loan{}, translateError(fmt.Errorf("create loan: %w", err))
	}

	return loan, nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, domain.ErrRecordNotFound
		}
		logger.Error("loan repository get failed", err, logger.Fields{
			"loanId": id,
		})
		return domain.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) ListByCustomerID(ctx context.Context, customerID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY disbursement_date`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		logger.Error("loan repository list failed", err, logger.Fields{
			"customerId": customerID,
		})
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *LoanRepository) CountByCustomerIDAndType(ctx context.Context, customerID string, loanType domain.CustomerType) (int, error) {
	const query = `SELECT COUNT(1) FROM loans WHERE customer_id = $1 AND loan_type = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, customerID, loanType).Scan(&count); err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return count, nil
}

func (r *LoanRepository) ApplyPayment(ctx context.Context, id string, amount decimal.Decimal) (domain.Loan, error) {
	logger.Info("loan repository apply payment", logger.Fields{
		"loanId": id,
		"amount": amount.String(),
	})

	query := `
UPDATE loans
SET remaining = GREATEST(remaining - $2, 0),
    status = CASE WHEN remaining - $2 <= 0 THEN 'CLOSED' ELSE status END,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + loanColumns

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, domain.ErrRecordNotFound
		}
		logger.Error("loan repository apply payment failed", err, logger.Fields{
			"loanId": id,
		})
		return domain.Loan{}, fmt.Errorf("apply loan payment: %w", err)
	}
	return loan, nil
}

func scanLoan(row rowScanner) (domain.Loan, error) {
	var (
		loan    domain.Loan
		nextDue sql.NullTime
	)
	if err := row.Scan(
		&loan.ID,
		&loan.CustomerID,
		&loan.Type,
		&loan.Status,
		&loan.Principal,
		&loan.Remaining,
		&loan.InterestRateAnnual,
		&loan.TermMonths,
		&loan.DisbursementDate,
		&nextDue,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	); err != nil {
		return domain.Loan{}, err
	}
	if nextDue.Valid {
		t := nextDue.Time
		loan.NextDueDate = &t
	}
	return loan, nil
}
