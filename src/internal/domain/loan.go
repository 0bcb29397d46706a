package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusClosed    LoanStatus = "CLOSED"
	LoanStatusInArrears LoanStatus = "IN_ARREARS"
	LoanStatusCanceled  LoanStatus = "CANCELED"
)

type Loan struct {
	ID                 string
	CustomerID         string
	Type               CustomerType
	Status             LoanStatus
	Principal          decimal.Decimal
	Remaining          decimal.Decimal
	InterestRateAnnual decimal.Decimal
	TermMonths         int
	DisbursementDate   time.Time
	NextDueDate        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type LoanRepository interface {
	Create(ctx context.Context, loan Loan) (Loan, error)
	GetByID(ctx context.Context, id string) (Loan, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]Loan, error)
	CountByCustomerIDAndType(ctx context.Context, customerID string, loanType CustomerType) (int, error)
	// ApplyPayment lowers the remaining balance by amount, flooring at zero.
	// A loan reaching zero is closed.
	ApplyPayment(ctx context.Context, id string, amount decimal.Decimal) (Loan, error)
}
