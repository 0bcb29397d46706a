package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

var _ domain.LoanRepository = (*LoanRepository)(nil)

type LoanRepository struct {
	mu    sync.Mutex
	loans map[string]domain.Loan
	clock func() time.Time
}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{
		loans: make(map[string]domain.Loan),
		clock: time.Now,
	}
}

func (r *LoanRepository) Create(_ context.Context, loan domain.Loan) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if loan.Type == domain.CustomerPersonal {
		for _, existing := range r.loans {
			if existing.CustomerID == loan.CustomerID && existing.Type == domain.CustomerPersonal {
				return domain.Loan{}, domain.ErrDuplicateLoan
			}
		}
	}

	now := r.clock()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	r.loans[loan.ID] = loan
	return loan, nil
}

func (r *LoanRepository) GetByID(_ context.Context, id string) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[id]
	if !ok {
		return domain.Loan{}, domain.ErrRecordNotFound
	}
	return loan, nil
}

func (r *LoanRepository) ListByCustomerID(_ context.Context, customerID string) ([]domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Loan, 0)
	for _, loan := range r.loans {
		if loan.CustomerID == customerID {
			out = append(out, loan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisbursementDate.Before(out[j].DisbursementDate) })
	return out, nil
}

func (r *LoanRepository) CountByCustomerIDAndType(_ context.Context, customerID string, loanType domain.CustomerType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, loan := range r.loans {
		if loan.CustomerID == customerID && loan.Type == loanType {
			count++
		}
	}
	return count, nil
}

func (r *LoanRepository) ApplyPayment(_ context.Context, id string, amount decimal.Decimal) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[id]
	if !ok {
		return domain.Loan{}, domain.ErrRecordNotFound
	}
	loan.Remaining = decimal.Max(loan.Remaining.Sub(amount), decimal.Zero)
	if loan.Remaining.IsZero() {
		loan.Status = domain.LoanStatusClosed
	}
	loan.UpdatedAt = r.clock()
	r.loans[id] = loan
	return loan, nil
}
