package service_interfaces

import (
	"context"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
)

type LoanService interface {
	CreateLoan(ctx context.Context, req models.CreateLoanRequest) (commons.Response[models.LoanResponse], error)
	GetLoan(ctx context.Context, loanID string) (commons.Response[models.LoanResponse], error)
	ListCustomerLoans(ctx context.Context, customerID string) (commons.Response[[]models.LoanResponse], error)
	Pay(ctx context.Context, loanID string, req models.AmountRequest) (commons.Response[models.LoanResponse], error)
}
