package service_interfaces

import (
	"context"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error)
	ListCustomerAccounts(ctx context.Context, customerID string) (commons.Response[[]models.AccountResponse], error)
	DeleteAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
	Deposit(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.MovementResponse], error)
	Withdraw(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.MovementResponse], error)
	GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error)
	ListMovements(ctx context.Context, accountID string, query models.DateRangeQuery) (commons.Response[[]models.MovementResponse], error)
}
