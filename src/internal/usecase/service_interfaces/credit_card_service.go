package service_interfaces

import (
	"context"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
)

type CreditCardService interface {
	CreateCard(ctx context.Context, req models.CreateCreditCardRequest) (commons.Response[models.CreditCardResponse], error)
	GetCard(ctx context.Context, cardID string) (commons.Response[models.CreditCardResponse], error)
	ListCustomerCards(ctx context.Context, customerID string) (commons.Response[[]models.CreditCardResponse], error)
	Charge(ctx context.Context, cardID string, req models.AmountRequest) (commons.Response[models.CreditCardResponse], error)
	Pay(ctx context.Context, cardID string, req models.AmountRequest) (commons.Response[models.CreditCardResponse], error)
}
