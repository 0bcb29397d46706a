package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CardStatus string

const (
	CardStatusActive   CardStatus = "ACTIVE"
	CardStatusBlocked  CardStatus = "BLOCKED"
	CardStatusCanceled CardStatus = "CANCELED"
)

type CreditCard struct {
	ID          string
	CardNumber  string
	CustomerID  string
	Type        CustomerType
	Status      CardStatus
	CreditLimit decimal.Decimal
	Available   decimal.Decimal
	ClosingDay  *int
	DueDay      *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreditCardRepository interface {
	Create(ctx context.Context, card CreditCard) (CreditCard, error)
	GetByID(ctx context.Context, id string) (CreditCard, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (CreditCard, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]CreditCard, error)
	// Charge lowers the available credit by amount. It returns
	// ErrInsufficientCredit when available credit is lower than amount.
	Charge(ctx context.Context, id string, amount decimal.Decimal) (CreditCard, error)
	// Pay raises the available credit by amount, capped at the credit limit.
	Pay(ctx context.Context, id string, amount decimal.Decimal) (CreditCard, error)
}
