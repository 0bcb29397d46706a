package models

import "github.com/shopspring/decimal"

type CreateCreditCardRequest struct {
	CardNumber  string          `json:"cardNumber" validate:"required,numeric,min=12,max=19"`
	CustomerID  string          `json:"customerId" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=PERSONAL BUSINESS"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	ClosingDay  *int            `json:"closingDay,omitempty" validate:"omitempty,min=1,max=31"`
	DueDay      *int            `json:"dueDay,omitempty" validate:"omitempty,min=1,max=31"`
}

func (r CreateCreditCardRequest) Validate() error {
	errs := validationMessages(r)
	errs = requirePositive(errs, "creditLimit", r.CreditLimit)
	errs = requireCents(errs, "creditLimit", &r.CreditLimit)
	return joinErrors(errs)
}

type CreditCardResponse struct {
	ID          string `json:"id"`
	CardNumber  string `json:"cardNumber"`
	CustomerID  string `json:"customerId"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreditLimit string `json:"creditLimit"`
	Available   string `json:"available"`
	ClosingDay  *int   `json:"closingDay,omitempty"`
	DueDay      *int   `json:"dueDay,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
