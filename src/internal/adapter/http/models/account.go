package models

import (
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	CustomerID           string           `json:"customerId" validate:"required"`
	Type                 string           `json:"type" validate:"required,oneof=SAVINGS CURRENT FIXED_TERM"`
	AccountNumber        string           `json:"accountNumber,omitempty" validate:"omitempty,numeric,min=6,max=20"`
	Holders              []string         `json:"holders,omitempty"`
	AuthorizedSigners    []string         `json:"authorizedSigners,omitempty"`
	OpeningBalance       *decimal.Decimal `json:"openingBalance,omitempty"`
	MaintenanceFee       *decimal.Decimal `json:"maintenanceFee,omitempty"`
	MonthlyMovementLimit *int             `json:"monthlyMovementLimit,omitempty" validate:"omitempty,min=1"`
	FixedDayAllowed      *int             `json:"fixedDayAllowed,omitempty" validate:"omitempty,min=1,max=31"`
}

func (r CreateAccountRequest) Validate() error {
	errs := validationMessages(r)
	errs = requireNonNegative(errs, "openingBalance", r.OpeningBalance)
	errs = requireNonNegative(errs, "maintenanceFee", r.MaintenanceFee)
	errs = requireCents(errs, "openingBalance", r.OpeningBalance)
	errs = requireCents(errs, "maintenanceFee", r.MaintenanceFee)
	return joinErrors(errs)
}

type AccountResponse struct {
	ID                   string   `json:"id"`
	CustomerID           string   `json:"customerId"`
	Type                 string   `json:"type"`
	AccountNumber        string   `json:"accountNumber"`
	Status               string   `json:"status"`
	Balance              string   `json:"balance"`
	Holders              []string `json:"holders"`
	AuthorizedSigners    []string `json:"authorizedSigners"`
	MaintenanceFee       string   `json:"maintenanceFee"`
	MonthlyMovementLimit *int     `json:"monthlyMovementLimit,omitempty"`
	FixedDayAllowed      *int     `json:"fixedDayAllowed,omitempty"`
	CreatedAt            string   `json:"createdAt"`
	UpdatedAt            string   `json:"updatedAt"`
}

type AmountRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty" validate:"max=140"`
}

func (r AmountRequest) Validate() error {
	errs := validationMessages(r)
	errs = requirePositive(errs, "amount", r.Amount)
	errs = requireCents(errs, "amount", &r.Amount)
	return joinErrors(errs)
}

type MovementResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

type BalanceResponse struct {
	AccountID     string `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	Type          string `json:"type"`
	Balance       string `json:"balance"`
}
