package models

import "github.com/shopspring/decimal"

type CreateLoanRequest struct {
	CustomerID         string          `json:"customerId" validate:"required"`
	Type               string          `json:"type" validate:"required,oneof=PERSONAL BUSINESS"`
	Principal          decimal.Decimal `json:"principal"`
	InterestRateAnnual decimal.Decimal `json:"interestRateAnnual"`
	TermMonths         int             `json:"termMonths" validate:"required,min=1,max=480"`
}

func (r CreateLoanRequest) Validate() error {
	errs := validationMessages(r)
	errs = requirePositive(errs, "principal", r.Principal)
	errs = requireCents(errs, "principal", &r.Principal)
	errs = requirePositive(errs, "interestRateAnnual", r.InterestRateAnnual)
	return joinErrors(errs)
}

type LoanResponse struct {
	ID                 string  `json:"id"`
	CustomerID         string  `json:"customerId"`
	Type               string  `json:"type"`
	Status             string  `json:"status"`
	Principal          string  `json:"principal"`
	Remaining          string  `json:"remaining"`
	InterestRateAnnual string  `json:"interestRateAnnual"`
	TermMonths         int     `json:"termMonths"`
	DisbursementDate   string  `json:"disbursementDate"`
	NextDueDate        *string `json:"nextDueDate,omitempty"`
}
