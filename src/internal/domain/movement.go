package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementKind string

const (
	MovementDeposit    MovementKind = "DEPOSIT"
	MovementWithdrawal MovementKind = "WITHDRAWAL"
	MovementCommission MovementKind = "COMMISSION"
)

func (k MovementKind) Valid() bool {
	switch k {
	case MovementDeposit, MovementWithdrawal, MovementCommission:
		return true
	default:
		return false
	}
}

// AccountMovement is an immutable ledger entry. Amount is the unsigned magnitude.
type AccountMovement struct {
	ID        string
	AccountID string
	Date      time.Time
	Kind      MovementKind
	Amount    decimal.Decimal
	Reference string
	CreatedAt time.Time
}

// Signed returns the movement's effect on the balance. Only deposits credit
// the account.
func (m AccountMovement) Signed() decimal.Decimal {
	if m.Kind == MovementDeposit {
		return m.Amount
	}
	return m.Amount.Neg()
}
