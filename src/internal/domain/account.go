package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductSavings   ProductType = "SAVINGS"
	ProductCurrent   ProductType = "CURRENT"
	ProductFixedTerm ProductType = "FIXED_TERM"
)

func (p ProductType) Valid() bool {
	_, ok := productPolicies[p]
	return ok
}

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account is a deposit account. Balance is only changed through the movement
// ledger and always equals the signed sum of its movements.
type Account struct {
	ID                   string
	AccountNumber        string
	CustomerID           string
	CustomerType         CustomerType
	Holders              []string
	Signers              []string
	ProductType          ProductType
	Status               AccountStatus
	Balance              decimal.Decimal
	MaintenanceFee       decimal.Decimal
	MonthlyMovementLimit *int
	FixedDay             *int
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// HasHolder reports whether customerID is one of the account holders.
func (a Account) HasHolder(customerID string) bool {
	for _, h := range a.Holders {
		if h == customerID {
			return true
		}
	}
	return false
}
