package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultSavingsMovementLimit   = 10
	DefaultFixedTermMovementLimit = 1
	DefaultFixedTermDay           = 25
)

var DefaultCurrentMaintenanceFee = decimal.RequireFromString("5.00")

// ProductPolicy holds the operating defaults and movement rules of a product type.
type ProductPolicy struct {
	// FeeFromRequest lets a caller-supplied positive fee override DefaultFee.
	FeeFromRequest bool
	DefaultFee     decimal.Decimal

	// DefaultLimit is nil for products with unlimited movements.
	DefaultLimit     *int
	LimitFromRequest bool
	// EnforceLimit turns on the monthly movement count check.
	EnforceLimit bool

	DefaultFixedDay *int
}

var productPolicies = map[ProductType]ProductPolicy{
	ProductSavings: {
		DefaultFee:       decimal.Zero,
		DefaultLimit:     intPtr(DefaultSavingsMovementLimit),
		LimitFromRequest: true,
		EnforceLimit:     true,
	},
	ProductCurrent: {
		FeeFromRequest: true,
		DefaultFee:     DefaultCurrentMaintenanceFee,
	},
	ProductFixedTerm: {
		DefaultFee:      decimal.Zero,
		DefaultLimit:    intPtr(DefaultFixedTermMovementLimit),
		DefaultFixedDay: intPtr(DefaultFixedTermDay),
	},
}

// PolicyFor returns the policy of p and whether p is a known product.
func PolicyFor(p ProductType) (ProductPolicy, bool) {
	policy, ok := productPolicies[p]
	return policy, ok
}

// ApplyDefaults fills fee, limit and fixed day on account from the
// caller-supplied values and the policy defaults.
func (p ProductPolicy) ApplyDefaults(account *Account) {
	fee := p.DefaultFee
	if p.FeeFromRequest && account.MaintenanceFee.GreaterThan(decimal.Zero) {
		fee = account.MaintenanceFee
	}
	account.MaintenanceFee = fee

	limit := copyInt(p.DefaultLimit)
	if p.LimitFromRequest && account.MonthlyMovementLimit != nil && *account.MonthlyMovementLimit > 0 {
		limit = copyInt(account.MonthlyMovementLimit)
	}
	account.MonthlyMovementLimit = limit

	if p.DefaultFixedDay == nil {
		account.FixedDay = nil
		return
	}
	if account.FixedDay == nil || *account.FixedDay < 1 || *account.FixedDay > 31 {
		account.FixedDay = copyInt(p.DefaultFixedDay)
	}
}

// CheckOperatingDay verifies that now falls on the account's allowed day. The
// allowed day is clamped to the last day of the current month.
func (p ProductPolicy) CheckOperatingDay(account Account, now time.Time) error {
	if p.DefaultFixedDay == nil {
		return nil
	}
	if account.FixedDay == nil {
		return ErrOutsideOperatingWindow.WithMessage("Fixed-term account has no operating day configured")
	}
	allowed := min(*account.FixedDay, DaysInMonth(now))
	if now.Day() != allowed {
		return ErrOutsideOperatingWindow.WithMessage("Fixed-term account allows operations only on day %d", allowed)
	}
	return nil
}

// LimitFor returns the monthly movement cap enforced on account, if any.
func (p ProductPolicy) LimitFor(account Account) (int, bool) {
	if !p.EnforceLimit || account.MonthlyMovementLimit == nil || *account.MonthlyMovementLimit <= 0 {
		return 0, false
	}
	return *account.MonthlyMovementLimit, true
}

// MonthBounds returns the first and last instant of the month containing t,
// in t's location.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}

func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func intPtr(v int) *int {
	return &v
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	return intPtr(*v)
}
