package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

const (
	pqUniqueViolation      = "23505"
	pqCheckViolation       = "23514"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

var uniqueConstraintErrors = map[string]*domain.Error{
	"uq_accounts_account_number":   domain.ErrDuplicateAccountNo,
	"ux_accounts_personal_product": domain.ErrDuplicateProductType,
	"uq_credit_cards_card_number":  domain.ErrDuplicateCardNumber,
	"ux_loans_personal_customer":   domain.ErrDuplicateLoan,
}

// translateError maps postgres constraint and concurrency failures to domain
// errors. Anything else is returned unchanged.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		if mapped, ok := uniqueConstraintErrors[pqErr.Constraint]; ok {
			return mapped.Wrap(err)
		}
	case pqCheckViolation:
		if pqErr.Constraint == "ck_accounts_balance" {
			return domain.ErrInsufficientFunds.Wrap(err)
		}
		if pqErr.Constraint == "ck_credit_cards_available" {
			return domain.ErrInsufficientCredit.Wrap(err)
		}
	case pqSerializationFailure, pqDeadlockDetected:
		return domain.ErrConcurrentUpdate.Wrap(err)
	}
	return err
}
