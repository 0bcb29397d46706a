package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

// AccountRules validates account-open requests against the customer's type
// and sub-tier, and assigns the per-product operating defaults. It never writes.
type AccountRules struct {
	accountRepo domain.AccountRepository
}

func NewAccountRules(accountRepo domain.AccountRepository) *AccountRules {
	return &AccountRules{accountRepo: accountRepo}
}

// ValidateCreation checks account for customer and, on success, normalizes
// its holder and signer lists and applies the product defaults in place.
func (r *AccountRules) ValidateCreation(ctx context.Context, customer domain.Customer, account *domain.Account) error {
	account.CustomerID = strings.TrimSpace(account.CustomerID)
	if account.CustomerID == "" {
		return domain.Validation("customerId is required")
	}
	if account.ProductType == "" {
		return domain.Validation("account type is required")
	}
	policy, ok := domain.PolicyFor(account.ProductType)
	if !ok {
		return domain.Validation("unsupported account type %s", account.ProductType)
	}

	if account.Balance.IsNegative() {
		return domain.Validation("opening balance cannot be negative")
	}

	account.Holders = dedupe(account.Holders)
	account.Signers = dedupe(account.Signers)

	switch customer.Type {
	case domain.CustomerPersonal:
		if err := r.validatePersonal(ctx, customer, *account); err != nil {
			return err
		}
	case domain.CustomerBusiness:
		if err := validateBusiness(customer, *account); err != nil {
			return err
		}
	default:
		return domain.Validation("unsupported customer type %q", customer.Type)
	}

	if err := r.ensureAccountNumberAvailable(ctx, account.AccountNumber); err != nil {
		return err
	}

	account.CustomerType = customer.Type
	policy.ApplyDefaults(account)
	if customer.SubType == domain.CustomerSubTypePYME {
		account.MaintenanceFee = decimal.Zero
	}

	return nil
}

func (r *AccountRules) validatePersonal(ctx context.Context, customer domain.Customer, account domain.Account) error {
	if !account.HasHolder(account.CustomerID) {
		return domain.ErrHolderRequired.WithMessage("Personal accounts require the customer among the holders")
	}
	if overlaps(account.Holders, account.Signers) {
		return domain.ErrHolderSignerOverlap
	}
	if customer.SubType == domain.CustomerSubTypeVIP && account.ProductType != domain.ProductSavings {
		return domain.ErrUnsupportedProduct.WithMessage("VIP customers can only open SAVINGS accounts")
	}

	if account.ProductType != domain.ProductSavings && account.ProductType != domain.ProductCurrent {
		return nil
	}

	existing, err := r.accountRepo.ListByCustomerID(ctx, account.CustomerID)
	if err != nil {
		logger.Error("account rules existing accounts lookup failed", err, logger.Fields{
			"customerId": account.CustomerID,
		})
		return domain.Unavailable(err)
	}
	for _, acc := range existing {
		if acc.Status == domain.AccountStatusClosed {
			continue
		}
		if acc.ProductType == account.ProductType {
			return domain.ErrDuplicateProductType.WithMessage("Customer already has a %s account", account.ProductType)
		}
	}

	return nil
}

func validateBusiness(customer domain.Customer, account domain.Account) error {
	if account.ProductType != domain.ProductCurrent {
		if customer.SubType == domain.CustomerSubTypePYME {
			return domain.ErrUnsupportedProduct.WithMessage("PYME customers can only open CURRENT accounts")
		}
		return domain.ErrUnsupportedProduct.WithMessage("Business customers can only open CURRENT accounts")
	}
	if !account.HasHolder(account.CustomerID) {
		return domain.ErrHolderRequired.WithMessage("Business accounts require the business among the holders")
	}
	return nil
}

func (r *AccountRules) ensureAccountNumberAvailable(ctx context.Context, accountNumber string) error {
	if strings.TrimSpace(accountNumber) == "" {
		return domain.Validation("accountNumber is required")
	}

	_, err := r.accountRepo.GetByAccountNumber(ctx, accountNumber)
	switch {
	case err == nil:
		return domain.ErrDuplicateAccountNo
	case errors.Is(err, domain.ErrRecordNotFound):
		return nil
	default:
		logger.Error("account rules account number lookup failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Unavailable(err)
	}
}

// dedupe trims ids, drops blanks and keeps the first occurrence order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func overlaps(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
