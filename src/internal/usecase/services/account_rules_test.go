package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/services"
)

var (
	personalCustomer = domain.Customer{ID: "c-1", Type: domain.CustomerPersonal}
	vipCustomer      = domain.Customer{ID: "c-vip", Type: domain.CustomerPersonal, SubType: domain.CustomerSubTypeVIP}
	businessCustomer = domain.Customer{ID: "b-1", Type: domain.CustomerBusiness}
	pymeCustomer     = domain.Customer{ID: "b-pyme", Type: domain.CustomerBusiness, SubType: domain.CustomerSubTypePYME}
)

func draftAccount(customer domain.Customer, product domain.ProductType, number string) domain.Account {
	return domain.Account{
		ID:            "acc-" + number,
		AccountNumber: number,
		CustomerID:    customer.ID,
		Holders:       []string{customer.ID},
		ProductType:   product,
		Status:        domain.AccountStatusActive,
	}
}

func TestAccountRulesRejectsInvalidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		customer domain.Customer
		account  func() domain.Account
		want     *domain.Error
	}{
		{
			name:     "vip current",
			customer: vipCustomer,
			account:  func() domain.Account { return draftAccount(vipCustomer, domain.ProductCurrent, "100001") },
			want:     domain.ErrUnsupportedProduct,
		},
		{
			name:     "vip fixed term",
			customer: vipCustomer,
			account:  func() domain.Account { return draftAccount(vipCustomer, domain.ProductFixedTerm, "100002") },
			want:     domain.ErrUnsupportedProduct,
		},
		{
			name:     "business savings",
			customer: businessCustomer,
			account:  func() domain.Account { return draftAccount(businessCustomer, domain.ProductSavings, "100003") },
			want:     domain.ErrUnsupportedProduct,
		},
		{
			name:     "pyme fixed term",
			customer: pymeCustomer,
			account:  func() domain.Account { return draftAccount(pymeCustomer, domain.ProductFixedTerm, "100004") },
			want:     domain.ErrUnsupportedProduct,
		},
		{
			name:     "personal without own holder",
			customer: personalCustomer,
			account: func() domain.Account {
				a := draftAccount(personalCustomer, domain.ProductSavings, "100005")
				a.Holders = []string{"someone-else"}
				return a
			},
			want: domain.ErrHolderRequired,
		},
		{
			name:     "business without own holder",
			customer: businessCustomer,
			account: func() domain.Account {
				a := draftAccount(businessCustomer, domain.ProductCurrent, "100006")
				a.Holders = nil
				return a
			},
			want: domain.ErrHolderRequired,
		},
		{
			name:     "holder also signer",
			customer: personalCustomer,
			account: func() domain.Account {
				a := draftAccount(personalCustomer, domain.ProductSavings, "100007")
				a.Holders = []string{personalCustomer.ID, "c-2"}
				a.Signers = []string{" c-2 "}
				return a
			},
			want: domain.ErrHolderSignerOverlap,
		},
		{
			name:     "negative opening balance",
			customer: personalCustomer,
			account: func() domain.Account {
				a := draftAccount(personalCustomer, domain.ProductSavings, "100008")
				a.Balance = dec("-1")
				return a
			},
			want: domain.ErrValidation,
		},
		{
			name:     "unknown product",
			customer: personalCustomer,
			account:  func() domain.Account { return draftAccount(personalCustomer, "BROKERAGE", "100009") },
			want:     domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := services.NewAccountRules(memory.NewStore())
			account := tt.account()

			err := rules.ValidateCreation(context.Background(), tt.customer, &account)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccountRulesRejectsSecondPersonalProductOfSameType(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rules := services.NewAccountRules(store)

	first := draftAccount(personalCustomer, domain.ProductSavings, "200001")
	require.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &first))
	_, err := store.Create(ctx, first, nil)
	require.NoError(t, err)

	second := draftAccount(personalCustomer, domain.ProductSavings, "200002")
	err = rules.ValidateCreation(ctx, personalCustomer, &second)
	require.ErrorIs(t, err, domain.ErrDuplicateProductType)

	current := draftAccount(personalCustomer, domain.ProductCurrent, "200003")
	require.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &current))

	fixed := draftAccount(personalCustomer, domain.ProductFixedTerm, "200004")
	require.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &fixed))

	require.NoError(t, store.Close(ctx, first.ID))
	again := draftAccount(personalCustomer, domain.ProductSavings, "200005")
	assert.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &again), "a closed account frees its product type")
}

func TestAccountRulesAllowsManyBusinessCurrentAccounts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rules := services.NewAccountRules(store)

	for _, number := range []string{"300001", "300002"} {
		account := draftAccount(businessCustomer, domain.ProductCurrent, number)
		require.NoError(t, rules.ValidateCreation(ctx, businessCustomer, &account))
		_, err := store.Create(ctx, account, nil)
		require.NoError(t, err)
	}
}

func TestAccountRulesRejectsDuplicateAccountNumber(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rules := services.NewAccountRules(store)

	existing := draftAccount(businessCustomer, domain.ProductCurrent, "400001")
	_, err := store.Create(ctx, existing, nil)
	require.NoError(t, err)

	candidate := draftAccount(personalCustomer, domain.ProductSavings, "400001")
	assert.ErrorIs(t, rules.ValidateCreation(ctx, personalCustomer, &candidate), domain.ErrDuplicateAccountNo)
}

func TestAccountRulesAppliesProductDefaults(t *testing.T) {
	ctx := context.Background()
	rules := services.NewAccountRules(memory.NewStore())

	savings := draftAccount(personalCustomer, domain.ProductSavings, "500001")
	savings.MaintenanceFee = dec("9.00")
	require.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &savings))
	require.NotNil(t, savings.MonthlyMovementLimit)
	assert.Equal(t, 10, *savings.MonthlyMovementLimit)
	assert.True(t, savings.MaintenanceFee.IsZero())
	assert.Nil(t, savings.FixedDay)
	assert.Equal(t, domain.CustomerPersonal, savings.CustomerType)

	custom := draftAccount(personalCustomer, domain.ProductSavings, "500002")
	custom.MonthlyMovementLimit = intRef(4)
	require.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &custom))
	assert.Equal(t, 4, *custom.MonthlyMovementLimit)

	current := draftAccount(personalCustomer, domain.ProductCurrent, "500003")
	require.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &current))
	assert.True(t, current.MaintenanceFee.Equal(dec("5.00")))
	assert.Nil(t, current.MonthlyMovementLimit)

	fixed := draftAccount(personalCustomer, domain.ProductFixedTerm, "500004")
	require.NoError(t, rules.ValidateCreation(ctx, personalCustomer, &fixed))
	require.NotNil(t, fixed.FixedDay)
	assert.Equal(t, 25, *fixed.FixedDay)
	require.NotNil(t, fixed.MonthlyMovementLimit)
	assert.Equal(t, 1, *fixed.MonthlyMovementLimit)
	assert.True(t, fixed.MaintenanceFee.IsZero())
}

func TestAccountRulesPymeCurrentHasNoFee(t *testing.T) {
	account := draftAccount(pymeCustomer, domain.ProductCurrent, "600001")
	account.MaintenanceFee = dec("12.00")

	err := services.NewAccountRules(memory.NewStore()).ValidateCreation(context.Background(), pymeCustomer, &account)
	require.NoError(t, err)
	assert.True(t, account.MaintenanceFee.IsZero())
}

func TestAccountRulesNormalizesHolderLists(t *testing.T) {
	account := draftAccount(personalCustomer, domain.ProductSavings, "700001")
	account.Holders = []string{" c-1 ", "c-2", "c-2", ""}
	account.Signers = []string{"c-3", " c-3"}

	err := services.NewAccountRules(memory.NewStore()).ValidateCreation(context.Background(), personalCustomer, &account)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, account.Holders)
	assert.Equal(t, []string{"c-3"}, account.Signers)
}
