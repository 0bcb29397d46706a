package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/services"
)

func TestCreditCardServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCreditCardService(memory.NewCreditCardRepository())

	created, err := svc.CreateCard(ctx, models.CreateCreditCardRequest{
		CardNumber:  "4111111111111111",
		CustomerID:  "c-personal-001",
		Type:        "PERSONAL",
		CreditLimit: dec("1000.00"),
	})
	require.NoError(t, err)
	card := *created.Data
	assert.Equal(t, "ACTIVE", card.Status)
	assert.Equal(t, "1000.00", card.Available)

	_, err = svc.CreateCard(ctx, models.CreateCreditCardRequest{
		CardNumber:  "4111111111111111",
		CustomerID:  "c-personal-002",
		Type:        "PERSONAL",
		CreditLimit: dec("500.00"),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateCardNumber)

	charged, err := svc.Charge(ctx, card.ID, models.AmountRequest{Amount: dec("400.00")})
	require.NoError(t, err)
	assert.Equal(t, "600.00", charged.Data.Available)

	_, err = svc.Charge(ctx, card.ID, models.AmountRequest{Amount: dec("600.01")})
	require.ErrorIs(t, err, domain.ErrInsufficientCredit)
	assert.Equal(t, domain.KindInsufficientFunds, domain.KindOf(err))

	paid, err := svc.Pay(ctx, card.ID, models.AmountRequest{Amount: dec("900.00")})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", paid.Data.Available, "payments never exceed the credit limit")

	listed, err := svc.ListCustomerCards(ctx, "c-personal-001")
	require.NoError(t, err)
	assert.Len(t, *listed.Data, 1)

	_, err = svc.GetCard(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
}

func TestCreditCardServiceValidation(t *testing.T) {
	svc := services.NewCreditCardService(memory.NewCreditCardRepository())

	_, err := svc.CreateCard(context.Background(), models.CreateCreditCardRequest{
		CardNumber:  "12ab",
		CustomerID:  "c-1",
		Type:        "CORPORATE",
		CreditLimit: dec("0"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoanServiceRules(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLoanService(memory.NewLoanRepository(), memory.NewCustomerDirectory())

	personal := models.CreateLoanRequest{
		CustomerID:         "c-personal-001",
		Type:               "PERSONAL",
		Principal:          dec("5000.00"),
		InterestRateAnnual: dec("0.18"),
		TermMonths:         24,
	}

	created, err := svc.CreateLoan(ctx, personal)
	require.NoError(t, err)
	assert.Equal(t, "5000.00", created.Data.Remaining)
	assert.Equal(t, "ACTIVE", created.Data.Status)
	assert.NotNil(t, created.Data.NextDueDate)

	_, err = svc.CreateLoan(ctx, personal)
	require.ErrorIs(t, err, domain.ErrDuplicateLoan)

	mismatched := personal
	mismatched.CustomerID = "c-business-001"
	resp, err := svc.CreateLoan(ctx, mismatched)
	require.ErrorIs(t, err, domain.ErrUnsupportedProduct)
	assert.Equal(t, []string{"Personal loan must belong to a PERSONAL customer"}, resp.Errors)

	business := personal
	business.CustomerID = "c-business-001"
	business.Type = "BUSINESS"
	for i := 0; i < 2; i++ {
		_, err = svc.CreateLoan(ctx, business)
		require.NoError(t, err, "business customers may hold several loans")
	}

	_, err = svc.CreateLoan(ctx, models.CreateLoanRequest{CustomerID: "nobody", Type: "PERSONAL", Principal: dec("1"), InterestRateAnnual: dec("0.1"), TermMonths: 1})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestLoanServicePaymentsCloseTheLoan(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLoanService(memory.NewLoanRepository(), memory.NewCustomerDirectory())

	created, err := svc.CreateLoan(ctx, models.CreateLoanRequest{
		CustomerID:         "c-personal-002",
		Type:               "PERSONAL",
		Principal:          dec("300.00"),
		InterestRateAnnual: dec("0.12"),
		TermMonths:         6,
	})
	require.NoError(t, err)
	id := created.Data.ID

	paid, err := svc.Pay(ctx, id, models.AmountRequest{Amount: dec("100.00")})
	require.NoError(t, err)
	assert.Equal(t, "200.00", paid.Data.Remaining)
	assert.Equal(t, "ACTIVE", paid.Data.Status)

	paid, err = svc.Pay(ctx, id, models.AmountRequest{Amount: dec("250.00")})
	require.NoError(t, err)
	assert.Equal(t, "0.00", paid.Data.Remaining)
	assert.Equal(t, "CLOSED", paid.Data.Status)

	listed, err := svc.ListCustomerLoans(ctx, "c-personal-002")
	require.NoError(t, err)
	assert.Len(t, *listed.Data, 1)

	_, err = svc.GetLoan(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}
