package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/services"
)

func TestMovementProcessorDepositAndWithdraw(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "100.00")
	clock := newFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	publisher := &recordingPublisher{}
	observer := &recordingObserver{}
	processor := services.NewMovementProcessor(store,
		services.WithClock(clock.Now),
		services.WithEventPublisher(publisher),
		services.WithMovementObserver(observer),
	)

	deposit, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("50.25"), " salary ")
	require.NoError(t, err)
	assert.Equal(t, domain.MovementDeposit, deposit.Kind)
	assert.True(t, deposit.Amount.Equal(dec("50.25")))
	assert.Equal(t, "salary", deposit.Reference)
	assert.Equal(t, clock.Now(), deposit.Date)

	withdrawal, err := processor.Operate(ctx, account.ID, domain.MovementWithdrawal, dec("-30.00"), "")
	require.NoError(t, err)
	assert.True(t, withdrawal.Amount.Equal(dec("30")), "stored amount is unsigned")

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("120.25")), "got %s", stored.Balance)

	require.Len(t, publisher.events, 2)
	assert.True(t, publisher.events[1].Balance.Equal(dec("120.25")))
	assert.Equal(t, withdrawal.ID, publisher.events[1].MovementID)
	assert.Equal(t, []string{"committed", "committed"}, observer.outcomes)
}

func TestMovementProcessorRejectsInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "10.00")
	observer := &recordingObserver{}
	processor := services.NewMovementProcessor(store, services.WithMovementObserver(observer))

	_, err := processor.Operate(ctx, account.ID, domain.MovementWithdrawal, dec("-10.01"), "")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("10")))

	movements, err := store.ListByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
	assert.Equal(t, []string{"insufficient_funds"}, observer.outcomes)
}

func TestMovementProcessorAllowsWithdrawingToZero(t *testing.T) {
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "10.00")
	processor := services.NewMovementProcessor(store)

	_, err := processor.Operate(context.Background(), account.ID, domain.MovementWithdrawal, dec("-10.00"), "")
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero())
}

func TestMovementProcessorEnforcesSavingsMonthlyLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductSavings, "0", func(a *domain.Account) {
		a.MonthlyMovementLimit = intRef(2)
	})
	clock := newFakeClock(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	processor := services.NewMovementProcessor(store, services.WithClock(clock.Now))

	for i := 0; i < 2; i++ {
		_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("5"), "")
		require.NoError(t, err)
	}

	_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("5"), "")
	require.ErrorIs(t, err, domain.ErrMonthlyLimitExceeded)
	assert.Equal(t, domain.KindLimitExceeded, domain.KindOf(err))

	clock.Set(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	_, err = processor.Operate(ctx, account.ID, domain.MovementWithdrawal, dec("-5"), "")
	require.NoError(t, err, "the count restarts with the new month")
}

func TestMovementProcessorDefaultSavingsLimitIsTen(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductSavings, "0")
	processor := services.NewMovementProcessor(store)

	for i := 0; i < domain.DefaultSavingsMovementLimit; i++ {
		_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("1"), "")
		require.NoError(t, err)
	}
	_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("1"), "")
	assert.ErrorIs(t, err, domain.ErrMonthlyLimitExceeded)
}

func TestMovementProcessorCurrentAccountHasNoLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "0")
	processor := services.NewMovementProcessor(store)

	for i := 0; i < 25; i++ {
		_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("1"), "")
		require.NoError(t, err)
	}
}

func TestMovementProcessorFixedTermOperatingDay(t *testing.T) {
	tests := []struct {
		name     string
		fixedDay int
		now      time.Time
		allowed  bool
	}{
		{name: "default day", fixedDay: 25, now: time.Date(2026, 3, 25, 8, 0, 0, 0, time.UTC), allowed: true},
		{name: "other day", fixedDay: 25, now: time.Date(2026, 3, 24, 8, 0, 0, 0, time.UTC), allowed: false},
		{name: "day after in long month", fixedDay: 25, now: time.Date(2026, 3, 26, 8, 0, 0, 0, time.UTC), allowed: false},
		{name: "fits in february", fixedDay: 25, now: time.Date(2026, 2, 25, 8, 0, 0, 0, time.UTC), allowed: true},
		{name: "clamped to short month", fixedDay: 31, now: time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC), allowed: true},
		{name: "not clamped in long month", fixedDay: 31, now: time.Date(2026, 3, 30, 8, 0, 0, 0, time.UTC), allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			account := seedAccount(t, store, domain.ProductFixedTerm, "100", func(a *domain.Account) {
				a.FixedDay = intRef(tt.fixedDay)
			})
			processor := services.NewMovementProcessor(store, services.WithClock(func() time.Time { return tt.now }))

			_, err := processor.Operate(context.Background(), account.ID, domain.MovementWithdrawal, dec("-10"), "")
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrOutsideOperatingWindow)
			assert.Equal(t, domain.KindOperatingWindow, domain.KindOf(err))
		})
	}
}

func TestMovementProcessorFixedTermLimitIsNotEnforced(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductFixedTerm, "100")
	now := time.Date(2026, 3, 25, 8, 0, 0, 0, time.UTC)
	processor := services.NewMovementProcessor(store, services.WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("1"), "")
		require.NoError(t, err)
	}
}

func TestMovementProcessorUsesConfiguredLocation(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)

	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductFixedTerm, "100")
	// 2026-03-26 03:00 UTC is still the 25th in Lima.
	now := time.Date(2026, 3, 26, 3, 0, 0, 0, time.UTC)
	processor := services.NewMovementProcessor(store,
		services.WithClock(func() time.Time { return now }),
		services.WithLocation(lima),
	)

	_, err := processor.Operate(context.Background(), account.ID, domain.MovementDeposit, dec("1"), "")
	require.NoError(t, err)
}

func TestMovementProcessorRejectsInoperableAccounts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	frozen := seedAccount(t, store, domain.ProductCurrent, "10", func(a *domain.Account) {
		a.Status = domain.AccountStatusFrozen
	})
	closed := seedAccount(t, store, domain.ProductCurrent, "10")
	require.NoError(t, store.Close(ctx, closed.ID))
	processor := services.NewMovementProcessor(store)

	_, err := processor.Operate(ctx, frozen.ID, domain.MovementDeposit, dec("1"), "")
	assert.ErrorIs(t, err, domain.ErrAccountInactive)

	_, err = processor.Operate(ctx, closed.ID, domain.MovementDeposit, dec("1"), "")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = processor.Operate(ctx, "missing", domain.MovementDeposit, dec("1"), "")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMovementProcessorValidatesInput(t *testing.T) {
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "10")
	processor := services.NewMovementProcessor(store)

	tests := []struct {
		name      string
		accountID string
		kind      domain.MovementKind
		amount    decimal.Decimal
	}{
		{name: "missing account", accountID: " ", kind: domain.MovementDeposit, amount: dec("1")},
		{name: "zero amount", accountID: account.ID, kind: domain.MovementDeposit, amount: decimal.Zero},
		{name: "negative deposit", accountID: account.ID, kind: domain.MovementDeposit, amount: dec("-1")},
		{name: "positive withdrawal", accountID: account.ID, kind: domain.MovementWithdrawal, amount: dec("1")},
		{name: "positive commission", accountID: account.ID, kind: domain.MovementCommission, amount: dec("1")},
		{name: "unknown kind", accountID: account.ID, kind: "TRANSFER", amount: dec("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := processor.Operate(context.Background(), tt.accountID, tt.kind, tt.amount, "")
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestMovementProcessorSerializesConcurrentWithdrawals(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "100")
	processor := services.NewMovementProcessor(store)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := processor.Operate(ctx, account.ID, domain.MovementWithdrawal, dec("-10"), "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case domain.KindOf(err) == domain.KindInsufficientFunds:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, rejected)

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero(), "got %s", stored.Balance)

	movements, err := store.ListByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 10)
}

func TestMovementProcessorSerializesConcurrentMovementsAtLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	const limit = 3
	account := seedAccount(t, store, domain.ProductSavings, "0", func(a *domain.Account) {
		a.MonthlyMovementLimit = intRef(limit)
	})
	clock := newFakeClock(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	processor := services.NewMovementProcessor(store, services.WithClock(clock.Now))

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		limited   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("1"), "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrMonthlyLimitExceeded):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, succeeded)
	assert.Equal(t, workers-limit, limited)

	movements, err := store.ListByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, movements, limit)

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("3")), "got %s", stored.Balance)
}

func TestMovementProcessorOperateUniqueRejectsRepeatedReference(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "100")
	clock := newFakeClock(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	processor := services.NewMovementProcessor(store, services.WithClock(clock.Now))
	march, endOfMarch := domain.MonthBounds(clock.Now())

	_, err := processor.OperateUnique(ctx, account.ID, domain.MovementCommission, dec("-5"), "MAINTENANCE FEE 2026-03", march, endOfMarch)
	require.NoError(t, err)

	_, err = processor.OperateUnique(ctx, account.ID, domain.MovementCommission, dec("-5"), "maintenance fee 2026-03", march, endOfMarch)
	require.ErrorIs(t, err, domain.ErrMovementRecorded)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = processor.OperateUnique(ctx, account.ID, domain.MovementCommission, dec("-5"), " ", march, endOfMarch)
	assert.ErrorIs(t, err, domain.ErrValidation)

	clock.Set(time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC))
	april, endOfApril := domain.MonthBounds(clock.Now())
	_, err = processor.OperateUnique(ctx, account.ID, domain.MovementCommission, dec("-5"), "MAINTENANCE FEE 2026-03", april, endOfApril)
	require.NoError(t, err, "the window moves with the month")

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("90")), "got %s", stored.Balance)
}

func TestMovementProcessorRetriesConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "0")
	ledger := &conflictingLedger{LedgerStore: store, failures: 2}
	observer := &recordingObserver{}
	processor := services.NewMovementProcessor(ledger,
		services.WithMaxAttempts(3),
		services.WithMovementObserver(observer),
	)

	_, err := processor.Operate(ctx, account.ID, domain.MovementDeposit, dec("1"), "")
	require.NoError(t, err)
	assert.Equal(t, 3, ledger.calls)
	assert.Equal(t, 2, observer.conflicts)
}

func TestMovementProcessorGivesUpAfterMaxAttempts(t *testing.T) {
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "0")
	ledger := &conflictingLedger{LedgerStore: store, failures: 10}
	processor := services.NewMovementProcessor(ledger, services.WithMaxAttempts(2))

	_, err := processor.Operate(context.Background(), account.ID, domain.MovementDeposit, dec("1"), "")
	require.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	assert.Equal(t, 2, ledger.calls)
}

func TestMovementProcessorIgnoresPublishFailures(t *testing.T) {
	store := memory.NewStore()
	account := seedAccount(t, store, domain.ProductCurrent, "0")
	publisher := &recordingPublisher{err: assert.AnError}
	processor := services.NewMovementProcessor(store, services.WithEventPublisher(publisher))

	_, err := processor.Operate(context.Background(), account.ID, domain.MovementDeposit, dec("1"), "")
	require.NoError(t, err)
	assert.Len(t, publisher.events, 1)
}
