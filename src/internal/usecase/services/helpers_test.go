package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

// fakeClock is a settable clock shared by the services under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intRef(v int) *int {
	return &v
}

// seedAccount stores an active account with the product defaults applied and
// no opening movement.
func seedAccount(t *testing.T, store *memory.Store, product domain.ProductType, balance string, mutate ...func(*domain.Account)) domain.Account {
	t.Helper()

	id := uuid.NewString()
	account := domain.Account{
		ID:            id,
		AccountNumber: id[:8],
		CustomerID:    "c-" + id[:8],
		CustomerType:  domain.CustomerPersonal,
		Holders:       []string{"c-" + id[:8]},
		ProductType:   product,
		Status:        domain.AccountStatusActive,
		Balance:       dec(balance),
	}
	policy, ok := domain.PolicyFor(product)
	require.True(t, ok)
	policy.ApplyDefaults(&account)
	for _, m := range mutate {
		m(&account)
	}

	created, err := store.Create(context.Background(), account, nil)
	require.NoError(t, err)
	return created
}

type recordingObserver struct {
	mu        sync.Mutex
	outcomes  []string
	conflicts int
}

func (o *recordingObserver) ObserveMovement(_ domain.MovementKind, outcome string, _ decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveConflictRetry() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conflicts++
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.MovementRecordedEvent
	err    error
}

func (p *recordingPublisher) PublishMovementRecorded(_ context.Context, event domain.MovementRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

// conflictingLedger fails the first failures units of work with a concurrent
// update before delegating to the wrapped store.
type conflictingLedger struct {
	domain.LedgerStore
	mu       sync.Mutex
	failures int
	calls    int
}

func (l *conflictingLedger) WithinLedgerTx(ctx context.Context, accountID string, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	l.mu.Lock()
	l.calls++
	fail := l.failures > 0
	if fail {
		l.failures--
	}
	l.mu.Unlock()

	if fail {
		return domain.ErrConcurrentUpdate
	}
	return l.LedgerStore.WithinLedgerTx(ctx, accountID, fn)
}

type directoryStub struct {
	customers map[string]domain.Customer
	err       error
}

func (d directoryStub) GetCustomer(_ context.Context, customerID string) (domain.Customer, error) {
	if d.err != nil {
		return domain.Customer{}, d.err
	}
	c, ok := d.customers[customerID]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}
