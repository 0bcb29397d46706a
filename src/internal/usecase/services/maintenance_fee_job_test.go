package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/services"
)

func TestMaintenanceFeeJobChargesOncePerMonth(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	processor := services.NewMovementProcessor(store)
	job := services.NewMaintenanceFeeJob(store, processor, time.UTC)

	funded := seedAccount(t, store, domain.ProductCurrent, "20.00")
	short := seedAccount(t, store, domain.ProductCurrent, "2.00")
	savings := seedAccount(t, store, domain.ProductSavings, "50.00")
	frozen := seedAccount(t, store, domain.ProductCurrent, "50.00", func(a *domain.Account) {
		a.Status = domain.AccountStatusFrozen
	})
	closed := seedAccount(t, store, domain.ProductCurrent, "50.00")
	require.NoError(t, store.Close(ctx, closed.ID))

	summary, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.MaintenanceFeeSummary{Charged: 1, Skipped: 1}, summary)

	summary, err = job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.MaintenanceFeeSummary{Skipped: 2}, summary)

	stored, err := store.GetByID(ctx, funded.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("15.00")), "got %s", stored.Balance)

	movements, err := store.ListByAccountID(ctx, funded.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementCommission, movements[0].Kind)
	assert.Equal(t, fmt.Sprintf("MAINTENANCE FEE %s", time.Now().UTC().Format("2006-01")), movements[0].Reference)

	for _, id := range []string{short.ID, savings.ID, frozen.ID, closed.ID} {
		movements, err := store.ListByAccountID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, movements)
	}
}

func TestMaintenanceFeeJobOverlappingRunsChargeOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	processor := services.NewMovementProcessor(store)
	account := seedAccount(t, store, domain.ProductCurrent, "100.00")

	const runs = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		charged int
	)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := services.NewMaintenanceFeeJob(store, processor, time.UTC).Run(ctx)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			charged += summary.Charged
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, charged)

	movements, err := store.ListByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("95.00")), "got %s", stored.Balance)
}

func TestMaintenanceFeeJobStopsOnCancelledContext(t *testing.T) {
	store := memory.NewStore()
	job := services.NewMaintenanceFeeJob(store, services.NewMovementProcessor(store), nil)
	seedAccount(t, store, domain.ProductCurrent, "20.00")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
