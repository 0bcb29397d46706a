package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

const maintenanceFeeReferencePrefix = "MAINTENANCE FEE"

type MaintenanceFeeSummary struct {
	Charged int
	Skipped int
	Failed  int
}

// MaintenanceFeeJob charges the monthly maintenance fee of every active
// account as a COMMISSION movement. An account is charged at most once per
// month, checked under the account lock, so reruns and overlapping runs skip
// accounts already carrying that month's fee.
type MaintenanceFeeJob struct {
	accountRepo domain.AccountRepository
	processor   *MovementProcessor
	location    *time.Location
	clock       func() time.Time
}

func NewMaintenanceFeeJob(accountRepo domain.AccountRepository, processor *MovementProcessor, location *time.Location) *MaintenanceFeeJob {
	if location == nil {
		location = time.UTC
	}
	return &MaintenanceFeeJob{
		accountRepo: accountRepo,
		processor:   processor,
		location:    location,
		clock:       time.Now,
	}
}

func (j *MaintenanceFeeJob) Run(ctx context.Context) (MaintenanceFeeSummary, error) {
	now := j.clock().In(j.location)
	reference := fmt.Sprintf("%s %s", maintenanceFeeReferencePrefix, now.Format("2006-01"))
	from, to := domain.MonthBounds(now)

	logger.Info("maintenance fee job started", logger.Fields{
		"reference": reference,
	})

	accounts, err := j.accountRepo.ListAll(ctx)
	if err != nil {
		logger.Error("maintenance fee job list accounts failed", err, nil)
		return MaintenanceFeeSummary{}, domain.Unavailable(err)
	}

	var summary MaintenanceFeeSummary
	for _, account := range accounts {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if !account.IsActive() || !account.MaintenanceFee.IsPositive() {
			continue
		}

		_, err := j.processor.OperateUnique(ctx, account.ID, domain.MovementCommission, account.MaintenanceFee.Neg(), reference, from, to)
		switch {
		case err == nil:
			summary.Charged++
		case errors.Is(err, domain.ErrMovementRecorded):
			summary.Skipped++
		case errors.Is(err, domain.ErrInsufficientFunds), domain.KindOf(err) == domain.KindOperatingWindow, domain.KindOf(err) == domain.KindLimitExceeded:
			summary.Skipped++
			logger.Warn("maintenance fee job skipped account", logger.Fields{
				"accountId": account.ID,
				"reason":    err.Error(),
			})
		default:
			summary.Failed++
		}
	}

	logger.Info("maintenance fee job finished", logger.Fields{
		"reference": reference,
		"charged":   summary.Charged,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	})

	return summary, nil
}
