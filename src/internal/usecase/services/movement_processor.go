package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

// MovementObserver receives the outcome of every processed movement.
type MovementObserver interface {
	ObserveMovement(kind domain.MovementKind, outcome string, amount decimal.Decimal)
	ObserveConflictRetry()
}

type MovementProcessorOption func(*MovementProcessor)

func WithClock(clock func() time.Time) MovementProcessorOption {
	return func(p *MovementProcessor) {
		p.clock = clock
	}
}

func WithLocation(loc *time.Location) MovementProcessorOption {
	return func(p *MovementProcessor) {
		if loc != nil {
			p.location = loc
		}
	}
}

func WithMaxAttempts(attempts int) MovementProcessorOption {
	return func(p *MovementProcessor) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
	}
}

func WithEventPublisher(publisher domain.EventPublisher) MovementProcessorOption {
	return func(p *MovementProcessor) {
		p.publisher = publisher
	}
}

func WithMovementObserver(observer MovementObserver) MovementProcessorOption {
	return func(p *MovementProcessor) {
		p.observer = observer
	}
}

// MovementProcessor applies deposits, withdrawals and commissions to an
// account. Each operation runs inside a ledger unit of work that holds the
// account exclusively, so the window, limit and balance checks and the
// write are one atomic step.
type MovementProcessor struct {
	ledger      domain.LedgerStore
	clock       func() time.Time
	location    *time.Location
	maxAttempts int
	publisher   domain.EventPublisher
	observer    MovementObserver
}

func NewMovementProcessor(ledger domain.LedgerStore, opts ...MovementProcessorOption) *MovementProcessor {
	p := &MovementProcessor{
		ledger:      ledger,
		clock:       time.Now,
		location:    time.UTC,
		maxAttempts: 3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Operate records a movement of signedAmount on the account. Deposits carry a
// positive amount; withdrawals and commissions a negative one.
func (p *MovementProcessor) Operate(ctx context.Context, accountID string, kind domain.MovementKind, signedAmount decimal.Decimal, reference string) (domain.AccountMovement, error) {
	return p.operate(ctx, accountID, kind, signedAmount, reference, nil)
}

// OperateUnique is Operate for movements that may be recorded once per
// window: it fails with ErrMovementRecorded when the account already holds a
// movement of kind with the same reference dated within [from, to]. The check
// runs under the account lock.
func (p *MovementProcessor) OperateUnique(ctx context.Context, accountID string, kind domain.MovementKind, signedAmount decimal.Decimal, reference string, from, to time.Time) (domain.AccountMovement, error) {
	if strings.TrimSpace(reference) == "" {
		return domain.AccountMovement{}, domain.Validation("reference is required")
	}
	return p.operate(ctx, accountID, kind, signedAmount, reference, &uniqueWindow{from: from, to: to})
}

type uniqueWindow struct {
	from, to time.Time
}

func (p *MovementProcessor) operate(ctx context.Context, accountID string, kind domain.MovementKind, signedAmount decimal.Decimal, reference string, unique *uniqueWindow) (domain.AccountMovement, error) {
	accountID = strings.TrimSpace(accountID)
	if err := validateOperation(accountID, kind, signedAmount); err != nil {
		return domain.AccountMovement{}, err
	}

	var (
		movement domain.AccountMovement
		balance  decimal.Decimal
		err      error
	)
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		movement, balance, err = p.operateOnce(ctx, accountID, kind, signedAmount, strings.TrimSpace(reference), unique)
		if !errors.Is(err, domain.ErrConcurrentUpdate) || attempt == p.maxAttempts {
			break
		}

		logger.Warn("movement processor concurrent update, retrying", logger.Fields{
			"accountId": accountID,
			"attempt":   attempt,
		})
		if p.observer != nil {
			p.observer.ObserveConflictRetry()
		}
	}

	if err != nil {
		p.observe(kind, outcomeOf(err), signedAmount)
		logger.Error("movement processor operate failed", err, logger.Fields{
			"accountId": accountID,
			"kind":      kind,
			"amount":    signedAmount.String(),
		})
		return domain.AccountMovement{}, err
	}

	p.observe(kind, "committed", signedAmount)
	logger.Info("movement processor operate success", logger.Fields{
		"accountId":  accountID,
		"movementId": movement.ID,
		"kind":       kind,
		"amount":     movement.Amount.String(),
		"balance":    balance.String(),
	})

	p.publish(ctx, movement, balance)
	return movement, nil
}

func (p *MovementProcessor) operateOnce(ctx context.Context, accountID string, kind domain.MovementKind, signedAmount decimal.Decimal, reference string, unique *uniqueWindow) (domain.AccountMovement, decimal.Decimal, error) {
	var (
		saved   domain.AccountMovement
		balance decimal.Decimal
	)

	err := p.ledger.WithinLedgerTx(ctx, accountID, func(ctx context.Context, tx domain.LedgerTx) error {
		account := tx.Account()
		if err := ensureOperable(account); err != nil {
			return err
		}

		if unique != nil {
			recorded, err := tx.HasMovement(ctx, kind, reference, unique.from, unique.to)
			if err != nil {
				return domain.Unavailable(err)
			}
			if recorded {
				return domain.ErrMovementRecorded
			}
		}

		policy, ok := domain.PolicyFor(account.ProductType)
		if !ok {
			return domain.Validation("unsupported account type %s", account.ProductType)
		}

		now := p.clock().In(p.location)
		if err := policy.CheckOperatingDay(account, now); err != nil {
			return err
		}

		if limit, ok := policy.LimitFor(account); ok {
			from, to := domain.MonthBounds(now)
			count, err := tx.CountMovementsBetween(ctx, from, to)
			if err != nil {
				return domain.Unavailable(err)
			}
			if count >= limit {
				return domain.ErrMonthlyLimitExceeded.WithMessage("Monthly movement limit of %d exceeded for %s", limit, account.ProductType)
			}
		}

		newBalance := account.Balance.Add(signedAmount)
		if newBalance.IsNegative() {
			return domain.ErrInsufficientFunds
		}

		movement := domain.AccountMovement{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			Date:      now,
			Kind:      kind,
			Amount:    signedAmount.Abs(),
			Reference: reference,
		}

		var err error
		saved, err = tx.ApplyMovement(ctx, newBalance, movement)
		if err != nil {
			return err
		}
		balance = newBalance
		return nil
	})

	switch {
	case err == nil:
		return saved, balance, nil
	case errors.Is(err, domain.ErrRecordNotFound):
		return domain.AccountMovement{}, decimal.Zero, domain.ErrAccountNotFound
	default:
		return domain.AccountMovement{}, decimal.Zero, domain.AsError(err)
	}
}

func (p *MovementProcessor) publish(ctx context.Context, movement domain.AccountMovement, balance decimal.Decimal) {
	if p.publisher == nil {
		return
	}

	event := domain.MovementRecordedEvent{
		MovementID: movement.ID,
		AccountID:  movement.AccountID,
		Kind:       movement.Kind,
		Amount:     movement.Amount,
		Balance:    balance,
		Reference:  movement.Reference,
		OccurredAt: movement.Date,
	}
	if err := p.publisher.PublishMovementRecorded(ctx, event); err != nil {
		logger.Error("movement processor publish event failed", err, logger.Fields{
			"accountId":  movement.AccountID,
			"movementId": movement.ID,
		})
	}
}

func (p *MovementProcessor) observe(kind domain.MovementKind, outcome string, amount decimal.Decimal) {
	if p.observer != nil {
		p.observer.ObserveMovement(kind, outcome, amount.Abs())
	}
}

func validateOperation(accountID string, kind domain.MovementKind, signedAmount decimal.Decimal) error {
	if accountID == "" {
		return domain.Validation("accountId is required")
	}
	if signedAmount.IsZero() {
		return domain.Validation("amount must be greater than zero")
	}

	switch kind {
	case domain.MovementDeposit:
		if signedAmount.IsNegative() {
			return domain.Validation("deposit amount must be positive")
		}
	case domain.MovementWithdrawal, domain.MovementCommission:
		if signedAmount.IsPositive() {
			return domain.Validation("%s amount must be negative", strings.ToLower(string(kind)))
		}
	default:
		return domain.Validation("unsupported movement type %q", kind)
	}
	return nil
}

func ensureOperable(account domain.Account) error {
	switch account.Status {
	case domain.AccountStatusActive:
		return nil
	case domain.AccountStatusClosed:
		return domain.ErrAccountNotFound
	default:
		return domain.ErrAccountInactive.WithMessage("Account is %s", strings.ToLower(string(account.Status)))
	}
}

func outcomeOf(err error) string {
	kind := domain.KindOf(err)
	if kind == "" {
		return "error"
	}
	return strings.ToLower(string(kind))
}
