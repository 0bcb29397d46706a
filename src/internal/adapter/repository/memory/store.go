package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

var (
	_ domain.AccountRepository  = (*Store)(nil)
	_ domain.MovementRepository = (*Store)(nil)
	_ domain.LedgerStore        = (*Store)(nil)
)

// Store keeps accounts and their ledgers in memory. Balance changes on one
// account are serialized by a per-account lock.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	movements map[string][]domain.AccountMovement
	locks     map[string]*sync.Mutex
	clock     func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		movements: make(map[string][]domain.AccountMovement),
		locks:     make(map[string]*sync.Mutex),
		clock:     time.Now,
	}
}

func (s *Store) Create(_ context.Context, account domain.Account, opening *domain.AccountMovement) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return domain.Account{}, fmt.Errorf("create account: id %s already exists", account.ID)
	}
	for _, existing := range s.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, domain.ErrDuplicateAccountNo
		}
		if blocksProductType(existing, account) {
			return domain.Account{}, domain.ErrDuplicateProductType
		}
	}

	now := s.clock()
	account.Version = 1
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = cloneAccount(account)
	s.locks[account.ID] = &sync.Mutex{}

	if opening != nil {
		entry := *opening
		entry.AccountID = account.ID
		entry.CreatedAt = now
		s.movements[account.ID] = append(s.movements[account.ID], entry)
	}

	return cloneAccount(account), nil
}

// blocksProductType mirrors the partial unique index of the postgres schema:
// one open SAVINGS and one open CURRENT account per personal customer.
func blocksProductType(existing, candidate domain.Account) bool {
	if candidate.CustomerType != domain.CustomerPersonal || existing.CustomerType != domain.CustomerPersonal {
		return false
	}
	if candidate.ProductType != domain.ProductSavings && candidate.ProductType != domain.ProductCurrent {
		return false
	}
	return existing.Status != domain.AccountStatusClosed &&
		existing.CustomerID == candidate.CustomerID &&
		existing.ProductType == candidate.ProductType
}

func (s *Store) GetByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return cloneAccount(account), nil
}

func (s *Store) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.AccountNumber == accountNumber {
			return cloneAccount(account), nil
		}
	}
	return domain.Account{}, domain.ErrRecordNotFound
}

func (s *Store) ListByCustomerID(_ context.Context, customerID string) ([]domain.Account, error) {
	return s.filter(func(a domain.Account) bool { return a.CustomerID == customerID }), nil
}

func (s *Store) ListByIDs(_ context.Context, ids []string) ([]domain.Account, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return s.filter(func(a domain.Account) bool {
		_, ok := wanted[a.ID]
		return ok
	}), nil
}

func (s *Store) ListAll(_ context.Context) ([]domain.Account, error) {
	return s.filter(func(domain.Account) bool { return true }), nil
}

func (s *Store) filter(keep func(domain.Account) bool) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if keep(account) {
			out = append(out, cloneAccount(account))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) Close(_ context.Context, id string) error {
	lock := s.lockFor(id)
	if lock == nil {
		return domain.ErrRecordNotFound
	}
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	account.Status = domain.AccountStatusClosed
	account.Version++
	account.UpdatedAt = s.clock()
	s.accounts[id] = account
	return nil
}

func (s *Store) ListByAccountID(_ context.Context, accountID string) ([]domain.AccountMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.AccountMovement(nil), s.movements[accountID]...)
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListByAccountIDAndDateRange(_ context.Context, accountID string, from, to time.Time) ([]domain.AccountMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AccountMovement, 0)
	for _, m := range s.movements[accountID] {
		if inRange(m.Date, from, to) {
			out = append(out, m)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListByDateRange(_ context.Context, from, to time.Time) ([]domain.AccountMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AccountMovement, 0)
	for _, ledger := range s.movements {
		for _, m := range ledger {
			if inRange(m.Date, from, to) {
				out = append(out, m)
			}
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// WithinLedgerTx holds the account lock for the duration of fn. Writes made
// through tx become visible only when fn returns nil.
func (s *Store) WithinLedgerTx(ctx context.Context, accountID string, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	lock := s.lockFor(accountID)
	if lock == nil {
		return domain.ErrRecordNotFound
	}
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Unavailable(err)
	}

	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	tx := &ledgerTx{store: s, account: account}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if tx.pending == nil {
		return nil
	}
	return s.commit(tx)
}

func (s *Store) commit(tx *ledgerTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[tx.account.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if current.Version != tx.account.Version {
		return domain.ErrConcurrentUpdate
	}

	now := s.clock()
	current.Balance = tx.newBalance
	current.Version++
	current.UpdatedAt = now
	s.accounts[current.ID] = current

	movement := *tx.pending
	movement.CreatedAt = now
	s.movements[current.ID] = append(s.movements[current.ID], movement)
	return nil
}

func (s *Store) lockFor(accountID string) *sync.Mutex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locks[accountID]
}

type ledgerTx struct {
	store      *Store
	account    domain.Account
	newBalance decimal.Decimal
	pending    *domain.AccountMovement
}

func (t *ledgerTx) Account() domain.Account {
	return cloneAccount(t.account)
}

func (t *ledgerTx) CountMovementsBetween(_ context.Context, from, to time.Time) (int, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	count := 0
	for _, m := range t.store.movements[t.account.ID] {
		if inRange(m.Date, from, to) {
			count++
		}
	}
	return count, nil
}

func (t *ledgerTx) HasMovement(_ context.Context, kind domain.MovementKind, reference string, from, to time.Time) (bool, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	for _, m := range t.store.movements[t.account.ID] {
		if m.Kind == kind && strings.EqualFold(m.Reference, reference) && inRange(m.Date, from, to) {
			return true, nil
		}
	}
	return false, nil
}

func (t *ledgerTx) ApplyMovement(_ context.Context, newBalance decimal.Decimal, movement domain.AccountMovement) (domain.AccountMovement, error) {
	if t.pending != nil {
		return domain.AccountMovement{}, domain.ErrConcurrentUpdate.WithMessage("one movement per ledger transaction")
	}
	movement.AccountID = t.account.ID
	movement.CreatedAt = t.store.clock()
	t.newBalance = newBalance
	t.pending = &movement
	return movement, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func sortNewestFirst(movements []domain.AccountMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.After(movements[j].Date)
	})
}

func cloneAccount(a domain.Account) domain.Account {
	a.Holders = append([]string(nil), a.Holders...)
	a.Signers = append([]string(nil), a.Signers...)
	if a.MonthlyMovementLimit != nil {
		v := *a.MonthlyMovementLimit
		a.MonthlyMovementLimit = &v
	}
	if a.FixedDay != nil {
		v := *a.FixedDay
		a.FixedDay = &v
	}
	return a
}
