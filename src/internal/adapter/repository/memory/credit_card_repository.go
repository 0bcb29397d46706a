package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

var _ domain.CreditCardRepository = (*CreditCardRepository)(nil)

type CreditCardRepository struct {
	mu    sync.Mutex
	cards map[string]domain.CreditCard
	clock func() time.Time
}

func NewCreditCardRepository() *CreditCardRepository {
	return &CreditCardRepository{
		cards: make(map[string]domain.CreditCard),
		clock: time.Now,
	}
}

func (r *CreditCardRepository) Create(_ context.Context, card domain.CreditCard) (domain.CreditCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.cards {
		if existing.CardNumber == card.CardNumber {
			return domain.CreditCard{}, domain.ErrDuplicateCardNumber
		}
	}

	now := r.clock()
	card.CreatedAt = now
	card.UpdatedAt = now
	r.cards[card.ID] = card
	return card, nil
}

func (r *CreditCardRepository) GetByID(_ context.Context, id string) (domain.CreditCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[id]
	if !ok {
		return domain.CreditCard{}, domain.ErrRecordNotFound
	}
	return card, nil
}

func (r *CreditCardRepository) GetByCardNumber(_ context.Context, cardNumber string) (domain.CreditCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, card := range r.cards {
		if card.CardNumber == cardNumber {
			return card, nil
		}
	}
	return domain.CreditCard{}, domain.ErrRecordNotFound
}

func (r *CreditCardRepository) ListByCustomerID(_ context.Context, customerID string) ([]domain.CreditCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.CreditCard, 0)
	for _, card := range r.cards {
		if card.CustomerID == customerID {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardNumber < out[j].CardNumber })
	return out, nil
}

func (r *CreditCardRepository) Charge(_ context.Context, id string, amount decimal.Decimal) (domain.CreditCard, error) {
	return r.update(id, func(card *domain.CreditCard) error {
		if card.Available.LessThan(amount) {
			return domain.ErrInsufficientCredit
		}
		card.Available = card.Available.Sub(amount)
		return nil
	})
}

func (r *CreditCardRepository) Pay(_ context.Context, id string, amount decimal.Decimal) (domain.CreditCard, error) {
	return r.update(id, func(card *domain.CreditCard) error {
		card.Available = decimal.Min(card.Available.Add(amount), card.CreditLimit)
		return nil
	})
}

func (r *CreditCardRepository) update(id string, apply func(*domain.CreditCard) error) (domain.CreditCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[id]
	if !ok {
		return domain.CreditCard{}, domain.ErrRecordNotFound
	}
	if err := apply(&card); err != nil {
		return domain.CreditCard{}, err
	}
	card.UpdatedAt = r.clock()
	r.cards[id] = card
	return card, nil
}
