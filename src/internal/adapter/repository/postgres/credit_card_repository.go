package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

var _ domain.CreditCardRepository = (*CreditCardRepository)(nil)

const creditCardColumns = `id, card_number, customer_id, card_type, status, credit_limit, available,
	closing_day, due_day, created_at, updated_at`

type CreditCardRepository struct {
	db *sql.DB
}

func NewCreditCardRepository(db *sql.DB) *CreditCardRepository {
	return &CreditCardRepository{db: db}
}

func (r *CreditCardRepository) Create(ctx context.Context, card domain.CreditCard) (domain.CreditCard, error) {
	logger.Info("credit card repository create", logger.Fields{
		"cardId":     card.ID,
		"customerId": card.CustomerID,
	})

	const query = `
INSERT INTO credit_cards (
	id,
	card_number,
	customer_id,
	card_type,
	status,
	credit_limit,
	available,
	closing_day,
	due_day
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		card.ID,
		card.CardNumber,
		card.CustomerID,
		card.Type,
		card.Status,
		card.CreditLimit,
		card.Available,
		nullFromInt(card.ClosingDay),
		nullFromInt(card.DueDay),
	).Scan(&card.CreatedAt, &card.UpdatedAt); err != nil {
		logger.Error("credit card repository create failed", err, logger.Fields{
			"customerId": card.CustomerID,
		})
		return domain.CreditCard{}, translateError(fmt.Errorf("create credit card: %w", err))
	}

	return card, nil
}

func (r *CreditCardRepository) GetByID(ctx context.Context, id string) (domain.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *CreditCardRepository) GetByCardNumber(ctx context.Context, cardNumber string) (domain.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE card_number = $1`
	return r.getOne(ctx, query, cardNumber)
}

func (r *CreditCardRepository) getOne(ctx context.Context, query string, arg string) (domain.CreditCard, error) {
	card, err := scanCreditCard(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CreditCard{}, domain.ErrRecordNotFound
		}
		logger.Error("credit card repository get failed", err, nil)
		return domain.CreditCard{}, fmt.Errorf("get credit card: %w", err)
	}
	return card, nil
}

func (r *CreditCardRepository) ListByCustomerID(ctx context.Context, customerID string) ([]domain.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE customer_id = $1 ORDER BY card_number`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		logger.Error("credit card repository list failed", err, logger.Fields{
			"customerId": customerID,
		})
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	cards := make([]domain.CreditCard, 0)
	for rows.Next() {
		card, err := scanCreditCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *CreditCardRepository) Charge(ctx context.Context, id string, amount decimal.Decimal) (domain.CreditCard, error) {
	logger.Info("credit card repository charge", logger.Fields{
		"cardId": id,
		"amount": amount.String(),
	})

	query := `
UPDATE credit_cards
SET available = available - $2,
    updated_at = NOW()
WHERE id = $1
  AND available >= $2
RETURNING ` + creditCardColumns

	card, err := scanCreditCard(r.db.QueryRowContext(ctx, query, id, amount))
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("credit card repository charge failed", err, logger.Fields{
			"cardId": id,
		})
		return domain.CreditCard{}, translateError(fmt.Errorf("charge credit card: %w", err))
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return domain.CreditCard{}, getErr
	}
	return domain.CreditCard{}, domain.ErrInsufficientCredit
}

func (r *CreditCardRepository) Pay(ctx context.Context, id string, amount decimal.Decimal) (domain.CreditCard, error) {
	logger.Info("credit card repository pay", logger.Fields{
		"cardId": id,
		"amount": amount.String(),
	})

	query := `
UPDATE credit_cards
SET available = LEAST(available + $2, credit_limit),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + creditCardColumns

	card, err := scanCreditCard(r.db.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CreditCard{}, domain.ErrRecordNotFound
		}
		logger.Error("credit card repository pay failed", err, logger.Fields{
			"cardId": id,
		})
		return domain.CreditCard{}, translateError(fmt.Errorf("pay credit card: %w", err))
	}
	return card, nil
}

func scanCreditCard(row rowScanner) (domain.CreditCard, error) {
	var (
		card       domain.CreditCard
		closingDay sql.NullInt64
		dueDay     sql.NullInt64
	)
	if err := row.Scan(
		&card.ID,
		&card.CardNumber,
		&card.CustomerID,
		&card.Type,
		&card.Status,
		&card.CreditLimit,
		&card.Available,
		&closingDay,
		&dueDay,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return domain.CreditCard{}, err
	}
	card.ClosingDay = intFromNull(closingDay)
	card.DueDay = intFromNull(dueDay)
	return card, nil
}
