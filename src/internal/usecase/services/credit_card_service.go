package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.CreditCardService = (*CreditCardService)(nil)

type CreditCardService struct {
	cardRepo domain.CreditCardRepository
}

func NewCreditCardService(cardRepo domain.CreditCardRepository) *CreditCardService {
	return &CreditCardService{cardRepo: cardRepo}
}

func (s *CreditCardService) CreateCard(ctx context.Context, req models.CreateCreditCardRequest) (commons.Response[models.CreditCardResponse], error) {
	logger.Info("credit card service create card request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("credit card service create card validation failed", err, nil)
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.CreditCardResponse]("validation failed", verr), verr
	}

	cardNumber := strings.TrimSpace(req.CardNumber)
	_, err := s.cardRepo.GetByCardNumber(ctx, cardNumber)
	switch {
	case err == nil:
		return commons.FailureResponse[models.CreditCardResponse]("failed to create card", domain.ErrDuplicateCardNumber), domain.ErrDuplicateCardNumber
	case !errors.Is(err, domain.ErrRecordNotFound):
		logger.Error("credit card service card number lookup failed", err, nil)
		return commons.FailureResponse[models.CreditCardResponse]("failed to create card", err), domain.Unavailable(err)
	}

	card := domain.CreditCard{
		ID:          uuid.NewString(),
		CardNumber:  cardNumber,
		CustomerID:  strings.TrimSpace(req.CustomerID),
		Type:        domain.CustomerType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Status:      domain.CardStatusActive,
		CreditLimit: req.CreditLimit,
		Available:   req.CreditLimit,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
	}

	created, err := s.cardRepo.Create(ctx, card)
	if err != nil {
		logger.Error("credit card service create card repository failed", err, logger.Fields{
			"customerId": card.CustomerID,
		})
		err = domain.AsError(err)
		return commons.FailureResponse[models.CreditCardResponse]("failed to create card", err), err
	}

	logger.Info("credit card service create card success", logger.Fields{
		"cardId":     created.ID,
		"customerId": created.CustomerID,
	})

	return commons.SuccessResponse("credit card created successfully", toCreditCardResponse(created)), nil
}

func (s *CreditCardService) GetCard(ctx context.Context, cardID string) (commons.Response[models.CreditCardResponse], error) {
	logger.Info("credit card service get card request", logger.Fields{
		"cardId": cardID,
	})

	card, err := s.cardRepo.GetByID(ctx, strings.TrimSpace(cardID))
	if err != nil {
		err = cardError(err)
		logger.Error("credit card service get card failed", err, logger.Fields{
			"cardId": cardID,
		})
		return commons.FailureResponse[models.CreditCardResponse]("failed to get card", err), err
	}

	return commons.SuccessResponse("credit card fetched successfully", toCreditCardResponse(card)), nil
}

func (s *CreditCardService) ListCustomerCards(ctx context.Context, customerID string) (commons.Response[[]models.CreditCardResponse], error) {
	logger.Info("credit card service list cards request", logger.Fields{
		"customerId": customerID,
	})

	cards, err := s.cardRepo.ListByCustomerID(ctx, strings.TrimSpace(customerID))
	if err != nil {
		logger.Error("credit card service list cards failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.FailureResponse[[]models.CreditCardResponse]("failed to list cards", err), domain.Unavailable(err)
	}

	response := make([]models.CreditCardResponse, 0, len(cards))
	for _, card := range cards {
		response = append(response, toCreditCardResponse(card))
	}

	return commons.SuccessResponse("credit cards fetched successfully", response), nil
}

func (s *CreditCardService) Charge(ctx context.Context, cardID string, req models.AmountRequest) (commons.Response[models.CreditCardResponse], error) {
	logger.Info("credit card service charge request", logger.Fields{
		"cardId":  cardID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.CreditCardResponse]("validation failed", verr), verr
	}

	card, err := s.cardRepo.Charge(ctx, strings.TrimSpace(cardID), req.Amount)
	if err != nil {
		err = cardError(err)
		logger.Error("credit card service charge failed", err, logger.Fields{
			"cardId": cardID,
			"amount": req.Amount.String(),
		})
		return commons.FailureResponse[models.CreditCardResponse]("failed to charge card", err), err
	}

	logger.Info("credit card service charge success", logger.Fields{
		"cardId":    card.ID,
		"available": card.Available.String(),
	})

	return commons.SuccessResponse("charge recorded successfully", toCreditCardResponse(card)), nil
}

func (s *CreditCardService) Pay(ctx context.Context, cardID string, req models.AmountRequest) (commons.Response[models.CreditCardResponse], error) {
	logger.Info("credit card service payment request", logger.Fields{
		"cardId":  cardID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.CreditCardResponse]("validation failed", verr), verr
	}

	card, err := s.cardRepo.Pay(ctx, strings.TrimSpace(cardID), req.Amount)
	if err != nil {
		err = cardError(err)
		logger.Error("credit card service payment failed", err, logger.Fields{
			"cardId": cardID,
		})
		return commons.FailureResponse[models.CreditCardResponse]("failed to pay card", err), err
	}

	logger.Info("credit card service payment success", logger.Fields{
		"cardId":    card.ID,
		"available": card.Available.String(),
	})

	return commons.SuccessResponse("payment recorded successfully", toCreditCardResponse(card)), nil
}

func cardError(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrCardNotFound
	}
	return domain.AsError(err)
}

func toCreditCardResponse(card domain.CreditCard) models.CreditCardResponse {
	return models.CreditCardResponse{
		ID:          card.ID,
		CardNumber:  card.CardNumber,
		CustomerID:  card.CustomerID,
		Type:        string(card.Type),
		Status:      string(card.Status),
		CreditLimit: card.CreditLimit.StringFixed(2),
		Available:   card.Available.StringFixed(2),
		ClosingDay:  card.ClosingDay,
		DueDay:      card.DueDay,
		CreatedAt:   card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   card.UpdatedAt.Format(time.RFC3339),
	}
}
