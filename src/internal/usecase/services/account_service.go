package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.AccountService = (*AccountService)(nil)

const openingBalanceReference = "OPENING BALANCE"

type AccountService struct {
	accountRepo  domain.AccountRepository
	movementRepo domain.MovementRepository
	directory    domain.CustomerDirectory
	rules        *AccountRules
	processor    *MovementProcessor
	location     *time.Location
	clock        func() time.Time
}

func NewAccountService(
	accountRepo domain.AccountRepository,
	movementRepo domain.MovementRepository,
	directory domain.CustomerDirectory,
	rules *AccountRules,
	processor *MovementProcessor,
	location *time.Location,
) *AccountService {
	if location == nil {
		location = time.UTC
	}
	return &AccountService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		directory:    directory,
		rules:        rules,
		processor:    processor,
		location:     location,
		clock:        time.Now,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.AccountResponse]("validation failed", verr), verr
	}

	customerID := strings.TrimSpace(req.CustomerID)
	customer, err := s.directory.GetCustomer(ctx, customerID)
	if err != nil {
		logger.Error("account service create account customer lookup failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.FailureResponse[models.AccountResponse]("failed to create account", err), err
	}

	account := domain.Account{
		ID:            uuid.NewString(),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		CustomerID:    customerID,
		Holders:       req.Holders,
		Signers:       req.AuthorizedSigners,
		ProductType:   domain.ProductType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Status:        domain.AccountStatusActive,
		Balance:       decimal.Zero,
	}
	if account.AccountNumber == "" {
		account.AccountNumber = generateAccountNumber()
	}
	if req.OpeningBalance != nil {
		account.Balance = *req.OpeningBalance
	}
	if req.MaintenanceFee != nil {
		account.MaintenanceFee = *req.MaintenanceFee
	}
	account.MonthlyMovementLimit = req.MonthlyMovementLimit
	account.FixedDay = req.FixedDayAllowed

	if err := s.rules.ValidateCreation(ctx, customer, &account); err != nil {
		logger.Error("account service create account rule check failed", err, logger.Fields{
			"customerId": customerID,
			"type":       account.ProductType,
		})
		return commons.FailureResponse[models.AccountResponse]("failed to create account", err), err
	}

	var opening *domain.AccountMovement
	if account.Balance.IsPositive() {
		now := s.clock().In(s.location)
		opening = &domain.AccountMovement{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			Date:      now,
			Kind:      domain.MovementDeposit,
			Amount:    account.Balance,
			Reference: openingBalanceReference,
		}
	}

	created, err := s.accountRepo.Create(ctx, account, opening)
	if err != nil {
		logger.Error("account service create account repository failed", err, logger.Fields{
			"customerId":    account.CustomerID,
			"accountNumber": account.AccountNumber,
		})
		return commons.FailureResponse[models.AccountResponse]("failed to create account", err), err
	}

	response := toAccountResponse(created)

	logger.Info("account service create account success", logger.Fields{
		"accountId":     response.ID,
		"accountNumber": response.AccountNumber,
		"customerId":    response.CustomerID,
		"type":          response.Type,
	})

	return commons.SuccessResponse("account created successfully", response), nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service get account request", logger.Fields{
		"accountId": accountID,
	})

	account, err := s.loadOpenAccount(ctx, accountID)
	if err != nil {
		return commons.FailureResponse[models.AccountResponse]("failed to get account", err), err
	}

	response := toAccountResponse(account)

	logger.Info("account service get account success", logger.Fields{
		"accountId":     response.ID,
		"accountNumber": response.AccountNumber,
	})

	return commons.SuccessResponse("account fetched successfully", response), nil
}

func (s *AccountService) ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	logger.Info("account service list accounts request", nil)

	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		logger.Error("account service list accounts failed", err, nil)
		return commons.FailureResponse[[]models.AccountResponse]("failed to list accounts", err), domain.Unavailable(err)
	}

	response := toAccountResponses(accounts)

	logger.Info("account service list accounts success", logger.Fields{
		"count": len(response),
	})

	return commons.SuccessResponse("accounts fetched successfully", response), nil
}

func (s *AccountService) ListCustomerAccounts(ctx context.Context, customerID string) (commons.Response[[]models.AccountResponse], error) {
	logger.Info("account service list customer accounts request", logger.Fields{
		"customerId": customerID,
	})

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		err := domain.Validation("customerId is required")
		return commons.FailureResponse[[]models.AccountResponse]("validation failed", err), err
	}

	accounts, err := s.accountRepo.ListByCustomerID(ctx, customerID)
	if err != nil {
		logger.Error("account service list customer accounts failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.FailureResponse[[]models.AccountResponse]("failed to list accounts", err), domain.Unavailable(err)
	}

	response := toAccountResponses(accounts)

	logger.Info("account service list customer accounts success", logger.Fields{
		"customerId": customerID,
		"count":      len(response),
	})

	return commons.SuccessResponse("accounts fetched successfully", response), nil
}

// DeleteAccount closes the account. Its movements are kept.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service delete account request", logger.Fields{
		"accountId": accountID,
	})

	account, err := s.loadOpenAccount(ctx, accountID)
	if err != nil {
		return commons.FailureResponse[models.AccountResponse]("failed to delete account", err), err
	}

	if err := s.accountRepo.Close(ctx, account.ID); err != nil {
		logger.Error("account service delete account failed", err, logger.Fields{
			"accountId": account.ID,
		})
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = domain.ErrAccountNotFound
		}
		return commons.FailureResponse[models.AccountResponse]("failed to delete account", err), err
	}
	account.Status = domain.AccountStatusClosed

	logger.Info("account service delete account success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return commons.SuccessResponse("account deleted successfully", toAccountResponse(account)), nil
}

func (s *AccountService) Deposit(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.MovementResponse], error) {
	return s.operate(ctx, "deposit", accountID, domain.MovementDeposit, req)
}

func (s *AccountService) Withdraw(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.MovementResponse], error) {
	return s.operate(ctx, "withdraw", accountID, domain.MovementWithdrawal, req)
}

func (s *AccountService) operate(ctx context.Context, action string, accountID string, kind domain.MovementKind, req models.AmountRequest) (commons.Response[models.MovementResponse], error) {
	logger.Info("account service "+action+" request", logger.Fields{
		"accountId": accountID,
		"payload":   logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service "+action+" validation failed", err, nil)
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.MovementResponse]("validation failed", verr), verr
	}

	amount := req.Amount
	if kind != domain.MovementDeposit {
		amount = amount.Neg()
	}

	movement, err := s.processor.Operate(ctx, accountID, kind, amount, req.Reference)
	if err != nil {
		return commons.FailureResponse[models.MovementResponse]("failed to "+action, err), err
	}

	response := toMovementResponse(movement)

	logger.Info("account service "+action+" success", logger.Fields{
		"accountId":  accountID,
		"movementId": response.ID,
		"amount":     response.Amount,
	})

	return commons.SuccessResponse(action+" recorded successfully", response), nil
}

func (s *AccountService) GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error) {
	logger.Info("account service get balance request", logger.Fields{
		"accountId": accountID,
	})

	account, err := s.loadOpenAccount(ctx, accountID)
	if err != nil {
		return commons.FailureResponse[models.BalanceResponse]("failed to get balance", err), err
	}

	response := models.BalanceResponse{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Type:          string(account.ProductType),
		Balance:       account.Balance.StringFixed(2),
	}

	logger.Info("account service get balance success", logger.Fields{
		"accountId": account.ID,
		"balance":   response.Balance,
	})

	return commons.SuccessResponse("balance fetched successfully", response), nil
}

// ListMovements returns the account's movements newest first, optionally
// restricted to a date range.
func (s *AccountService) ListMovements(ctx context.Context, accountID string, query models.DateRangeQuery) (commons.Response[[]models.MovementResponse], error) {
	logger.Info("account service list movements request", logger.Fields{
		"accountId": accountID,
		"payload":   logger.SanitizePayload(query),
	})

	account, err := s.loadOpenAccount(ctx, accountID)
	if err != nil {
		return commons.FailureResponse[[]models.MovementResponse]("failed to list movements", err), err
	}

	var movements []domain.AccountMovement
	if query.IsEmpty() {
		movements, err = s.movementRepo.ListByAccountID(ctx, account.ID)
	} else {
		from, to, perr := query.Parse(s.location)
		if perr != nil {
			verr := domain.Validation("%s", perr.Error())
			return commons.FailureResponse[[]models.MovementResponse]("validation failed", verr), verr
		}
		movements, err = s.movementRepo.ListByAccountIDAndDateRange(ctx, account.ID, from, to)
	}
	if err != nil {
		logger.Error("account service list movements failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.FailureResponse[[]models.MovementResponse]("failed to list movements", err), domain.Unavailable(err)
	}

	response := make([]models.MovementResponse, 0, len(movements))
	for _, m := range movements {
		response = append(response, toMovementResponse(m))
	}

	logger.Info("account service list movements success", logger.Fields{
		"accountId": account.ID,
		"count":     len(response),
	})

	return commons.SuccessResponse("movements fetched successfully", response), nil
}

// loadOpenAccount fetches an account, treating closed accounts as absent.
func (s *AccountService) loadOpenAccount(ctx context.Context, accountID string) (domain.Account, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domain.Account{}, domain.Validation("accountId is required")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account service load account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, domain.Unavailable(err)
	}
	if account.Status == domain.AccountStatusClosed {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func toAccountResponses(accounts []domain.Account) []models.AccountResponse {
	out := make([]models.AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		if acc.Status == domain.AccountStatusClosed {
			continue
		}
		out = append(out, toAccountResponse(acc))
	}
	return out
}

func toAccountResponse(account domain.Account) models.AccountResponse {
	holders := account.Holders
	if holders == nil {
		holders = []string{}
	}
	signers := account.Signers
	if signers == nil {
		signers = []string{}
	}

	return models.AccountResponse{
		ID:                   account.ID,
		CustomerID:           account.CustomerID,
		Type:                 string(account.ProductType),
		AccountNumber:        account.AccountNumber,
		Status:               string(account.Status),
		Balance:              account.Balance.StringFixed(2),
		Holders:              holders,
		AuthorizedSigners:    signers,
		MaintenanceFee:       account.MaintenanceFee.StringFixed(2),
		MonthlyMovementLimit: account.MonthlyMovementLimit,
		FixedDayAllowed:      account.FixedDay,
		CreatedAt:            account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            account.UpdatedAt.Format(time.RFC3339),
	}
}

func toMovementResponse(m domain.AccountMovement) models.MovementResponse {
	return models.MovementResponse{
		ID:        m.ID,
		AccountID: m.AccountID,
		Date:      m.Date.Format(time.RFC3339Nano),
		Type:      string(m.Kind),
		Amount:    m.Amount.StringFixed(2),
		Reference: m.Reference,
	}
}

func generateAccountNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000_000_000))
	if err != nil {
		return fmt.Sprintf("%010d", time.Now().UnixNano()%10_000_000_000)
	}
	return fmt.Sprintf("%010d", n.Int64())
}
