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

var _ service_interfaces.LoanService = (*LoanService)(nil)

type LoanService struct {
	loanRepo  domain.LoanRepository
	directory domain.CustomerDirectory
	clock     func() time.Time
}

func NewLoanService(loanRepo domain.LoanRepository, directory domain.CustomerDirectory) *LoanService {
	return &LoanService{loanRepo: loanRepo, directory: directory, clock: time.Now}
}

// CreateLoan disburses a loan. A personal loan needs a PERSONAL customer
// holding no other personal loan; a business loan needs a BUSINESS customer.
func (s *LoanService) CreateLoan(ctx context.Context, req models.CreateLoanRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service create loan request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("loan service create loan validation failed", err, nil)
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.LoanResponse]("validation failed", verr), verr
	}

	customerID := strings.TrimSpace(req.CustomerID)
	loanType := domain.CustomerType(strings.ToUpper(strings.TrimSpace(req.Type)))

	customer, err := s.directory.GetCustomer(ctx, customerID)
	if err != nil {
		logger.Error("loan service customer lookup failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.FailureResponse[models.LoanResponse]("failed to create loan", err), err
	}

	if customer.Type != loanType {
		err := domain.ErrUnsupportedProduct.WithMessage("%s loan must belong to a %s customer", loanTypeLabel(loanType), loanType)
		return commons.FailureResponse[models.LoanResponse]("failed to create loan", err), err
	}

	if loanType == domain.CustomerPersonal {
		count, err := s.loanRepo.CountByCustomerIDAndType(ctx, customerID, domain.CustomerPersonal)
		if err != nil {
			logger.Error("loan service count personal loans failed", err, logger.Fields{
				"customerId": customerID,
			})
			return commons.FailureResponse[models.LoanResponse]("failed to create loan", err), domain.Unavailable(err)
		}
		if count > 0 {
			return commons.FailureResponse[models.LoanResponse]("failed to create loan", domain.ErrDuplicateLoan), domain.ErrDuplicateLoan
		}
	}

	now := s.clock()
	nextDue := now.AddDate(0, 1, 0)
	loan := domain.Loan{
		ID:                 uuid.NewString(),
		CustomerID:         customerID,
		Type:               loanType,
		Status:             domain.LoanStatusActive,
		Principal:          req.Principal,
		Remaining:          req.Principal,
		InterestRateAnnual: req.InterestRateAnnual,
		TermMonths:         req.TermMonths,
		DisbursementDate:   now,
		NextDueDate:        &nextDue,
	}

	created, err := s.loanRepo.Create(ctx, loan)
	if err != nil {
		logger.Error("loan service create loan repository failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.FailureResponse[models.LoanResponse]("failed to create loan", err), domain.AsError(err)
	}

	logger.Info("loan service create loan success", logger.Fields{
		"loanId":     created.ID,
		"customerId": created.CustomerID,
	})

	return commons.SuccessResponse("loan created successfully", toLoanResponse(created)), nil
}

func (s *LoanService) GetLoan(ctx context.Context, loanID string) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service get loan request", logger.Fields{
		"loanId": loanID,
	})

	loan, err := s.loanRepo.GetByID(ctx, strings.TrimSpace(loanID))
	if err != nil {
		err = loanError(err)
		logger.Error("loan service get loan failed", err, logger.Fields{
			"loanId": loanID,
		})
		return commons.FailureResponse[models.LoanResponse]("failed to get loan", err), err
	}

	return commons.SuccessResponse("loan fetched successfully", toLoanResponse(loan)), nil
}

func (s *LoanService) ListCustomerLoans(ctx context.Context, customerID string) (commons.Response[[]models.LoanResponse], error) {
	logger.Info("loan service list loans request", logger.Fields{
		"customerId": customerID,
	})

	loans, err := s.loanRepo.ListByCustomerID(ctx, strings.TrimSpace(customerID))
	if err != nil {
		logger.Error("loan service list loans failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.FailureResponse[[]models.LoanResponse]("failed to list loans", err), domain.Unavailable(err)
	}

	response := make([]models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		response = append(response, toLoanResponse(loan))
	}

	return commons.SuccessResponse("loans fetched successfully", response), nil
}

func (s *LoanService) Pay(ctx context.Context, loanID string, req models.AmountRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service payment request", logger.Fields{
		"loanId":  loanID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.LoanResponse]("validation failed", verr), verr
	}

	loan, err := s.loanRepo.ApplyPayment(ctx, strings.TrimSpace(loanID), req.Amount)
	if err != nil {
		err = loanError(err)
		logger.Error("loan service payment failed", err, logger.Fields{
			"loanId": loanID,
		})
		return commons.FailureResponse[models.LoanResponse]("failed to pay loan", err), err
	}

	logger.Info("loan service payment success", logger.Fields{
		"loanId":    loan.ID,
		"remaining": loan.Remaining.String(),
		"status":    loan.Status,
	})

	return commons.SuccessResponse("payment recorded successfully", toLoanResponse(loan)), nil
}

func loanTypeLabel(t domain.CustomerType) string {
	if t == domain.CustomerPersonal {
		return "Personal"
	}
	return "Business"
}

func loanError(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrLoanNotFound
	}
	return domain.AsError(err)
}

func toLoanResponse(loan domain.Loan) models.LoanResponse {
	var nextDue *string
	if loan.NextDueDate != nil {
		v := loan.NextDueDate.Format(time.RFC3339)
		nextDue = &v
	}
	return models.LoanResponse{
		ID:                 loan.ID,
		CustomerID:         loan.CustomerID,
		Type:               string(loan.Type),
		Status:             string(loan.Status),
		Principal:          loan.Principal.StringFixed(2),
		Remaining:          loan.Remaining.StringFixed(2),
		InterestRateAnnual: loan.InterestRateAnnual.String(),
		TermMonths:         loan.TermMonths,
		DisbursementDate:   loan.DisbursementDate.Format(time.RFC3339),
		NextDueDate:        nextDue,
	}
}
