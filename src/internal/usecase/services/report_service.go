package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.ReportService = (*ReportService)(nil)

// averageScale is the number of decimal places kept by the daily average.
const averageScale = 16

const reportFetchConcurrency = 8

// ReportService rebuilds daily balances from the movement ledger and
// aggregates commission charges. It only reads.
type ReportService struct {
	accountRepo  domain.AccountRepository
	movementRepo domain.MovementRepository
	cardRepo     domain.CreditCardRepository
	loanRepo     domain.LoanRepository
	classifier   *CommissionClassifier
	location     *time.Location
	clock        func() time.Time
}

func NewReportService(
	accountRepo domain.AccountRepository,
	movementRepo domain.MovementRepository,
	cardRepo domain.CreditCardRepository,
	loanRepo domain.LoanRepository,
	classifier *CommissionClassifier,
	location *time.Location,
	clock func() time.Time,
) *ReportService {
	if classifier == nil {
		classifier = NewCommissionClassifier(nil)
	}
	if location == nil {
		location = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &ReportService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		cardRepo:     cardRepo,
		loanRepo:     loanRepo,
		classifier:   classifier,
		location:     location,
		clock:        clock,
	}
}

// DailyAverages computes, for every product of the customer, the mean
// end-of-day balance from the first day of the current month through today
// in loc.
func (s *ReportService) DailyAverages(ctx context.Context, customerID string, loc *time.Location) (domain.CustomerDailyAverageReport, error) {
	if loc == nil {
		loc = s.location
	}

	now := s.clock().In(loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	to := today.AddDate(0, 0, 1).Add(-time.Millisecond)
	days := now.Day()

	var (
		accounts []domain.Account
		cards    []domain.CreditCard
		loans    []domain.Loan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListByCustomerID(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.cardRepo.ListByCustomerID(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = s.loanRepo.ListByCustomerID(gctx, customerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.CustomerDailyAverageReport{}, domain.Unavailable(err)
	}

	open := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if acc.Status != domain.AccountStatusClosed {
			open = append(open, acc)
		}
	}

	accountAverages := make([]domain.ProductDailyAverage, len(open))
	ag, actx := errgroup.WithContext(ctx)
	ag.SetLimit(reportFetchConcurrency)
	for i, acc := range open {
		i, acc := i, acc
		ag.Go(func() error {
			movements, err := s.movementRepo.ListByAccountIDAndDateRange(actx, acc.ID, first, to)
			if err != nil {
				return err
			}
			accountAverages[i] = accountDailyAverage(acc, movements, first, days, loc)
			return nil
		})
	}
	if err := ag.Wait(); err != nil {
		return domain.CustomerDailyAverageReport{}, domain.Unavailable(err)
	}

	products := make([]domain.ProductDailyAverage, 0, len(open)+len(cards)+len(loans))
	products = append(products, accountAverages...)
	for _, card := range cards {
		number := card.CardNumber
		products = append(products, domain.ProductDailyAverage{
			ProductType:   domain.ReportProductCreditCard,
			ProductID:     card.ID,
			ProductNumber: &number,
			Average:       card.Available,
		})
	}
	for _, loan := range loans {
		products = append(products, domain.ProductDailyAverage{
			ProductType: domain.ReportProductLoan,
			ProductID:   loan.ID,
			Average:     loan.Remaining,
		})
	}

	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Average)
	}

	return domain.CustomerDailyAverageReport{
		CustomerID:   customerID,
		Month:        first.Format("2006-01"),
		FromDate:     first,
		ToDate:       today,
		DaysComputed: days,
		Products:     products,
		Total:        total,
	}, nil
}

// accountDailyAverage walks the month day by day starting from the balance
// held before the month's first movement. Movements stored after the balance
// snapshot (CreatedAt past account.UpdatedAt) are not part of that balance
// and are left out.
func accountDailyAverage(account domain.Account, movements []domain.AccountMovement, first time.Time, days int, loc *time.Location) domain.ProductDailyAverage {
	number := account.AccountNumber
	line := domain.ProductDailyAverage{
		ProductType:   domain.ReportProductAccount,
		ProductID:     account.ID,
		ProductNumber: &number,
		Average:       decimal.Zero,
	}
	if days <= 0 {
		return line
	}

	signedSum := decimal.Zero
	deltas := make(map[string]decimal.Decimal, len(movements))
	for _, m := range movements {
		if m.CreatedAt.After(account.UpdatedAt) {
			continue
		}
		signed := m.Signed()
		signedSum = signedSum.Add(signed)
		day := m.Date.In(loc).Format(time.DateOnly)
		deltas[day] = deltas[day].Add(signed)
	}

	running := account.Balance.Sub(signedSum)
	sum := decimal.Zero
	for d := 0; d < days; d++ {
		day := first.AddDate(0, 0, d).Format(time.DateOnly)
		running = running.Add(deltas[day])
		sum = sum.Add(running)
	}

	line.Average = sum.DivRound(decimal.NewFromInt(int64(days)), averageScale)
	return line
}

type commissionKey struct {
	accountID      string
	commissionType string
}

// CommissionsByProduct totals commission movements in [from, to] per account
// and commission label across all accounts.
func (s *ReportService) CommissionsByProduct(ctx context.Context, from, to time.Time) (domain.CommissionReport, error) {
	if to.Before(from) {
		return domain.CommissionReport{}, domain.Validation("to must not be before from")
	}

	movements, err := s.movementRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return domain.CommissionReport{}, domain.Unavailable(err)
	}

	totals := make(map[commissionKey]decimal.Decimal)
	accountIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, m := range movements {
		if !s.classifier.IsCommission(m) {
			continue
		}
		key := commissionKey{accountID: m.AccountID, commissionType: s.classifier.Classify(m)}
		totals[key] = totals[key].Add(m.Amount)
		if _, ok := seen[m.AccountID]; !ok {
			seen[m.AccountID] = struct{}{}
			accountIDs = append(accountIDs, m.AccountID)
		}
	}

	numbers := make(map[string]string, len(accountIDs))
	if len(accountIDs) > 0 {
		accounts, err := s.accountRepo.ListByIDs(ctx, accountIDs)
		if err != nil {
			return domain.CommissionReport{}, domain.Unavailable(err)
		}
		for _, acc := range accounts {
			numbers[acc.ID] = acc.AccountNumber
		}
	}

	keys := make([]commissionKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].accountID != keys[j].accountID {
			return keys[i].accountID < keys[j].accountID
		}
		return keys[i].commissionType < keys[j].commissionType
	})

	report := domain.CommissionReport{From: from, To: to, Items: make([]domain.CommissionItem, 0, len(keys)), Total: decimal.Zero}
	for _, k := range keys {
		item := domain.CommissionItem{
			ProductType:    domain.ReportProductAccount,
			ProductID:      k.accountID,
			ProductNumber:  numbers[k.accountID],
			CommissionType: k.commissionType,
			Total:          totals[k],
		}
		report.Items = append(report.Items, item)
		report.Total = report.Total.Add(item.Total)
	}

	return report, nil
}

func (s *ReportService) GetDailyAverageReport(ctx context.Context, customerID string) (commons.Response[models.DailyAverageReportResponse], error) {
	logger.Info("report service daily average request", logger.Fields{
		"customerId": customerID,
	})

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		err := domain.Validation("customerId is required")
		return commons.FailureResponse[models.DailyAverageReportResponse]("validation failed", err), err
	}

	report, err := s.DailyAverages(ctx, customerID, s.location)
	if err != nil {
		logger.Error("report service daily average failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.FailureResponse[models.DailyAverageReportResponse]("failed to build daily average report", err), err
	}

	response := models.DailyAverageReportResponse{
		CustomerID:        report.CustomerID,
		Month:             report.Month,
		FromDate:          report.FromDate.Format(time.DateOnly),
		ToDate:            report.ToDate.Format(time.DateOnly),
		DaysComputed:      report.DaysComputed,
		Products:          make([]models.ProductDailyAverageResponse, 0, len(report.Products)),
		TotalDailyAverage: report.Total.String(),
	}
	for _, p := range report.Products {
		response.Products = append(response.Products, models.ProductDailyAverageResponse{
			ProductType:   p.ProductType,
			ProductID:     p.ProductID,
			ProductNumber: p.ProductNumber,
			DailyAverage:  p.Average.String(),
		})
	}

	logger.Info("report service daily average success", logger.Fields{
		"customerId": customerID,
		"products":   len(response.Products),
		"total":      response.TotalDailyAverage,
	})

	return commons.SuccessResponse("daily average report generated successfully", response), nil
}

func (s *ReportService) GetCommissionReport(ctx context.Context, query models.DateRangeQuery) (commons.Response[models.CommissionReportResponse], error) {
	logger.Info("report service commission request", logger.Fields{
		"payload": logger.SanitizePayload(query),
	})

	from, to, err := query.Parse(s.location)
	if err != nil {
		verr := domain.Validation("%s", err.Error())
		return commons.FailureResponse[models.CommissionReportResponse]("validation failed", verr), verr
	}

	report, err := s.CommissionsByProduct(ctx, from, to)
	if err != nil {
		logger.Error("report service commission failed", err, logger.Fields{
			"from": from,
			"to":   to,
		})
		return commons.FailureResponse[models.CommissionReportResponse]("failed to build commission report", err), err
	}

	response := models.CommissionReportResponse{
		From:       report.From.Format(time.RFC3339),
		To:         report.To.Format(time.RFC3339),
		Items:      make([]models.CommissionItemResponse, 0, len(report.Items)),
		GrandTotal: report.Total.String(),
	}
	for _, item := range report.Items {
		response.Items = append(response.Items, models.CommissionItemResponse{
			ProductType:    item.ProductType,
			ProductID:      item.ProductID,
			ProductNumber:  item.ProductNumber,
			CommissionType: item.CommissionType,
			TotalAmount:    item.Total.String(),
		})
	}

	logger.Info("report service commission success", logger.Fields{
		"items":      len(response.Items),
		"grandTotal": response.GrandTotal,
	})

	return commons.SuccessResponse("commission report generated successfully", response), nil
}
