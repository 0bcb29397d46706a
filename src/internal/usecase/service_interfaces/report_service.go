package service_interfaces

import (
	"context"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
)

type ReportService interface {
	GetDailyAverageReport(ctx context.Context, customerID string) (commons.Response[models.DailyAverageReportResponse], error)
	GetCommissionReport(ctx context.Context, query models.DateRangeQuery) (commons.Response[models.CommissionReportResponse], error)
}
