package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/service_interfaces"
)

type ReportController struct {
	service service_interfaces.ReportService
}

func NewReportController(service service_interfaces.ReportService) *ReportController {
	return &ReportController{service: service}
}

func (c *ReportController) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/customers/{customerId}/daily-averages/current-month", c.dailyAverages)
		r.Get("/commissions", c.commissions)
	})
}

func (c *ReportController) dailyAverages(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetDailyAverageReport(r.Context(), chi.URLParam(r, "customerId"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *ReportController) commissions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := models.DateRangeQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	response, err := c.service.GetCommissionReport(r.Context(), query)
	respond(w, r, start, http.StatusOK, response, err)
}
