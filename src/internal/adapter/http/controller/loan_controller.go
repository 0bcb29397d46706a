package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/service_interfaces"
)

type LoanController struct {
	service service_interfaces.LoanService
}

func NewLoanController(service service_interfaces.LoanService) *LoanController {
	return &LoanController{service: service}
}

func (c *LoanController) RegisterRoutes(r chi.Router, movementMiddleware func(http.Handler) http.Handler) {
	r.Route("/loans", func(r chi.Router) {
		r.Post("/", c.createLoan)
		r.Get("/customer/{customerId}", c.listCustomerLoans)
		r.Get("/{id}", c.getLoan)

		r.Group(func(r chi.Router) {
			if movementMiddleware != nil {
				r.Use(movementMiddleware)
			}
			r.Post("/{id}/payment", c.pay)
		})
	})
}

func (c *LoanController) createLoan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateLoanRequest
	if !decodeBody[models.LoanResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.CreateLoan(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *LoanController) getLoan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetLoan(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *LoanController) listCustomerLoans(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListCustomerLoans(r.Context(), chi.URLParam(r, "customerId"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *LoanController) pay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.AmountRequest
	if !decodeBody[models.LoanResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.Pay(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}
