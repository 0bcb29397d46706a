package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

// RegisterRoutes mounts the account endpoints. movementMiddleware wraps the
// balance-changing routes; it may be nil.
func (c *AccountController) RegisterRoutes(r chi.Router, movementMiddleware func(http.Handler) http.Handler) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", c.createAccount)
		r.Get("/", c.listAccounts)
		r.Get("/customer/{customerId}", c.listCustomerAccounts)
		r.Get("/{id}", c.getAccount)
		r.Delete("/{id}", c.deleteAccount)
		r.Get("/{id}/balance", c.getBalance)
		r.Get("/{id}/movements", c.listMovements)

		r.Group(func(r chi.Router) {
			if movementMiddleware != nil {
				r.Use(movementMiddleware)
			}
			r.Post("/{id}/deposit", c.deposit)
			r.Post("/{id}/withdraw", c.withdraw)
		})
	})
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateAccountRequest
	if !decodeBody[models.AccountResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.CreateAccount(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListAccounts(r.Context())
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) listCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListCustomerAccounts(r.Context(), chi.URLParam(r, "customerId"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetAccount(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) deleteAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.DeleteAccount(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.AmountRequest
	if !decodeBody[models.MovementResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.Deposit(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *AccountController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.AmountRequest
	if !decodeBody[models.MovementResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.Withdraw(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *AccountController) getBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetBalance(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) listMovements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := models.DateRangeQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	response, err := c.service.ListMovements(r.Context(), chi.URLParam(r, "id"), query)
	respond(w, r, start, http.StatusOK, response, err)
}
