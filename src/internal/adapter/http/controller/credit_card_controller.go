package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/service_interfaces"
)

type CreditCardController struct {
	service service_interfaces.CreditCardService
}

func NewCreditCardController(service service_interfaces.CreditCardService) *CreditCardController {
	return &CreditCardController{service: service}
}

func (c *CreditCardController) RegisterRoutes(r chi.Router, movementMiddleware func(http.Handler) http.Handler) {
	r.Route("/credit-cards", func(r chi.Router) {
		r.Post("/", c.createCard)
		r.Get("/customer/{customerId}", c.listCustomerCards)
		r.Get("/{id}", c.getCard)

		r.Group(func(r chi.Router) {
			if movementMiddleware != nil {
				r.Use(movementMiddleware)
			}
			r.Post("/{id}/charge", c.charge)
			r.Post("/{id}/payment", c.pay)
		})
	})
}

func (c *CreditCardController) createCard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateCreditCardRequest
	if !decodeBody[models.CreditCardResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.CreateCard(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *CreditCardController) getCard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetCard(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *CreditCardController) listCustomerCards(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListCustomerCards(r.Context(), chi.URLParam(r, "customerId"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *CreditCardController) charge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.AmountRequest
	if !decodeBody[models.CreditCardResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.Charge(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *CreditCardController) pay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.AmountRequest
	if !decodeBody[models.CreditCardResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.Pay(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}
