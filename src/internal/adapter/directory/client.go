// Package directory resolves customers from the external customer registry.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

var _ domain.CustomerDirectory = (*Client)(nil)

// Client is an HTTP client for the customer registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type customerPayload struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	SubType string `json:"subType"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// GetCustomer fetches GET {baseURL}/customers/{id}. A 404 means the customer
// does not exist; any transport failure or 5xx is reported as unavailable.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	if c.baseURL == "" {
		return domain.Customer{}, domain.Unavailable(fmt.Errorf("customer directory base url is empty"))
	}

	endpoint := fmt.Sprintf("%s/customers/%s", c.baseURL, url.PathEscape(customerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Customer{}, domain.Unavailable(fmt.Errorf("create customer request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("customer directory request failed", err, logger.Fields{
			"customerId": customerID,
		})
		return domain.Customer{}, domain.Unavailable(fmt.Errorf("execute customer request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Customer{}, domain.ErrCustomerNotFound
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Error("customer directory returned error status", nil, logger.Fields{
			"customerId": customerID,
			"status":     resp.StatusCode,
			"body":       string(body),
		})
		return domain.Customer{}, domain.Unavailable(fmt.Errorf("customer directory returned status %d", resp.StatusCode))
	}

	var payload customerPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Customer{}, domain.Unavailable(fmt.Errorf("decode customer response: %w", err))
	}

	customer := domain.Customer{
		ID:      payload.ID,
		Type:    domain.CustomerType(strings.ToUpper(strings.TrimSpace(payload.Type))),
		SubType: domain.CustomerSubType(strings.ToUpper(strings.TrimSpace(payload.SubType))),
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
	}
	if customer.ID == "" {
		customer.ID = customerID
	}
	if customer.Type != domain.CustomerPersonal && customer.Type != domain.CustomerBusiness {
		return domain.Customer{}, domain.Unavailable(fmt.Errorf("customer directory returned unknown type %q", payload.Type))
	}

	return customer, nil
}
