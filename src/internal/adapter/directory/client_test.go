package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

func TestClientGetCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/customers/c1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","type":"personal","subType":"vip","name":"Ana"}`))
		case "/customers/broken":
			w.WriteHeader(http.StatusBadGateway)
		case "/customers/odd":
			_, _ = w.Write([]byte(`{"id":"odd","type":"ROBOT"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)

	customer, err := client.GetCustomer(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerPersonal, customer.Type)
	assert.Equal(t, domain.CustomerSubTypeVIP, customer.SubType)
	assert.Equal(t, "Ana", customer.Name)

	_, err = client.GetCustomer(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = client.GetCustomer(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	_, err = client.GetCustomer(context.Background(), "odd")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClientTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond)
	_, err := client.GetCustomer(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
}

func TestClientWithoutBaseURL(t *testing.T) {
	_, err := NewClient("", 0).GetCustomer(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
