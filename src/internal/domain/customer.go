package domain

import "context"

type CustomerType string

const (
	CustomerPersonal CustomerType = "PERSONAL"
	CustomerBusiness CustomerType = "BUSINESS"
)

type CustomerSubType string

const (
	CustomerSubTypeNone CustomerSubType = ""
	CustomerSubTypeVIP  CustomerSubType = "VIP"
	CustomerSubTypePYME CustomerSubType = "PYME"
)

type Customer struct {
	ID      string
	Type    CustomerType
	SubType CustomerSubType
	Name    string
	Email   string
	Phone   string
}

// CustomerDirectory resolves customers from the external customer registry.
// Unknown customers yield ErrCustomerNotFound and transport failures
// ErrUnavailable.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, customerID string) (Customer, error)
}
