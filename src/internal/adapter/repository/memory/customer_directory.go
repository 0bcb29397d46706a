package memory

import (
	"context"
	"strings"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

var _ domain.CustomerDirectory = (*CustomerDirectory)(nil)

// CustomerDirectory serves a fixed customer list for local runs without the
// customer registry.
type CustomerDirectory struct {
	customers map[string]domain.Customer
}

func NewCustomerDirectory(customers ...domain.Customer) *CustomerDirectory {
	if len(customers) == 0 {
		customers = defaultCustomers()
	}
	index := make(map[string]domain.Customer, len(customers))
	for _, c := range customers {
		index[c.ID] = c
	}
	return &CustomerDirectory{customers: index}
}

func (d *CustomerDirectory) GetCustomer(_ context.Context, customerID string) (domain.Customer, error) {
	customer, ok := d.customers[strings.TrimSpace(customerID)]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func defaultCustomers() []domain.Customer {
	return []domain.Customer{
		{ID: "c-personal-001", Type: domain.CustomerPersonal, Name: "Ana Torres", Email: "ana.torres@example.com"},
		{ID: "c-personal-002", Type: domain.CustomerPersonal, Name: "Luis Romero", Email: "luis.romero@example.com"},
		{ID: "c-vip-001", Type: domain.CustomerPersonal, SubType: domain.CustomerSubTypeVIP, Name: "Marta Salas", Email: "marta.salas@example.com"},
		{ID: "c-business-001", Type: domain.CustomerBusiness, Name: "Andes Logistics SAC", Email: "finance@andeslogistics.example.com"},
		{ID: "c-pyme-001", Type: domain.CustomerBusiness, SubType: domain.CustomerSubTypePYME, Name: "Panaderia El Trigal", Email: "contacto@eltrigal.example.com"},
	}
}
