package query

import (
	"context"

	"github.com/ledgerdesk/ledger/internal/repository"
	"github.com/ledgerdesk/ledger/shared/cqrs"
	"github.com/ledgerdesk/ledger/shared/models"
)

// CustomerQueryService reads the customers owned by one account.
type CustomerQueryService struct {
	customers repository.CustomerRepository
}

func NewCustomerQueryService(customers repository.CustomerRepository) *CustomerQueryService {
	return &CustomerQueryService{customers: customers}
}

// ListCustomers returns the account's customers ordered by name. The result
// is never nil.
func (s *CustomerQueryService) ListCustomers(ctx context.Context, q cqrs.ListCustomersQuery) ([]models.Customer, error) {
	customers, err := s.customers.ListByAccountID(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}
