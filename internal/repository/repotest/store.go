// Package repotest provides in-memory repositories for service tests. They
// enforce the same uniqueness rules as the SQL schema.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ledgerdesk/ledger/internal/repository"
	"github.com/ledgerdesk/ledger/shared/models"
)

// Store holds accounts, tokens and customers behind one mutex.
type Store struct {
	mu        sync.Mutex
	nextID    int64
	accounts  []models.Account
	tokens    []models.Token
	customers []models.Customer
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Accounts() repository.AccountRepository   { return accountRepo{s} }
func (s *Store) Tokens() repository.TokenRepository       { return tokenRepo{s} }
func (s *Store) Customers() repository.CustomerRepository { return customerRepo{s} }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AccountCount returns how many accounts are stored.
func (s *Store) AccountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// AllCustomers returns a copy of every stored customer.
func (s *Store) AllCustomers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Customer(nil), s.customers...)
}

// Customer returns the stored customer with the given external id.
func (s *Store) Customer(externalID string) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ExternalID == externalID {
			return c, true
		}
	}
	return models.Customer{}, false
}

// SeedCustomer stores c as-is, assigning an ID.
func (s *Store) SeedCustomer(c models.Customer) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.customers = append(s.customers, c)
	return c
}

func (s *Store) findAccount(email string) (models.Account, bool) {
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, true
		}
	}
	return models.Account{}, false
}

type accountRepo struct{ s *Store }

func (r accountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.findAccount(email)
	return ok, nil
}

func (r accountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.findAccount(email)
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (r accountRepo) Create(_ context.Context, account *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.findAccount(account.Email); ok {
		return models.ErrDuplicateEmail
	}
	account.ID = r.s.id()
	r.s.accounts = append(r.s.accounts, *account)
	return nil
}

func (r accountRepo) GetOrCreate(_ context.Context, account *models.Account) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.findAccount(account.Email); ok {
		*account = existing
		return false, nil
	}
	account.ID = r.s.id()
	r.s.accounts = append(r.s.accounts, *account)
	return true, nil
}

type tokenRepo struct{ s *Store }

func (r tokenRepo) GetOrCreate(_ context.Context, candidate *models.Token) (*models.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.AccountID == candidate.AccountID {
			existing := t
			return &existing, nil
		}
	}
	r.s.tokens = append(r.s.tokens, *candidate)
	created := *candidate
	return &created, nil
}

func (r tokenRepo) GetAccountByKey(_ context.Context, key string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.Key != key {
			continue
		}
		for _, a := range r.s.accounts {
			if a.ID == t.AccountID {
				account := a
				return &account, nil
			}
		}
	}
	return nil, models.ErrNotFound
}

type customerRepo struct{ s *Store }

func (r customerRepo) ListByAccountID(_ context.Context, accountID int64) ([]models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Customer{}
	for _, c := range r.s.customers {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r customerRepo) MarkPending(_ context.Context, accountID int64, externalIDs []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[string]struct{}, len(externalIDs))
	for _, id := range externalIDs {
		wanted[id] = struct{}{}
	}
	var changed int64
	for i := range r.s.customers {
		c := &r.s.customers[i]
		if _, ok := wanted[c.ExternalID]; ok && c.AccountID == accountID {
			c.Status = models.CustomerStatusPending
			changed++
		}
	}
	return changed, nil
}

func (r customerRepo) CreateIfAbsent(_ context.Context, c *models.Customer) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.ExternalID == c.ExternalID {
			return false, nil
		}
	}
	if c.Status == "" {
		c.Status = models.CustomerStatusPending
	}
	c.ID = r.s.id()
	r.s.customers = append(r.s.customers, *c)
	return true, nil
}
