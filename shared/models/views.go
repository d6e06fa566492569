package models

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// AccountSummary is the public projection of an account returned on login.
type AccountSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewAccountSummary falls back to the email local-part when no name is set.
func NewAccountSummary(a *Account) AccountSummary {
	name := a.Name
	if name == "" {
		name, _, _ = strings.Cut(a.Email, "@")
	}
	return AccountSummary{ID: a.ID, Name: name, Email: a.Email}
}

// AuthSession is the result of a successful login.
type AuthSession struct {
	Token string
	User  AccountSummary
}

// CustomerView is the wire shape of a customer. The external identifier is
// exposed as "id"; the balance keeps two decimal places.
type CustomerView struct {
	ID              string  `json:"id"`
	AccountCode     string  `json:"accountCode"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Balance         string  `json:"balance"`
	LastInvoiceDate *string `json:"lastInvoiceDate"`
	LastPaymentDate *string `json:"lastPaymentDate"`
	Status          string  `json:"status"`
}

func NewCustomerView(c *Customer) CustomerView {
	return CustomerView{
		ID:              c.ExternalID,
		AccountCode:     c.AccountCode,
		Name:            c.Name,
		Phone:           c.Phone,
		Balance:         c.Balance.StringFixed(2),
		LastInvoiceDate: formatDate(c.LastInvoiceDate),
		LastPaymentDate: formatDate(c.LastPaymentDate),
		Status:          string(c.Status),
	}
}

// NewCustomerViews always returns a non-nil slice so empty lists encode as [].
func NewCustomerViews(customers []Customer) []CustomerView {
	views := make([]CustomerView, 0, len(customers))
	for i := range customers {
		views = append(views, NewCustomerView(&customers[i]))
	}
	return views
}

// ParseDate parses a YYYY-MM-DD calendar date. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
