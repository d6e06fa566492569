package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerStatus is the follow-up state of a customer.
type CustomerStatus string

const (
	CustomerStatusPending   CustomerStatus = "pending"
	CustomerStatusConfirmed CustomerStatus = "confirmed"
	CustomerStatusRejected  CustomerStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusPending, CustomerStatusConfirmed, CustomerStatusRejected:
		return true
	}
	return false
}

// Account is a registered identity. Email is always stored lower-cased.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Customer is a ledger entry owned by exactly one Account.
// ID is the storage key and never leaves the process; ExternalID is the
// identifier clients see.
type Customer struct {
	ID              int64
	AccountID       int64
	ExternalID      string
	AccountCode     string
	Name            string
	Phone           string
	Balance         decimal.Decimal
	LastInvoiceDate *time.Time
	LastPaymentDate *time.Time
	Status          CustomerStatus
}

// Token is an opaque bearer credential bound to one account.
type Token struct {
	Key       string
	AccountID int64
	CreatedAt time.Time
}
