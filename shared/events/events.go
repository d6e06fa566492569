package events

import "time"

// Event types
const (
	AccountRegistered      = "account.registered"
	CustomersMarkedPending = "customers.marked_pending"
)

// Stream names
const (
	AccountEventsStream  = "account.events"
	CustomerEventsStream = "customer.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountRegisteredEvent struct {
	AccountID int64  `json:"accountId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// CustomersMarkedPendingEvent never carries the free-text message sent with
// the request.
type CustomersMarkedPendingEvent struct {
	AccountID      int64    `json:"accountId"`
	CustomerIDs    []string `json:"customerIds"`
	RequestedCount int      `json:"requestedCount"`
	UpdatedCount   int64    `json:"updatedCount"`
}
