package cqrs

type RegisterCommand struct {
	Email    string
	Password string
	Name     string
}

type LoginCommand struct {
	Email    string
	Password string
}

// MarkCustomersPendingCommand resets the status of the listed customers owned
// by AccountID. CustomerIDs are external identifiers.
type MarkCustomersPendingCommand struct {
	AccountID   int64
	CustomerIDs []string
}
