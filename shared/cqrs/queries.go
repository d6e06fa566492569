package cqrs

// ResolveTokenQuery maps a bearer token back to its account.
type ResolveTokenQuery struct {
	Token string
}

// ListCustomersQuery fetches all customers belonging to an account.
type ListCustomersQuery struct {
	AccountID int64
}
