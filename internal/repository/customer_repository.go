package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ledgerdesk/ledger/shared/models"
)

// CustomerRepository stores customers. Every read and update is filtered on
// the owning account.
type CustomerRepository interface {
	ListByAccountID(ctx context.Context, accountID int64) ([]models.Customer, error)
	MarkPending(ctx context.Context, accountID int64, externalIDs []string) (int64, error)
	CreateIfAbsent(ctx context.Context, customer *models.Customer) (bool, error)
}

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) ListByAccountID(ctx context.Context, accountID int64) ([]models.Customer, error) {
	query := `
		SELECT id, account_id, external_id, account_code, name, phone, balance,
			   last_invoice_date, last_payment_date, status
		FROM customers
		WHERE account_id = $1
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		var invoice, payment sql.NullTime
		var status string
		if err := rows.Scan(
			&c.ID, &c.AccountID, &c.ExternalID, &c.AccountCode, &c.Name, &c.Phone, &c.Balance,
			&invoice, &payment, &status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.LastInvoiceDate = timePtr(invoice)
		c.LastPaymentDate = timePtr(payment)
		c.Status = models.CustomerStatus(status)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// MarkPending sets status to pending for the given external ids owned by
// accountID in a single statement and returns the number of rows changed.
// Ids of other accounts and unknown ids are ignored.
func (r *customerRepository) MarkPending(ctx context.Context, accountID int64, externalIDs []string) (int64, error) {
	query := `
		UPDATE customers
		SET status = $1
		WHERE account_id = $2 AND external_id = ANY($3)
	`
	result, err := r.db.ExecContext(ctx, query, string(models.CustomerStatusPending), accountID, pq.Array(externalIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to update customers: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}

// CreateIfAbsent inserts the customer unless its external id already exists
// anywhere in the store. It reports whether a row was inserted.
func (r *customerRepository) CreateIfAbsent(ctx context.Context, c *models.Customer) (bool, error) {
	query := `
		INSERT INTO customers (account_id, external_id, account_code, name, phone, balance,
			last_invoice_date, last_payment_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id
	`
	status := c.Status
	if status == "" {
		status = models.CustomerStatusPending
	}
	err := r.db.QueryRowContext(ctx, query,
		c.AccountID, c.ExternalID, c.AccountCode, c.Name, c.Phone, c.Balance,
		nullTime(c.LastInvoiceDate), nullTime(c.LastPaymentDate), string(status),
	).Scan(&c.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create customer: %w", err)
	}
	c.Status = status
	return true, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
