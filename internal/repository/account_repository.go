// Package repository provides the Postgres-backed stores for accounts, tokens
// and customers.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ledgerdesk/ledger/shared/models"
)

const uniqueViolation = "23505"

// AccountRepository stores identities. Emails are matched case-insensitively.
type AccountRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	GetOrCreate(ctx context.Context, account *models.Account) (bool, error)
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// GetByEmail returns the full account including PasswordHash, for internal use only.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`

	var account models.Account
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.Name, &account.PasswordHash, &account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// Create inserts the account and fills in its ID. A concurrent insert of the
// same email loses on the unique index and yields ErrDuplicateEmail.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.Name, account.PasswordHash, account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetOrCreate inserts the account unless its email is taken. It reports
// whether a row was created; either way account is overwritten with the
// stored row.
func (r *accountRepository) GetOrCreate(ctx context.Context, account *models.Account) (bool, error) {
	query := `
		INSERT INTO accounts (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ((LOWER(email))) DO NOTHING
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.Name, account.PasswordHash, account.CreatedAt,
	).Scan(&account.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to create account: %w", err)
	}

	existing, err := r.GetByEmail(ctx, account.Email)
	if err != nil {
		return false, err
	}
	*account = *existing
	return false, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
