package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledger/shared/models"
)

// TokenRepository stores at most one token per account.
type TokenRepository interface {
	GetOrCreate(ctx context.Context, token *models.Token) (*models.Token, error)
	GetAccountByKey(ctx context.Context, key string) (*models.Account, error)
}

type tokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// GetOrCreate returns the account's existing token, or stores candidate when
// there is none. Concurrent first logins converge on a single row.
func (r *tokenRepository) GetOrCreate(ctx context.Context, candidate *models.Token) (*models.Token, error) {
	existing, err := r.getByAccountID(ctx, candidate.AccountID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	insert := `
		INSERT INTO auth_tokens (key, account_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, candidate.Key, candidate.AccountID, candidate.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return r.getByAccountID(ctx, candidate.AccountID)
}

func (r *tokenRepository) getByAccountID(ctx context.Context, accountID int64) (*models.Token, error) {
	query := `SELECT key, account_id, created_at FROM auth_tokens WHERE account_id = $1`

	var token models.Token
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&token.Key, &token.AccountID, &token.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

// GetAccountByKey resolves a token key to its owning account.
func (r *tokenRepository) GetAccountByKey(ctx context.Context, key string) (*models.Account, error) {
	query := `
		SELECT a.id, a.email, a.name, a.password_hash, a.created_at
		FROM auth_tokens t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.key = $1
	`

	var account models.Account
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&account.ID, &account.Email, &account.Name, &account.PasswordHash, &account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return &account, nil
}
