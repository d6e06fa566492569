package query

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/internal/repository"
	"github.com/ledgerdesk/ledger/shared/cqrs"
	"github.com/ledgerdesk/ledger/shared/models"
	"github.com/ledgerdesk/ledger/shared/utils"
)

// AuthQueryService checks credentials and resolves tokens. Login lives here
// rather than on the command side: from the caller's point of view it reads a
// session, and the token row it may insert is an idempotent get-or-create.
type AuthQueryService struct {
	accounts repository.AccountRepository
	tokens   repository.TokenRepository
	logger   zerolog.Logger
}

func NewAuthQueryService(
	accounts repository.AccountRepository,
	tokens repository.TokenRepository,
	logger zerolog.Logger,
) *AuthQueryService {
	return &AuthQueryService{accounts: accounts, tokens: tokens, logger: logger}
}

// Login returns the account's token, creating it on first login. Every
// successful login for the same account returns the same token. Unknown
// emails and wrong passwords both yield models.ErrInvalidCredentials.
func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (*models.AuthSession, error) {
	email := utils.NormalizeEmail(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, models.ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(cmd.Password, account.PasswordHash) {
		s.logger.Debug().Int64("account_id", account.ID).Msg("password mismatch")
		return nil, models.ErrInvalidCredentials
	}

	key, err := utils.GenerateTokenKey()
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GetOrCreate(ctx, &models.Token{
		Key:       key,
		AccountID: account.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &models.AuthSession{
		Token: token.Key,
		User:  models.NewAccountSummary(account),
	}, nil
}

// Resolve maps a token to its owner. Blank and unknown tokens yield
// models.ErrUnauthenticated.
func (s *AuthQueryService) Resolve(ctx context.Context, q cqrs.ResolveTokenQuery) (*models.Account, error) {
	key := strings.TrimSpace(q.Token)
	if key == "" {
		return nil, models.ErrUnauthenticated
	}

	account, err := s.tokens.GetAccountByKey(ctx, key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}
	return account, nil
}
