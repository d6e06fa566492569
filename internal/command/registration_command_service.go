package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/internal/repository"
	"github.com/ledgerdesk/ledger/shared/cqrs"
	"github.com/ledgerdesk/ledger/shared/events"
	"github.com/ledgerdesk/ledger/shared/models"
	"github.com/ledgerdesk/ledger/shared/utils"
)

// RegistrationCommandService creates accounts.
type RegistrationCommandService struct {
	accounts  repository.AccountRepository
	publisher events.EventPublisher
	logger    zerolog.Logger
}

func NewRegistrationCommandService(
	accounts repository.AccountRepository,
	publisher events.EventPublisher,
	logger zerolog.Logger,
) *RegistrationCommandService {
	return &RegistrationCommandService{
		accounts:  accounts,
		publisher: publisher,
		logger:    logger,
	}
}

// Register stores a new account with a bcrypt hash of the password. The email
// is lower-cased first; an existing email in any case yields
// models.ErrDuplicateEmail, both from the pre-check and from the unique index
// when two registrations race.
func (s *RegistrationCommandService) Register(ctx context.Context, cmd cqrs.RegisterCommand) (*models.Account, error) {
	email := utils.NormalizeEmail(cmd.Email)

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateEmail
	}

	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Email:        email,
		Name:         strings.TrimSpace(cmd.Name),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("account_id", account.ID).Msg("account registered")

	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountRegistered, events.AccountRegisteredEvent{
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish account.registered event")
	}

	return account, nil
}
