// Package importer loads a legacy JSON snapshot of users and customers into
// the store. Runs are idempotent: existing accounts are reused and customers
// whose external id is already present are left untouched.
package importer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/internal/repository"
	"github.com/ledgerdesk/ledger/shared/models"
	"github.com/ledgerdesk/ledger/shared/utils"
)

const DefaultPassword = "password"

// Summary reports what a run did.
type Summary struct {
	AccountsCreated   int
	AccountsExisting  int
	CustomersImported int
	CustomersSkipped  int
	Warnings          []string
}

type Importer struct {
	accounts        repository.AccountRepository
	customers       repository.CustomerRepository
	defaultPassword string
	logger          zerolog.Logger
}

// New builds an importer. Accounts it creates get defaultPassword, or
// DefaultPassword when empty.
func New(
	accounts repository.AccountRepository,
	customers repository.CustomerRepository,
	defaultPassword string,
	logger zerolog.Logger,
) *Importer {
	if defaultPassword == "" {
		defaultPassword = DefaultPassword
	}
	return &Importer{
		accounts:        accounts,
		customers:       customers,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// Run imports doc. Bad records are skipped with a warning; only storage
// failures abort the run.
func (im *Importer) Run(ctx context.Context, doc *Document) (*Summary, error) {
	summary := &Summary{}

	passwordHash, err := utils.HashPassword(im.defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}

	now := time.Now().UTC()
	owners := make(map[string]int64, len(doc.Users))
	for _, u := range doc.Users {
		email := utils.NormalizeEmail(u.Email)
		if email == "" {
			im.warn(summary, "skipping user with no email: %q", u.Name)
			continue
		}

		account := &models.Account{
			Email:        email,
			Name:         u.Name,
			PasswordHash: passwordHash,
			CreatedAt:    now,
		}
		created, err := im.accounts.GetOrCreate(ctx, account)
		if err != nil {
			return summary, fmt.Errorf("failed to import user %s: %w", email, err)
		}
		if created {
			summary.AccountsCreated++
			im.logger.Info().Int64("account_id", account.ID).Str("email", email).Msg("created account")
		} else {
			summary.AccountsExisting++
		}
		if u.ID != "" {
			owners[string(u.ID)] = account.ID
		}
	}

	userIDs := make([]string, 0, len(doc.Customers))
	for userID := range doc.Customers {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		records := doc.Customers[userID]
		accountID, ok := owners[userID]
		if !ok {
			im.warn(summary, "could not find user for id %s, skipping %d customers", userID, len(records))
			summary.CustomersSkipped += len(records)
			continue
		}

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			customer, err := toCustomer(accountID, rec)
			if err != nil {
				im.warn(summary, "skipping customer %q of user %s: %v", rec.ID, userID, err)
				summary.CustomersSkipped++
				continue
			}

			created, err := im.customers.CreateIfAbsent(ctx, customer)
			if err != nil {
				return summary, fmt.Errorf("failed to import customer %s: %w", rec.ID, err)
			}
			if !created {
				summary.CustomersSkipped++
				continue
			}
			summary.CustomersImported++
			im.logger.Debug().Str("customer_id", customer.ExternalID).Int64("account_id", accountID).Msg("imported customer")
		}
	}

	return summary, nil
}

func (im *Importer) warn(summary *Summary, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	summary.Warnings = append(summary.Warnings, msg)
	im.logger.Warn().Msg(msg)
}

func toCustomer(accountID int64, rec CustomerRecord) (*models.Customer, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("missing id")
	}

	status := models.CustomerStatus(rec.Status)
	if status == "" {
		status = models.CustomerStatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", rec.Status)
	}

	invoiceDate, err := models.ParseDate(rec.LastInvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid lastInvoiceDate: %w", err)
	}
	paymentDate, err := models.ParseDate(rec.LastPaymentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid lastPaymentDate: %w", err)
	}

	return &models.Customer{
		AccountID:       accountID,
		ExternalID:      string(rec.ID),
		AccountCode:     rec.AccountCode,
		Name:            rec.Name,
		Phone:           rec.Phone,
		Balance:         rec.Balance.Round(2),
		LastInvoiceDate: invoiceDate,
		LastPaymentDate: paymentDate,
		Status:          status,
	}, nil
}
