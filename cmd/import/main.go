// Command import loads a legacy JSON snapshot of users and their customers
// into the ledger database. It is safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ledgerdesk/ledger/internal/config"
	"github.com/ledgerdesk/ledger/internal/db"
	"github.com/ledgerdesk/ledger/internal/importer"
	"github.com/ledgerdesk/ledger/internal/logging"
	"github.com/ledgerdesk/ledger/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		filePath        string
		defaultPassword string
		migrate         bool
	)

	flagSet := pflag.NewFlagSet("import", pflag.ContinueOnError)
	flagSet.StringVarP(&filePath, "file", "f", "db.json", "path to the JSON snapshot")
	flagSet.StringVar(&defaultPassword, "default-password", importer.DefaultPassword, "password given to accounts created by the import")
	flagSet.BoolVar(&migrate, "migrate", true, "apply database migrations before importing")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewLogger(&cfg.Logger, "ledger-import")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := importer.LoadFile(filePath)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	if migrate {
		if err := db.RunMigrations(database); err != nil {
			return err
		}
	}

	logger.Info().Str("file", filePath).Int("users", len(doc.Users)).Msg("starting data import")

	im := importer.New(
		repository.NewAccountRepository(database),
		repository.NewCustomerRepository(database),
		defaultPassword,
		logger,
	)
	summary, err := im.Run(ctx, doc)
	if err != nil {
		return err
	}

	logger.Info().
		Int("accounts_created", summary.AccountsCreated).
		Int("accounts_existing", summary.AccountsExisting).
		Int("customers_imported", summary.CustomersImported).
		Int("customers_skipped", summary.CustomersSkipped).
		Int("warnings", len(summary.Warnings)).
		Msg("data import finished")
	return nil
}
