package command

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/internal/repository"
	"github.com/ledgerdesk/ledger/shared/cqrs"
	"github.com/ledgerdesk/ledger/shared/events"
	"github.com/ledgerdesk/ledger/shared/models"
)

// CustomerCommandService owns the only customer mutation: resetting the
// status of selected customers to pending.
type CustomerCommandService struct {
	customers repository.CustomerRepository
	publisher events.EventPublisher
	logger    zerolog.Logger
}

func NewCustomerCommandService(
	customers repository.CustomerRepository,
	publisher events.EventPublisher,
	logger zerolog.Logger,
) *CustomerCommandService {
	return &CustomerCommandService{
		customers: customers,
		publisher: publisher,
		logger:    logger,
	}
}

// MarkPending sets status=pending on the requested customers owned by the
// account, whatever their current status. Ids owned by other accounts or
// unknown ids are ignored. The returned count is the number of ids in the
// request, not the number of rows changed.
func (s *CustomerCommandService) MarkPending(ctx context.Context, cmd cqrs.MarkCustomersPendingCommand) (int, error) {
	if len(cmd.CustomerIDs) == 0 {
		return 0, models.ErrInvalidRequest
	}

	updated, err := s.customers.MarkPending(ctx, cmd.AccountID, cmd.CustomerIDs)
	if err != nil {
		return 0, err
	}

	requested := len(cmd.CustomerIDs)
	s.logger.Info().
		Int64("account_id", cmd.AccountID).
		Int("requested", requested).
		Int64("updated", updated).
		Msg("customers marked pending")

	if err := s.publisher.Publish(ctx, events.CustomerEventsStream, events.CustomersMarkedPending, events.CustomersMarkedPendingEvent{
		AccountID:      cmd.AccountID,
		CustomerIDs:    cmd.CustomerIDs,
		RequestedCount: requested,
		UpdatedCount:   updated,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish customers.marked_pending event")
	}

	return requested, nil
}
