package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/ledger/shared/cqrs"
	"github.com/ledgerdesk/ledger/shared/i18n"
	"github.com/ledgerdesk/ledger/shared/middleware"
	"github.com/ledgerdesk/ledger/shared/models"
)

// CustomerCommander defines the write-side operations used by CustomerHandler.
type CustomerCommander interface {
	MarkPending(context.Context, cqrs.MarkCustomersPendingCommand) (int, error)
}

// CustomerQuerier defines the read-side operations used by CustomerHandler.
type CustomerQuerier interface {
	ListCustomers(context.Context, cqrs.ListCustomersQuery) ([]models.Customer, error)
}

// CustomerHandler serves the authenticated customer endpoints. The account
// always comes from the token, never from the request.
type CustomerHandler struct {
	commands CustomerCommander
	queries  CustomerQuerier
}

// SendRequest selects customers by external id. Message is accepted for
// client compatibility and discarded.
type SendRequest struct {
	CustomerIDs []string `json:"customerIds"`
	Message     string   `json:"message"`
}

func NewCustomerHandler(commands CustomerCommander, queries CustomerQuerier) *CustomerHandler {
	return &CustomerHandler{commands: commands, queries: queries}
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, i18n.T(c, i18n.MsgAuthRequired))
		return
	}

	customers, err := h.queries.ListCustomers(c.Request.Context(), cqrs.ListCustomersQuery{AccountID: account.ID})
	if err != nil {
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, i18n.T(c, i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, models.NewCustomerViews(customers))
}

func (h *CustomerHandler) SendConfirmation(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, i18n.T(c, i18n.MsgAuthRequired))
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidData))
		return
	}
	if len(req.CustomerIDs) == 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidData))
		return
	}

	count, err := h.commands.MarkPending(c.Request.Context(), cqrs.MarkCustomersPendingCommand{
		AccountID:   account.ID,
		CustomerIDs: req.CustomerIDs,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidRequest) {
			middleware.RespondWithError(c, http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidData))
			return
		}
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, i18n.T(c, i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: i18n.T(c, i18n.MsgRequestsSent, count),
	})
}
