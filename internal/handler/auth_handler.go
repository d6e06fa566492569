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

// RegistrationCommander defines the write-side operations used by AuthHandler.
type RegistrationCommander interface {
	Register(context.Context, cqrs.RegisterCommand) (*models.Account, error)
}

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(context.Context, cqrs.LoginCommand) (*models.AuthSession, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	commands RegistrationCommander
	queries  AuthQuerier
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,password_bytes"`
	Name     string `json:"name" validate:"required,max=150"`
}

// LoginRequest accepts the email either as "email" or as "username".
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username"`
	Password string `json:"password" validate:"required"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Success bool                  `json:"success"`
	Token   string                `json:"token"`
	User    models.AccountSummary `json:"user"`
}

func NewAuthHandler(commands RegistrationCommander, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidBody))
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	_, err := h.commands.Register(c.Request.Context(), cqrs.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			middleware.RespondWithError(c, http.StatusBadRequest, i18n.T(c, i18n.MsgEmailInUse))
			return
		}
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, i18n.T(c, i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		Success: true,
		Message: i18n.T(c, i18n.MsgRegistered),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidBody))
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	email := req.Email
	if email == "" {
		email = req.Username
	}

	session, err := h.queries.Login(c.Request.Context(), cqrs.LoginCommand{
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			middleware.RespondWithError(c, http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidCredentials))
			return
		}
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, i18n.T(c, i18n.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Token:   session.Token,
		User:    session.User,
	})
}
