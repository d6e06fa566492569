package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ledgerdesk/ledger/shared/cqrs"
	"github.com/ledgerdesk/ledger/shared/i18n"
	"github.com/ledgerdesk/ledger/shared/models"
)

const accountKey = "account"

// TokenResolver maps a bearer token to the account that owns it.
type TokenResolver interface {
	Resolve(ctx context.Context, q cqrs.ResolveTokenQuery) (*models.Account, error)
}

// AuthMiddleware authenticates the request with an opaque token sent as
// "Authorization: Token <key>" or "Authorization: Bearer <key>" and stores
// the resolved account on the context.
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			RespondWithError(c, http.StatusUnauthorized, i18n.T(c, i18n.MsgAuthRequired))
			c.Abort()
			return
		}

		token, ok := ExtractToken(authHeader)
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, i18n.T(c, i18n.MsgInvalidToken))
			c.Abort()
			return
		}

		account, err := resolver.Resolve(c.Request.Context(), cqrs.ResolveTokenQuery{Token: token})
		if err != nil {
			if errors.Is(err, models.ErrUnauthenticated) {
				RespondWithError(c, http.StatusUnauthorized, i18n.T(c, i18n.MsgInvalidToken))
			} else {
				_ = c.Error(err)
				RespondWithError(c, http.StatusInternalServerError, i18n.T(c, i18n.MsgInternalError))
			}
			c.Abort()
			return
		}

		SetAccount(c, account)
		c.Next()
	}
}

// ExtractToken returns the key from a "Token <key>" or "Bearer <key>" header.
func ExtractToken(authHeader string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

// GetAccount returns the account stored by AuthMiddleware.
func GetAccount(c *gin.Context) (*models.Account, bool) {
	value, exists := c.Get(accountKey)
	if !exists {
		return nil, false
	}
	account, ok := value.(*models.Account)
	return account, ok
}

// SetAccount stores an authenticated account on the context.
func SetAccount(c *gin.Context, account *models.Account) {
	c.Set(accountKey, account)
}
