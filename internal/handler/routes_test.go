package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledger/internal/command"
	"github.com/ledgerdesk/ledger/internal/query"
	"github.com/ledgerdesk/ledger/internal/repository/repotest"
	"github.com/ledgerdesk/ledger/shared/events"
	"github.com/ledgerdesk/ledger/shared/models"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestAPI(store *repotest.Store, db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()

	registration := command.NewRegistrationCommandService(store.Accounts(), events.NopPublisher{}, logger)
	customerCmds := command.NewCustomerCommandService(store.Customers(), events.NopPublisher{}, logger)
	authQueries := query.NewAuthQueryService(store.Accounts(), store.Tokens(), logger)
	customerQueries := query.NewCustomerQueryService(store.Customers())

	return NewRouter(RouterConfig{
		Auth:           NewAuthHandler(registration, authQueries),
		Customers:      NewCustomerHandler(customerCmds, customerQueries),
		Resolver:       authQueries,
		DB:             db,
		Logger:         logger,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func registerAndLogin(t *testing.T, router *gin.Engine, email, name string) (string, int64) {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/register/",
		map[string]interface{}{"email": email, "password": "secret-pw", "name": name}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/login/",
		map[string]interface{}{"username": email, "password": "secret-pw"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func TestAPIFlow(t *testing.T) {
	store := repotest.NewStore()
	router := newTestAPI(store, fakePinger{})

	u1Token, u1 := registerAndLogin(t, router, "u1@example.com", "User One")
	u2Token, u2 := registerAndLogin(t, router, "u2@example.com", "User Two")

	store.SeedCustomer(models.Customer{AccountID: u1, ExternalID: "cust_101", Name: "C1", Balance: decimal.NewFromInt(5), Status: models.CustomerStatusConfirmed})
	store.SeedCustomer(models.Customer{AccountID: u1, ExternalID: "cust_102", Name: "C2", Balance: decimal.NewFromInt(6), Status: models.CustomerStatusRejected})
	store.SeedCustomer(models.Customer{AccountID: u2, ExternalID: "cust_201", Name: "C3", Balance: decimal.NewFromInt(7), Status: models.CustomerStatusConfirmed})

	w := doRequest(router, http.MethodGet, "/api/customers/", nil, map[string]string{"Authorization": "Token " + u1Token})
	require.Equal(t, http.StatusOK, w.Code)
	var views []models.CustomerView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "cust_101", views[0].ID)
	assert.Equal(t, "cust_102", views[1].ID)

	w = doRequest(router, http.MethodPost, "/api/customers/send/",
		map[string]interface{}{"customerIds": []string{"cust_101", "cust_201"}, "message": "Please confirm"},
		map[string]string{"Authorization": "Bearer " + u1Token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Requests sent to 2 selected customers.", decodeBody(t, w)["message"])

	c1, _ := store.Customer("cust_101")
	c2, _ := store.Customer("cust_102")
	c3, _ := store.Customer("cust_201")
	assert.Equal(t, models.CustomerStatusPending, c1.Status)
	assert.Equal(t, models.CustomerStatusRejected, c2.Status)
	assert.Equal(t, models.CustomerStatusConfirmed, c3.Status)

	w = doRequest(router, http.MethodGet, "/api/customers/", nil, map[string]string{"Authorization": "Token " + u2Token})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "cust_201", views[0].ID)
}

func TestAPIDuplicateRegistration(t *testing.T) {
	store := repotest.NewStore()
	router := newTestAPI(store, fakePinger{})

	body := map[string]interface{}{"email": "dup@example.com", "password": "pw", "name": "Dup"}
	require.Equal(t, http.StatusCreated, doRequest(router, http.MethodPost, "/api/register/", body, nil).Code)

	body["email"] = "DUP@Example.com"
	w := doRequest(router, http.MethodPost, "/api/register/", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "This email address is already in use.", resp["message"])
	assert.Equal(t, 1, store.AccountCount())
}

func TestAPIRegisterLongPassword(t *testing.T) {
	store := repotest.NewStore()
	router := newTestAPI(store, fakePinger{})

	w := doRequest(router, http.MethodPost, "/api/register/",
		map[string]interface{}{"email": "long@example.com", "password": strings.Repeat("a", 80), "name": "Long"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, false, decodeBody(t, w)["success"])
	assert.Equal(t, 0, store.AccountCount())
}

func TestAPILoginReusesToken(t *testing.T) {
	router := newTestAPI(repotest.NewStore(), fakePinger{})
	first, _ := registerAndLogin(t, router, "reuse@example.com", "Reuse")

	w := doRequest(router, http.MethodPost, "/api/login/",
		map[string]interface{}{"email": "REUSE@example.com", "password": "secret-pw"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, decodeBody(t, w)["token"])
}

func TestAPIUnknownEmailAndWrongPasswordLookTheSame(t *testing.T) {
	router := newTestAPI(repotest.NewStore(), fakePinger{})
	registerAndLogin(t, router, "known@example.com", "Known")

	wrongPassword := doRequest(router, http.MethodPost, "/api/login/",
		map[string]interface{}{"email": "known@example.com", "password": "nope"}, nil)
	unknownEmail := doRequest(router, http.MethodPost, "/api/login/",
		map[string]interface{}{"email": "ghost@example.com", "password": "secret-pw"}, nil)

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAPIAuthorizationSchemes(t *testing.T) {
	router := newTestAPI(repotest.NewStore(), fakePinger{})
	token, _ := registerAndLogin(t, router, "scheme@example.com", "Scheme")

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "token scheme", header: "Token " + token, expectedStatus: http.StatusOK},
		{name: "bearer scheme", header: "Bearer " + token, expectedStatus: http.StatusOK},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic " + token, expectedStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Token ffffffffffffffffffffffffffffffffffffffff", expectedStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := doRequest(router, http.MethodGet, "/api/customers/", nil, headers)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if w.Code == http.StatusUnauthorized {
				assert.Equal(t, false, decodeBody(t, w)["success"])
			}
		})
	}
}

func TestAPIRedirectsBarePaths(t *testing.T) {
	router := newTestAPI(repotest.NewStore(), fakePinger{})

	w := doRequest(router, http.MethodPost, "/api/register", map[string]interface{}{}, nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/api/register/", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		db             Pinger
		expectedStatus int
		expectedBody   string
	}{
		{name: "database reachable", db: fakePinger{}, expectedStatus: http.StatusOK, expectedBody: "ok"},
		{name: "database down", db: fakePinger{err: errors.New("dial tcp: connection refused")}, expectedStatus: http.StatusServiceUnavailable, expectedBody: "unavailable"},
		{name: "no database configured", db: nil, expectedStatus: http.StatusOK, expectedBody: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestAPI(repotest.NewStore(), tt.db)
			w := doRequest(router, http.MethodGet, "/health", nil, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeBody(t, w)["status"])
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestAPI(repotest.NewStore(), fakePinger{})

	w := doRequest(router, http.MethodOptions, "/api/login/", nil, map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
