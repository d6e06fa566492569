package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/shared/middleware"
)

// Pinger reports whether the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth           *AuthHandler
	Customers      *CustomerHandler
	Resolver       middleware.TokenResolver
	DB             Pinger
	Logger         zerolog.Logger
	AllowedOrigins []string
}

const healthTimeout = 2 * time.Second

// NewRouter builds the API engine. Routes keep their trailing slash; gin
// redirects the bare form.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(cfg.Logger))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", healthHandler(cfg.DB))

	api := router.Group("/api")
	{
		api.POST("/register/", cfg.Auth.Register)
		api.POST("/login/", cfg.Auth.Login)

		customers := api.Group("/customers", middleware.AuthMiddleware(cfg.Resolver))
		customers.GET("/", cfg.Customers.ListCustomers)
		customers.POST("/send/", cfg.Customers.SendConfirmation)
	}

	return router
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
