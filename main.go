package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// app holds the injected collaborators for all handlers. The store is
// constructed in main and closed on shutdown; nothing here is package-global.
type app struct {
	store Store
	log   *logrus.Logger
}

func main() {
	// Load env from .env if present; real env vars win.
	godotenv.Load()

	log := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}

	a := &app{store: store, log: log}
	router := a.routes(getEnvOrDefault("CORS_ORIGIN", "http://localhost:3000"))

	port := getEnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.WithField("port", port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("store shutdown")
	}
}

// openStore builds the configured Store implementation. MongoDB is the
// default; STORE=memory runs everything against the in-process store for
// local development.
func openStore(ctx context.Context, log *logrus.Logger) (Store, error) {
	if getEnvOrDefault("STORE", "mongo") == "memory" {
		log.Warn("using in-memory store; data will not survive a restart")
		return newMemStore(), nil
	}

	uri := getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017")
	dbName := getEnvOrDefault("MONGODB_DB", "mineralbooks")

	// Connect with retry so the service tolerates the database coming up
	// after it does.
	const maxRetries = 30
	const retryInterval = 2 * time.Second

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		store, err := newMongoStore(connectCtx, uri, dbName)
		cancel()
		if err == nil {
			log.WithField("db", dbName).Info("connected to mongodb")
			return store, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", i+1).Warn("mongodb connect failed")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, lastErr
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// requestLogger tags each request with an id and logs its outcome.
func (a *app) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		c.Next()

		a.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	}
}

// routes wires the full HTTP surface.
func (a *app) routes(corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(a.requestLogger())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Properties
	r.GET("/api/properties", a.getProperties)
	r.GET("/api/properties/:id", a.getProperty)
	r.GET("/api/properties/state/:state", a.getPropertiesByState)
	r.POST("/api/properties", a.createProperty)
	r.PUT("/api/properties/:id", a.updateProperty)
	r.PUT("/api/properties/:id/address", a.updatePropertyAddress)
	r.DELETE("/api/properties/:id", a.deleteProperty)

	// Companies
	r.GET("/api/companies", a.getCompanies)
	r.GET("/api/companies/:id", a.getCompany)
	r.POST("/api/companies", a.createCompany)
	r.PUT("/api/companies/:id", a.updateCompany)
	r.DELETE("/api/companies/:id", a.deleteCompany)

	// Accounts
	r.GET("/api/accounts", a.getAccounts)
	r.GET("/api/accounts/:id", a.getAccount)
	r.GET("/api/accounts/type/:type", a.getAccountsByType)
	r.GET("/api/accounts/bank/:bank", a.getAccountsByBank)
	r.GET("/api/accounts/active", a.getActiveAccounts)
	r.GET("/api/accounts/inactive", a.getInactiveAccounts)
	r.GET("/api/accounts/total-balance", a.getTotalBalance)
	r.POST("/api/accounts", a.createAccount)
	r.PUT("/api/accounts/:id", a.updateAccount)
	r.DELETE("/api/accounts/:id", a.deleteAccount)

	// Transactions
	r.GET("/api/transactions", a.getTransactions)
	r.GET("/api/transactions/:id", a.getTransaction)
	r.GET("/api/transactions/total/:property_id", a.getTransactionTotal)
	r.POST("/api/transactions", a.createTransaction)
	r.PUT("/api/transactions/:id", a.updateTransaction)
	r.DELETE("/api/transactions/:id", a.deleteTransaction)

	// Company ownership
	r.GET("/api/company-ownership", a.getOwnerships)
	r.GET("/api/company-ownership/:id", a.getOwnership)
	r.GET("/api/company-ownership/current", a.getCurrentOwnerships)
	r.GET("/api/company-ownership/historical", a.getHistoricalOwnerships)
	r.GET("/api/company-ownership/range", a.getOwnershipsInDateRange)
	r.GET("/api/company-ownership/total/:property_id", a.getTotalOwnershipPercentage)
	r.POST("/api/company-ownership", a.createOwnership)
	r.PUT("/api/company-ownership/:id", a.updateOwnership)
	r.DELETE("/api/company-ownership/:id", a.deleteOwnership)

	// Entries
	r.GET("/api/entries", a.getEntries)
	r.GET("/api/entries/:id", a.getEntry)
	r.POST("/api/entries", a.createEntry)
	r.PUT("/api/entries/:id", a.updateEntry)
	r.DELETE("/api/entries/:id", a.deleteEntry)
	r.POST("/api/entries/:id/transactions/:transaction_id", a.addTransactionToEntry)
	r.DELETE("/api/entries/:id/transactions/:transaction_id", a.removeTransactionFromEntry)

	return r
}
