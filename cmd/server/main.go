/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the statement ledger server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (environment + flags)
  2. Initialize SQLite store
  3. Build user and ledger services
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  RUN_ADDRESS    HTTP listen address (default :8080), flag -addr
  DATABASE_PATH  SQLite database path (default ledger.db), flag -db
                 Use ":memory:" for an in-memory database
  TOKEN_SECRET   HMAC secret for session tokens
  TOKEN_TTL      Session token lifetime (default 24h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/ledger.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finbook/ledger-engine/api"
	"github.com/finbook/ledger-engine/config"
	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/store/sqlite"
	"github.com/finbook/ledger-engine/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build services
	userSvc := users.NewService(store.Users(), cfg.TokenSecret, cfg.TokenTTL)
	ledgerSvc := ledger.NewService(users.Directory{Store: store.Users()}, store)

	// Create router
	handler := api.NewHandler(ledgerSvc, userSvc)
	router := api.NewRouter(handler, userSvc)

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
