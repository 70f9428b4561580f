/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the LedgerFlow earnings engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Open the SQLite ledger store
  3. Load settings (defaults + quarantine on corruption, never fatal)
  4. Create the API handler with dependencies
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: ~/.ledgerflow.db)
             Use ":memory:" for an in-memory database
  -settings  Settings document path (default: ~/.ledgerflow_settings.json)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ledgerflow/earnings-engine/api"
	"github.com/ledgerflow/earnings-engine/earnings"
	"github.com/ledgerflow/earnings-engine/settings"
	"github.com/ledgerflow/earnings-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", defaultPath(".ledgerflow.db"), "SQLite database path")
	settingsPath := flag.String("settings", defaultPath(".ledgerflow_settings.json"), "Settings document path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Load settings; a broken document is quarantined and never fatal.
	settingsStore := settings.NewStore(*settingsPath)
	cfg, warning := settingsStore.Load()
	if warning != nil {
		log.Printf("Warning: %s", warning.Message)
	}

	// Initialize handler
	handler := api.NewHandler(
		earnings.NewLedger(store),
		earnings.NewPeriodManager(store),
		settingsStore,
		earnings.NewAppState(cfg),
		warning,
	)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
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

// defaultPath places a data file in the user's home directory, falling back
// to the working directory when home cannot be determined.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}
