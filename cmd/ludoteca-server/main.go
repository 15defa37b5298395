// Package main implements the ludoteca server: server-rendered pages for
// recording board games and the matches played with them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ludoteca/cmd/ludoteca-server/cli"
	"ludoteca/internal/server/http"
	"ludoteca/internal/server/storage"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:], os.Stdout); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	defaults := http.DefaultConfig()

	// Command-line flags
	var (
		host           = flag.String("host", "localhost", "Server host")
		port           = flag.Int("port", 8080, "Server port")
		dev            = flag.Bool("dev", false, "Development mode (WAL journal, relaxed rate limits)")
		storagePath    = flag.String("storage-path", "database.db", "Path to SQLite database file")
		writeLimit     = flag.Int("write-limit", defaults.WriteLimit, "Form submissions per minute per IP (0 disables)")
		requestTimeout = flag.Duration("request-timeout", defaults.RequestTimeout, "Upper bound on storage work per request (0 disables)")
		pidPath        = flag.String("pid", "", "Optional path to write PID file")
		pidLock        = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	// Validate PID flags
	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	// Manage PID file if requested
	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Initialize storage, schema before the first request
	log.Printf("Opening storage at: %s", *storagePath)
	store, err := storage.NewStore(*storagePath, *dev)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if err := store.InitDB(); err != nil {
		store.Close()
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close storage cleanly: %v", err)
		}
	}()

	// 2. Initialize the Fiber app, injecting storage
	app, err := http.NewFiberApp(store, http.Config{
		DevMode:        *dev,
		WriteLimit:     *writeLimit,
		RequestTimeout: *requestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize HTTP handler: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", *host, *port)

	go func() {
		log.Printf("Ludoteca server starting...")
		log.Printf("Listening on: http://%s", addr)
		if *writeLimit > 0 {
			limit := *writeLimit
			if *dev {
				limit *= 2
			}
			log.Printf("Write limit: %d submissions/minute per IP", limit)
		} else {
			log.Printf("Write limit: disabled")
		}
		log.Printf("Games: http://%s/games", addr)
		log.Printf("Health: http://%s/health", addr)

		if err := app.Listen(addr); err != nil {
			log.Printf("Server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
