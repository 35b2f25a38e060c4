// Package main provides the standalone REST API server for deck
// analysis.
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

	"github.com/ramonehamilton/Deck-Analyzer/internal/api"
	"github.com/ramonehamilton/Deck-Analyzer/internal/config"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/analyzer"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cardindex"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/enrich"
	"github.com/ramonehamilton/Deck-Analyzer/internal/storage"
)

var (
	port     = flag.Int("port", 0, "API server port (overrides config)")
	dbPath   = flag.String("db-path", "", "Card cache path (default: ~/.deck-analyzer/cards.db)")
	indexURL = flag.String("index-url", "", "Card index base URL (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *indexURL != "" {
		cfg.Index.BaseURL = *indexURL
	}
	if *dbPath != "" {
		cfg.Cache.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	fmt.Println("Deck Analyzer - REST API Server")
	fmt.Println("===============================")
	fmt.Println()

	indexService, cleanup, err := buildIndexService(cfg)
	if err != nil {
		log.Fatalf("Failed to set up card index: %v", err)
	}
	defer cleanup()

	server := api.NewServer(api.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, analyzer.New(lookupOrNil(indexService)), indexService)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Printf("API server running at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}

// buildIndexService wires the card index client and its persistent
// cache. Returns a nil service when tagging is disabled.
func buildIndexService(cfg *config.Config) (*cardindex.Service, func(), error) {
	noop := func() {}
	if !cfg.Index.Enabled || cfg.Index.BaseURL == "" {
		log.Println("Card tagging disabled; roles fall back to caller-supplied values")
		return nil, noop, nil
	}

	var store cardindex.Store
	cleanup := noop
	if cfg.Cache.Enabled {
		path, err := cfg.CachePath()
		if err != nil {
			return nil, noop, err
		}
		dbConfig := storage.DefaultConfig(path)
		dbConfig.AutoMigrate = true
		db, err := storage.Open(dbConfig)
		if err != nil {
			return nil, noop, fmt.Errorf("open card cache: %w", err)
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing card cache: %v", err)
			}
		}
		store = storage.NewCardRepository(db)
		log.Printf("Card cache: %s", path)
	}

	client := cardindex.NewClient(cfg.Index.BaseURL)
	return cardindex.NewService(client, store), cleanup, nil
}

// lookupOrNil converts a possibly-nil service into the analyzer's
// lookup dependency. A typed nil would defeat the analyzer's nil check.
func lookupOrNil(service *cardindex.Service) enrich.Lookup {
	if service == nil {
		return nil
	}
	return service
}
