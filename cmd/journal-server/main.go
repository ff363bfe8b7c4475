package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inveskit/journal/internal/analyzer"
	"github.com/inveskit/journal/internal/codes"
	"github.com/inveskit/journal/internal/config"
	"github.com/inveskit/journal/internal/fetcher"
	"github.com/inveskit/journal/internal/prices"
	"github.com/inveskit/journal/internal/scheduler"
	"github.com/inveskit/journal/internal/server"
	"github.com/inveskit/journal/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] journal-server starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init stores
	var (
		tradeStore store.TradeStore
		priceStore store.PriceStore
	)
	sq, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] open sqlite failed, using in-memory store: %v", err)
		mem := store.NewMemoryStore()
		tradeStore, priceStore = mem, mem
	} else {
		tradeStore, priceStore = sq, sq
		defer sq.Close()
	}

	// Stock code table: built-in entries plus config overrides.
	table := codes.Default().Merge(cfg.Stocks)

	// Init price pipeline
	yahoo := fetcher.NewYahooFetcher(cfg.Yahoo.BaseURL, cfg.Proxy, time.Duration(cfg.Yahoo.TimeoutSeconds)*time.Second)
	log.Printf("[INFO] quote source: %s", yahoo.Name())
	priceSvc := prices.NewService(priceStore, yahoo)

	// Init analysis pipeline
	client := analyzer.NewClient(cfg.Proxy, time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
	orch := analyzer.NewOrchestrator(tradeStore, priceSvc, client, table, cfg.Analysis.APIURL)

	// Init refresh scheduler
	if cfg.Schedule.RefreshCron != "" {
		sched := scheduler.NewScheduler(priceSvc, cfg.Universe)
		if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
			log.Fatalf("[FATAL] register refresh task: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Init HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.NewServer(tradeStore, priceSvc, orch, table, cfg.Universe),
	}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	log.Println("[INFO] journal-server stopped")
}
