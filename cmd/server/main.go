package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EscapeThePaycheck/internal/api"
	"EscapeThePaycheck/internal/archive"
	"EscapeThePaycheck/internal/config"
	"EscapeThePaycheck/internal/content"
	"EscapeThePaycheck/internal/engine"
	"EscapeThePaycheck/internal/identity"
	"EscapeThePaycheck/internal/notifier"
	"EscapeThePaycheck/internal/reporter"
	"EscapeThePaycheck/internal/scheduler"
	"EscapeThePaycheck/internal/session"
	"EscapeThePaycheck/internal/store"
	"EscapeThePaycheck/internal/transport/ws"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] Escape the Paycheck starting...")

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

	// Load content
	cat, err := content.Load(cfg.Game.ContentPack, cfg.Ranges())
	if err != nil {
		log.Fatalf("[FATAL] load content: %v", err)
	}
	if cat.Size() != cfg.Game.BoardSize {
		log.Fatalf("[FATAL] board has %d tiles, config expects %d", cat.Size(), cfg.Game.BoardSize)
	}
	log.Printf("[INFO] content loaded: %d careers, %d tiles", len(cat.Careers), cat.Size())

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath == config.MemoryDatabase {
		log.Println("[WARN] using in-memory store, history is lost on restart")
		st = store.NewMemoryStore()
	} else {
		st, err = store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] open store: %v", err)
		}
	}

	// Init outbound clients
	client := notifier.NewHTTPClient(cfg.Proxy)
	var remote reporter.RemoteSync
	if cfg.Remote.BaseURL != "" {
		remote = notifier.NewHistorySync(cfg.Remote.BaseURL, cfg.Remote.AuthToken, client, cfg.Remote.MaxRetries)
	} else {
		log.Println("[INFO] remote history sync disabled")
	}
	var poster reporter.FeedPoster
	var digest scheduler.FeedPoster
	if cfg.Feed.BaseURL != "" {
		feed := notifier.NewFeedClient(cfg.Feed.BaseURL, client, cfg.Feed.MaxRetries)
		poster, digest = feed, feed
	} else {
		log.Println("[INFO] community feed disabled")
	}

	rep := reporter.New(st, st, remote, poster)

	// Init sessions
	rules := cfg.Rules()
	sessions := session.NewRegistry(func() *engine.Engine {
		return engine.New(cat, rules, engine.WithVictoryHook(rep))
	}, rep, cfg.Server.IdleTTL)

	// Init identity
	var id identity.Resolver
	if cfg.Auth.JWTSecret != "" {
		id = identity.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		log.Println("[INFO] identity: bearer tokens")
	} else {
		id = identity.HeaderResolver{Header: cfg.Auth.TrustedHeader}
		log.Printf("[WARN] identity: trusting %s header", cfg.Auth.TrustedHeader)
	}

	// Routes
	mux := http.NewServeMux()
	h := &api.Handler{
		Sessions: sessions,
		Catalog:  cat,
		Identity: id,
		History:  st,
		Sharer:   rep,
	}
	h.Routes(mux)
	mux.HandleFunc("GET /ws", ws.NewServer(sessions, id, cat.Size(), cfg.Server.StepDelay).Handler())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	arch := archive.NewArchiver(st, cfg.Archive.Dir)
	sched := scheduler.NewScheduler(ctx, sessions, arch, st, digest)
	if err := sched.RegisterAll(cfg.Schedule.SweepCron, cfg.Schedule.ArchiveCron, cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()
	log.Printf("[INFO] Escape the Paycheck listening on %s. Press Ctrl+C to stop.", cfg.Server.Addr)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	sched.Stop()
	sched.RunArchiveNow()
	cancel()
	rep.Wait()
	if err := arch.Close(); err != nil {
		log.Printf("[WARN] close archive: %v", err)
	}
	if err := st.Close(); err != nil {
		log.Printf("[WARN] close store: %v", err)
	}
	log.Println("[INFO] Escape the Paycheck stopped")
}
