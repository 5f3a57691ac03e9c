package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pokegame/internal/achievement"
	"pokegame/internal/capture"
	"pokegame/internal/catalog"
	"pokegame/internal/combat"
	"pokegame/internal/economy"
	"pokegame/internal/encounter"
	"pokegame/internal/identity"
	"pokegame/internal/platform/config"
	"pokegame/internal/platform/httpserver"
	"pokegame/internal/platform/logger"
	"pokegame/internal/platform/metrics"
	"pokegame/internal/platform/postgres"
	"pokegame/internal/platform/redis"
	"pokegame/internal/player"
	"pokegame/internal/progression"
	"pokegame/internal/roster"
	httptransport "pokegame/internal/transport/http"
	"pokegame/pkg/platform/rng"
	"pokegame/pkg/platform/tx"
)

const jwtIssuer = "pokegame"

// main wires the dependency graph and owns the server lifecycle. Business
// logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		// Redis only backs the leaderboard cache; run without it.
		log.Warn("redis unavailable, leaderboard cache disabled", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	random, err := rng.New()
	if err != nil {
		log.Error("rng init failed", "error", err)
		os.Exit(1)
	}

	playerStore := player.NewPostgres(db)
	rosterStore := roster.NewPostgres(db)
	stockStore := economy.NewPostgres(db)
	badgeStore := achievement.NewPostgres(db)
	catalogStore := catalog.NewPostgres(db)
	runner := tx.NewDBRunner(db)

	provider := catalog.NewProvider(catalogStore, cfg.CatalogTTL)
	growth := progression.NewGrowthTable(catalogStore, cfg.CatalogTTL)
	engine := progression.NewEngine(growth, random)

	rosterMgr := roster.NewManager(rosterStore, runner)
	ledger := economy.NewLedger(stockStore, playerStore, provider, runner)
	tracker := achievement.NewTracker(badgeStore, playerStore, provider, runner)

	var cache player.LeaderboardCache
	if rdb != nil {
		cache = rdb.Client
	}
	players := player.NewService(playerStore, stockStore, cache, runner)

	generator := encounter.NewGenerator(provider, random)
	captures := capture.NewResolver(ledger, rosterMgr, tracker, engine, provider,
		capture.DefaultFleePolicy, random, runner)
	battles := combat.NewService(combat.NewResolver(random), engine, rosterMgr,
		ledger, tracker, provider, runner)

	jwtSvc := identity.NewJWTService(cfg.JWTSigningKey, jwtIssuer)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	handler := httptransport.New(log, m, jwtSvc, jwtSvc, generator, captures,
		battles, rosterMgr, players, ledger, tracker, provider)
	router := httptransport.NewRouter(handler, reg)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
