package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"consentd/internal/consent"
	consenthandler "consentd/internal/consent/handler"
	"consentd/internal/consent/store"
	"consentd/internal/identity"
	"consentd/internal/observe"
	"consentd/internal/platform/config"
	"consentd/internal/platform/httpserver"
	"consentd/internal/platform/logger"
	"consentd/internal/platform/metrics"
	platformredis "consentd/internal/platform/redis"
	"consentd/internal/privacy"
	"consentd/internal/scopes"
	"consentd/internal/tracing"
	httptransport "consentd/internal/transport/http"
	"consentd/pkg/platform/cors"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal packages.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.ParseLevel("info")).Error("configuration error", "error", err.Error())
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	registry, stats, err := scopes.Load(log, cfg.RequireScopeBundle)
	if err != nil {
		log.Error("scope registry unusable", "error", err.Error())
		os.Exit(1)
	}
	if stats.UsedFallback {
		log.Warn("serving with built-in fallback scope list")
	}

	m := metrics.New()
	m.ScopeEntriesDrop.Add(float64(stats.Dropped))

	consentStore, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Error("store initialization failed", "store", cfg.Store, "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	var verifier identity.Verifier
	if cfg.AuthJWTSecret != "" {
		verifier = identity.NewJWTVerifier(cfg.AuthJWTSecret)
	} else {
		verifier = identity.NewRemoteVerifier(cfg.AuthBaseURL, cfg.AuthAPIKey)
	}

	hasher := privacy.NewHasher(cfg.MetricsHashPepper)
	alerter := observe.NewAlerter(cfg.AlertWebhookURL, observe.NewSampler(cfg.AlertSampleRate), log, m)
	recorder := observe.NewRecorder(log, m, hasher, alerter)

	corsOpts := cors.Options{
		AllowList: cfg.CORSAllowedOrigins,
		AllowAll:  len(cfg.CORSAllowedOrigins) == 0,
	}
	policy := consent.RatePolicy{
		Window:      time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
		MaxRequests: cfg.RateLimitMaxRequests,
		BurstMax:    cfg.RateLimitBurstMax,
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:          log,
		Consent:         consenthandler.New(log, consentStore, registry, verifier, recorder, policy, corsOpts),
		Trace:           tracing.NewHandler(log, verifier, corsOpts),
		CORS:            corsOpts,
		IPRatePerMinute: cfg.IPRateLimitPerMinute,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting consentd",
		"addr", cfg.Addr,
		"store", cfg.Store,
		"hash_version", hasher.Version(),
		"scope_count", registry.Len(),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("consentd stopped")
}

// buildStore selects the backing store for the atomic check-and-insert.
func buildStore(cfg *config.Config) (consent.Store, func(), error) {
	switch cfg.StoreKind() {
	case config.StorePostgres:
		pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(pool), pool.Close, nil
	case config.StoreRedis:
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client), func() { _ = client.Close() }, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}
