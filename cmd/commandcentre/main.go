package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commandcentre/internal/access"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/gateway/adapter/inmem"
	"commandcentre/internal/gateway/adapter/proxy"
	"commandcentre/internal/gateway/adapter/redisstore"
	"commandcentre/internal/gateway/console"
	"commandcentre/internal/gateway/middleware"
	"commandcentre/internal/navigation"
	"commandcentre/internal/platform/config"
	"commandcentre/internal/platform/server"
	"commandcentre/internal/platform/telemetry"
	"commandcentre/internal/rbac"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	shutdownTelemetry, err := telemetry.Setup(context.Background(), "commandcentre")
	if err != nil {
		slog.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		slog.Error("metrics initialization failed", "error", err)
		os.Exit(1)
	}

	// Policy
	policy, err := rbac.Default()
	if err != nil {
		slog.Error("role-permission map invalid", "error", err)
		os.Exit(1)
	}
	gate := access.NewGate(policy)

	// Sessions
	var (
		sessions gw.SessionStore
		ready    []proxy.ReadinessCheck
		closers  []func(context.Context) error
	)
	switch cfg.Session.Store {
	case "redis":
		client, err := redisstore.Dial(ctx, redisstore.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		if err != nil {
			slog.Error("session store unavailable", "error", err)
			os.Exit(1)
		}
		store := redisstore.NewSessionStore(client, redisstore.DefaultPrefix)
		sessions = store
		ready = append(ready, store.Ping)
		closers = append(closers, func(context.Context) error { return client.Close() })
	default:
		store := inmem.NewSessionStore(time.Now)
		go runEvery(ctx, 5*time.Minute, store.Cleanup)
		sessions = store
	}

	// Rate limiter
	rl := inmem.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst, time.Now)
	go rl.RunCleanup(ctx, 5*time.Minute)

	// Router: resource proxy plus console endpoints
	router, err := proxy.NewRouter(cfg.BackendURL, gate, metrics, ready...)
	if err != nil {
		slog.Error("router initialization failed", "error", err)
		os.Exit(1)
	}
	console.New(gate, navigation.DefaultModules(), sessions, console.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.CookieSecure,
	}, metrics).Register(router)

	// Assemble middleware chain
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.MetricsHandler())
	mux.Handle("/", middleware.Chain(
		router,
		middleware.Metrics(metrics),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recovery,
		middleware.MaxBodySize(cfg.MaxBodyBytes),
		middleware.Authenticate([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, metrics),
		middleware.Session(sessions, cfg.Session.CookieName, metrics),
		middleware.RateLimit(rl, metrics),
	))

	srv := server.New(cfg.ListenAddr, mux, server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Idle:       cfg.Server.IdleTimeout,
		Shutdown:   cfg.Server.ShutdownTimeout,
	})
	for _, c := range closers {
		srv.OnShutdown(c)
	}
	srv.OnShutdown(shutdownTelemetry)

	slog.Info("command centre starting",
		"addr", cfg.ListenAddr,
		"backend_url", cfg.BackendURL,
		"session_store", cfg.Session.Store,
		"jwt_issuer", cfg.JWT.Issuer,
	)

	if err := srv.Run(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runEvery(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
