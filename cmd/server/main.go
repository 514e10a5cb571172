package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	activityHandler "cruddur/internal/activities/handler"
	activityService "cruddur/internal/activities/service"
	"cruddur/internal/cognito"
	messageHandler "cruddur/internal/messages/handler"
	messageService "cruddur/internal/messages/service"
	"cruddur/internal/platform/config"
	"cruddur/internal/platform/httpserver"
	"cruddur/internal/platform/logger"
	"cruddur/internal/platform/metrics"
	"cruddur/internal/platform/redis"
	httptransport "cruddur/internal/transport/http"
	userService "cruddur/internal/users/service"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	checks := map[string]httptransport.HealthCheck{}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var keyStore cognito.KeySetStore
	if redisClient != nil {
		defer redisClient.Close()
		keyStore = cognito.NewRedisKeySetStore(redisClient.Client)
		checks["redis"] = redisClient.Health
		log.Info("mirroring signing keys in redis")
	}

	keys, err := cognito.NewKeySetCache(cognito.KeySetConfig{
		URL:                cfg.Cognito.JWKSURL(),
		TTL:                cfg.Cognito.KeySetTTL,
		MinRefreshInterval: cfg.Cognito.MinRefreshInterval,
		HTTPTimeout:        cfg.Cognito.HTTPTimeout,
		Store:              keyStore,
		Metrics:            m,
		Logger:             log,
	})
	if err != nil {
		return fmt.Errorf("build key set cache: %w", err)
	}
	verifier, err := cognito.NewVerifier(cognito.VerifierConfig{
		Issuer:    cfg.Cognito.Issuer(),
		ClientID:  cfg.Cognito.ClientID,
		ClockSkew: cfg.Cognito.ClockSkew,
		Metrics:   m,
	}, keys)
	if err != nil {
		return fmt.Errorf("build token verifier: %w", err)
	}
	auth := cognito.NewMiddlewareAdapter(verifier)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()
	if st.health != nil {
		checks["postgres"] = st.health
	}

	users := userService.New(st.users)
	router := httptransport.NewRouter(
		httptransport.RouterConfig{
			Logger:         log,
			Metrics:        m,
			Gatherer:       reg,
			AllowedOrigins: cfg.AllowedOrigins(),
			HealthChecks:   checks,
		},
		activityHandler.New(activityService.New(st.activities, users, m, log), auth, log),
		messageHandler.New(messageService.New(st.messages, users, m), auth, log),
	)

	srv := httpserver.New(cfg.Addr, router, log)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting cruddur backend",
			"addr", cfg.Addr,
			"user_pool", cfg.Cognito.UserPoolID,
			"region", cfg.Cognito.Region,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
