// Package app assembles the adapters and services shared by the commands.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gravadigital/convite-api/internal/ai"
	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/blob"
	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/ratelimit"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/services"
	"github.com/gravadigital/convite-api/internal/storage"
)

// App holds everything a command needs
type App struct {
	Config        *config.Config
	Storage       storage.Container
	Services      *services.Services
	Issuer        *auth.Issuer
	Hub           *realtime.Hub
	Metrics       *metrics.Metrics
	PublicLimiter ratelimit.Limiter
	UnlockLimiter ratelimit.Limiter

	redis *redis.Client
}

// New connects storage, blobs, the model client and the rate limiters
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.InsecureJWTSecret() {
		log.Warn("JWT_SECRET is empty, short or the default; tokens can be forged outside development")
	}

	factory, err := storage.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := factory.CreateContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	blobs, err := blob.New(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	var generator ai.Generator = ai.Disabled{}
	if cfg.AI.APIKey != "" {
		gemini, err := ai.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		generator = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, message generation disabled")
	}

	a := &App{
		Config:  cfg,
		Storage: store,
		Issuer:  auth.NewIssuer(cfg.Auth.JWTSecret),
		Hub:     realtime.NewHub(32),
		Metrics: metrics.New(),
	}

	if cfg.Redis.Addr != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		a.redis = client
		a.PublicLimiter = ratelimit.NewRedis(client, cfg.RateLimit.PublicPerMinute, time.Minute)
		a.UnlockLimiter = ratelimit.NewRedis(client, cfg.RateLimit.UnlockPerMinute, time.Minute)
		log.Info("Using redis rate limiter", "addr", cfg.Redis.Addr)
	} else {
		a.PublicLimiter = ratelimit.NewMemory(cfg.RateLimit.PublicPerMinute, time.Minute)
		a.UnlockLimiter = ratelimit.NewMemory(cfg.RateLimit.UnlockPerMinute, time.Minute)
	}

	a.Services = services.New(cfg, services.Dependencies{
		Storage:   store,
		Blobs:     blobs,
		Generator: generator,
		Issuer:    a.Issuer,
		Publisher: a.Hub,
		Metrics:   a.Metrics,
	})

	log.Info("Application initialized",
		"storage", cfg.DB.Driver,
		"blob", cfg.Blob.Driver,
		"fuzzy_match", cfg.RSVP.FuzzyMatch,
	)
	return a, nil
}

// Sweep prunes idle in-memory rate limit windows until ctx ends
func (a *App) Sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, l := range []ratelimit.Limiter{a.PublicLimiter, a.UnlockLimiter} {
				if m, ok := l.(*ratelimit.Memory); ok {
					m.Sweep()
				}
			}
		}
	}
}

// Close releases storage and redis connections
func (a *App) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	return a.Storage.Close()
}
