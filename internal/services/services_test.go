package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/blob"
	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/storage/memory"
)

const (
	testAdminEmail    = "noivos@example.com"
	testAdminPassword = "casamento2026"
)

type recorder struct {
	mu      sync.Mutex
	changes []realtime.Change
}

func (r *recorder) Publish(c realtime.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) last() realtime.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.changes) == 0 {
		return realtime.Change{}
	}
	return r.changes[len(r.changes)-1]
}

type fixture struct {
	store   *memory.Container
	blobs   *blob.Inline
	events  *recorder
	metrics *metrics.Metrics
	issuer  *auth.Issuer
	svc     *Services
}

func newFixture(t *testing.T, configure ...func(*config.Config)) *fixture {
	t.Helper()

	hash, err := auth.HashPassword(testAdminPassword)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AdminEmail = testAdminEmail
	cfg.Auth.AdminPasswordHash = hash
	cfg.Auth.AdminTokenTTL = time.Hour
	cfg.Auth.ManualTokenTTL = time.Hour
	cfg.Upload.MaxFileSize = 1 << 20
	for _, fn := range configure {
		fn(cfg)
	}

	f := &fixture{
		store:   memory.NewContainer(),
		blobs:   blob.NewInline(),
		events:  &recorder{},
		metrics: metrics.New(),
		issuer:  auth.NewIssuer(cfg.Auth.JWTSecret),
	}
	f.svc = New(cfg, Dependencies{
		Storage:   f.store,
		Blobs:     f.blobs,
		Issuer:    f.issuer,
		Publisher: f.events,
		Metrics:   f.metrics,
	})
	return f
}

func (f *fixture) invitee(t *testing.T, name string, limit int) *invitee.Invitee {
	t.Helper()
	inv := invitee.NewInvitee(name, "", "", limit)
	require.NoError(t, f.store.Invitees().Create(context.Background(), inv))
	return inv
}

func ptr[T any](v T) *T {
	return &v
}
