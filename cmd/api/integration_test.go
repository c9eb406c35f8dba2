//go:build integration
// +build integration

package main

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/storage/gormstore"
	"github.com/gravadigital/convite-api/internal/storage/migrations"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.DB.Driver = gormstore.DriverPostgres

	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	db, err := gormstore.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer gormstore.Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping(), "Should be able to ping the database")
}

func TestDatabaseMigration(t *testing.T) {
	db, err := gormstore.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer gormstore.Close(db)

	assert.NoError(t, gormstore.AutoMigrate(db), "Should be able to run migrations")

	applied, err := migrations.Applied(db)
	require.NoError(t, err)
	assert.Len(t, applied, len(migrations.GetMigrations()))
}

func TestContainerRoundTrip(t *testing.T) {
	c, err := gormstore.NewContainer(testConfig())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	inv := invitee.NewInvitee("Integração Teste", "", "", 2)
	require.NoError(t, c.Invitees().Create(ctx, inv))
	defer c.Invitees().Delete(ctx, inv.ID)

	got, err := c.Invitees().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "integração teste", got.NormalizedName)
	assert.NoError(t, c.Health(ctx))
}
