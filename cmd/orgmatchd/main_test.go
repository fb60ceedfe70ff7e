package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/config"
	"github.com/fernwerk/orgmatch/internal/docstore"
)

func TestTelemetryConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.EnableTelemetry = true
	cfg.Observability.Endpoint = "localhost:4317"
	cfg.Observability.ServiceName = "orgmatchd-test"

	tc := telemetryConfig(cfg)
	assert.True(t, tc.Enabled)
	assert.Equal(t, "localhost:4317", tc.Endpoint)
	assert.Equal(t, "orgmatchd-test", tc.ServiceName)
}

func TestTelemetryConfig_DisabledWithoutEndpoint(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.EnableTelemetry = true
	cfg.Observability.Endpoint = ""

	tc := telemetryConfig(cfg)
	assert.False(t, tc.Enabled)
}

func TestOpenStore_InMemory(t *testing.T) {
	cfg := config.Default()
	cfg.Store.InMemory = true

	store, err := openStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*docstore.MemoryStore)
	assert.True(t, ok)
}

func TestOpenStore_Badger(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = t.TempDir()

	store, err := openStore(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
