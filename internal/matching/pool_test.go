package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fernwerk/orgmatch/internal/logging"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

func TestPoolLoader_FiltersByTenant(t *testing.T) {
	store := newMockStore()
	seedCompany(store, "c1", "org1", "Spiegel Verlag", nil)
	seedCompany(store, "c2", "org2", "Other Tenant Co", nil)

	loader := NewPoolLoader(store, logging.NewTestLogger().Zap())
	pool := loader.Load(context.Background(), "org1")

	assert.Len(t, pool, 1)
	assert.Equal(t, "c1", pool[0].ID)
}

func TestPoolLoader_ExcludesSoftDeleted(t *testing.T) {
	store := newMockStore()
	seedCompany(store, "c1", "org1", "Active", nil)
	seedCompany(store, "c2", "org1", "Deleted", map[string]any{"deleted": true})

	loader := NewPoolLoader(store, logging.NewTestLogger().Zap())
	pool := loader.Load(context.Background(), "org1")

	assert.Len(t, pool, 1)
	assert.Equal(t, "Active", pool[0].Name)
}

func TestPoolLoader_ExcludesCurated(t *testing.T) {
	store := newMockStore()
	seedCompany(store, "c1", "org1", "Tenant Owned", nil)
	seedCompany(store, "c2", "org1", "Curated Origin", map[string]any{"origin": string(tenant.OriginCurated)})
	seedCompany(store, "c3", "org1", "Legacy Flag", map[string]any{"origin": nil, "isReference": true})
	store.Seed(tenant.CollectionCompanies, tenant.CuratedIDPrefix+"legacy1", map[string]any{
		"name":           "Legacy Prefix",
		"organizationId": "org1",
		"deleted":        false,
	})

	loader := NewPoolLoader(store, logging.NewTestLogger().Zap())
	pool := loader.Load(context.Background(), "org1")

	assert.Len(t, pool, 1)
	assert.Equal(t, "Tenant Owned", pool[0].Name)
}

func TestPoolLoader_StoreFailureMeansEmptyPool(t *testing.T) {
	store := newMockStore()
	store.queryErr = errors.New("store unreachable")
	logger := logging.NewTestLogger()

	loader := NewPoolLoader(store, logger.Zap())
	pool := loader.Load(context.Background(), "org1")

	assert.Empty(t, pool)
	assert.NotEmpty(t, logger.FilterMessage("company pool unavailable, treating as empty").All())
}

func TestPoolLoader_ReturnsWebsites(t *testing.T) {
	store := newMockStore()
	seedCompany(store, "c1", "org1", "Spiegel Verlag", map[string]any{"website": "spiegel.de"})

	loader := NewPoolLoader(store, logging.NewTestLogger().Zap())
	pool := loader.Load(context.Background(), "org1")

	assert.Len(t, pool, 1)
	assert.Equal(t, "spiegel.de", pool[0].Website)
}
