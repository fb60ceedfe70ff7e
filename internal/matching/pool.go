package matching

import (
	"context"

	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/docstore"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

// PoolLoader loads the tenant's matchable company records.
type PoolLoader struct {
	store  docstore.Store
	logger *zap.Logger
}

// NewPoolLoader creates a pool loader.
func NewPoolLoader(store docstore.Store, logger *zap.Logger) *PoolLoader {
	return &PoolLoader{store: store, logger: logger}
}

// Load returns the tenant's companies eligible as matching targets:
// owned by the tenant, not soft-deleted, not curated. A store failure is
// recovered as an empty pool so the cascade can still fall through to
// creation; availability wins over consistency here.
func (l *PoolLoader) Load(ctx context.Context, tenantID string) []PoolCompany {
	docs, err := l.store.Query(ctx, tenant.CollectionCompanies, []docstore.Filter{
		docstore.Eq("organizationId", tenantID),
		docstore.NotEq("deleted", true),
	})
	if err != nil {
		l.logger.Warn("company pool unavailable, treating as empty",
			zap.String("tenant", tenantID),
			zap.Error(err))
		return nil
	}

	pool := make([]PoolCompany, 0, len(docs))
	for _, doc := range docs {
		if tenant.ClassifyOrigin(doc.ID, doc.Fields) == tenant.OriginCurated {
			continue
		}
		name, _ := doc.Fields["name"].(string)
		website, _ := doc.Fields["website"].(string)
		pool = append(pool, PoolCompany{ID: doc.ID, Name: name, Website: website})
	}

	l.logger.Debug("company pool loaded",
		zap.String("tenant", tenantID),
		zap.Int("pool_size", len(pool)),
		zap.Int("excluded", len(docs)-len(pool)))
	return pool
}
