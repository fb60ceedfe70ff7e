package matching

import (
	"context"

	"github.com/fernwerk/orgmatch/internal/docstore"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

// ===== MOCK STORE =====

// mockStore wraps MemoryStore with failure injection for the error
// handling paths.
type mockStore struct {
	*docstore.MemoryStore
	queryErr  error // returned by every Query when set
	createErr error // returned by Create/CreateUnique when set
}

func newMockStore() *mockStore {
	return &mockStore{MemoryStore: docstore.NewMemoryStore()}
}

func (m *mockStore) Query(ctx context.Context, collection string, filters []docstore.Filter) ([]docstore.Document, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.MemoryStore.Query(ctx, collection, filters)
}

func (m *mockStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.MemoryStore.Create(ctx, collection, fields)
}

func (m *mockStore) CreateUnique(ctx context.Context, collection, uniqueKey string, fields map[string]any) (string, bool, error) {
	if m.createErr != nil {
		return "", false, m.createErr
	}
	return m.MemoryStore.CreateUnique(ctx, collection, uniqueKey, fields)
}

// ===== FIXTURES =====

// seedCompany inserts a company record for tenantID.
func seedCompany(s *mockStore, id, tenantID, name string, extra map[string]any) {
	fields := map[string]any{
		"name":           name,
		"organizationId": tenantID,
		"deleted":        false,
		"origin":         string(tenant.OriginTenant),
	}
	for k, v := range extra {
		fields[k] = v
	}
	s.Seed(tenant.CollectionCompanies, id, fields)
}

// seedContact inserts a linked contact with an email list and optional
// company reference.
func seedContact(s *mockStore, id, tenantID, companyID string, emails []string, extra map[string]any) {
	list := make([]any, len(emails))
	for i, e := range emails {
		list[i] = map[string]any{"email": e}
	}
	fields := map[string]any{
		"organizationId": tenantID,
		"deleted":        false,
		"emails":         list,
	}
	if companyID != "" {
		fields["companyId"] = companyID
	}
	for k, v := range extra {
		fields[k] = v
	}
	s.Seed(tenant.CollectionContacts, id, fields)
}

// variantWithName builds a minimal variant carrying a company name.
func variantWithName(name string) CandidateVariant {
	return CandidateVariant{
		OrganizationID: "org1",
		ContactData:    ContactData{CompanyName: name},
	}
}
