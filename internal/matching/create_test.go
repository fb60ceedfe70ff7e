package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwerk/orgmatch/internal/docstore"
	"github.com/fernwerk/orgmatch/internal/logging"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

func creator(store *mockStore) *EntityCreator {
	return NewEntityCreator(store, logging.NewTestLogger().Zap())
}

func TestCompletenessScore(t *testing.T) {
	full := ContactData{
		Emails:          []Email{{Email: "a@b.de"}},
		Phones:          []string{"+49 40 1234"},
		Position:        "Redakteurin",
		CompanyName:     "Spiegel Verlag",
		Website:         "spiegel.de",
		Beats:           []string{"Politik"},
		SocialProfiles:  []SocialProfile{{URL: "https://x.com/a"}},
		HasMediaProfile: true,
	}
	assert.Equal(t, 100, completenessScore(full))
	assert.Equal(t, 0, completenessScore(ContactData{}))
	assert.Equal(t, 35, completenessScore(ContactData{
		Emails:      []Email{{Email: "a@b.de"}},
		CompanyName: "Spiegel Verlag",
	}))
}

func TestSelectMostComplete_TieKeepsFirst(t *testing.T) {
	a := CandidateVariant{ContactID: "a", ContactData: ContactData{CompanyName: "X"}}
	b := CandidateVariant{ContactID: "b", ContactData: ContactData{CompanyName: "Y"}}

	winner, ok := selectMostComplete([]CandidateVariant{a, b})
	require.True(t, ok)
	assert.Equal(t, "a", winner.ContactID)
}

func TestSelectMostComplete_PrefersRicherVariant(t *testing.T) {
	sparse := CandidateVariant{ContactID: "sparse", ContactData: ContactData{CompanyName: "Spiegel"}}
	rich := CandidateVariant{ContactID: "rich", ContactData: ContactData{
		CompanyName: "Spiegel Verlag",
		Website:     "spiegel.de",
		Emails:      []Email{{Email: "a@spiegel.de"}},
	}}

	winner, ok := selectMostComplete([]CandidateVariant{sparse, rich})
	require.True(t, ok)
	assert.Equal(t, "rich", winner.ContactID)
}

func TestEntityCreator_CreatesTenantOwnedRecord(t *testing.T) {
	store := newMockStore()
	result, err := creator(store).Create(context.Background(), []CandidateVariant{
		{ContactData: ContactData{
			CompanyName: "Spiegel Verlag",
			Website:     "https://spiegel.de",
		}},
	}, "org1", "user1", false)
	require.NoError(t, err)

	assert.Equal(t, MethodCreatedNew, result.Method)
	assert.Equal(t, TierLow, result.Confidence)
	assert.True(t, result.WasCreated)
	assert.Equal(t, "Spiegel Verlag", result.CompanyName)
	require.NotEmpty(t, result.CompanyID)

	docs, err := store.Query(context.Background(), tenant.CollectionCompanies,
		[]docstore.Filter{docstore.Eq("organizationId", "org1")})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	fields := docs[0].Fields
	assert.Equal(t, "Spiegel Verlag", fields["name"])
	assert.Equal(t, "Spiegel Verlag", fields["officialName"])
	assert.Equal(t, "publisher", fields["type"])
	assert.Equal(t, false, fields["isReference"])
	assert.Equal(t, string(tenant.OriginTenant), fields["origin"])
	assert.Equal(t, false, fields["deleted"])
	assert.Equal(t, "user1", fields["createdBy"])
	assert.Equal(t, false, fields["isGlobal"])
	assert.Equal(t, "https://spiegel.de", fields["website"])
	assert.NotEmpty(t, fields["createdAt"])
}

func TestEntityCreator_AutoGlobalMode(t *testing.T) {
	store := newMockStore()
	_, err := creator(store).Create(context.Background(),
		[]CandidateVariant{variantWithName("Spiegel Verlag")}, "org1", "user1", true)
	require.NoError(t, err)

	docs, _ := store.Query(context.Background(), tenant.CollectionCompanies, nil)
	require.Len(t, docs, 1)
	assert.Equal(t, true, docs[0].Fields["isGlobal"])
}

func TestEntityCreator_NamelessVariantsYieldNone(t *testing.T) {
	store := newMockStore()
	result, err := creator(store).Create(context.Background(), []CandidateVariant{
		{ContactData: ContactData{DisplayName: "Anna Mueller", Emails: []Email{{Email: "a@spiegel.de"}}}},
	}, "org1", "user1", false)
	require.NoError(t, err)

	assert.Empty(t, result.CompanyID)
	assert.Equal(t, TierNone, result.Confidence)
	assert.Equal(t, MethodNone, result.Method)
	assert.False(t, result.WasCreated)

	docs, _ := store.Query(context.Background(), tenant.CollectionCompanies, nil)
	assert.Empty(t, docs, "no write attempted without a name")
}

func TestEntityCreator_WriteFailureIsFatal(t *testing.T) {
	store := newMockStore()
	store.createErr = errors.New("write rejected")

	_, err := creator(store).Create(context.Background(),
		[]CandidateVariant{variantWithName("Spiegel Verlag")}, "org1", "user1", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write rejected")
}

func TestEntityCreator_ConvergesOnUniquenessKey(t *testing.T) {
	store := newMockStore()
	c := creator(store)

	first, err := c.Create(context.Background(),
		[]CandidateVariant{variantWithName("Spiegel Verlag")}, "org1", "user1", false)
	require.NoError(t, err)
	second, err := c.Create(context.Background(),
		[]CandidateVariant{variantWithName("  spiegel   VERLAG ")}, "org1", "user2", false)
	require.NoError(t, err)

	assert.True(t, first.WasCreated)
	assert.False(t, second.WasCreated)
	assert.Equal(t, first.CompanyID, second.CompanyID)

	docs, _ := store.Query(context.Background(), tenant.CollectionCompanies, nil)
	assert.Len(t, docs, 1)
}
