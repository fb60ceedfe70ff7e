package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwerk/orgmatch/internal/logging"
)

func analyzer(store *mockStore) *PatternAnalyzer {
	return NewPatternAnalyzer(store, DefaultPolicy(), logging.NewTestLogger().Zap())
}

func TestPatternAnalyzer_DomainCorroboration(t *testing.T) {
	store := newMockStore()
	seedCompany(store, "c1", "org1", "Spiegel Verlag", nil)
	seedContact(store, "k1", "org1", "c1", []string{"anna@spiegel.de"}, nil)
	seedContact(store, "k2", "org1", "c1", []string{"ben@spiegel.de"}, nil)

	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag"}}
	signals := SignalSet{EmailDomains: []string{"spiegel.de"}}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")

	require.NotNil(t, analysis.Top)
	assert.Equal(t, "c1", analysis.Top.ID)
	// Two corroborating contacts at 1.0 each: count 2.0 → confidence 0.2.
	assert.InDelta(t, 0.2, analysis.Confidence, 1e-9)
	assert.InDelta(t, 2.0, analysis.Evidence.DomainMatches, 1e-9)
	assert.Equal(t, 2, analysis.Evidence.ContactCount)
}

func TestPatternAnalyzer_WebsiteWeakerThanDomain(t *testing.T) {
	store := newMockStore()
	seedContact(store, "k1", "org1", "c1", []string{"anna@spiegel.de"}, nil)
	seedContact(store, "k2", "org1", "c2", nil, map[string]any{"website": "zeit.de"})

	pool := []PoolCompany{
		{ID: "c1", Name: "Spiegel Verlag"},
		{ID: "c2", Name: "Zeit Verlag"},
	}
	signals := SignalSet{
		EmailDomains: []string{"spiegel.de"},
		Websites:     []string{"zeit.de"},
	}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")

	require.NotNil(t, analysis.Top)
	assert.Equal(t, "c1", analysis.Top.ID, "1.0 domain evidence beats 0.5 website evidence")
	assert.InDelta(t, 1.0, analysis.Evidence.PatternScore, 1e-9)
}

func TestPatternAnalyzer_ContactCountSumsAcrossCategories(t *testing.T) {
	store := newMockStore()
	seedContact(store, "k1", "org1", "c1", []string{"anna@spiegel.de"}, nil)
	seedContact(store, "k2", "org1", "c1", nil, map[string]any{"website": "spiegel.de"})

	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag"}}
	signals := SignalSet{
		EmailDomains: []string{"spiegel.de"},
		Websites:     []string{"spiegel.de"},
	}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")

	require.NotNil(t, analysis.Top)
	// One domain contact plus one website contact: the count spans both
	// categories while the weighted evidence stays per category.
	assert.Equal(t, 2, analysis.Evidence.ContactCount)
	assert.InDelta(t, 1.0, analysis.Evidence.DomainMatches, 1e-9)
	assert.InDelta(t, 0.5, analysis.Evidence.WebsiteMatches, 1e-9)
	assert.InDelta(t, 1.5, analysis.Evidence.PatternScore, 1e-9)
}

func TestPatternAnalyzer_DirectIDStrongest(t *testing.T) {
	store := newMockStore()
	seedContact(store, "k1", "org1", "c1", []string{"anna@spiegel.de"}, nil)

	pool := []PoolCompany{
		{ID: "c1", Name: "Spiegel Verlag"},
		{ID: "c2", Name: "Zeit Verlag"},
	}
	signals := SignalSet{
		EmailDomains: []string{"spiegel.de"},
		CompanyIDs:   []string{"c2"},
	}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")

	require.NotNil(t, analysis.Top)
	assert.Equal(t, "c2", analysis.Top.ID, "2.0 direct id evidence beats 1.0 domain evidence")
	assert.InDelta(t, 0.2, analysis.Confidence, 1e-9)
}

func TestPatternAnalyzer_DirectIDOutsidePoolIgnored(t *testing.T) {
	store := newMockStore()
	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag"}}
	signals := SignalSet{CompanyIDs: []string{"curated-or-foreign-id"}}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")
	assert.Nil(t, analysis.Top)
}

func TestPatternAnalyzer_TieKeepsFirstInPoolOrder(t *testing.T) {
	store := newMockStore()
	seedContact(store, "k1", "org1", "c1", []string{"a@spiegel.de"}, nil)
	seedContact(store, "k2", "org1", "c2", []string{"b@spiegel.de"}, nil)

	pool := []PoolCompany{
		{ID: "c1", Name: "First"},
		{ID: "c2", Name: "Second"},
	}
	signals := SignalSet{EmailDomains: []string{"spiegel.de"}}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")
	require.NotNil(t, analysis.Top)
	assert.Equal(t, "c1", analysis.Top.ID)
}

func TestPatternAnalyzer_ConfidenceCapsAtOne(t *testing.T) {
	store := newMockStore()
	for i := 0; i < 12; i++ {
		seedContact(store, string(rune('a'+i)), "org1", "c1", []string{"x@spiegel.de"}, nil)
	}
	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag"}}
	signals := SignalSet{EmailDomains: []string{"spiegel.de"}}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")
	require.NotNil(t, analysis.Top)
	assert.Equal(t, 1.0, analysis.Confidence)
}

func TestPatternAnalyzer_QueryFailureContributesZeroEvidence(t *testing.T) {
	store := newMockStore()
	store.queryErr = errors.New("store unreachable")
	logger := logging.NewTestLogger()

	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag"}}
	signals := SignalSet{
		EmailDomains: []string{"spiegel.de"},
		CompanyIDs:   []string{"c1"},
	}

	a := NewPatternAnalyzer(store, DefaultPolicy(), logger.Zap())
	analysis := a.Analyze(context.Background(), signals, pool, "org1")

	// Direct id evidence needs no query, so the analysis still produces
	// a top match; only the domain signal is lost.
	require.NotNil(t, analysis.Top)
	assert.InDelta(t, 2.0, analysis.Evidence.PatternScore, 1e-9)
	assert.NotEmpty(t, logger.FilterMessage("domain corroboration query failed, skipping signal").All())
}

func TestPatternAnalyzer_EmptyPool(t *testing.T) {
	analysis := analyzer(newMockStore()).Analyze(context.Background(),
		SignalSet{EmailDomains: []string{"spiegel.de"}}, nil, "org1")
	assert.Nil(t, analysis.Top)
	assert.Zero(t, analysis.Confidence)
}

func TestPatternAnalyzer_ContactWithoutCompanyIgnored(t *testing.T) {
	store := newMockStore()
	seedContact(store, "k1", "org1", "", []string{"anna@spiegel.de"}, nil)

	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag"}}
	signals := SignalSet{EmailDomains: []string{"spiegel.de"}}

	analysis := analyzer(store).Analyze(context.Background(), signals, pool, "org1")
	assert.Nil(t, analysis.Top)
}
