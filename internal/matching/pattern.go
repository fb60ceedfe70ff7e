package matching

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/docstore"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

// PatternAnalyzer scores pool candidates by corroborating evidence from
// the tenant's own linked contact records.
type PatternAnalyzer struct {
	store  docstore.Store
	policy Policy
	logger *zap.Logger
}

// NewPatternAnalyzer creates a pattern analyzer.
func NewPatternAnalyzer(store docstore.Store, policy Policy, logger *zap.Logger) *PatternAnalyzer {
	return &PatternAnalyzer{store: store, policy: policy, logger: logger}
}

// PatternAnalysis is the outcome of pattern analysis over one signal set.
type PatternAnalysis struct {
	// Top is the best-scoring pool company, nil when no company
	// accumulated any evidence.
	Top        *PoolCompany
	Confidence float64
	Evidence   Evidence
}

// evidenceAccumulator tracks weighted evidence per pool company.
type evidenceAccumulator struct {
	count          float64
	domainMatches  float64
	websiteMatches float64
	contacts       int
}

// Analyze accumulates weighted evidence for every pool company and picks
// the strictly highest scorer. Ties keep the company encountered first
// in pool order. A failed corroboration query contributes zero evidence
// for that signal and never aborts the analysis.
func (a *PatternAnalyzer) Analyze(ctx context.Context, signals SignalSet, pool []PoolCompany, tenantID string) PatternAnalysis {
	if len(pool) == 0 {
		return PatternAnalysis{}
	}

	inPool := make(map[string]bool, len(pool))
	for _, c := range pool {
		inPool[c.ID] = true
	}

	acc := make(map[string]*evidenceAccumulator, len(pool))
	bump := func(companyID string) *evidenceAccumulator {
		e := acc[companyID]
		if e == nil {
			e = &evidenceAccumulator{}
			acc[companyID] = e
		}
		return e
	}

	// Email domain signals: one evidence unit per contact whose email
	// list contains an address at the domain and whose companyId points
	// into the pool.
	for _, domain := range signals.EmailDomains {
		contacts, err := a.tenantContacts(ctx, tenantID)
		if err != nil {
			a.logger.Warn("domain corroboration query failed, skipping signal",
				zap.String("tenant", tenantID),
				zap.String("domain", domain),
				zap.Error(err))
			continue
		}
		for _, contact := range contacts {
			if !contactHasDomain(contact, domain) {
				continue
			}
			companyID, _ := contact.Fields["companyId"].(string)
			if companyID == "" || !inPool[companyID] {
				continue
			}
			e := bump(companyID)
			e.count += a.policy.DomainWeight
			e.domainMatches += a.policy.DomainWeight
			e.contacts++
		}
	}

	// Website signals: weaker evidence, store-side equality on the
	// contact's stored website.
	for _, site := range signals.Websites {
		contacts, err := a.store.Query(ctx, tenant.CollectionContacts, []docstore.Filter{
			docstore.Eq("organizationId", tenantID),
			docstore.NotEq("deleted", true),
			docstore.Eq("website", site),
		})
		if err != nil {
			a.logger.Warn("website corroboration query failed, skipping signal",
				zap.String("tenant", tenantID),
				zap.String("website", site),
				zap.Error(err))
			continue
		}
		for _, contact := range contacts {
			companyID, _ := contact.Fields["companyId"].(string)
			if companyID == "" || !inPool[companyID] {
				continue
			}
			e := bump(companyID)
			e.count += a.policy.WebsiteWeight
			e.websiteMatches += a.policy.WebsiteWeight
			e.contacts++
		}
	}

	// Direct id references: the strongest possible signal.
	for _, id := range signals.CompanyIDs {
		if inPool[id] {
			bump(id).count += a.policy.DirectIDWeight
		}
	}

	// Winner: strictly highest count, ties keep first in pool order.
	var top *PoolCompany
	var topAcc *evidenceAccumulator
	for i := range pool {
		e := acc[pool[i].ID]
		if e == nil || e.count == 0 {
			continue
		}
		if topAcc == nil || e.count > topAcc.count {
			top = &pool[i]
			topAcc = e
		}
	}

	if top == nil {
		return PatternAnalysis{}
	}

	confidence := a.policy.patternConfidence(topAcc.count)
	a.logger.Debug("pattern analysis complete",
		zap.String("tenant", tenantID),
		zap.String("top_company", top.ID),
		zap.Float64("count", topAcc.count),
		zap.Float64("confidence", confidence))

	return PatternAnalysis{
		Top:        top,
		Confidence: confidence,
		Evidence: Evidence{
			DomainMatches:  topAcc.domainMatches,
			WebsiteMatches: topAcc.websiteMatches,
			ContactCount:   topAcc.contacts,
			PatternScore:   topAcc.count,
		},
	}
}

// tenantContacts loads the tenant's linked contacts; domain filtering is
// local because the store contract has no suffix predicate.
func (a *PatternAnalyzer) tenantContacts(ctx context.Context, tenantID string) ([]docstore.Document, error) {
	return a.store.Query(ctx, tenant.CollectionContacts, []docstore.Filter{
		docstore.Eq("organizationId", tenantID),
		docstore.NotEq("deleted", true),
	})
}

// contactHasDomain reports whether any stored email ends in "@domain".
func contactHasDomain(doc docstore.Document, domain string) bool {
	emails, ok := doc.Fields["emails"].([]any)
	if !ok {
		return false
	}
	suffix := "@" + domain
	for _, raw := range emails {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		addr, _ := entry["email"].(string)
		if strings.HasSuffix(strings.ToLower(addr), suffix) {
			return true
		}
	}
	return false
}
