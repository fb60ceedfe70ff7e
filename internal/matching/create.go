package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/docstore"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

// Completeness rubric weights. The rubric scores how much usable payload
// a variant carries; maximum is 100.
const (
	scoreEmails       = 20
	scorePhones       = 15
	scorePosition     = 10
	scoreCompanyName  = 15
	scoreWebsite      = 10
	scoreBeats        = 10
	scoreSocial       = 10
	scoreMediaProfile = 10
)

// createdCompanyType is the generic classification assigned to records
// created by the pipeline.
const createdCompanyType = "publisher"

// EntityCreator is the cascade's creation fallback.
type EntityCreator struct {
	store  docstore.Store
	logger *zap.Logger
}

// NewEntityCreator creates an entity creator.
func NewEntityCreator(store docstore.Store, logger *zap.Logger) *EntityCreator {
	return &EntityCreator{store: store, logger: logger}
}

// Create selects the most information-complete variant and creates a new
// tenant-owned company record from it. A nameless winner yields the none
// result without a write. The write is conditional on a tenant+normalized
// name uniqueness key, so two racing resolutions converge on one record.
// A write failure is fatal and propagates; there is no further fallback.
func (c *EntityCreator) Create(ctx context.Context, variants []CandidateVariant, tenantID, userID string, autoGlobal bool) (*MatchResult, error) {
	variant, ok := selectMostComplete(variants)
	if !ok || variant.ContactData.CompanyName == "" {
		c.logger.Info("no company name available, skipping creation",
			zap.String("tenant", tenantID),
			zap.Int("variants", len(variants)))
		return noneResult(), nil
	}

	name := variant.ContactData.CompanyName
	fields := map[string]any{
		"name":           name,
		"officialName":   name,
		"type":           createdCompanyType,
		"origin":         string(tenant.OriginTenant),
		"isReference":    false,
		"deleted":        false,
		"organizationId": tenantID,
		"createdBy":      userID,
		"isGlobal":       autoGlobal,
	}
	if site := variant.ContactData.Website; site != "" {
		fields["website"] = site
	}

	uniqueKey := tenantID + "/" + NormalizeName(name)
	id, created, err := c.store.CreateUnique(ctx, tenant.CollectionCompanies, uniqueKey, fields)
	if err != nil {
		return nil, fmt.Errorf("creating company %q for tenant %s: %w", name, tenantID, err)
	}

	if !created {
		// A concurrent resolution won the uniqueness key; converge on
		// its record instead of duplicating.
		c.logger.Info("company already created under uniqueness key",
			zap.String("tenant", tenantID),
			zap.String("company", id))
	} else {
		c.logger.Info("company created",
			zap.String("tenant", tenantID),
			zap.String("company", id),
			zap.Bool("global", autoGlobal))
	}

	return &MatchResult{
		CompanyID:   id,
		CompanyName: name,
		Confidence:  TierLow,
		Method:      MethodCreatedNew,
		WasCreated:  created,
	}, nil
}

// selectMostComplete scores every variant by the fixed rubric and keeps
// the first highest scorer.
func selectMostComplete(variants []CandidateVariant) (CandidateVariant, bool) {
	if len(variants) == 0 {
		return CandidateVariant{}, false
	}

	best := 0
	bestScore := -1
	for i, v := range variants {
		score := completenessScore(v.ContactData)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return variants[best], true
}

// completenessScore applies the fixed weighted rubric (max 100).
func completenessScore(d ContactData) int {
	score := 0
	if len(d.Emails) > 0 {
		score += scoreEmails
	}
	if len(d.Phones) > 0 {
		score += scorePhones
	}
	if d.Position != "" {
		score += scorePosition
	}
	if d.CompanyName != "" {
		score += scoreCompanyName
	}
	if d.Website != "" {
		score += scoreWebsite
	}
	if len(d.Beats) > 0 {
		score += scoreBeats
	}
	if len(d.SocialProfiles) > 0 {
		score += scoreSocial
	}
	if d.HasMediaProfile {
		score += scoreMediaProfile
	}
	return score
}
