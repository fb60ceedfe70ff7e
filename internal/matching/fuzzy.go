package matching

import (
	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/similarity"
)

// FuzzyMatcher scores a company-name signal against pool names through
// the string-similarity capability.
type FuzzyMatcher struct {
	scorer similarity.Scorer
	policy Policy
	logger *zap.Logger
}

// NewFuzzyMatcher creates a fuzzy matcher.
func NewFuzzyMatcher(scorer similarity.Scorer, policy Policy, logger *zap.Logger) *FuzzyMatcher {
	return &FuzzyMatcher{scorer: scorer, policy: policy, logger: logger}
}

// Match scores name against all pool company names and returns the best
// candidate at or above the policy's minimum score, or nil when nothing
// qualifies.
func (m *FuzzyMatcher) Match(name string, pool []PoolCompany) *MatchResult {
	if name == "" || len(pool) == 0 {
		return nil
	}

	names := make([]string, len(pool))
	for i, c := range pool {
		names[i] = c.Name
	}

	results := m.scorer.Extract(name, names, m.policy.FuzzyMinScore, 1)
	if len(results) == 0 {
		return nil
	}

	best := results[0]
	company := pool[best.Index]

	tier := TierMedium
	if best.Score >= m.policy.FuzzyHighScore {
		tier = TierHigh
	}

	m.logger.Debug("fuzzy name match",
		zap.String("query", name),
		zap.String("company", company.ID),
		zap.Int("score", best.Score))

	return &MatchResult{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Confidence:  tier,
		Method:      MethodFuzzyMatch,
		Evidence: Evidence{
			FuzzyScore: float64(best.Score) / 100,
		},
	}
}
