package matching

import (
	"strings"

	"go.uber.org/zap"
)

// ExactResolver is the last deterministic stage: case-insensitive exact
// equality between a signal name and a pool company name.
type ExactResolver struct {
	logger *zap.Logger
}

// NewExactResolver creates an exact resolver.
func NewExactResolver(logger *zap.Logger) *ExactResolver {
	return &ExactResolver{logger: logger}
}

// Match returns the first pool company whose name equals any signal name
// under case folding, or nil. Exact textual equality is treated as
// unambiguous, so the tier is always high.
func (r *ExactResolver) Match(names []string, pool []PoolCompany) *MatchResult {
	for _, name := range names {
		folded := strings.ToLower(strings.TrimSpace(name))
		if folded == "" {
			continue
		}
		for i := range pool {
			if strings.ToLower(strings.TrimSpace(pool[i].Name)) != folded {
				continue
			}
			r.logger.Debug("exact name match",
				zap.String("query", name),
				zap.String("company", pool[i].ID))
			return &MatchResult{
				CompanyID:   pool[i].ID,
				CompanyName: pool[i].Name,
				Confidence:  TierHigh,
				Method:      MethodExactMatch,
			}
		}
	}
	return nil
}
