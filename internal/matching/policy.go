package matching

// Policy holds the tunable matching constants. The defaults reproduce
// the historical behavior; the weights are undocumented design choices
// preserved for compatibility, not empirical truths.
type Policy struct {
	// PatternThreshold is the pattern-analysis confidence at or above
	// which the cascade short-circuits with a database_analysis result.
	PatternThreshold float64 `koanf:"pattern_threshold"`

	// PatternMediumThreshold splits medium from low tiers for
	// database_analysis results returned below PatternThreshold.
	PatternMediumThreshold float64 `koanf:"pattern_medium_threshold"`

	// ConfidenceCapCount is the weighted evidence count at which pattern
	// confidence saturates at 1.0.
	ConfidenceCapCount float64 `koanf:"confidence_cap_count"`

	// DomainWeight is evidence per corroborating contact on an email
	// domain signal.
	DomainWeight float64 `koanf:"domain_weight"`

	// WebsiteWeight is evidence per corroborating contact on a website
	// signal. Weaker than a domain: many organizations share hosting and
	// email providers.
	WebsiteWeight float64 `koanf:"website_weight"`

	// DirectIDWeight is evidence for a direct company-id reference, the
	// strongest possible signal.
	DirectIDWeight float64 `koanf:"direct_id_weight"`

	// FuzzyMinScore is the 0-100 similarity floor for fuzzy matches.
	FuzzyMinScore int `koanf:"fuzzy_min_score"`

	// FuzzyHighScore is the 0-100 similarity at or above which a fuzzy
	// match is tiered high instead of medium.
	FuzzyHighScore int `koanf:"fuzzy_high_score"`
}

// DefaultPolicy returns the fixed historical constants.
func DefaultPolicy() Policy {
	return Policy{
		PatternThreshold:       0.7,
		PatternMediumThreshold: 0.4,
		ConfidenceCapCount:     10,
		DomainWeight:           1.0,
		WebsiteWeight:          0.5,
		DirectIDWeight:         2.0,
		FuzzyMinScore:          75,
		FuzzyHighScore:         90,
	}
}

// patternConfidence normalizes an accumulated evidence count to 0-1.
func (p Policy) patternConfidence(count float64) float64 {
	if p.ConfidenceCapCount <= 0 {
		return 0
	}
	c := count / p.ConfidenceCapCount
	if c > 1 {
		return 1
	}
	return c
}

// patternTier buckets a pattern confidence value.
func (p Policy) patternTier(confidence float64) Tier {
	switch {
	case confidence >= p.PatternThreshold:
		return TierHigh
	case confidence >= p.PatternMediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}
