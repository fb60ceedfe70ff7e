package matching

// CandidateVariant is one tenant organization's independently observed
// description of a contact believed to belong to the target company.
// Variants are read-only inputs; the pipeline never persists them.
type CandidateVariant struct {
	OrganizationID   string      `json:"organizationId"`
	OrganizationName string      `json:"organizationName,omitempty"`
	ContactID        string      `json:"contactId,omitempty"`
	ContactData      ContactData `json:"contactData"`
}

// Email is a contact email address with its primary flag.
type Email struct {
	Email     string `json:"email"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// SocialProfile is a linked social media profile.
type SocialProfile struct {
	Platform string `json:"platform,omitempty"`
	URL      string `json:"url"`
}

// ContactData is the payload of a candidate variant.
type ContactData struct {
	DisplayName     string          `json:"displayName,omitempty"`
	Position        string          `json:"position,omitempty"`
	CompanyName     string          `json:"companyName,omitempty"`
	CompanyID       string          `json:"companyId,omitempty"`
	Website         string          `json:"website,omitempty"`
	Emails          []Email         `json:"emails,omitempty"`
	Phones          []string        `json:"phones,omitempty"`
	Beats           []string        `json:"beats,omitempty"`
	SocialProfiles  []SocialProfile `json:"socialProfiles,omitempty"`
	HasMediaProfile bool            `json:"hasMediaProfile,omitempty"`
}

// SignalSet is the normalized, deduplicated signal view of a variant
// list. Slices preserve first-encountered order so "first name signal"
// is well defined.
type SignalSet struct {
	EmailDomains []string
	Websites     []string
	CompanyNames []string
	CompanyIDs   []string
}

// HasNameSignal reports whether any company-name signal exists.
func (s SignalSet) HasNameSignal() bool {
	return len(s.CompanyNames) > 0
}

// HasCompanyID reports whether a direct id signal references the given
// company.
func (s SignalSet) HasCompanyID(id string) bool {
	for _, cid := range s.CompanyIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// PoolCompany is one matchable company record from the tenant's pool.
type PoolCompany struct {
	ID      string
	Name    string
	Website string
}

// Tier is the coarse confidence bucket of a match.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierNone   Tier = "none"
)

// Method identifies the cascade stage that produced a result.
type Method string

const (
	MethodDatabaseAnalysis Method = "database_analysis"
	MethodFuzzyMatch       Method = "fuzzy_match"
	MethodExactMatch       Method = "exact_match"
	MethodCreatedNew       Method = "created_new"
	MethodNone             Method = "none"
)

// Evidence records the counts that support a match.
type Evidence struct {
	// DomainMatches is the weighted email-domain evidence for the winner.
	DomainMatches float64 `json:"domainMatches,omitempty"`
	// WebsiteMatches is the weighted website evidence for the winner.
	WebsiteMatches float64 `json:"websiteMatches,omitempty"`
	// ContactCount is the number of corroborating contacts behind the
	// winning company, summed across the domain and website evidence
	// categories. A contact contributing in both counts once per
	// category.
	ContactCount int `json:"contactCount,omitempty"`
	// PatternScore is the accumulated weighted evidence count, before
	// normalization.
	PatternScore float64 `json:"patternScore,omitempty"`
	// FuzzyScore is the raw 0-100 similarity normalized to 0-1, set only
	// on fuzzy matches.
	FuzzyScore float64 `json:"fuzzyScore,omitempty"`
}

// MatchResult is the terminal output of one resolution call.
type MatchResult struct {
	CompanyID   string   `json:"companyId,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	Confidence  Tier     `json:"confidence"`
	Method      Method   `json:"method"`
	WasCreated  bool     `json:"wasCreated"`
	Evidence    Evidence `json:"evidence"`
}

// noneResult is the terminal result when no company could be associated.
func noneResult() *MatchResult {
	return &MatchResult{
		Confidence: TierNone,
		Method:     MethodNone,
		WasCreated: false,
	}
}
