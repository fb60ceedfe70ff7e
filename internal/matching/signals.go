package matching

import "strings"

// ExtractSignals turns candidate variants into a normalized signal set.
// Pure function: no store access, duplicates collapsed, first-encountered
// order preserved.
func ExtractSignals(variants []CandidateVariant) SignalSet {
	var s SignalSet
	seenDomain := make(map[string]bool)
	seenSite := make(map[string]bool)
	seenName := make(map[string]bool)
	seenID := make(map[string]bool)

	for _, v := range variants {
		data := v.ContactData

		for _, e := range data.Emails {
			domain, ok := emailDomain(e.Email)
			if !ok || seenDomain[domain] {
				continue
			}
			seenDomain[domain] = true
			s.EmailDomains = append(s.EmailDomains, domain)
		}

		if site := NormalizeWebsite(data.Website); site != "" && !seenSite[site] {
			seenSite[site] = true
			s.Websites = append(s.Websites, site)
		}

		// Name signals keep their original casing; the exact match stage
		// folds case itself and the creator wants the raw spelling.
		if name := data.CompanyName; name != "" && !seenName[name] {
			seenName[name] = true
			s.CompanyNames = append(s.CompanyNames, name)
		}

		if id := data.CompanyID; id != "" && !seenID[id] {
			seenID[id] = true
			s.CompanyIDs = append(s.CompanyIDs, id)
		}
	}
	return s
}

// emailDomain extracts the lower-cased domain: everything after the
// first '@'.
func emailDomain(addr string) (string, bool) {
	i := strings.Index(addr, "@")
	if i < 0 || i == len(addr)-1 {
		return "", false
	}
	return strings.ToLower(addr[i+1:]), true
}

// NormalizeWebsite canonicalizes a website for comparison: trim, lower
// case, strip scheme, leading "www." and trailing slash.
func NormalizeWebsite(site string) string {
	s := strings.ToLower(strings.TrimSpace(site))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimSuffix(s, "/")
	return s
}

// NormalizeName canonicalizes a company name for the creation uniqueness
// key: lower-cased with collapsed inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
