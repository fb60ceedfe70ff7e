// Package similarity provides the string-similarity capability used by
// the fuzzy name matching stage: given a query and a candidate list,
// return threshold-filtered candidates with 0-100 scores, best first.
package similarity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"
)

// Scored is one candidate with its similarity score.
type Scored struct {
	Index int    // position in the input candidate list
	Value string // original candidate string
	Score int    // 0-100, higher is more similar
}

// Scorer scores a query against candidate strings.
type Scorer interface {
	// Extract returns candidates scoring at or above threshold, ordered
	// best first, capped at limit (limit <= 0 means no cap). Ties keep
	// input order.
	Extract(query string, candidates []string, threshold, limit int) []Scored
}

// NewScorer returns the default scorer: the max of normalized
// Levenshtein ratio and Jaro-Winkler similarity, scaled to 0-100.
// Comparison is case-insensitive with surrounding whitespace ignored.
func NewScorer() Scorer {
	return &scorer{}
}

type scorer struct{}

func (s *scorer) Extract(query string, candidates []string, threshold, limit int) []Scored {
	q := normalize(query)
	if q == "" {
		return nil
	}

	var out []Scored
	for i, cand := range candidates {
		c := normalize(cand)
		if c == "" {
			continue
		}
		score := Score(q, c)
		if score >= threshold {
			out = append(out, Scored{Index: i, Value: cand, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Score computes a 0-100 similarity for two already-normalized strings.
// Levenshtein ratio penalizes transposed words heavily, Jaro-Winkler is
// forgiving of suffix noise (legal forms, "GmbH", "Inc"); taking the max
// of both keeps recall up without hurting precision at the 75+ range the
// matcher operates in.
func Score(a, b string) int {
	if a == b {
		return 100
	}

	lev := levenshteinRatio(a, b)
	jw := matchr.JaroWinkler(a, b, false)

	best := lev
	if jw > best {
		best = jw
	}
	return int(best * 100)
}

func levenshteinRatio(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
