package recommend

// EmptyPolicy decides what Jaccard returns when both sets are empty. The two
// behaviors both occur in the wild for attribute-overlap scorers: "no signal"
// keeps fully untagged games out of results, "identical" lets them match each
// other. The service default is EmptyPolicyZero.
type EmptyPolicy int

const (
	// EmptyPolicyZero scores two empty sets as 0.0 (no signal).
	EmptyPolicyZero EmptyPolicy = iota
	// EmptyPolicyOne scores two empty sets as 1.0 (vacuously identical).
	EmptyPolicyOne
)

// ParseEmptyPolicy maps a config string to a policy, defaulting to zero.
func ParseEmptyPolicy(value string) EmptyPolicy {
	if value == "one" {
		return EmptyPolicyOne
	}
	return EmptyPolicyZero
}

// Jaccard returns |a ∩ b| / |a ∪ b| in [0, 1]. Exactly one empty set scores
// 0.0; both empty scores the policy constant.
func Jaccard(a, b IDSet, policy EmptyPolicy) float64 {
	if len(a) == 0 && len(b) == 0 {
		if policy == EmptyPolicyOne {
			return 1.0
		}
		return 0.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	intersection := 0
	for id := range small {
		if _, ok := large[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Weights are the per-attribute multipliers for the combined score. They need
// not sum to 1; callers that pick weights summing above 1 get scores above 1.
type Weights struct {
	Genre   float64
	Keyword float64
	Theme   float64
}

// DefaultWeights returns the service defaults: genres carry the most signal,
// keywords and themes split the rest.
func DefaultWeights() Weights {
	return Weights{Genre: 0.4, Keyword: 0.3, Theme: 0.3}
}

// CombinedScore is the weighted sum of the three per-attribute similarities.
// Collection overlap is intentionally not part of the score; it only drives
// the series bonus and exclusion rules.
func CombinedScore(seed, candidate AttributeSets, w Weights, policy EmptyPolicy) float64 {
	return w.Genre*Jaccard(seed.Genres, candidate.Genres, policy) +
		w.Keyword*Jaccard(seed.Keywords, candidate.Keywords, policy) +
		w.Theme*Jaccard(seed.Themes, candidate.Themes, policy)
}
