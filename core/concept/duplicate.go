package concept

import "sort"

const (
	DefaultThreshold  = 0.85
	maxSimilarMatches = 3
)

// DefaultExcludeStatuses are the statuses never matched as duplicates.
var DefaultExcludeStatuses = []Status{StatusRejected}

// Detector decides whether a candidate name duplicates one of an existing pool of concepts.
// The zero value uses DefaultScorer, DefaultThreshold and DefaultExcludeStatuses.
type Detector struct {
	Scorer    Scorer
	Threshold float64 // <= 0 means DefaultThreshold
	// ExcludeStatuses nil means DefaultExcludeStatuses, an empty non-nil slice excludes nothing.
	ExcludeStatuses []Status
}

func (d Detector) scorer() Scorer {
	if d.Scorer == nil {
		return DefaultScorer
	}
	return d.Scorer
}

func (d Detector) threshold() float64 {
	if d.Threshold <= 0 {
		return DefaultThreshold
	}
	return d.Threshold
}

func (d Detector) excluded(st Status) bool {
	excl := d.ExcludeStatuses
	if excl == nil {
		excl = DefaultExcludeStatuses
	}
	for _, s := range excl {
		if s == st {
			return true
		}
	}
	return false
}

// Detect compares name with every concept of pool whose status is not excluded.
// The first exact match (after normalization) wins; other concepts scoring at least the threshold
// are returned as similar matches, best first, at most 3.
func (d Detector) Detect(name string, pool []ExistingConcept) DuplicateCheckResult {
	res := DuplicateCheckResult{SimilarMatches: make([]SimilarMatch, 0)}

	candidates := make([]ExistingConcept, 0, len(pool))
	for _, ec := range pool {
		if !d.excluded(ec.Status) {
			candidates = append(candidates, ec)
		}
	}
	if len(candidates) == 0 {
		return res
	}

	scorer, threshold := d.scorer(), d.threshold()
	normName := Normalize(name)
	for _, ec := range candidates {
		normExisting := Normalize(ec.Name)
		if normExisting == normName {
			if res.ExactMatch == "" {
				res.ExactMatch = ec.Name
			}
			continue
		}
		if sim := scorer.Similarity(normName, normExisting); sim >= threshold {
			res.SimilarMatches = append(res.SimilarMatches, SimilarMatch{
				ID:         ec.ID,
				Name:       ec.Name,
				Similarity: sim,
				Status:     ec.Status,
			})
		}
	}

	sort.SliceStable(res.SimilarMatches, func(i, j int) bool {
		return res.SimilarMatches[i].Similarity > res.SimilarMatches[j].Similarity
	})
	if len(res.SimilarMatches) > maxSimilarMatches {
		res.SimilarMatches = res.SimilarMatches[:maxSimilarMatches]
	}

	res.IsDuplicate = res.ExactMatch != "" || len(res.SimilarMatches) > 0
	return res
}

// DetectDuplicate runs a Detector using DefaultScorer with the given exclusions and threshold.
func DetectDuplicate(name string, pool []ExistingConcept, excludeStatuses []Status, threshold float64) DuplicateCheckResult {
	return Detector{Threshold: threshold, ExcludeStatuses: excludeStatuses}.Detect(name, pool)
}
