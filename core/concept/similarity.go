package concept

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	MetricLevenshtein = "levenshtein"
	MetricSequence    = "sequence"
	MetricCombined    = "combined"
)

// Scorer computes how similar two strings are, in [0, 1].
// Implementations must be symmetric and return 1 for identical strings.
type Scorer interface {
	Similarity(a, b string) float64
}

var (
	Levenshtein     Scorer = levenshteinScorer{}
	SequenceMatcher Scorer = sequenceScorer{}
	Combined        Scorer = BestOf{Levenshtein, SequenceMatcher}

	// DefaultScorer reports the higher of the Levenshtein and difflib ratios, so similarity
	// values and "(N% match)" reasons can exceed the plain Levenshtein ratio.
	DefaultScorer = Combined
)

// ScorerFor returns the Scorer registered under metric. An empty metric means DefaultScorer.
func ScorerFor(metric string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(metric)) {
	case "":
		return DefaultScorer, nil
	case MetricLevenshtein:
		return Levenshtein, nil
	case MetricSequence:
		return SequenceMatcher, nil
	case MetricCombined:
		return Combined, nil
	}
	return nil, errors.Errorf("unknown similarity metric %q", metric)
}

// Similarity scores a and b using the Levenshtein scorer.
func Similarity(a, b string) float64 {
	return Levenshtein.Similarity(a, b)
}

type levenshteinScorer struct{}

// Similarity returns 1 - distance / max(len(a), len(b)), lengths in runes.
func (levenshteinScorer) Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(levenshteinDistance(ra, rb))/float64(maxLen)
}

// levenshteinDistance computes the edit distance keeping only two rows of the matrix.
func levenshteinDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

type sequenceScorer struct{}

// Similarity returns the difflib ratio of the two character sequences.
// The ratio depends on argument order, so the best of both orders is kept.
func (sequenceScorer) Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	sa, sb := strings.Split(a, ""), strings.Split(b, "")
	ab := difflib.NewMatcher(sa, sb).Ratio()
	ba := difflib.NewMatcher(sb, sa).Ratio()
	if ba > ab {
		return ba
	}
	return ab
}

// BestOf scores with each of its scorers and keeps the highest score.
type BestOf []Scorer

func (b BestOf) Similarity(x, y string) float64 {
	var best float64
	for _, s := range b {
		if sim := s.Similarity(x, y); sim > best {
			best = sim
		}
	}
	return best
}
