package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scorerPairs = [][2]string{
	{"", ""},
	{"abc", ""},
	{"kitten", "sitting"},
	{"swing feel", "swing feeling"},
	{"major scale harmonization", "major scale harmonisation"},
	{"café", "cafe"},
	{"blue notes", "quantum chromodynamics"},
	{"ii v i progression", "ii v progression"},
	{"aaaa", "a"},
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "", b: "", want: 1},
		{a: "abc", b: "", want: 0},
		{a: "", b: "abc", want: 0},
		{a: "abc", b: "abc", want: 1},
		{a: "kitten", b: "sitting", want: 1 - 3.0/7},
		{a: "swing feel", b: "swing feeling", want: 1 - 3.0/13},
		{a: "café", b: "cafe", want: 0.75}, // runes, not bytes
		{a: "abc", b: "xyz", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Levenshtein.Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSequenceMatcher(t *testing.T) {
	assert.Equal(t, 1.0, SequenceMatcher.Similarity("", ""))
	assert.Equal(t, 0.0, SequenceMatcher.Similarity("abc", ""))
	assert.Equal(t, 1.0, SequenceMatcher.Similarity("swing", "swing"))
	assert.InDelta(t, 20.0/23, SequenceMatcher.Similarity("swing feel", "swing feeling"), 1e-9)
}

func TestCombined(t *testing.T) {
	sim := Combined.Similarity("swing feel", "swing feeling")
	assert.InDelta(t, 20.0/23, sim, 1e-9)
	assert.GreaterOrEqual(t, sim, Levenshtein.Similarity("swing feel", "swing feeling"))

	// the default reports the difflib ratio here, not the Levenshtein one
	assert.InDelta(t, 20.0/23, DefaultScorer.Similarity("swing feel", "swing feeling"), 1e-9)
	assert.InDelta(t, 10.0/13, Levenshtein.Similarity("swing feel", "swing feeling"), 1e-9)
}

func TestScorers_properties(t *testing.T) {
	scorers := map[string]Scorer{
		MetricLevenshtein: Levenshtein,
		MetricSequence:    SequenceMatcher,
		MetricCombined:    Combined,
	}
	for name, scorer := range scorers {
		t.Run(name, func(t *testing.T) {
			for _, p := range scorerPairs {
				ab, ba := scorer.Similarity(p[0], p[1]), scorer.Similarity(p[1], p[0])
				assert.Equal(t, ab, ba, "symmetry %q %q", p[0], p[1])
				assert.GreaterOrEqual(t, ab, 0.0, "lower bound %q %q", p[0], p[1])
				assert.LessOrEqual(t, ab, 1.0, "upper bound %q %q", p[0], p[1])
				assert.Equal(t, 1.0, scorer.Similarity(p[0], p[0]), "identity %q", p[0])
			}
		})
	}
}

func TestScorerFor(t *testing.T) {
	tests := []struct {
		metric  string
		want    Scorer
		wantErr bool
	}{
		{metric: "", want: DefaultScorer},
		{metric: "levenshtein", want: Levenshtein},
		{metric: " Sequence ", want: SequenceMatcher},
		{metric: "combined", want: Combined},
		{metric: "trigram", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			got, err := ScorerFor(tt.metric)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
