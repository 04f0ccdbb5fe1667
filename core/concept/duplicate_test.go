package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flmvela/gemeos/core"
)

var jazzPool = []ExistingConcept{
	{ID: "1", Name: "Major Scale Harmonization", Status: StatusApproved},
	{ID: "2", Name: "Swing Feel", Status: StatusApproved},
	{ID: "3", Name: "Blue Notes", Status: StatusSuggested},
	{ID: "4", Name: "ii-V-I Progression", Status: StatusApproved},
	{ID: "5", Name: "Modal Interchange", Status: StatusRejected},
}

type scorerFunc func(a, b string) float64

func (f scorerFunc) Similarity(a, b string) float64 { return f(a, b) }

func TestDetectDuplicate(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		res := DetectDuplicate("major scale harmonization", jazzPool, nil, DefaultThreshold)
		assert.True(t, res.IsDuplicate)
		assert.Equal(t, "Major Scale Harmonization", res.ExactMatch)
		assert.Empty(t, res.SimilarMatches)
	})

	t.Run("exact match after normalization", func(t *testing.T) {
		res := DetectDuplicate("The II_V_I progression (jazz)", jazzPool, nil, DefaultThreshold)
		assert.True(t, res.IsDuplicate)
		assert.Equal(t, "ii-V-I Progression", res.ExactMatch)
	})

	t.Run("near duplicate", func(t *testing.T) {
		res := DetectDuplicate("Swing Feeling", jazzPool, nil, 0.85)
		assert.True(t, res.IsDuplicate)
		assert.Empty(t, res.ExactMatch)
		require.NotEmpty(t, res.SimilarMatches)
		top := res.SimilarMatches[0]
		assert.Equal(t, "Swing Feel", top.Name)
		assert.Equal(t, "2", top.ID)
		assert.Equal(t, StatusApproved, top.Status)
		assert.GreaterOrEqual(t, top.Similarity, 0.85)
	})

	t.Run("not a duplicate", func(t *testing.T) {
		res := DetectDuplicate("Quantum Chromodynamics", jazzPool, nil, DefaultThreshold)
		assert.False(t, res.IsDuplicate)
		assert.Empty(t, res.ExactMatch)
		assert.Empty(t, res.SimilarMatches)
	})

	t.Run("rejected excluded by default", func(t *testing.T) {
		res := DetectDuplicate("Modal Interchange", jazzPool, nil, DefaultThreshold)
		assert.False(t, res.IsDuplicate)
		assert.Empty(t, res.ExactMatch)
		assert.Empty(t, res.SimilarMatches)
	})

	t.Run("rejected excluded explicitly", func(t *testing.T) {
		res := DetectDuplicate("modal interchanges", jazzPool, []Status{StatusRejected}, 0.5)
		for _, m := range res.SimilarMatches {
			assert.NotEqual(t, StatusRejected, m.Status)
		}
		assert.Empty(t, res.ExactMatch)
	})

	t.Run("empty exclusions exclude nothing", func(t *testing.T) {
		res := DetectDuplicate("Modal Interchange", jazzPool, []Status{}, DefaultThreshold)
		assert.True(t, res.IsDuplicate)
		assert.Equal(t, "Modal Interchange", res.ExactMatch)
	})

	t.Run("excluding approved", func(t *testing.T) {
		res := DetectDuplicate("Swing Feel", jazzPool, []Status{StatusApproved, StatusRejected}, DefaultThreshold)
		assert.False(t, res.IsDuplicate)
	})

	t.Run("empty pool", func(t *testing.T) {
		res := DetectDuplicate("Swing Feel", nil, nil, DefaultThreshold)
		assert.False(t, res.IsDuplicate)
		assert.Empty(t, res.SimilarMatches)
	})

	t.Run("every concept excluded", func(t *testing.T) {
		pool := []ExistingConcept{{ID: "1", Name: "Swing Feel", Status: StatusRejected}}
		res := DetectDuplicate("Swing Feel", pool, nil, DefaultThreshold)
		assert.False(t, res.IsDuplicate)
	})

	t.Run("first exact match wins", func(t *testing.T) {
		pool := []ExistingConcept{
			{ID: "1", Name: "The Blues", Status: StatusApproved},
			{ID: "2", Name: "Blues", Status: StatusSuggested},
		}
		res := DetectDuplicate("blues", pool, nil, DefaultThreshold)
		assert.True(t, res.IsDuplicate)
		assert.Equal(t, "The Blues", res.ExactMatch)
		assert.Empty(t, res.SimilarMatches)
	})
}

func TestDetector_Detect(t *testing.T) {
	scores := map[string]float64{"alpha": .9, "beta": .95, "gamma": .86, "delta": .99, "epsilon": .5}
	det := Detector{Scorer: scorerFunc(func(_, b string) float64 { return scores[b] })}
	pool := []ExistingConcept{
		{ID: "a", Name: "Alpha", Status: StatusApproved},
		{ID: "b", Name: "Beta", Status: StatusApproved},
		{ID: "g", Name: "Gamma", Status: StatusSuggested},
		{ID: "d", Name: "Delta", Status: StatusApproved},
		{ID: "e", Name: "Epsilon", Status: StatusApproved},
	}

	t.Run("sorted & truncated", func(t *testing.T) {
		res := det.Detect("omega", pool)
		assert.True(t, res.IsDuplicate)
		require.Len(t, res.SimilarMatches, 3)
		assert.Equal(t, "Delta", res.SimilarMatches[0].Name)
		assert.Equal(t, "Beta", res.SimilarMatches[1].Name)
		assert.Equal(t, "Alpha", res.SimilarMatches[2].Name)
	})

	t.Run("exact match keeps similar matches", func(t *testing.T) {
		res := det.Detect("gamma", pool)
		assert.True(t, res.IsDuplicate)
		assert.Equal(t, "Gamma", res.ExactMatch)
		require.Len(t, res.SimilarMatches, 3)
		for _, m := range res.SimilarMatches {
			assert.NotEqual(t, "Gamma", m.Name)
		}
	})

	t.Run("threshold", func(t *testing.T) {
		strict := det
		strict.Threshold = .96
		res := strict.Detect("omega", pool)
		require.Len(t, res.SimilarMatches, 1)
		assert.Equal(t, "Delta", res.SimilarMatches[0].Name)

		strict.Threshold = 1
		assert.False(t, strict.Detect("omega", pool).IsDuplicate)
	})

	t.Run("non positive threshold means default", func(t *testing.T) {
		below := Detector{Scorer: scorerFunc(func(_, _ string) float64 { return DefaultThreshold - .01 })}
		assert.False(t, below.Detect("omega", pool).IsDuplicate)

		below.Threshold = -1
		assert.False(t, below.Detect("omega", pool).IsDuplicate)

		at := Detector{Scorer: scorerFunc(func(_, _ string) float64 { return DefaultThreshold })}
		assert.True(t, at.Detect("omega", pool).IsDuplicate)
	})
}

func TestNewDetector(t *testing.T) {
	det, err := NewDetector(core.IngestConfig{SimilarityMetric: "sequence", Threshold: .9, ExcludeStatuses: []string{"Rejected", "suggested"}})
	require.NoError(t, err)
	assert.Equal(t, SequenceMatcher, det.Scorer)
	assert.Equal(t, .9, det.Threshold)
	assert.Equal(t, []Status{StatusRejected, StatusSuggested}, det.ExcludeStatuses)

	det, err = NewDetector(core.IngestConfig{})
	require.NoError(t, err)
	assert.Nil(t, det.ExcludeStatuses)

	_, err = NewDetector(core.IngestConfig{SimilarityMetric: "lol"})
	assert.Error(t, err)

	_, err = NewDetector(core.IngestConfig{ExcludeStatuses: []string{"archived"}})
	assert.Error(t, err)

	det, err = NewDetector(core.IngestConfig{ExcludeStatuses: []string{" REJECTED ", ""}})
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusRejected}, det.ExcludeStatuses)
}
