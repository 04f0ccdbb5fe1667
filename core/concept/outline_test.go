package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const harmonyOutline = `## I. Harmony
- Major Scale Harmonization: Building chords on each scale degree
- **Chord Extensions**: 9ths, 11ths and 13ths
  - Ninth Chords
`

func TestParseOutline(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Candidate
	}{
		{name: "empty", text: "", want: []Candidate{}},
		{
			name: "levels & parents",
			text: harmonyOutline,
			want: []Candidate{
				{TempID: "temp_0", Name: "I. Harmony", Level: 0},
				{TempID: "temp_1", Name: "Major Scale Harmonization", Description: "Building chords on each scale degree", Level: 1, TempParentID: "temp_0"},
				{TempID: "temp_2", Name: "Chord Extensions", Description: "9ths, 11ths and 13ths", Level: 1, TempParentID: "temp_0"},
				{TempID: "temp_3", Name: "Ninth Chords", Level: 2, TempParentID: "temp_2"},
			},
		},
		{
			name: "unrecognized lines ignored",
			text: "Intro text\n\n### Deeper\n   - three spaces\n* star\n## Rhythm\n\t- tab\n- Swing Feel\n",
			want: []Candidate{
				{TempID: "temp_0", Name: "Rhythm", Level: 0},
				{TempID: "temp_1", Name: "Swing Feel", Level: 1, TempParentID: "temp_0"},
			},
		},
		{
			name: "new level 0 resets level 1 parent",
			text: "## A\n- B\n## C\n  - D",
			want: []Candidate{
				{TempID: "temp_0", Name: "A", Level: 0},
				{TempID: "temp_1", Name: "B", Level: 1, TempParentID: "temp_0"},
				{TempID: "temp_2", Name: "C", Level: 0},
				{TempID: "temp_3", Name: "D", Level: 2},
			},
		},
		{
			name: "orphans",
			text: "  - Orphan\n- Root Level 1",
			want: []Candidate{
				{TempID: "temp_0", Name: "Orphan", Level: 2},
				{TempID: "temp_1", Name: "Root Level 1", Level: 1},
			},
		},
		{
			name: "split on first colon",
			text: "- Time Signature: 4/4: common time",
			want: []Candidate{
				{TempID: "temp_0", Name: "Time Signature", Description: "4/4: common time", Level: 1},
			},
		},
		{
			name: "empty names skipped",
			text: "## : no name\n## **Form**\n- :\n- AABA",
			want: []Candidate{
				{TempID: "temp_0", Name: "Form", Level: 0},
				{TempID: "temp_1", Name: "AABA", Level: 1, TempParentID: "temp_0"},
			},
		},
		{
			name: "CRLF",
			text: "## Form\r\n- AABA\r\n  - Bridge\r\n",
			want: []Candidate{
				{TempID: "temp_0", Name: "Form", Level: 0},
				{TempID: "temp_1", Name: "AABA", Level: 1, TempParentID: "temp_0"},
				{TempID: "temp_2", Name: "Bridge", Level: 2, TempParentID: "temp_1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOutline(tt.text))
		})
	}
}

func TestParseOutline_parentsPrecedeChildren(t *testing.T) {
	cands := ParseOutline(harmonyOutline + "## II. Rhythm\n- Swing Feel\n  - Shuffle\n  - Half-time Shuffle\n- Clave\n")

	seen := make(map[string]bool)
	for _, c := range cands {
		if c.TempParentID != "" {
			assert.True(t, seen[c.TempParentID], "%s appears before its parent", c.Name)
		}
		seen[c.TempID] = true
	}
	assert.Len(t, cands, 9)
}
