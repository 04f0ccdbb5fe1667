package concept

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	level0Marker = "## "
	level1Marker = "- "
	level2Marker = "  - "
)

var boldRegex = regexp.MustCompile(`\*\*(.*?)\*\*`)

// outlineState is what the parser carries from one line to the next.
type outlineState struct {
	out          []Candidate
	level0Parent string
	level1Parent string
}

// ParseOutline turns an indentation based markdown outline into candidates, in document order:
//   - `## name: description` is a level 0 node
//   - `- name: description` is a level 1 node, child of the last level 0 node
//   - `  - name: description` is a level 2 node, child of the last level 1 node
//
// Any other line is ignored. A level 2 node without a preceding level 1 node has no parent.
func ParseOutline(text string) []Candidate {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	state := outlineState{out: make([]Candidate, 0)}
	for _, line := range strings.Split(text, "\n") {
		state = state.next(line)
	}
	return state.out
}

func (s outlineState) next(line string) outlineState {
	if strings.TrimSpace(line) == "" {
		return s
	}

	var (
		level  int
		parent string
		rest   string
	)
	switch {
	case strings.HasPrefix(line, level0Marker):
		level, rest = 0, line[len(level0Marker):]
	case strings.HasPrefix(line, level1Marker):
		level, parent, rest = 1, s.level0Parent, line[len(level1Marker):]
	case strings.HasPrefix(line, level2Marker):
		level, parent, rest = 2, s.level1Parent, line[len(level2Marker):]
	default:
		return s
	}

	name, desc := splitNameDescription(rest)
	if name == "" {
		return s
	}

	cand := Candidate{
		TempID:       "temp_" + strconv.Itoa(len(s.out)),
		Name:         name,
		Description:  desc,
		Level:        level,
		TempParentID: parent,
	}
	s.out = append(s.out, cand)

	switch level {
	case 0:
		s.level0Parent = cand.TempID
		s.level1Parent = ""
	case 1:
		s.level1Parent = cand.TempID
	}
	return s
}

// splitNameDescription strips bold markup and splits on the first colon.
func splitNameDescription(s string) (name, desc string) {
	s = boldRegex.ReplaceAllString(s, "$1")
	if idx := strings.Index(s, ":"); idx >= 0 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
	}
	return strings.TrimSpace(s), ""
}
