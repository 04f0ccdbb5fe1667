package llmsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core/concept"
)

// maxSourceLen caps the text sent to the model, in runes.
const maxSourceLen = 20000

const outlinePrompt = `You are a curriculum designer. Extract the teachable concepts of the text below
as a markdown outline with at most three levels, using exactly this format:

## Top level concept: short description
- Sub concept: short description
  - Detail concept: short description

Rules:
- one concept per line, "## " for top level, "- " for sub concepts, two spaces then "- " for details
- names are short noun phrases, without numbering
- output ONLY the outline, no introduction and no code fences

Text:
%s`

// OutlineExtractor asks a model for a markdown outline of the concepts of a text.
type OutlineExtractor struct {
	client Client
}

var _ concept.OutlineExtractor = (*OutlineExtractor)(nil)

func NewOutlineExtractor(client Client) *OutlineExtractor {
	return &OutlineExtractor{client: client}
}

func (ex *OutlineExtractor) ExtractOutline(ctx context.Context, text string) (string, error) {
	if runes := []rune(text); len(runes) > maxSourceLen {
		text = string(runes[:maxSourceLen])
	}
	resp, err := ex.client.Generate(ctx, fmt.Sprintf(outlinePrompt, text))
	if err != nil {
		return "", err
	}
	outline := cleanOutline(resp)
	if outline == "" {
		return "", errors.New("empty outline")
	}
	return outline, nil
}

// cleanOutline drops code fences and trailing spaces the models tend to add.
func cleanOutline(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	// indentation of the first line carries its level
	return strings.Trim(strings.Join(kept, "\n"), "\n")
}
