package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"swipeengine/internal/reasoning"
)

// AICleaner fixes OCR artifacts in fused slide texts through the
// reasoning service.
type AICleaner struct {
	client reasoning.Client
}

func NewAICleaner(client reasoning.Client) *AICleaner {
	return &AICleaner{client: client}
}

const cleanerSystemPrompt = `You clean up video transcript slides produced by OCR and speech recognition.
Fix recognition artifacts: broken words, stray characters, duplicated fragments, wrong casing.
Do NOT paraphrase, summarize, reorder, or merge slides. Keep the meaning and wording intact.

Respond with a JSON array of strings, one per input slide, in the same order (no markdown):
["cleaned slide 1", "cleaned slide 2", ...]`

func (c *AICleaner) CleanSlides(ctx context.Context, texts []string) ([]string, error) {
	var sb strings.Builder
	for i, t := range texts {
		sb.WriteString(fmt.Sprintf("SLIDE %d:\n%s\n\n", i+1, t))
	}

	responseText, err := c.client.Call(ctx, cleanerSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	parsed := gjson.Parse(stripFences(responseText))
	if !parsed.IsArray() {
		return nil, fmt.Errorf("cleanup response is not a JSON array: %s", truncateForLog(responseText))
	}

	var cleaned []string
	parsed.ForEach(func(_, value gjson.Result) bool {
		cleaned = append(cleaned, value.String())
		return true
	})
	if len(cleaned) != len(texts) {
		return nil, fmt.Errorf("cleanup returned %d slides, expected %d", len(cleaned), len(texts))
	}
	return cleaned, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncateForLog(s string) string {
	if len(s) > 512 {
		return s[:512] + fmt.Sprintf("... [truncated, total_length=%d]", len(s))
	}
	return s
}
