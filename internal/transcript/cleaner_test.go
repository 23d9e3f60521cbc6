package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubReasoner struct {
	response string
	err      error
	lastUser string
}

func (s *stubReasoner) Call(_ context.Context, _ string, userPrompt string) (string, error) {
	s.lastUser = userPrompt
	return s.response, s.err
}

func TestCleanSlidesParsesFencedArray(t *testing.T) {
	client := &stubReasoner{response: "```json\n[\"First slide cleaned.\", \"Second slide cleaned.\"]\n```"}
	cleaner := NewAICleaner(client)

	cleaned, err := cleaner.CleanSlides(context.Background(), []string{"f1rst sl1de", "seco nd slide"})
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if len(cleaned) != 2 || cleaned[0] != "First slide cleaned." {
		t.Fatalf("unexpected cleaned slides %v", cleaned)
	}
	if !strings.Contains(client.lastUser, "SLIDE 2:") {
		t.Fatalf("slides not enumerated in prompt: %q", client.lastUser)
	}
}

func TestCleanSlidesRejectsCountMismatch(t *testing.T) {
	client := &stubReasoner{response: `["only one"]`}
	cleaner := NewAICleaner(client)

	if _, err := cleaner.CleanSlides(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected error on slide count mismatch")
	}
}

func TestCleanSlidesRejectsNonArray(t *testing.T) {
	client := &stubReasoner{response: `{"cleaned": true}`}
	cleaner := NewAICleaner(client)

	if _, err := cleaner.CleanSlides(context.Background(), []string{"a"}); err == nil {
		t.Fatalf("expected error for non-array response")
	}
}

func TestCleanSlidesPropagatesClientError(t *testing.T) {
	wantErr := errors.New("service down")
	cleaner := NewAICleaner(&stubReasoner{err: wantErr})

	if _, err := cleaner.CleanSlides(context.Background(), []string{"a"}); !errors.Is(err, wantErr) {
		t.Fatalf("expected client error, got %v", err)
	}
}
