package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"swipeengine/internal/domain"
)

// stubClient captures prompts and returns a canned response.
type stubClient struct {
	response string
	err      error

	lastSystem string
	lastUser   string
}

func (s *stubClient) Call(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	return s.response, s.err
}

func TestClassifyAndAnalyzeSetsMetadata(t *testing.T) {
	client := &stubClient{response: fencedResponse}
	engine := NewEngine(client)

	record, err := engine.ClassifyAndAnalyze(context.Background(), Item{
		ID:         "item-42",
		Title:      "My best hook yet",
		Transcript: "Stop scrolling right now. Here is why this matters to you.",
		CreatorID:  "creator-9",
	})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if record.ItemID != "item-42" || record.CreatorID != "creator-9" {
		t.Fatalf("identity fields not set: %+v", record)
	}
	if record.ClassificationSource != domain.SourceAI {
		t.Fatalf("expected ai source, got %s", record.ClassificationSource)
	}
	if record.AnalysisVersion != SchemaVersion {
		t.Fatalf("expected version %d, got %d", SchemaVersion, record.AnalysisVersion)
	}
	if record.ClassifiedAt.IsZero() {
		t.Fatalf("expected classified timestamp")
	}
	if record.Fingerprint == nil {
		t.Fatalf("expected fingerprint on classified record")
	}

	if !strings.Contains(client.lastUser, "My best hook yet") {
		t.Fatalf("title missing from user prompt")
	}
	if !strings.Contains(client.lastSystem, string(domain.HookCuriosityGap)) {
		t.Fatalf("hook categories missing from system prompt")
	}
	if !strings.Contains(client.lastSystem, string(domain.TechniqueSocialProof)) {
		t.Fatalf("technique categories missing from system prompt")
	}
}

func TestClassifyAndAnalyzeEmptyTranscript(t *testing.T) {
	engine := NewEngine(&stubClient{response: fencedResponse})
	if _, err := engine.ClassifyAndAnalyze(context.Background(), Item{ID: "x", Transcript: "   "}); err == nil {
		t.Fatalf("expected error for empty transcript")
	}
}

func TestClassifyAndAnalyzeClientError(t *testing.T) {
	wantErr := errors.New("service unavailable")
	engine := NewEngine(&stubClient{err: wantErr})

	_, err := engine.ClassifyAndAnalyze(context.Background(), Item{ID: "x", Transcript: "some transcript text"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func TestClassifyAndAnalyzeUnparseableResponse(t *testing.T) {
	engine := NewEngine(&stubClient{response: "I cannot help with that."})
	if _, err := engine.ClassifyAndAnalyze(context.Background(), Item{ID: "x", Transcript: "some transcript text"}); err == nil {
		t.Fatalf("expected error for unparseable response")
	}
}

func TestExplainFormula(t *testing.T) {
	client := &stubClient{response: "  These hooks keep working because they interrupt habit.  "}
	engine := NewEngine(client)

	text, err := engine.ExplainFormula(context.Background(), domain.PatternFormula{
		HookType:     domain.HookPatternInterrupt,
		Format:       domain.FormatTalkingHead,
		Technique:    domain.TechniqueUrgency,
		MatchCount:   4,
		AverageScore: 7.8,
	})
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	if text != "These hooks keep working because they interrupt habit." {
		t.Fatalf("expected trimmed explanation, got %q", text)
	}
	if !strings.Contains(client.lastUser, "pattern_interrupt") {
		t.Fatalf("formula fields missing from prompt: %q", client.lastUser)
	}
}
