package analysis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"unicode/utf8"

	"swipeengine/internal/config"
	"swipeengine/internal/domain"
)

func newTestScorer() *Scorer {
	var cfg config.Config
	cfg.ApplyDefaults()
	return NewScorer(cfg, nil)
}

const longTranscript = "Have you ever wondered why some videos explode overnight? " +
	"I used to post every day and get nothing. " +
	"Then I found the secret that nobody talks about. " +
	"Try this today and watch what happens to your reach."

func TestAnalyzeShortTranscript(t *testing.T) {
	record := newTestScorer().Analyze("Too short.", "")

	if record.HookText != "" || record.HookType != "" {
		t.Fatalf("expected no hook fields for a short transcript, got text=%q type=%q", record.HookText, record.HookType)
	}
	if record.HookScore != nil {
		t.Fatalf("expected no synthetic score for a short transcript, got %f", *record.HookScore)
	}
	if record.ClassificationSource != domain.SourceLocal {
		t.Fatalf("expected local source, got %s", record.ClassificationSource)
	}
	if record.Fingerprint != nil {
		t.Fatalf("expected no fingerprint without structural signal")
	}
}

func TestAnalyzePatternInterruptHook(t *testing.T) {
	record := newTestScorer().Analyze("Stop scrolling. This changed everything.", "")

	if record.HookText != "Stop scrolling." {
		t.Fatalf("expected first sentence as hook, got %q", record.HookText)
	}
	if record.HookType != domain.HookPatternInterrupt {
		t.Fatalf("expected pattern_interrupt, got %s", record.HookType)
	}
	if record.HookScore == nil || *record.HookScore != 7.5 {
		t.Fatalf("expected hook score 7.5, got %v", record.HookScore)
	}
	// Five words is analyzable but too short for structural sections.
	if len(record.Sections) != 0 {
		t.Fatalf("expected no sections for a short transcript, got %d", len(record.Sections))
	}
	if record.IsFullyAnalyzed() {
		t.Fatalf("local pass on a short transcript must not report fully analyzed")
	}
	if !record.IsSparse() {
		t.Fatalf("expected sparse record pending the AI pass")
	}
	if record.Fingerprint == nil {
		t.Fatalf("expected a fingerprint once a hook type is known")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	scorer := newTestScorer()
	a := scorer.Analyze(longTranscript, "title")
	b := scorer.Analyze(longTranscript, "title")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical input produced different records:\n a=%+v\n b=%+v", a, b)
	}
}

func TestAnalyzeQuestionHookAndSignals(t *testing.T) {
	record := newTestScorer().Analyze(longTranscript, "")

	if record.HookType != domain.HookQuestion {
		t.Fatalf("expected question hook, got %s", record.HookType)
	}
	if record.DominantEmotion == "" {
		t.Fatalf("expected a dominant emotion")
	}
	if len(record.Techniques) == 0 {
		t.Fatalf("expected persuasion techniques from signal phrases")
	}
	for _, tech := range record.Techniques {
		if tech.Intensity <= 0 || tech.Intensity > 1 {
			t.Fatalf("technique %s intensity out of range: %f", tech.Type, tech.Intensity)
		}
	}
	if record.ClassificationConfidence != 0.4 {
		t.Fatalf("expected local confidence 0.4, got %f", record.ClassificationConfidence)
	}
}

func TestAnalyzeSectionOffsets(t *testing.T) {
	record := newTestScorer().Analyze(longTranscript, "")

	if len(record.Sections) != 4 {
		t.Fatalf("expected 4 sections from 4 sentences, got %d", len(record.Sections))
	}
	if record.Sections[0].Label != "hook" || record.Sections[0].Start != 0 {
		t.Fatalf("expected first section hook at offset 0, got %+v", record.Sections[0])
	}
	last := record.Sections[len(record.Sections)-1]
	if last.End != utf8.RuneCountInString(longTranscript) {
		t.Fatalf("expected last section to end at %d runes, got %d", utf8.RuneCountInString(longTranscript), last.End)
	}
	for i := 1; i < len(record.Sections); i++ {
		if record.Sections[i].Start < record.Sections[i-1].End {
			t.Fatalf("sections overlap: %+v then %+v", record.Sections[i-1], record.Sections[i])
		}
	}
}

func TestSplitSentenceSpansRuneOffsets(t *testing.T) {
	text := "Café culture wins. Every time!"
	spans := splitSentenceSpans(text)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].text != "Café culture wins." {
		t.Fatalf("unexpected first span %q", spans[0].text)
	}
	// Offsets count runes, not bytes: é must not shift the boundary.
	if spans[0].end != 18 {
		t.Fatalf("expected first span to end at rune 18, got %d", spans[0].end)
	}
	if spans[1].end != utf8.RuneCountInString(text) {
		t.Fatalf("expected final span to end at %d, got %d", utf8.RuneCountInString(text), spans[1].end)
	}
}

func TestLexiconOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	content := `hook_terms:
  - phrase: "game changer"
    hook_type: "challenge"
niche_hints:
  - phrase: "building online"
    niche: "creator economy"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
	lexicon, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}

	var cfg config.Config
	cfg.ApplyDefaults()
	scorer := NewScorer(cfg, lexicon)

	record := scorer.Analyze("This tool is a total game changer for anyone building online.", "")
	if record.HookType != domain.HookChallenge {
		t.Fatalf("expected lexicon override to challenge, got %s", record.HookType)
	}
	if record.ClassificationConfidence != 0.99 {
		t.Fatalf("expected override confidence 0.99, got %f", record.ClassificationConfidence)
	}
	if record.Niche != "creator economy" {
		t.Fatalf("expected niche hint applied, got %q", record.Niche)
	}
}

func TestLoadLexiconMissingFile(t *testing.T) {
	if _, err := LoadLexicon(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing lexicon file")
	}
}
