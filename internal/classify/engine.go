// Package classify implements the AI-assisted analysis pass. Every call
// performs a fresh classification; caching and staleness decisions
// belong to the lifecycle layer.
package classify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"swipeengine/internal/domain"
	"swipeengine/internal/fingerprint"
	"swipeengine/internal/reasoning"
)

// SchemaVersion is the engine's current analysis schema. Records carrying
// an older version are stale and eligible for re-classification. Owned
// here, passed explicitly wherever staleness is computed, so tests can
// simulate version bumps.
const SchemaVersion = 4

// Item is the classification input: whatever transcript text the caller
// has, with source metadata for the prompt.
type Item struct {
	ID         string
	Title      string
	Transcript string
	CreatorID  string
}

type Engine struct {
	client reasoning.Client
}

func NewEngine(client reasoning.Client) *Engine {
	return &Engine{client: client}
}

// ClassifyAndAnalyze runs a full AI classification of the item. On any
// failure it returns a retryable error and no record; it never produces
// a partial record.
func (e *Engine) ClassifyAndAnalyze(ctx context.Context, item Item) (domain.AnalysisRecord, error) {
	if strings.TrimSpace(item.Transcript) == "" {
		return domain.AnalysisRecord{}, fmt.Errorf("classify: empty transcript for item %s", item.ID)
	}

	systemPrompt, userPrompt := buildClassifyPrompts(item)
	log.Printf("classify request item=%s transcript_chars=%d", item.ID, len(item.Transcript))

	responseText, err := e.client.Call(ctx, systemPrompt, userPrompt)
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("classify item %s: %w", item.ID, err)
	}

	record, err := parseClassification(responseText)
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("classify item %s: %w", item.ID, err)
	}

	record.ItemID = item.ID
	record.CreatorID = item.CreatorID
	record.ClassificationSource = domain.SourceAI
	record.AnalysisVersion = SchemaVersion
	record.ClassifiedAt = time.Now().UTC()
	record.Fingerprint = fingerprint.New(record)
	return record, nil
}

func buildClassifyPrompts(item Item) (string, string) {
	var hookTypes, emotions, techniques strings.Builder
	for _, ht := range domain.AllHookTypes() {
		hookTypes.WriteString("- " + string(ht) + "\n")
	}
	for _, em := range domain.AllEmotions() {
		emotions.WriteString("- " + string(em) + "\n")
	}
	for _, tt := range domain.AllTechniqueTypes() {
		techniques.WriteString("- " + string(tt) + "\n")
	}

	systemPrompt := fmt.Sprintf(`You analyze short-form content transcripts for persuasion structure.

Choose hook_type from:
%s
Choose emotions from:
%s
Choose technique types from:
%s
Choose primary_narrative/secondary_narrative from: first_person_story, tutorial, listicle, case_study, rant, interview, skit.
Choose format from: talking_head, screen_recording, text_overlay, voiceover_broll, carousel, article.
niche is free text (e.g. "fitness coaching"); do not force it into a category.
Section start/end are character offsets into the transcript. hook_score runs 0-10, intensities and confidence 0-1.

Respond with JSON only (no markdown):
{"hook_text": "...", "hook_type": "question", "hook_score": 7.5, "hook_score_rationale": "...",
 "dominant_emotion": "curiosity", "secondary_emotion": "desire",
 "emotional_arc": [{"position": 0.0, "intensity": 0.8, "emotion": "curiosity"}, ...],
 "sections": [{"label": "hook", "start": 0, "end": 42, "purpose": "...", "emotion": "curiosity"}, ...],
 "techniques": [{"type": "scarcity", "intensity": 0.6, "quote": "..."}, ...],
 "primary_narrative": "tutorial", "secondary_narrative": "", "format": "talking_head",
 "niche": "...", "confidence": 0.9}`,
		hookTypes.String(), emotions.String(), techniques.String())

	userPrompt := fmt.Sprintf("Title: %s\n\nTranscript:\n%s", item.Title, item.Transcript)
	return systemPrompt, userPrompt
}

// ExplainFormula asks the reasoning service for a free-text narrative of
// a detected formula, for the "winning formula" callout.
func (e *Engine) ExplainFormula(ctx context.Context, formula domain.PatternFormula) (string, error) {
	systemPrompt := "You explain recurring short-form content patterns in 2-3 plain sentences for a creator studying them. No markdown, no lists."
	userPrompt := fmt.Sprintf(
		"Across %d closely matching items: hook type %q, format %q, leading technique %q, average hook score %.1f. Explain why this combination keeps working.",
		formula.MatchCount, formula.HookType, formula.Format, formula.Technique, formula.AverageScore)

	text, err := e.client.Call(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("explain formula: %w", err)
	}
	return strings.TrimSpace(text), nil
}
