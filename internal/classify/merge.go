package classify

import (
	"swipeengine/internal/domain"
	"swipeengine/internal/fingerprint"
)

// MergeClassification folds an AI result into the local pass's record.
// Pure merge: AI-sourced fields override when present and non-empty,
// everything else falls back to the local result. The merged record
// carries the AI source tag and the current schema version, and its
// fingerprint is rebuilt from the merged categorical fields so the
// vector always agrees with the record it summarizes.
func MergeClassification(ai, local domain.AnalysisRecord) domain.AnalysisRecord {
	merged := local

	if ai.HookText != "" {
		merged.HookText = ai.HookText
	}
	if ai.HookType != "" {
		merged.HookType = ai.HookType
	}
	if ai.HookScore != nil {
		merged.HookScore = ai.HookScore
	}
	if ai.HookScoreRationale != "" {
		merged.HookScoreRationale = ai.HookScoreRationale
	}
	if ai.DominantEmotion != "" {
		merged.DominantEmotion = ai.DominantEmotion
	}
	if ai.SecondaryEmotion != "" {
		merged.SecondaryEmotion = ai.SecondaryEmotion
	}
	if len(ai.EmotionalArc) > 0 {
		merged.EmotionalArc = ai.EmotionalArc
	}
	if len(ai.Sections) > 0 {
		merged.Sections = ai.Sections
	}
	if len(ai.Techniques) > 0 {
		merged.Techniques = ai.Techniques
	}
	if ai.PrimaryNarrative != "" {
		merged.PrimaryNarrative = ai.PrimaryNarrative
	}
	if ai.SecondaryNarrative != "" {
		merged.SecondaryNarrative = ai.SecondaryNarrative
	}
	if ai.Format != "" {
		merged.Format = ai.Format
	}
	if ai.Niche != "" {
		merged.Niche = ai.Niche
	}
	if ai.ClassificationConfidence > 0 {
		merged.ClassificationConfidence = ai.ClassificationConfidence
	}
	if !ai.ClassifiedAt.IsZero() {
		merged.ClassifiedAt = ai.ClassifiedAt
	}

	merged.ClassificationSource = domain.SourceAI
	merged.AnalysisVersion = SchemaVersion
	merged.Fingerprint = fingerprint.New(merged)
	return merged
}

// SuggestionState tracks the explicit accept/reject workflow for
// re-classification. A suggestion never auto-applies.
type SuggestionState int

const (
	SuggestionNone SuggestionState = iota
	SuggestionPending
	SuggestionApplied
)

// Suggestion is the outcome of a classification request against an item
// that already has a classified record. Pending suggestions hold the
// merged candidate; the caller accepts or rejects it explicitly.
type Suggestion struct {
	State  SuggestionState
	Record domain.AnalysisRecord
}
