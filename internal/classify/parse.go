package classify

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"swipeengine/internal/domain"
)

// parseClassification extracts a record from the model's JSON response.
// Models wrap output in fences and drift on field shapes (numbers as
// strings, missing arrays), so extraction goes through gjson rather than
// a rigid struct unmarshal. Unknown enum values are dropped, not
// guessed.
func parseClassification(responseText string) (domain.AnalysisRecord, error) {
	text := stripFences(responseText)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return domain.AnalysisRecord{}, fmt.Errorf("no JSON object in response: %s", truncateForLog(responseText))
	}
	body := text[start : end+1]
	if !gjson.Valid(body) {
		return domain.AnalysisRecord{}, fmt.Errorf("invalid JSON in response: %s", truncateForLog(responseText))
	}
	root := gjson.Parse(body)

	var record domain.AnalysisRecord
	record.HookText = strings.TrimSpace(root.Get("hook_text").String())
	record.HookType = hookTypeOrEmpty(root.Get("hook_type").String())
	if v := root.Get("hook_score"); v.Exists() {
		score := clamp(v.Float(), 0, 10)
		record.HookScore = &score
	}
	record.HookScoreRationale = strings.TrimSpace(root.Get("hook_score_rationale").String())

	record.DominantEmotion = emotionOrEmpty(root.Get("dominant_emotion").String())
	record.SecondaryEmotion = emotionOrEmpty(root.Get("secondary_emotion").String())

	root.Get("emotional_arc").ForEach(func(_, v gjson.Result) bool {
		emotion := emotionOrEmpty(v.Get("emotion").String())
		if emotion == "" {
			return true
		}
		record.EmotionalArc = append(record.EmotionalArc, domain.EmotionPoint{
			Position:  clamp(v.Get("position").Float(), 0, 1),
			Intensity: clamp(v.Get("intensity").Float(), 0, 1),
			Emotion:   emotion,
		})
		return true
	})

	root.Get("sections").ForEach(func(_, v gjson.Result) bool {
		label := strings.TrimSpace(v.Get("label").String())
		if label == "" {
			return true
		}
		record.Sections = append(record.Sections, domain.StructuralSection{
			Label:   label,
			Start:   int(v.Get("start").Int()),
			End:     int(v.Get("end").Int()),
			Purpose: strings.TrimSpace(v.Get("purpose").String()),
			Emotion: emotionOrEmpty(v.Get("emotion").String()),
		})
		return true
	})

	root.Get("techniques").ForEach(func(_, v gjson.Result) bool {
		tt := techniqueOrEmpty(v.Get("type").String())
		if tt == "" {
			return true
		}
		record.Techniques = append(record.Techniques, domain.PersuasionTechnique{
			Type:      tt,
			Intensity: clamp(v.Get("intensity").Float(), 0, 1),
			Quote:     strings.TrimSpace(v.Get("quote").String()),
		})
		return true
	})

	record.PrimaryNarrative = narrativeOrEmpty(root.Get("primary_narrative").String())
	record.SecondaryNarrative = narrativeOrEmpty(root.Get("secondary_narrative").String())
	record.Format = formatOrEmpty(root.Get("format").String())
	record.Niche = strings.TrimSpace(root.Get("niche").String())
	record.ClassificationConfidence = clamp(root.Get("confidence").Float(), 0, 1)

	return record, nil
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

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalizeToken(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func hookTypeOrEmpty(s string) domain.HookType {
	token := domain.HookType(normalizeToken(s))
	for _, ht := range domain.AllHookTypes() {
		if ht == token {
			return ht
		}
	}
	return ""
}

func emotionOrEmpty(s string) domain.Emotion {
	token := domain.Emotion(normalizeToken(s))
	for _, em := range domain.AllEmotions() {
		if em == token {
			return em
		}
	}
	return ""
}

func techniqueOrEmpty(s string) domain.TechniqueType {
	token := domain.TechniqueType(normalizeToken(s))
	for _, tt := range domain.AllTechniqueTypes() {
		if tt == token {
			return tt
		}
	}
	return ""
}

func narrativeOrEmpty(s string) domain.NarrativeStyle {
	switch ns := domain.NarrativeStyle(normalizeToken(s)); ns {
	case domain.NarrativeFirstPersonStory, domain.NarrativeTutorial, domain.NarrativeListicle,
		domain.NarrativeCaseStudy, domain.NarrativeRant, domain.NarrativeInterview, domain.NarrativeSkit:
		return ns
	}
	return ""
}

func formatOrEmpty(s string) domain.ContentFormat {
	switch f := domain.ContentFormat(normalizeToken(s)); f {
	case domain.FormatTalkingHead, domain.FormatScreenRecording, domain.FormatTextOverlay,
		domain.FormatVoiceoverBRoll, domain.FormatCarousel, domain.FormatArticle:
		return f
	}
	return ""
}
