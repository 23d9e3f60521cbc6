// Package analysis implements the local analysis pass: deterministic,
// lexicon-driven scoring that gives instant feedback before the AI pass
// completes and a baseline fingerprint even if the AI pass fails.
package analysis

import (
	"strings"

	"swipeengine/internal/config"
	"swipeengine/internal/domain"
	"swipeengine/internal/fingerprint"
)

// minTranscriptWords is the floor below which no hook or score fields
// are populated. Kept small so short punchy openers still analyze.
const minTranscriptWords = 5

// minSectionWords is the floor below which coarse sectioning is skipped
// and the record stays sparse, pending the AI pass.
const minSectionWords = 30

type Scorer struct {
	hookWordCount int
	lexicon       *Lexicon
}

// NewScorer builds the local pass. lexicon may be nil.
func NewScorer(cfg config.Config, lexicon *Lexicon) *Scorer {
	return &Scorer{hookWordCount: cfg.HookWordCount, lexicon: lexicon}
}

// Analyze derives a baseline record from transcript text alone. It is
// pure: no I/O, identical input yields an identical record. It never
// sets an AI classification source.
func (s *Scorer) Analyze(transcript, title string) domain.AnalysisRecord {
	record := domain.AnalysisRecord{
		ClassificationSource: domain.SourceLocal,
	}

	text := strings.TrimSpace(transcript)
	words := strings.Fields(text)
	if len(words) < minTranscriptWords {
		// Too short to say anything honest about. No synthetic score.
		return record
	}

	spans := splitSentenceSpans(text)

	hook := s.hookCandidate(text, spans)
	record.HookText = hook
	record.HookType = classifyHook(hook)
	score := scoreHook(hook, record.HookType)
	record.HookScore = &score

	record.DominantEmotion, record.SecondaryEmotion = classifyEmotions(text)
	record.EmotionalArc = emotionArc(spans)
	record.Techniques = detectTechniques(text, spans)

	if len(words) >= minSectionWords {
		record.Sections = sectionize(text, spans)
	}

	record.ClassificationConfidence = 0.4
	if s.lexicon != nil {
		s.lexicon.ApplyOverrides(&record, text)
	}

	fp := fingerprint.New(record)
	record.Fingerprint = fp
	return record
}

// hookCandidate is the first sentence, or the first N words when the
// first sentence runs long.
func (s *Scorer) hookCandidate(text string, spans []sentenceSpan) string {
	if len(spans) > 0 {
		first := spans[0].text
		if len(strings.Fields(first)) <= s.hookWordCount {
			return first
		}
	}
	words := strings.Fields(text)
	if len(words) > s.hookWordCount {
		words = words[:s.hookWordCount]
	}
	return strings.Join(words, " ")
}

func classifyHook(hook string) domain.HookType {
	lower := strings.ToLower(hook)

	best := domain.HookBoldClaim
	bestCount := 0
	for _, ht := range domain.AllHookTypes() {
		count := 0
		for _, phrase := range hookSignals[ht] {
			if strings.Contains(lower, phrase) {
				count++
			}
		}
		if count > bestCount {
			best = ht
			bestCount = count
		}
	}
	return best
}

func scoreHook(hook string, hookType domain.HookType) float64 {
	score := 5.0
	switch hookType {
	case domain.HookPatternInterrupt, domain.HookQuestion, domain.HookCuriosityGap:
		score += 1.5
	case domain.HookStatistic, domain.HookChallenge:
		score += 1.0
	}
	if len(hook) <= 60 {
		score += 1.0
	}
	if strings.Contains(strings.ToLower(hook), "you") {
		score += 0.5
	}
	if score > 10 {
		score = 10
	}
	return score
}

func classifyEmotions(text string) (domain.Emotion, domain.Emotion) {
	lower := strings.ToLower(text)

	counts := map[domain.Emotion]int{}
	for _, em := range domain.AllEmotions() {
		for _, phrase := range emotionSignals[em] {
			counts[em] += strings.Count(lower, phrase)
		}
	}

	dominant, secondary := domain.EmotionCuriosity, domain.Emotion("")
	domCount, secCount := 0, 0
	for _, em := range domain.AllEmotions() {
		c := counts[em]
		if c > domCount {
			secondary, secCount = dominant, domCount
			dominant, domCount = em, c
		} else if c > secCount {
			secondary, secCount = em, c
		}
	}
	if secCount == 0 {
		secondary = ""
	}
	return dominant, secondary
}

func emotionArc(spans []sentenceSpan) []domain.EmotionPoint {
	if len(spans) == 0 {
		return nil
	}
	var arc []domain.EmotionPoint
	for i, span := range spans {
		lower := strings.ToLower(span.text)
		for _, em := range domain.AllEmotions() {
			hits := 0
			for _, phrase := range emotionSignals[em] {
				if strings.Contains(lower, phrase) {
					hits++
				}
			}
			if hits == 0 {
				continue
			}
			position := 0.0
			if len(spans) > 1 {
				position = float64(i) / float64(len(spans)-1)
			}
			intensity := 0.4 + 0.2*float64(hits)
			if intensity > 1 {
				intensity = 1
			}
			arc = append(arc, domain.EmotionPoint{Position: position, Intensity: intensity, Emotion: em})
			break
		}
	}
	return arc
}

func detectTechniques(text string, spans []sentenceSpan) []domain.PersuasionTechnique {
	lower := strings.ToLower(text)

	var techniques []domain.PersuasionTechnique
	for _, tt := range domain.AllTechniqueTypes() {
		count := 0
		firstPhrase := ""
		for _, phrase := range techniqueSignals[tt] {
			c := strings.Count(lower, phrase)
			if c > 0 && firstPhrase == "" {
				firstPhrase = phrase
			}
			count += c
		}
		if count == 0 {
			continue
		}
		intensity := 0.3 * float64(count)
		if intensity > 1 {
			intensity = 1
		}
		techniques = append(techniques, domain.PersuasionTechnique{
			Type:      tt,
			Intensity: intensity,
			Quote:     quoteFor(firstPhrase, spans),
		})
	}
	return techniques
}

func quoteFor(phrase string, spans []sentenceSpan) string {
	for _, span := range spans {
		if strings.Contains(strings.ToLower(span.text), phrase) {
			return span.text
		}
	}
	return ""
}

// Framework-ordered purpose labels for coarse sectioning. The AI pass
// replaces these with real structure when it lands.
var sectionLabels = []struct {
	label   string
	purpose string
}{
	{"hook", "capture attention"},
	{"setup", "frame the problem"},
	{"build", "develop the argument"},
	{"payoff", "deliver the value"},
}

// sectionize splits the transcript into even-weighted sections at
// paragraph boundaries when present, sentence boundaries otherwise.
func sectionize(text string, spans []sentenceSpan) []domain.StructuralSection {
	if len(spans) == 0 {
		return nil
	}

	groups := len(sectionLabels)
	if len(spans) < groups {
		groups = len(spans)
	}

	var sections []domain.StructuralSection
	perGroup := len(spans) / groups
	extra := len(spans) % groups
	idx := 0
	for g := 0; g < groups; g++ {
		size := perGroup
		if g < extra {
			size++
		}
		first, last := spans[idx], spans[idx+size-1]
		sections = append(sections, domain.StructuralSection{
			Label:   sectionLabels[g].label,
			Start:   first.start,
			End:     last.end,
			Purpose: sectionLabels[g].purpose,
		})
		idx += size
	}
	return sections
}

type sentenceSpan struct {
	start int // rune offset
	end   int
	text  string
}

func splitSentenceSpans(text string) []sentenceSpan {
	var spans []sentenceSpan
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			candidate := strings.TrimSpace(string(runes[start : i+1]))
			if candidate != "" {
				spans = append(spans, sentenceSpan{start: start, end: i + 1, text: candidate})
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		spans = append(spans, sentenceSpan{start: start, end: len(runes), text: tail})
	}
	return spans
}
