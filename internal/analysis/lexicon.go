package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"swipeengine/internal/domain"
)

// Built-in signal lexicons for the local pass. Phrases are matched
// case-insensitively against the transcript.

var hookSignals = map[domain.HookType][]string{
	domain.HookQuestion:         {"what if", "have you ever", "why do", "how do", "did you know", "?"},
	domain.HookBoldClaim:        {"changed everything", "changed my life", "never", "always", "the only", "nobody else", "guaranteed"},
	domain.HookPatternInterrupt: {"stop scrolling", "wait", "hold on", "stop right there", "before you scroll"},
	domain.HookStory:            {"when i", "i used to", "last year", "a few years ago", "let me tell you"},
	domain.HookStatistic:        {"%", "percent", "out of", "studies show", "million", "billion"},
	domain.HookChallenge:        {"try this", "do this", "i dare you", "bet you can't", "challenge"},
	domain.HookCuriosityGap:     {"the secret", "you won't believe", "nobody talks about", "what they don't tell you", "the real reason"},
}

var emotionSignals = map[domain.Emotion][]string{
	domain.EmotionCuriosity: {"secret", "hidden", "discover", "find out", "what if", "reveal"},
	domain.EmotionFear:      {"mistake", "warning", "danger", "lose", "ruin", "before it's too late"},
	domain.EmotionDesire:    {"dream", "imagine", "finally", "freedom", "rich", "success"},
	domain.EmotionTrust:     {"proven", "honest", "transparent", "research", "i promise", "truth"},
	domain.EmotionSurprise:  {"shocking", "unbelievable", "plot twist", "you won't believe", "turns out"},
	domain.EmotionJoy:       {"love", "amazing", "best", "celebrate", "happy", "fun"},
	domain.EmotionAnger:     {"scam", "lie", "unfair", "stop doing", "sick of", "fed up"},
	domain.EmotionSadness:   {"lost", "alone", "failed", "gave up", "struggled", "broke"},
}

var techniqueSignals = map[domain.TechniqueType][]string{
	domain.TechniqueScarcity:     {"only", "limited", "last chance", "running out", "few left", "exclusive"},
	domain.TechniqueSocialProof:  {"everyone", "thousands of", "millions of", "people are", "most popular", "went viral"},
	domain.TechniqueAuthority:    {"expert", "scientist", "doctor", "research", "studies show", "years of experience"},
	domain.TechniqueReciprocity:  {"free", "for you", "no strings", "my gift", "i'll share", "here's how"},
	domain.TechniqueUrgency:      {"now", "today", "right now", "before", "hurry", "don't wait"},
	domain.TechniqueContrast:     {"instead of", "unlike", "the difference", "versus", "but actually", "most people"},
	domain.TechniqueStorytelling: {"when i", "one day", "then i", "that's when", "let me tell you", "it started"},
	domain.TechniqueRepetition:   {"again and again", "every single", "over and over"},
}

// Lexicon holds user-supplied phrase overrides applied after both the
// local and AI passes, so hand corrections stick across re-analysis.
type Lexicon struct {
	HookTerms  []HookTerm  `yaml:"hook_terms"`
	NicheHints []NicheHint `yaml:"niche_hints"`
}

type HookTerm struct {
	Phrase   string `yaml:"phrase"`
	HookType string `yaml:"hook_type"`
}

type NicheHint struct {
	Phrase string `yaml:"phrase"`
	Niche  string `yaml:"niche"`
}

func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon yaml: %w", err)
	}
	return &lex, nil
}

// ApplyOverrides rewrites hook type and niche when a lexicon phrase
// appears in the transcript, raising confidence the way a hand-entered
// correction would.
func (l *Lexicon) ApplyOverrides(record *domain.AnalysisRecord, transcript string) {
	if l == nil {
		return
	}
	text := strings.ToLower(transcript)

	for _, term := range l.HookTerms {
		phrase := strings.ToLower(strings.TrimSpace(term.Phrase))
		if phrase == "" || !strings.Contains(text, phrase) {
			continue
		}
		record.HookType = domain.HookType(term.HookType)
		if record.ClassificationConfidence < 0.99 {
			record.ClassificationConfidence = 0.99
		}
		break
	}

	for _, hint := range l.NicheHints {
		phrase := strings.ToLower(strings.TrimSpace(hint.Phrase))
		if phrase != "" && strings.Contains(text, phrase) {
			record.Niche = hint.Niche
			break
		}
	}
}
