package domain

import "time"

// HookType is the closed category of attention-capture openings.
type HookType string

const (
	HookQuestion         HookType = "question"
	HookBoldClaim        HookType = "bold_claim"
	HookPatternInterrupt HookType = "pattern_interrupt"
	HookStory            HookType = "story"
	HookStatistic        HookType = "statistic"
	HookChallenge        HookType = "challenge"
	HookCuriosityGap     HookType = "curiosity_gap"
)

// AllHookTypes returns the hook categories in fingerprint layout order.
// The order is part of the fingerprint layout and must not change without
// bumping FingerprintLayoutVersion.
func AllHookTypes() []HookType {
	return []HookType{
		HookQuestion, HookBoldClaim, HookPatternInterrupt,
		HookStory, HookStatistic, HookChallenge, HookCuriosityGap,
	}
}

type Emotion string

const (
	EmotionCuriosity Emotion = "curiosity"
	EmotionFear      Emotion = "fear"
	EmotionDesire    Emotion = "desire"
	EmotionTrust     Emotion = "trust"
	EmotionSurprise  Emotion = "surprise"
	EmotionJoy       Emotion = "joy"
	EmotionAnger     Emotion = "anger"
	EmotionSadness   Emotion = "sadness"
)

func AllEmotions() []Emotion {
	return []Emotion{
		EmotionCuriosity, EmotionFear, EmotionDesire, EmotionTrust,
		EmotionSurprise, EmotionJoy, EmotionAnger, EmotionSadness,
	}
}

type TechniqueType string

const (
	TechniqueScarcity     TechniqueType = "scarcity"
	TechniqueSocialProof  TechniqueType = "social_proof"
	TechniqueAuthority    TechniqueType = "authority"
	TechniqueReciprocity  TechniqueType = "reciprocity"
	TechniqueUrgency      TechniqueType = "urgency"
	TechniqueContrast     TechniqueType = "contrast"
	TechniqueStorytelling TechniqueType = "storytelling"
	TechniqueRepetition   TechniqueType = "repetition"
)

func AllTechniqueTypes() []TechniqueType {
	return []TechniqueType{
		TechniqueScarcity, TechniqueSocialProof, TechniqueAuthority,
		TechniqueReciprocity, TechniqueUrgency, TechniqueContrast,
		TechniqueStorytelling, TechniqueRepetition,
	}
}

type NarrativeStyle string

const (
	NarrativeFirstPersonStory NarrativeStyle = "first_person_story"
	NarrativeTutorial         NarrativeStyle = "tutorial"
	NarrativeListicle         NarrativeStyle = "listicle"
	NarrativeCaseStudy        NarrativeStyle = "case_study"
	NarrativeRant             NarrativeStyle = "rant"
	NarrativeInterview        NarrativeStyle = "interview"
	NarrativeSkit             NarrativeStyle = "skit"
)

type ContentFormat string

const (
	FormatTalkingHead     ContentFormat = "talking_head"
	FormatScreenRecording ContentFormat = "screen_recording"
	FormatTextOverlay     ContentFormat = "text_overlay"
	FormatVoiceoverBRoll  ContentFormat = "voiceover_broll"
	FormatCarousel        ContentFormat = "carousel"
	FormatArticle         ContentFormat = "article"
)

// ClassificationSource records which pass produced the current record.
type ClassificationSource string

const (
	SourceLocal        ClassificationSource = "local"
	SourceAI           ClassificationSource = "ai"
	SourceManual       ClassificationSource = "manual"
	SourceAIOverridden ClassificationSource = "ai_overridden"
)

// EmotionPoint is one sample of the emotional arc. Position runs 0..1
// along the content, intensity 0..1.
type EmotionPoint struct {
	Position  float64 `json:"position"`
	Intensity float64 `json:"intensity"`
	Emotion   Emotion `json:"emotion"`
}

// StructuralSection is one labeled span of the transcript. Offsets are
// rune offsets into the full transcript text.
type StructuralSection struct {
	Label   string  `json:"label"`
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Purpose string  `json:"purpose"`
	Emotion Emotion `json:"emotion,omitempty"`
}

type PersuasionTechnique struct {
	Type      TechniqueType `json:"type"`
	Intensity float64       `json:"intensity"`
	Quote     string        `json:"quote,omitempty"`
}

// AnalysisRecord is the unit of analysis for one swipe item. Optional
// numeric fields are pointers so "absent" is distinguishable from zero.
type AnalysisRecord struct {
	ItemID string `json:"item_id"`

	HookText           string   `json:"hook_text"`
	HookType           HookType `json:"hook_type"`
	HookScore          *float64 `json:"hook_score,omitempty"` // 0..10
	HookScoreRationale string   `json:"hook_score_rationale,omitempty"`

	DominantEmotion  Emotion        `json:"dominant_emotion"`
	SecondaryEmotion Emotion        `json:"secondary_emotion,omitempty"`
	EmotionalArc     []EmotionPoint `json:"emotional_arc,omitempty"`

	Sections   []StructuralSection   `json:"sections,omitempty"`
	Techniques []PersuasionTechnique `json:"techniques,omitempty"`

	PrimaryNarrative   NarrativeStyle `json:"primary_narrative,omitempty"`
	SecondaryNarrative NarrativeStyle `json:"secondary_narrative,omitempty"`
	Format             ContentFormat  `json:"format,omitempty"`

	// Niche is open-ended by design: the AI extends it freely and users
	// type their own, so it is never forced into an enum.
	Niche     string `json:"niche,omitempty"`
	CreatorID string `json:"creator_id,omitempty"`

	Fingerprint *Fingerprint `json:"fingerprint,omitempty"`

	AnalysisVersion          int                  `json:"analysis_version"`
	ClassificationSource     ClassificationSource `json:"classification_source"`
	ClassificationConfidence float64              `json:"classification_confidence"`

	StudiedAt    time.Time `json:"studied_at"`
	ClassifiedAt time.Time `json:"classified_at"`
	AnalyzedAt   time.Time `json:"analyzed_at"`

	// TranscriptHash is the hash of the transcript the record was last
	// analyzed against, used for staleness checks.
	TranscriptHash string `json:"transcript_hash,omitempty"`
}

// IsFullyAnalyzed holds iff hook score, hook type, and at least one
// structural section are all present.
func (r AnalysisRecord) IsFullyAnalyzed() bool {
	return r.HookScore != nil && r.HookType != "" && len(r.Sections) > 0
}

// IsSparse reports a record that has been analyzed but lacks structural
// or persuasion detail, meaning the AI pass still has work to do.
func (r AnalysisRecord) IsSparse() bool {
	return len(r.Sections) == 0 || len(r.Techniques) == 0
}
