package domain

import "strings"

// SlideSource tags where a slide's text came from.
type SlideSource string

const (
	SlideManual      SlideSource = "manual"
	SlideVisionOCR   SlideSource = "vision_ocr"
	SlideSpeechAudio SlideSource = "speech_audio"
	SlideMerged      SlideSource = "merged"
	SlideAICleaned   SlideSource = "ai_cleaned"
)

// ContentType describes which modalities contributed to a transcript.
type ContentType string

const (
	ContentTextOnly          ContentType = "text_only"
	ContentVoiceoverOnly     ContentType = "voiceover_only"
	ContentVoiceoverPlusText ContentType = "voiceover_plus_text"
	ContentEmpty             ContentType = "empty"
)

// MaxSlideChars caps a single slide's text. Longer fused text is split
// into continuation slides at word boundaries.
const MaxSlideChars = 450

// TranscriptSlide is one unit of fused transcript. Identity is the ID,
// not the ordinal: slide numbers are renumbered after insertion/removal.
type TranscriptSlide struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	SlideNumber int         `json:"slide_number"`
	Source      SlideSource `json:"source"`
}

// JoinSlides reconstructs the full transcript from ordered slides.
func JoinSlides(slides []TranscriptSlide) string {
	parts := make([]string, 0, len(slides))
	for _, s := range slides {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n\n")
}

// RenumberSlides rewrites slide numbers to be contiguous starting at 1,
// preserving order.
func RenumberSlides(slides []TranscriptSlide) {
	for i := range slides {
		slides[i].SlideNumber = i + 1
	}
}
