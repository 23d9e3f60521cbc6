package transcript

import (
	"context"
	"time"
)

// Media points at a piece of captured content. The engine never decodes
// media itself; providers do.
type Media struct {
	URI      string
	Duration time.Duration
}

// OCRObservation is one frame's worth of on-screen-text recognition.
type OCRObservation struct {
	Offset     time.Duration
	Text       string
	Confidence float64
}

// SpeechSegment is one span of recognized speech.
type SpeechSegment struct {
	Offset time.Duration
	Text   string
}

// FrameOCR recognizes on-screen text in a single frame. A failed frame
// returns an error and is skipped by the fusion pass.
type FrameOCR interface {
	RecognizeFrame(ctx context.Context, media Media, offset time.Duration) (OCRObservation, error)
}

// SpeechRecognizer transcribes the full audio track. progress receives a
// fraction in 0..1 and may be nil.
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, media Media, progress func(float64)) ([]SpeechSegment, error)
}

// Cleaner rewrites fused slide texts to fix recognition artifacts. It
// must return one text per input slide.
type Cleaner interface {
	CleanSlides(ctx context.Context, texts []string) ([]string, error)
}
