// Package transcript fuses on-screen-text recognition and speech
// recognition output into an ordered sequence of labeled slides.
package transcript

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"swipeengine/internal/config"
	"swipeengine/internal/domain"
)

// Result is the outcome of one fusion pass. A ContentEmpty result with
// zero slides means "needs manual transcription", never an error.
type Result struct {
	Slides           []domain.TranscriptSlide
	ContentType      domain.ContentType
	AvgOCRConfidence float64
}

// Progress reports per-stage completion as a fraction in 0..1. Stages
// are "ocr" and "speech". May be nil.
type Progress func(stage string, fraction float64)

type Fusion struct {
	ocr     FrameOCR
	speech  SpeechRecognizer
	cleaner Cleaner

	sampleInterval      time.Duration
	slideWindow         time.Duration
	confidenceThreshold float64
}

// NewFusion builds a fusion pipeline. cleaner may be nil, in which case
// the confidence-gated cleanup pass is skipped.
func NewFusion(ocr FrameOCR, speech SpeechRecognizer, cleaner Cleaner, cfg config.Config) *Fusion {
	return &Fusion{
		ocr:                 ocr,
		speech:              speech,
		cleaner:             cleaner,
		sampleInterval:      time.Duration(cfg.FrameSampleSeconds) * time.Second,
		slideWindow:         time.Duration(cfg.SlideWindowSeconds) * time.Second,
		confidenceThreshold: cfg.OCRConfidenceThreshold,
	}
}

// Transcribe runs frame OCR and speech recognition concurrently, merges
// segments into slide windows, and applies the cleanup pass when the OCR
// confidence is low enough to warrant it.
func (f *Fusion) Transcribe(ctx context.Context, media Media, progress Progress) (Result, error) {
	var (
		wg        sync.WaitGroup
		obs       []OCRObservation
		attempted int
		segments  []SpeechSegment
		speechErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		obs, attempted = f.runOCR(ctx, media, progress)
	}()
	go func() {
		defer wg.Done()
		var cb func(float64)
		if progress != nil {
			cb = func(frac float64) { progress("speech", frac) }
		}
		segments, speechErr = f.speech.Transcribe(ctx, media, cb)
		if speechErr != nil {
			log.Printf("fusion speech error (degrading to remaining modality): %v", speechErr)
		}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	avgConf := 0.0
	if attempted > 0 {
		var sum float64
		for _, o := range obs {
			sum += o.Confidence
		}
		// Skipped frames stay in the denominator so failures degrade
		// the average instead of vanishing.
		avgConf = sum / float64(attempted)
	}

	slides, contentType := f.merge(obs, segments)
	log.Printf("fusion merged slides=%d content_type=%s ocr_frames=%d ocr_conf=%.2f speech_segments=%d",
		len(slides), contentType, attempted, avgConf, len(segments))

	if contentType == domain.ContentEmpty {
		return Result{ContentType: domain.ContentEmpty, AvgOCRConfidence: avgConf}, nil
	}

	if f.cleaner != nil && avgConf < f.confidenceThreshold && contentType != domain.ContentVoiceoverOnly {
		slides = f.cleanup(ctx, slides)
	}

	slides = splitOversized(slides)
	domain.RenumberSlides(slides)

	return Result{Slides: slides, ContentType: contentType, AvgOCRConfidence: avgConf}, nil
}

func (f *Fusion) runOCR(ctx context.Context, media Media, progress Progress) ([]OCRObservation, int) {
	if media.Duration <= 0 {
		return nil, 0
	}
	total := int(media.Duration/f.sampleInterval) + 1

	var obs []OCRObservation
	attempted := 0
	for offset := time.Duration(0); offset <= media.Duration; offset += f.sampleInterval {
		if ctx.Err() != nil {
			return obs, attempted
		}
		attempted++
		o, err := f.ocr.RecognizeFrame(ctx, media, offset)
		if err != nil {
			// Per-frame failures are skipped, not fatal.
			log.Printf("fusion ocr frame skipped offset=%s err=%v", offset, err)
		} else {
			o.Offset = offset
			obs = append(obs, o)
		}
		if progress != nil {
			progress("ocr", float64(attempted)/float64(total))
		}
	}
	return obs, attempted
}

// merge concatenates segments sharing a slide window. A slide's source is
// merged when both modalities contributed, else the single contributor.
func (f *Fusion) merge(obs []OCRObservation, segments []SpeechSegment) ([]domain.TranscriptSlide, domain.ContentType) {
	type window struct {
		ocrParts    []string
		speechParts []string
	}
	windows := map[int]*window{}
	maxIdx := -1

	at := func(idx int) *window {
		if windows[idx] == nil {
			windows[idx] = &window{}
		}
		if idx > maxIdx {
			maxIdx = idx
		}
		return windows[idx]
	}

	lastOCR := ""
	for _, o := range obs {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			continue
		}
		// On-screen text persists across frames; collapse repeats.
		if text == lastOCR {
			continue
		}
		lastOCR = text
		idx := int(o.Offset / f.slideWindow)
		w := at(idx)
		w.ocrParts = append(w.ocrParts, text)
	}

	for _, s := range segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		idx := int(s.Offset / f.slideWindow)
		w := at(idx)
		w.speechParts = append(w.speechParts, text)
	}

	var slides []domain.TranscriptSlide
	sawOCR, sawSpeech := false, false
	for idx := 0; idx <= maxIdx; idx++ {
		w := windows[idx]
		if w == nil {
			continue
		}
		ocrText := strings.Join(w.ocrParts, " ")
		speechText := strings.Join(w.speechParts, " ")

		var text string
		var source domain.SlideSource
		switch {
		case ocrText != "" && speechText != "":
			text = ocrText + "\n" + speechText
			source = domain.SlideMerged
			sawOCR, sawSpeech = true, true
		case ocrText != "":
			text = ocrText
			source = domain.SlideVisionOCR
			sawOCR = true
		case speechText != "":
			text = speechText
			source = domain.SlideSpeechAudio
			sawSpeech = true
		default:
			continue
		}

		slides = append(slides, domain.TranscriptSlide{
			ID:     uuid.NewString(),
			Text:   text,
			Source: source,
		})
	}

	switch {
	case len(slides) == 0:
		return nil, domain.ContentEmpty
	case sawOCR && sawSpeech:
		return slides, domain.ContentVoiceoverPlusText
	case sawOCR:
		return slides, domain.ContentTextOnly
	default:
		return slides, domain.ContentVoiceoverOnly
	}
}

// cleanup submits slide texts to the external cleanup pass. On failure
// the merged result is kept unchanged.
func (f *Fusion) cleanup(ctx context.Context, slides []domain.TranscriptSlide) []domain.TranscriptSlide {
	texts := make([]string, len(slides))
	for i, s := range slides {
		texts[i] = s.Text
	}

	cleaned, err := f.cleaner.CleanSlides(ctx, texts)
	if err != nil {
		log.Printf("fusion cleanup failed, keeping merged slides: %v", err)
		return slides
	}
	if len(cleaned) != len(slides) {
		log.Printf("fusion cleanup returned %d texts for %d slides, keeping merged slides", len(cleaned), len(slides))
		return slides
	}

	out := make([]domain.TranscriptSlide, len(slides))
	for i, s := range slides {
		s.Text = cleaned[i]
		s.Source = domain.SlideAICleaned
		out[i] = s
	}
	return out
}

// splitOversized enforces the per-slide character cap, splitting at word
// boundaries into continuation slides.
func splitOversized(slides []domain.TranscriptSlide) []domain.TranscriptSlide {
	var out []domain.TranscriptSlide
	for _, s := range slides {
		if len(s.Text) <= domain.MaxSlideChars {
			out = append(out, s)
			continue
		}
		for _, chunk := range splitAtWords(s.Text, domain.MaxSlideChars) {
			out = append(out, domain.TranscriptSlide{
				ID:     uuid.NewString(),
				Text:   chunk,
				Source: s.Source,
			})
		}
	}
	return out
}

func splitAtWords(text string, limit int) []string {
	words := strings.Fields(text)
	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}
	for _, w := range words {
		// A single run of unspaced text (common in OCR output) can
		// exceed the limit on its own; hard-split it at rune boundaries.
		for len(w) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(w[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, w[:cut])
			w = w[cut:]
		}
		if cur.Len() > 0 && cur.Len()+1+len(w) > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	flush()
	return chunks
}
