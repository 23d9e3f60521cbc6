// Package fingerprint derives fixed-width structural vectors from
// analysis records and ranks corpus items by cosine similarity.
// Fingerprints summarize structure, not prose: two records with the same
// categorical fields produce the same vector regardless of free text.
package fingerprint

import (
	"gonum.org/v1/gonum/floats"

	"swipeengine/internal/domain"
)

// Segment offsets in the feature layout. Changing any of these requires
// bumping domain.FingerprintLayoutVersion.
const (
	hookSegment      = 0
	emotionSegment   = hookSegment + 7 // len(domain.AllHookTypes())
	techniqueSegment = emotionSegment + 8
	structureSegment = techniqueSegment + 8
	structureBuckets = 5
	vectorWidth      = structureSegment + structureBuckets
)

// New derives a fingerprint from a record. Returns nil for records with
// no structural signal at all (nothing analyzed yet).
func New(record domain.AnalysisRecord) *domain.Fingerprint {
	if record.HookType == "" && record.DominantEmotion == "" &&
		len(record.Techniques) == 0 && len(record.Sections) == 0 {
		return nil
	}

	values := make([]float64, vectorWidth)

	if record.HookType != "" {
		weight := 0.6
		if record.HookScore != nil {
			weight = *record.HookScore / 10
		}
		for i, ht := range domain.AllHookTypes() {
			if ht == record.HookType {
				values[hookSegment+i] = weight
				break
			}
		}
	}

	emotionIdx := map[domain.Emotion]int{}
	for i, em := range domain.AllEmotions() {
		emotionIdx[em] = emotionSegment + i
	}
	if idx, ok := emotionIdx[record.DominantEmotion]; ok {
		values[idx] = 1.0
	}
	if idx, ok := emotionIdx[record.SecondaryEmotion]; ok && values[idx] < 0.5 {
		values[idx] = 0.5
	}
	for _, point := range record.EmotionalArc {
		if idx, ok := emotionIdx[point.Emotion]; ok {
			values[idx] += 0.25 * point.Intensity
			if values[idx] > 1 {
				values[idx] = 1
			}
		}
	}

	for i, tt := range domain.AllTechniqueTypes() {
		for _, tech := range record.Techniques {
			if tech.Type == tt && tech.Intensity > values[techniqueSegment+i] {
				values[techniqueSegment+i] = tech.Intensity
			}
		}
	}

	// Structural shape: relative section sizes in framework order.
	if len(record.Sections) > 0 {
		total := 0
		for _, sec := range record.Sections {
			total += sec.End - sec.Start
		}
		if total > 0 {
			for i, sec := range record.Sections {
				if i >= structureBuckets {
					break
				}
				values[structureSegment+i] = float64(sec.End-sec.Start) / float64(total)
			}
		}
	}

	return &domain.Fingerprint{
		LayoutVersion: domain.FingerprintLayoutVersion,
		Values:        values,
	}
}

// Similarity returns the cosine similarity between two fingerprints, or
// nil when the comparison is undefined: a missing side, mismatched
// layout versions, or a zero vector. Undefined is never reported as 0.
func Similarity(a, b *domain.Fingerprint) *float64 {
	if a == nil || b == nil {
		return nil
	}
	if a.LayoutVersion != b.LayoutVersion || len(a.Values) != len(b.Values) || len(a.Values) == 0 {
		return nil
	}

	normA := floats.Norm(a.Values, 2)
	normB := floats.Norm(b.Values, 2)
	if normA == 0 || normB == 0 {
		return nil
	}

	sim := floats.Dot(a.Values, b.Values) / (normA * normB)
	// Guard float error at the boundaries; components are non-negative
	// so cosine lands in [0,1].
	if sim > 1 {
		sim = 1
	}
	if sim < 0 {
		sim = 0
	}
	return &sim
}
