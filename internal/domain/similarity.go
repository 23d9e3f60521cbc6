package domain

// FingerprintLayoutVersion identifies the feature layout a fingerprint
// was built with. Vectors from different layouts are never comparable.
const FingerprintLayoutVersion = 2

// Fingerprint is a fixed-width structural summary of an AnalysisRecord:
// hook-type weights, emotion weights, technique intensities, and coarse
// structural-shape buckets. It summarizes structure, not prose.
type Fingerprint struct {
	LayoutVersion int       `json:"layout_version"`
	Values        []float64 `json:"values"`
}

// SimilarityMatch pairs a corpus item with a query. A nil Score marks a
// categorical fallback match (same hook type) rather than a vector
// comparison.
type SimilarityMatch struct {
	ItemID string
	Score  *float64
}

// PatternFormula is a repeating structure detected across high-similarity
// matches. Derived on demand, never persisted.
type PatternFormula struct {
	HookType     HookType
	Format       ContentFormat
	Technique    TechniqueType
	MatchCount   int
	AverageScore float64
}
