package fingerprint

import (
	"sort"
	"sync"

	"swipeengine/internal/config"
	"swipeengine/internal/domain"
)

// itemMeta is the slice of a record the index needs for categorical
// fallback and formula detection.
type itemMeta struct {
	hookType  domain.HookType
	format    domain.ContentFormat
	technique domain.TechniqueType
	hookScore *float64
}

// Index holds the similarity corpus: every analyzed item's fingerprint
// plus the categorical fields used for fallback matching. Reads vastly
// outnumber writes; a write happens only when an analysis pass
// completes. Readers tolerate the corpus changing between calls.
type Index struct {
	mu    sync.RWMutex
	fps   map[string]*domain.Fingerprint
	metas map[string]itemMeta

	minSimilarity      float64
	highMatch          float64
	maxMatches         int
	maxFallbackMatches int
}

func NewIndex(cfg config.Config) *Index {
	return &Index{
		fps:                map[string]*domain.Fingerprint{},
		metas:              map[string]itemMeta{},
		minSimilarity:      cfg.MinSimilarity,
		highMatch:          cfg.HighMatchThreshold,
		maxMatches:         cfg.MaxMatches,
		maxFallbackMatches: cfg.MaxFallbackMatches,
	}
}

// Upsert registers or replaces an item's corpus entry from its record.
func (x *Index) Upsert(itemID string, record domain.AnalysisRecord) {
	meta := itemMeta{
		hookType:  record.HookType,
		format:    record.Format,
		hookScore: record.HookScore,
	}
	var best float64
	for _, tech := range record.Techniques {
		if tech.Intensity > best {
			best = tech.Intensity
			meta.technique = tech.Type
		}
	}

	x.mu.Lock()
	x.fps[itemID] = record.Fingerprint
	x.metas[itemID] = meta
	x.mu.Unlock()
}

func (x *Index) Remove(itemID string) {
	x.mu.Lock()
	delete(x.fps, itemID)
	delete(x.metas, itemID)
	x.mu.Unlock()
}

func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.fps)
}

// Rank compares the query against every corpus item. Scored matches
// above the minimum similarity sort descending; items whose similarity
// is undefined fall back to a same-hook-type categorical match with an
// absent score, sorted after all scored matches and capped tighter so a
// fallback never implies vector-level confidence.
func (x *Index) Rank(queryID string, query *domain.Fingerprint, queryHook domain.HookType) []domain.SimilarityMatch {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var scored []domain.SimilarityMatch
	var fallback []domain.SimilarityMatch

	for itemID, fp := range x.fps {
		if itemID == queryID {
			continue
		}
		if sim := Similarity(query, fp); sim != nil {
			if *sim > x.minSimilarity {
				scored = append(scored, domain.SimilarityMatch{ItemID: itemID, Score: sim})
			}
			continue
		}
		if queryHook != "" && x.metas[itemID].hookType == queryHook {
			fallback = append(fallback, domain.SimilarityMatch{ItemID: itemID})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if *scored[i].Score != *scored[j].Score {
			return *scored[i].Score > *scored[j].Score
		}
		return scored[i].ItemID < scored[j].ItemID
	})
	sort.Slice(fallback, func(i, j int) bool {
		return fallback[i].ItemID < fallback[j].ItemID
	})

	if len(scored) > x.maxMatches {
		scored = scored[:x.maxMatches]
	}
	if len(fallback) > x.maxFallbackMatches {
		fallback = fallback[:x.maxFallbackMatches]
	}
	return append(scored, fallback...)
}

// DetectFormula looks for a repeating structure among high-similarity
// matches. It needs at least three matches at or above the high-match
// threshold, and refuses to report a formula when neither a modal hook
// type nor a modal format can be determined.
func (x *Index) DetectFormula(matches []domain.SimilarityMatch) *domain.PatternFormula {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var subset []itemMeta
	for _, m := range matches {
		if m.Score == nil || *m.Score < x.highMatch {
			continue
		}
		subset = append(subset, x.metas[m.ItemID])
	}
	if len(subset) < 3 {
		return nil
	}

	hookType := modalHookType(subset)
	format := modalFormat(subset)
	if hookType == "" && format == "" {
		return nil
	}

	var scoreSum float64
	scoreCount := 0
	for _, meta := range subset {
		if meta.hookScore != nil {
			scoreSum += *meta.hookScore
			scoreCount++
		}
	}
	avg := 0.0
	if scoreCount > 0 {
		avg = scoreSum / float64(scoreCount)
	}

	return &domain.PatternFormula{
		HookType:     hookType,
		Format:       format,
		Technique:    modalTechnique(subset),
		MatchCount:   len(subset),
		AverageScore: avg,
	}
}

// Mode helpers break ties by first-encountered, which keeps formula
// detection stable across runs on the same match list.

func modalHookType(metas []itemMeta) domain.HookType {
	counts := map[domain.HookType]int{}
	var order []domain.HookType
	for _, m := range metas {
		if m.hookType == "" {
			continue
		}
		if counts[m.hookType] == 0 {
			order = append(order, m.hookType)
		}
		counts[m.hookType]++
	}
	var best domain.HookType
	bestCount := 0
	for _, ht := range order {
		if counts[ht] > bestCount {
			best = ht
			bestCount = counts[ht]
		}
	}
	return best
}

func modalFormat(metas []itemMeta) domain.ContentFormat {
	counts := map[domain.ContentFormat]int{}
	var order []domain.ContentFormat
	for _, m := range metas {
		if m.format == "" {
			continue
		}
		if counts[m.format] == 0 {
			order = append(order, m.format)
		}
		counts[m.format]++
	}
	var best domain.ContentFormat
	bestCount := 0
	for _, f := range order {
		if counts[f] > bestCount {
			best = f
			bestCount = counts[f]
		}
	}
	return best
}

func modalTechnique(metas []itemMeta) domain.TechniqueType {
	counts := map[domain.TechniqueType]int{}
	var order []domain.TechniqueType
	for _, m := range metas {
		if m.technique == "" {
			continue
		}
		if counts[m.technique] == 0 {
			order = append(order, m.technique)
		}
		counts[m.technique]++
	}
	var best domain.TechniqueType
	bestCount := 0
	for _, tt := range order {
		if counts[tt] > bestCount {
			best = tt
			bestCount = counts[tt]
		}
	}
	return best
}
