// Package creator rolls per-item analysis up into creator-level summary
// statistics.
package creator

import (
	"time"

	"swipeengine/internal/domain"
)

const topN = 3

// Recompute builds a creator summary from the current item list. Pure
// function: items without a hook score are excluded from the average
// (not treated as zero), and the result fully replaces any prior
// summary so removed items never leave residue.
func Recompute(creatorID string, records []domain.AnalysisRecord) domain.CreatorSummary {
	summary := domain.CreatorSummary{
		CreatorID:  creatorID,
		ItemCount:  len(records),
		ComputedAt: time.Now().UTC(),
	}

	var scoreSum float64
	scoreCount := 0
	narrativeCounts := map[domain.NarrativeStyle]int{}
	var narrativeOrder []domain.NarrativeStyle
	formatCounts := map[domain.ContentFormat]int{}
	var formatOrder []domain.ContentFormat

	for _, r := range records {
		if r.HookScore != nil {
			scoreSum += *r.HookScore
			scoreCount++
		}
		if r.PrimaryNarrative != "" {
			if narrativeCounts[r.PrimaryNarrative] == 0 {
				narrativeOrder = append(narrativeOrder, r.PrimaryNarrative)
			}
			narrativeCounts[r.PrimaryNarrative]++
		}
		if r.Format != "" {
			if formatCounts[r.Format] == 0 {
				formatOrder = append(formatOrder, r.Format)
			}
			formatCounts[r.Format]++
		}
	}

	if scoreCount > 0 {
		avg := scoreSum / float64(scoreCount)
		summary.AverageHookScore = &avg
	}

	summary.TopNarratives = topNarratives(narrativeOrder, narrativeCounts)
	summary.TopFormats = topFormats(formatOrder, formatCounts)
	return summary
}

// Ties break by first-encountered so repeated recomputes over the same
// item list agree.

func topNarratives(order []domain.NarrativeStyle, counts map[domain.NarrativeStyle]int) []domain.NarrativeStyle {
	var top []domain.NarrativeStyle
	used := map[domain.NarrativeStyle]bool{}
	for len(top) < topN {
		var best domain.NarrativeStyle
		bestCount := 0
		for _, ns := range order {
			if !used[ns] && counts[ns] > bestCount {
				best = ns
				bestCount = counts[ns]
			}
		}
		if bestCount == 0 {
			break
		}
		used[best] = true
		top = append(top, best)
	}
	return top
}

func topFormats(order []domain.ContentFormat, counts map[domain.ContentFormat]int) []domain.ContentFormat {
	var top []domain.ContentFormat
	used := map[domain.ContentFormat]bool{}
	for len(top) < topN {
		var best domain.ContentFormat
		bestCount := 0
		for _, f := range order {
			if !used[f] && counts[f] > bestCount {
				best = f
				bestCount = counts[f]
			}
		}
		if bestCount == 0 {
			break
		}
		used[best] = true
		top = append(top, best)
	}
	return top
}
