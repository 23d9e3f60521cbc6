package domain

import "time"

// CreatorSummary is the rolled-up view of every item attributed to one
// creator. It is fully recomputed from the current item set each time;
// nothing is incrementally patched.
type CreatorSummary struct {
	CreatorID        string           `json:"creator_id"`
	ItemCount        int              `json:"item_count"`
	AverageHookScore *float64         `json:"average_hook_score,omitempty"`
	TopNarratives    []NarrativeStyle `json:"top_narratives,omitempty"`
	TopFormats       []ContentFormat  `json:"top_formats,omitempty"`
	ComputedAt       time.Time        `json:"computed_at"`
}
