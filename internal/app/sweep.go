package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"swipeengine/internal/classify"
	"swipeengine/internal/config"
	"swipeengine/internal/domain"
	"swipeengine/internal/lifecycle"
	"swipeengine/internal/storage/sqlite"
)

// SweepResult tracks separate counters for each outcome of one pass.
type SweepResult struct {
	Scanned     int
	Fresh       int
	Reanalyzed  int
	Suggestions int
	Errors      []string
}

// SweepStaleRecords re-runs the pipeline for every record that has gone
// stale. First-time classifications apply directly; items that were
// already classified yield pending suggestions, which are logged and
// left for explicit review rather than auto-applied.
func SweepStaleRecords(ctx context.Context, store *sqlite.Store, manager *lifecycle.Manager) (SweepResult, error) {
	records, err := store.ListRecords()
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, record := range records {
		result.Scanned++
		slides, err := store.LoadSlides(record.ItemID)
		if err != nil {
			result.Errors = append(result.Errors, record.ItemID+": "+err.Error())
			continue
		}
		transcriptText := domain.JoinSlides(slides)

		rec := record
		if !lifecycle.IsStale(&rec, transcriptText, classify.SchemaVersion) {
			result.Fresh++
			continue
		}

		// A record that was already classified is never refreshed in
		// place: the new result must surface as a pending suggestion
		// against the record as the user last saw it.
		if record.ClassifiedAt.IsZero() {
			if _, err := manager.EnsureLocal(ctx, record.ItemID, record.CreatorID, transcriptText, ""); err != nil {
				result.Errors = append(result.Errors, record.ItemID+": "+err.Error())
				continue
			}
		}
		suggestion, err := manager.Classify(ctx, record.ItemID, "")
		if err != nil {
			if errors.Is(err, lifecycle.ErrClassificationInFlight) || errors.Is(err, lifecycle.ErrNoTranscript) {
				log.Printf("sweep skipped item=%s: %v", record.ItemID, err)
				continue
			}
			result.Errors = append(result.Errors, record.ItemID+": "+err.Error())
			continue
		}
		switch suggestion.State {
		case classify.SuggestionApplied:
			result.Reanalyzed++
		case classify.SuggestionPending:
			result.Suggestions++
			log.Printf("sweep suggestion pending item=%s hook_type=%s (awaiting review)",
				record.ItemID, suggestion.Record.HookType)
		}
	}

	if err := RecomputeCreatorSummaries(store); err != nil {
		result.Errors = append(result.Errors, "creator summaries: "+err.Error())
	}
	return result, nil
}

// StartStaleSweepScheduler runs SweepStaleRecords on a standard 5-field
// cron schedule (minute hour day-of-month month day-of-week).
// Examples: "0 3 * * *" (daily 3am), "0 */6 * * *" (every 6 hours).
func StartStaleSweepScheduler(cfg config.Config, store *sqlite.Store, manager *lifecycle.Manager) {
	schedule := strings.TrimSpace(cfg.StaleSweepSchedule)
	if schedule == "" {
		log.Println("Stale sweep disabled (stale_sweep_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid stale_sweep_schedule '%s': %v, sweep disabled", schedule, err)
		return
	}
	log.Printf("Stale sweep scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			log.Printf("Next stale sweep at %s (in %s)", next.Format("Mon Jan 2 15:04"), next.Sub(now).Round(time.Minute))
			time.Sleep(next.Sub(now))

			result, err := SweepStaleRecords(context.Background(), store, manager)
			if err != nil {
				log.Printf("Stale sweep error: %v", err)
				continue
			}
			log.Printf("Stale sweep complete scanned=%d fresh=%d reanalyzed=%d suggestions=%d errors=%d",
				result.Scanned, result.Fresh, result.Reanalyzed, result.Suggestions, len(result.Errors))
			for _, e := range result.Errors {
				log.Printf("Stale sweep item error: %s", e)
			}
		}
	}()
}
