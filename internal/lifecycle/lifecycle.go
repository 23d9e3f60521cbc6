// Package lifecycle orchestrates the analysis pipeline for swipe items:
// it decides when re-analysis is necessary, sequences the local pass
// strictly before the AI pass, guards against concurrent classification
// of one item, and persists results through the storage collaborator.
package lifecycle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"swipeengine/internal/analysis"
	"swipeengine/internal/classify"
	"swipeengine/internal/domain"
	"swipeengine/internal/fingerprint"
	"swipeengine/internal/transcript"
)

// State is the per-item lifecycle position. The stale flag is orthogonal
// and computed separately via IsStale.
type State string

const (
	StateUnanalyzed      State = "unanalyzed"
	StateLocallyAnalyzed State = "locally_analyzed"
	StateAIClassified    State = "ai_classified"
	StateStudied         State = "studied"
)

var (
	// ErrClassificationInFlight rejects a second classification request
	// for an item while one is outstanding, so two AI results can never
	// race to merge into the same record.
	ErrClassificationInFlight = errors.New("classification already in flight for item")

	// ErrNoTranscript marks operations that need transcript text when
	// none exists.
	ErrNoTranscript = errors.New("no transcript text for item")
)

// Store is the persistence collaborator. Writes may fail; retry policy
// belongs to the caller.
type Store interface {
	LoadRecord(itemID string) (*domain.AnalysisRecord, error)
	SaveRecord(record domain.AnalysisRecord) error
	SaveSlides(itemID string, slides []domain.TranscriptSlide) error
	LoadSlides(itemID string) ([]domain.TranscriptSlide, error)
	InsertClassificationHistory(record domain.AnalysisRecord) error
	InsertDecision(itemID string, original, suggested domain.HookType, decision string) error
}

// Classifier is the AI pass.
type Classifier interface {
	ClassifyAndAnalyze(ctx context.Context, item classify.Item) (domain.AnalysisRecord, error)
}

type Manager struct {
	store      Store
	scorer     *analysis.Scorer
	classifier Classifier
	fusion     *transcript.Fusion
	index      *fingerprint.Index
	saver      *Saver

	currentVersion int

	mu       sync.Mutex
	inflight map[string]bool
}

// NewManager wires the pipeline. fusion may be nil when the caller only
// works with pre-supplied transcripts.
func NewManager(store Store, scorer *analysis.Scorer, classifier Classifier, fusion *transcript.Fusion, index *fingerprint.Index, saver *Saver) *Manager {
	return &Manager{
		store:          store,
		scorer:         scorer,
		classifier:     classifier,
		fusion:         fusion,
		index:          index,
		saver:          saver,
		currentVersion: classify.SchemaVersion,
		inflight:       map[string]bool{},
	}
}

func StateOf(record *domain.AnalysisRecord) State {
	switch {
	case record == nil:
		return StateUnanalyzed
	case !record.StudiedAt.IsZero():
		return StateStudied
	case !record.ClassifiedAt.IsZero():
		return StateAIClassified
	case !record.AnalyzedAt.IsZero():
		return StateLocallyAnalyzed
	default:
		return StateUnanalyzed
	}
}

// IsStale reports whether the record needs re-analysis: the transcript
// changed since the last pass, the schema version moved on, or the
// record is sparse despite a transcript being available. currentVersion
// is passed in rather than read ambiently so tests can simulate bumps.
func IsStale(record *domain.AnalysisRecord, transcriptText string, currentVersion int) bool {
	hasTranscript := strings.TrimSpace(transcriptText) != ""
	if record == nil {
		return hasTranscript
	}
	if !hasTranscript {
		return false
	}
	if record.TranscriptHash != "" && record.TranscriptHash != HashTranscript(transcriptText) {
		return true
	}
	if record.AnalysisVersion < currentVersion {
		return true
	}
	return record.IsSparse()
}

func HashTranscript(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// Transcribe runs the fusion pipeline and, when it yields anything,
// persists the slides and runs the local pass. An empty result persists
// nothing: the caller falls back to manual transcription. A cancelled
// context persists nothing.
func (m *Manager) Transcribe(ctx context.Context, itemID, creatorID, title string, media transcript.Media, progress transcript.Progress) (transcript.Result, error) {
	if m.fusion == nil {
		return transcript.Result{}, fmt.Errorf("no fusion pipeline configured")
	}
	result, err := m.fusion.Transcribe(ctx, media, progress)
	if err != nil {
		return transcript.Result{}, err
	}
	if result.ContentType == domain.ContentEmpty {
		log.Printf("lifecycle transcribe item=%s empty result, needs manual transcription", itemID)
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return transcript.Result{}, err
	}

	if err := m.store.SaveSlides(itemID, result.Slides); err != nil {
		return transcript.Result{}, fmt.Errorf("save slides for %s: %w", itemID, err)
	}
	if _, err := m.EnsureLocal(ctx, itemID, creatorID, domain.JoinSlides(result.Slides), title); err != nil {
		return transcript.Result{}, err
	}
	return result, nil
}

// EnsureLocal runs the local pass and persists its result. It preserves
// studied status and a manual source tag from any prior record, and is
// the step that guarantees a baseline record is visible before any AI
// result merges in.
func (m *Manager) EnsureLocal(ctx context.Context, itemID, creatorID, transcriptText, title string) (domain.AnalysisRecord, error) {
	prior, err := m.store.LoadRecord(itemID)
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("load record %s: %w", itemID, err)
	}

	record := m.scorer.Analyze(transcriptText, title)
	record.ItemID = itemID
	record.CreatorID = creatorID
	record.AnalyzedAt = time.Now().UTC()
	record.TranscriptHash = HashTranscript(transcriptText)
	if prior != nil {
		record.StudiedAt = prior.StudiedAt
		if prior.ClassificationSource == domain.SourceManual {
			// A manual correction survives local re-analysis so a later
			// accepted suggestion is recorded as an override.
			record.ClassificationSource = domain.SourceManual
		}
	}

	if err := ctx.Err(); err != nil {
		return domain.AnalysisRecord{}, err
	}
	if err := m.store.SaveRecord(record); err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("save record %s: %w", itemID, err)
	}
	m.index.Upsert(itemID, record)
	log.Printf("lifecycle local pass item=%s hook_type=%s sections=%d techniques=%d",
		itemID, record.HookType, len(record.Sections), len(record.Techniques))
	return record, nil
}

// Classify runs the AI pass for an item. The first classification of an
// item applies automatically; re-classification of an already-classified
// item returns a pending suggestion that the caller must explicitly
// accept or reject. A failure leaves the stored record untouched and is
// retryable.
func (m *Manager) Classify(ctx context.Context, itemID, title string) (classify.Suggestion, error) {
	if !m.acquire(itemID) {
		return classify.Suggestion{}, fmt.Errorf("%w: %s", ErrClassificationInFlight, itemID)
	}
	defer m.release(itemID)

	slides, err := m.store.LoadSlides(itemID)
	if err != nil {
		return classify.Suggestion{}, fmt.Errorf("load slides %s: %w", itemID, err)
	}
	transcriptText := domain.JoinSlides(slides)
	if strings.TrimSpace(transcriptText) == "" {
		return classify.Suggestion{}, fmt.Errorf("%w: %s", ErrNoTranscript, itemID)
	}

	local, err := m.store.LoadRecord(itemID)
	if err != nil {
		return classify.Suggestion{}, fmt.Errorf("load record %s: %w", itemID, err)
	}
	// Decide "already classified" from the record as it stood on entry,
	// before any local refresh can reset the classification timestamp.
	wasClassified := local != nil && !local.ClassifiedAt.IsZero()
	if local == nil || local.AnalyzedAt.IsZero() {
		baseline, err := m.EnsureLocal(ctx, itemID, creatorOf(local), transcriptText, title)
		if err != nil {
			return classify.Suggestion{}, err
		}
		local = &baseline
	}

	aiRecord, err := m.classifier.ClassifyAndAnalyze(ctx, classify.Item{
		ID:         itemID,
		Title:      title,
		Transcript: transcriptText,
		CreatorID:  local.CreatorID,
	})
	if err != nil {
		// Existing record stays as-is; the caller gets a retry affordance.
		return classify.Suggestion{}, err
	}
	if err := ctx.Err(); err != nil {
		return classify.Suggestion{}, err
	}

	merged := classify.MergeClassification(aiRecord, *local)
	merged.TranscriptHash = HashTranscript(transcriptText)

	if wasClassified {
		// Already classified once: surface a suggestion, never clobber.
		return classify.Suggestion{State: classify.SuggestionPending, Record: merged}, nil
	}

	if err := m.applyClassified(itemID, merged); err != nil {
		return classify.Suggestion{}, err
	}
	return classify.Suggestion{State: classify.SuggestionApplied, Record: merged}, nil
}

// AcceptSuggestion merges and persists a pending suggestion. When the
// current record carries a manual correction, the applied record is
// tagged as overridden rather than plain AI.
func (m *Manager) AcceptSuggestion(itemID string, suggestion classify.Suggestion) (domain.AnalysisRecord, error) {
	if suggestion.State != classify.SuggestionPending {
		return domain.AnalysisRecord{}, fmt.Errorf("no pending suggestion for %s", itemID)
	}

	current, err := m.store.LoadRecord(itemID)
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("load record %s: %w", itemID, err)
	}

	record := suggestion.Record
	var originalHook domain.HookType
	if current != nil {
		originalHook = current.HookType
		record.StudiedAt = current.StudiedAt
		if current.ClassificationSource == domain.SourceManual {
			record.ClassificationSource = domain.SourceAIOverridden
		}
	}

	if err := m.applyClassified(itemID, record); err != nil {
		return domain.AnalysisRecord{}, err
	}
	if err := m.store.InsertDecision(itemID, originalHook, record.HookType, "accepted"); err != nil {
		log.Printf("lifecycle decision log failed item=%s: %v", itemID, err)
	}
	return record, nil
}

// RejectSuggestion discards a pending suggestion, leaving the current
// record unchanged.
func (m *Manager) RejectSuggestion(itemID string, suggestion classify.Suggestion) error {
	if suggestion.State != classify.SuggestionPending {
		return fmt.Errorf("no pending suggestion for %s", itemID)
	}
	current, err := m.store.LoadRecord(itemID)
	if err != nil {
		return fmt.Errorf("load record %s: %w", itemID, err)
	}
	var originalHook domain.HookType
	if current != nil {
		originalHook = current.HookType
	}
	if err := m.store.InsertDecision(itemID, originalHook, suggestion.Record.HookType, "rejected"); err != nil {
		log.Printf("lifecycle decision log failed item=%s: %v", itemID, err)
	}
	return nil
}

func (m *Manager) applyClassified(itemID string, record domain.AnalysisRecord) error {
	if err := m.store.SaveRecord(record); err != nil {
		return fmt.Errorf("save record %s: %w", itemID, err)
	}
	if err := m.store.InsertClassificationHistory(record); err != nil {
		log.Printf("lifecycle history log failed item=%s: %v", itemID, err)
	}
	m.index.Upsert(itemID, record)
	log.Printf("lifecycle ai pass applied item=%s hook_type=%s confidence=%.2f version=%d",
		itemID, record.HookType, record.ClassificationConfidence, record.AnalysisVersion)
	return nil
}

// MarkStudied stamps the record the first time it is fully analyzed and
// shown to the user. Once set, studied status survives re-analysis.
func (m *Manager) MarkStudied(itemID string) error {
	record, err := m.store.LoadRecord(itemID)
	if err != nil {
		return fmt.Errorf("load record %s: %w", itemID, err)
	}
	if record == nil || !record.IsFullyAnalyzed() || !record.StudiedAt.IsZero() {
		return nil
	}
	record.StudiedAt = time.Now().UTC()
	return m.store.SaveRecord(*record)
}

// EditSlides applies a manual transcript edit: renumbers, schedules a
// debounced slide write, and immediately re-runs the local pass so the
// record becomes eligible for re-classification without being discarded.
func (m *Manager) EditSlides(ctx context.Context, itemID, creatorID, title string, slides []domain.TranscriptSlide) (domain.AnalysisRecord, error) {
	domain.RenumberSlides(slides)
	snapshot := make([]domain.TranscriptSlide, len(slides))
	copy(snapshot, slides)
	m.saver.Schedule("slides:"+itemID, func() {
		if err := m.store.SaveSlides(itemID, snapshot); err != nil {
			log.Printf("lifecycle slide save failed item=%s: %v", itemID, err)
		}
	})
	return m.EnsureLocal(ctx, itemID, creatorID, domain.JoinSlides(slides), title)
}

// RelatedItems ranks the similarity corpus against the item's
// fingerprint.
func (m *Manager) RelatedItems(itemID string) ([]domain.SimilarityMatch, error) {
	record, err := m.store.LoadRecord(itemID)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", itemID, err)
	}
	if record == nil {
		return nil, nil
	}
	return m.index.Rank(itemID, record.Fingerprint, record.HookType), nil
}

// WinningFormula detects a repeating structure among the item's
// high-similarity matches.
func (m *Manager) WinningFormula(itemID string) (*domain.PatternFormula, error) {
	matches, err := m.RelatedItems(itemID)
	if err != nil {
		return nil, err
	}
	return m.index.DetectFormula(matches), nil
}

// Close flushes pending debounced writes. Call on teardown.
func (m *Manager) Close() {
	m.saver.Close()
}

func (m *Manager) acquire(itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight[itemID] {
		return false
	}
	m.inflight[itemID] = true
	return true
}

func (m *Manager) release(itemID string) {
	m.mu.Lock()
	delete(m.inflight, itemID)
	m.mu.Unlock()
}

func creatorOf(record *domain.AnalysisRecord) string {
	if record == nil {
		return ""
	}
	return record.CreatorID
}
