// Package sqlite is the persistence collaborator: record, slide and
// summary storage plus the classification audit trail. Nested analysis
// structures ride in JSON payload columns; fields the engine queries on
// get their own columns.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"swipeengine/internal/domain"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS swipe_records (
		item_id               TEXT PRIMARY KEY,
		creator_id            TEXT DEFAULT '',
		hook_type             TEXT DEFAULT '',
		hook_score            REAL,
		analysis_version      INTEGER NOT NULL DEFAULT 0,
		classification_source TEXT DEFAULT '',
		transcript_hash       TEXT DEFAULT '',
		payload               TEXT NOT NULL,
		updated_at            DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_swipe_records_creator ON swipe_records(creator_id);

	CREATE TABLE IF NOT EXISTS transcript_slides (
		item_id      TEXT NOT NULL,
		slide_id     TEXT NOT NULL,
		slide_number INTEGER NOT NULL,
		source       TEXT NOT NULL,
		text         TEXT NOT NULL,
		PRIMARY KEY (item_id, slide_id)
	);
	CREATE INDEX IF NOT EXISTS idx_slides_item ON transcript_slides(item_id, slide_number);

	CREATE TABLE IF NOT EXISTS creator_summaries (
		creator_id  TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		computed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS classification_history (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id          TEXT NOT NULL,
		analysis_version INTEGER NOT NULL,
		source           TEXT DEFAULT '',
		confidence       REAL NOT NULL,
		classified_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_ch_item ON classification_history(item_id);

	CREATE TABLE IF NOT EXISTS classification_decisions (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id             TEXT NOT NULL,
		original_hook_type  TEXT DEFAULT '',
		suggested_hook_type TEXT DEFAULT '',
		decision            TEXT NOT NULL,
		decided_at          DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_cd_item ON classification_decisions(item_id);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	// Migration: add niche column if missing.
	var colCount int
	_ = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('swipe_records') WHERE name = 'niche'`).Scan(&colCount)
	if colCount == 0 {
		_, _ = db.Exec(`ALTER TABLE swipe_records ADD COLUMN niche TEXT DEFAULT ''`)
	}

	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadRecord returns nil, nil when no record exists for the item.
func (s *Store) LoadRecord(itemID string) (*domain.AnalysisRecord, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM swipe_records WHERE item_id = ?`, itemID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record domain.AnalysisRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", itemID, err)
	}
	return &record, nil
}

func (s *Store) SaveRecord(record domain.AnalysisRecord) error {
	if record.ItemID == "" {
		return fmt.Errorf("save record: missing item id")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", record.ItemID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO swipe_records (item_id, creator_id, hook_type, hook_score, analysis_version, classification_source, transcript_hash, niche, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET
			creator_id = excluded.creator_id,
			hook_type = excluded.hook_type,
			hook_score = excluded.hook_score,
			analysis_version = excluded.analysis_version,
			classification_source = excluded.classification_source,
			transcript_hash = excluded.transcript_hash,
			niche = excluded.niche,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		record.ItemID, record.CreatorID, string(record.HookType), record.HookScore,
		record.AnalysisVersion, string(record.ClassificationSource), record.TranscriptHash,
		record.Niche, string(payload), time.Now().UTC(),
	)
	return err
}

func (s *Store) ListRecords() ([]domain.AnalysisRecord, error) {
	return s.queryRecords(`SELECT payload FROM swipe_records ORDER BY item_id`)
}

func (s *Store) ListRecordsByCreator(creatorID string) ([]domain.AnalysisRecord, error) {
	return s.queryRecords(`SELECT payload FROM swipe_records WHERE creator_id = ? ORDER BY item_id`, creatorID)
}

func (s *Store) queryRecords(query string, args ...any) ([]domain.AnalysisRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AnalysisRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record domain.AnalysisRecord
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SaveSlides replaces the item's slide set wholesale. Slides are edited
// and renumbered as a unit, so partial updates would only invite drift.
func (s *Store) SaveSlides(itemID string, slides []domain.TranscriptSlide) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transcript_slides WHERE item_id = ?`, itemID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO transcript_slides (item_id, slide_id, slide_number, source, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, slide := range slides {
		if _, err := stmt.Exec(itemID, slide.ID, slide.SlideNumber, string(slide.Source), slide.Text); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) LoadSlides(itemID string) ([]domain.TranscriptSlide, error) {
	rows, err := s.db.Query(
		`SELECT slide_id, slide_number, source, text FROM transcript_slides WHERE item_id = ? ORDER BY slide_number`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []domain.TranscriptSlide
	for rows.Next() {
		var slide domain.TranscriptSlide
		var source string
		if err := rows.Scan(&slide.ID, &slide.SlideNumber, &source, &slide.Text); err != nil {
			return nil, err
		}
		slide.Source = domain.SlideSource(source)
		slides = append(slides, slide)
	}
	return slides, rows.Err()
}

func (s *Store) SaveCreatorSummary(summary domain.CreatorSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary %s: %w", summary.CreatorID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO creator_summaries (creator_id, payload, computed_at) VALUES (?, ?, ?)
		 ON CONFLICT(creator_id) DO UPDATE SET payload = excluded.payload, computed_at = excluded.computed_at`,
		summary.CreatorID, string(payload), summary.ComputedAt,
	)
	return err
}

func (s *Store) LoadCreatorSummary(creatorID string) (*domain.CreatorSummary, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM creator_summaries WHERE creator_id = ?`, creatorID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary domain.CreatorSummary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		return nil, fmt.Errorf("decode summary %s: %w", creatorID, err)
	}
	return &summary, nil
}

// InsertClassificationHistory records one completed AI pass for audit.
func (s *Store) InsertClassificationHistory(record domain.AnalysisRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO classification_history (item_id, analysis_version, source, confidence, classified_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ItemID, record.AnalysisVersion, string(record.ClassificationSource),
		record.ClassificationConfidence, record.ClassifiedAt,
	)
	return err
}

// InsertDecision records an explicit accept/reject of a reclassification
// suggestion.
func (s *Store) InsertDecision(itemID string, original, suggested domain.HookType, decision string) error {
	_, err := s.db.Exec(
		`INSERT INTO classification_decisions (item_id, original_hook_type, suggested_hook_type, decision)
		 VALUES (?, ?, ?, ?)`,
		itemID, string(original), string(suggested), decision,
	)
	return err
}
