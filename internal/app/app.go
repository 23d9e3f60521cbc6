package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"swipeengine/internal/analysis"
	"swipeengine/internal/classify"
	"swipeengine/internal/config"
	"swipeengine/internal/creator"
	"swipeengine/internal/fingerprint"
	"swipeengine/internal/lifecycle"
	"swipeengine/internal/reasoning"
	"swipeengine/internal/storage/sqlite"
)

func Main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()
	log.Printf(
		"Config loaded. Provider=%s MinSimilarity=%.2f HighMatch=%.2f OCRConfidence=%.2f Debounce=%dms SweepSchedule=%q",
		cfg.LLMProvider, cfg.MinSimilarity, cfg.HighMatchThreshold,
		cfg.OCRConfidenceThreshold, cfg.DebounceMillis, cfg.StaleSweepSchedule,
	)

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	log.Printf("Database initialized at %s", cfg.DBPath)
	defer db.Close()
	store := sqlite.NewStore(db)

	client, err := reasoning.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to build reasoning client: %v", err)
	}

	var lexicon *analysis.Lexicon
	if cfg.LexiconPath != "" {
		lexicon, err = analysis.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			log.Fatalf("Failed to load lexicon %s: %v", cfg.LexiconPath, err)
		}
		log.Printf("Lexicon loaded from %s", cfg.LexiconPath)
	}

	scorer := analysis.NewScorer(cfg, lexicon)
	engine := classify.NewEngine(client)
	index := fingerprint.NewIndex(cfg)
	saver := lifecycle.NewSaver(time.Duration(cfg.DebounceMillis) * time.Millisecond)

	// Media providers (frame OCR, speech recognition) are host
	// collaborators registered by the embedding application; the engine
	// runs transcript-first without them.
	manager := lifecycle.NewManager(store, scorer, engine, nil, index, saver)
	defer manager.Close()

	if err := seedIndex(store, index); err != nil {
		log.Fatalf("Failed to seed similarity corpus: %v", err)
	}
	log.Printf("Similarity corpus seeded items=%d", index.Size())

	StartStaleSweepScheduler(cfg, store, manager)

	log.Println("Starting Swipe Intelligence Engine...")
	waitForShutdown()
	log.Println("Shutting down, flushing pending writes...")
}

func seedIndex(store *sqlite.Store, index *fingerprint.Index) error {
	records, err := store.ListRecords()
	if err != nil {
		return err
	}
	for _, record := range records {
		index.Upsert(record.ItemID, record)
	}
	return nil
}

// RecomputeCreatorSummaries rebuilds every creator's summary from the
// current record set.
func RecomputeCreatorSummaries(store *sqlite.Store) error {
	records, err := store.ListRecords()
	if err != nil {
		return err
	}

	creators := map[string]bool{}
	for _, r := range records {
		if r.CreatorID != "" {
			creators[r.CreatorID] = true
		}
	}
	for creatorID := range creators {
		items, err := store.ListRecordsByCreator(creatorID)
		if err != nil {
			return err
		}
		if err := store.SaveCreatorSummary(creator.Recompute(creatorID, items)); err != nil {
			return err
		}
	}
	return nil
}

func waitForShutdown() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
