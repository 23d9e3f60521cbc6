package domain

import "testing"

func TestIsFullyAnalyzed(t *testing.T) {
	score := 7.0
	full := AnalysisRecord{
		HookType:  HookQuestion,
		HookScore: &score,
		Sections:  []StructuralSection{{Label: "hook", Start: 0, End: 10}},
	}
	if !full.IsFullyAnalyzed() {
		t.Fatalf("expected fully analyzed: %+v", full)
	}

	cases := map[string]AnalysisRecord{
		"no score":    {HookType: HookQuestion, Sections: full.Sections},
		"no hook":     {HookScore: &score, Sections: full.Sections},
		"no sections": {HookType: HookQuestion, HookScore: &score},
	}
	for name, record := range cases {
		if record.IsFullyAnalyzed() {
			t.Fatalf("%s: expected not fully analyzed", name)
		}
	}
}

func TestIsSparse(t *testing.T) {
	dense := AnalysisRecord{
		Sections:   []StructuralSection{{Label: "hook"}},
		Techniques: []PersuasionTechnique{{Type: TechniqueUrgency, Intensity: 0.5}},
	}
	if dense.IsSparse() {
		t.Fatalf("expected dense record")
	}
	if !(AnalysisRecord{Sections: dense.Sections}).IsSparse() {
		t.Fatalf("missing techniques must read sparse")
	}
	if !(AnalysisRecord{Techniques: dense.Techniques}).IsSparse() {
		t.Fatalf("missing sections must read sparse")
	}
}

func TestEnumOrdersAreStable(t *testing.T) {
	// These orders are baked into the fingerprint layout.
	if len(AllHookTypes()) != 7 {
		t.Fatalf("expected 7 hook types, got %d", len(AllHookTypes()))
	}
	if AllHookTypes()[0] != HookQuestion || AllHookTypes()[6] != HookCuriosityGap {
		t.Fatalf("hook type order changed: %v", AllHookTypes())
	}
	if len(AllEmotions()) != 8 {
		t.Fatalf("expected 8 emotions, got %d", len(AllEmotions()))
	}
	if AllEmotions()[0] != EmotionCuriosity || AllEmotions()[7] != EmotionSadness {
		t.Fatalf("emotion order changed: %v", AllEmotions())
	}
	if len(AllTechniqueTypes()) != 8 {
		t.Fatalf("expected 8 technique types, got %d", len(AllTechniqueTypes()))
	}
	if AllTechniqueTypes()[0] != TechniqueScarcity || AllTechniqueTypes()[7] != TechniqueRepetition {
		t.Fatalf("technique order changed: %v", AllTechniqueTypes())
	}
}
