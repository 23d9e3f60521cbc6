package domain

import "testing"

func TestJoinSlidesSkipsEmpty(t *testing.T) {
	slides := []TranscriptSlide{
		{ID: "1", Text: "first part"},
		{ID: "2", Text: "   "},
		{ID: "3", Text: "second part"},
	}
	got := JoinSlides(slides)
	want := "first part\n\nsecond part"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if JoinSlides(nil) != "" {
		t.Fatalf("expected empty transcript for no slides")
	}
}

func TestRenumberSlides(t *testing.T) {
	slides := []TranscriptSlide{
		{ID: "a", SlideNumber: 7},
		{ID: "b", SlideNumber: 2},
		{ID: "c", SlideNumber: 2},
	}
	RenumberSlides(slides)
	for i, s := range slides {
		if s.SlideNumber != i+1 {
			t.Fatalf("expected contiguous numbering, got %+v", slides)
		}
	}
	if slides[0].ID != "a" || slides[2].ID != "c" {
		t.Fatalf("renumbering must preserve order, got %+v", slides)
	}
}
