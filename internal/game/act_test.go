package game

import (
	"errors"
	"testing"
	"time"
)

func TestCreateActSlug(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		sequence int
		want     string
	}{
		{"titled", "The Long Road", 1, "act-1-the-long-road"},
		{"untitled", "", 2, "act-2-untitled"},
		{"punctuation", "What's Next?", 3, "act-3-what-s-next"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := CreateAct(CreateActInput{
				GameID:   "game-1",
				Title:    tt.title,
				Sequence: tt.sequence,
			}, fixedNow, fixedID)
			if act.Slug != tt.want {
				t.Fatalf("Slug = %q, want %q", act.Slug, tt.want)
			}
			if act.Status != StatusActive {
				t.Fatalf("Status = %v, want active", act.Status)
			}
		})
	}
}

func TestCompleteAct(t *testing.T) {
	act := CreateAct(CreateActInput{GameID: "game-1", Sequence: 1}, fixedNow, fixedID)
	act.IsActive = true

	later := func() time.Time { return fixedNow().Add(time.Hour) }
	completed, err := CompleteAct(*act, "Epilogue", "It ended well.", later)
	if err != nil {
		t.Fatalf("CompleteAct() error = %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("Status = %v, want completed", completed.Status)
	}
	if completed.IsActive {
		t.Fatal("completing an act must clear IsActive")
	}
	if completed.Title != "Epilogue" || completed.Summary != "It ended well." {
		t.Fatalf("fields = %q/%q, want completion values", completed.Title, completed.Summary)
	}
	if completed.Slug != "act-1-epilogue" {
		t.Fatalf("Slug = %q, want re-derived from new title", completed.Slug)
	}
	if !completed.ModifiedAt.After(act.ModifiedAt) {
		t.Fatal("ModifiedAt should advance on completion")
	}
}

func TestCompleteActTwice(t *testing.T) {
	act := CreateAct(CreateActInput{GameID: "game-1", Sequence: 1}, fixedNow, fixedID)
	completed, err := CompleteAct(*act, "", "", fixedNow)
	if err != nil {
		t.Fatalf("first completion error = %v", err)
	}
	_, err = CompleteAct(completed, "", "", fixedNow)
	if !errors.Is(err, ErrActAlreadyCompleted) {
		t.Fatalf("second completion error = %v, want ErrActAlreadyCompleted", err)
	}
}

func TestCompleteActKeepsExistingFields(t *testing.T) {
	act := CreateAct(CreateActInput{
		GameID:   "game-1",
		Title:    "Original",
		Summary:  "Original summary",
		Sequence: 1,
	}, fixedNow, fixedID)

	completed, err := CompleteAct(*act, "", "", fixedNow)
	if err != nil {
		t.Fatalf("CompleteAct() error = %v", err)
	}
	if completed.Title != "Original" || completed.Summary != "Original summary" {
		t.Fatalf("fields = %q/%q, empty completion args must not clear them", completed.Title, completed.Summary)
	}
}

func TestEditAct(t *testing.T) {
	act := CreateAct(CreateActInput{GameID: "game-1", Title: "Before", Sequence: 2}, fixedNow, fixedID)

	title := "After"
	updated := EditAct(*act, &title, nil, fixedNow)
	if updated.Title != "After" {
		t.Fatalf("Title = %q, want %q", updated.Title, "After")
	}
	if updated.Slug != "act-2-after" {
		t.Fatalf("Slug = %q, want re-derived slug", updated.Slug)
	}
	if updated.Summary != act.Summary {
		t.Fatal("nil summary pointer must leave summary unchanged")
	}
}

func TestStatusLabelRoundTrip(t *testing.T) {
	for _, status := range []Status{StatusActive, StatusCompleted} {
		if got := ParseStatus(StatusLabel(status)); got != status {
			t.Errorf("ParseStatus(StatusLabel(%v)) = %v", status, got)
		}
	}
	if ParseStatus("bogus") != StatusUnspecified {
		t.Error("unknown label should parse as unspecified")
	}
}
