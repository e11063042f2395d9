package game

import (
	"errors"
	"testing"
)

func TestCreateEvent(t *testing.T) {
	event, err := CreateEvent(CreateEventInput{
		SceneID:     "scene-1",
		Description: "  A stranger arrives.  ",
		SourceID:    1,
	}, fixedNow, fixedID)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if event.Description != "A stranger arrives." {
		t.Fatalf("Description = %q, want trimmed", event.Description)
	}
	if event.InterpretationID != "" {
		t.Fatal("manual event should not link an interpretation")
	}
}

func TestCreateEventEmptyDescription(t *testing.T) {
	_, err := CreateEvent(CreateEventInput{SceneID: "scene-1", Description: " "}, fixedNow, fixedID)
	if !errors.Is(err, ErrEmptyEventDescription) {
		t.Fatalf("error = %v, want ErrEmptyEventDescription", err)
	}
}

func TestEditEvent(t *testing.T) {
	event, err := CreateEvent(CreateEventInput{
		SceneID:     "scene-1",
		Description: "Before",
		SourceID:    1,
	}, fixedNow, fixedID)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	updated, err := EditEvent(*event, "After", fixedNow)
	if err != nil {
		t.Fatalf("EditEvent() error = %v", err)
	}
	if updated.Description != "After" {
		t.Fatalf("Description = %q", updated.Description)
	}

	if _, err := EditEvent(*event, "  ", fixedNow); !errors.Is(err, ErrEmptyEventDescription) {
		t.Fatalf("error = %v, want ErrEmptyEventDescription", err)
	}
}

func TestCreateInterpretationSet(t *testing.T) {
	set, err := CreateInterpretationSet(CreateInterpretationSetInput{
		SceneID:       "scene-1",
		Context:       "What lurks in the cellar?",
		OracleResults: "darkness, hunger",
	}, fixedNow, fixedID)
	if err != nil {
		t.Fatalf("CreateInterpretationSet() error = %v", err)
	}
	if !set.IsCurrent {
		t.Fatal("new set should start current")
	}
	if set.RetryAttempt != 0 {
		t.Fatalf("RetryAttempt = %d, want 0", set.RetryAttempt)
	}
}

func TestCreateInterpretationSetEmptyContext(t *testing.T) {
	_, err := CreateInterpretationSet(CreateInterpretationSetInput{
		SceneID: "scene-1",
		Context: "  ",
	}, fixedNow, fixedID)
	if !errors.Is(err, ErrEmptyOracleContext) {
		t.Fatalf("error = %v, want ErrEmptyOracleContext", err)
	}
}
