package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

// Event source names. These match the seeded event_sources rows.
const (
	SourceManual = "manual"
	SourceOracle = "oracle"
	SourceDice   = "dice"
)

var (
	// ErrEmptyEventDescription indicates an event description is required.
	ErrEmptyEventDescription = apperrors.New(apperrors.CodeEventDescriptionEmpty, "event description is required")
	// ErrUnknownEventSource indicates the source name is not recognized.
	ErrUnknownEventSource = apperrors.New(apperrors.CodeEventSourceUnknown, "unknown event source")
)

// EventSource is a lookup row naming where an event came from.
type EventSource struct {
	ID   int
	Name string
}

// Event records something that happened in a scene. Events are immutable
// history: they are never reordered and only their description is editable.
type Event struct {
	ID      string
	SceneID string
	// GameID is denormalized from the owning scene's game for cheap
	// game-wide queries.
	GameID      string
	Description string
	SourceID    int
	// InterpretationID links oracle-sourced events back to the
	// interpretation they were promoted from. Empty otherwise.
	InterpretationID string
	CreatedAt        time.Time
	ModifiedAt       time.Time

	// Source is the loaded lookup row, nil if not loaded.
	Source *EventSource
}

// CreateEventInput describes the fields needed to record an event.
type CreateEventInput struct {
	SceneID          string
	GameID           string
	Description      string
	SourceID         int
	InterpretationID string
}

// NormalizeCreateEventInput trims whitespace and validates required fields.
func NormalizeCreateEventInput(input CreateEventInput) (CreateEventInput, error) {
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return CreateEventInput{}, ErrEmptyEventDescription
	}
	return input, nil
}

// CreateEvent creates a new event with a generated ID and timestamps.
func CreateEvent(input CreateEventInput, now func() time.Time, idGenerator func() string) (*Event, error) {
	input, err := NormalizeCreateEventInput(input)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}

	createdAt := now().UTC()
	return &Event{
		ID:               idGenerator(),
		SceneID:          input.SceneID,
		GameID:           input.GameID,
		Description:      input.Description,
		SourceID:         input.SourceID,
		InterpretationID: input.InterpretationID,
		CreatedAt:        createdAt,
		ModifiedAt:       createdAt,
	}, nil
}

// EditEvent updates an event's description.
func EditEvent(event Event, description string, now func() time.Time) (Event, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Event{}, ErrEmptyEventDescription
	}
	if now == nil {
		now = time.Now
	}

	updated := event
	updated.Description = description
	updated.ModifiedAt = now().UTC()
	return updated, nil
}
