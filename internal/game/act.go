package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

// Status describes the lifecycle of an act or scene.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusActive indicates the entity is open for play.
	StatusActive
	// StatusCompleted indicates the entity has been wrapped up.
	StatusCompleted
)

// StatusLabel returns a stable label for a lifecycle status.
func StatusLabel(status Status) string {
	switch status {
	case StatusActive:
		return "ACTIVE"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UNSPECIFIED"
	}
}

// ParseStatus converts a stored label back into a Status.
func ParseStatus(label string) Status {
	switch label {
	case "ACTIVE":
		return StatusActive
	case "COMPLETED":
		return StatusCompleted
	default:
		return StatusUnspecified
	}
}

var (
	// ErrActAlreadyCompleted indicates an act cannot be completed twice.
	ErrActAlreadyCompleted = apperrors.New(apperrors.CodeActAlreadyCompleted, "act is already completed")
)

// Act is a narrative chapter within a game. Title and summary may stay
// empty while the act is open; they are usually filled in at completion.
type Act struct {
	ID     string
	Slug   string
	GameID string
	Title  string
	// Summary describes how the act played out; often AI-generated at
	// completion time.
	Summary  string
	Status   Status
	Sequence int
	// IsActive marks the one act currently being played in its game.
	IsActive   bool
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Scenes holds the loaded child collection in sequence order.
	Scenes []*Scene
}

// CreateActInput describes the fields needed to create an act.
type CreateActInput struct {
	GameID string
	// Title may be empty for untitled acts.
	Title    string
	Summary  string
	Sequence int
}

// CreateAct creates a new act with a generated ID, slug, and timestamps.
// Acts start active; the caller decides whether to flip the IsActive flag.
func CreateAct(input CreateActInput, now func() time.Time, idGenerator func() string) *Act {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}

	createdAt := now().UTC()
	return &Act{
		ID:         idGenerator(),
		Slug:       ActSlug(input.Sequence, input.Title),
		GameID:     input.GameID,
		Title:      input.Title,
		Summary:    input.Summary,
		Status:     StatusActive,
		Sequence:   input.Sequence,
		CreatedAt:  createdAt,
		ModifiedAt: createdAt,
	}
}

// ActSlug builds the canonical slug for an act at a given sequence.
// Untitled acts get a placeholder.
func ActSlug(sequence int, title string) string {
	if title == "" {
		return fmt.Sprintf("act-%d-untitled", sequence)
	}
	return fmt.Sprintf("act-%d-%s", sequence, Slugify(title))
}

// CompleteAct applies the one-way active -> completed transition. Completing
// also clears the IsActive flag so the act stops being the working chapter.
func CompleteAct(act Act, title, summary string, now func() time.Time) (Act, error) {
	if now == nil {
		now = time.Now
	}
	if act.Status == StatusCompleted {
		return Act{}, apperrors.WithMetadata(
			apperrors.CodeActAlreadyCompleted,
			fmt.Sprintf("act %s is already completed", act.ID),
			map[string]string{"ActID": act.ID},
		)
	}

	updated := act
	if title != "" {
		updated.Title = title
		updated.Slug = ActSlug(updated.Sequence, title)
	}
	if summary != "" {
		updated.Summary = summary
	}
	updated.Status = StatusCompleted
	updated.IsActive = false
	updated.ModifiedAt = now().UTC()
	return updated, nil
}

// EditAct updates an act's title and summary. A nil pointer leaves the
// corresponding field unchanged; an empty string clears it.
func EditAct(act Act, title, summary *string, now func() time.Time) Act {
	if now == nil {
		now = time.Now
	}

	updated := act
	if title != nil {
		updated.Title = *title
		updated.Slug = ActSlug(updated.Sequence, *title)
	}
	if summary != nil {
		updated.Summary = *summary
	}
	updated.ModifiedAt = now().UTC()
	return updated
}
