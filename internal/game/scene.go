package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

var (
	// ErrEmptySceneTitle indicates a scene title is required.
	ErrEmptySceneTitle = apperrors.New(apperrors.CodeSceneTitleEmpty, "scene title is required")
	// ErrSceneAlreadyCompleted indicates a scene cannot be completed twice.
	ErrSceneAlreadyCompleted = apperrors.New(apperrors.CodeSceneAlreadyCompleted, "scene is already completed")
)

// Scene is a unit of play inside an act. Unlike acts, scenes require a
// title at creation.
type Scene struct {
	ID          string
	Slug        string
	ActID       string
	Title       string
	Description string
	Status      Status
	Sequence    int
	// IsActive marks the one scene currently being played in its act.
	IsActive   bool
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Loaded child collections, in creation order.
	Events             []*Event
	DiceRolls          []*DiceRoll
	InterpretationSets []*InterpretationSet
}

// CreateSceneInput describes the fields needed to create a scene.
type CreateSceneInput struct {
	ActID       string
	Title       string
	Description string
	Sequence    int
}

// NormalizeCreateSceneInput trims whitespace and validates required fields.
func NormalizeCreateSceneInput(input CreateSceneInput) (CreateSceneInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" {
		return CreateSceneInput{}, ErrEmptySceneTitle
	}
	return input, nil
}

// CreateScene creates a new scene with a generated ID, slug, and timestamps.
// Scenes start active; the caller decides whether to flip the IsActive flag.
func CreateScene(input CreateSceneInput, now func() time.Time, idGenerator func() string) (*Scene, error) {
	input, err := NormalizeCreateSceneInput(input)
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
	return &Scene{
		ID:          idGenerator(),
		Slug:        SceneSlug(input.Sequence, input.Title),
		ActID:       input.ActID,
		Title:       input.Title,
		Description: input.Description,
		Status:      StatusActive,
		Sequence:    input.Sequence,
		CreatedAt:   createdAt,
		ModifiedAt:  createdAt,
	}, nil
}

// SceneSlug builds the canonical slug for a scene at a given sequence.
func SceneSlug(sequence int, title string) string {
	return fmt.Sprintf("scene-%d-%s", sequence, Slugify(title))
}

// CompleteScene applies the one-way active -> completed transition.
// Completing also clears the IsActive flag.
func CompleteScene(scene Scene, now func() time.Time) (Scene, error) {
	if now == nil {
		now = time.Now
	}
	if scene.Status == StatusCompleted {
		return Scene{}, apperrors.WithMetadata(
			apperrors.CodeSceneAlreadyCompleted,
			fmt.Sprintf("scene %s is already completed", scene.ID),
			map[string]string{"SceneID": scene.ID},
		)
	}

	updated := scene
	updated.Status = StatusCompleted
	updated.IsActive = false
	updated.ModifiedAt = now().UTC()
	return updated, nil
}

// EditScene updates a scene's title and description. A nil pointer leaves
// the corresponding field unchanged. Titles cannot be cleared.
func EditScene(scene Scene, title, description *string, now func() time.Time) (Scene, error) {
	if now == nil {
		now = time.Now
	}

	updated := scene
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return Scene{}, ErrEmptySceneTitle
		}
		updated.Title = trimmed
		updated.Slug = SceneSlug(updated.Sequence, trimmed)
	}
	if description != nil {
		updated.Description = strings.TrimSpace(*description)
	}
	updated.ModifiedAt = now().UTC()
	return updated, nil
}
