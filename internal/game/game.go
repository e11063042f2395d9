// Package game defines the entity model for solo sessions: a Game owns
// Acts, Acts own Scenes, and Scenes own Events, DiceRolls, and oracle
// InterpretationSets. Lifecycle transitions live here; persistence and
// orchestration live in their own packages.
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

var (
	// ErrEmptyGameName indicates a missing game name.
	ErrEmptyGameName = apperrors.New(apperrors.CodeGameNameEmpty, "game name is required")
)

// Game is the top-level container for a solo campaign.
type Game struct {
	ID          string
	Name        string
	Description string
	// IsActive marks the one game currently being played.
	IsActive   bool
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Acts holds the loaded child collection in sequence order.
	// Nil when the game was loaded without its graph.
	Acts []*Act
}

// CreateGameInput describes the fields needed to create a game.
type CreateGameInput struct {
	Name        string
	Description string
}

// CreateGame creates a new game with a slug-derived ID and timestamps.
func CreateGame(input CreateGameInput, now func() time.Time, idGenerator func() string) (*Game, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}

	normalized, err := NormalizeCreateGameInput(input)
	if err != nil {
		return nil, err
	}

	// Game IDs read like URLs: the slugified name plus a short random
	// suffix to keep collisions out of the picture.
	suffix := idGenerator()
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	createdAt := now().UTC()
	return &Game{
		ID:          fmt.Sprintf("%s-%s", Slugify(normalized.Name), suffix),
		Name:        normalized.Name,
		Description: normalized.Description,
		CreatedAt:   createdAt,
		ModifiedAt:  createdAt,
	}, nil
}

// EditGame updates a game's name and description. A nil pointer leaves
// the corresponding field unchanged. Names cannot be cleared. The ID keeps
// its original slug; renames do not break references.
func EditGame(g Game, name, description *string, now func() time.Time) (Game, error) {
	if now == nil {
		now = time.Now
	}

	updated := g
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return Game{}, ErrEmptyGameName
		}
		updated.Name = trimmed
	}
	if description != nil {
		updated.Description = strings.TrimSpace(*description)
	}
	updated.ModifiedAt = now().UTC()
	return updated, nil
}

// NormalizeCreateGameInput trims and validates game input.
func NormalizeCreateGameInput(input CreateGameInput) (CreateGameInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateGameInput{}, ErrEmptyGameName
	}
	input.Description = strings.TrimSpace(input.Description)
	return input, nil
}
