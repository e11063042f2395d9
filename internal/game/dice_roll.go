package game

import (
	"time"

	"github.com/google/uuid"
)

// DiceRoll records a resolved dice roll within a scene. The notation and
// individual results are kept so the roll can be replayed in history views.
type DiceRoll struct {
	ID     string
	GameID string
	// SceneID is empty for rolls made outside any scene.
	SceneID  string
	Notation string
	// Results holds the individual die results before the modifier.
	Results  []int
	Modifier int
	Total    int
	// Reason is an optional free-text note on why the roll happened.
	Reason     string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// CreateDiceRollInput describes a resolved roll to record.
type CreateDiceRollInput struct {
	GameID   string
	SceneID  string
	Notation string
	Results  []int
	Modifier int
	Total    int
	Reason   string
}

// CreateDiceRoll creates a new dice roll record with a generated ID and
// timestamps. The roll itself is resolved by the dice package; this only
// records the outcome.
func CreateDiceRoll(input CreateDiceRollInput, now func() time.Time, idGenerator func() string) *DiceRoll {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}

	createdAt := now().UTC()
	return &DiceRoll{
		ID:         idGenerator(),
		GameID:     input.GameID,
		SceneID:    input.SceneID,
		Notation:   input.Notation,
		Results:    input.Results,
		Modifier:   input.Modifier,
		Total:      input.Total,
		Reason:     input.Reason,
		CreatedAt:  createdAt,
		ModifiedAt: createdAt,
	}
}
