// Package storage defines the persistence interfaces the service layer
// depends on. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/game/derive"
)

// ErrNotFound indicates the requested record does not exist. Callers map
// it to their own entity-specific errors.
var ErrNotFound = errors.New("record not found")

// GameStore persists games.
type GameStore interface {
	CreateGame(ctx context.Context, g *game.Game) error
	GetGame(ctx context.Context, id string) (*game.Game, error)
	GetActiveGame(ctx context.Context) (*game.Game, error)
	ListGames(ctx context.Context) ([]*game.Game, error)
	UpdateGame(ctx context.Context, g *game.Game) error
	// SetActiveGame flips the active flag to the given game and clears
	// it everywhere else.
	SetActiveGame(ctx context.Context, id string) error
	// DeleteGame removes the game and everything under it.
	DeleteGame(ctx context.Context, id string) error
	// LoadGameGraph returns the game with all descendants loaded, in
	// relationship order.
	LoadGameGraph(ctx context.Context, id string) (*game.Game, error)
}

// ActStore persists acts.
type ActStore interface {
	CreateAct(ctx context.Context, a *game.Act) error
	GetAct(ctx context.Context, id string) (*game.Act, error)
	ListActs(ctx context.Context, gameID string) ([]*game.Act, error)
	UpdateAct(ctx context.Context, a *game.Act) error
	// SetActiveAct flips the active flag to the given act within its
	// game and clears it on siblings.
	SetActiveAct(ctx context.Context, gameID, actID string) error
	// NextActSequence returns the next 1-based sequence for a game.
	NextActSequence(ctx context.Context, gameID string) (int, error)
}

// SceneStore persists scenes.
type SceneStore interface {
	CreateScene(ctx context.Context, s *game.Scene) error
	GetScene(ctx context.Context, id string) (*game.Scene, error)
	ListScenes(ctx context.Context, actID string) ([]*game.Scene, error)
	UpdateScene(ctx context.Context, s *game.Scene) error
	SetActiveScene(ctx context.Context, actID, sceneID string) error
	NextSceneSequence(ctx context.Context, actID string) (int, error)
}

// EventStore persists events and their source lookup.
type EventStore interface {
	CreateEvent(ctx context.Context, e *game.Event) error
	GetEvent(ctx context.Context, id string) (*game.Event, error)
	ListEvents(ctx context.Context, sceneID string) ([]*game.Event, error)
	// ListRecentEvents returns up to limit events, newest first.
	ListRecentEvents(ctx context.Context, sceneID string, limit int) ([]*game.Event, error)
	UpdateEvent(ctx context.Context, e *game.Event) error
	GetEventSource(ctx context.Context, name string) (game.EventSource, error)
}

// DiceRollStore persists dice rolls.
type DiceRollStore interface {
	CreateDiceRoll(ctx context.Context, r *game.DiceRoll) error
	ListDiceRolls(ctx context.Context, sceneID string) ([]*game.DiceRoll, error)
}

// OracleStore persists interpretation sets and interpretations.
type OracleStore interface {
	CreateInterpretationSet(ctx context.Context, set *game.InterpretationSet) error
	CreateInterpretation(ctx context.Context, i *game.Interpretation) error
	GetInterpretationSet(ctx context.Context, id string) (*game.InterpretationSet, error)
	GetCurrentInterpretationSet(ctx context.Context, sceneID string) (*game.InterpretationSet, error)
	// ClearCurrentInterpretationSets unmarks every current set for a
	// scene; the caller then marks the replacement.
	ClearCurrentInterpretationSets(ctx context.Context, sceneID string) error
	UpdateInterpretationSet(ctx context.Context, set *game.InterpretationSet) error
	GetInterpretation(ctx context.Context, id string) (*game.Interpretation, error)
	UpdateInterpretation(ctx context.Context, i *game.Interpretation) error
	// ClearSelectedInterpretations unmarks every selection in a set.
	ClearSelectedInterpretations(ctx context.Context, setID string) error
}

// DerivedStore evaluates derived accessors directly against storage,
// without loading the graph.
type DerivedStore interface {
	EvalBool(ctx context.Context, spec derive.Spec, rootID string) (bool, error)
	EvalCount(ctx context.Context, spec derive.Spec, rootID string) (int, error)
	// EvalNavigate returns the target entity id, or found=false when
	// nothing matches.
	EvalNavigate(ctx context.Context, spec derive.Spec, rootID string) (id string, found bool, err error)
	// FilterScenesWithEvents returns the scenes of an act that have at
	// least one event, in sequence order.
	FilterScenesWithEvents(ctx context.Context, actID string) ([]*game.Scene, error)
}

// Store is the full persistence surface.
type Store interface {
	GameStore
	ActStore
	SceneStore
	EventStore
	DiceRollStore
	OracleStore
	DerivedStore

	// WithTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error
	Close() error
}
