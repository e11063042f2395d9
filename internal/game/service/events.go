package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

// AddEvent records a manual event in the active scene.
func (s *Service) AddEvent(ctx context.Context, description string) (*game.Event, error) {
	scene, err := s.requireActiveScene(ctx)
	if err != nil {
		return nil, err
	}
	return s.addEvent(ctx, scene, description, game.SourceManual, "")
}

// ListEvents returns the active scene's events in creation order.
func (s *Service) ListEvents(ctx context.Context) ([]*game.Event, error) {
	scene, err := s.requireActiveScene(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, scene.ID)
}

// GetEvent fetches an event by ID.
func (s *Service) GetEvent(ctx context.Context, id string) (*game.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeEventNotFound, "event not found")
	}
	return event, nil
}

// EditEvent updates an event's description.
func (s *Service) EditEvent(ctx context.Context, id, description string) (*game.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := game.EditEvent(*event, description, s.now)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateEvent(ctx, &updated); err != nil {
		return nil, mapNotFound(err, apperrors.CodeEventNotFound, "event not found")
	}
	return &updated, nil
}

// EventFromDiceRoll records a dice-sourced event describing a resolved
// roll in the roll's scene.
func (s *Service) EventFromDiceRoll(ctx context.Context, roll *game.DiceRoll) (*game.Event, error) {
	if roll == nil || roll.SceneID == "" {
		return nil, apperrors.New(apperrors.CodeSceneNotFound, "the roll is not attached to a scene")
	}
	scene, err := s.GetScene(ctx, roll.SceneID)
	if err != nil {
		return nil, err
	}

	description := formatRollDescription(roll)
	return s.addEvent(ctx, scene, description, game.SourceDice, "")
}

// addEvent persists an event in the scene's game with the named source.
func (s *Service) addEvent(ctx context.Context, scene *game.Scene, description, sourceName, interpretationID string) (*game.Event, error) {
	source, err := s.store.GetEventSource(ctx, sourceName)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeEventSourceUnknown, "unknown event source")
	}
	gameID, err := s.gameIDForScene(ctx, scene)
	if err != nil {
		return nil, err
	}

	event, err := game.CreateEvent(game.CreateEventInput{
		SceneID:          scene.ID,
		GameID:           gameID,
		Description:      description,
		SourceID:         source.ID,
		InterpretationID: interpretationID,
	}, s.now, s.newID)
	if err != nil {
		return nil, err
	}
	event.Source = &source

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		return tx.CreateEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Service) gameIDForScene(ctx context.Context, scene *game.Scene) (string, error) {
	act, err := s.GetAct(ctx, scene.ActID)
	if err != nil {
		return "", err
	}
	return act.GameID, nil
}

// formatRollDescription renders a roll as event history text, keeping
// the individual dice visible.
func formatRollDescription(roll *game.DiceRoll) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rolled %s", roll.Notation)
	if roll.Reason != "" {
		fmt.Fprintf(&b, " for %s", roll.Reason)
	}
	fmt.Fprintf(&b, ": %v", roll.Results)
	if roll.Modifier != 0 {
		fmt.Fprintf(&b, " %+d", roll.Modifier)
	}
	fmt.Fprintf(&b, " = %d", roll.Total)
	return b.String()
}
