package service

import (
	"context"
	"strings"

	"github.com/louisbranch/soloscribe/internal/dice"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

// RollDiceInput describes a roll request. An empty SceneID attaches the
// roll to the active scene when one exists; rolls without a scene are
// still recorded against the game.
type RollDiceInput struct {
	Notation string
	Reason   string
	SceneID  string
	// RecordEvent additionally writes the roll into the scene's event
	// history.
	RecordEvent bool
}

// RollDice parses and rolls dice notation, records the roll, and
// optionally records a scene event for it.
func (s *Service) RollDice(ctx context.Context, input RollDiceInput) (*game.DiceRoll, error) {
	g, err := s.requireActiveGame(ctx)
	if err != nil {
		return nil, err
	}

	result, err := dice.Roll(dice.RollRequest{
		Notation: strings.TrimSpace(input.Notation),
		Seed:     s.seed(),
	})
	if err != nil {
		return nil, err
	}

	sceneID := input.SceneID
	if sceneID == "" {
		// Attach to the active scene when the session has one; a roll
		// outside any scene is still valid.
		if scene, err := s.requireActiveScene(ctx); err == nil {
			sceneID = scene.ID
		} else if apperrors.GetKind(err) != apperrors.KindNotFound {
			return nil, err
		}
	} else {
		if _, err := s.GetScene(ctx, sceneID); err != nil {
			return nil, err
		}
	}

	roll := game.CreateDiceRoll(game.CreateDiceRollInput{
		GameID:   g.ID,
		SceneID:  sceneID,
		Notation: result.Notation.String(),
		Results:  result.Results,
		Modifier: result.Modifier,
		Total:    result.Total,
		Reason:   strings.TrimSpace(input.Reason),
	}, s.now, s.newID)

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		return tx.CreateDiceRoll(ctx, roll)
	})
	if err != nil {
		return nil, err
	}

	if input.RecordEvent && sceneID != "" {
		if _, err := s.EventFromDiceRoll(ctx, roll); err != nil {
			return nil, err
		}
	}
	return roll, nil
}

// ListDiceRolls returns the active scene's rolls in creation order.
func (s *Service) ListDiceRolls(ctx context.Context) ([]*game.DiceRoll, error) {
	scene, err := s.requireActiveScene(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListDiceRolls(ctx, scene.ID)
}
