package service

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/game/derive"
	"github.com/louisbranch/soloscribe/internal/storage"
)

// CreateGame creates a game and makes it the active one.
func (s *Service) CreateGame(ctx context.Context, input game.CreateGameInput) (*game.Game, error) {
	g, err := game.CreateGame(input, s.now, s.newID)
	if err != nil {
		return nil, err
	}
	g.IsActive = true

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateGame(ctx, g); err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		return tx.SetActiveGame(ctx, g.ID)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGames returns all games, oldest first.
func (s *Service) ListGames(ctx context.Context) ([]*game.Game, error) {
	return s.store.ListGames(ctx)
}

// GetGame fetches a game by ID.
func (s *Service) GetGame(ctx context.Context, id string) (*game.Game, error) {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeGameNotFound, "game not found")
	}
	return g, nil
}

// GetActiveGame returns the game commands currently apply to.
func (s *Service) GetActiveGame(ctx context.Context) (*game.Game, error) {
	return s.requireActiveGame(ctx)
}

// ActivateGame makes the given game the active one.
func (s *Service) ActivateGame(ctx context.Context, id string) (*game.Game, error) {
	if _, err := s.GetGame(ctx, id); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		return tx.SetActiveGame(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.GetGame(ctx, id)
}

// EditGame updates the game's name and description. Nil pointers leave
// fields unchanged.
func (s *Service) EditGame(ctx context.Context, id string, name, description *string) (*game.Game, error) {
	g, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := game.EditGame(*g, name, description, s.now)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateGame(ctx, &updated); err != nil {
		return nil, mapNotFound(err, apperrors.CodeGameNotFound, "game not found")
	}
	return &updated, nil
}

// DeleteGame removes a game and everything under it in one transaction.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.DeleteGame(ctx, id); err != nil {
			return mapNotFound(err, apperrors.CodeGameNotFound, "game not found")
		}
		return nil
	})
}

// GameSummary aggregates the derived state shown by status commands.
type GameSummary struct {
	Game             *game.Game
	ActCount         int
	SceneCount       int
	EventCount       int
	HasCompletedActs bool
	ActiveAct        *game.Act
	ActiveScene      *game.Scene
}

// GameStatus answers the status view for a game through the derived
// accessor catalogue, entirely in SQL.
func (s *Service) GameStatus(ctx context.Context, id string) (*GameSummary, error) {
	g, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &GameSummary{Game: g}
	for name, dest := range map[string]*int{
		"ActCount":   &summary.ActCount,
		"SceneCount": &summary.SceneCount,
		"EventCount": &summary.EventCount,
	} {
		spec, ok := derive.Lookup(derive.EntityGame, name)
		if !ok {
			return nil, fmt.Errorf("accessor %s is not registered", name)
		}
		if *dest, err = s.store.EvalCount(ctx, spec, g.ID); err != nil {
			return nil, fmt.Errorf("eval %s: %w", name, err)
		}
	}

	if spec, ok := derive.Lookup(derive.EntityGame, "HasCompletedActs"); ok {
		if summary.HasCompletedActs, err = s.store.EvalBool(ctx, spec, g.ID); err != nil {
			return nil, fmt.Errorf("eval HasCompletedActs: %w", err)
		}
	}

	if spec, ok := derive.Lookup(derive.EntityGame, "ActiveAct"); ok {
		if actID, found, err := s.store.EvalNavigate(ctx, spec, g.ID); err != nil {
			return nil, fmt.Errorf("eval ActiveAct: %w", err)
		} else if found {
			if summary.ActiveAct, err = s.store.GetAct(ctx, actID); err != nil {
				return nil, mapNotFound(err, apperrors.CodeActNotFound, "act not found")
			}
		}
	}
	if spec, ok := derive.Lookup(derive.EntityGame, "ActiveScene"); ok {
		if sceneID, found, err := s.store.EvalNavigate(ctx, spec, g.ID); err != nil {
			return nil, fmt.Errorf("eval ActiveScene: %w", err)
		} else if found {
			if summary.ActiveScene, err = s.store.GetScene(ctx, sceneID); err != nil {
				return nil, mapNotFound(err, apperrors.CodeSceneNotFound, "scene not found")
			}
		}
	}

	return summary, nil
}
