package service

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

// CreateScene creates a scene in the active act and makes it the active
// scene.
func (s *Service) CreateScene(ctx context.Context, title, description string) (*game.Scene, error) {
	act, err := s.requireActiveAct(ctx)
	if err != nil {
		return nil, err
	}

	var scene *game.Scene
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		sequence, err := tx.NextSceneSequence(ctx, act.ID)
		if err != nil {
			return fmt.Errorf("next scene sequence: %w", err)
		}

		scene, err = game.CreateScene(game.CreateSceneInput{
			ActID:       act.ID,
			Title:       title,
			Description: description,
			Sequence:    sequence,
		}, s.now, s.newID)
		if err != nil {
			return err
		}
		scene.IsActive = true

		if err := tx.CreateScene(ctx, scene); err != nil {
			return fmt.Errorf("create scene: %w", err)
		}
		return tx.SetActiveScene(ctx, act.ID, scene.ID)
	})
	if err != nil {
		return nil, err
	}
	return scene, nil
}

// ListScenes returns the active act's scenes in sequence order.
func (s *Service) ListScenes(ctx context.Context) ([]*game.Scene, error) {
	act, err := s.requireActiveAct(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListScenes(ctx, act.ID)
}

// ListScenesWithEvents returns the active act's scenes that have at
// least one event, in sequence order.
func (s *Service) ListScenesWithEvents(ctx context.Context) ([]*game.Scene, error) {
	act, err := s.requireActiveAct(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.FilterScenesWithEvents(ctx, act.ID)
}

// GetScene fetches a scene by ID.
func (s *Service) GetScene(ctx context.Context, id string) (*game.Scene, error) {
	scene, err := s.store.GetScene(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeSceneNotFound, "scene not found")
	}
	return scene, nil
}

// GetActiveScene returns the scene commands currently apply to.
func (s *Service) GetActiveScene(ctx context.Context) (*game.Scene, error) {
	return s.requireActiveScene(ctx)
}

// EditScene updates a scene's title and description. Nil pointers leave
// fields unchanged.
func (s *Service) EditScene(ctx context.Context, id string, title, description *string) (*game.Scene, error) {
	scene, err := s.GetScene(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := game.EditScene(*scene, title, description, s.now)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateScene(ctx, &updated); err != nil {
		return nil, mapNotFound(err, apperrors.CodeSceneNotFound, "scene not found")
	}
	return &updated, nil
}

// CompleteScene closes a scene. An empty ID targets the active scene.
func (s *Service) CompleteScene(ctx context.Context, id string) (*game.Scene, error) {
	var scene *game.Scene
	var err error
	if id == "" {
		scene, err = s.requireActiveScene(ctx)
	} else {
		scene, err = s.GetScene(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	var completed game.Scene
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		completed, err = game.CompleteScene(*scene, s.now)
		if err != nil {
			return err
		}
		return tx.UpdateScene(ctx, &completed)
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

// SetActiveScene makes the given scene the active one within its act.
// The scene must belong to the active act, so the active scene always
// sits under the active act.
func (s *Service) SetActiveScene(ctx context.Context, id string) (*game.Scene, error) {
	scene, err := s.GetScene(ctx, id)
	if err != nil {
		return nil, err
	}
	act, err := s.requireActiveAct(ctx)
	if err != nil {
		return nil, err
	}
	if scene.ActID != act.ID {
		return nil, apperrors.WithMetadata(apperrors.CodeActiveConflict,
			fmt.Sprintf("scene %s belongs to another act", scene.Slug),
			map[string]string{"SceneID": scene.ID, "ActID": scene.ActID})
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		return tx.SetActiveScene(ctx, scene.ActID, scene.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetScene(ctx, id)
}
