package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/soloscribe/internal/ai"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

// recentEventLimit bounds how much scene history interpretation prompts
// carry.
const recentEventLimit = 5

// InterpretInput describes an oracle consultation. An empty SceneID
// targets the active scene.
type InterpretInput struct {
	SceneID       string
	Context       string
	OracleResults string
	Count         int
}

// Interpret asks the AI for interpretations of oracle results and
// replaces the scene's current interpretation set atomically. The AI
// call happens before any mutation.
func (s *Service) Interpret(ctx context.Context, input InterpretInput) (*game.InterpretationSet, error) {
	return s.interpret(ctx, input, 0)
}

// RetryInterpretation repeats the scene's current consultation, asking
// for different interpretations. Previous sets stay untouched until the
// new call succeeds.
func (s *Service) RetryInterpretation(ctx context.Context, sceneID string) (*game.InterpretationSet, error) {
	current, err := s.GetCurrentInterpretationSet(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	return s.interpret(ctx, InterpretInput{
		SceneID:       current.SceneID,
		Context:       current.Context,
		OracleResults: current.OracleResults,
		Count:         len(current.Interpretations),
	}, current.RetryAttempt+1)
}

func (s *Service) interpret(ctx context.Context, input InterpretInput, retryAttempt int) (*game.InterpretationSet, error) {
	if strings.TrimSpace(input.Context) == "" {
		return nil, game.ErrEmptyOracleContext
	}
	if strings.TrimSpace(input.OracleResults) == "" {
		return nil, apperrors.New(apperrors.CodeOracleResultsEmpty, "oracle results are required")
	}
	if s.ai == nil {
		return nil, apperrors.New(apperrors.CodeAIUnavailable, "AI is not configured")
	}
	if input.Count <= 0 {
		input.Count = 3
	}

	var scene *game.Scene
	var err error
	if input.SceneID == "" {
		scene, err = s.requireActiveScene(ctx)
	} else {
		scene, err = s.GetScene(ctx, input.SceneID)
	}
	if err != nil {
		return nil, err
	}

	g, err := s.gameForScene(ctx, scene)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.ListRecentEvents(ctx, scene.ID, recentEventLimit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	descriptions := make([]string, 0, len(recent))
	for _, event := range recent {
		descriptions = append(descriptions, event.Description)
	}

	prompt := ai.BuildInterpretationPrompt(ai.InterpretationPromptInput{
		GameName:         g.Name,
		GameDescription:  g.Description,
		SceneTitle:       scene.Title,
		SceneDescription: scene.Description,
		RecentEvents:     descriptions,
		Context:          input.Context,
		OracleResults:    input.OracleResults,
		Count:            input.Count,
		RetryAttempt:     retryAttempt,
	})
	response, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := ai.ParseInterpretations(response)
	if err != nil {
		return nil, err
	}

	set, err := game.CreateInterpretationSet(game.CreateInterpretationSetInput{
		SceneID:       scene.ID,
		Context:       input.Context,
		OracleResults: input.OracleResults,
		RetryAttempt:  retryAttempt,
	}, s.now, s.newID)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.ClearCurrentInterpretationSets(ctx, scene.ID); err != nil {
			return err
		}
		if err := tx.CreateInterpretationSet(ctx, set); err != nil {
			return err
		}
		for _, p := range parsed {
			interpretation := game.CreateInterpretation(set.ID, p.Title, p.Description, s.now, s.newID)
			if err := tx.CreateInterpretation(ctx, interpretation); err != nil {
				return err
			}
			set.Interpretations = append(set.Interpretations, interpretation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// GetCurrentInterpretationSet returns the scene's current set. An empty
// sceneID targets the active scene.
func (s *Service) GetCurrentInterpretationSet(ctx context.Context, sceneID string) (*game.InterpretationSet, error) {
	if sceneID == "" {
		scene, err := s.requireActiveScene(ctx)
		if err != nil {
			return nil, err
		}
		sceneID = scene.ID
	}

	set, err := s.store.GetCurrentInterpretationSet(ctx, sceneID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeNoCurrentInterpretation, "the scene has no current interpretation set")
	}
	return set, nil
}

// SelectInterpretation marks one interpretation as the chosen reading.
// Selection is exclusive within the set: picking a new one clears the
// previous pick.
func (s *Service) SelectInterpretation(ctx context.Context, id string) (*game.Interpretation, error) {
	interpretation, err := s.store.GetInterpretation(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeInterpretationNotFound, "interpretation not found")
	}

	set, err := s.store.GetInterpretationSet(ctx, interpretation.SetID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeInterpretationSetNotFound, "interpretation set not found")
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.ClearSelectedInterpretations(ctx, interpretation.SetID); err != nil {
			return err
		}
		interpretation.IsSelected = true
		interpretation.ModifiedAt = s.now().UTC()
		if err := tx.UpdateInterpretation(ctx, interpretation); err != nil {
			return err
		}
		// The selection changes the set's presentation too.
		set.ModifiedAt = interpretation.ModifiedAt
		return tx.UpdateInterpretationSet(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	return interpretation, nil
}

// PromoteToEvent records an interpretation as an oracle-sourced event
// in its scene, linked back to the interpretation.
func (s *Service) PromoteToEvent(ctx context.Context, id string) (*game.Event, error) {
	interpretation, err := s.store.GetInterpretation(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeInterpretationNotFound, "interpretation not found")
	}
	set, err := s.store.GetInterpretationSet(ctx, interpretation.SetID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeInterpretationSetNotFound, "interpretation set not found")
	}
	scene, err := s.GetScene(ctx, set.SceneID)
	if err != nil {
		return nil, err
	}

	description := interpretation.Description
	if interpretation.Title != "" {
		description = fmt.Sprintf("%s: %s", interpretation.Title, interpretation.Description)
	}
	return s.addEvent(ctx, scene, description, game.SourceOracle, interpretation.ID)
}

func (s *Service) gameForScene(ctx context.Context, scene *game.Scene) (*game.Game, error) {
	act, err := s.GetAct(ctx, scene.ActID)
	if err != nil {
		return nil, err
	}
	return s.GetGame(ctx, act.GameID)
}
