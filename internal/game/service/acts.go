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

// CreateAct creates an act in the active game and makes it the active
// act. Untitled acts are allowed.
func (s *Service) CreateAct(ctx context.Context, title, summary string) (*game.Act, error) {
	g, err := s.requireActiveGame(ctx)
	if err != nil {
		return nil, err
	}

	var act *game.Act
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		sequence, err := tx.NextActSequence(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("next act sequence: %w", err)
		}

		act = game.CreateAct(game.CreateActInput{
			GameID:   g.ID,
			Title:    strings.TrimSpace(title),
			Summary:  strings.TrimSpace(summary),
			Sequence: sequence,
		}, s.now, s.newID)
		act.IsActive = true

		if err := tx.CreateAct(ctx, act); err != nil {
			return fmt.Errorf("create act: %w", err)
		}
		return tx.SetActiveAct(ctx, g.ID, act.ID)
	})
	if err != nil {
		return nil, err
	}
	return act, nil
}

// ListActs returns the active game's acts in sequence order.
func (s *Service) ListActs(ctx context.Context) ([]*game.Act, error) {
	g, err := s.requireActiveGame(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListActs(ctx, g.ID)
}

// GetAct fetches an act by ID.
func (s *Service) GetAct(ctx context.Context, id string) (*game.Act, error) {
	act, err := s.store.GetAct(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeActNotFound, "act not found")
	}
	return act, nil
}

// GetActiveAct returns the act commands currently apply to.
func (s *Service) GetActiveAct(ctx context.Context) (*game.Act, error) {
	return s.requireActiveAct(ctx)
}

// EditAct updates an act's title and summary. Nil pointers leave fields
// unchanged; the slug follows the title.
func (s *Service) EditAct(ctx context.Context, id string, title, summary *string) (*game.Act, error) {
	act, err := s.GetAct(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := game.EditAct(*act, title, summary, s.now)
	if err := s.store.UpdateAct(ctx, &updated); err != nil {
		return nil, mapNotFound(err, apperrors.CodeActNotFound, "act not found")
	}
	return &updated, nil
}

// SetActiveAct makes the given act the active one within its game. The
// act must belong to the active game, otherwise the game's active act
// and the active game would point at different sessions.
func (s *Service) SetActiveAct(ctx context.Context, id string) (*game.Act, error) {
	act, err := s.GetAct(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := s.requireActiveGame(ctx)
	if err != nil {
		return nil, err
	}
	if act.GameID != g.ID {
		return nil, apperrors.WithMetadata(apperrors.CodeActiveConflict,
			fmt.Sprintf("act %s belongs to another game", act.Slug),
			map[string]string{"ActID": act.ID, "GameID": act.GameID})
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		return tx.SetActiveAct(ctx, act.GameID, act.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetAct(ctx, id)
}

// CompleteActInput describes an act completion request. An empty ActID
// targets the active act.
type CompleteActInput struct {
	ActID   string
	Title   string
	Summary string
	// UseAI asks the AI to fill in missing title or summary.
	UseAI bool
	// ForceAI lets the AI overwrite fields that are already set.
	ForceAI bool
}

// CompleteAct closes an act. With UseAI, the AI call happens before any
// mutation: a failed call leaves the act untouched. The AI fills only
// unset fields unless ForceAI is given; asking the AI to fill fields
// that are all set, without force, is a validation error.
func (s *Service) CompleteAct(ctx context.Context, input CompleteActInput) (*game.Act, error) {
	var act *game.Act
	var err error
	if input.ActID == "" {
		act, err = s.requireActiveAct(ctx)
	} else {
		act, err = s.GetAct(ctx, input.ActID)
	}
	if err != nil {
		return nil, err
	}

	if act.Status == game.StatusCompleted {
		return nil, apperrors.WithMetadata(
			apperrors.CodeActAlreadyCompleted,
			fmt.Sprintf("act %s is already completed", act.Slug),
			map[string]string{"ActID": act.ID},
		)
	}

	title := strings.TrimSpace(input.Title)
	summary := strings.TrimSpace(input.Summary)

	if input.UseAI {
		title, summary, err = s.completeActWithAI(ctx, act, title, summary, input.ForceAI)
		if err != nil {
			return nil, err
		}
	}

	var completed game.Act
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		completed, err = game.CompleteAct(*act, title, summary, s.now)
		if err != nil {
			return err
		}
		return tx.UpdateAct(ctx, &completed)
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

// completeActWithAI resolves the title and summary to complete with,
// calling the provider before anything is written.
func (s *Service) completeActWithAI(ctx context.Context, act *game.Act, title, summary string, force bool) (string, string, error) {
	haveTitle := title != "" || act.Title != ""
	haveSummary := summary != "" || act.Summary != ""
	if haveTitle && haveSummary && !force {
		return "", "", apperrors.New(apperrors.CodeActFieldsAlreadySet,
			"act already has a title and summary; pass force to overwrite them with AI")
	}
	if s.ai == nil {
		return "", "", apperrors.New(apperrors.CodeAIUnavailable, "AI is not configured")
	}

	g, err := s.GetGame(ctx, act.GameID)
	if err != nil {
		return "", "", err
	}
	summaries, err := s.sceneSummaries(ctx, act.ID)
	if err != nil {
		return "", "", err
	}

	prompt := ai.BuildActCompletionPrompt(ai.ActCompletionPromptInput{
		GameName:       g.Name,
		ActSlug:        act.Slug,
		ActTitle:       act.Title,
		ActSummary:     act.Summary,
		SceneSummaries: summaries,
		FillTitle:      force || !haveTitle,
		FillSummary:    force || !haveSummary,
	})
	response, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		return "", "", err
	}
	completion, err := ai.ParseActCompletion(response)
	if err != nil {
		return "", "", err
	}

	if completion.Title != "" && (force || !haveTitle) {
		title = completion.Title
	}
	if completion.Summary != "" && (force || !haveSummary) {
		summary = completion.Summary
	}
	return title, summary, nil
}

// sceneSummaries renders one line per scene with events, for prompts.
func (s *Service) sceneSummaries(ctx context.Context, actID string) ([]string, error) {
	scenes, err := s.store.FilterScenesWithEvents(ctx, actID)
	if err != nil {
		return nil, fmt.Errorf("scenes with events: %w", err)
	}

	var summaries []string
	for _, scene := range scenes {
		events, err := s.store.ListEvents(ctx, scene.ID)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		descriptions := make([]string, 0, len(events))
		for _, event := range events {
			descriptions = append(descriptions, event.Description)
		}
		summaries = append(summaries, fmt.Sprintf("%s: %s", scene.Title, strings.Join(descriptions, "; ")))
	}
	return summaries, nil
}
