package sqlite

import (
	"context"

	"github.com/louisbranch/soloscribe/internal/game"
)

// LoadGameGraph returns a game with every descendant loaded in
// relationship order: acts and scenes by sequence, everything else by
// creation. Events are also attached to the interpretations they were
// promoted from, so in-memory accessor evaluation sees the full graph.
func (s *Store) LoadGameGraph(ctx context.Context, id string) (*game.Game, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	g, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	acts, err := s.ListActs(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Acts = acts

	byInterpretation := map[string][]*game.Event{}
	var interpretations []*game.Interpretation

	for _, act := range g.Acts {
		scenes, err := s.ListScenes(ctx, act.ID)
		if err != nil {
			return nil, err
		}
		act.Scenes = scenes

		for _, scene := range act.Scenes {
			if scene.Events, err = s.ListEvents(ctx, scene.ID); err != nil {
				return nil, err
			}
			if scene.DiceRolls, err = s.ListDiceRolls(ctx, scene.ID); err != nil {
				return nil, err
			}
			if scene.InterpretationSets, err = s.listInterpretationSets(ctx, scene.ID); err != nil {
				return nil, err
			}

			for _, event := range scene.Events {
				if event.InterpretationID != "" {
					byInterpretation[event.InterpretationID] = append(byInterpretation[event.InterpretationID], event)
				}
			}
			for _, set := range scene.InterpretationSets {
				interpretations = append(interpretations, set.Interpretations...)
			}
		}
	}

	for _, i := range interpretations {
		i.Events = byInterpretation[i.ID]
	}

	return g, nil
}

func (s *Store) listInterpretationSets(ctx context.Context, sceneID string) ([]*game.InterpretationSet, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+setColumns+" FROM interpretation_sets WHERE scene_id = ? ORDER BY created_at ASC, id ASC", sceneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []*game.InterpretationSet
	for rows.Next() {
		set, err := scanInterpretationSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, set := range sets {
		if set.Interpretations, err = s.listInterpretations(ctx, set.ID); err != nil {
			return nil, err
		}
	}
	return sets, nil
}
