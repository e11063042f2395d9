package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/game/derive"
)

// EvalBool answers an existence or status accessor with a single
// EXISTS query.
func (s *Store) EvalBool(ctx context.Context, spec derive.Spec, rootID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}

	query, args, err := derive.ExistsSQL(spec, rootID)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("eval %s: %w", spec.Name, err)
	}
	return exists, nil
}

// EvalCount answers a count accessor with a single COUNT query.
func (s *Store) EvalCount(ctx context.Context, spec derive.Spec, rootID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	query, args, err := derive.CountSQL(spec, rootID)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("eval %s: %w", spec.Name, err)
	}
	return count, nil
}

// EvalNavigate answers a navigation accessor with an ordered LIMIT 1
// query, returning the target entity id.
func (s *Store) EvalNavigate(ctx context.Context, spec derive.Spec, rootID string) (string, bool, error) {
	if err := s.ready(ctx); err != nil {
		return "", false, err
	}

	query, args, err := derive.NavigateSQL(spec, rootID)
	if err != nil {
		return "", false, err
	}

	var id string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("eval %s: %w", spec.Name, err)
	}
	return id, true, nil
}

// FilterScenesWithEvents returns an act's scenes that have at least one
// event, in sequence order. The existence check is pushed down as a
// correlated subquery instead of loading event rows.
func (s *Store) FilterScenesWithEvents(ctx context.Context, actID string) ([]*game.Scene, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sceneColumns+" FROM scenes WHERE act_id = ? AND EXISTS (SELECT 1 FROM events WHERE events.scene_id = scenes.id) ORDER BY sequence ASC",
		actID)
	if err != nil {
		return nil, fmt.Errorf("filter scenes with events: %w", err)
	}
	defer rows.Close()

	var scenes []*game.Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		scenes = append(scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("filter scenes with events: %w", err)
	}
	return scenes, nil
}
