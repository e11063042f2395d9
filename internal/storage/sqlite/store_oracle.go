package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

const setColumns = "id, scene_id, context, oracle_results, retry_attempt, is_current, created_at, modified_at"
const interpretationColumns = "id, set_id, slug, title, description, is_selected, created_at, modified_at"

func scanInterpretationSet(row rowScanner) (*game.InterpretationSet, error) {
	var set game.InterpretationSet
	var createdAt, modifiedAt int64
	if err := row.Scan(&set.ID, &set.SceneID, &set.Context, &set.OracleResults, &set.RetryAttempt, &set.IsCurrent, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	set.CreatedAt = fromMillis(createdAt)
	set.ModifiedAt = fromMillis(modifiedAt)
	return &set, nil
}

func scanInterpretation(row rowScanner) (*game.Interpretation, error) {
	var i game.Interpretation
	var createdAt, modifiedAt int64
	if err := row.Scan(&i.ID, &i.SetID, &i.Slug, &i.Title, &i.Description, &i.IsSelected, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	i.CreatedAt = fromMillis(createdAt)
	i.ModifiedAt = fromMillis(modifiedAt)
	return &i, nil
}

// CreateInterpretationSet inserts a new set row.
func (s *Store) CreateInterpretationSet(ctx context.Context, set *game.InterpretationSet) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if set == nil || set.ID == "" {
		return fmt.Errorf("interpretation set id is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO interpretation_sets (id, scene_id, context, oracle_results, retry_attempt, is_current, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		set.ID, set.SceneID, set.Context, set.OracleResults, set.RetryAttempt, set.IsCurrent,
		toMillis(set.CreatedAt), toMillis(set.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create interpretation set: %w", err)
	}
	return nil
}

// CreateInterpretation inserts a new interpretation row.
func (s *Store) CreateInterpretation(ctx context.Context, i *game.Interpretation) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if i == nil || i.ID == "" {
		return fmt.Errorf("interpretation id is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO interpretations (id, set_id, slug, title, description, is_selected, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		i.ID, i.SetID, i.Slug, i.Title, i.Description, i.IsSelected,
		toMillis(i.CreatedAt), toMillis(i.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create interpretation: %w", err)
	}
	return nil
}

// GetInterpretationSet fetches a set by ID with its interpretations
// loaded in creation order.
func (s *Store) GetInterpretationSet(ctx context.Context, id string) (*game.InterpretationSet, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+setColumns+" FROM interpretation_sets WHERE id = ?", id)
	set, err := scanInterpretationSet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get interpretation set: %w", err)
	}
	if set.Interpretations, err = s.listInterpretations(ctx, set.ID); err != nil {
		return nil, err
	}
	return set, nil
}

// GetCurrentInterpretationSet fetches the scene's current set, with
// interpretations loaded.
func (s *Store) GetCurrentInterpretationSet(ctx context.Context, sceneID string) (*game.InterpretationSet, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+setColumns+" FROM interpretation_sets WHERE scene_id = ? AND is_current = 1 ORDER BY created_at ASC, id ASC LIMIT 1",
		sceneID)
	set, err := scanInterpretationSet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get current interpretation set: %w", err)
	}
	if set.Interpretations, err = s.listInterpretations(ctx, set.ID); err != nil {
		return nil, err
	}
	return set, nil
}

// ClearCurrentInterpretationSets unmarks every current set for a scene.
func (s *Store) ClearCurrentInterpretationSets(ctx context.Context, sceneID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE interpretation_sets SET is_current = 0 WHERE scene_id = ? AND is_current = 1", sceneID); err != nil {
		return fmt.Errorf("clear current interpretation sets: %w", err)
	}
	return nil
}

// UpdateInterpretationSet saves a set's mutable fields.
func (s *Store) UpdateInterpretationSet(ctx context.Context, set *game.InterpretationSet) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if set == nil || set.ID == "" {
		return fmt.Errorf("interpretation set id is required")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE interpretation_sets SET retry_attempt = ?, is_current = ?, modified_at = ? WHERE id = ?",
		set.RetryAttempt, set.IsCurrent, toMillis(set.ModifiedAt), set.ID,
	)
	if err != nil {
		return fmt.Errorf("update interpretation set: %w", err)
	}
	return requireRowChanged(result)
}

// GetInterpretation fetches an interpretation by ID.
func (s *Store) GetInterpretation(ctx context.Context, id string) (*game.Interpretation, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+interpretationColumns+" FROM interpretations WHERE id = ?", id)
	i, err := scanInterpretation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get interpretation: %w", err)
	}
	return i, nil
}

// UpdateInterpretation saves an interpretation's mutable fields.
func (s *Store) UpdateInterpretation(ctx context.Context, i *game.Interpretation) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if i == nil || i.ID == "" {
		return fmt.Errorf("interpretation id is required")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE interpretations SET is_selected = ?, modified_at = ? WHERE id = ?",
		i.IsSelected, toMillis(i.ModifiedAt), i.ID,
	)
	if err != nil {
		return fmt.Errorf("update interpretation: %w", err)
	}
	return requireRowChanged(result)
}

// ClearSelectedInterpretations unmarks every selection in a set.
func (s *Store) ClearSelectedInterpretations(ctx context.Context, setID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE interpretations SET is_selected = 0 WHERE set_id = ? AND is_selected = 1", setID); err != nil {
		return fmt.Errorf("clear selected interpretations: %w", err)
	}
	return nil
}

func (s *Store) listInterpretations(ctx context.Context, setID string) ([]*game.Interpretation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+interpretationColumns+" FROM interpretations WHERE set_id = ? ORDER BY created_at ASC, id ASC", setID)
	if err != nil {
		return nil, fmt.Errorf("list interpretations: %w", err)
	}
	defer rows.Close()

	var interpretations []*game.Interpretation
	for rows.Next() {
		i, err := scanInterpretation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interpretation: %w", err)
		}
		interpretations = append(interpretations, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list interpretations: %w", err)
	}
	return interpretations, nil
}
