package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

const sceneColumns = "id, slug, act_id, title, description, status, sequence, is_active, created_at, modified_at"

func scanScene(row rowScanner) (*game.Scene, error) {
	var sc game.Scene
	var status string
	var createdAt, modifiedAt int64
	if err := row.Scan(&sc.ID, &sc.Slug, &sc.ActID, &sc.Title, &sc.Description, &status, &sc.Sequence, &sc.IsActive, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	sc.Status = game.ParseStatus(status)
	sc.CreatedAt = fromMillis(createdAt)
	sc.ModifiedAt = fromMillis(modifiedAt)
	return &sc, nil
}

// CreateScene inserts a new scene row.
func (s *Store) CreateScene(ctx context.Context, sc *game.Scene) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if sc == nil || sc.ID == "" {
		return fmt.Errorf("scene id is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO scenes (id, slug, act_id, title, description, status, sequence, is_active, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sc.ID, sc.Slug, sc.ActID, sc.Title, sc.Description, game.StatusLabel(sc.Status), sc.Sequence, sc.IsActive,
		toMillis(sc.CreatedAt), toMillis(sc.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	return nil
}

// GetScene fetches a scene by ID.
func (s *Store) GetScene(ctx context.Context, id string) (*game.Scene, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+sceneColumns+" FROM scenes WHERE id = ?", id)
	sc, err := scanScene(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get scene: %w", err)
	}
	return sc, nil
}

// ListScenes returns an act's scenes in sequence order.
func (s *Store) ListScenes(ctx context.Context, actID string) ([]*game.Scene, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sceneColumns+" FROM scenes WHERE act_id = ? ORDER BY sequence ASC", actID)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
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
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	return scenes, nil
}

// UpdateScene saves all mutable scene fields.
func (s *Store) UpdateScene(ctx context.Context, sc *game.Scene) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if sc == nil || sc.ID == "" {
		return fmt.Errorf("scene id is required")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE scenes SET slug = ?, title = ?, description = ?, status = ?, is_active = ?, modified_at = ? WHERE id = ?",
		sc.Slug, sc.Title, sc.Description, game.StatusLabel(sc.Status), sc.IsActive, toMillis(sc.ModifiedAt), sc.ID,
	)
	if err != nil {
		return fmt.Errorf("update scene: %w", err)
	}
	return requireRowChanged(result)
}

// SetActiveScene makes the given scene the only active one in its act.
func (s *Store) SetActiveScene(ctx context.Context, actID, sceneID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE scenes SET is_active = 0 WHERE act_id = ? AND is_active = 1 AND id != ?", actID, sceneID); err != nil {
		return fmt.Errorf("deactivate scenes: %w", err)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE scenes SET is_active = 1 WHERE id = ? AND act_id = ?", sceneID, actID)
	if err != nil {
		return fmt.Errorf("activate scene: %w", err)
	}
	return requireRowChanged(result)
}

// NextSceneSequence returns the next 1-based sequence number for an act.
func (s *Store) NextSceneSequence(ctx context.Context, actID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	var next int
	row := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sequence), 0) + 1 FROM scenes WHERE act_id = ?", actID)
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("next scene sequence: %w", err)
	}
	return next, nil
}
