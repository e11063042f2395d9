package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

const actColumns = "id, slug, game_id, title, summary, status, sequence, is_active, created_at, modified_at"

func scanAct(row rowScanner) (*game.Act, error) {
	var a game.Act
	var status string
	var createdAt, modifiedAt int64
	if err := row.Scan(&a.ID, &a.Slug, &a.GameID, &a.Title, &a.Summary, &status, &a.Sequence, &a.IsActive, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	a.Status = game.ParseStatus(status)
	a.CreatedAt = fromMillis(createdAt)
	a.ModifiedAt = fromMillis(modifiedAt)
	return &a, nil
}

// CreateAct inserts a new act row.
func (s *Store) CreateAct(ctx context.Context, a *game.Act) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if a == nil || a.ID == "" {
		return fmt.Errorf("act id is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO acts (id, slug, game_id, title, summary, status, sequence, is_active, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.Slug, a.GameID, a.Title, a.Summary, game.StatusLabel(a.Status), a.Sequence, a.IsActive,
		toMillis(a.CreatedAt), toMillis(a.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create act: %w", err)
	}
	return nil
}

// GetAct fetches an act by ID.
func (s *Store) GetAct(ctx context.Context, id string) (*game.Act, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+actColumns+" FROM acts WHERE id = ?", id)
	a, err := scanAct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get act: %w", err)
	}
	return a, nil
}

// ListActs returns a game's acts in sequence order.
func (s *Store) ListActs(ctx context.Context, gameID string) ([]*game.Act, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+actColumns+" FROM acts WHERE game_id = ? ORDER BY sequence ASC", gameID)
	if err != nil {
		return nil, fmt.Errorf("list acts: %w", err)
	}
	defer rows.Close()

	var acts []*game.Act
	for rows.Next() {
		a, err := scanAct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan act: %w", err)
		}
		acts = append(acts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list acts: %w", err)
	}
	return acts, nil
}

// UpdateAct saves all mutable act fields.
func (s *Store) UpdateAct(ctx context.Context, a *game.Act) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if a == nil || a.ID == "" {
		return fmt.Errorf("act id is required")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE acts SET slug = ?, title = ?, summary = ?, status = ?, is_active = ?, modified_at = ? WHERE id = ?",
		a.Slug, a.Title, a.Summary, game.StatusLabel(a.Status), a.IsActive, toMillis(a.ModifiedAt), a.ID,
	)
	if err != nil {
		return fmt.Errorf("update act: %w", err)
	}
	return requireRowChanged(result)
}

// SetActiveAct makes the given act the only active one in its game.
func (s *Store) SetActiveAct(ctx context.Context, gameID, actID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE acts SET is_active = 0 WHERE game_id = ? AND is_active = 1 AND id != ?", gameID, actID); err != nil {
		return fmt.Errorf("deactivate acts: %w", err)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE acts SET is_active = 1 WHERE id = ? AND game_id = ?", actID, gameID)
	if err != nil {
		return fmt.Errorf("activate act: %w", err)
	}
	return requireRowChanged(result)
}

// NextActSequence returns the next 1-based sequence number for a game.
func (s *Store) NextActSequence(ctx context.Context, gameID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	var next int
	row := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sequence), 0) + 1 FROM acts WHERE game_id = ?", gameID)
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("next act sequence: %w", err)
	}
	return next, nil
}
