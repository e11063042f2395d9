package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

const gameColumns = "id, name, description, is_active, created_at, modified_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*game.Game, error) {
	var g game.Game
	var createdAt, modifiedAt int64
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.IsActive, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	g.CreatedAt = fromMillis(createdAt)
	g.ModifiedAt = fromMillis(modifiedAt)
	return &g, nil
}

// CreateGame inserts a new game row.
func (s *Store) CreateGame(ctx context.Context, g *game.Game) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if g == nil || g.ID == "" {
		return fmt.Errorf("game id is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO games (id, name, description, is_active, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?)",
		g.ID, g.Name, g.Description, g.IsActive, toMillis(g.CreatedAt), toMillis(g.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// GetGame fetches a game by ID.
func (s *Store) GetGame(ctx context.Context, id string) (*game.Game, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	g, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// GetActiveGame fetches the single active game.
func (s *Store) GetActiveGame(ctx context.Context) (*game.Game, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE is_active = 1 LIMIT 1")
	g, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get active game: %w", err)
	}
	return g, nil
}

// ListGames returns all games, oldest first.
func (s *Store) ListGames(ctx context.Context) ([]*game.Game, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+gameColumns+" FROM games ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []*game.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// UpdateGame saves all mutable game fields.
func (s *Store) UpdateGame(ctx context.Context, g *game.Game) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if g == nil || g.ID == "" {
		return fmt.Errorf("game id is required")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE games SET name = ?, description = ?, is_active = ?, modified_at = ? WHERE id = ?",
		g.Name, g.Description, g.IsActive, toMillis(g.ModifiedAt), g.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return requireRowChanged(result)
}

// SetActiveGame makes the given game the only active one.
func (s *Store) SetActiveGame(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "UPDATE games SET is_active = 0 WHERE is_active = 1 AND id != ?", id); err != nil {
		return fmt.Errorf("deactivate games: %w", err)
	}
	result, err := s.db.ExecContext(ctx, "UPDATE games SET is_active = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("activate game: %w", err)
	}
	return requireRowChanged(result)
}

// DeleteGame removes a game; foreign keys cascade to every descendant.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return requireRowChanged(result)
}

// requireRowChanged maps zero-row updates and deletes to ErrNotFound.
func requireRowChanged(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
