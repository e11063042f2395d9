package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/storage"
)

const eventColumns = "e.id, e.scene_id, e.game_id, e.description, e.source_id, e.interpretation_id, e.created_at, e.modified_at, s.id, s.name"

func scanEvent(row rowScanner) (*game.Event, error) {
	var e game.Event
	var interpretationID sql.NullString
	var createdAt, modifiedAt int64
	var source game.EventSource
	if err := row.Scan(&e.ID, &e.SceneID, &e.GameID, &e.Description, &e.SourceID, &interpretationID,
		&createdAt, &modifiedAt, &source.ID, &source.Name); err != nil {
		return nil, err
	}
	e.InterpretationID = fromNullString(interpretationID)
	e.CreatedAt = fromMillis(createdAt)
	e.ModifiedAt = fromMillis(modifiedAt)
	e.Source = &source
	return &e, nil
}

// CreateEvent inserts a new event row.
func (s *Store) CreateEvent(ctx context.Context, e *game.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if e == nil || e.ID == "" {
		return fmt.Errorf("event id is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, scene_id, game_id, description, source_id, interpretation_id, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.SceneID, e.GameID, e.Description, e.SourceID, toNullString(e.InterpretationID),
		toMillis(e.CreatedAt), toMillis(e.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetEvent fetches an event by ID with its source loaded.
func (s *Store) GetEvent(ctx context.Context, id string) (*game.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events e JOIN event_sources s ON s.id = e.source_id WHERE e.id = ?", id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns a scene's events in creation order.
func (s *Store) ListEvents(ctx context.Context, sceneID string) ([]*game.Event, error) {
	return s.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events e JOIN event_sources s ON s.id = e.source_id WHERE e.scene_id = ? ORDER BY e.created_at ASC, e.id ASC",
		sceneID)
}

// ListRecentEvents returns up to limit events of a scene, newest first.
func (s *Store) ListRecentEvents(ctx context.Context, sceneID string, limit int) ([]*game.Event, error) {
	return s.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events e JOIN event_sources s ON s.id = e.source_id WHERE e.scene_id = ? ORDER BY e.created_at DESC, e.id DESC LIMIT ?",
		sceneID, limit)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]*game.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*game.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// UpdateEvent saves an event's mutable fields.
func (s *Store) UpdateEvent(ctx context.Context, e *game.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if e == nil || e.ID == "" {
		return fmt.Errorf("event id is required")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE events SET description = ?, modified_at = ? WHERE id = ?",
		e.Description, toMillis(e.ModifiedAt), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return requireRowChanged(result)
}

// GetEventSource fetches a seeded source row by name.
func (s *Store) GetEventSource(ctx context.Context, name string) (game.EventSource, error) {
	if err := s.ready(ctx); err != nil {
		return game.EventSource{}, err
	}

	var source game.EventSource
	row := s.db.QueryRowContext(ctx, "SELECT id, name FROM event_sources WHERE name = ?", name)
	if err := row.Scan(&source.ID, &source.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.EventSource{}, storage.ErrNotFound
		}
		return game.EventSource{}, fmt.Errorf("get event source: %w", err)
	}
	return source, nil
}
