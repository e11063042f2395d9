package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/soloscribe/internal/game"
)

const diceRollColumns = "id, game_id, scene_id, notation, results, modifier, total, reason, created_at, modified_at"

func scanDiceRoll(row rowScanner) (*game.DiceRoll, error) {
	var r game.DiceRoll
	var sceneID sql.NullString
	var results string
	var createdAt, modifiedAt int64
	if err := row.Scan(&r.ID, &r.GameID, &sceneID, &r.Notation, &results, &r.Modifier, &r.Total, &r.Reason, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(results), &r.Results); err != nil {
		return nil, fmt.Errorf("decode roll results: %w", err)
	}
	r.SceneID = fromNullString(sceneID)
	r.CreatedAt = fromMillis(createdAt)
	r.ModifiedAt = fromMillis(modifiedAt)
	return &r, nil
}

// CreateDiceRoll inserts a new dice roll row. Results are stored as a
// JSON array so the individual dice survive round trips.
func (s *Store) CreateDiceRoll(ctx context.Context, r *game.DiceRoll) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if r == nil || r.ID == "" {
		return fmt.Errorf("dice roll id is required")
	}

	results, err := json.Marshal(r.Results)
	if err != nil {
		return fmt.Errorf("encode roll results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO dice_rolls (id, game_id, scene_id, notation, results, modifier, total, reason, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.GameID, toNullString(r.SceneID), r.Notation, string(results), r.Modifier, r.Total, r.Reason,
		toMillis(r.CreatedAt), toMillis(r.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create dice roll: %w", err)
	}
	return nil
}

// ListDiceRolls returns a scene's rolls in creation order.
func (s *Store) ListDiceRolls(ctx context.Context, sceneID string) ([]*game.DiceRoll, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+diceRollColumns+" FROM dice_rolls WHERE scene_id = ? ORDER BY created_at ASC, id ASC", sceneID)
	if err != nil {
		return nil, fmt.Errorf("list dice rolls: %w", err)
	}
	defer rows.Close()

	var rolls []*game.DiceRoll
	for rows.Next() {
		r, err := scanDiceRoll(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dice roll: %w", err)
		}
		rolls = append(rolls, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dice rolls: %w", err)
	}
	return rolls, nil
}
