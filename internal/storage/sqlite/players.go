package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/potsettle/internal/models"
	"github.com/mmynk/potsettle/internal/storage"
)

// AddPlayer seats a player in an open game and records the initial buy-in.
func (s *SQLiteStore) AddPlayer(ctx context.Context, player *models.Player) error {
	if player.ID == "" {
		player.ID = uuid.New().String()
	}
	if player.JoinedAt == 0 {
		player.JoinedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpen(ctx, tx, player.GameID); err != nil {
		return err
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM players WHERE game_id = ? AND name = ?",
		player.GameID, player.Name,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%q: %w", player.Name, storage.ErrDuplicatePlayer)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check player name: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO players (id, game_id, name, buy_in, final_stack, stack_recorded, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		player.ID, player.GameID, player.Name, player.BuyIn, player.FinalStack, player.StackRecorded, player.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO buy_ins (id, player_id, amount, created_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), player.ID, player.BuyIn, player.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert buy-in: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddBuyIn records a re-buy and adds it to the player's total buy-in.
func (s *SQLiteStore) AddBuyIn(ctx context.Context, buyIn *models.BuyIn) error {
	if buyIn.ID == "" {
		buyIn.ID = uuid.New().String()
	}
	if buyIn.CreatedAt == 0 {
		buyIn.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var gameID string
	err = tx.QueryRowContext(ctx, "SELECT game_id FROM players WHERE id = ?", buyIn.PlayerID).Scan(&gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("player %s: %w", buyIn.PlayerID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	if err := requireOpen(ctx, tx, gameID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO buy_ins (id, player_id, amount, created_at) VALUES (?, ?, ?, ?)",
		buyIn.ID, buyIn.PlayerID, buyIn.Amount, buyIn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert buy-in: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE players SET buy_in = buy_in + ? WHERE id = ?",
		buyIn.Amount, buyIn.PlayerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update buy-in total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBuyIns retrieves the buy-in history for a player.
func (s *SQLiteStore) ListBuyIns(ctx context.Context, playerID string) ([]*models.BuyIn, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, player_id, amount, created_at FROM buy_ins WHERE player_id = ? ORDER BY created_at, rowid",
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list buy-ins: %w", err)
	}
	defer rows.Close()

	var buyIns []*models.BuyIn
	for rows.Next() {
		b := &models.BuyIn{}
		if err := rows.Scan(&b.ID, &b.PlayerID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan buy-in: %w", err)
		}
		buyIns = append(buyIns, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate buy-ins: %w", err)
	}

	return buyIns, nil
}

// SetFinalStacks records final stacks for players of an open game.
// Every key must be a player of gameID.
func (s *SQLiteStore) SetFinalStacks(ctx context.Context, gameID string, stacks map[string]int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpen(ctx, tx, gameID); err != nil {
		return err
	}

	for playerID, stack := range stacks {
		res, err := tx.ExecContext(ctx,
			"UPDATE players SET final_stack = ?, stack_recorded = 1 WHERE id = ? AND game_id = ?",
			stack, playerID, gameID,
		)
		if err != nil {
			return fmt.Errorf("failed to update final stack: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("player %s in game %s: %w", playerID, gameID, storage.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
