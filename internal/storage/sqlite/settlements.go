package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/potsettle/internal/models"
)

// EndGame persists the payment plan and closes the game in one transaction.
func (s *SQLiteStore) EndGame(ctx context.Context, gameID string, payments []models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpen(ctx, tx, gameID); err != nil {
		return err
	}

	for i := range payments {
		p := &payments[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.GameID = gameID
		p.Seq = i

		_, err = tx.ExecContext(ctx,
			`INSERT INTO payments (id, game_id, from_player_id, to_player_id, amount, seq)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.GameID, p.FromPlayerID, p.ToPlayerID, p.Amount, p.Seq,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE games SET status = ?, ended_at = ? WHERE id = ?",
		string(models.GameEnded), time.Now().Unix(), gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListPayments retrieves a game's payments in plan order.
func (s *SQLiteStore) ListPayments(ctx context.Context, gameID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, from_player_id, to_player_id, amount, seq
		 FROM payments WHERE game_id = ? ORDER BY seq`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.GameID, &p.FromPlayerID, &p.ToPlayerID, &p.Amount, &p.Seq); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
