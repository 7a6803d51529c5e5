// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/potsettle/internal/models"
	"github.com/mmynk/potsettle/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// PRAGMAs are per connection; pin the pool to one so they stick.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGame persists a new game to the database.
func (s *SQLiteStore) CreateGame(ctx context.Context, game *models.Game) error {
	// Generate IDs if not set
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.CreatedAt == 0 {
		game.CreatedAt = time.Now().Unix()
	}
	if game.Status == "" {
		game.Status = models.GameOpen
	}
	if game.Name == "" {
		game.Name = generateName(game.CreatedAt)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO games (id, name, host_id, status, created_at, ended_at) VALUES (?, ?, ?, ?, ?, ?)",
		game.ID, game.Name, game.HostID, string(game.Status), game.CreatedAt, game.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID, including all players in join order.
func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game := &models.Game{}
	var status string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, host_id, status, created_at, ended_at FROM games WHERE id = ?",
		gameID,
	).Scan(&game.ID, &game.Name, &game.HostID, &status, &game.CreatedAt, &game.EndedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	game.Status = models.GameStatus(status)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, name, buy_in, final_stack, stack_recorded, joined_at
		 FROM players WHERE game_id = ? ORDER BY joined_at, rowid`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.GameID, &p.Name, &p.BuyIn, &p.FinalStack, &p.StackRecorded, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		game.Players = append(game.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return game, nil
}

// ListGames retrieves the games hosted by a user, newest first.
func (s *SQLiteStore) ListGames(ctx context.Context, hostID string) ([]*models.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, host_id, status, created_at, ended_at
		 FROM games WHERE host_id = ? ORDER BY created_at DESC, rowid DESC`,
		hostID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		var status string
		if err := rows.Scan(&game.ID, &game.Name, &game.HostID, &status, &game.CreatedAt, &game.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		game.Status = models.GameStatus(status)
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}

// requireOpen checks inside a transaction that the game exists and is open.
func requireOpen(ctx context.Context, tx *sql.Tx, gameID string) error {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT status FROM games WHERE id = ?", gameID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("game %s: %w", gameID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check game status: %w", err)
	}
	if models.GameStatus(status) != models.GameOpen {
		return fmt.Errorf("game %s: %w", gameID, storage.ErrGameEnded)
	}
	return nil
}

// generateName creates a default game name from its creation date.
func generateName(createdAt int64) string {
	return fmt.Sprintf("Game - %s", time.Unix(createdAt, 0).Format("Jan 2, 2006"))
}
