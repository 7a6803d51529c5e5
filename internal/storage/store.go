// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/potsettle/internal/models"
)

var (
	// ErrNotFound is wrapped by lookups that match no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePlayer is returned when a name is already seated in a game.
	ErrDuplicatePlayer = errors.New("player name already in game")

	// ErrGameEnded is returned when modifying a game that has been settled.
	ErrGameEnded = errors.New("game already ended")
)

// Store defines the interface for game storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGame persists a new game. ID, CreatedAt and Status are filled in
	// by the store when empty.
	CreateGame(ctx context.Context, game *models.Game) error

	// GetGame retrieves a game with its players.
	GetGame(ctx context.Context, gameID string) (*models.Game, error)

	// ListGames returns the games hosted by hostID, newest first, without players.
	ListGames(ctx context.Context, hostID string) ([]*models.Game, error)

	// AddPlayer seats a player and records their initial buy-in.
	AddPlayer(ctx context.Context, player *models.Player) error

	// AddBuyIn records a re-buy and adds it to the player's total.
	AddBuyIn(ctx context.Context, buyIn *models.BuyIn) error

	// ListBuyIns returns the buy-in history of a player, oldest first.
	ListBuyIns(ctx context.Context, playerID string) ([]*models.BuyIn, error)

	// SetFinalStacks records final stacks keyed by player ID in one transaction.
	SetFinalStacks(ctx context.Context, gameID string, stacks map[string]int64) error

	// EndGame stores the payment plan and marks the game ended atomically.
	EndGame(ctx context.Context, gameID string, payments []models.Payment) error

	// ListPayments returns a game's stored plan in generation order.
	ListPayments(ctx context.Context, gameID string) ([]*models.Payment, error)

	// Close releases any resources held by the store.
	Close() error
}
