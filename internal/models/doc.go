// Package models defines the core domain models for potsettle.
//
// # Models
//
//   - Game: one poker session with its players and total purse
//   - Player: a seat in a game with buy-ins and a final stack
//   - BuyIn: a single buy-in or re-buy, kept as history
//   - Payment: one settlement transfer produced when a game ends
//   - User: the host account that owns games
//
// # Money
//
// All amounts are int64 minor currency units (cents). Conversion to and from
// human readable strings lives in internal/money.
//
// # Relationships
//
// Models reference each other by ID strings rather than pointers, so a Game
// can be loaded and passed around by value without ownership concerns.
package models
