package models

// Payment is one transfer in a game's settlement plan.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GameID is the game this payment settles.
	GameID string

	// FromPlayerID is the player who pays (debtor).
	FromPlayerID string

	// ToPlayerID is the player who is paid (creditor).
	ToPlayerID string

	// Amount is the transfer in minor units, always positive.
	Amount int64

	// Seq is the position of the payment in the generated plan.
	Seq int
}
