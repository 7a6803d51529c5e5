package models

// Player is a seat in a game.
type Player struct {
	// ID is the unique identifier for the player (UUID format).
	ID string

	// GameID is the game this player belongs to.
	GameID string

	// Name is unique within a game.
	Name string

	// BuyIn is the total contributed across the initial buy-in and re-buys.
	BuyIn int64

	// FinalStack is the chip count at the end of the game.
	FinalStack int64

	// StackRecorded is false until a final stack has been entered, since a
	// stack of zero is a legitimate result.
	StackRecorded bool

	// JoinedAt is the Unix timestamp when the player joined.
	JoinedAt int64
}

// BuyIn records one contribution to the purse.
type BuyIn struct {
	ID        string
	PlayerID  string
	Amount    int64
	CreatedAt int64
}
