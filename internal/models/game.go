package models

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	// GameOpen accepts players, buy-ins and final stacks.
	GameOpen GameStatus = "open"
	// GameEnded has a stored payment plan and is read-only.
	GameEnded GameStatus = "ended"
)

// Game represents one poker session.
type Game struct {
	// ID is the unique identifier for the game (UUID format).
	ID string

	// Name is the display name of the game (e.g., "Friday Night Holdem").
	Name string

	// HostID is the user who created the game.
	HostID string

	// Status is open until the game is settled.
	Status GameStatus

	// Players are ordered by the time they joined.
	Players []Player

	// CreatedAt is the Unix timestamp when the game was created.
	CreatedAt int64

	// EndedAt is the Unix timestamp when the game was settled, 0 while open.
	EndedAt int64
}

// TotalPurse is the sum of every player's buy-ins.
func (g *Game) TotalPurse() int64 {
	var total int64
	for _, p := range g.Players {
		total += p.BuyIn
	}
	return total
}

// TotalStacks is the sum of the recorded final stacks.
func (g *Game) TotalStacks() int64 {
	var total int64
	for _, p := range g.Players {
		total += p.FinalStack
	}
	return total
}

// FindPlayer returns the player with the given ID, or nil.
func (g *Game) FindPlayer(playerID string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}

// MissingStacks returns the names of players without a recorded final stack.
func (g *Game) MissingStacks() []string {
	var missing []string
	for _, p := range g.Players {
		if !p.StackRecorded {
			missing = append(missing, p.Name)
		}
	}
	return missing
}
