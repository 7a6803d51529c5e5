package calculator

import (
	"github.com/mmynk/potsettle/internal/ledger"
	"github.com/mmynk/potsettle/internal/models"
)

// PlayerBalance is the balance information for one player at the end of a game.
type PlayerBalance struct {
	PlayerID   string
	PlayerName string
	BuyIn      int64 // Total contributed to the purse
	FinalStack int64 // Chips held at the end
	NetBalance int64 // BuyIn - FinalStack: positive owes, negative is owed
}

// NetBalances turns a game's players into per-player balances and the ledger
// that feeds Settle.
//
// Algorithm:
// - contribution = all buy-ins for the player
// - entitlement = final stack
// - net_balance = contribution - entitlement
//
// The ledger is keyed by player ID; the ledger sums to zero exactly when the
// stacks add up to the purse.
func NetBalances(players []models.Player) ([]PlayerBalance, []ledger.Balance) {
	balances := make([]PlayerBalance, 0, len(players))
	entries := make([]ledger.Balance, 0, len(players))

	for _, p := range players {
		net := p.BuyIn - p.FinalStack
		balances = append(balances, PlayerBalance{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			BuyIn:      p.BuyIn,
			FinalStack: p.FinalStack,
			NetBalance: net,
		})
		entries = append(entries, ledger.Balance{
			ParticipantID: p.ID,
			Amount:        net,
		})
	}

	return balances, entries
}
