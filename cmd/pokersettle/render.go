package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/mmynk/potsettle/internal/calculator"
	"github.com/mmynk/potsettle/internal/money"
)

// playersTable lists each player's buy-in, final stack and net result,
// followed by a totals row.
func playersTable(balances []calculator.PlayerBalance) pterm.TableData {
	data := pterm.TableData{{"Player", "Buy-in", "Final stack", "Net"}}

	var purse, stacks int64
	for _, b := range balances {
		data = append(data, []string{
			b.PlayerName,
			money.Format(b.BuyIn),
			money.Format(b.FinalStack),
			netLabel(b.NetBalance),
		})
		purse += b.BuyIn
		stacks += b.FinalStack
	}

	data = append(data, []string{"Total", money.Format(purse), money.Format(stacks), ""})
	return data
}

// netLabel shows winnings as positive, the way players talk about results.
func netLabel(net int64) string {
	switch {
	case net > 0:
		return "-" + money.Format(net)
	case net < 0:
		return "+" + money.Format(-net)
	default:
		return money.Format(0)
	}
}

// paymentsTable lists the plan in settlement order.
func paymentsTable(plan []calculator.Payment) pterm.TableData {
	data := pterm.TableData{{"From", "To", "Amount"}}
	for _, p := range plan {
		data = append(data, []string{p.From, p.To, money.Format(p.Amount)})
	}
	return data
}

// statement renders one payment as a sentence.
func statement(p calculator.Payment) string {
	return fmt.Sprintf("%s owes %s %s.", p.From, p.To, money.Format(p.Amount))
}

// mismatchMessage explains an unbalanced roster in terms of stacks and purse.
// actualSum is purse minus stacks.
func mismatchMessage(actualSum int64) string {
	if actualSum > 0 {
		return fmt.Sprintf("Final stacks are %s short of the purse. Recount the chips.", money.Format(actualSum))
	}
	return fmt.Sprintf("Final stacks exceed the purse by %s. Recount the chips.", money.Format(-actualSum))
}

func renderTable(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}
