package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmynk/potsettle/internal/models"
	"github.com/mmynk/potsettle/internal/money"
)

var errEmptyRoster = errors.New("no players in input")

// readRoster parses CSV rows of name,buy_in,final_stack into players keyed by
// name. A leading header row starting with "name" is skipped. Amounts are
// decimal strings such as "50" or "12.50".
func readRoster(r io.Reader) ([]models.Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var players []models.Player
	seen := make(map[string]bool)

	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}

		name := strings.TrimSpace(record[0])
		if line == 1 && strings.EqualFold(name, "name") {
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("line %d: name required", line)
		}
		if seen[name] {
			return nil, fmt.Errorf("line %d: player %q listed twice", line, name)
		}
		seen[name] = true

		buyIn, err := money.ParseInRange(record[1], 1, money.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("line %d: buy-in for %s: %w", line, name, err)
		}
		stack, err := money.ParseInRange(record[2], 0, money.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("line %d: final stack for %s: %w", line, name, err)
		}

		players = append(players, models.Player{
			ID:            name,
			Name:          name,
			BuyIn:         buyIn,
			FinalStack:    stack,
			StackRecorded: true,
		})
	}

	if len(players) == 0 {
		return nil, errEmptyRoster
	}
	return players, nil
}
