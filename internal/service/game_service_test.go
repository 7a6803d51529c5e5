package service

import (
	"context"
	"net/http"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/internal/money"
	"github.com/mmynk/potsettle/pkg/api"
	"github.com/mmynk/potsettle/pkg/api/apiconnect"
)

// seatPlayers creates a game and seats each name with the same buy-in,
// returning the game ID and player IDs by name.
func seatPlayers(t *testing.T, client apiconnect.GameServiceClient, buyIn int64, names ...string) (string, map[string]string) {
	t.Helper()
	ctx := context.Background()

	createResp, err := client.CreateGame(ctx, connect.NewRequest(&api.CreateGameRequest{Name: "Friday Holdem"}))
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	gameID := createResp.Msg.Game.Id

	ids := make(map[string]string, len(names))
	for _, name := range names {
		resp, err := client.AddPlayer(ctx, connect.NewRequest(&api.AddPlayerRequest{
			GameId: gameID,
			Name:   name,
			BuyIn:  buyIn,
		}))
		if err != nil {
			t.Fatalf("AddPlayer(%s) failed: %v", name, err)
		}
		ids[name] = resp.Msg.Player.Id
	}

	return gameID, ids
}

func TestCreateGame(t *testing.T) {
	srv := setupTestServer(t)
	client, host := srv.hostClient(t, "host@example.com")

	resp, err := client.CreateGame(context.Background(), connect.NewRequest(&api.CreateGameRequest{
		Name: "  Friday Holdem  ",
	}))
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	game := resp.Msg.Game
	if game == nil {
		t.Fatal("expected game in response")
	}
	if game.Id == "" {
		t.Error("expected non-empty game ID")
	}
	if game.Name != "Friday Holdem" {
		t.Errorf("name: expected 'Friday Holdem', got '%s'", game.Name)
	}
	if game.HostId != host.ID {
		t.Errorf("host: expected %s, got %s", host.ID, game.HostId)
	}
	if game.Status != "open" {
		t.Errorf("status: expected open, got %s", game.Status)
	}
	if game.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateGame_GeneratedName(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")

	resp, err := client.CreateGame(context.Background(), connect.NewRequest(&api.CreateGameRequest{}))
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	if resp.Msg.Game.Name == "" {
		t.Error("expected a generated name")
	}
}

func TestGameService_RequiresToken(t *testing.T) {
	srv := setupTestServer(t)
	client := apiconnect.NewGameServiceClient(http.DefaultClient, srv.url)

	_, err := client.CreateGame(context.Background(), connect.NewRequest(&api.CreateGameRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestGetGame_OtherHost(t *testing.T) {
	srv := setupTestServer(t)
	owner, _ := srv.hostClient(t, "owner@example.com")
	other, _ := srv.hostClient(t, "other@example.com")

	gameID, _ := seatPlayers(t, owner, 5000, "Alice")

	_, err := other.GetGame(context.Background(), connect.NewRequest(&api.GetGameRequest{GameId: gameID}))
	expectCode(t, err, connect.CodePermissionDenied)
}

func TestGetGame_NotFound(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")

	_, err := client.GetGame(context.Background(), connect.NewRequest(&api.GetGameRequest{
		GameId: "non-existent-id",
	}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestListGames(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	other, _ := srv.hostClient(t, "other@example.com")
	ctx := context.Background()

	for _, name := range []string{"Game 1", "Game 2"} {
		if _, err := client.CreateGame(ctx, connect.NewRequest(&api.CreateGameRequest{Name: name})); err != nil {
			t.Fatalf("CreateGame failed: %v", err)
		}
	}
	if _, err := other.CreateGame(ctx, connect.NewRequest(&api.CreateGameRequest{Name: "Not mine"})); err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	resp, err := client.ListGames(ctx, connect.NewRequest(&api.ListGamesRequest{}))
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}

	if len(resp.Msg.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(resp.Msg.Games))
	}
	for _, g := range resp.Msg.Games {
		if g.Name == "Not mine" {
			t.Error("ListGames returned another host's game")
		}
	}
}

func TestAddPlayer(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, _ := seatPlayers(t, client, 5000, "Alice")

	resp, err := client.AddPlayer(ctx, connect.NewRequest(&api.AddPlayerRequest{
		GameId: gameID,
		Name:   "Bob",
		BuyIn:  2500,
	}))
	if err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}

	if resp.Msg.Player == nil || resp.Msg.Player.Name != "Bob" {
		t.Fatalf("expected player Bob, got %+v", resp.Msg.Player)
	}
	if resp.Msg.Player.BuyIn != 2500 {
		t.Errorf("buy-in: expected 2500, got %d", resp.Msg.Player.BuyIn)
	}
	if resp.Msg.Game.TotalPurse != 7500 {
		t.Errorf("purse: expected 7500, got %d", resp.Msg.Game.TotalPurse)
	}
	if len(resp.Msg.Game.Players) != 2 {
		t.Errorf("expected 2 players, got %d", len(resp.Msg.Game.Players))
	}
}

func TestAddPlayer_Invalid(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, _ := seatPlayers(t, client, 5000, "Alice")

	tests := []struct {
		name string
		req  *api.AddPlayerRequest
		code connect.Code
	}{
		{"empty name", &api.AddPlayerRequest{GameId: gameID, Name: "  ", BuyIn: 100}, connect.CodeInvalidArgument},
		{"zero buy-in", &api.AddPlayerRequest{GameId: gameID, Name: "Bob", BuyIn: 0}, connect.CodeInvalidArgument},
		{"negative buy-in", &api.AddPlayerRequest{GameId: gameID, Name: "Bob", BuyIn: -100}, connect.CodeInvalidArgument},
		{"buy-in too large", &api.AddPlayerRequest{GameId: gameID, Name: "Bob", BuyIn: money.MaxAmount + 1}, connect.CodeInvalidArgument},
		{"duplicate name", &api.AddPlayerRequest{GameId: gameID, Name: "Alice", BuyIn: 100}, connect.CodeAlreadyExists},
		{"unknown game", &api.AddPlayerRequest{GameId: "missing", Name: "Bob", BuyIn: 100}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddPlayer(ctx, connect.NewRequest(tt.req))
			expectCode(t, err, tt.code)
		})
	}
}

func TestAddBuyIn(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, ids := seatPlayers(t, client, 5000, "Alice", "Bob")

	resp, err := client.AddBuyIn(ctx, connect.NewRequest(&api.AddBuyInRequest{
		GameId:   gameID,
		PlayerId: ids["Bob"],
		Amount:   2000,
	}))
	if err != nil {
		t.Fatalf("AddBuyIn failed: %v", err)
	}

	if resp.Msg.Game.TotalPurse != 12000 {
		t.Errorf("purse: expected 12000, got %d", resp.Msg.Game.TotalPurse)
	}
	for _, p := range resp.Msg.Game.Players {
		if p.Name == "Bob" && p.BuyIn != 7000 {
			t.Errorf("Bob buy-in: expected 7000, got %d", p.BuyIn)
		}
	}
	if len(resp.Msg.BuyIns) != 2 {
		t.Fatalf("expected 2 buy-ins in history, got %d", len(resp.Msg.BuyIns))
	}
	if resp.Msg.BuyIns[0].Amount != 5000 || resp.Msg.BuyIns[1].Amount != 2000 {
		t.Errorf("history: expected [5000 2000], got [%d %d]", resp.Msg.BuyIns[0].Amount, resp.Msg.BuyIns[1].Amount)
	}

	_, err = client.AddBuyIn(ctx, connect.NewRequest(&api.AddBuyInRequest{
		GameId:   gameID,
		PlayerId: "not-seated",
		Amount:   100,
	}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = client.AddBuyIn(ctx, connect.NewRequest(&api.AddBuyInRequest{
		GameId:   gameID,
		PlayerId: ids["Bob"],
		Amount:   0,
	}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestSetFinalStacks_ReportsDiscrepancy(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, ids := seatPlayers(t, client, 5000, "Alice", "Bob", "Carol")

	resp, err := client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
		GameId: gameID,
		Stacks: map[string]int64{ids["Alice"]: 12000, ids["Bob"]: 0},
	}))
	if err != nil {
		t.Fatalf("SetFinalStacks failed: %v", err)
	}

	if len(resp.Msg.MissingStacks) != 1 || resp.Msg.MissingStacks[0] != "Carol" {
		t.Errorf("missing: expected [Carol], got %v", resp.Msg.MissingStacks)
	}
	if resp.Msg.Discrepancy != -3000 {
		t.Errorf("discrepancy: expected -3000, got %d", resp.Msg.Discrepancy)
	}

	resp, err = client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
		GameId: gameID,
		Stacks: map[string]int64{ids["Carol"]: 3000},
	}))
	if err != nil {
		t.Fatalf("SetFinalStacks failed: %v", err)
	}

	if len(resp.Msg.MissingStacks) != 0 {
		t.Errorf("expected no missing stacks, got %v", resp.Msg.MissingStacks)
	}
	if resp.Msg.Discrepancy != 0 {
		t.Errorf("discrepancy: expected 0, got %d", resp.Msg.Discrepancy)
	}
}

func TestSetFinalStacks_Invalid(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, ids := seatPlayers(t, client, 5000, "Alice")

	tests := []struct {
		name   string
		stacks map[string]int64
		code   connect.Code
	}{
		{"empty", nil, connect.CodeInvalidArgument},
		{"negative stack", map[string]int64{ids["Alice"]: -1}, connect.CodeInvalidArgument},
		{"stack too large", map[string]int64{ids["Alice"]: money.MaxAmount + 1}, connect.CodeInvalidArgument},
		{"unknown player", map[string]int64{"stranger": 100}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
				GameId: gameID,
				Stacks: tt.stacks,
			}))
			expectCode(t, err, tt.code)
		})
	}
}

func TestEndGame(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, ids := seatPlayers(t, client, 5000, "Alice", "Bob", "Carol")

	_, err := client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
		GameId: gameID,
		Stacks: map[string]int64{ids["Alice"]: 12000, ids["Bob"]: 0, ids["Carol"]: 3000},
	}))
	if err != nil {
		t.Fatalf("SetFinalStacks failed: %v", err)
	}

	resp, err := client.EndGame(ctx, connect.NewRequest(&api.EndGameRequest{GameId: gameID}))
	if err != nil {
		t.Fatalf("EndGame failed: %v", err)
	}

	if resp.Msg.Game.Status != "ended" {
		t.Errorf("status: expected ended, got %s", resp.Msg.Game.Status)
	}
	if resp.Msg.Game.EndedAt == 0 {
		t.Error("expected non-zero EndedAt")
	}

	want := []string{"Bob owes Alice 50.00.", "Carol owes Alice 20.00."}
	if len(resp.Msg.Payments) != len(want) {
		t.Fatalf("expected %d payments, got %d", len(want), len(resp.Msg.Payments))
	}
	for i, p := range resp.Msg.Payments {
		if p.Statement != want[i] {
			t.Errorf("payment %d: expected %q, got %q", i, want[i], p.Statement)
		}
		if p.ToPlayerId != ids["Alice"] {
			t.Errorf("payment %d: expected creditor Alice", i)
		}
	}

	listResp, err := client.ListPayments(ctx, connect.NewRequest(&api.ListPaymentsRequest{GameId: gameID}))
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(listResp.Msg.Payments) != len(want) {
		t.Fatalf("expected %d stored payments, got %d", len(want), len(listResp.Msg.Payments))
	}
	for i, p := range listResp.Msg.Payments {
		if p.Statement != want[i] {
			t.Errorf("stored payment %d: expected %q, got %q", i, want[i], p.Statement)
		}
	}
}

func TestEndGame_Unbalanced(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, ids := seatPlayers(t, client, 5000, "Alice", "Bob", "Carol")

	_, err := client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
		GameId: gameID,
		Stacks: map[string]int64{ids["Alice"]: 12000, ids["Bob"]: 0, ids["Carol"]: 2500},
	}))
	if err != nil {
		t.Fatalf("SetFinalStacks failed: %v", err)
	}

	_, err = client.EndGame(ctx, connect.NewRequest(&api.EndGameRequest{GameId: gameID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	sum, ok := ActualSum(err)
	if !ok {
		t.Fatal("expected actual sum on the error")
	}
	if sum != 500 {
		t.Errorf("actual sum: expected 500, got %d", sum)
	}

	// The game stays open so the host can correct the stacks.
	getResp, err := client.GetGame(ctx, connect.NewRequest(&api.GetGameRequest{GameId: gameID}))
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if getResp.Msg.Game.Status != "open" {
		t.Errorf("status: expected open, got %s", getResp.Msg.Game.Status)
	}

	_, err = client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
		GameId: gameID,
		Stacks: map[string]int64{ids["Carol"]: 3000},
	}))
	if err != nil {
		t.Fatalf("SetFinalStacks failed: %v", err)
	}

	if _, err := client.EndGame(ctx, connect.NewRequest(&api.EndGameRequest{GameId: gameID})); err != nil {
		t.Fatalf("EndGame after correction failed: %v", err)
	}
}

func TestEndGame_MissingStacks(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, ids := seatPlayers(t, client, 5000, "Alice", "Bob")

	_, err := client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
		GameId: gameID,
		Stacks: map[string]int64{ids["Alice"]: 10000},
	}))
	if err != nil {
		t.Fatalf("SetFinalStacks failed: %v", err)
	}

	_, err = client.EndGame(ctx, connect.NewRequest(&api.EndGameRequest{GameId: gameID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	if _, ok := ActualSum(err); ok {
		t.Error("missing stacks should not carry an actual sum")
	}
}

func TestEndGame_AlreadyEnded(t *testing.T) {
	srv := setupTestServer(t)
	client, _ := srv.hostClient(t, "host@example.com")
	ctx := context.Background()

	gameID, ids := seatPlayers(t, client, 5000, "Alice", "Bob")

	_, err := client.SetFinalStacks(ctx, connect.NewRequest(&api.SetFinalStacksRequest{
		GameId: gameID,
		Stacks: map[string]int64{ids["Alice"]: 5000, ids["Bob"]: 5000},
	}))
	if err != nil {
		t.Fatalf("SetFinalStacks failed: %v", err)
	}

	resp, err := client.EndGame(ctx, connect.NewRequest(&api.EndGameRequest{GameId: gameID}))
	if err != nil {
		t.Fatalf("EndGame failed: %v", err)
	}
	if len(resp.Msg.Payments) != 0 {
		t.Errorf("break-even game: expected no payments, got %d", len(resp.Msg.Payments))
	}

	_, err = client.EndGame(ctx, connect.NewRequest(&api.EndGameRequest{GameId: gameID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = client.AddPlayer(ctx, connect.NewRequest(&api.AddPlayerRequest{
		GameId: gameID,
		Name:   "Latecomer",
		BuyIn:  100,
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)
}
