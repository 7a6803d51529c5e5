package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/internal/calculator"
	"github.com/mmynk/potsettle/internal/ledger"
	"github.com/mmynk/potsettle/internal/metrics"
	"github.com/mmynk/potsettle/internal/middleware"
	"github.com/mmynk/potsettle/internal/models"
	"github.com/mmynk/potsettle/internal/money"
	"github.com/mmynk/potsettle/internal/storage"
	"github.com/mmynk/potsettle/pkg/api"
	"github.com/mmynk/potsettle/pkg/api/apiconnect"
)

// sourceGame labels metrics for settlements of stored games.
const sourceGame = "game"

// GameService implements the Connect GameService
type GameService struct {
	apiconnect.UnimplementedGameServiceHandler
	store   storage.Store
	metrics *metrics.Recorder
}

// NewGameService creates a new GameService with the given storage backend.
// rec may be nil.
func NewGameService(store storage.Store, rec *metrics.Recorder) *GameService {
	return &GameService{store: store, metrics: rec}
}

// requireHost returns the authenticated host ID from the context.
func requireHost(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

// loadOwnedGame fetches a game and checks the caller hosts it.
func (s *GameService) loadOwnedGame(ctx context.Context, gameID string) (*models.Game, error) {
	hostID, err := requireHost(ctx)
	if err != nil {
		return nil, err
	}
	if gameID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("game_id required"))
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		slog.Error("Failed to load game", "game_id", gameID, "error", err)
		return nil, storeError(err)
	}
	if game.HostID != hostID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you are not the host of this game"))
	}
	return game, nil
}

func checkAmount(field string, amount, lo int64) error {
	if amount < lo || amount > money.MaxAmount {
		return connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("%s must be between %s and %s", field, money.Format(lo), money.Format(money.MaxAmount)))
	}
	return nil
}

// toAPIGame converts a game model, including per-player net balances.
func toAPIGame(game *models.Game) *api.Game {
	balances, _ := calculator.NetBalances(game.Players)
	players := make([]*api.Player, len(game.Players))
	for i, p := range game.Players {
		players[i] = &api.Player{
			Id:            p.ID,
			Name:          p.Name,
			BuyIn:         p.BuyIn,
			FinalStack:    p.FinalStack,
			StackRecorded: p.StackRecorded,
			NetBalance:    balances[i].NetBalance,
		}
	}
	return &api.Game{
		Id:          game.ID,
		Name:        game.Name,
		HostId:      game.HostID,
		Status:      string(game.Status),
		Players:     players,
		TotalPurse:  game.TotalPurse(),
		TotalStacks: game.TotalStacks(),
		CreatedAt:   game.CreatedAt,
		EndedAt:     game.EndedAt,
	}
}

// toAPIPayments resolves player names and renders each payment as a statement.
func toAPIPayments(game *models.Game, payments []*models.Payment) []*api.GamePayment {
	names := make(map[string]string, len(game.Players))
	for _, p := range game.Players {
		names[p.ID] = p.Name
	}

	out := make([]*api.GamePayment, len(payments))
	for i, p := range payments {
		amount := money.Format(p.Amount)
		out[i] = &api.GamePayment{
			FromPlayerId:  p.FromPlayerID,
			FromName:      names[p.FromPlayerID],
			ToPlayerId:    p.ToPlayerID,
			ToName:        names[p.ToPlayerID],
			Amount:        p.Amount,
			AmountDisplay: amount,
			Statement:     fmt.Sprintf("%s owes %s %s.", names[p.FromPlayerID], names[p.ToPlayerID], amount),
		}
	}
	return out
}

// CreateGame opens a new game hosted by the caller.
func (s *GameService) CreateGame(ctx context.Context, req *connect.Request[api.CreateGameRequest]) (*connect.Response[api.CreateGameResponse], error) {
	hostID, err := requireHost(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGame request received", "name", req.Msg.Name, "host_id", hostID)

	game := &models.Game{
		Name:   strings.TrimSpace(req.Msg.Name),
		HostID: hostID,
	}

	// Save to storage (generates ID, name and CreatedAt)
	if err := s.store.CreateGame(ctx, game); err != nil {
		slog.Error("CreateGame failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Game created", "game_id", game.ID)

	return connect.NewResponse(&api.CreateGameResponse{Game: toAPIGame(game)}), nil
}

// GetGame retrieves a game with its players.
func (s *GameService) GetGame(ctx context.Context, req *connect.Request[api.GetGameRequest]) (*connect.Response[api.GetGameResponse], error) {
	slog.Info("GetGame request received", "game_id", req.Msg.GameId)

	game, err := s.loadOwnedGame(ctx, req.Msg.GameId)
	if err != nil {
		return nil, err
	}

	slog.Info("GetGame successful", "game_id", game.ID, "players_count", len(game.Players))

	return connect.NewResponse(&api.GetGameResponse{Game: toAPIGame(game)}), nil
}

// ListGames retrieves the caller's games, newest first.
func (s *GameService) ListGames(ctx context.Context, req *connect.Request[api.ListGamesRequest]) (*connect.Response[api.ListGamesResponse], error) {
	hostID, err := requireHost(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListGames request received", "host_id", hostID)

	games, err := s.store.ListGames(ctx, hostID)
	if err != nil {
		slog.Error("ListGames failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Game, len(games))
	for i, g := range games {
		out[i] = toAPIGame(g)
	}

	slog.Info("ListGames successful", "count", len(games))

	return connect.NewResponse(&api.ListGamesResponse{Games: out}), nil
}

// AddPlayer seats a new player with their initial buy-in.
func (s *GameService) AddPlayer(ctx context.Context, req *connect.Request[api.AddPlayerRequest]) (*connect.Response[api.AddPlayerResponse], error) {
	slog.Info("AddPlayer request received",
		"game_id", req.Msg.GameId,
		"name", req.Msg.Name,
		"buy_in", money.Format(req.Msg.BuyIn),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}
	if err := checkAmount("buy_in", req.Msg.BuyIn, 1); err != nil {
		return nil, err
	}

	game, err := s.loadOwnedGame(ctx, req.Msg.GameId)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		GameID: game.ID,
		Name:   name,
		BuyIn:  req.Msg.BuyIn,
	}
	if err := s.store.AddPlayer(ctx, player); err != nil {
		slog.Error("AddPlayer failed", "game_id", game.ID, "error", err)
		return nil, storeError(err)
	}

	updated, err := s.store.GetGame(ctx, game.ID)
	if err != nil {
		slog.Error("Failed to fetch updated game", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Player added", "game_id", game.ID, "player_id", player.ID, "purse", money.Format(updated.TotalPurse()))

	apiGame := toAPIGame(updated)
	var apiPlayer *api.Player
	for _, p := range apiGame.Players {
		if p.Id == player.ID {
			apiPlayer = p
		}
	}

	return connect.NewResponse(&api.AddPlayerResponse{Player: apiPlayer, Game: apiGame}), nil
}

// AddBuyIn records a re-buy for a seated player.
func (s *GameService) AddBuyIn(ctx context.Context, req *connect.Request[api.AddBuyInRequest]) (*connect.Response[api.AddBuyInResponse], error) {
	slog.Info("AddBuyIn request received",
		"game_id", req.Msg.GameId,
		"player_id", req.Msg.PlayerId,
		"amount", money.Format(req.Msg.Amount),
	)

	if err := checkAmount("amount", req.Msg.Amount, 1); err != nil {
		return nil, err
	}

	game, err := s.loadOwnedGame(ctx, req.Msg.GameId)
	if err != nil {
		return nil, err
	}
	if game.FindPlayer(req.Msg.PlayerId) == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("player %s is not in this game", req.Msg.PlayerId))
	}

	if err := s.store.AddBuyIn(ctx, &models.BuyIn{PlayerID: req.Msg.PlayerId, Amount: req.Msg.Amount}); err != nil {
		slog.Error("AddBuyIn failed", "player_id", req.Msg.PlayerId, "error", err)
		return nil, storeError(err)
	}

	updated, err := s.store.GetGame(ctx, game.ID)
	if err != nil {
		slog.Error("Failed to fetch updated game", "error", err)
		return nil, storeError(err)
	}

	history, err := s.store.ListBuyIns(ctx, req.Msg.PlayerId)
	if err != nil {
		slog.Error("Failed to list buy-ins", "player_id", req.Msg.PlayerId, "error", err)
		return nil, storeError(err)
	}
	buyIns := make([]*api.BuyIn, len(history))
	for i, b := range history {
		buyIns[i] = &api.BuyIn{Amount: b.Amount, CreatedAt: b.CreatedAt}
	}

	slog.Info("Buy-in added", "game_id", game.ID, "purse", money.Format(updated.TotalPurse()), "buy_ins", len(buyIns))

	return connect.NewResponse(&api.AddBuyInResponse{Game: toAPIGame(updated), BuyIns: buyIns}), nil
}

// SetFinalStacks records final chip counts and reports how far the stacks
// are from the purse, so the host can correct them before ending the game.
func (s *GameService) SetFinalStacks(ctx context.Context, req *connect.Request[api.SetFinalStacksRequest]) (*connect.Response[api.SetFinalStacksResponse], error) {
	slog.Info("SetFinalStacks request received", "game_id", req.Msg.GameId, "stacks_count", len(req.Msg.Stacks))

	if len(req.Msg.Stacks) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("stacks required"))
	}
	for playerID, stack := range req.Msg.Stacks {
		if err := checkAmount("final stack for "+playerID, stack, 0); err != nil {
			return nil, err
		}
	}

	game, err := s.loadOwnedGame(ctx, req.Msg.GameId)
	if err != nil {
		return nil, err
	}
	for playerID := range req.Msg.Stacks {
		if game.FindPlayer(playerID) == nil {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("player %s is not in this game", playerID))
		}
	}

	if err := s.store.SetFinalStacks(ctx, game.ID, req.Msg.Stacks); err != nil {
		slog.Error("SetFinalStacks failed", "game_id", game.ID, "error", err)
		return nil, storeError(err)
	}

	updated, err := s.store.GetGame(ctx, game.ID)
	if err != nil {
		slog.Error("Failed to fetch updated game", "error", err)
		return nil, storeError(err)
	}

	discrepancy := updated.TotalStacks() - updated.TotalPurse()
	missing := updated.MissingStacks()
	if discrepancy != 0 && len(missing) == 0 {
		slog.Warn("Final stacks do not match purse",
			"game_id", game.ID,
			"purse", money.Format(updated.TotalPurse()),
			"stacks", money.Format(updated.TotalStacks()),
		)
	}

	return connect.NewResponse(&api.SetFinalStacksResponse{
		Game:          toAPIGame(updated),
		Discrepancy:   discrepancy,
		MissingStacks: missing,
	}), nil
}

// EndGame settles a game: it builds the ledger from buy-ins and final
// stacks, validates it, computes the payment plan and stores it. An
// unbalanced game is rejected with the actual sum and stays open.
func (s *GameService) EndGame(ctx context.Context, req *connect.Request[api.EndGameRequest]) (*connect.Response[api.EndGameResponse], error) {
	slog.Info("EndGame request received", "game_id", req.Msg.GameId)

	game, err := s.loadOwnedGame(ctx, req.Msg.GameId)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameOpen {
		return nil, connect.NewError(connect.CodeFailedPrecondition, storage.ErrGameEnded)
	}
	if missing := game.MissingStacks(); len(missing) > 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("final stack missing for %s", strings.Join(missing, ", ")))
	}

	_, entries := calculator.NetBalances(game.Players)

	if err := ledger.Validate(entries); err != nil {
		var mismatch *ledger.MismatchError
		if errors.As(err, &mismatch) {
			slog.Warn("EndGame rejected unbalanced game",
				"game_id", game.ID,
				"purse", money.Format(game.TotalPurse()),
				"stacks", money.Format(game.TotalStacks()),
				"actual_sum", mismatch.ActualSum,
			)
			s.metrics.Mismatch(sourceGame, mismatch.ActualSum)
			return nil, mismatchError(connect.CodeFailedPrecondition, mismatch)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	plan, err := calculator.Settle(entries)
	if err != nil {
		slog.Error("EndGame settlement failed", "game_id", game.ID, "error", err)
		s.metrics.Invalid(sourceGame)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	residual, err := calculator.Apply(entries, plan)
	if err != nil || !calculator.Settled(residual) {
		slog.Error("EndGame plan does not settle ledger", "game_id", game.ID, "error", err, "residual", residual)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("payment plan does not settle the game"))
	}

	payments := make([]models.Payment, len(plan))
	for i, p := range plan {
		payments[i] = models.Payment{
			FromPlayerID: p.From,
			ToPlayerID:   p.To,
			Amount:       p.Amount,
		}
	}

	if err := s.store.EndGame(ctx, game.ID, payments); err != nil {
		slog.Error("EndGame failed", "game_id", game.ID, "error", err)
		return nil, storeError(err)
	}

	s.metrics.Settled(sourceGame, nonZero(entries), len(plan))
	s.metrics.GameEnded()

	ended, err := s.store.GetGame(ctx, game.ID)
	if err != nil {
		slog.Error("Failed to fetch ended game", "error", err)
		return nil, storeError(err)
	}

	stored := make([]*models.Payment, len(payments))
	for i := range payments {
		stored[i] = &payments[i]
	}

	slog.Info("EndGame successful",
		"game_id", game.ID,
		"players_count", len(game.Players),
		"payments_count", len(payments),
	)

	return connect.NewResponse(&api.EndGameResponse{
		Game:     toAPIGame(ended),
		Payments: toAPIPayments(ended, stored),
	}), nil
}

// ListPayments returns the stored payment plan of an ended game.
func (s *GameService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	slog.Info("ListPayments request received", "game_id", req.Msg.GameId)

	game, err := s.loadOwnedGame(ctx, req.Msg.GameId)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListPayments(ctx, game.ID)
	if err != nil {
		slog.Error("ListPayments failed", "game_id", game.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("ListPayments successful", "game_id", game.ID, "count", len(payments))

	return connect.NewResponse(&api.ListPaymentsResponse{Payments: toAPIPayments(game, payments)}), nil
}
