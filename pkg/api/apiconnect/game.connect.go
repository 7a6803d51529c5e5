package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/pkg/api"
)

const (
	// GameServiceName is the fully-qualified name of the GameService service.
	GameServiceName = "potsettle.v1.GameService"

	GameServiceCreateGameProcedure     = "/potsettle.v1.GameService/CreateGame"
	GameServiceGetGameProcedure        = "/potsettle.v1.GameService/GetGame"
	GameServiceListGamesProcedure      = "/potsettle.v1.GameService/ListGames"
	GameServiceAddPlayerProcedure      = "/potsettle.v1.GameService/AddPlayer"
	GameServiceAddBuyInProcedure       = "/potsettle.v1.GameService/AddBuyIn"
	GameServiceSetFinalStacksProcedure = "/potsettle.v1.GameService/SetFinalStacks"
	GameServiceEndGameProcedure        = "/potsettle.v1.GameService/EndGame"
	GameServiceListPaymentsProcedure   = "/potsettle.v1.GameService/ListPayments"
)

// GameServiceClient is a client for the potsettle.v1.GameService service.
type GameServiceClient interface {
	CreateGame(context.Context, *connect.Request[api.CreateGameRequest]) (*connect.Response[api.CreateGameResponse], error)
	GetGame(context.Context, *connect.Request[api.GetGameRequest]) (*connect.Response[api.GetGameResponse], error)
	ListGames(context.Context, *connect.Request[api.ListGamesRequest]) (*connect.Response[api.ListGamesResponse], error)
	AddPlayer(context.Context, *connect.Request[api.AddPlayerRequest]) (*connect.Response[api.AddPlayerResponse], error)
	AddBuyIn(context.Context, *connect.Request[api.AddBuyInRequest]) (*connect.Response[api.AddBuyInResponse], error)
	SetFinalStacks(context.Context, *connect.Request[api.SetFinalStacksRequest]) (*connect.Response[api.SetFinalStacksResponse], error)
	EndGame(context.Context, *connect.Request[api.EndGameRequest]) (*connect.Response[api.EndGameResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewGameServiceClient constructs a client for the potsettle.v1.GameService service.
func NewGameServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GameServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &gameServiceClient{
		createGame:     connect.NewClient[api.CreateGameRequest, api.CreateGameResponse](httpClient, baseURL+GameServiceCreateGameProcedure, opts...),
		getGame:        connect.NewClient[api.GetGameRequest, api.GetGameResponse](httpClient, baseURL+GameServiceGetGameProcedure, opts...),
		listGames:      connect.NewClient[api.ListGamesRequest, api.ListGamesResponse](httpClient, baseURL+GameServiceListGamesProcedure, opts...),
		addPlayer:      connect.NewClient[api.AddPlayerRequest, api.AddPlayerResponse](httpClient, baseURL+GameServiceAddPlayerProcedure, opts...),
		addBuyIn:       connect.NewClient[api.AddBuyInRequest, api.AddBuyInResponse](httpClient, baseURL+GameServiceAddBuyInProcedure, opts...),
		setFinalStacks: connect.NewClient[api.SetFinalStacksRequest, api.SetFinalStacksResponse](httpClient, baseURL+GameServiceSetFinalStacksProcedure, opts...),
		endGame:        connect.NewClient[api.EndGameRequest, api.EndGameResponse](httpClient, baseURL+GameServiceEndGameProcedure, opts...),
		listPayments:   connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+GameServiceListPaymentsProcedure, opts...),
	}
}

type gameServiceClient struct {
	createGame     *connect.Client[api.CreateGameRequest, api.CreateGameResponse]
	getGame        *connect.Client[api.GetGameRequest, api.GetGameResponse]
	listGames      *connect.Client[api.ListGamesRequest, api.ListGamesResponse]
	addPlayer      *connect.Client[api.AddPlayerRequest, api.AddPlayerResponse]
	addBuyIn       *connect.Client[api.AddBuyInRequest, api.AddBuyInResponse]
	setFinalStacks *connect.Client[api.SetFinalStacksRequest, api.SetFinalStacksResponse]
	endGame        *connect.Client[api.EndGameRequest, api.EndGameResponse]
	listPayments   *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
}

func (c *gameServiceClient) CreateGame(ctx context.Context, req *connect.Request[api.CreateGameRequest]) (*connect.Response[api.CreateGameResponse], error) {
	return c.createGame.CallUnary(ctx, req)
}

func (c *gameServiceClient) GetGame(ctx context.Context, req *connect.Request[api.GetGameRequest]) (*connect.Response[api.GetGameResponse], error) {
	return c.getGame.CallUnary(ctx, req)
}

func (c *gameServiceClient) ListGames(ctx context.Context, req *connect.Request[api.ListGamesRequest]) (*connect.Response[api.ListGamesResponse], error) {
	return c.listGames.CallUnary(ctx, req)
}

func (c *gameServiceClient) AddPlayer(ctx context.Context, req *connect.Request[api.AddPlayerRequest]) (*connect.Response[api.AddPlayerResponse], error) {
	return c.addPlayer.CallUnary(ctx, req)
}

func (c *gameServiceClient) AddBuyIn(ctx context.Context, req *connect.Request[api.AddBuyInRequest]) (*connect.Response[api.AddBuyInResponse], error) {
	return c.addBuyIn.CallUnary(ctx, req)
}

func (c *gameServiceClient) SetFinalStacks(ctx context.Context, req *connect.Request[api.SetFinalStacksRequest]) (*connect.Response[api.SetFinalStacksResponse], error) {
	return c.setFinalStacks.CallUnary(ctx, req)
}

func (c *gameServiceClient) EndGame(ctx context.Context, req *connect.Request[api.EndGameRequest]) (*connect.Response[api.EndGameResponse], error) {
	return c.endGame.CallUnary(ctx, req)
}

func (c *gameServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

// GameServiceHandler is an implementation of the potsettle.v1.GameService service.
type GameServiceHandler interface {
	CreateGame(context.Context, *connect.Request[api.CreateGameRequest]) (*connect.Response[api.CreateGameResponse], error)
	GetGame(context.Context, *connect.Request[api.GetGameRequest]) (*connect.Response[api.GetGameResponse], error)
	ListGames(context.Context, *connect.Request[api.ListGamesRequest]) (*connect.Response[api.ListGamesResponse], error)
	AddPlayer(context.Context, *connect.Request[api.AddPlayerRequest]) (*connect.Response[api.AddPlayerResponse], error)
	AddBuyIn(context.Context, *connect.Request[api.AddBuyInRequest]) (*connect.Response[api.AddBuyInResponse], error)
	SetFinalStacks(context.Context, *connect.Request[api.SetFinalStacksRequest]) (*connect.Response[api.SetFinalStacksResponse], error)
	EndGame(context.Context, *connect.Request[api.EndGameRequest]) (*connect.Response[api.EndGameResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewGameServiceHandler builds an HTTP handler from the service implementation.
func NewGameServiceHandler(svc GameServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	handlers := map[string]http.Handler{
		GameServiceCreateGameProcedure:     connect.NewUnaryHandler(GameServiceCreateGameProcedure, svc.CreateGame, opts...),
		GameServiceGetGameProcedure:        connect.NewUnaryHandler(GameServiceGetGameProcedure, svc.GetGame, opts...),
		GameServiceListGamesProcedure:      connect.NewUnaryHandler(GameServiceListGamesProcedure, svc.ListGames, opts...),
		GameServiceAddPlayerProcedure:      connect.NewUnaryHandler(GameServiceAddPlayerProcedure, svc.AddPlayer, opts...),
		GameServiceAddBuyInProcedure:       connect.NewUnaryHandler(GameServiceAddBuyInProcedure, svc.AddBuyIn, opts...),
		GameServiceSetFinalStacksProcedure: connect.NewUnaryHandler(GameServiceSetFinalStacksProcedure, svc.SetFinalStacks, opts...),
		GameServiceEndGameProcedure:        connect.NewUnaryHandler(GameServiceEndGameProcedure, svc.EndGame, opts...),
		GameServiceListPaymentsProcedure:   connect.NewUnaryHandler(GameServiceListPaymentsProcedure, svc.ListPayments, opts...),
	}
	return "/" + GameServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// UnimplementedGameServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGameServiceHandler struct{}

func (UnimplementedGameServiceHandler) CreateGame(context.Context, *connect.Request[api.CreateGameRequest]) (*connect.Response[api.CreateGameResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.CreateGame is not implemented"))
}

func (UnimplementedGameServiceHandler) GetGame(context.Context, *connect.Request[api.GetGameRequest]) (*connect.Response[api.GetGameResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.GetGame is not implemented"))
}

func (UnimplementedGameServiceHandler) ListGames(context.Context, *connect.Request[api.ListGamesRequest]) (*connect.Response[api.ListGamesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.ListGames is not implemented"))
}

func (UnimplementedGameServiceHandler) AddPlayer(context.Context, *connect.Request[api.AddPlayerRequest]) (*connect.Response[api.AddPlayerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.AddPlayer is not implemented"))
}

func (UnimplementedGameServiceHandler) AddBuyIn(context.Context, *connect.Request[api.AddBuyInRequest]) (*connect.Response[api.AddBuyInResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.AddBuyIn is not implemented"))
}

func (UnimplementedGameServiceHandler) SetFinalStacks(context.Context, *connect.Request[api.SetFinalStacksRequest]) (*connect.Response[api.SetFinalStacksResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.SetFinalStacks is not implemented"))
}

func (UnimplementedGameServiceHandler) EndGame(context.Context, *connect.Request[api.EndGameRequest]) (*connect.Response[api.EndGameResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.EndGame is not implemented"))
}

func (UnimplementedGameServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.GameService.ListPayments is not implemented"))
}
