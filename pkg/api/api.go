// Package api defines the request and response messages of the potsettle
// RPC services. Messages are plain structs encoded as JSON by the codec in
// package apiconnect.
//
// All amounts are int64 minor units (cents). Fields named *Display carry
// the same amount formatted for people, e.g. "12.50".
package api

// Balance is one participant's net balance: positive owes, negative is owed.
type Balance struct {
	ParticipantId string `json:"participant_id"`
	Amount        int64  `json:"amount"`
}

// Payment is one settlement transfer.
type Payment struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display,omitempty"`
}

// Player is a seat in a game.
type Player struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	BuyIn         int64  `json:"buy_in"`
	FinalStack    int64  `json:"final_stack"`
	StackRecorded bool   `json:"stack_recorded"`
	NetBalance    int64  `json:"net_balance"`
}

// Game is a poker session.
type Game struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	HostId      string    `json:"host_id"`
	Status      string    `json:"status"`
	Players     []*Player `json:"players,omitempty"`
	TotalPurse  int64     `json:"total_purse"`
	TotalStacks int64     `json:"total_stacks"`
	CreatedAt   int64     `json:"created_at"`
	EndedAt     int64     `json:"ended_at,omitempty"`
}

// BuyIn is one contribution to the purse.
type BuyIn struct {
	Amount    int64 `json:"amount"`
	CreatedAt int64 `json:"created_at"`
}

// GamePayment is a stored payment with player names resolved.
type GamePayment struct {
	FromPlayerId  string `json:"from_player_id"`
	FromName      string `json:"from_name"`
	ToPlayerId    string `json:"to_player_id"`
	ToName        string `json:"to_name"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Statement     string `json:"statement"`
}

// SettleService

type SettleRequest struct {
	Balances []*Balance `json:"balances"`
}

type SettleResponse struct {
	Payments []*Payment `json:"payments"`
}

type ValidateRequest struct {
	Balances []*Balance `json:"balances"`
}

type ValidateResponse struct {
	Balanced  bool  `json:"balanced"`
	ActualSum int64 `json:"actual_sum"`
	// Overflow is set when the true sum lies outside int64 and ActualSum is saturated.
	Overflow bool `json:"overflow,omitempty"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	UserId string `json:"user_id"`
	Token  string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserId string `json:"user_id"`
	Token  string `json:"token"`
}

// GameService

type CreateGameRequest struct {
	Name string `json:"name"`
}

type CreateGameResponse struct {
	Game *Game `json:"game"`
}

type GetGameRequest struct {
	GameId string `json:"game_id"`
}

type GetGameResponse struct {
	Game *Game `json:"game"`
}

type ListGamesRequest struct{}

type ListGamesResponse struct {
	Games []*Game `json:"games"`
}

type AddPlayerRequest struct {
	GameId string `json:"game_id"`
	Name   string `json:"name"`
	BuyIn  int64  `json:"buy_in"`
}

type AddPlayerResponse struct {
	Player *Player `json:"player"`
	Game   *Game   `json:"game"`
}

type AddBuyInRequest struct {
	GameId   string `json:"game_id"`
	PlayerId string `json:"player_id"`
	Amount   int64  `json:"amount"`
}

type AddBuyInResponse struct {
	Game *Game `json:"game"`
	// BuyIns is the player's buy-in history, oldest first.
	BuyIns []*BuyIn `json:"buy_ins"`
}

type SetFinalStacksRequest struct {
	GameId string `json:"game_id"`
	// Stacks maps player ID to final stack.
	Stacks map[string]int64 `json:"stacks"`
}

type SetFinalStacksResponse struct {
	Game *Game `json:"game"`
	// Discrepancy is total stacks minus total purse; zero when the game balances.
	Discrepancy   int64    `json:"discrepancy"`
	MissingStacks []string `json:"missing_stacks,omitempty"`
}

type EndGameRequest struct {
	GameId string `json:"game_id"`
}

type EndGameResponse struct {
	Game     *Game          `json:"game"`
	Payments []*GamePayment `json:"payments"`
}

type ListPaymentsRequest struct {
	GameId string `json:"game_id"`
}

type ListPaymentsResponse struct {
	Payments []*GamePayment `json:"payments"`
}
