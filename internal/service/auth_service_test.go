package service

import (
	"context"
	"net/http"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/internal/middleware"
	"github.com/mmynk/potsettle/pkg/api"
	"github.com/mmynk/potsettle/pkg/api/apiconnect"
)

func TestRegisterAndLogin(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.authClient()
	ctx := context.Background()

	regResp, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    "Host@Example.com",
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if regResp.Msg.UserId == "" {
		t.Error("expected non-empty user ID")
	}
	if regResp.Msg.Token == "" {
		t.Error("expected non-empty token")
	}

	loginResp, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "host@example.com",
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loginResp.Msg.UserId != regResp.Msg.UserId {
		t.Errorf("user ID: expected %s, got %s", regResp.Msg.UserId, loginResp.Msg.UserId)
	}

	// The issued token opens the game service.
	games := apiconnect.NewGameServiceClient(
		http.DefaultClient,
		srv.url,
		connect.WithInterceptors(middleware.BearerAuth(loginResp.Msg.Token)),
	)
	createResp, err := games.CreateGame(ctx, connect.NewRequest(&api.CreateGameRequest{Name: "Home game"}))
	if err != nil {
		t.Fatalf("CreateGame with issued token failed: %v", err)
	}
	if createResp.Msg.Game.HostId != regResp.Msg.UserId {
		t.Errorf("host: expected %s, got %s", regResp.Msg.UserId, createResp.Msg.Game.HostId)
	}
}

func TestRegister_Invalid(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.authClient()
	ctx := context.Background()

	if _, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    "taken@example.com",
		Password: "long-enough",
	})); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		req  *api.RegisterRequest
		code connect.Code
	}{
		{"missing email", &api.RegisterRequest{Password: "long-enough"}, connect.CodeInvalidArgument},
		{"malformed email", &api.RegisterRequest{Email: "nobody", Password: "long-enough"}, connect.CodeInvalidArgument},
		{"weak password", &api.RegisterRequest{Email: "new@example.com", Password: "short"}, connect.CodeInvalidArgument},
		{"email taken", &api.RegisterRequest{Email: "taken@example.com", Password: "long-enough"}, connect.CodeAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Register(ctx, connect.NewRequest(tt.req))
			expectCode(t, err, tt.code)
		})
	}
}

func TestLogin_Invalid(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.authClient()
	ctx := context.Background()

	if _, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    "host@example.com",
		Password: "correct-horse",
	})); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		req  *api.LoginRequest
		code connect.Code
	}{
		{"empty", &api.LoginRequest{}, connect.CodeInvalidArgument},
		{"wrong password", &api.LoginRequest{Email: "host@example.com", Password: "battery-staple"}, connect.CodeUnauthenticated},
		{"unknown email", &api.LoginRequest{Email: "ghost@example.com", Password: "correct-horse"}, connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Login(ctx, connect.NewRequest(tt.req))
			expectCode(t, err, tt.code)
		})
	}
}
