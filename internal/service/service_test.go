package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/potsettle/internal/auth"
	"github.com/mmynk/potsettle/internal/middleware"
	"github.com/mmynk/potsettle/internal/models"
	"github.com/mmynk/potsettle/internal/storage/sqlite"
	"github.com/mmynk/potsettle/pkg/api/apiconnect"
)

const testSecret = "test-secret-key-for-potsettle-tests"

// testServer serves every service over httptest with a temp SQLite database,
// mounted with the same interceptors as cmd/server.
type testServer struct {
	url   string
	store *sqlite.SQLiteStore
	jwt   *auth.JWTManager
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "potsettle-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, slog.Default()),
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	))
	mux.Handle(apiconnect.NewGameServiceHandler(
		NewGameService(store, nil),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor()),
	))
	mux.Handle(apiconnect.NewSettleServiceHandler(
		NewSettleService(nil),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor()),
	))

	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.RemoveAll(tempDir)
	})

	return &testServer{url: server.URL, store: store, jwt: jwtManager}
}

// hostClient creates a host account directly in the store and returns a
// GameServiceClient that sends its token.
func (s *testServer) hostClient(t *testing.T, email string) (apiconnect.GameServiceClient, *models.User) {
	t.Helper()

	host := models.NewUser(email, "Host", "unused-hash")
	if err := s.store.CreateUser(context.Background(), host); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token, err := s.jwt.Generate(host)
	if err != nil {
		t.Fatalf("Generate token failed: %v", err)
	}

	client := apiconnect.NewGameServiceClient(
		http.DefaultClient,
		s.url,
		connect.WithInterceptors(middleware.BearerAuth(token)),
	)
	return client, host
}

func (s *testServer) authClient() apiconnect.AuthServiceClient {
	return apiconnect.NewAuthServiceClient(http.DefaultClient, s.url)
}

func (s *testServer) settleClient() apiconnect.SettleServiceClient {
	return apiconnect.NewSettleServiceClient(http.DefaultClient, s.url)
}

// expectCode fails the test unless err is a Connect error with code.
func expectCode(t *testing.T, err error, code connect.Code) *connect.Error {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T: %v", err, err)
	}

	if connectErr.Code() != code {
		t.Fatalf("expected %v, got %v: %v", code, connectErr.Code(), connectErr.Message())
	}
	return connectErr
}
