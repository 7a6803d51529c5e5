package auth

import (
	"context"

	"github.com/mmynk/potsettle/internal/models"
)

// Authenticator defines the interface for host authentication.
// Games are owned by the host who creates them; players at the table
// never authenticate.
type Authenticator interface {
	// Register creates a new host account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the host's credentials and returns the account.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
