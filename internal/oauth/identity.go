package oauth

import (
	"context"
	"errors"
)

// ErrInvalidIDToken is returned whenever a provider ID token fails
// verification, whatever the underlying cause. Invalid tokens are a normal
// outcome at this boundary, not an exceptional one.
var ErrInvalidIDToken = errors.New("invalid provider id token")

// Identity is the normalized claim set extracted from a verified provider
// ID token.
type Identity struct {
	Email             string
	FullName          string
	ProviderSubjectID string
	EmailVerified     bool
}

// Verifier validates a third-party-issued ID token against the provider's
// published signing keys and extracts the holder's identity.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}
