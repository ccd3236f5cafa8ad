package oauth

import (
	"context"
	"fmt"
	"net/http"
)

const (
	AppleJWKSURL = "https://appleid.apple.com/auth/keys"

	appleIssuer = "https://appleid.apple.com"
)

// AppleVerifier validates Sign in with Apple ID tokens.
type AppleVerifier struct {
	verifier *idTokenVerifier
}

// NewAppleVerifier creates a verifier for Apple ID tokens issued to
// clientID (the app's services identifier).
func NewAppleVerifier(clientID, jwksURL string, client *http.Client) *AppleVerifier {
	if jwksURL == "" {
		jwksURL = AppleJWKSURL
	}
	return &AppleVerifier{
		verifier: newIDTokenVerifier(client, jwksURL, clientID, appleIssuer),
	}
}

// VerifyIDToken validates the token's signature, audience and issuer and
// extracts the normalized identity. Apple delivers the user's name only
// once, out-of-band, on first sign-in: the token itself usually has no name
// claim, so FullName is normalized to empty and left for the caller's
// fallback policy.
func (a *AppleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	claims, err := a.verifier.parse(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email := stringClaim(claims, "email")
	sub := stringClaim(claims, "sub")
	if email == "" || sub == "" {
		return nil, fmt.Errorf("%w: missing email or subject", ErrInvalidIDToken)
	}

	return &Identity{
		Email:             email,
		FullName:          stringClaim(claims, "name"),
		ProviderSubjectID: sub,
		EmailVerified:     boolClaim(claims, "email_verified"),
	}, nil
}
