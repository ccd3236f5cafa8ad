package oauth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultHTTPTimeout = 10 * time.Second

// idTokenVerifier holds the verification machinery shared by all providers:
// fetch the provider's key set, match the token's kid, verify the RS256
// signature and validate audience and issuer.
type idTokenVerifier struct {
	client   *http.Client
	jwksURL  string
	audience string
	issuers  []string
}

func newIDTokenVerifier(client *http.Client, jwksURL, audience string, issuers ...string) *idTokenVerifier {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &idTokenVerifier{
		client:   client,
		jwksURL:  jwksURL,
		audience: audience,
		issuers:  issuers,
	}
}

// parse verifies the raw ID token and returns its claims. Every failure mode
// (transport, unknown kid, bad signature, expired, wrong audience or issuer)
// collapses into an error wrapping ErrInvalidIDToken.
func (v *idTokenVerifier) parse(ctx context.Context, idToken string) (jwt.MapClaims, error) {
	keys, err := fetchKeySet(ctx, v.client, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	token, err := jwt.Parse(idToken, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("no signing key for kid %q", kid)
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidIDToken
	}

	iss, _ := claims["iss"].(string)
	if !v.issuerAllowed(iss) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidIDToken, iss)
	}

	return claims, nil
}

func (v *idTokenVerifier) issuerAllowed(iss string) bool {
	for _, allowed := range v.issuers {
		if iss == allowed {
			return true
		}
	}
	return false
}

// stringClaim returns the named claim if present and non-empty.
func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

// boolClaim tolerates both JSON booleans and the string forms "true"/"false"
// that Apple uses for email_verified.
func boolClaim(claims jwt.MapClaims, name string) bool {
	switch v := claims[name].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
