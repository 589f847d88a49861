package cognito

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/talentboard/backend/config"
)

var (
	// ErrMalformedToken is returned when the token cannot be parsed at all
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidToken is returned when signature or claim validation fails
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token is outside its validity window
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidIssuer is returned when the token issuer is invalid
	ErrInvalidIssuer = errors.New("invalid issuer")

	// ErrInvalidAudience is returned when the token audience is invalid
	ErrInvalidAudience = errors.New("invalid audience")
)

// acceptedAlgorithms is the only set of signing algorithms this service
// trusts. Everything else, including unsigned tokens, is rejected before the
// signature is even checked.
var acceptedAlgorithms = []string{jwt.SigningMethodRS256.Alg()}

// keyResolver resolves a key id to the issuer's public signing key
type keyResolver interface {
	Resolve(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// Validator verifies Cognito-issued bearer tokens against the issuer's
// published signing keys
type Validator struct {
	issuer   string
	clientID string
	resolver keyResolver
}

// NewValidator creates a token validator for the configured user pool
func NewValidator(cfg config.CognitoConfig, resolver *KeyResolver) *Validator {
	return &Validator{
		issuer:   cfg.IssuerURL(),
		clientID: cfg.ClientID,
		resolver: resolver,
	}
}

// Verify validates a raw bearer token and returns its claims.
//
// Verification order: parse header, resolve the signing key named by the kid
// header, check the signature under RS256 only, then exp/nbf, issuer, and
// audience. Any failure collapses into one of the sentinel errors above so
// callers never leak the specific reason to the client.
func (v *Validator) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(rawToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("kid header not found")
		}
		key, err := v.resolver.Resolve(ctx, kid)
		if err != nil {
			return nil, err
		}
		return key, nil
	}, jwt.WithValidMethods(acceptedAlgorithms), jwt.WithExpirationRequired())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenExpired
		case errors.Is(err, ErrJWKSFetchFailed):
			// transient upstream failure, still an authentication failure
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidIssuer, v.issuer, claims.Issuer)
	}

	// Audience is checked only when a client ID is configured; Cognito access
	// tokens carry the client id in a separate claim, id tokens in aud
	if v.clientID != "" && claims.TokenUse != "access" {
		if !containsAudience(claims.Audience, v.clientID) {
			return nil, ErrInvalidAudience
		}
	}

	if claims.TokenUse != "" && claims.TokenUse != "id" && claims.TokenUse != "access" {
		return nil, fmt.Errorf("%w: token_use %q", ErrInvalidToken, claims.TokenUse)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	return claims, nil
}

// containsAudience checks if the audience list contains the expected client ID
func containsAudience(audiences jwt.ClaimStrings, clientID string) bool {
	for _, aud := range audiences {
		if aud == clientID {
			return true
		}
	}
	return false
}
