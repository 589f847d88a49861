package cognito

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims carried by a Cognito-issued token
type Claims struct {
	jwt.RegisteredClaims
	Email           string   `json:"email"`
	EmailVerified   bool     `json:"email_verified"`
	GivenName       string   `json:"given_name"`
	Name            string   `json:"name"`
	Groups          []string `json:"cognito:groups"`
	CognitoUsername string   `json:"cognito:username"`
	TokenUse        string   `json:"token_use"`
}

// SubjectID returns the stable external identifier for the token's subject
func (c *Claims) SubjectID() string {
	return c.Subject
}

// DisplayName returns the best-effort display name from the token.
// Cognito puts it in given_name for hosted-UI signups and name for federated
// identities; either may be absent.
func (c *Claims) DisplayName() string {
	if c.GivenName != "" {
		return c.GivenName
	}
	return c.Name
}
