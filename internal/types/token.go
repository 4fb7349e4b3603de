package types

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are signed into bearer tokens by the identity service. exp, iat
// and the other registered claims come from the embedded jwt.RegisteredClaims.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// Validate runs after the registered claims check out
func (c *TokenClaims) Validate() error {
	if c.UserID == 0 {
		return errors.New("token carries no user id")
	}
	return nil
}
