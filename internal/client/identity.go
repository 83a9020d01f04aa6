package client

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// PlayerIDFromToken extracts the player identity from the session token's
// claims. The client never verifies the signature; the arbiter is the only
// party that checks it, the client just needs to know which snapshot seat is
// its own.
func PlayerIDFromToken(token string) (string, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims shape in session token")
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id, nil
	}
	return "", fmt.Errorf("session token carries no player id")
}
