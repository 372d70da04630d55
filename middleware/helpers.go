package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const jwtClaimUserID = "user_id"

// GetUserIDFromContext extracts the authenticated user's id from the JWT
// claims stored by Authenticate.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context")
	}

	idClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}

	idFloat, ok := idClaim.(float64)
	if !ok || idFloat != float64(int(idFloat)) {
		return 0, fmt.Errorf("invalid %q claim in token", jwtClaimUserID)
	}

	userID := int(idFloat)
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in %q claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

// OptionalUserID returns the viewer's id, or 0 when the request carries no
// valid authentication.
func OptionalUserID(ctx context.Context) int {
	if id, err := GetUserIDFromContext(ctx); err == nil {
		return id
	}
	return 0
}
