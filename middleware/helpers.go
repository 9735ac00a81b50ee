package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
)

const jwtClaimUserID = "user_id"

// GetUserIDFromContext достаёт идентификатор пользователя из claims,
// положенных Authenticate. Claim может прийти числом или строкой —
// encoding/json декодирует числа в float64.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context or invalid type")
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}

	switch v := userIDClaim.(type) {
	case float64:
		if v != float64(int(v)) || int(v) <= 0 {
			return 0, fmt.Errorf("invalid user ID value in '%s' claim: %f", jwtClaimUserID, v)
		}
		return int(v), nil
	case string:
		userID, err := strconv.Atoi(v)
		if err != nil || userID <= 0 {
			return 0, fmt.Errorf("invalid user ID value in '%s' claim: %q", jwtClaimUserID, v)
		}
		return userID, nil
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: expected float64 or string, got %T", jwtClaimUserID, userIDClaim)
	}
}
