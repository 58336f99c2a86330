package middleware

import (
	"log"
	"strings"

	"craftmart/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IdentityClaims is the slice of the externally issued token this service
// reads. Authentication itself is owned by the auth collaborator; we only
// extract the user ID so location resolution can use stored coordinates.
type IdentityClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// OptionalIdentity parses a bearer token when one is present and stashes the
// user ID on the request context. Missing or invalid tokens leave the
// request anonymous; search never requires authentication.
func OptionalIdentity(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return next(c)
			}

			claims := &IdentityClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				return secret, nil
			})
			if err != nil || !parsed.Valid {
				log.Printf("WARN: ignoring unparseable bearer token: %v", err)
				return next(c)
			}

			if userID, parseErr := uuid.Parse(claims.UserID); parseErr == nil {
				ctx := common.WithUserID(c.Request().Context(), userID)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}
