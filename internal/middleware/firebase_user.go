package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
)

// ResolveFirebaseUser maps the verified Firebase UID set by
// FirebaseAuthMiddleware to the local user record and exposes the same
// claims shape the JWT middleware does, so handlers are auth-agnostic.
func ResolveFirebaseUser(userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			firebaseUID, ok := c.Get("firebaseUID").(string)
			if !ok || firebaseUID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			user, err := userRepo.GetUserByFirebaseUID(firebaseUID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
			}

			c.Set("user", &models.JwtCustomClaims{
				UserID:           user.ID,
				Email:            user.Email,
				RegisteredClaims: jwt.RegisteredClaims{Subject: firebaseUID},
			})

			return next(c)
		}
	}
}
