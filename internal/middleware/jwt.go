package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/repository"
	"github.com/notaio/notaio-backend/internal/utils"
)

// PrincipalStore resolves a token subject to a live user record.
// *repository.UserRepo satisfies it; tests substitute a fake.
type PrincipalStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Authenticate returns an Echo middleware that validates a Bearer access
// token, resolves the subject against the store and injects the
// principal into the request context under "user_id", "email" and
// "role".
//
// Failure answers are machine-distinguishable:
//   - no Authorization header        -> 401, reason "missing"
//   - signature valid, past expiry   -> 401, reason "expired"
//   - bad signature/structure/alg    -> 401, reason "invalid"
//   - token fine, account deleted    -> 404, "account no longer exists"
//
// The 404 case is intentionally separate from the 401s so a client can
// tell "your session is bad" from "your session is fine but your
// account is gone".
func Authenticate(secret string, users PrincipalStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "reason": "missing"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, utils.ErrTokenExpired) {
					reason = "expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "reason": reason})
			}
			uid, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "reason": "invalid"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, uid)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "account no longer exists"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
			}
			if !model.ValidRole(u.Role) {
				// A row with an unknown role is corrupt; reject it here
				// rather than letting handlers act on it.
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid role on record"})
			}

			c.Set("user_id", u.ID)
			c.Set("email", u.Email)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}
