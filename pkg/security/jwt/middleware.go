package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/contacts/pkg/apperr"
	"github.com/artem13815/contacts/pkg/auth"
)

const identityKey = "identity"

// Verifier resolves a raw token to an identity at a given instant.
type Verifier interface {
	Verify(token string, now time.Time) (auth.Identity, error)
}

// NewAuthMiddleware returns a Fiber middleware that requires
// "Authorization: Bearer <token>". On success the caller identity is
// stored in the request locals; see IdentityFrom.
func NewAuthMiddleware(v Verifier, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		const op = "jwt.Authenticate"
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperr.Unauthorized(op, "User is not authorized or token is missing")
		}
		tokenStr, ok := bearerToken(header)
		if !ok {
			return apperr.Unauthorized(op, "malformed Authorization header")
		}
		id, err := v.Verify(tokenStr, now())
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return apperr.E(apperr.KindUnauthorized, op, "token expired", err)
			}
			return apperr.E(apperr.KindUnauthorized, op, "User is not authorized", err)
		}
		c.Locals(identityKey, id)
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by the auth middleware.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(identityKey).(auth.Identity)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
