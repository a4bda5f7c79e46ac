package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devtrack/device-tracker/internal/core/domain"
	"github.com/devtrack/device-tracker/internal/core/ports"
	"github.com/devtrack/device-tracker/internal/pkg/metrics"
)

// IdentityKey is the echo context key holding the *domain.Identity.
const IdentityKey = "identity"

type identityCtxKey struct{}

// Auth verifies the bearer token and binds the caller's identity to both the
// echo context and the request context. A missing token yields
// domain.ErrUnauthenticated; a token that fails verification yields an error
// wrapping domain.ErrForbidden.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			id, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
				} else {
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				}
				if !errors.Is(err, domain.ErrForbidden) {
					err = domain.ErrForbidden
				}
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set(IdentityKey, id)
			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

// bearerToken extracts the token from "Bearer <token>". Any other scheme
// counts as no token at all.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFrom returns the identity bound by Auth, if any.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*domain.Identity)
	return id, ok && id != nil
}
