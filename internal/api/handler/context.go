package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/devtrack/device-tracker/internal/api/middleware"
	"github.com/devtrack/device-tracker/internal/core/domain"
)

// ctxIdentity returns the identity bound by the Auth middleware, from the echo
// context or else the request context. Its absence means the route was
// mounted outside the middleware; treat it as unauthenticated.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := c.Get(middleware.IdentityKey).(*domain.Identity)
	if !ok || id == nil {
		id, ok = middleware.IdentityFrom(c.Request().Context())
	}
	if !ok || id == nil || id.UserID <= 0 {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}
