package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"horizon-backend/internal/domain/tenant"
)

const tenantContextKey = "horizon.tenant"

// TenantContext extracts the authenticated caller's organization scope from
// the Ax-* headers the auth gateway injects, and rejects requests without a
// full tenancy envelope before any handler runs.
func TenantContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			userID := strings.TrimSpace(req.Header.Get("Ax-User-Id"))
			if userID == "" || !reHex32.MatchString(userID) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"msg": "unauthenticated"})
			}
			orgID := strings.TrimSpace(req.Header.Get("Ax-Organization-Id"))
			if orgID == "" || !reHex32.MatchString(orgID) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"msg": "no active organization"})
			}
			role := tenant.Role(strings.ToLower(strings.TrimSpace(req.Header.Get("Ax-Role"))))
			if role != tenant.RoleOwner && role != tenant.RoleMember {
				return c.JSON(http.StatusForbidden, map[string]string{"msg": "role not permitted"})
			}

			c.Set(tenantContextKey, tenant.RequestContext{
				OrganizationID: orgID,
				UserID:         userID,
				Role:           role,
			})
			return next(c)
		}
	}
}

// RequestContext returns the tenancy envelope stashed by TenantContext.
func RequestContext(c echo.Context) tenant.RequestContext {
	if rc, ok := c.Get(tenantContextKey).(tenant.RequestContext); ok {
		return rc
	}
	return tenant.RequestContext{}
}
