package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	authdomain "github.com/vestrapos/vestra/internal/auth/domain"
	"github.com/vestrapos/vestra/internal/config"
	"github.com/vestrapos/vestra/pkg/tenantctx"
)

const contextClaimsKey = "auth_claims"

func CORSMiddleware(cfg config.Config) gin.HandlerFunc {
	origins := cfg.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Idempotency-Key", "X-Tenant-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// AuthRequired validates the bearer token and injects the caller's
// identity and tenant into the request context. Tenant-scoped handlers
// downstream read the tenant from context only, never from the request.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.authsvc.ParseToken(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := tenantctx.WithUser(c.Request.Context(), claims.UserID, string(claims.Role))
		if claims.TenantID != nil {
			ctx = tenantctx.WithTenantID(ctx, *claims.TenantID)
		} else if claims.Role == authdomain.RoleSuperAdmin {
			// Super admins carry no tenant of their own; X-Tenant-ID
			// selects the tenant they are operating on.
			if header := strings.TrimSpace(c.GetHeader("X-Tenant-ID")); header != "" {
				id, err := snowflake.ParseString(header)
				if err != nil || id == 0 {
					AbortWithError(c, ErrInvalidRequest)
					return
				}
				ctx = tenantctx.WithTenantID(ctx, id)
			}
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// RequireRole allows the request through when the authenticated role is
// one of the given roles. super_admin passes every check.
func RequireRole(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := tenantctx.RoleFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if authdomain.Role(role) == authdomain.RoleSuperAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if authdomain.Role(role) == r {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// RequireTenant rejects requests that carry no tenant scope, such as a
// super admin calling a back-office route without selecting a tenant.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := tenantctx.TenantIDFromContext(c.Request.Context()); !ok {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
