package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nursery-erp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Context keys and headers for request identity. Authentication happens
// upstream; the gateway injects the tenant and actor of the verified caller
// as headers, and this middleware only extracts and validates their format.
const (
	TenantIDKey     = "tenant_id"
	ActorIDKey      = "actor_id"
	TenantHeaderKey = "X-Tenant-ID"
	ActorHeaderKey  = "X-Actor-ID"
)

// IdentityConfig holds configuration for the identity middleware
type IdentityConfig struct {
	// SkipPaths are paths that don't require tenant context (e.g. health check)
	SkipPaths []string
	// Required determines if tenant context is mandatory
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultIdentityConfig returns default identity middleware configuration
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready"},
		Required:  true,
		Logger:    nil,
	}
}

// Identity extracts tenant and actor identity from upstream headers
func Identity() gin.HandlerFunc {
	return IdentityWithConfig(DefaultIdentityConfig())
}

// IdentityWithConfig returns identity middleware with custom configuration
func IdentityWithConfig(cfg IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID := c.GetHeader(TenantHeaderKey)
		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				respondUnauthorized(c, "Invalid tenant ID format")
				return
			}
		}
		if tenantID == "" && cfg.Required {
			respondUnauthorized(c, "Tenant identification required")
			return
		}

		actorID := c.GetHeader(ActorHeaderKey)
		if actorID != "" {
			if _, err := uuid.Parse(actorID); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn("Dropping malformed actor header",
						zap.String("tenant_id", tenantID),
					)
				}
				actorID = ""
			}
		}

		if tenantID != "" {
			c.Set(TenantIDKey, tenantID)

			// Propagate identity into the request context for the service layer
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, log = logger.WithTenantID(ctx, log, tenantID)
			if actorID != "" {
				c.Set(ActorIDKey, actorID)
				ctx, _ = logger.WithActorID(ctx, log, actorID)
			}
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// OptionalIdentity creates middleware that doesn't require tenant context
func OptionalIdentity() gin.HandlerFunc {
	cfg := DefaultIdentityConfig()
	cfg.Required = false
	return IdentityWithConfig(cfg)
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	if tenantID, exists := c.Get(TenantIDKey); exists {
		if tid, ok := tenantID.(string); ok {
			return tid
		}
	}
	return ""
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// GetActorID retrieves the actor ID from gin.Context
func GetActorID(c *gin.Context) string {
	if actorID, exists := c.Get(ActorIDKey); exists {
		if aid, ok := actorID.(string); ok {
			return aid
		}
	}
	return ""
}

// GetActorUUID retrieves the actor ID as UUID from gin.Context
func GetActorUUID(c *gin.Context) (uuid.UUID, error) {
	actorID := GetActorID(c)
	if actorID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(actorID)
}
