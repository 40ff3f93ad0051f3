package middleware

import (
	"net/http"

	"github.com/doaddy/backend/internal/infrastructure/logger"
	"github.com/doaddy/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Org context keys
const (
	OrgIDKey     = "org_id"
	OrgHeaderKey = "X-Org-ID"
)

// OrgMiddlewareConfig holds configuration for org middleware
type OrgMiddlewareConfig struct {
	// HeaderEnabled allows the X-Org-ID header as a fallback source.
	// Meant for development; production relies on JWT claims only.
	HeaderEnabled bool
	// SkipPaths are paths that don't require org context
	SkipPaths []string
}

// DefaultOrgConfig returns default org middleware configuration
func DefaultOrgConfig() OrgMiddlewareConfig {
	return OrgMiddlewareConfig{
		HeaderEnabled: false,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/api/v1/health"},
	}
}

// OrgMiddleware resolves the organization for the request. JWT claims
// take precedence over the X-Org-ID header. Requests without an org are
// rejected; every business operation is org-scoped.
func OrgMiddleware() gin.HandlerFunc {
	return OrgMiddlewareWithConfig(DefaultOrgConfig())
}

// OrgMiddlewareWithConfig returns org middleware with custom configuration
func OrgMiddlewareWithConfig(cfg OrgMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		orgIDStr := GetJWTOrgID(c)
		if orgIDStr == "" && cfg.HeaderEnabled {
			orgIDStr = c.GetHeader(OrgHeaderKey)
		}
		if orgIDStr == "" {
			abortMissingOrg(c, "Organization context is required")
			return
		}

		orgID, err := uuid.Parse(orgIDStr)
		if err != nil || orgID == uuid.Nil {
			abortMissingOrg(c, "Invalid organization ID")
			return
		}

		c.Set(OrgIDKey, orgID)

		// Propagate org to the request context for logging
		reqCtx := c.Request.Context()
		ctx, _ := logger.WithOrgID(reqCtx, logger.FromContext(reqCtx), orgID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortMissingOrg(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeForbidden, message, requestID))
}

// GetOrgID returns the resolved org ID, or uuid.Nil when absent
func GetOrgID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(OrgIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
