package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/irodova/placestay/internal/domain"
)

const (
	ContextCallerID    = "callerId"
	ContextCallerAdmin = "callerAdmin"
)

// Authorizer is the access gate consumed by the middleware: any valid
// credential for user routes, a stored admin role for admin routes.
type Authorizer interface {
	AuthorizeUser(ctx context.Context, token string) (string, error)
	AuthorizeAdmin(ctx context.Context, token string) (string, error)
}

func AuthRequired(gate Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "no token provided", Code: "unauthorized"})
			return
		}

		callerID, err := gate.AuthorizeUser(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid or expired token", Code: "unauthorized"})
			return
		}

		c.Set(ContextCallerID, callerID)
		c.Set(ContextCallerAdmin, false)
		c.Next()
	}
}

func AdminRequired(gate Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "no token provided", Code: "unauthorized"})
			return
		}

		callerID, err := gate.AuthorizeAdmin(c.Request.Context(), token)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			c.Abort()
			return
		}

		c.Set(ContextCallerID, callerID)
		c.Set(ContextCallerAdmin, true)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func callerFrom(c *gin.Context) domain.Caller {
	return domain.Caller{
		ID:    c.GetString(ContextCallerID),
		Admin: c.GetBool(ContextCallerAdmin),
	}
}
