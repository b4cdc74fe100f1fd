package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/model"
	"github.com/momoworks/webos/internal/storage"
)

// Context keys set by the auth middlewares.
const (
	ctxUserID   = "userID"
	ctxUserName = "userName"
	ctxUserRole = "userRole"
)

func tokenFromHeader(c *gin.Context) string {
	h := c.GetHeader(constants.HeaderAuthorization)
	if strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimPrefix(h, constants.BearerPrefix)
	}
	return ""
}

// AuthRequired validates the bearer access token and injects identity into
// the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromHeader(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(ctxUserID, claims.Sub)
		c.Set(ctxUserName, claims.Name)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present and lets the
// request continue as a guest otherwise. Used for guest-capable endpoints
// like order creation.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromHeader(c); token != "" {
			if claims, err := ParseAccessToken(token); err == nil {
				c.Set(ctxUserID, claims.Sub)
				c.Set(ctxUserName, claims.Name)
				c.Set(ctxUserRole, claims.Role)
			}
		}
		c.Next()
	}
}

// AdminRequired gates a route to admin users. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrAdminOnly})
			return
		}
		c.Next()
	}
}

// sessionUserID returns the authenticated user's numeric id, or false when
// the request is unauthenticated or carries a malformed subject.
func sessionUserID(c *gin.Context) (uint, bool) {
	sub := c.GetString(ctxUserID)
	if sub == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// sessionUser loads the authenticated user's record, if any.
func sessionUser(c *gin.Context, repo storage.Repository) *model.User {
	id, ok := sessionUserID(c)
	if !ok {
		return nil
	}
	u, err := repo.GetUserByID(id)
	if err != nil {
		return nil
	}
	return u
}
