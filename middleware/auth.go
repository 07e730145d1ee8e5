package middleware

import (
	"github.com/gin-gonic/gin"

	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/utils"
)

const (
	userKey    = "current_user"
	sessionKey = "current_session"
)

// Abort answers with the mapped status and message of err.
func Abort(c *gin.Context, err error) {
	he := services.MapErrorToHTTP(err)
	if he.Code == "INTERNAL_ERROR" {
		_ = c.Error(err)
	}
	utils.ErrorResponse(c, he.StatusCode, he.Message, he.Code)
}

// RequireAuth resolves the bearer token to a live session and stores its user on the context.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.BearerToken(c.GetHeader("Authorization"))
		user, session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			Abort(c, err)
			return
		}
		c.Set(userKey, user)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// CurrentSession returns the session behind the request token.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}

// RequireAdmin rejects callers that are not administrators.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.IsAdmin(CurrentUser(c)) {
			Abort(c, &services.Error{Kind: services.ErrForbidden, Msg: "Admins only."})
			return
		}
		c.Next()
	}
}

// RequireClient rejects administrators from client-only actions with message.
func RequireClient(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if services.IsAdmin(CurrentUser(c)) {
			Abort(c, &services.Error{Kind: services.ErrForbidden, Msg: message})
			return
		}
		c.Next()
	}
}
