package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/utils"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "session"

// tokenFromRequest gets the session token from the Authorization header, or
// from the session cookie when there is no header
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); len(header) > 0 {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}

// CheckAuth resolves the session token on the request, if any, and stores the
// user it belongs to on the context. Requests without a valid token continue
// anonymously.
func CheckAuth(authTokensService *services.AuthTokensService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the token from the request
		token := tokenFromRequest(c)
		if len(token) == 0 {
			c.Next()
			return
		}

		// Find the user for the token
		user, err := authTokensService.GetUserForToken(token)
		if err != nil && err != services.ErrInvalidToken {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if user != nil {
			utils.CtxSetUser(c, user)
		}
		c.Next()

	}
}

// RequireLogin rejects anonymous requests with a 401 JSON error
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.CtxGetUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RedirectToLogin sends anonymous requests to the login page
func RedirectToLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.CtxGetUser(c) == nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
