package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/models"
)

const ctxUserKey = "roomboard.user"

// CtxSetUser stores the authenticated user on the request context
func CtxSetUser(c *gin.Context, user *models.User) {
	c.Set(ctxUserKey, user)
}

// CtxGetUser gets the authenticated user from the request context, or nil
// if the request is anonymous
func CtxGetUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
