package hooks

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
)

type AuthLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func AuthLogin(
	accountsService *services.AccountsService,
	authTokensService *services.AuthTokensService,
	tokenTTL time.Duration,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req AuthLoginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Find the user with the provided username and password
		user, err := accountsService.FindByLogin(
			req.Username,
			req.Password,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if user == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect username or password"})
			return
		}

		// Serialize the whoami info
		whoami, err := serializeWhoAmI(
			user,
			authTokensService,
			tokenTTL,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Return the whoami info for this user
		c.JSON(http.StatusOK, gin.H{
			"data": whoami,
		})

	}
}
