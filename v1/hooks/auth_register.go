package hooks

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
)

type AuthRegisterReq struct {
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

func AuthRegister(
	accountsService *services.AccountsService,
	authTokensService *services.AuthTokensService,
	tokenTTL time.Duration,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req AuthRegisterReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Create the user
		user, err := accountsService.Register(req.Username, req.Password1, req.Password2)
		if err != nil {
			respondError(c, err)
			return
		}

		// New users are logged in right away
		whoami, err := serializeWhoAmI(user, authTokensService, tokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": whoami,
		})

	}
}
