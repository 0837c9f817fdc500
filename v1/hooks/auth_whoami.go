package hooks

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/models"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/utils"
)

func AuthWhoAmI(
	authTokensService *services.AuthTokensService,
	tokenTTL time.Duration,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the user from the request
		user := utils.CtxGetUser(c)

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

func serializeWhoAmI(
	user *models.User,
	authTokensService *services.AuthTokensService,
	tokenTTL time.Duration,
) (map[string]interface{}, error) {

	// Return nil if the user is nil
	if user == nil {
		return nil, errors.New("something went wrong")
	}

	// Create an authentication token for the user
	now := time.Now()
	token, err := authTokensService.CreateToken(
		user,
		now,
		now.Add(tokenTTL),
	)
	if err != nil {
		return nil, err
	}

	// Return the map of whoami info
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"token":    token,
	}, nil
}
