package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/utils"
)

func AppState(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the topics for the sidebar
		topics, err := roomsService.ListTopics()
		if err != nil {
			respondError(c, err)
			return
		}

		// Return the app state
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"user":   serializeUser(utils.CtxGetUser(c)),
				"topics": serializeTopics(topics),
			},
		})

	}
}
