package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
)

type ProfilesGetReq struct {
	UserID uint64 `json:"user_id"`
}

func ProfilesGet(profilesService *services.ProfilesService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ProfilesGetReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		profile, err := profilesService.GetProfile(req.UserID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"user":     serializeUser(profile.User),
				"rooms":    serializeRooms(profile.Rooms),
				"messages": serializeMessages(profile.Messages),
				"topics":   serializeTopics(profile.Topics),
			},
		})

	}
}
