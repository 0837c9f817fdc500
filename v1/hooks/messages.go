package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/utils"
)

type MessagesPostReq struct {
	RoomID uint64 `json:"room_id"`
	Body   string `json:"body"`
}

func MessagesPost(messagesService *services.MessagesService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req MessagesPostReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Post the message as the caller
		message, err := messagesService.PostMessage(utils.CtxGetUser(c), req.RoomID, req.Body)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": serializeMessage(message),
		})

	}
}

type MessagesDeleteReq struct {
	MessageID uint64 `json:"message_id"`
}

func MessagesDelete(messagesService *services.MessagesService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req MessagesDeleteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Delete the message if the caller wrote it
		if err := messagesService.DeleteMessage(utils.CtxGetUser(c), req.MessageID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
