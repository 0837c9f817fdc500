package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/utils"
)

type RoomsListReq struct {
	Query string `json:"q"`
}

func RoomsList(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomsListReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Search the rooms
		listing, err := roomsService.ListRooms(req.Query)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"rooms":    serializeRooms(listing.Rooms),
				"count":    listing.Count,
				"topics":   serializeTopics(listing.Topics),
				"messages": serializeMessages(listing.Messages),
			},
		})

	}
}

type RoomIDReq struct {
	RoomID uint64 `json:"room_id"`
}

func RoomsGet(
	roomsService *services.RoomsService,
	messagesService *services.MessagesService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomIDReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Get the room and its messages
		room, err := roomsService.GetRoom(req.RoomID)
		if err != nil {
			respondError(c, err)
			return
		}
		messages, err := messagesService.ListRoomMessages(room.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"room":     serializeRoom(room),
				"messages": serializeMessages(messages),
			},
		})

	}
}

type RoomFieldsReq struct {
	RoomID      uint64 `json:"room_id"`
	Topic       string `json:"topic"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *RoomFieldsReq) fields() services.RoomFields {
	return services.RoomFields{
		TopicName:   r.Topic,
		Name:        r.Name,
		Description: r.Description,
	}
}

func RoomsCreate(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomFieldsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Create the room hosted by the caller
		room, err := roomsService.CreateRoom(utils.CtxGetUser(c), req.fields())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": serializeRoom(room),
		})

	}
}

func RoomsUpdate(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomFieldsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Update the room if the caller hosts it
		room, err := roomsService.UpdateRoom(utils.CtxGetUser(c), req.RoomID, req.fields())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": serializeRoom(room),
		})

	}
}

func RoomsDelete(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomIDReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Delete the room if the caller hosts it
		if err := roomsService.DeleteRoom(utils.CtxGetUser(c), req.RoomID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
