package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/models"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/utils"
)

// Home lists the rooms matching the q query parameter
func (s *Site) Home(c *gin.Context) {
	q := c.Query("q")
	listing, err := s.RoomsService.ListRooms(q)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "home.html", gin.H{
		"q":            q,
		"rooms":        listing.Rooms,
		"roomCount":    listing.Count,
		"topics":       listing.Topics,
		"roomMessages": listing.Messages,
	})
}

// renderRoom renders a room with its messages and participants
func (s *Site) renderRoom(c *gin.Context, status int, room *models.Room, errs []string) {
	messages, err := s.MessagesService.ListRoomMessages(room.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, status, "room.html", gin.H{
		"room":         room,
		"roomMessages": messages,
		"participants": room.Participants,
		"errors":       errs,
	})
}

// RoomPage shows a room
func (s *Site) RoomPage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	room, err := s.RoomsService.GetRoom(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderRoom(c, http.StatusOK, room, nil)
}

// renderRoomForm renders the create/update form
func (s *Site) renderRoomForm(c *gin.Context, room *models.Room, errs []string) {
	topics, err := s.RoomsService.ListTopics()
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "room_form.html", gin.H{
		"room":   room,
		"topics": topics,
		"errors": errs,
	})
}

func roomFieldsFromForm(c *gin.Context) services.RoomFields {
	return services.RoomFields{
		TopicName:   c.PostForm("topic"),
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
}

// CreateRoomPage renders an empty room form
func (s *Site) CreateRoomPage(c *gin.Context) {
	s.renderRoomForm(c, nil, nil)
}

// CreateRoom creates a room hosted by the current user
func (s *Site) CreateRoom(c *gin.Context) {
	_, err := s.RoomsService.CreateRoom(utils.CtxGetUser(c), roomFieldsFromForm(c))
	if p := problems(err); p != nil {
		s.renderRoomForm(c, nil, p)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// UpdateRoomPage renders the room form filled in with the room's fields
func (s *Site) UpdateRoomPage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	room, err := s.RoomsService.RoomForEdit(utils.CtxGetUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderRoomForm(c, room, nil)
}

// UpdateRoom saves the edited room
func (s *Site) UpdateRoom(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	_, err = s.RoomsService.UpdateRoom(utils.CtxGetUser(c), id, roomFieldsFromForm(c))
	if p := problems(err); p != nil {
		current, gerr := s.RoomsService.GetRoom(id)
		if gerr != nil {
			s.fail(c, gerr)
			return
		}
		s.renderRoomForm(c, current, p)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// DeleteRoomPage asks the host to confirm deleting the room
func (s *Site) DeleteRoomPage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	room, err := s.RoomsService.RoomForDelete(utils.CtxGetUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "delete.html", gin.H{
		"obj":    room.Name,
		"action": fmt.Sprintf("/delete-form/%d", room.ID),
	})
}

// DeleteRoom deletes the room once confirmed
func (s *Site) DeleteRoom(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.RoomsService.DeleteRoom(utils.CtxGetUser(c), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
