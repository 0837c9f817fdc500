package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/v1/utils"
)

// PostMessage posts the submitted message in the room
func (s *Site) PostMessage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	_, err = s.MessagesService.PostMessage(utils.CtxGetUser(c), id, c.PostForm("body"))
	if p := problems(err); p != nil {
		room, gerr := s.RoomsService.GetRoom(id)
		if gerr != nil {
			s.fail(c, gerr)
			return
		}
		s.renderRoom(c, http.StatusOK, room, p)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/room/%d/", id))
}

// DeleteMessagePage asks the author to confirm deleting the message
func (s *Site) DeleteMessagePage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	message, err := s.MessagesService.MessageForDelete(utils.CtxGetUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "delete.html", gin.H{
		"obj":    message.Body,
		"action": fmt.Sprintf("/delete-message/%d", message.ID),
	})
}

// DeleteMessage deletes the message once confirmed
func (s *Site) DeleteMessage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.MessagesService.DeleteMessage(utils.CtxGetUser(c), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
