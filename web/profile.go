package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProfilePage shows the rooms and messages of a user
func (s *Site) ProfilePage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	profile, err := s.ProfilesService.GetProfile(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "profile.html", gin.H{
		"user":         profile.User,
		"rooms":        profile.Rooms,
		"roomMessages": profile.Messages,
		"topics":       profile.Topics,
	})
}
