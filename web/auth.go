package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/v1/utils"
)

// LoginPage renders the login form. Logged in users go straight home.
func (s *Site) LoginPage(c *gin.Context) {
	if utils.CtxGetUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	s.render(c, http.StatusOK, "login_register.html", gin.H{"page": "login"})
}

// Login checks the submitted credentials and starts a session
func (s *Site) Login(c *gin.Context) {
	if utils.CtxGetUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	// Tell the user apart from a bad password
	existing, err := s.AccountsService.GetUserByUsername(username)
	if err != nil {
		s.fail(c, err)
		return
	}
	if existing == nil {
		s.render(c, http.StatusOK, "login_register.html", gin.H{
			"page":   "login",
			"errors": []string{"User does not exist"},
		})
		return
	}

	user, err := s.AccountsService.FindByLogin(username, password)
	if err != nil {
		s.fail(c, err)
		return
	}
	if user == nil {
		s.render(c, http.StatusOK, "login_register.html", gin.H{
			"page":   "login",
			"errors": []string{"Username or password does not exist"},
		})
		return
	}

	if err := s.startSession(c, user); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout ends the session and goes home
func (s *Site) Logout(c *gin.Context) {
	s.endSession(c)
	c.Redirect(http.StatusFound, "/")
}

// RegisterPage renders the registration form
func (s *Site) RegisterPage(c *gin.Context) {
	s.render(c, http.StatusOK, "login_register.html", gin.H{"page": "register"})
}

// Register creates the account and logs the new user in
func (s *Site) Register(c *gin.Context) {
	user, err := s.AccountsService.Register(
		c.PostForm("username"),
		c.PostForm("password1"),
		c.PostForm("password2"),
	)
	if p := problems(err); p != nil {
		s.render(c, http.StatusOK, "login_register.html", gin.H{
			"page":   "register",
			"errors": p,
		})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := s.startSession(c, user); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
