// Package web serves the server-rendered pages of the site
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/models"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/middleware"
	"github.com/godocompany/roomboard/v1/utils"
)

//go:embed templates/*.html
var templatesFS embed.FS

const loginPath = "/login/"

// Site is the HTML front end. It holds the services every page handler needs.
type Site struct {
	AccountsService   *services.AccountsService
	AuthTokensService *services.AuthTokensService
	RoomsService      *services.RoomsService
	MessagesService   *services.MessagesService
	ProfilesService   *services.ProfilesService
	SessionTTL        time.Duration
	CookieSecure      bool
}

// Setup loads the page templates and mounts the site routes on the engine
func (s *Site) Setup(r *gin.Engine) {

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	g := r.Group("/")
	g.Use(middleware.CheckAuth(s.AuthTokensService))

	// Pages open to everyone
	g.GET("/login/", s.LoginPage)
	g.POST("/login/", s.Login)
	g.GET("/register/", s.RegisterPage)
	g.POST("/register/", s.Register)
	g.GET("/logout/", s.Logout)
	g.GET("/", s.Home)
	g.GET("/room/:id/", s.RoomPage)
	g.GET("/profile/:id/", s.ProfilePage)

	// Pages that need a logged in user
	auth := g.Group("/")
	auth.Use(middleware.RedirectToLogin(loginPath))
	auth.POST("/room/:id/", s.PostMessage)
	auth.GET("/create-form/", s.CreateRoomPage)
	auth.POST("/create-form/", s.CreateRoom)
	auth.GET("/update-form/:id", s.UpdateRoomPage)
	auth.POST("/update-form/:id", s.UpdateRoom)
	auth.GET("/delete-form/:id", s.DeleteRoomPage)
	auth.POST("/delete-form/:id", s.DeleteRoom)
	auth.GET("/delete-message/:id", s.DeleteMessagePage)
	auth.POST("/delete-message/:id", s.DeleteMessage)

}

// render renders a page, adding the current user for the navigation bar
func (s *Site) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["currentUser"] = utils.CtxGetUser(c)
	c.HTML(status, name, data)
}

// fail responds to a failed service call in the way a browser expects
func (s *Site) fail(c *gin.Context, err error) {
	var ferr *services.ForbiddenError
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.Redirect(http.StatusFound, loginPath)
	case errors.Is(err, services.ErrNotFound):
		s.render(c, http.StatusNotFound, "not_found.html", nil)
	case errors.As(err, &ferr):
		c.String(http.StatusForbidden, ferr.Reason)
	default:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

// problems gets the messages of a validation error, or nil for any other error
func problems(err error) []string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return nil
}

// pathID parses the :id path parameter. Malformed ids are reported as not found.
func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, services.ErrNotFound
	}
	return id, nil
}

// startSession issues a session token for the user and stores it in the cookie
func (s *Site) startSession(c *gin.Context, user *models.User) error {
	now := time.Now()
	token, err := s.AuthTokensService.CreateToken(user, now, now.Add(s.SessionTTL))
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(s.SessionTTL.Seconds()), "/", "", s.CookieSecure, true)
	return nil
}

// endSession removes the session cookie
func (s *Site) endSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", s.CookieSecure, true)
}
