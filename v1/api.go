package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/hooks"
	"github.com/godocompany/roomboard/v1/middleware"
)

// Server is the API server instance
type Server struct {
	AccountsService   *services.AccountsService
	AuthTokensService *services.AuthTokensService
	RoomsService      *services.RoomsService
	MessagesService   *services.MessagesService
	ProfilesService   *services.ProfilesService
	TokenTTL          time.Duration
}

// Setup mounts the API server to the given group
func (s *Server) Setup(g *gin.RouterGroup) {

	// Register middleware for all routes
	g.Use(middleware.CheckAuth(s.AuthTokensService))

	// Register all of the public hooks that require no authentication
	s.setupPublicHooks(g)

	// Register authenticated hooks
	s.setupAuthenticatedHooks(g)

}

// setupPublicHooks mounts API hooks that are publicly accessible
func (s *Server) setupPublicHooks(g *gin.RouterGroup) {

	// Register public API routes
	g.POST("/app/get-state", hooks.AppState(s.RoomsService))
	g.POST("/auth/login", hooks.AuthLogin(
		s.AccountsService,
		s.AuthTokensService,
		s.TokenTTL,
	))
	g.POST("/auth/register", hooks.AuthRegister(
		s.AccountsService,
		s.AuthTokensService,
		s.TokenTTL,
	))
	g.POST("/rooms/list", hooks.RoomsList(s.RoomsService))
	g.POST("/rooms/get", hooks.RoomsGet(
		s.RoomsService,
		s.MessagesService,
	))
	g.POST("/profiles/get", hooks.ProfilesGet(s.ProfilesService))

}

// setupAuthenticatedHooks mounts API hooks that require authentication
func (s *Server) setupAuthenticatedHooks(g *gin.RouterGroup) {

	// Require login for everything after this
	g.Use(middleware.RequireLogin())

	// Register authenticated API routes
	g.POST("/auth/whoami", hooks.AuthWhoAmI(
		s.AuthTokensService,
		s.TokenTTL,
	))
	g.POST("/rooms/create", hooks.RoomsCreate(s.RoomsService))
	g.POST("/rooms/update", hooks.RoomsUpdate(s.RoomsService))
	g.POST("/rooms/delete", hooks.RoomsDelete(s.RoomsService))
	g.POST("/messages/post", hooks.MessagesPost(s.MessagesService))
	g.POST("/messages/delete", hooks.MessagesDelete(s.MessagesService))

}
