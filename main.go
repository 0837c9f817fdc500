package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/config"
	"github.com/godocompany/roomboard/models"
	"github.com/godocompany/roomboard/services"
	v1 "github.com/godocompany/roomboard/v1"
	"github.com/godocompany/roomboard/v1/middleware"
	"github.com/godocompany/roomboard/web"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:          "roomboard",
	Short:        "Serve the roomboard discussion rooms site",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.Debug)
		if err != nil {
			return err
		}
		defer log.Sync()

		if _, err := openDatabase(cfg); err != nil {
			return err
		}
		log.Info("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to the .env file")
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the production logger, at debug level when requested
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// openDatabase connects to the configured database and migrates the schema
func openDatabase(cfg *config.Config) (*gorm.DB, error) {

	// Get the database driver for the database string
	dbDriver := config.ParseDatabaseDriver(cfg.DatabaseURL)
	if dbDriver == nil {
		return nil, errors.New("failed to create database driver. Check DB_URL environment variable")
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	// Create the database connection
	db, err := gorm.Open(dbDriver, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	// Migrate the schema
	if err := models.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil

}

func serve() error {

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	//================================================================================
	// Create the database connection
	//================================================================================

	db, err := openDatabase(cfg)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return err
	}

	//================================================================================
	// Setup the WebSockets server
	//================================================================================

	socketIoServer := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{
				CheckOrigin: checkOrigin(cfg.AllowedOrigins),
			},
			&websocket.Transport{
				CheckOrigin: checkOrigin(cfg.AllowedOrigins),
			},
		},
	})
	go func() {
		if err := socketIoServer.Serve(); err != nil {
			log.Error("socket.io server stopped", zap.Error(err))
		}
	}()
	defer socketIoServer.Close()

	//================================================================================
	// Create all the service instances
	//================================================================================

	accountsService := &services.AccountsService{DB: db}
	authTokensService := &services.AuthTokensService{
		DB:            db,
		SigningPepper: cfg.SigningPepper,
	}
	roomsService := &services.RoomsService{DB: db}
	profilesService := &services.ProfilesService{DB: db}
	socketsService := &services.SocketsService{
		Server:       socketIoServer,
		RoomsService: roomsService,
		Logger:       log.Named("sockets"),
	}
	roomsService.Events = socketsService
	messagesService := &services.MessagesService{
		DB:     db,
		Events: socketsService,
	}
	socketsService.Setup()

	//================================================================================
	// Setup the Gin HTTP router
	//================================================================================

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))

	// Create the API instance
	api := &v1.Server{
		AccountsService:   accountsService,
		AuthTokensService: authTokensService,
		RoomsService:      roomsService,
		MessagesService:   messagesService,
		ProfilesService:   profilesService,
		TokenTTL:          cfg.SessionTTL,
	}

	// Mount the API routes, with CORS for browser clients on other origins
	apiGroup := r.Group("v1")
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Accept", "User-Agent", "Authorization")
	if len(corsCfg.AllowOrigins) > 0 {
		apiGroup.Use(cors.New(corsCfg))
	}
	api.Setup(apiGroup)

	// Mount the site pages
	site := &web.Site{
		AccountsService:   accountsService,
		AuthTokensService: authTokensService,
		RoomsService:      roomsService,
		MessagesService:   messagesService,
		ProfilesService:   profilesService,
		SessionTTL:        cfg.SessionTTL,
		CookieSecure:      cfg.CookieSecure,
	}
	site.Setup(r)

	// Create a mux to serve both the HTTP and Socket.IO servers
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", socketIoServer)
	mux.Handle("/", r)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Run the server until we are asked to stop
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.Error("http server error", zap.Error(err))
		return err
	case <-sigChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
		return err
	}
	log.Info("graceful shutdown complete")
	return nil

}

// checkOrigin builds the socket.io origin check for the allowed origins. An
// empty list only allows same-origin requests.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if len(origin) == 0 {
			return true
		}
		if origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}
