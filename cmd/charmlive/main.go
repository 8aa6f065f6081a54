package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/template"
	"time"

	"charmlive/internal/handlers"
	"charmlive/internal/middleware"
	"charmlive/internal/platform"
	"charmlive/internal/rooms"
	"charmlive/internal/store"
	"charmlive/internal/updater"
	"charmlive/internal/utils"
	"charmlive/internal/version"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type App struct {
	store       *store.Store
	service     *rooms.Service
	client      *platform.Client
	authService *middleware.AuthService
	wsHub       *middleware.Hub
	rateLimiter *middleware.RateLimiter
	logger      *utils.Logger
	tlsEnabled  bool
	tlsCertPath string
	tlsKeyPath  string
}

var app *App

const (
	envAddr    = "CHARMLIVE_ADDR"
	envDataDir = "CHARMLIVE_DATA_DIR"
	envAPIBase = "CHARMLIVE_API_BASE"
	envUseTLS  = "CHARMLIVE_USE_TLS"
	envTLSCert = "CHARMLIVE_TLS_CERT"
	envTLSKey  = "CHARMLIVE_TLS_KEY"
)

func envBool(key string) bool {
	val := os.Getenv(key)
	if val == "" {
		return false
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return parsed
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func main() {
	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	paths := utils.NewPaths(envOr(envDataDir, "data"))
	if err := paths.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	logger := utils.NewLogger(paths.LogFile())
	defer logger.Close()

	st := store.New(paths, logger)
	if err := st.InitFiles(); err != nil {
		log.Fatalf("Failed to initialize data files: %v", err)
	}

	client := platform.NewClient(os.Getenv(envAPIBase), &http.Client{})

	app = &App{
		store:       st,
		client:      client,
		service:     rooms.NewService(client, st.RoomCache, logger),
		authService: middleware.NewAuthService(),
		wsHub:       middleware.NewHub(logger),
		rateLimiter: middleware.NewRateLimiter(rate.Every(time.Minute/100), 10),
		logger:      logger,
		tlsEnabled:  envBool(envUseTLS),
		tlsCertPath: os.Getenv(envTLSCert),
		tlsKeyPath:  os.Getenv(envTLSKey),
	}

	// Start WebSocket hub
	go app.wsHub.Run()

	// Start the cron-scheduled cache refresher
	updaterCtx, cancelUpdater := context.WithCancel(context.Background())
	defer cancelUpdater()
	backgroundUpdater, err := updater.Initialize(updaterCtx, app.service, app.wsHub, logger)
	if err != nil {
		log.Fatalf("Failed to start background refresher: %v", err)
	}

	r := setupRouter()

	srv := &http.Server{
		Addr:           envOr(envAddr, ":5000"),
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	if app.tlsEnabled {
		if app.tlsCertPath == "" || app.tlsKeyPath == "" {
			log.Fatalf("%s is enabled but %s or %s not provided", envUseTLS, envTLSCert, envTLSKey)
		}
		go func() {
			log.Printf("Starting HTTPS server on %s", srv.Addr)
			if err := srv.ListenAndServeTLS(app.tlsCertPath, app.tlsKeyPath); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTPS server failed to start: %v", err)
			}
		}()
	} else {
		go func() {
			log.Printf("Starting CharmLive %s on %s", version.String(), srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed to start: %v", err)
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	backgroundUpdater.Stop()
	cancelUpdater()
	app.rateLimiter.Stop()

	// Give server 5 seconds to finish handling requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func setupRouter() *gin.Engine {
	r := gin.New()

	// Add recovery middleware
	r.Use(gin.Recovery())

	// Add custom logging middleware
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))

	// Security middleware
	r.Use(middleware.SecurityHeaders())

	// Rate limiting - 100 requests per minute per IP
	r.Use(app.rateLimiter.Middleware())

	// Load templates
	r.SetFuncMap(template.FuncMap{
		"formatDuration": platform.FormatDuration,
		"lower":          strings.ToLower,
		"has": func(slice []string, item string) bool {
			for _, s := range slice {
				if s == item {
					return true
				}
			}
			return false
		},
	})
	r.LoadHTMLGlob("templates/*")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.String()})
	})

	// Initialize handlers
	roomHandlers := handlers.NewRoomHandlers(app.service, app.client, app.store, app.wsHub, app.logger)
	dataHandlers := handlers.NewDataHandlers(app.store, app.logger)
	authHandlers := handlers.NewAuthHandlers(app.authService)
	statusHandlers := handlers.NewStatusHandlers()

	// Authentication routes (no-ops unless a password is configured)
	r.GET("/login", authHandlers.LoginGET)
	r.POST("/login", authHandlers.LoginPOST)
	r.GET("/logout", authHandlers.Logout)

	// Dashboard page
	page := r.Group("/")
	page.Use(app.authService.RequireAuth())
	{
		page.GET("/", roomHandlers.Dashboard)
	}

	// JSON API routes
	api := r.Group("/")
	api.Use(app.authService.RequireAPIAuth())
	{
		api.GET("/room/:username/summary", roomHandlers.RoomSummary)
		api.GET("/room/:username/users", roomHandlers.RoomUsers)
		api.GET("/api/refresh", roomHandlers.Refresh)
		api.GET("/api/status", statusHandlers.APIStatus)

		api.GET("/get_favorites", dataHandlers.GetFavorites)
		api.POST("/save_favorites", dataHandlers.SaveFavorites)
		api.GET("/get_notes", dataHandlers.GetNotes)
		api.POST("/save_notes", dataHandlers.SaveNotes)
		api.GET("/get_preferences", dataHandlers.GetPreferences)
		api.POST("/save_preferences", dataHandlers.SavePreferences)

		api.POST("/save_clip", dataHandlers.SaveClip)
		api.GET("/get_clips/:username", dataHandlers.GetClips)
		api.DELETE("/delete_clip/:clip_id", dataHandlers.DeleteClip)
	}

	// WebSocket endpoint
	r.GET("/ws", app.wsHub.HandleWebSocket())

	return r
}
