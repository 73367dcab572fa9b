package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"observation-tracker/internal/cache"
	"observation-tracker/internal/config"
	"observation-tracker/internal/contact"
	"observation-tracker/internal/db"
	"observation-tracker/internal/middleware"
	"observation-tracker/internal/notify"
	"observation-tracker/internal/observation"
	"observation-tracker/internal/photo"
	"observation-tracker/internal/user"
	"observation-tracker/internal/worker"
)

var publicIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

func main() {
	// Load configuration
	config.LoadConfig()

	setupLogger()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	if config.AppConfig.Environment == "development" {
		// Seed auto-recipient users so observation creation works locally
		db.SeedData()
	}

	// List cache (optional, runs without redis)
	listCache := cache.New(config.AppConfig.RedisAddress)

	// Photo storage
	storage, err := photo.NewS3Storage(context.Background(), config.AppConfig.PhotoBucket, config.AppConfig.PhotoRegion)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize photo storage")
	}

	// Notification pipeline: SMTP dispatcher fed by the worker pool
	pool := worker.NewWorkerPool(4)
	dispatcher := notify.NewSMTPDispatcher(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPassword,
		config.AppConfig.MailFrom,
	)
	queue := notify.NewQueue(pool, dispatcher)

	// Initialize repositories
	userRepo := user.NewRepository(db.AppDb)
	obsRepo := observation.NewRepository(db.AppDb)
	contactRepo := contact.NewRepository(db.AppDb)

	// Initialize services
	userService := user.NewService(userRepo, storage)
	obsService := observation.NewService(obsRepo, userRepo, queue, storage, listCache, config.AppConfig.AutoRecipientIDs)
	contactService := contact.NewService(contactRepo, userRepo)

	// Initialize handlers
	userHandler := user.NewHandler(userService)
	obsHandler := observation.NewHandler(obsService)
	contactHandler := contact.NewHandler(contactService)

	cleaner := photo.NewCleaner(obsRepo, storage, config.AppConfig.RetentionDays)

	authMw := &middleware.Auth{
		UserService: userService,
		CronSecret:  config.AppConfig.CronSecret,
	}

	registerValidators()

	// Initialize Gin router
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}
	if config.AppConfig.Environment == "development" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{"https://observation-tracker.example.com"}
	}
	router.Use(cors.New(corsConfig))

	// User routes
	router.POST("/signup", userHandler.Signup)
	router.POST("/login", userHandler.Login)
	router.GET("/profile", authMw.AuthMiddleWare(), userHandler.GetProfile)
	router.PUT("/profile", authMw.AuthMiddleWare(), userHandler.UpdateProfile)

	// Personal notebook routes
	router.GET("/notebook", authMw.AuthMiddleWare(), contactHandler.List)
	router.POST("/notebook", authMw.AuthMiddleWare(), contactHandler.Add)
	router.DELETE("/notebook/:id", authMw.AuthMiddleWare(), contactHandler.Remove)

	// Observation routes
	router.POST("/observations", authMw.AuthMiddleWare(), obsHandler.Create)
	router.GET("/observations", authMw.AuthMiddleWare(), obsHandler.List)
	router.GET("/observations/:observationId", authMw.AuthMiddleWare(), obsHandler.Show)
	router.POST("/observations/revise", authMw.AuthMiddleWare(), obsHandler.Revise)

	// internal use routes
	router.GET("/internal/cleanup", authMw.CronAuthMiddleware(), photo.CleanupHandler(cleaner))

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info().Str("port", serverPort).Msg("Server listening")
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	// Drain pending notifications before exit
	pool.Shutdown()

	log.Info().Msg("Server shutdown complete")
}

func setupLogger() {
	if config.AppConfig.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("publicid", func(fl validator.FieldLevel) bool {
			return publicIDPattern.MatchString(fl.Field().String())
		})
	}
}
