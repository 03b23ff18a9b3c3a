package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/artist-atlas/backend/internal/database"
	"github.com/artist-atlas/backend/internal/handlers"
	"github.com/artist-atlas/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer(db database.Service) *http.Server {
	handler := handlers.NewHandler(db.GetDB())

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Artist routes (public reads)
		api.GET("/artists", s.handler.Artist.GetArtists)
		api.GET("/artists/:id", s.handler.Artist.GetArtist)

		// Comment routes (public reads)
		api.GET("/artists/:id/comments", s.handler.Comment.GetByArtist)
		api.GET("/artists/:id/comments/thread", s.handler.Comment.GetThread)
		api.GET("/users/:id/comments", s.handler.Comment.GetByAuthor)

		// Vote routes (public reads)
		api.GET("/votes/:kind/:id", s.handler.Vote.GetByTarget)
		api.GET("/users/:id/votes/:kind", s.handler.Vote.GetByVoter)

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Artist protected routes
			protected.POST("/artists", s.handler.Artist.CreateArtist)
			protected.DELETE("/artists/:id", s.handler.Artist.DeleteArtist)

			// Comment protected routes
			protected.POST("/comments", s.handler.Comment.Create)
			protected.PUT("/comments/:id", s.handler.Comment.Update)
			protected.DELETE("/comments/:id", s.handler.Comment.Delete)

			// Vote protected routes
			protected.POST("/votes/:kind/:id", s.handler.Vote.Cast)

			// User protected routes
			protected.PUT("/users/:id", s.handler.User.UpdateUserProfile)
			protected.DELETE("/users/:id", s.handler.User.DeleteUser)
		}
	}

	return r
}
