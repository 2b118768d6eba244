package router

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/tanim0x/snapnest/backend/internal/handlers"
	"github.com/tanim0x/snapnest/backend/internal/repositories"
	"github.com/tanim0x/snapnest/backend/pkg/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = httpErrorHandler
	log.Println("Global middleware configured.")
}

// httpErrorHandler renders every failure as the same JSON shape. 5xx
// details stay in the server log; the client only sees a generic
// message.
func httpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if code >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
		msg = "Internal server error"
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}
	if err := c.JSON(code, map[string]interface{}{"success": false, "error": msg}); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, store *storage.LocalStore) {
	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	log.Println("Unique user indexes ensured.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded files served straight from the upload directory
	e.Static("/uploads", store.Dir())

	// Auth routes
	authHandler := handlers.NewAuthHandler(userRepo, store)
	authHandler.RegisterAuthRoutes(e)
	log.Println("Auth routes configured.")

	// User routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(e)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, store)
	postHandler.RegisterPostRoutes(e)
	log.Println("Post routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(postRepo)
	likeHandler.RegisterLikeRoutes(e)
	log.Println("Like routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(postRepo, userRepo)
	commentHandler.RegisterCommentRoutes(e)
	log.Println("Comment routes configured.")

	log.Println("All routes configured.")
}
