package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tanim0x/snapnest/backend/internal/models"
	"github.com/tanim0x/snapnest/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository // To expand the author reference in the response
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo) {
	e.POST("/comment/:id", h.CreateComment)
}

// CreateComment appends a comment to a post and returns just the new
// comment with its author expanded. The post check runs before the user
// lookup so a bad post ID never touches the users collection.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	author, err := h.userRepository.GetUserByID(c.Request().Context(), req.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    author.ID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}

	if err := h.postRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, models.PopulatedComment{
		ID:        comment.ID,
		User:      author.Ref(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	})
}
