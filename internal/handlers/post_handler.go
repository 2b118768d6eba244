package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanim0x/snapnest/backend/internal/models"
	"github.com/tanim0x/snapnest/backend/internal/repositories"
	"github.com/tanim0x/snapnest/backend/pkg/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository // To expand owner/author references on reads
	store          *storage.LocalStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, store *storage.LocalStore) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		store:          store,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo) {
	e.POST("/CreatePost", h.CreatePost)
	e.GET("/getPosts", h.GetPosts)
	e.DELETE("/deletePost/:id", h.DeletePost)
}

// CreatePost creates a new post from a multipart form with an optional
// image. The owning user must exist.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	owner, err := h.userRepository.GetUserByID(c.Request().Context(), req.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var image string
	if fh, err := c.FormFile("image"); err == nil {
		image, err = h.store.Save(fh, "image")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	post := &models.Post{
		Title:       req.Title,
		Description: req.Description,
		Image:       image,
		UserID:      owner.ID,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		// Don't leave the image orphaned when the insert fails.
		if image != "" {
			h.store.Remove(image)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPosts lists a user's posts in creation order with the owner and
// every comment author expanded to {username, profilePhoto}.
func (h *PostHandler) GetPosts(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId query parameter is required")
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), ownerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// One $in query covers the owner and all comment authors.
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	collect := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		collect(p.UserID)
		for _, cm := range p.Comments {
			collect(cm.UserID)
		}
	}

	refs, err := h.lookupRefs(c, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	populated := make([]models.PopulatedPost, 0, len(posts))
	for _, p := range posts {
		comments := make([]models.PopulatedComment, 0, len(p.Comments))
		for _, cm := range p.Comments {
			comments = append(comments, models.PopulatedComment{
				ID:        cm.ID,
				User:      refs[cm.UserID],
				Text:      cm.Text,
				CreatedAt: cm.CreatedAt,
			})
		}
		populated = append(populated, models.PopulatedPost{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Image:       p.Image,
			User:        refs[p.UserID],
			Likes:       p.Likes,
			Comments:    comments,
			CreatedAt:   p.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, populated)
}

// DeletePost deletes a post and removes its image file from disk
func (h *PostHandler) DeletePost(c echo.Context) error {
	post, err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Best effort: the post is already gone, so only log a failure.
	if post.Image != "" {
		if err := h.store.Remove(post.Image); err != nil {
			log.Printf("Failed to remove image %s for deleted post: %v", post.Image, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// lookupRefs fetches the given users and maps their IDs to display refs
func (h *PostHandler) lookupRefs(c echo.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[primitive.ObjectID]models.UserRef, len(users))
	for _, u := range users {
		refs[u.ID] = u.Ref()
	}
	return refs, nil
}
