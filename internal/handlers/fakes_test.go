package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tanim0x/snapnest/backend/internal/models"
	"github.com/tanim0x/snapnest/backend/internal/repositories"
	"github.com/tanim0x/snapnest/backend/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository for handler tests
type fakeUserRepo struct {
	users   []*models.User
	lookups int // GetUserByID calls, to verify ordering of existence checks
}

func (f *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicateUser
		}
	}
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.lookups++
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	for _, u := range f.users {
		if u.ID == objID {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

// fakePostRepo is an in-memory PostRepository preserving insertion order
type fakePostRepo struct {
	posts []*models.Post
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}
	for _, p := range f.posts {
		if p.ID == objID {
			return p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (f *fakePostRepo) GetPostsByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) DeletePost(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}
	for i, p := range f.posts {
		if p.ID == objID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (f *fakePostRepo) ToggleLike(ctx context.Context, postID string, userID primitive.ObjectID) (*models.Post, error) {
	post, err := f.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i, id := range post.Likes {
		if id == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return post, nil
		}
	}
	post.Likes = append(post.Likes, userID)
	return post, nil
}

func (f *fakePostRepo) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	post, err := f.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	post.Comments = append(post.Comments, *comment)
	return nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// jsonContext builds an echo context for a JSON request
func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// httpStatus extracts the status code from a handler error
func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	if err == nil {
		return 0
	}
	return http.StatusInternalServerError
}
